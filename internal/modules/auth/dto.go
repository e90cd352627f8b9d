package auth

import "artfolio/internal/domain"

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32,excludes=@"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=visitor artist"`
}

// LoginRequest accepts either a username or an email in Login; Email is
// kept for clients that send the address under that key.
type LoginRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

func (r LoginRequest) identifier() string {
	if r.Login != "" {
		return r.Login
	}
	return r.Email
}

type UpdateProfileRequest struct {
	Bio            *string `json:"bio" binding:"omitempty,max=2000"`
	ProfileImage   *string `json:"profile_image" binding:"omitempty,max=1024"`
	CommissionOpen *bool   `json:"commission_open"`
}

type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}
