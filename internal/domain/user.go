package domain

import "time"

type UserRole string

const (
	RoleVisitor UserRole = "visitor"
	RoleArtist  UserRole = "artist"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleVisitor, RoleArtist, RoleAdmin:
		return true
	}
	return false
}

// SelfAssignable reports whether a user may pick this role at registration.
func (r UserRole) SelfAssignable() bool {
	return r == RoleVisitor || r == RoleArtist
}

type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	PasswordHash   string    `json:"-"`
	Role           UserRole  `json:"role"`
	Bio            string    `json:"bio"`
	ProfileImage   string    `json:"profile_image"`
	CommissionOpen bool      `json:"commission_open"`
	Banned         bool      `json:"banned"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u *User) IsArtist() bool { return u.Role == RoleArtist }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// AcceptsCommissions is true only for artists who opened their inbox.
func (u *User) AcceptsCommissions() bool {
	return u.IsArtist() && u.CommissionOpen && !u.Banned
}

// Public strips private fields for display to other users.
func (u User) Public() User {
	u.Email = ""
	u.PasswordHash = ""
	return u
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   int64
	Role UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanManage reports whether the actor may modify a resource owned by ownerID.
func (a Actor) CanManage(ownerID int64) bool {
	return a.IsAdmin() || (a.ID != 0 && a.ID == ownerID)
}
