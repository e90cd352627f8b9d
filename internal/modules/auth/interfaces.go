package auth

import (
	"context"

	"artfolio/internal/domain"
	"artfolio/internal/repository"
)

// UserRepositoryInterface lists the user store methods the auth service uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, upd repository.ProfileUpdate) (*domain.User, error)
}

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}
