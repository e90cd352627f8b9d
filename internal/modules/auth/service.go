package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"artfolio/internal/domain"
	"artfolio/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Service contains all business logic for authentication and profiles
type Service struct {
	users      UserRepositoryInterface
	jwt        jwtService
	bcryptCost int
}

func NewService(users UserRepositoryInterface, jwt jwtService) *Service {
	return &Service{users: users, jwt: jwt, bcryptCost: bcrypt.DefaultCost}
}

// WithBcryptCost lowers the hashing cost; tests use bcrypt.MinCost.
func (s *Service) WithBcryptCost(cost int) *Service {
	s.bcryptCost = cost
	return s
}

const (
	minUsernameLen = 3
	maxUsernameLen = 32
)

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, string, error) {
	username := strings.TrimSpace(req.Username)
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen || strings.Contains(username, "@") {
		return nil, "", ErrInvalidUsername
	}

	role := domain.RoleVisitor
	if req.Role != "" {
		role = domain.UserRole(req.Role)
	}
	if !role.SelfAssignable() {
		return nil, "", ErrInvalidRole
	}

	hash, err := HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, "", ErrUserExists
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, string, error) {
	login := strings.TrimSpace(req.identifier())
	if login == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.users.GetByLogin(ctx, login)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if user.Banned {
		return nil, "", ErrAccountBanned
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// GetPublicProfile returns the user without private fields.
func (s *Service) GetPublicProfile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.GetCurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.GetCurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.CommissionOpen != nil && !user.IsArtist() {
		return nil, ErrNotAnArtist
	}

	upd := repository.ProfileUpdate{CommissionOpen: req.CommissionOpen}
	if req.Bio != nil {
		bio := strings.TrimSpace(*req.Bio)
		upd.Bio = &bio
	}
	if req.ProfileImage != nil {
		img := strings.TrimSpace(*req.ProfileImage)
		upd.ProfileImage = &img
	}

	updated, err := s.users.UpdateProfile(ctx, userID, upd)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}
