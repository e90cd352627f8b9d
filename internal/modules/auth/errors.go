package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("username or email already registered")
	ErrAccountBanned      = errors.New("account banned")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotAnArtist        = errors.New("only artists can open commissions")
	ErrInvalidRole        = errors.New("role cannot be self-assigned")
	ErrInvalidUsername    = errors.New("username must be 3 to 32 characters")
)
