package admin

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrCannotBan    = errors.New("cannot ban yourself or another admin")
	ErrInvalidRole  = errors.New("invalid role filter")
)
