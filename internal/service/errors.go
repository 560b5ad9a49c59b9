package service

import "errors"

// Auth outcomes. Each maps to exactly one HTTP status at the handler layer.
var (
	ErrInvalidName    = errors.New("name too short")
	ErrPasswordLength = errors.New("password too long")
	ErrEmailInUse     = errors.New("email already in use")
	ErrUserNotFound   = errors.New("user not found")
	ErrBadCredentials = errors.New("incorrect password")
	ErrMissingToken   = errors.New("missing token")
	ErrInvalidToken   = errors.New("invalid token")
	ErrForbidden      = errors.New("access denied")
	ErrInternal       = errors.New("internal error")
)
