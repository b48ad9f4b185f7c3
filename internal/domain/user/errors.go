package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidUsername    = errors.New("username must be at least 3 characters")
	ErrInvalidPassword    = errors.New("password must be at least 6 characters")
	ErrUnauthorized       = errors.New("unauthorized")
)
