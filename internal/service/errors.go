package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("already exists")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrAccountDisabled    = errors.New("user account is deactivated")
)
