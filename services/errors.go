package services

import "errors"

// Business failures returned by the service layer. Handlers map them onto
// HTTP statuses in one place; anything not in this list is treated as an
// internal error.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrInvalidState       = errors.New("invalid state")
	ErrInvalidOperation   = errors.New("invalid operation")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
