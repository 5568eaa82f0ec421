package service

import "errors"

var (
	// ErrNotFound covers missing, deleted and foreign links alike.
	ErrNotFound = errors.New("link not found")
	// ErrGenerationExhausted means no free short code was found within the allowed attempts.
	ErrGenerationExhausted = errors.New("short code generation exhausted")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid token")
	ErrEmailTaken          = errors.New("email already registered")
)
