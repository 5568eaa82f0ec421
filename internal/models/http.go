// Package models defines the request and response bodies of the HTTP API.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ShortenRequest is the body of POST /shorten and PATCH /user/urls/{id}.
type ShortenRequest struct {
	OriginalURL string `json:"original_url" validate:"required,http_url,max=2048"`
}

// ShortenResponse is returned when a link is created.
type ShortenResponse struct {
	ID          uuid.UUID `json:"id"`
	ShortCode   string    `json:"short_code"`
	ShortURL    string    `json:"short_url"`
	OriginalURL string    `json:"original_url"`
}

// RedirectResponse answers redirect lookups made with Accept: application/json.
type RedirectResponse struct {
	Location string `json:"location"`
}

// UserURL is one entry of the owner's link listing.
type UserURL struct {
	ID          uuid.UUID `json:"id"`
	OriginalURL string    `json:"original_url"`
	ShortCode   string    `json:"short_code"`
	ShortURL    string    `json:"short_url"`
	ClickCount  int64     `json:"click_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UserURLsResponse struct {
	URLs  []UserURL `json:"urls"`
	Total int       `json:"total"`
}

type UpdateURLResponse struct {
	ID          uuid.UUID `json:"id"`
	OriginalURL string    `json:"original_url"`
	ShortCode   string    `json:"short_code"`
	ShortURL    string    `json:"short_url"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type DeleteURLResponse struct {
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginUser is the public part of the account returned on login.
type LoginUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}
