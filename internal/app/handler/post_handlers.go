package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlinks/internal/app/service"
	"github.com/atinyakov/shortlinks/internal/middleware"
	"github.com/atinyakov/shortlinks/internal/models"
)

type PostHandler struct {
	links  service.LinkServiceIface
	auth   service.AuthIface
	logger *zap.Logger
}

func NewPost(links service.LinkServiceIface, auth service.AuthIface, l *zap.Logger) *PostHandler {
	return &PostHandler{
		links:  links,
		auth:   auth,
		logger: l,
	}
}

// Shorten handles POST /shorten. The caller is optional; an authenticated
// caller becomes the owner of the new link.
func (h *PostHandler) Shorten(res http.ResponseWriter, req *http.Request) {
	var request models.ShortenRequest
	if !readRequest(res, req, &request, h.logger) {
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	var owner uuid.NullUUID
	if id, ok := middleware.UserIDFromContext(req.Context()); ok {
		owner = uuid.NullUUID{UUID: id, Valid: true}
	}

	link, err := h.links.CreateLink(ctx, request.OriginalURL, owner)
	if err != nil {
		if errors.Is(err, service.ErrGenerationExhausted) {
			h.logger.Error("short code space exhausted", zap.Error(err))
		} else {
			h.logger.Error("unable to create link", zap.Error(err))
		}
		writeError(res, http.StatusInternalServerError, "failed to create short link")
		return
	}

	writeJSON(res, http.StatusCreated, models.ShortenResponse{
		ID:          link.ID,
		ShortCode:   link.ShortCode,
		ShortURL:    h.links.ShortURL(link.ShortCode),
		OriginalURL: link.OriginalURL,
	})
}

// Login handles POST /auth/login and answers with a bearer token.
func (h *PostHandler) Login(res http.ResponseWriter, req *http.Request) {
	var request models.LoginRequest
	if !readRequest(res, req, &request, h.logger) {
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	token, user, err := h.auth.Login(ctx, request.Email, request.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(res, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		writeError(res, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	writeJSON(res, http.StatusOK, models.LoginResponse{
		Token: token,
		User:  models.LoginUser{ID: user.ID, Email: user.Email},
	})
}
