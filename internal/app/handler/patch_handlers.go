package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlinks/internal/app/service"
	"github.com/atinyakov/shortlinks/internal/middleware"
	"github.com/atinyakov/shortlinks/internal/models"
)

type PatchHandler struct {
	service service.LinkServiceIface
	logger  *zap.Logger
}

func NewPatch(s service.LinkServiceIface, l *zap.Logger) *PatchHandler {
	return &PatchHandler{
		service: s,
		logger:  l,
	}
}

// linkID reads the {id} route parameter. A value that is not a UUID cannot
// name any link, so callers answer 404 for it.
func linkID(req *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	return id, err == nil
}

// UpdateUserURL replaces the destination of one of the caller's links.
func (h *PatchHandler) UpdateUserURL(res http.ResponseWriter, req *http.Request) {
	userID, ok := middleware.UserIDFromContext(req.Context())
	if !ok {
		writeError(res, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := linkID(req)
	if !ok {
		writeError(res, http.StatusNotFound, "short URL not found")
		return
	}

	var request models.ShortenRequest
	if !readRequest(res, req, &request, h.logger) {
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	link, err := h.service.UpdateOwnedLink(ctx, userID, id, request.OriginalURL)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(res, http.StatusNotFound, "short URL not found")
			return
		}
		h.logger.Error("unable to update link", zap.Stringer("id", id), zap.Error(err))
		writeError(res, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	writeJSON(res, http.StatusOK, models.UpdateURLResponse{
		ID:          link.ID,
		OriginalURL: link.OriginalURL,
		ShortCode:   link.ShortCode,
		ShortURL:    h.service.ShortURL(link.ShortCode),
		UpdatedAt:   link.UpdatedAt,
	})
}
