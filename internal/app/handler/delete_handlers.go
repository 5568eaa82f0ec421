package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/shortlinks/internal/app/service"
	"github.com/atinyakov/shortlinks/internal/middleware"
	"github.com/atinyakov/shortlinks/internal/models"
)

type DeleteHandler struct {
	service service.LinkServiceIface
	logger  *zap.Logger
}

func NewDelete(s service.LinkServiceIface, l *zap.Logger) *DeleteHandler {
	return &DeleteHandler{
		service: s,
		logger:  l,
	}
}

// DeleteUserURL soft-deletes one of the caller's links.
func (h *DeleteHandler) DeleteUserURL(res http.ResponseWriter, req *http.Request) {
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

	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	if err := h.service.DeleteOwnedLink(ctx, userID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(res, http.StatusNotFound, "short URL not found")
			return
		}
		h.logger.Error("unable to delete link", zap.Stringer("id", id), zap.Error(err))
		writeError(res, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	writeJSON(res, http.StatusOK, models.DeleteURLResponse{Message: "URL deleted successfully", ID: id})
}
