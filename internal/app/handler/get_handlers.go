package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlinks/internal/app/service"
	"github.com/atinyakov/shortlinks/internal/metrics"
	"github.com/atinyakov/shortlinks/internal/middleware"
	"github.com/atinyakov/shortlinks/internal/models"
)

type GetHandler struct {
	service service.LinkServiceIface
	metrics *metrics.Registry
	logger  *zap.Logger
	now     func() time.Time
}

func NewGet(s service.LinkServiceIface, reg *metrics.Registry, l *zap.Logger) *GetHandler {
	return &GetHandler{
		service: s,
		metrics: reg,
		logger:  l,
		now:     time.Now,
	}
}

func wantsJSON(req *http.Request) bool {
	return strings.Contains(req.Header.Get("Accept"), "application/json")
}

// Redirect resolves a short code and records the access.
func (h *GetHandler) Redirect(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	code := chi.URLParam(req, "shortCode")

	location, err := h.service.Resolve(ctx, code, remoteIP(req), req.UserAgent())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(res, http.StatusNotFound, "short URL not found")
			return
		}
		h.logger.Error("unable to resolve short code", zap.String("code", code), zap.Error(err))
		writeError(res, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	if wantsJSON(req) {
		writeJSON(res, http.StatusOK, models.RedirectResponse{Location: location})
		return
	}

	http.Redirect(res, req, location, http.StatusFound)
}

// UserURLs lists the caller's active links with their click counts.
func (h *GetHandler) UserURLs(res http.ResponseWriter, req *http.Request) {
	userID, ok := middleware.UserIDFromContext(req.Context())
	if !ok {
		writeError(res, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	links, err := h.service.ListOwnedLinks(ctx, userID)
	if err != nil {
		h.logger.Error("unable to list links", zap.Stringer("user_id", userID), zap.Error(err))
		writeError(res, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	urls := make([]models.UserURL, 0, len(links))
	for _, l := range links {
		urls = append(urls, models.UserURL{
			ID:          l.ID,
			OriginalURL: l.OriginalURL,
			ShortCode:   l.ShortCode,
			ShortURL:    h.service.ShortURL(l.ShortCode),
			ClickCount:  l.ClickCount,
			CreatedAt:   l.CreatedAt,
			UpdatedAt:   l.UpdatedAt,
		})
	}

	writeJSON(res, http.StatusOK, models.UserURLsResponse{URLs: urls, Total: len(urls)})
}

func (h *GetHandler) Health(res http.ResponseWriter, req *http.Request) {
	writeJSON(res, http.StatusOK, models.HealthResponse{Status: "OK", Timestamp: h.now().UTC()})
}

func (h *GetHandler) PingDB(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()
	if err := h.service.PingContext(ctx); err != nil {
		h.logger.Error("storage ping failed", zap.Error(err))
		writeError(res, http.StatusInternalServerError, "storage unavailable")
		return
	}

	res.WriteHeader(http.StatusOK)
}

// Metrics dumps the in-process counters and histograms.
func (h *GetHandler) Metrics(res http.ResponseWriter, req *http.Request) {
	writeJSON(res, http.StatusOK, h.metrics.Snapshot())
}
