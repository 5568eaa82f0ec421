// Package server assembles the chi router: middleware stack and routes.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlinks/internal/app/handler"
	"github.com/atinyakov/shortlinks/internal/app/service"
	"github.com/atinyakov/shortlinks/internal/metrics"
	"github.com/atinyakov/shortlinks/internal/middleware"
)

// Options carries what the router needs from the composition root.
type Options struct {
	Links         service.LinkServiceIface
	Auth          service.AuthIface
	Metrics       *metrics.Registry
	Logger        *zap.Logger
	TrustedSubnet string
	CORSOrigins   []string
}

func newCORS(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Content-Encoding", "Accept"},
		MaxAge:         300,
	})
}

func Init(opts Options) *chi.Mux {
	reg := opts.Metrics
	if reg == nil {
		reg = metrics.NewRegistry()
	}

	postHandler := handler.NewPost(opts.Links, opts.Auth, opts.Logger)
	getHandler := handler.NewGet(opts.Links, reg, opts.Logger)
	patchHandler := handler.NewPatch(opts.Links, opts.Logger)
	deleteHandler := handler.NewDelete(opts.Links, opts.Logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.WithPeerAddr)
	r.Use(chimw.RealIP)
	r.Use(middleware.WithRequestLogging(opts.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.WithMetrics(reg))
	r.Use(chimw.SetHeader("X-Content-Type-Options", "nosniff"))
	r.Use(chimw.SetHeader("X-Frame-Options", "DENY"))
	r.Use(chimw.SetHeader("Referrer-Policy", "no-referrer"))
	r.Use(newCORS(opts.CORSOrigins).Handler)
	r.Use(chimw.Compress(5, "application/json"))
	r.Use(middleware.WithGzipRequest)

	r.With(middleware.WithOptionalAuth(opts.Auth)).Post("/shorten", postHandler.Shorten)
	r.Get("/shorten/{shortCode}", getHandler.Redirect)
	r.Post("/auth/login", postHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(opts.Auth))
		r.Get("/user/urls", getHandler.UserURLs)
		r.Patch("/user/urls/{id}", patchHandler.UpdateUserURL)
		r.Delete("/user/urls/{id}", deleteHandler.DeleteUserURL)
	})

	r.Get("/health", getHandler.Health)
	r.Get("/ping", getHandler.PingDB)
	r.With(middleware.WithSubnet(opts.TrustedSubnet)).Get("/metrics", getHandler.Metrics)

	// short links as handed out: base URL + "/" + code
	r.Get("/{shortCode}", getHandler.Redirect)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}
