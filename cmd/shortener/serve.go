package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	_ "net/http/pprof"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/atinyakov/shortlinks/internal/app/server"
	"github.com/atinyakov/shortlinks/internal/app/service"
	"github.com/atinyakov/shortlinks/internal/metrics"
	"github.com/atinyakov/shortlinks/internal/worker"
)

const (
	pprofAddr       = "localhost:6060"
	shutdownTimeout = 10 * time.Second
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE:  a.serve,
	}
}

func (a *app) serve(cmd *cobra.Command, _ []string) error {
	if err := a.cfg.RequireJWTSecret(); err != nil {
		return err
	}
	log := a.log.Log

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	log.Info("starting shortener",
		zap.String("version", orNA(buildVersion)),
		zap.String("date", orNA(buildDate)),
		zap.String("commit", orNA(buildCommit)),
	)

	st, err := openStorage(ctx, a.cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	reg := metrics.NewRegistry()
	retry := worker.NewAccessLogWorker(log, st)
	links, release := a.linkService(st, reg, service.WithRetryQueue(retry.In()))
	defer release()

	router := server.Init(server.Options{
		Links:         links,
		Auth:          service.NewAuth(st, a.cfg.JWTSecret, a.cfg.TokenTTL, log),
		Metrics:       reg,
		Logger:        log,
		TrustedSubnet: a.cfg.TrustedSubnet,
		CORSOrigins:   a.cfg.CORSOrigins,
	})

	if a.cfg.EnablePprof {
		go func() {
			log.Info("starting pprof server", zap.String("addr", pprofAddr))
			if err := http.ListenAndServe(pprofAddr, nil); err != nil {
				log.Error("pprof server error", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              a.cfg.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if a.cfg.EnableHTTPS {
		manager, err := a.certManager()
		if err != nil {
			return err
		}
		srv.Addr = ":443"
		srv.TLSConfig = manager.TLSConfig()
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		retry.Run(workerCtx)
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server is running", zap.String("addr", srv.Addr), zap.Bool("tls", a.cfg.EnableHTTPS))
		if a.cfg.EnableHTTPS {
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}

	stopWorker()
	wg.Wait()
	log.Info("server stopped")
	return serveErr
}

// certManager issues certificates for the host of the base URL.
func (a *app) certManager() (*autocert.Manager, error) {
	u, err := url.Parse(a.cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	host := u.Hostname()
	if ip := net.ParseIP(host); ip != nil || host == "localhost" {
		return nil, errors.New("https needs a public host name in base_url")
	}

	return &autocert.Manager{
		Cache:      autocert.DirCache("cache-dir"),
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(host, "www."+host),
	}, nil
}
