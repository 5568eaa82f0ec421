package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlinks/internal/app/service"
	"github.com/atinyakov/shortlinks/internal/cache"
	"github.com/atinyakov/shortlinks/internal/config"
	"github.com/atinyakov/shortlinks/internal/logger"
	"github.com/atinyakov/shortlinks/internal/metrics"
)

// app is shared by every subcommand. cfg is filled in before any RunE.
type app struct {
	v   *viper.Viper
	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New(), log: logger.New()}

	root := &cobra.Command{
		Use:           "shortener",
		Short:         "URL shortener service",
		Long:          "Serves short links over HTTP and manages links, users and the schema from the command line.",
		Version:       fmt.Sprintf("%s (built %s, commit %s)", orNA(buildVersion), orNA(buildDate), orNA(buildCommit)),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return a.log.Init(cfg.LogLevel)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
		RunE: a.serve,
	}

	if err := config.BindFlags(root.PersistentFlags(), a.v); err != nil {
		panic(err)
	}

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newCreateCmd(a),
		newStatsCmd(a),
		newUserCmd(a),
	)
	return root
}

// linkService builds the core service over st, with the redis cache when
// one is configured. The returned func releases the cache.
func (a *app) linkService(st service.Storage, reg *metrics.Registry, opts ...service.Option) (*service.LinkService, func()) {
	opts = append(opts,
		service.WithMetrics(reg),
		service.WithMaxAttempts(a.cfg.CodeMaxAttempts),
	)

	release := func() {}
	if a.cfg.RedisAddr != "" {
		c := cache.NewRedisLinkCache(a.cfg.RedisAddr, a.cfg.CacheTTL)
		if err := c.PingContext(context.Background()); err != nil {
			a.log.Log.Warn("redis unreachable, redirects go to the store until it answers",
				zap.String("addr", a.cfg.RedisAddr), zap.Error(err))
		}
		opts = append(opts, service.WithCache(c))
		release = func() { _ = c.Close() }
	}

	links := service.NewLinkService(st, service.NewRandomCodeGenerator(a.cfg.CodeLength), a.cfg.BaseURL, a.log.Log, opts...)
	return links, release
}
