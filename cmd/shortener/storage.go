package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/atinyakov/shortlinks/internal/app/service"
	"github.com/atinyakov/shortlinks/internal/config"
	"github.com/atinyakov/shortlinks/internal/repository"
	"github.com/atinyakov/shortlinks/internal/storage"
)

// openStorage picks postgres when a DSN is set, then a SQLite file, then
// process memory. Schemas are created on open.
func openStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (service.Storage, error) {
	switch {
	case cfg.DatabaseDSN != "":
		log.Info("using postgres storage")
		db, err := repository.InitDB(ctx, cfg.DatabaseDSN, log)
		if err != nil {
			return nil, err
		}
		return repository.CreateURLRepository(db, log), nil

	case cfg.FileStoragePath != "":
		log.Info("using sqlite storage", zap.String("path", cfg.FileStoragePath))
		st, err := storage.OpenSQLite(cfg.FileStoragePath, log)
		if err != nil {
			return nil, err
		}
		return st, nil

	default:
		log.Info("using in memory storage")
		return storage.CreateMemoryStorage(), nil
	}
}
