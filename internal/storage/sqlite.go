package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SQLiteStorage persists records in a SQLite file through GORM.
type SQLiteStorage struct {
	db     *gorm.DB
	logger *zap.Logger
}

// OpenSQLite opens (creating if needed) the database at path and migrates the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path string, log *zap.Logger) (*SQLiteStorage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer; one connection also keeps ":memory:" shared.
	sqlDB.SetMaxOpenConns(1)

	s := &SQLiteStorage{db: db, logger: log}
	if err := s.Migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	log.Info("sqlite storage ready", zap.String("path", path))
	return s, nil
}

func (s *SQLiteStorage) Migrate() error {
	if err := s.db.AutoMigrate(&Link{}, &AccessLogEntry{}, &User{}); err != nil {
		return fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return nil
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %s", ErrConflict, err.Error())
	default:
		return err
	}
}

func (s *SQLiteStorage) CreateLink(ctx context.Context, link *Link) error {
	return translate(s.db.WithContext(ctx).Create(link).Error)
}

func (s *SQLiteStorage) ShortCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Link{}).Where("short_code = ?", code).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *SQLiteStorage) FindActiveByShortCode(ctx context.Context, code string) (*Link, error) {
	var link Link
	err := s.db.WithContext(ctx).
		Where("short_code = ? AND deleted_at IS NULL", code).
		First(&link).Error
	if err != nil {
		return nil, translate(err)
	}
	return &link, nil
}

func (s *SQLiteStorage) FindOwnedActive(ctx context.Context, ownerID, id uuid.UUID) (*Link, error) {
	var link Link
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ? AND deleted_at IS NULL", id, ownerID).
		First(&link).Error
	if err != nil {
		return nil, translate(err)
	}
	return &link, nil
}

func (s *SQLiteStorage) ListOwnedActive(ctx context.Context, ownerID uuid.UUID) ([]Link, error) {
	links := make([]Link, 0)
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND deleted_at IS NULL", ownerID).
		Order("created_at DESC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (s *SQLiteStorage) UpdateOriginalURL(ctx context.Context, id uuid.UUID, originalURL string, at time.Time) (*Link, error) {
	var link Link
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Link{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Updates(map[string]any{"original_url": originalURL, "updated_at": at})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("id = ?", id).First(&link).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &link, nil
}

func (s *SQLiteStorage) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&Link{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) AppendAccessLog(ctx context.Context, entry *AccessLogEntry) error {
	return translate(s.db.WithContext(ctx).Create(entry).Error)
}

func (s *SQLiteStorage) AppendAccessLogs(ctx context.Context, entries []AccessLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	// entries keep their ids across retries, so a replayed batch is a no-op
	return translate(s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(entries, 100).Error)
}

func (s *SQLiteStorage) CountByLinkID(ctx context.Context, linkID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&AccessLogEntry{}).Where("link_id = ?", linkID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count access logs for %s: %w", linkID, err)
	}
	return count, nil
}

func (s *SQLiteStorage) CreateUser(ctx context.Context, user *User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *SQLiteStorage) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *SQLiteStorage) PingContext(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
