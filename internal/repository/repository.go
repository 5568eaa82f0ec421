// Package repository implements link, access log and user persistence on PostgreSQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlinks/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS links (
	id UUID PRIMARY KEY,
	original_url TEXT NOT NULL,
	short_code VARCHAR(32) UNIQUE NOT NULL,
	owner_id UUID REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	deleted_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_links_owner_id ON links(owner_id);

CREATE TABLE IF NOT EXISTS access_logs (
	id UUID PRIMARY KEY,
	link_id UUID NOT NULL REFERENCES links(id),
	ip_address TEXT NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_access_logs_link_id ON access_logs(link_id);
`

const linkColumns = "id, original_url, short_code, owner_id, created_at, updated_at, deleted_at"

// InitDB opens the pgx-backed pool and makes sure the schema exists.
func InitDB(ctx context.Context, dsn string, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("Database connected and tables ready.")
	return db, nil
}

// Migrate creates the tables and indexes when missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

type URLRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func CreateURLRepository(db *sql.DB, logger *zap.Logger) *URLRepository {
	return &URLRepository{
		db:     db,
		logger: logger,
	}
}

// classify turns a unique violation into storage.ErrConflict.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: %s", storage.ErrConflict, pgErr.ConstraintName)
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (*storage.Link, error) {
	var (
		l         storage.Link
		deletedAt sql.NullTime
	)
	err := row.Scan(&l.ID, &l.OriginalURL, &l.ShortCode, &l.OwnerID, &l.CreatedAt, &l.UpdatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		l.DeletedAt = &t
	}
	return &l, nil
}

func (r *URLRepository) CreateLink(ctx context.Context, link *storage.Link) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO links (id, original_url, short_code, owner_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6);",
		link.ID, link.OriginalURL, link.ShortCode, link.OwnerID, link.CreatedAt, link.UpdatedAt,
	)
	if err != nil {
		err = classify(err)
		if !errors.Is(err, storage.ErrConflict) {
			r.logger.Error("insert link", zap.String("short_code", link.ShortCode), zap.Error(err))
		}
		return err
	}
	return nil
}

func (r *URLRepository) ShortCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM links WHERE short_code = $1);", code).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *URLRepository) FindActiveByShortCode(ctx context.Context, code string) (*storage.Link, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+linkColumns+" FROM links WHERE short_code = $1 AND deleted_at IS NULL;", code)
	return scanLink(row)
}

func (r *URLRepository) FindOwnedActive(ctx context.Context, ownerID, id uuid.UUID) (*storage.Link, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+linkColumns+" FROM links WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL;", id, ownerID)
	return scanLink(row)
}

func (r *URLRepository) ListOwnedActive(ctx context.Context, ownerID uuid.UUID) ([]storage.Link, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+linkColumns+" FROM links WHERE owner_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC;", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]storage.Link, 0)
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return links, nil
}

func (r *URLRepository) UpdateOriginalURL(ctx context.Context, id uuid.UUID, originalURL string, at time.Time) (*storage.Link, error) {
	row := r.db.QueryRowContext(ctx,
		"UPDATE links SET original_url = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL RETURNING "+linkColumns+";",
		originalURL, at, id)
	return scanLink(row)
}

func (r *URLRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE links SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL;", at, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *URLRepository) AppendAccessLog(ctx context.Context, e *storage.AccessLogEntry) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO access_logs (id, link_id, ip_address, user_agent, created_at) VALUES ($1, $2, $3, $4, $5);",
		e.ID, e.LinkID, e.IPAddress, e.UserAgent, e.CreatedAt)
	return err
}

func (r *URLRepository) AppendAccessLogs(ctx context.Context, entries []storage.AccessLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, e := range entries {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO access_logs (id, link_id, ip_address, user_agent, created_at) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING;",
			e.ID, e.LinkID, e.IPAddress, e.UserAgent, e.CreatedAt)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("rollback access log batch", zap.Error(rbErr))
			}
			return err
		}
	}

	return tx.Commit()
}

func (r *URLRepository) CountByLinkID(ctx context.Context, linkID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM access_logs WHERE link_id = $1;", linkID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *URLRepository) CreateUser(ctx context.Context, u *storage.User) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4);",
		u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	return classify(err)
}

func (r *URLRepository) FindUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	var u storage.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = $1;", email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *URLRepository) PingContext(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *URLRepository) Close() error {
	return r.db.Close()
}
