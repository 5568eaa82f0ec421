package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/shortlinks/internal/storage"
)

//go:generate mockgen -destination=../../mocks/mock_service.go -package=mocks github.com/atinyakov/shortlinks/internal/app/service LinkServiceIface,AuthIface

// LinkStore persists links. Short codes are unique over every row,
// soft-deleted ones included.
type LinkStore interface {
	CreateLink(ctx context.Context, link *storage.Link) error
	ShortCodeExists(ctx context.Context, code string) (bool, error)
	FindActiveByShortCode(ctx context.Context, code string) (*storage.Link, error)
	FindOwnedActive(ctx context.Context, ownerID, id uuid.UUID) (*storage.Link, error)
	ListOwnedActive(ctx context.Context, ownerID uuid.UUID) ([]storage.Link, error)
	UpdateOriginalURL(ctx context.Context, id uuid.UUID, originalURL string, at time.Time) (*storage.Link, error)
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
}

type AccessLogStore interface {
	AppendAccessLog(ctx context.Context, entry *storage.AccessLogEntry) error
	AppendAccessLogs(ctx context.Context, entries []storage.AccessLogEntry) error
	CountByLinkID(ctx context.Context, linkID uuid.UUID) (int64, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user *storage.User) error
	FindUserByEmail(ctx context.Context, email string) (*storage.User, error)
}

// Storage is implemented by every backend.
type Storage interface {
	LinkStore
	AccessLogStore
	UserStore
	PingContext(ctx context.Context) error
	Close() error
}

// LinkCache is an optional read-through cache for redirect lookups.
// Get returns (nil, nil) on a miss and for an invalidated code. Add never
// overwrites an existing entry, so a fill racing with Invalidate loses.
type LinkCache interface {
	Get(ctx context.Context, code string) (*storage.Link, error)
	Add(ctx context.Context, link *storage.Link) error
	Invalidate(ctx context.Context, code string) error
}

type LinkServiceIface interface {
	CreateLink(ctx context.Context, originalURL string, owner uuid.NullUUID) (*storage.Link, error)
	Resolve(ctx context.Context, code, ipAddress, userAgent string) (string, error)
	ListOwnedLinks(ctx context.Context, ownerID uuid.UUID) ([]LinkStats, error)
	UpdateOwnedLink(ctx context.Context, ownerID, id uuid.UUID, originalURL string) (*storage.Link, error)
	DeleteOwnedLink(ctx context.Context, ownerID, id uuid.UUID) error
	ShortURL(code string) string
	PingContext(ctx context.Context) error
}

// AuthIface defines the token operations used by handlers and middleware.
type AuthIface interface {
	Login(ctx context.Context, email, password string) (string, *storage.User, error)
	ParseToken(tokenString string) (*Claims, error)
}
