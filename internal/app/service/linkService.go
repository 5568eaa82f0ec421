// Package service holds the shortener core: short code allocation, redirect
// resolution with access logging, owner-scoped link management and
// authentication.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlinks/internal/metrics"
	"github.com/atinyakov/shortlinks/internal/storage"
)

// DefaultMaxAttempts bounds the create loop. Zero means unbounded.
const DefaultMaxAttempts = 20

// LinkRepository is the persistence surface the link service needs.
type LinkRepository interface {
	LinkStore
	AccessLogStore
	PingContext(ctx context.Context) error
}

// LinkStats is a link together with its derived click count.
type LinkStats struct {
	storage.Link
	ClickCount int64
}

type LinkService struct {
	repo        LinkRepository
	gen         CodeGenerator
	cache       LinkCache
	metrics     *metrics.Registry
	logger      *zap.Logger
	retry       chan<- storage.AccessLogEntry
	baseURL     string
	maxAttempts int
	now         func() time.Time
}

type Option func(*LinkService)

func WithCache(c LinkCache) Option {
	return func(s *LinkService) { s.cache = c }
}

func WithMetrics(m *metrics.Registry) Option {
	return func(s *LinkService) { s.metrics = m }
}

// WithRetryQueue hands failed access log writes to a background worker.
func WithRetryQueue(ch chan<- storage.AccessLogEntry) Option {
	return func(s *LinkService) { s.retry = ch }
}

func WithMaxAttempts(n int) Option {
	return func(s *LinkService) { s.maxAttempts = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *LinkService) { s.now = now }
}

func NewLinkService(repo LinkRepository, gen CodeGenerator, baseURL string, logger *zap.Logger, opts ...Option) *LinkService {
	s := &LinkService{
		repo:        repo,
		gen:         gen,
		metrics:     metrics.NewRegistry(),
		logger:      logger,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LinkService) PingContext(ctx context.Context) error {
	return s.repo.PingContext(ctx)
}

// ShortURL renders the public link for a code.
func (s *LinkService) ShortURL(code string) string {
	return s.baseURL + "/" + code
}

func userType(owner uuid.NullUUID) string {
	if owner.Valid {
		return "authenticated"
	}
	return "anonymous"
}

// CreateLink stores originalURL under a freshly allocated short code. The
// existence check is only a fast path: a conflict reported by the store on
// insert sends the loop round again.
func (s *LinkService) CreateLink(ctx context.Context, originalURL string, owner uuid.NullUUID) (*storage.Link, error) {
	for attempt := 1; s.maxAttempts <= 0 || attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		code := s.gen.Generate()
		if isReservedCode(code) {
			s.collision(code, attempt)
			continue
		}

		exists, err := s.repo.ShortCodeExists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("check short code: %w", err)
		}
		if exists {
			s.collision(code, attempt)
			continue
		}

		now := s.now().UTC()
		link := &storage.Link{
			ID:          uuid.New(),
			OriginalURL: originalURL,
			ShortCode:   code,
			OwnerID:     owner,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		err = s.repo.CreateLink(ctx, link)
		if errors.Is(err, storage.ErrConflict) {
			s.collision(code, attempt)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create link: %w", err)
		}

		s.metrics.Inc(metrics.URLsCreatedTotal, metrics.Labels{"user_type": userType(owner)})
		s.logger.Info("short link created",
			zap.String("short_code", code),
			zap.String("user_type", userType(owner)),
		)
		return link, nil
	}

	s.metrics.Inc(metrics.ErrorsTotal, metrics.Labels{"type": "generation_exhausted"})
	s.logger.Error("no free short code found", zap.Int("attempts", s.maxAttempts))
	return nil, ErrGenerationExhausted
}

func (s *LinkService) collision(code string, attempt int) {
	s.metrics.Inc(metrics.CodeCollisionsTotal, nil)
	s.logger.Debug("short code collision", zap.String("short_code", code), zap.Int("attempt", attempt))
}

// Resolve returns the original URL of an active link and records the access.
// A failed access log write does not fail the redirect.
func (s *LinkService) Resolve(ctx context.Context, code, ipAddress, userAgent string) (string, error) {
	if !isValidCode(code) {
		return "", ErrNotFound
	}

	link, err := s.lookup(ctx, code)
	if err != nil {
		return "", err
	}

	entry := storage.AccessLogEntry{
		ID:        uuid.New(),
		LinkID:    link.ID,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.AppendAccessLog(ctx, &entry); err != nil {
		s.metrics.Inc(metrics.AccessLogFailuresTotal, nil)
		s.logger.Error("cannot record access",
			zap.String("short_code", code),
			zap.String("link_id", link.ID.String()),
			zap.Error(err),
		)
		s.requeue(entry)
	}

	s.metrics.Inc(metrics.URLsAccessedTotal, nil)
	return link.OriginalURL, nil
}

func (s *LinkService) lookup(ctx context.Context, code string) (*storage.Link, error) {
	if s.cache != nil {
		link, err := s.cache.Get(ctx, code)
		if err != nil {
			s.logger.Warn("link cache read failed", zap.String("short_code", code), zap.Error(err))
		}
		if err == nil && link != nil && !link.IsDeleted() {
			return link, nil
		}
	}

	link, err := s.repo.FindActiveByShortCode(ctx, code)
	if err != nil {
		return nil, mapNotFound(err, "find link")
	}

	if s.cache != nil {
		if err := s.cache.Add(ctx, link); err != nil {
			s.logger.Warn("link cache write failed", zap.String("short_code", code), zap.Error(err))
		}
	}
	return link, nil
}

func (s *LinkService) requeue(entry storage.AccessLogEntry) {
	if s.retry == nil {
		return
	}
	select {
	case s.retry <- entry:
	default:
		s.logger.Warn("access log retry queue full, entry dropped", zap.String("link_id", entry.LinkID.String()))
	}
}

func (s *LinkService) evict(ctx context.Context, code string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, code); err != nil {
		s.logger.Warn("link cache invalidation failed", zap.String("short_code", code), zap.Error(err))
	}
}

func mapNotFound(err error, op string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ListOwnedLinks returns the caller's active links, newest first.
func (s *LinkService) ListOwnedLinks(ctx context.Context, ownerID uuid.UUID) ([]LinkStats, error) {
	links, err := s.repo.ListOwnedActive(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	res := make([]LinkStats, 0, len(links))
	for _, l := range links {
		n, err := s.repo.CountByLinkID(ctx, l.ID)
		if err != nil {
			return nil, fmt.Errorf("count clicks: %w", err)
		}
		res = append(res, LinkStats{Link: l, ClickCount: n})
	}
	return res, nil
}

func (s *LinkService) UpdateOwnedLink(ctx context.Context, ownerID, id uuid.UUID, originalURL string) (*storage.Link, error) {
	link, err := s.repo.FindOwnedActive(ctx, ownerID, id)
	if err != nil {
		return nil, mapNotFound(err, "find link")
	}

	updated, err := s.repo.UpdateOriginalURL(ctx, id, originalURL, s.now().UTC())
	if err != nil {
		return nil, mapNotFound(err, "update link")
	}

	s.evict(ctx, link.ShortCode)
	return updated, nil
}

func (s *LinkService) DeleteOwnedLink(ctx context.Context, ownerID, id uuid.UUID) error {
	link, err := s.repo.FindOwnedActive(ctx, ownerID, id)
	if err != nil {
		return mapNotFound(err, "find link")
	}

	if err := s.repo.SoftDelete(ctx, id, s.now().UTC()); err != nil {
		return mapNotFound(err, "delete link")
	}

	s.evict(ctx, link.ShortCode)
	s.logger.Info("short link deleted", zap.String("short_code", link.ShortCode))
	return nil
}

// Stats reports an active link with its click count. It does not record an access.
func (s *LinkService) Stats(ctx context.Context, code string) (*LinkStats, error) {
	if !isValidCode(code) {
		return nil, ErrNotFound
	}

	link, err := s.repo.FindActiveByShortCode(ctx, code)
	if err != nil {
		return nil, mapNotFound(err, "find link")
	}

	n, err := s.repo.CountByLinkID(ctx, link.ID)
	if err != nil {
		return nil, fmt.Errorf("count clicks: %w", err)
	}
	return &LinkStats{Link: *link, ClickCount: n}, nil
}
