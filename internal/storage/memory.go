package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage keeps every record in process memory. Short codes stay
// reserved after a soft delete, same as the SQL backends.
type MemoryStorage struct {
	mu      sync.RWMutex
	links   map[uuid.UUID]*Link
	byCode  map[string]uuid.UUID
	clicks  map[uuid.UUID][]AccessLogEntry
	logIDs  map[uuid.UUID]struct{}
	users   map[uuid.UUID]*User
	byEmail map[string]uuid.UUID
}

func CreateMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		links:   make(map[uuid.UUID]*Link),
		byCode:  make(map[string]uuid.UUID),
		clicks:  make(map[uuid.UUID][]AccessLogEntry),
		logIDs:  make(map[uuid.UUID]struct{}),
		users:   make(map[uuid.UUID]*User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (m *MemoryStorage) CreateLink(_ context.Context, link *Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byCode[link.ShortCode]; taken {
		return ErrConflict
	}
	if _, taken := m.links[link.ID]; taken {
		return ErrConflict
	}

	stored := *link
	m.links[link.ID] = &stored
	m.byCode[link.ShortCode] = link.ID
	return nil
}

func (m *MemoryStorage) ShortCodeExists(_ context.Context, code string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.byCode[code]
	return ok, nil
}

func (m *MemoryStorage) FindActiveByShortCode(_ context.Context, code string) (*Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	link := m.links[id]
	if link.IsDeleted() {
		return nil, ErrNotFound
	}

	res := *link
	return &res, nil
}

func (m *MemoryStorage) FindOwnedActive(_ context.Context, ownerID, id uuid.UUID) (*Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[id]
	if !ok || link.IsDeleted() || !link.IsOwnedBy(ownerID) {
		return nil, ErrNotFound
	}

	res := *link
	return &res, nil
}

func (m *MemoryStorage) ListOwnedActive(_ context.Context, ownerID uuid.UUID) ([]Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make([]Link, 0)
	for _, link := range m.links {
		if link.IsDeleted() || !link.IsOwnedBy(ownerID) {
			continue
		}
		res = append(res, *link)
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (m *MemoryStorage) UpdateOriginalURL(_ context.Context, id uuid.UUID, originalURL string, at time.Time) (*Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[id]
	if !ok || link.IsDeleted() {
		return nil, ErrNotFound
	}

	link.OriginalURL = originalURL
	link.UpdatedAt = at

	res := *link
	return &res, nil
}

func (m *MemoryStorage) SoftDelete(_ context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[id]
	if !ok || link.IsDeleted() {
		return ErrNotFound
	}

	deletedAt := at
	link.DeletedAt = &deletedAt
	return nil
}

func (m *MemoryStorage) AppendAccessLog(_ context.Context, entry *AccessLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.logIDs[entry.ID]; ok {
		return ErrConflict
	}
	m.logIDs[entry.ID] = struct{}{}
	m.clicks[entry.LinkID] = append(m.clicks[entry.LinkID], *entry)
	return nil
}

func (m *MemoryStorage) AppendAccessLogs(_ context.Context, entries []AccessLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// entries already stored are skipped so a replayed batch counts once
	for _, e := range entries {
		if _, ok := m.logIDs[e.ID]; ok {
			continue
		}
		m.logIDs[e.ID] = struct{}{}
		m.clicks[e.LinkID] = append(m.clicks[e.LinkID], e)
	}
	return nil
}

func (m *MemoryStorage) CountByLinkID(_ context.Context, linkID uuid.UUID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.clicks[linkID])), nil
}

func (m *MemoryStorage) CreateUser(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byEmail[user.Email]; taken {
		return ErrConflict
	}

	stored := *user
	m.users[user.ID] = &stored
	m.byEmail[user.Email] = user.ID
	return nil
}

func (m *MemoryStorage) FindUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}

	res := *m.users[id]
	return &res, nil
}

func (m *MemoryStorage) PingContext(_ context.Context) error {
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
