package storage

import (
	"time"

	"github.com/google/uuid"
)

// Link maps a short code to the URL it redirects to.
type Link struct {
	ID          uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	OriginalURL string        `json:"original_url" gorm:"not null"`
	ShortCode   string        `json:"short_code" gorm:"size:32;uniqueIndex;not null"`
	OwnerID     uuid.NullUUID `json:"owner_id" gorm:"type:uuid;index"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	DeletedAt   *time.Time    `json:"deleted_at,omitempty" gorm:"index"`
}

// IsDeleted reports whether the link was soft-deleted.
func (l *Link) IsDeleted() bool {
	return l.DeletedAt != nil
}

// IsOwnedBy reports whether the link belongs to the given user.
func (l *Link) IsOwnedBy(userID uuid.UUID) bool {
	return l.OwnerID.Valid && l.OwnerID.UUID == userID
}

// AccessLogEntry is one recorded redirect of a link.
type AccessLogEntry struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	LinkID    uuid.UUID `json:"link_id" gorm:"type:uuid;index;not null"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName keeps the relation name shared with the postgres schema.
func (AccessLogEntry) TableName() string {
	return "access_logs"
}

// User is an account that can own links.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}
