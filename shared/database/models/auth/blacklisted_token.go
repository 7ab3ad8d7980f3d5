package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlacklistedToken revokes a signed access token before its exp claim
// elapses. Existence alone means reject: entries whose expires_at has passed
// are garbage awaiting cmd/purge-tokens, not valid tokens.
type BlacklistedToken struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Token         string    `json:"-" gorm:"size:1024;uniqueIndex;not null"`
	ExpiresAt     time.Time `json:"expires_at" gorm:"not null"`
	BlacklistedAt time.Time `json:"blacklisted_at" gorm:"not null"`
}

func (b *BlacklistedToken) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
