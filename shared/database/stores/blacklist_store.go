package stores

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"taskvault-backend/shared/database/models/auth"
	"taskvault-backend/shared/utils/cache"
)

// BlacklistStore persists revoked access tokens until their natural expiry.
// A Redis write-through lets the middleware reject revoked tokens without a
// table hit on most requests, the rows stay the source of truth.
type BlacklistStore struct {
	db    *gorm.DB
	cache *cache.TokenCache
}

func NewBlacklistStore(db *gorm.DB, tokenCache *cache.TokenCache) *BlacklistStore {
	return &BlacklistStore{db: db, cache: tokenCache}
}

// Add records a revoked token with its remaining validity window.
// Re-blacklisting the same token is a no-op.
func (s *BlacklistStore) Add(token string, expiresAt time.Time) error {
	entry := auth.BlacklistedToken{
		Token:         token,
		ExpiresAt:     expiresAt,
		BlacklistedAt: time.Now(),
	}

	if err := s.db.Create(&entry).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	if err := s.cache.BlacklistToken(token, time.Until(expiresAt)); err != nil {
		log.Printf("❌ Blacklist cache write failed: %v", err)
	}

	return nil
}

// Exists reports whether the token has been revoked. The presence of an
// entry is the whole check: entries past their expiry still reject until
// the purge removes them.
func (s *BlacklistStore) Exists(token string) (bool, error) {
	if s.cache.IsBlacklisted(token) {
		return true, nil
	}

	var count int64
	err := s.db.Model(&auth.BlacklistedToken{}).Where("token = ?", token).Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// PurgeExpired removes entries whose tokens have passed their own expiry.
// Safe to run at any time: an expired token fails signature checks anyway.
func (s *BlacklistStore) PurgeExpired() (int64, error) {
	res := s.db.Where("expires_at < ?", time.Now()).Delete(&auth.BlacklistedToken{})
	return res.RowsAffected, res.Error
}
