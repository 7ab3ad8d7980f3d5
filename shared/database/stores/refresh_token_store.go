package stores

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskvault-backend/shared/database/models/auth"
	"taskvault-backend/shared/utils/query"
)

// RefreshTokenStore persists opaque refresh tokens. The rows double as the
// user's session list.
type RefreshTokenStore struct {
	db *gorm.DB
}

func NewRefreshTokenStore(db *gorm.DB) *RefreshTokenStore {
	return &RefreshTokenStore{db: db}
}

func (s *RefreshTokenStore) Create(token *auth.RefreshToken) error {
	return s.db.Create(token).Error
}

// FindByToken returns the row for an opaque token value.
func (s *RefreshTokenStore) FindByToken(token string) (*auth.RefreshToken, error) {
	var row auth.RefreshToken
	if err := s.db.Where("token = ?", token).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

// Rotate atomically replaces the old token's row with next. The delete and
// the insert share one transaction and the delete's row count gates the
// insert, so of two concurrent calls presenting the same token exactly one
// mints a replacement. Returns ErrNotFound for the loser.
func (s *RefreshTokenStore) Rotate(oldToken string, next *auth.RefreshToken) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("token = ?", oldToken).Delete(&auth.RefreshToken{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Create(next).Error
	})
}

// DeleteByToken removes a token row unconditionally. Used for expired-token
// cleanup during refresh.
func (s *RefreshTokenStore) DeleteByToken(token string) error {
	return s.db.Where("token = ?", token).Delete(&auth.RefreshToken{}).Error
}

// DeleteByTokenAndUser removes a token row only when it belongs to userID.
// Zero affected rows is not an error: logout stays idempotent and does not
// leak whether a guessed token exists.
func (s *RefreshTokenStore) DeleteByTokenAndUser(token string, userID uuid.UUID) error {
	return s.db.Scopes(OwnedBy(userID)).Where("token = ?", token).Delete(&auth.RefreshToken{}).Error
}

// DeleteByIDAndUser removes one session row by id for its owner. ErrNotFound
// covers both a missing row and another user's row.
func (s *RefreshTokenStore) DeleteByIDAndUser(id, userID uuid.UUID) error {
	res := s.db.Scopes(OwnedBy(userID)).Where("id = ?", id).Delete(&auth.RefreshToken{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllByUser removes every session row for the user and reports how
// many were live.
func (s *RefreshTokenStore) DeleteAllByUser(userID uuid.UUID) (int64, error) {
	res := s.db.Scopes(OwnedBy(userID)).Delete(&auth.RefreshToken{})
	return res.RowsAffected, res.Error
}

// ListByUser returns a page of the user's unexpired sessions, newest first.
func (s *RefreshTokenStore) ListByUser(userID uuid.UUID, params query.FilterParams) ([]auth.RefreshToken, int64, error) {
	base := s.db.Model(&auth.RefreshToken{}).
		Scopes(OwnedBy(userID)).
		Where("expires_at > ?", time.Now())

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tokens []auth.RefreshToken
	page := query.ApplyPagination(base.Order("created_at DESC"), params.Page, params.Limit)
	if err := page.Find(&tokens).Error; err != nil {
		return nil, 0, err
	}

	return tokens, total, nil
}

// PurgeExpired removes rows past their expiry.
func (s *RefreshTokenStore) PurgeExpired() (int64, error) {
	res := s.db.Where("expires_at < ?", time.Now()).Delete(&auth.RefreshToken{})
	return res.RowsAffected, res.Error
}
