package stores

import (
	"log"

	"gorm.io/gorm"

	"taskvault-backend/shared/database/models/auth"
	"taskvault-backend/shared/utils/query"
)

// LoginAttemptStore persists login outcomes for the history endpoint.
type LoginAttemptStore struct {
	db *gorm.DB
}

func NewLoginAttemptStore(db *gorm.DB) *LoginAttemptStore {
	return &LoginAttemptStore{db: db}
}

// Record writes an attempt and only logs on failure. Recording must never
// change the outcome of the login it describes.
func (s *LoginAttemptStore) Record(attempt *auth.LoginAttempt) {
	if err := s.db.Create(attempt).Error; err != nil {
		log.Printf("❌ Failed to record login attempt: %v", err)
	}
}

// ListByEmail returns a page of attempts for the email, newest first.
func (s *LoginAttemptStore) ListByEmail(email string, params query.FilterParams) ([]auth.LoginAttempt, int64, error) {
	base := s.db.Model(&auth.LoginAttempt{}).Where("email = ?", email)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attempts []auth.LoginAttempt
	page := query.ApplyPagination(base.Order("created_at DESC"), params.Page, params.Limit)
	if err := page.Find(&attempts).Error; err != nil {
		return nil, 0, err
	}

	return attempts, total, nil
}
