package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoginAttempt records every login outcome for the login-history endpoint.
// failure_type stays generic, the login flow never records whether the email
// or the password was wrong.
type LoginAttempt struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email       string    `json:"email" gorm:"size:255;not null;index"`
	IPAddress   string    `json:"ip_address" gorm:"size:50"`
	UserAgent   string    `json:"user_agent" gorm:"size:500"`
	Successful  bool      `json:"successful" gorm:"default:false"`
	FailureType string    `json:"failure_type" gorm:"size:100"`
	CreatedAt   time.Time `json:"created_at"`
}

func (l *LoginAttempt) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
