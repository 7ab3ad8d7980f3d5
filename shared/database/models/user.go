package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is created at registration and immutable afterwards; there are no
// update or delete flows for user records.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email     string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Todos      []Todo     `json:"-" gorm:"foreignKey:UserID"`
	Categories []Category `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate assigns the ID application-side so the same models work on
// postgres and on the sqlite databases the tests run against.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
