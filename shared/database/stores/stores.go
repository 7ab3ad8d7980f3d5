// Package stores wraps all database access behind per-model types so that
// ownership scoping is applied in exactly one place. Handlers never touch
// gorm directly.
package stores

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound covers both rows that do not exist and rows owned by another
// user. Handlers translate it to 404 without distinguishing the two cases.
var ErrNotFound = errors.New("record not found")

// OwnedBy scopes a query to rows belonging to the given user. Every todo and
// category lookup goes through this scope so a foreign id behaves exactly
// like a missing one.
func OwnedBy(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
