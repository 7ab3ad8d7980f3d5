package stores

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskvault-backend/shared/database/models"
)

// ErrEmailTaken reports a registration against an email that already has an
// account.
var ErrEmailTaken = errors.New("email already exists")

// UserStore persists user records. Users are immutable after creation.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts the user. The auth service checks the email first, the
// unique index backs that check so concurrent registrations still end in a
// conflict instead of duplicate rows.
func (s *UserStore) Create(user *models.User) error {
	err := s.db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

// FindByEmail looks up a user by normalized email.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}
