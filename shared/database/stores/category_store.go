package stores

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskvault-backend/shared/database/models"
)

// CategoryStore persists categories with the same ownership scoping as
// todos.
type CategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) Create(category *models.Category) error {
	return s.db.Create(category).Error
}

// FindOwned returns the category only when it belongs to userID.
func (s *CategoryStore) FindOwned(userID, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := s.db.Scopes(OwnedBy(userID)).First(&category, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

// ListOwned returns all of the user's categories ordered by name. Category
// sets are small enough that the list is not paginated.
func (s *CategoryStore) ListOwned(userID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.Scopes(OwnedBy(userID)).Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryStore) Update(category *models.Category) error {
	return s.db.Save(category).Error
}

// DeleteOwned removes the category and detaches it from the owner's todos
// in one transaction, so no todo is left pointing at a dead category.
func (s *CategoryStore) DeleteOwned(userID, id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Scopes(OwnedBy(userID)).Where("id = ?", id).Delete(&models.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		return tx.Model(&models.Todo{}).
			Scopes(OwnedBy(userID)).
			Where("category_id = ?", id).
			Update("category_id", nil).Error
	})
}
