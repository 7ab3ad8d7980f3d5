package stores

import (
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskvault-backend/shared/database/models"
	"taskvault-backend/shared/utils/query"
)

var todoSortFields = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
	"completed":  "completed",
}

// TodoStore persists todos. Every method takes the owner's id and sees only
// that user's rows.
type TodoStore struct {
	db *gorm.DB
}

func NewTodoStore(db *gorm.DB) *TodoStore {
	return &TodoStore{db: db}
}

func (s *TodoStore) Create(todo *models.Todo) error {
	return s.db.Create(todo).Error
}

// FindOwned returns the todo only when it belongs to userID.
func (s *TodoStore) FindOwned(userID, id uuid.UUID) (*models.Todo, error) {
	var todo models.Todo
	err := s.db.Scopes(OwnedBy(userID)).Preload("Category").First(&todo, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &todo, nil
}

// ListOwned returns a page of the user's todos plus the filtered total.
// Supported filters: completed (bool), category_id (uuid). Search covers
// title and description.
func (s *TodoStore) ListOwned(userID uuid.UUID, params query.FilterParams) ([]models.Todo, int64, error) {
	base := s.db.Model(&models.Todo{}).Scopes(OwnedBy(userID))

	if v, ok := params.Filters["completed"]; ok {
		if completed, err := strconv.ParseBool(v); err == nil {
			base = base.Where("completed = ?", completed)
		}
	}
	if v, ok := params.Filters["category_id"]; ok {
		if categoryID, err := uuid.Parse(v); err == nil {
			base = base.Where("category_id = ?", categoryID)
		}
	}

	base = query.ApplySearch(base, params.Search, []string{"title", "description"})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var todos []models.Todo
	page := query.ApplySort(base, params.Sort, todoSortFields)
	page = query.ApplyPagination(page, params.Page, params.Limit)
	if err := page.Preload("Category").Find(&todos).Error; err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

// Update persists changes to a todo previously loaded through FindOwned.
func (s *TodoStore) Update(todo *models.Todo) error {
	return s.db.Save(todo).Error
}

// DeleteOwned removes the todo when it belongs to userID, ErrNotFound
// otherwise.
func (s *TodoStore) DeleteOwned(userID, id uuid.UUID) error {
	res := s.db.Scopes(OwnedBy(userID)).Where("id = ?", id).Delete(&models.Todo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
