package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskvault-backend/api/middleware"
	"taskvault-backend/shared/database/models"
	"taskvault-backend/shared/database/stores"
	"taskvault-backend/shared/utils/query"
)

type TodoHandler struct {
	todos      *stores.TodoStore
	categories *stores.CategoryStore
}

func NewTodoHandler(todos *stores.TodoStore, categories *stores.CategoryStore) *TodoHandler {
	return &TodoHandler{todos: todos, categories: categories}
}

// TodoRequest is shared by create and update. Update replaces the whole
// mutable state, so omitting category_id detaches the todo from its
// category.
type TodoRequest struct {
	Title       string     `json:"title" binding:"required,max=255" example:"Buy groceries"`
	Description string     `json:"description" example:"Milk, eggs, coffee"`
	Completed   bool       `json:"completed"`
	CategoryID  *uuid.UUID `json:"category_id"`
}

// GET /api/todos
// @Summary List todos
// @Description List the authenticated user's todos with filtering, search and pagination
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20, max: 100)"
// @Param completed query bool false "Filter by completion state"
// @Param category_id query string false "Filter by category"
// @Param search query string false "Search in title and description"
// @Param sort_by query string false "Sort field (created_at, updated_at, title, completed)"
// @Param sort_order query string false "Sort order (asc, desc)"
// @Success 200 {object} map[string]interface{} "Todos with pagination"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Router /todos [get]
func (h *TodoHandler) ListTodos(c *gin.Context) {
	userID := middleware.UserID(c)
	params := query.ParseQueryParams(c, "completed", "category_id")

	todos, total, err := h.todos.ListOwned(userID, params)
	if err != nil {
		respondInternal(c, "Could not retrieve todos")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"todos":      todos,
		"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
	})
}

// GET /api/todos/:id
// @Summary Get todo
// @Description Get one of the user's todos by id
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Todo ID"
// @Success 200 {object} models.Todo "Todo"
// @Failure 404 {object} map[string]string "Todo not found"
// @Router /todos/{id} [get]
func (h *TodoHandler) GetTodo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid todo ID")
		return
	}

	todo, err := h.todos.FindOwned(middleware.UserID(c), id)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			respondNotFound(c, "Todo not found")
			return
		}
		respondInternal(c, "Could not retrieve todo")
		return
	}

	c.JSON(http.StatusOK, todo)
}

// POST /api/todos
// @Summary Create todo
// @Description Create a todo for the authenticated user
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param todo body TodoRequest true "Todo fields"
// @Success 201 {object} models.Todo "Created todo"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Category not found"
// @Router /todos [post]
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	var req TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	userID := middleware.UserID(c)
	category, err := h.resolveCategory(userID, req.CategoryID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			respondNotFound(c, "Category not found")
			return
		}
		respondInternal(c, "Could not create todo")
		return
	}

	todo := models.Todo{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		CategoryID:  req.CategoryID,
	}
	if err := h.todos.Create(&todo); err != nil {
		respondInternal(c, "Could not create todo")
		return
	}
	todo.Category = category

	c.JSON(http.StatusCreated, todo)
}

// PUT /api/todos/:id
// @Summary Update todo
// @Description Replace the mutable fields of one of the user's todos
// @Tags todos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Todo ID"
// @Param todo body TodoRequest true "Todo fields"
// @Success 200 {object} models.Todo "Updated todo"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Todo or category not found"
// @Router /todos/{id} [put]
func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid todo ID")
		return
	}

	var req TodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	userID := middleware.UserID(c)
	todo, err := h.todos.FindOwned(userID, id)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			respondNotFound(c, "Todo not found")
			return
		}
		respondInternal(c, "Could not update todo")
		return
	}

	category, err := h.resolveCategory(userID, req.CategoryID)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			respondNotFound(c, "Category not found")
			return
		}
		respondInternal(c, "Could not update todo")
		return
	}

	todo.Title = req.Title
	todo.Description = req.Description
	todo.Completed = req.Completed
	todo.CategoryID = req.CategoryID
	todo.Category = nil

	if err := h.todos.Update(todo); err != nil {
		respondInternal(c, "Could not update todo")
		return
	}
	todo.Category = category

	c.JSON(http.StatusOK, todo)
}

// DELETE /api/todos/:id
// @Summary Delete todo
// @Description Delete one of the user's todos
// @Tags todos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Todo ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 404 {object} map[string]string "Todo not found"
// @Router /todos/{id} [delete]
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid todo ID")
		return
	}

	if err := h.todos.DeleteOwned(middleware.UserID(c), id); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			respondNotFound(c, "Todo not found")
			return
		}
		respondInternal(c, "Could not delete todo")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted successfully"})
}

// resolveCategory enforces that a referenced category exists and belongs to
// the caller. An alien category is reported exactly like a missing one.
func (h *TodoHandler) resolveCategory(userID uuid.UUID, categoryID *uuid.UUID) (*models.Category, error) {
	if categoryID == nil {
		return nil, nil
	}
	return h.categories.FindOwned(userID, *categoryID)
}
