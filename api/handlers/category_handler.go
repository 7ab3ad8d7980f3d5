package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskvault-backend/api/middleware"
	"taskvault-backend/shared/database/models"
	"taskvault-backend/shared/database/stores"
)

type CategoryHandler struct {
	categories *stores.CategoryStore
}

func NewCategoryHandler(categories *stores.CategoryStore) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

type CategoryRequest struct {
	Name  string `json:"name" binding:"required,max=100" example:"Work"`
	Color string `json:"color" binding:"omitempty,hexcolor" example:"#3b82f6"`
}

// GET /api/categories
// @Summary List categories
// @Description List all of the authenticated user's categories ordered by name
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Categories"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.ListOwned(middleware.UserID(c))
	if err != nil {
		respondInternal(c, "Could not retrieve categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GET /api/categories/:id
// @Summary Get category
// @Description Get one of the user's categories by id
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} models.Category "Category"
// @Failure 404 {object} map[string]string "Category not found"
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid category ID")
		return
	}

	category, err := h.categories.FindOwned(middleware.UserID(c), id)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			respondNotFound(c, "Category not found")
			return
		}
		respondInternal(c, "Could not retrieve category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// POST /api/categories
// @Summary Create category
// @Description Create a category for the authenticated user
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body CategoryRequest true "Category fields"
// @Success 201 {object} models.Category "Created category"
// @Failure 400 {object} map[string]string "Validation error"
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	category := models.Category{
		UserID: middleware.UserID(c),
		Name:   req.Name,
		Color:  req.Color,
	}
	if err := h.categories.Create(&category); err != nil {
		respondInternal(c, "Could not create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

// PUT /api/categories/:id
// @Summary Update category
// @Description Replace the name and color of one of the user's categories
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param category body CategoryRequest true "Category fields"
// @Success 200 {object} models.Category "Updated category"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Category not found"
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid category ID")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	userID := middleware.UserID(c)
	category, err := h.categories.FindOwned(userID, id)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			respondNotFound(c, "Category not found")
			return
		}
		respondInternal(c, "Could not update category")
		return
	}

	category.Name = req.Name
	category.Color = req.Color

	if err := h.categories.Update(category); err != nil {
		respondInternal(c, "Could not update category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// DELETE /api/categories/:id
// @Summary Delete category
// @Description Delete one of the user's categories. Todos in it are detached, not deleted.
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 404 {object} map[string]string "Category not found"
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid category ID")
		return
	}

	if err := h.categories.DeleteOwned(middleware.UserID(c), id); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			respondNotFound(c, "Category not found")
			return
		}
		respondInternal(c, "Could not delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
