package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskvault-backend/api/services"
)

type categoryPayload struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

func TestCategoryCRUD(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "alice@example.com", "password1")

	w := app.do(t, http.MethodPost, "/api/categories", alice.AccessToken, gin.H{
		"name":  "Work",
		"color": "#3b82f6",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created categoryPayload
	decodeBody(t, w, &created)
	assert.Equal(t, "Work", created.Name)
	assert.Equal(t, "#3b82f6", created.Color)
	assert.Equal(t, alice.User.ID, created.UserID)

	w = app.do(t, http.MethodGet, "/api/categories/"+created.ID, alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodPut, "/api/categories/"+created.ID, alice.AccessToken, gin.H{
		"name":  "Office",
		"color": "#10b981",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated categoryPayload
	decodeBody(t, w, &updated)
	assert.Equal(t, "Office", updated.Name)
	assert.Equal(t, "#10b981", updated.Color)

	w = app.do(t, http.MethodDelete, "/api/categories/"+created.ID, alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted map[string]string
	decodeBody(t, w, &deleted)
	assert.Equal(t, "Category deleted successfully", deleted["message"])

	w = app.do(t, http.MethodGet, "/api/categories/"+created.ID, alice.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found", decodeError(t, w).Error)
}

func TestCategoryList(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "alice@example.com", "password1")
	bob := app.register(t, "bob@example.com", "password1")

	app.createCategory(t, alice.AccessToken, "Work")
	app.createCategory(t, alice.AccessToken, "Errands")
	app.createCategory(t, bob.AccessToken, "Bob's")

	w := app.do(t, http.MethodGet, "/api/categories", alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Categories []categoryPayload `json:"categories"`
	}
	decodeBody(t, w, &list)
	require.Len(t, list.Categories, 2)
	// Ordered by name.
	assert.Equal(t, "Errands", list.Categories[0].Name)
	assert.Equal(t, "Work", list.Categories[1].Name)
}

func TestCategoryCrossUserIsolation(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "alice@example.com", "password1")
	bob := app.register(t, "bob@example.com", "password1")

	categoryID := app.createCategory(t, alice.AccessToken, "Private")

	w := app.do(t, http.MethodGet, "/api/categories/"+categoryID, bob.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found", decodeError(t, w).Error)

	w = app.do(t, http.MethodPut, "/api/categories/"+categoryID, bob.AccessToken, gin.H{"name": "Hijacked"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodDelete, "/api/categories/"+categoryID, bob.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(t, http.MethodGet, "/api/categories/"+categoryID, alice.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCategoryValidation(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "alice@example.com", "password1")

	// Missing name.
	w := app.do(t, http.MethodPost, "/api/categories", alice.AccessToken, gin.H{"color": "#3b82f6"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, services.CodeValidation, decodeError(t, w).Code)

	// Color must be a hex color when present.
	w = app.do(t, http.MethodPost, "/api/categories", alice.AccessToken, gin.H{"name": "Work", "color": "red"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Color is optional.
	w = app.do(t, http.MethodPost, "/api/categories", alice.AccessToken, gin.H{"name": "Colorless"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, http.MethodGet, "/api/categories/not-a-uuid", alice.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid category ID", decodeError(t, w).Error)
}

func TestCategoryDeleteDetachesTodos(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "alice@example.com", "password1")

	categoryID := app.createCategory(t, alice.AccessToken, "Doomed")
	todo := app.createTodo(t, alice.AccessToken, gin.H{
		"title":       "Attached",
		"category_id": categoryID,
	})

	w := app.do(t, http.MethodDelete, "/api/categories/"+categoryID, alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The todo survives, detached.
	w = app.do(t, http.MethodGet, "/api/todos/"+todo.ID, alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched todoPayload
	decodeBody(t, w, &fetched)
	assert.Nil(t, fetched.CategoryID)
	assert.Nil(t, fetched.Category)
}
