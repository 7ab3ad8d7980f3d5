package stores

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskvault-backend/shared/database"
	"taskvault-backend/shared/database/models"
	"taskvault-backend/shared/database/models/auth"
)

// newTestDB opens an isolated in-memory database with the full schema.
// TranslateError matches the production connection, so unique violations
// surface as gorm.ErrDuplicatedKey here too. The single connection keeps
// the in-memory database alive across queries.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.MigrationModels()...))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{Email: email, Password: "$2a$04$notarealhashnotarealhash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestRefreshToken(t *testing.T, store *RefreshTokenStore, userID uuid.UUID, token string, expiresAt time.Time) *auth.RefreshToken {
	t.Helper()

	row := &auth.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		IPAddress: "127.0.0.1",
		UserAgent: "test-agent",
	}
	require.NoError(t, store.Create(row))
	return row
}

func createTestCategory(t *testing.T, store *CategoryStore, userID uuid.UUID, name string) *models.Category {
	t.Helper()

	category := &models.Category{UserID: userID, Name: name, Color: "#3b82f6"}
	require.NoError(t, store.Create(category))
	return category
}

func createTestTodo(t *testing.T, store *TodoStore, userID uuid.UUID, title string) *models.Todo {
	t.Helper()

	todo := &models.Todo{UserID: userID, Title: title}
	require.NoError(t, store.Create(todo))
	return todo
}
