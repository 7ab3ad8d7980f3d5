package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskvault-backend/api/middleware"
	"taskvault-backend/api/services"
	"taskvault-backend/shared/database"
	"taskvault-backend/shared/database/stores"
	utils "taskvault-backend/shared/utils/auth"
)

// testApp wires the full router against an in-memory database, the same
// shape main builds minus rate limiting, CORS and swagger.
type testApp struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.MigrationModels()...))

	userStore := stores.NewUserStore(db)
	refreshStore := stores.NewRefreshTokenStore(db)
	blacklistStore := stores.NewBlacklistStore(db, nil)
	attemptStore := stores.NewLoginAttemptStore(db)
	todoStore := stores.NewTodoStore(db)
	categoryStore := stores.NewCategoryStore(db)

	tokenService := services.NewTokenService("test-secret", time.Hour)
	hasher := utils.NewBcryptHasher(bcrypt.MinCost)
	authService, err := services.NewAuthService(
		userStore, refreshStore, blacklistStore, attemptStore,
		tokenService, hasher, 24*time.Hour,
	)
	require.NoError(t, err)

	authHandler := NewAuthHandler(authService)
	sessionHandler := NewSessionHandler(refreshStore, attemptStore)
	todoHandler := NewTodoHandler(todoStore, categoryStore)
	categoryHandler := NewCategoryHandler(categoryStore)

	authRequired := middleware.AuthMiddleware(tokenService, blacklistStore)

	router := gin.New()
	router.POST("/api/auth/register", authHandler.Register)
	router.POST("/api/auth/login", authHandler.Login)
	router.POST("/api/auth/refresh", authHandler.Refresh)
	router.POST("/api/auth/logout", authRequired, authHandler.Logout)

	router.GET("/api/auth/sessions", authRequired, sessionHandler.ListSessions)
	router.DELETE("/api/auth/sessions/:id", authRequired, sessionHandler.TerminateSession)
	router.DELETE("/api/auth/sessions", authRequired, sessionHandler.TerminateAllSessions)
	router.GET("/api/auth/login-history", authRequired, sessionHandler.GetLoginHistory)

	todos := router.Group("/api/todos", authRequired)
	{
		todos.GET("", todoHandler.ListTodos)
		todos.POST("", todoHandler.CreateTodo)
		todos.GET("/:id", todoHandler.GetTodo)
		todos.PUT("/:id", todoHandler.UpdateTodo)
		todos.DELETE("/:id", todoHandler.DeleteTodo)
	}

	categories := router.Group("/api/categories", authRequired)
	{
		categories.GET("", categoryHandler.ListCategories)
		categories.POST("", categoryHandler.CreateCategory)
		categories.GET("/:id", categoryHandler.GetCategory)
		categories.PUT("/:id", categoryHandler.UpdateCategory)
		categories.DELETE("/:id", categoryHandler.DeleteCategory)
	}

	return &testApp{router: router, db: db}
}

// do sends a JSON request, with a bearer token when one is given.
func (app *testApp) do(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Windows test-client")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target))
}

// authPayload mirrors the register/login response shape.
type authPayload struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// register creates an account through the API and returns its tokens.
func (app *testApp) register(t *testing.T, email, password string) authPayload {
	t.Helper()

	w := app.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, "register failed: %s", w.Body.String())

	var payload authPayload
	decodeBody(t, w, &payload)
	return payload
}

type errorPayload struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var payload errorPayload
	decodeBody(t, w, &payload)
	return payload
}
