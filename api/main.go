package main

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"taskvault-backend/api/handlers"
	"taskvault-backend/api/middleware"
	"taskvault-backend/api/services"
	"taskvault-backend/shared/config"
	"taskvault-backend/shared/database"
	"taskvault-backend/shared/database/stores"
	utils "taskvault-backend/shared/utils/auth"
	"taskvault-backend/shared/utils/cache"

	_ "taskvault-backend/docs/swagger"
)

// @title TaskVault API
// @version 1.0
// @description Multi-tenant todo API. Every resource is scoped to its owning user; sessions are JWT access tokens paired with rotating opaque refresh tokens.

// @contact.name API Support
// @contact.email support@taskvault.local

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer {access token}

// @tag.name auth
// @tag.description Registration, login, token refresh and logout

// @tag.name sessions
// @tag.description Session listing, revocation and login history

// @tag.name todos
// @tag.description Todo management

// @tag.name categories
// @tag.description Category management

// atoiOr is a helper for the string-typed rate limit config fields.
func atoiOr(value string, fallback int) int {
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return fallback
}

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Redis only accelerates blacklist rejections, the API runs without it.
	if err := cache.InitTokenCache(); err != nil {
		log.Printf("⚠️  Redis unavailable, blacklist checks fall back to the database: %v", err)
	}

	// Stores
	db := database.GetDB()
	userStore := stores.NewUserStore(db)
	refreshStore := stores.NewRefreshTokenStore(db)
	blacklistStore := stores.NewBlacklistStore(db, cache.GetTokenCache())
	attemptStore := stores.NewLoginAttemptStore(db)
	todoStore := stores.NewTodoStore(db)
	categoryStore := stores.NewCategoryStore(db)

	// Services
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.GetJWTExpireDuration())
	hasher := utils.NewBcryptHasher(cfg.GetBcryptCost())
	authService, err := services.NewAuthService(
		userStore, refreshStore, blacklistStore, attemptStore,
		tokenService, hasher, cfg.GetRefreshExpireDuration(),
	)
	if err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	sessionHandler := handlers.NewSessionHandler(refreshStore, attemptStore)
	todoHandler := handlers.NewTodoHandler(todoStore, categoryStore)
	categoryHandler := handlers.NewCategoryHandler(categoryStore)

	// Rate limiting configs
	rateLimiter := middleware.NewRateLimiter(30 * time.Minute)

	generalConfig := middleware.RateLimitConfig{
		MaxRequests:   cfg.GetRateLimitMaxRequests(),
		TimeWindow:    time.Duration(cfg.GetRateLimitTimeWindowSeconds()) * time.Second,
		BlockDuration: time.Duration(cfg.GetRateLimitBlockDurationMinutes()) * time.Minute,
	}

	loginConfig := middleware.RateLimitConfig{
		MaxRequests:   atoiOr(cfg.LoginRateLimitMaxAttempts, 5),
		TimeWindow:    time.Duration(atoiOr(cfg.LoginRateLimitWindowSeconds, 300)) * time.Second,
		BlockDuration: time.Duration(atoiOr(cfg.LoginRateLimitBlockMinutes, 30)) * time.Minute,
	}

	registerConfig := middleware.RateLimitConfig{
		MaxRequests:   atoiOr(cfg.RegisterRateLimitMaxAttempts, 10),
		TimeWindow:    time.Duration(atoiOr(cfg.RegisterRateLimitWindowHours, 24)) * time.Hour,
		BlockDuration: time.Duration(atoiOr(cfg.RegisterRateLimitBlockHours, 24)) * time.Hour,
	}

	router := gin.Default()

	// CORS for the frontend origin
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	authRequired := middleware.AuthMiddleware(tokenService, blacklistStore)

	// Auth endpoints
	router.POST("/api/auth/register", rateLimiter.RegistrationRateLimitMiddleware(registerConfig), authHandler.Register)
	router.POST("/api/auth/login", rateLimiter.LoginRateLimitMiddleware(loginConfig), authHandler.Login)
	router.POST("/api/auth/refresh", rateLimiter.RateLimitMiddleware(generalConfig), authHandler.Refresh)
	router.POST("/api/auth/logout", authRequired, authHandler.Logout)

	// Session endpoints
	router.GET("/api/auth/sessions", authRequired, sessionHandler.ListSessions)
	router.DELETE("/api/auth/sessions/:id", authRequired, sessionHandler.TerminateSession)
	router.DELETE("/api/auth/sessions", authRequired, sessionHandler.TerminateAllSessions)
	router.GET("/api/auth/login-history", authRequired, sessionHandler.GetLoginHistory)

	// Todo endpoints
	todos := router.Group("/api/todos", authRequired)
	{
		todos.GET("", todoHandler.ListTodos)
		todos.POST("", todoHandler.CreateTodo)
		todos.GET("/:id", todoHandler.GetTodo)
		todos.PUT("/:id", todoHandler.UpdateTodo)
		todos.DELETE("/:id", todoHandler.DeleteTodo)
	}

	// Category endpoints
	categories := router.Group("/api/categories", authRequired)
	{
		categories.GET("", categoryHandler.ListCategories)
		categories.POST("", categoryHandler.CreateCategory)
		categories.GET("/:id", categoryHandler.GetCategory)
		categories.PUT("/:id", categoryHandler.UpdateCategory)
		categories.DELETE("/:id", categoryHandler.DeleteCategory)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "taskvault-api",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Printf("TaskVault API starting on port %s...", cfg.APIPort)
	router.Run(":" + cfg.APIPort)
}
