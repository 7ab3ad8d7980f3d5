package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskvault-backend/api/middleware"
	"taskvault-backend/api/services"
	"taskvault-backend/shared/database/models"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Credential requests carry no binding validators, the auth service owns
// the validation rules and their exact messages.
type RegisterRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"correct-horse-42"`
}

type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"correct-horse-42"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" example:"9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08..."`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type UserInfo struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// POST /api/auth/register
// @Summary Register new user
// @Description Create an account and open its first session
// @Tags auth
// @Accept json
// @Produce json
// @Param register body RegisterRequest true "Registration credentials"
// @Success 201 {object} handlers.AuthResponse "Account created"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Email already exists"
// @Failure 429 {object} map[string]string "Too many registration attempts"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}

	user, pair, err := h.auth.Register(req.Email, req.Password, sessionMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		User:         userInfo(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// POST /api/auth/login
// @Summary User login
// @Description Verify credentials and open a session
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Login credentials"
// @Success 200 {object} handlers.AuthResponse "Successful login"
// @Failure 400 {object} map[string]string "Missing fields"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 429 {object} map[string]string "Too many login attempts"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}

	user, pair, err := h.auth.Login(req.Email, req.Password, sessionMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		User:         userInfo(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// POST /api/auth/refresh
// @Summary Rotate refresh token
// @Description Exchange a refresh token for a new access/refresh pair. The presented token is consumed.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body RefreshRequest true "Refresh token"
// @Success 200 {object} handlers.RefreshResponse "New token pair"
// @Failure 400 {object} map[string]string "Malformed refresh token"
// @Failure 401 {object} map[string]string "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body")
		return
	}

	pair, err := h.auth.Refresh(req.RefreshToken, sessionMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// POST /api/auth/logout
// @Summary User logout
// @Description Blacklist the access token and optionally revoke one refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param logout body LogoutRequest false "Optional refresh token to revoke"
// @Success 200 {object} map[string]string "Logged out"
// @Failure 401 {object} map[string]string "Invalid token"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	// The body is optional.
	_ = c.ShouldBindJSON(&req)

	claimsValue, _ := c.Get(middleware.ContextClaims)
	claims, ok := claimsValue.(*services.Claims)
	if !ok {
		respondInternal(c, "Could not log out")
		return
	}

	userID := middleware.UserID(c)
	accessToken := c.GetString(middleware.ContextAccessToken)

	if err := h.auth.Logout(userID, accessToken, claims.ExpiresAt.Time, req.RefreshToken); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func userInfo(user *models.User) UserInfo {
	return UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

func sessionMeta(c *gin.Context) services.SessionMeta {
	return services.SessionMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}
