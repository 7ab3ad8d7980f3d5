package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskvault-backend/api/middleware"
	"taskvault-backend/shared/database/stores"
	"taskvault-backend/shared/utils/query"
)

// SessionHandler exposes the user's own session artifacts: live refresh
// tokens and login history.
type SessionHandler struct {
	refresh  *stores.RefreshTokenStore
	attempts *stores.LoginAttemptStore
}

func NewSessionHandler(refresh *stores.RefreshTokenStore, attempts *stores.LoginAttemptStore) *SessionHandler {
	return &SessionHandler{refresh: refresh, attempts: attempts}
}

// SessionResponse describes one live session. The token value itself is
// never echoed back.
type SessionResponse struct {
	ID         uuid.UUID `json:"id"`
	DeviceInfo string    `json:"device_info"`
	IPAddress  string    `json:"ip_address"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type LoginHistoryResponse struct {
	ID          uuid.UUID `json:"id"`
	IPAddress   string    `json:"ip_address"`
	DeviceInfo  string    `json:"device_info"`
	Successful  bool      `json:"successful"`
	FailureType string    `json:"failure_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// GET /api/auth/sessions
// @Summary List sessions
// @Description List the authenticated user's live sessions, newest first
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20)"
// @Success 200 {object} map[string]interface{} "Sessions with pagination"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Router /auth/sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID := middleware.UserID(c)
	params := query.ParseQueryParams(c)

	sessions, total, err := h.refresh.ListByUser(userID, params)
	if err != nil {
		respondInternal(c, "Could not retrieve sessions")
		return
	}

	items := make([]SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, SessionResponse{
			ID:         session.ID,
			DeviceInfo: parseUserAgent(session.UserAgent),
			IPAddress:  session.IPAddress,
			CreatedAt:  session.CreatedAt,
			ExpiresAt:  session.ExpiresAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions":   items,
		"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
	})
}

// DELETE /api/auth/sessions/:id
// @Summary Terminate session
// @Description Revoke one of the user's sessions by id
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} map[string]string "Session terminated"
// @Failure 400 {object} map[string]string "Invalid session ID"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /auth/sessions/{id} [delete]
func (h *SessionHandler) TerminateSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, "Invalid session ID")
		return
	}

	userID := middleware.UserID(c)
	if err := h.refresh.DeleteByIDAndUser(sessionID, userID); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			respondNotFound(c, "Session not found")
			return
		}
		respondInternal(c, "Could not terminate session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session terminated successfully"})
}

// DELETE /api/auth/sessions
// @Summary Terminate all sessions
// @Description Revoke every refresh token the user holds. Already-issued access tokens stay valid until logout or expiry.
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Number of terminated sessions"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Router /auth/sessions [delete]
func (h *SessionHandler) TerminateAllSessions(c *gin.Context) {
	userID := middleware.UserID(c)

	terminated, err := h.refresh.DeleteAllByUser(userID)
	if err != nil {
		respondInternal(c, "Could not terminate sessions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "All sessions terminated successfully",
		"terminated": terminated,
	})
}

// GET /api/auth/login-history
// @Summary Login history
// @Description List login attempts recorded for the user's email, newest first
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20)"
// @Success 200 {object} map[string]interface{} "Login attempts with pagination"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Router /auth/login-history [get]
func (h *SessionHandler) GetLoginHistory(c *gin.Context) {
	email := c.GetString(middleware.ContextUserEmail)
	params := query.ParseQueryParams(c)

	attempts, total, err := h.attempts.ListByEmail(email, params)
	if err != nil {
		respondInternal(c, "Could not retrieve login history")
		return
	}

	items := make([]LoginHistoryResponse, 0, len(attempts))
	for _, attempt := range attempts {
		items = append(items, LoginHistoryResponse{
			ID:          attempt.ID,
			IPAddress:   attempt.IPAddress,
			DeviceInfo:  parseUserAgent(attempt.UserAgent),
			Successful:  attempt.Successful,
			FailureType: attempt.FailureType,
			CreatedAt:   attempt.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"history":    items,
		"pagination": query.BuildPaginationResponse(params.Page, params.Limit, total),
	})
}

// parseUserAgent extracts coarse device info from a user agent string.
func parseUserAgent(userAgent string) string {
	if userAgent == "" {
		return "Unknown"
	}

	switch {
	case strings.Contains(userAgent, "iPhone") || strings.Contains(userAgent, "iPad"):
		return "iOS Device"
	case strings.Contains(userAgent, "Android"):
		return "Android Device"
	case strings.Contains(userAgent, "Windows"):
		return "Windows"
	case strings.Contains(userAgent, "Mac"):
		return "MacOS"
	case strings.Contains(userAgent, "Linux"):
		return "Linux"
	}

	return "Other"
}
