package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskvault-backend/api/services"
	"taskvault-backend/shared/database/stores"
)

// Context keys set for downstream handlers.
const (
	ContextUserID      = "userID"
	ContextUserEmail   = "userEmail"
	ContextAccessToken = "accessToken"
	ContextClaims      = "accessClaims"
)

// AuthMiddleware validates the bearer token and checks the blacklist. A
// blacklisted token gets the same message as a cryptographically invalid
// one, the response never reveals which check failed.
func AuthMiddleware(tokens *services.TokenService, blacklist *stores.BlacklistStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header required")
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			unauthorized(c, "Invalid authorization format")
			return
		}

		tokenString := tokenParts[1]

		claims, err := tokens.ValidateAccessToken(tokenString)
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		revoked, err := blacklist.Exists(tokenString)
		if err != nil {
			// Fail closed: without a blacklist answer the token cannot be
			// trusted.
			log.Printf("❌ Blacklist lookup failed: %v", err)
			unauthorized(c, "Invalid or expired token")
			return
		}
		if revoked {
			unauthorized(c, "Invalid or expired token")
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextAccessToken, tokenString)
		c.Set(ContextClaims, claims)

		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error": message,
		"code":  services.CodeAuthentication,
	})
	c.Abort()
}

// UserID returns the authenticated user's id from the context.
func UserID(c *gin.Context) uuid.UUID {
	id, _ := c.Get(ContextUserID)
	userID, _ := id.(uuid.UUID)
	return userID
}
