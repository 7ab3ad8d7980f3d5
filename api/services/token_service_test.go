package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	utils "taskvault-backend/shared/utils/auth"
)

func TestTokenService_AccessTokenRoundTrip(t *testing.T) {
	service := NewTokenService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := service.IssueAccessToken(userID, "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "access", claims.Type)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenService_AccessTokensAreUnique(t *testing.T) {
	service := NewTokenService("test-secret", time.Hour)
	userID := uuid.New()

	first, err := service.IssueAccessToken(userID, "alice@example.com")
	require.NoError(t, err)
	second, err := service.IssueAccessToken(userID, "alice@example.com")
	require.NoError(t, err)

	// Issued back to back within the same second, the jti must still
	// make the tokens distinct.
	assert.NotEqual(t, first, second)
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService("right-secret", time.Hour)
	verifier := NewTokenService("wrong-secret", time.Hour)

	token, err := issuer.IssueAccessToken(uuid.New(), "alice@example.com")
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	service := NewTokenService("test-secret", -time.Minute)

	token, err := service.IssueAccessToken(uuid.New(), "alice@example.com")
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestTokenService_RejectsNonAccessType(t *testing.T) {
	service := NewTokenService("test-secret", time.Hour)

	// A correctly signed token with the wrong type claim must not pass.
	now := time.Now()
	claims := Claims{
		UserID: uuid.New().String(),
		Email:  "alice@example.com",
		Type:   "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(forged)
	require.Error(t, err)
	assert.Equal(t, "not an access token", err.Error())
}

func TestTokenService_RejectsMalformedToken(t *testing.T) {
	service := NewTokenService("test-secret", time.Hour)

	_, err := service.ValidateAccessToken("not.a.jwt")
	assert.Error(t, err)

	_, err = service.ValidateAccessToken("")
	assert.Error(t, err)
}

func TestTokenService_IssueRefreshToken(t *testing.T) {
	service := NewTokenService("test-secret", time.Hour)

	first, err := service.IssueRefreshToken()
	require.NoError(t, err)
	assert.NoError(t, utils.ValidateRefreshTokenFormat(first))

	second, err := service.IssueRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestTokenService_AccessTTL(t *testing.T) {
	service := NewTokenService("test-secret", 42*time.Minute)
	assert.Equal(t, 42*time.Minute, service.AccessTTL())
}
