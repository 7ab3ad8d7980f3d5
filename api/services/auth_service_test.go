package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskvault-backend/shared/database"
	"taskvault-backend/shared/database/models/auth"
	"taskvault-backend/shared/database/stores"
	utils "taskvault-backend/shared/utils/auth"
)

type authTestEnv struct {
	service   *AuthService
	users     *stores.UserStore
	refresh   *stores.RefreshTokenStore
	blacklist *stores.BlacklistStore
	attempts  *stores.LoginAttemptStore
	db        *gorm.DB
}

var testMeta = SessionMeta{IPAddress: "10.0.0.1", UserAgent: "test-agent"}

func newAuthTestEnv(t *testing.T, hasher PasswordHasher) *authTestEnv {
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

	if hasher == nil {
		hasher = utils.NewBcryptHasher(bcrypt.MinCost)
	}

	env := &authTestEnv{
		users:     stores.NewUserStore(db),
		refresh:   stores.NewRefreshTokenStore(db),
		blacklist: stores.NewBlacklistStore(db, nil),
		attempts:  stores.NewLoginAttemptStore(db),
		db:        db,
	}

	tokens := NewTokenService("test-secret", time.Hour)
	service, err := NewAuthService(env.users, env.refresh, env.blacklist, env.attempts, tokens, hasher, 24*time.Hour)
	require.NoError(t, err)
	env.service = service

	return env
}

// countingHasher wraps the real hasher so tests can observe how many
// verifications a flow performs.
type countingHasher struct {
	inner    *utils.BcryptHasher
	verifies int
}

func newCountingHasher() *countingHasher {
	return &countingHasher{inner: utils.NewBcryptHasher(bcrypt.MinCost)}
}

func (h *countingHasher) Hash(password string) (string, error) {
	return h.inner.Hash(password)
}

func (h *countingHasher) Verify(password, hash string) bool {
	h.verifies++
	return h.inner.Verify(password, hash)
}

func TestAuthService_Register(t *testing.T) {
	env := newAuthTestEnv(t, nil)

	user, pair, err := env.service.Register("alice@example.com", "password1", testMeta)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, pair)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "password1", user.Password, "password must be stored hashed")
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// The first session is persisted with the request metadata.
	row, err := env.refresh.FindByToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, row.UserID)
	assert.Equal(t, "10.0.0.1", row.IPAddress)
	assert.Equal(t, "test-agent", row.UserAgent)
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	env := newAuthTestEnv(t, nil)

	user, _, err := env.service.Register("  Alice@Example.COM  ", "password1", testMeta)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	// Login matches regardless of the email's casing.
	_, pair, err := env.service.Login("ALICE@example.com", "password1", testMeta)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	env := newAuthTestEnv(t, nil)

	_, _, err := env.service.Register("alice@example.com", "password1", testMeta)
	require.NoError(t, err)

	_, _, err = env.service.Register("alice@example.com", "different2", testMeta)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Register_Validation(t *testing.T) {
	env := newAuthTestEnv(t, nil)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"invalid email", "not-an-email", "password1"},
		{"empty email", "", "password1"},
		{"short password", "alice@example.com", "pw1"},
		{"digitless password", "alice@example.com", "passwordonly"},
		{"oversized password", "alice@example.com", strings.Repeat("a1", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.service.Register(tt.email, tt.password, testMeta)
			require.Error(t, err)

			appErr, ok := err.(*AppError)
			require.True(t, ok)
			assert.Equal(t, CodeValidation, appErr.Code)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	env := newAuthTestEnv(t, nil)

	registered, _, err := env.service.Register("alice@example.com", "password1", testMeta)
	require.NoError(t, err)

	user, pair, err := env.service.Login("alice@example.com", "password1", testMeta)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// Each login opens its own session row.
	var count int64
	require.NoError(t, env.db.Model(&auth.RefreshToken{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	env := newAuthTestEnv(t, nil)

	_, _, err := env.service.Register("alice@example.com", "password1", testMeta)
	require.NoError(t, err)

	_, _, err = env.service.Login("alice@example.com", "wrong-password1", testMeta)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	env := newAuthTestEnv(t, nil)

	_, _, err := env.service.Login("nobody@example.com", "password1", testMeta)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email and wrong password must be indistinguishable")
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	env := newAuthTestEnv(t, nil)

	_, _, err := env.service.Login("", "password1", testMeta)
	require.Error(t, err)
	appErr, ok := err.(*AppError)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, appErr.Code)

	_, _, err = env.service.Login("alice@example.com", "", testMeta)
	require.Error(t, err)
}

func TestAuthService_Login_OneVerifyPerAttempt(t *testing.T) {
	hasher := newCountingHasher()
	env := newAuthTestEnv(t, hasher)

	_, _, err := env.service.Register("alice@example.com", "password1", testMeta)
	require.NoError(t, err)

	// Unknown email still burns exactly one verification, against the
	// dummy hash, so response timing cannot enumerate accounts.
	hasher.verifies = 0
	_, _, err = env.service.Login("nobody@example.com", "password1", testMeta)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 1, hasher.verifies)

	hasher.verifies = 0
	_, _, err = env.service.Login("alice@example.com", "wrong-password1", testMeta)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 1, hasher.verifies)
}

func TestAuthService_Login_RecordsAttempts(t *testing.T) {
	env := newAuthTestEnv(t, nil)

	_, _, err := env.service.Register("alice@example.com", "password1", testMeta)
	require.NoError(t, err)

	_, _, _ = env.service.Login("alice@example.com", "wrong-password1", testMeta)
	_, _, err = env.service.Login("alice@example.com", "password1", testMeta)
	require.NoError(t, err)

	var attempts []auth.LoginAttempt
	require.NoError(t, env.db.Where("email = ?", "alice@example.com").Order("created_at ASC").Find(&attempts).Error)
	require.Len(t, attempts, 2)

	assert.False(t, attempts[0].Successful)
	assert.Equal(t, "invalid credentials", attempts[0].FailureType)
	assert.True(t, attempts[1].Successful)
	assert.Empty(t, attempts[1].FailureType)
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	env := newAuthTestEnv(t, nil)

	_, pair, err := env.service.Register("alice@example.com", "password1", testMeta)
	require.NoError(t, err)

	next, err := env.service.Refresh(pair.RefreshToken, testMeta)
	require.NoError(t, err)
	assert.NotEmpty(t, next.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The presented token was consumed.
	_, err = env.refresh.FindByToken(pair.RefreshToken)
	assert.ErrorIs(t, err, stores.ErrNotFound)

	// Replaying it is rejected like any unknown token.
	_, err = env.service.Refresh(pair.RefreshToken, testMeta)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// The replacement works.
	_, err = env.service.Refresh(next.RefreshToken, testMeta)
	require.NoError(t, err)
}

func TestAuthService_Refresh_MalformedToken(t *testing.T) {
	env := newAuthTestEnv(t, nil)

	_, err := env.service.Refresh("definitely-not-hex", testMeta)
	require.Error(t, err)

	appErr, ok := err.(*AppError)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, appErr.Code)
	assert.Equal(t, "Invalid refresh token format", appErr.Message)
}

func TestAuthService_Refresh_UnknownToken(t *testing.T) {
	env := newAuthTestEnv(t, nil)

	_, err := env.service.Refresh(strings.Repeat("ab", 32), testMeta)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthService_Refresh_ExpiredToken(t *testing.T) {
	env := newAuthTestEnv(t, nil)

	user, _, err := env.service.Register("alice@example.com", "password1", testMeta)
	require.NoError(t, err)

	expired := strings.Repeat("cd", 32)
	require.NoError(t, env.refresh.Create(&auth.RefreshToken{
		UserID:    user.ID,
		Token:     expired,
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	_, err = env.service.Refresh(expired, testMeta)
	assert.ErrorIs(t, err, ErrRefreshTokenExpired)

	// Expired rows are cleaned up on discovery.
	_, err = env.refresh.FindByToken(expired)
	assert.ErrorIs(t, err, stores.ErrNotFound)
}

func TestAuthService_Logout(t *testing.T) {
	env := newAuthTestEnv(t, nil)

	user, pair, err := env.service.Register("alice@example.com", "password1", testMeta)
	require.NoError(t, err)

	err = env.service.Logout(user.ID, pair.AccessToken, time.Now().Add(time.Hour), pair.RefreshToken)
	require.NoError(t, err)

	revoked, err := env.blacklist.Exists(pair.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = env.refresh.FindByToken(pair.RefreshToken)
	assert.ErrorIs(t, err, stores.ErrNotFound)
}

func TestAuthService_Logout_WithoutRefreshToken(t *testing.T) {
	env := newAuthTestEnv(t, nil)

	user, pair, err := env.service.Register("alice@example.com", "password1", testMeta)
	require.NoError(t, err)

	err = env.service.Logout(user.ID, pair.AccessToken, time.Now().Add(time.Hour), "")
	require.NoError(t, err)

	// Only the access token is revoked, the session row stays.
	_, err = env.refresh.FindByToken(pair.RefreshToken)
	require.NoError(t, err)
}

func TestAuthService_Logout_ForeignRefreshTokenIgnored(t *testing.T) {
	env := newAuthTestEnv(t, nil)

	_, alicePair, err := env.service.Register("alice@example.com", "password1", testMeta)
	require.NoError(t, err)
	bob, bobPair, err := env.service.Register("bob@example.com", "password1", testMeta)
	require.NoError(t, err)

	// Bob presents Alice's refresh token at logout. The call succeeds but
	// the foreign session is untouched.
	err = env.service.Logout(bob.ID, bobPair.AccessToken, time.Now().Add(time.Hour), alicePair.RefreshToken)
	require.NoError(t, err)

	_, err = env.refresh.FindByToken(alicePair.RefreshToken)
	require.NoError(t, err)
}
