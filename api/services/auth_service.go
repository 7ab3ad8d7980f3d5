package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"taskvault-backend/shared/database/models"
	"taskvault-backend/shared/database/models/auth"
	"taskvault-backend/shared/database/stores"
	utils "taskvault-backend/shared/utils/auth"
)

// PasswordHasher abstracts the hash primitive so the login timing path can
// be observed in tests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// SessionMeta carries per-request client details into the session rows.
type SessionMeta struct {
	IPAddress string
	UserAgent string
}

// TokenPair is what every credential flow hands back.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService owns the session lifecycle: registration, login, refresh
// rotation and logout revocation.
type AuthService struct {
	users      *stores.UserStore
	refresh    *stores.RefreshTokenStore
	blacklist  *stores.BlacklistStore
	attempts   *stores.LoginAttemptStore
	tokens     *TokenService
	hasher     PasswordHasher
	refreshTTL time.Duration
	dummyHash  string
}

func NewAuthService(
	users *stores.UserStore,
	refresh *stores.RefreshTokenStore,
	blacklist *stores.BlacklistStore,
	attempts *stores.LoginAttemptStore,
	tokens *TokenService,
	hasher PasswordHasher,
	refreshTTL time.Duration,
) (*AuthService, error) {
	// A well-formed hash of an unguessable value. Verifying against it runs
	// the full bcrypt cost, a malformed placeholder would fail fast and give
	// unknown-email logins a measurably shorter latency.
	dummyHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}

	return &AuthService{
		users:      users,
		refresh:    refresh,
		blacklist:  blacklist,
		attempts:   attempts,
		tokens:     tokens,
		hasher:     hasher,
		refreshTTL: refreshTTL,
		dummyHash:  dummyHash,
	}, nil
}

// Register creates the account and opens its first session.
func (s *AuthService) Register(email, password string, meta SessionMeta) (*models.User, *TokenPair, error) {
	email = utils.NormalizeEmail(email)
	if err := utils.ValidateEmail(email); err != nil {
		return nil, nil, NewValidationError(err.Error())
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, nil, NewValidationError(err.Error())
	}

	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, stores.ErrNotFound) {
		log.Printf("❌ Email lookup failed during registration: %v", err)
		return nil, nil, NewInternalError("Could not create user")
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		log.Printf("❌ Password hashing failed: %v", err)
		return nil, nil, NewInternalError("Could not create user")
	}

	user := &models.User{
		Email:    email,
		Password: hashed,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, stores.ErrEmailTaken) {
			return nil, nil, ErrEmailTaken
		}
		log.Printf("❌ User insert failed: %v", err)
		return nil, nil, NewInternalError("Could not create user")
	}

	pair, err := s.openSession(user, meta)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Login verifies credentials and opens a session. Unknown email and wrong
// password produce the same error and, via verifyCredentials, the same
// latency.
func (s *AuthService) Login(email, password string, meta SessionMeta) (*models.User, *TokenPair, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, NewValidationError("email and password are required")
	}

	user, err := s.users.FindByEmail(email)
	if err != nil && !errors.Is(err, stores.ErrNotFound) {
		log.Printf("❌ User lookup failed during login: %v", err)
		return nil, nil, NewInternalError("Could not log in")
	}

	if !s.verifyCredentials(user, password) {
		s.recordAttempt(email, meta, false)
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.openSession(user, meta)
	if err != nil {
		return nil, nil, err
	}

	s.recordAttempt(email, meta, true)
	return user, pair, nil
}

// verifyCredentials runs exactly one hash verification per call, against
// the dummy hash when no user matched. Skipping the call for unknown emails
// would let response timing enumerate accounts.
func (s *AuthService) verifyCredentials(user *models.User, password string) bool {
	if user == nil {
		s.hasher.Verify(password, s.dummyHash)
		return false
	}
	return s.hasher.Verify(password, user.Password)
}

// Refresh rotates a refresh token: the presented token is consumed and a
// fresh pair is issued. A replayed token loses the rotation race inside the
// store and is rejected like any unknown token.
func (s *AuthService) Refresh(refreshToken string, meta SessionMeta) (*TokenPair, error) {
	if err := utils.ValidateRefreshTokenFormat(refreshToken); err != nil {
		return nil, NewValidationError("Invalid refresh token format")
	}

	row, err := s.refresh.FindByToken(refreshToken)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		log.Printf("❌ Refresh token lookup failed: %v", err)
		return nil, NewInternalError("Could not refresh session")
	}

	if time.Now().After(row.ExpiresAt) {
		if err := s.refresh.DeleteByToken(refreshToken); err != nil {
			log.Printf("❌ Could not delete expired refresh token: %v", err)
		}
		return nil, ErrRefreshTokenExpired
	}

	user, err := s.users.FindByID(row.UserID)
	if err != nil {
		// The owning account vanished under a live session.
		return nil, ErrInvalidRefreshToken
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		log.Printf("❌ Could not sign access token: %v", err)
		return nil, NewInternalError("Could not generate token")
	}

	newRefreshToken, err := s.tokens.IssueRefreshToken()
	if err != nil {
		log.Printf("❌ Could not generate refresh token: %v", err)
		return nil, NewInternalError("Could not generate refresh token")
	}

	next := &auth.RefreshToken{
		UserID:    user.ID,
		Token:     newRefreshToken,
		ExpiresAt: time.Now().Add(s.refreshTTL),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if err := s.refresh.Rotate(refreshToken, next); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		log.Printf("❌ Refresh token rotation failed: %v", err)
		return nil, NewInternalError("Could not refresh session")
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// Logout blacklists the presented access token for its remaining lifetime
// and, when a refresh token is supplied, deletes it if it belongs to the
// caller. The refresh deletion is idempotent, zero affected rows is still
// success so the endpoint leaks nothing about other users' tokens.
func (s *AuthService) Logout(userID uuid.UUID, accessToken string, expiresAt time.Time, refreshToken string) error {
	if err := s.blacklist.Add(accessToken, expiresAt); err != nil {
		log.Printf("❌ Could not blacklist token: %v", err)
		return NewInternalError("Could not log out")
	}

	if refreshToken != "" {
		if err := s.refresh.DeleteByTokenAndUser(refreshToken, userID); err != nil {
			log.Printf("❌ Could not delete refresh token on logout: %v", err)
			return NewInternalError("Could not log out")
		}
	}

	return nil
}

// openSession issues the access/refresh pair and persists the refresh row.
func (s *AuthService) openSession(user *models.User, meta SessionMeta) (*TokenPair, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		log.Printf("❌ Could not sign access token: %v", err)
		return nil, NewInternalError("Could not generate token")
	}

	refreshToken, err := s.tokens.IssueRefreshToken()
	if err != nil {
		log.Printf("❌ Could not generate refresh token: %v", err)
		return nil, NewInternalError("Could not generate refresh token")
	}

	row := &auth.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(s.refreshTTL),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if err := s.refresh.Create(row); err != nil {
		log.Printf("❌ Could not persist refresh token: %v", err)
		return nil, NewInternalError("Could not create session")
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) recordAttempt(email string, meta SessionMeta, successful bool) {
	attempt := &auth.LoginAttempt{
		Email:      email,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Successful: successful,
	}
	if !successful {
		// The attempt log records no more detail than the client was told.
		attempt.FailureType = "invalid credentials"
	}
	s.attempts.Record(attempt)
}
