package utils

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
)

var refreshTokenPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// NormalizeEmail lowercases and trims an email before any storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}

	if len(email) > 255 {
		return errors.New("email must be at most 255 characters")
	}

	_, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("invalid email format")
	}

	return nil
}

// ValidatePassword enforces registration strength rules. The 72 byte cap is
// the bcrypt input limit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	if len(password) > 72 {
		return errors.New("password must be at most 72 characters")
	}

	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			hasLetter = true
		case c >= '0' && c <= '9':
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return errors.New("password must contain at least one letter and one digit")
	}

	return nil
}

// ValidateRefreshTokenFormat gates the refresh endpoint before any store
// lookup. Everything GenerateRefreshToken produces matches this pattern.
func ValidateRefreshTokenFormat(token string) error {
	if !refreshTokenPattern.MatchString(token) {
		return errors.New("invalid refresh token format")
	}
	return nil
}

func ValidateRequired(field, fieldName string) error {
	if strings.TrimSpace(field) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}
