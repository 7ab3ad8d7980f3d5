package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// Generate Random String (hex encoded, length = byte count)
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// Refresh tokens carry no claims, they are pure lookup keys.
// 32 random bytes -> 64 hex characters (256 bits of entropy).
func GenerateRefreshToken() (string, error) {
	return GenerateRandomToken(32)
}
