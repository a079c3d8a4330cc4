package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Crypto utilities for sessions and passwords
func GenerateSessionID() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		// uuid v4 still draws from crypto/rand but degrades more gracefully
		LogError("Failed to generate crypto random session ID: %v", err)
		return uuid.NewString()
	}
	return hex.EncodeToString(bytes)
}

func NewID() string {
	return uuid.NewString()
}

func HashPassword(password string) (string, error) {
	if len(password) < 6 {
		return "", fmt.Errorf("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// ShortToken returns a log-safe prefix of a secret token.
func ShortToken(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8] + "..."
}
