package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/ride-hail-service/pkg/util"
)

// ErrCorruptHash indicates the stored credential is not a valid bcrypt hash.
var ErrCorruptHash = errors.New("stored password hash is malformed")

// HashPassword hashes a plaintext password with the configured cost.
// The bcrypt salt makes repeated calls on the same input produce
// different hashes.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", apperrors.NewValidationError("password must not be empty", nil)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword checks a plaintext password against its stored hash.
// A mismatch is (false, nil); an error is returned only when the stored
// hash itself is unreadable.
func VerifyPassword(hashed, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, errors.Join(ErrCorruptHash, err)
}
