package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the adaptive work factor used for new password hashes.
// Verification reads the cost out of the stored hash, so raising this is safe
// for existing credentials.
const bcryptCost = 12

var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// HashPassword derives a bcrypt hash of the plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a stored bcrypt hash.
// It returns ErrPasswordMismatch on mismatch; bcrypt internally performs a
// constant-work comparison.
func VerifyPassword(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
