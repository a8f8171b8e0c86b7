package auth

import (
	"errors"

	"github.com/yigit/memberdir/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost matches the cost of hashes created by earlier deployments.
const BcryptCost = 10

// ErrPasswordTooLong is returned for passwords bcrypt would truncate.
var ErrPasswordTooLong = apperrors.NewValidationError("password must not exceed 72 bytes")

// HashPassword hashes a plaintext password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a bcrypt hash with a plaintext candidate. A
// malformed stored hash simply fails the comparison.
func CheckPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
