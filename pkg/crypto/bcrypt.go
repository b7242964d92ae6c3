package crypto

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/lborres/ledger/core"
)

// Ensure Bcrypt implements PasswordHandler
var _ core.PasswordHandler = (*Bcrypt)(nil)

// Bcrypt handles the $2a$/$2b$/$2y$ hashes written by the previous
// document-store deployment.
type Bcrypt struct {
	Cost int
}

func NewBcrypt() *Bcrypt {
	return &Bcrypt{Cost: bcrypt.DefaultCost}
}

func (b *Bcrypt) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (b *Bcrypt) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
}

func (b *Bcrypt) Recognizes(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}
