package hasher

import (
	"errors"
	"fmt"

	"github.com/andreyxaxa/LocalStoreConnect/pkg/types/errs"
	"golang.org/x/crypto/bcrypt"
)

type Bcrypt struct {
	cost int
}

func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("Bcrypt - Hash - bcrypt.GenerateFromPassword: %w", err)
	}

	return string(h), nil
}

func (b *Bcrypt) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("Bcrypt - Compare: %w", errs.ErrInvalidCredentials)
		}
		return fmt.Errorf("Bcrypt - Compare - bcrypt.CompareHashAndPassword: %w", err)
	}

	return nil
}
