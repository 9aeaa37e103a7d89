package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/types/errs"
	"github.com/golang-jwt/jwt/v5"
)

// claims is the token body: subject is the owner id.
type claims struct {
	jwt.RegisteredClaims
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

func (i *Issuer) Issue(c dto.Claims, now time.Time) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
	})

	s, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("Issuer - Issue - t.SignedString: %w", err)
	}

	return s, nil
}

// Parse accepts only HS256 tokens signed with the issuer secret.
func (i *Issuer) Parse(s string) (dto.Claims, error) {
	c := &claims{}

	t, err := jwt.ParseWithClaims(s, c, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return dto.Claims{}, fmt.Errorf("Issuer - Parse: token expired: %w", errs.ErrUnauthorized)
		}
		return dto.Claims{}, fmt.Errorf("Issuer - Parse - jwt.ParseWithClaims: %w: %w", errs.ErrUnauthorized, err)
	}

	if !t.Valid || c.Subject == "" {
		return dto.Claims{}, fmt.Errorf("Issuer - Parse: %w", errs.ErrUnauthorized)
	}

	return dto.Claims{
		Subject:     c.Subject,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
	}, nil
}
