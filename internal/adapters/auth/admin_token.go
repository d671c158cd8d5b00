package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/roysafi/poll/internal/core/ports"
)

const adminRole = "admin"

type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminTokens issues and verifies HS256 bearer tokens for poll administration.
type AdminTokens struct {
	secret []byte
	now    func() time.Time
}

func NewAdminTokens(secret string) (*AdminTokens, error) {
	if secret == "" {
		return nil, errors.New("admin token secret is required")
	}
	return &AdminTokens{secret: []byte(secret), now: time.Now}, nil
}

func (a *AdminTokens) Issue(subject string, ttl time.Duration) (string, error) {
	now := a.now()
	claims := adminClaims{
		Role: adminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *AdminTokens) Verify(token string) (*ports.AdminClaims, error) {
	var claims adminClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrInvalidToken, err)
	}
	if claims.Role != adminRole {
		return nil, fmt.Errorf("%w: missing admin role", ports.ErrInvalidToken)
	}
	return &ports.AdminClaims{Subject: claims.Subject}, nil
}
