package ports

import "errors"

var ErrInvalidToken = errors.New("invalid admin token")

type AdminClaims struct {
	Subject string
}

// TokenVerifier validates bearer tokens presented to the admin endpoints.
type TokenVerifier interface {
	Verify(token string) (*AdminClaims, error)
}
