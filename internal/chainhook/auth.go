package chainhook

import (
	"crypto/subtle"
	"errors"
	"strings"
)

// ErrUnauthorized is returned for every rejected credential, missing or wrong.
var ErrUnauthorized = errors.New("unauthorized")

// AuthGuard checks the bearer credential of inbound webhook deliveries.
type AuthGuard struct {
	secret []byte
}

func NewAuthGuard(secret string) *AuthGuard {
	return &AuthGuard{secret: []byte(secret)}
}

// Authorize validates an Authorization header value.
func (g *AuthGuard) Authorize(header string) error {
	if g == nil || len(g.secret) == 0 {
		return ErrUnauthorized
	}
	token, ok := parseBearerToken(header)
	if !ok {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(token), g.secret) != 1 {
		return ErrUnauthorized
	}
	return nil
}

func parseBearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimPrefix(header, prefix)
	if token == "" {
		return "", false
	}
	return token, true
}
