// Package auth validates the JWTs issued by the identity provider.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/whispers-app/journal-api/internal/domain"
)

// Verifier validates HS256-signed bearer tokens and resolves the
// authenticated user from their claims.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// claims is the token payload. The subject carries the user id.
type claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// NewVerifier creates a token verifier with the shared signing secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// Verify parses and validates a token string and returns the user it
// identifies. Expired, malformed, or foreign-signed tokens all map to
// domain.ErrUnauthorized.
func (v *Verifier) Verify(tokenStr string) (domain.User, error) {
	var c claims
	_, err := v.parser.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	if c.Subject == "" {
		return domain.User{}, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}

	return domain.User{ID: c.Subject, Email: c.Email}, nil
}
