// Package auth is the identity-provider boundary. The provider issues
// signed bearer tokens; this package verifies them and extracts the opaque
// subject id plus the optional email and name claims. Token issuance,
// sessions, and password flows stay with the provider.
package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eleven-am/keep/internal/domain"
)

// Identity is what the identity provider asserts about a caller.
type Identity struct {
	Subject string
	Email   string
	Name    *string
}

// Config holds token verification settings.
type Config struct {
	Secret   string
	Issuer   string
	Audience string
}

// Verifier validates HMAC-signed bearer tokens.
type Verifier struct {
	secret  []byte
	options []jwt.ParserOption
}

// NewVerifier builds a Verifier. The signing secret is mandatory; issuer
// and audience checks apply only when configured.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("auth secret is required")
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
	}
	if cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		options = append(options, jwt.WithAudience(cfg.Audience))
	}

	return &Verifier{secret: []byte(cfg.Secret), options: options}, nil
}

// Verify parses a bearer token and returns the asserted identity. Any
// parse or validation failure, including expiry, maps to
// domain.ErrNotAuthenticated.
func (v *Verifier) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, domain.ErrNotAuthenticated
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, v.options...)
	if err != nil || !token.Valid {
		return Identity{}, domain.ErrNotAuthenticated
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return Identity{}, domain.ErrNotAuthenticated
	}

	ident := Identity{Subject: subject}
	if email, ok := claims["email"].(string); ok {
		ident.Email = email
	}
	if name, ok := claims["name"].(string); ok && name != "" {
		ident.Name = &name
	}
	return ident, nil
}

// BearerToken extracts the token from an Authorization: Bearer header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", domain.ErrNotAuthenticated
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", domain.ErrNotAuthenticated
	}
	return parts[1], nil
}
