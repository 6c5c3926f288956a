// Package auth verifies the bearer tokens issued by the identity provider.
package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Issuer is set on tokens minted by flowstate itself.
const Issuer = "flowstate"

// Claims are the Supabase-style access token claims. The subject is the
// caller identity. WorkspaceID is optional and defaults to the subject.
type Claims struct {
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
	WorkspaceID string `json:"workspace_id,omitempty"`
	jwt.RegisteredClaims
}

// Workspace returns the workspace the token acts on.
func (c *Claims) Workspace() string {
	if c.WorkspaceID != "" {
		return c.WorkspaceID
	}
	return c.Subject
}

// Issue creates a signed HS256 token for subject. It backs the token CLI
// command and tests; production tokens come from the identity provider.
func Issue(secret []byte, subject string, claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Parse validates an HS256 token string and returns its claims.
// Tokens without a subject or expiry are rejected.
func Parse(secret []byte, token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" {
		return nil, errors.Wrap(jwt.ErrTokenInvalidClaims, "missing subject")
	}
	return claims, nil
}

// ExtractBearerToken returns the token of an "Authorization: Bearer <token>" header.
func ExtractBearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
