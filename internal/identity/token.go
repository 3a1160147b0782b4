// Package identity verifies credentials issued by the external identity
// provider: bearer session tokens on API requests and signed webhook
// deliveries for account lifecycle events.
package identity

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/rememberthis/remember-server/internal/errors"
)

// Identity is the verified caller extracted from a session token or
// webhook event. ExternalID is the provider's user ID, never our own.
type Identity struct {
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// TokenVerifier validates provider-issued session tokens.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier creates a verifier for HS256 session tokens.
// issuer is optional; when set, tokens from other issuers are rejected.
func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses and validates a session token, returning the caller identity.
// All failures map to an unauthorized domain error; the underlying parse
// error is retained as the cause for logging.
func (tv *TokenVerifier) Verify(tokenString string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if tv.issuer != "" {
		opts = append(opts, jwt.WithIssuer(tv.issuer))
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return tv.secret, nil
	}, opts...)
	if err != nil {
		return nil, errors.Unauthorized("invalid session token").WithCause(err)
	}

	if claims.Subject == "" {
		return nil, errors.Unauthorized("session token missing subject")
	}

	return &Identity{
		ExternalID: claims.Subject,
		Email:      claims.Email,
		FirstName:  claims.FirstName,
		LastName:   claims.LastName,
	}, nil
}
