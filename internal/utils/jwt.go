package utils // package utils provides helpers for issuing access tokens

import (
	"errors"
	"time" // time utilities for computing expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrEmptySecret is returned when a token is requested without a
// signing secret.
var ErrEmptySecret = errors.New("empty signing secret")

// AccessToken represents a signed JWT access token along with its expiry.
// Clients send it as "Authorization: Bearer <Token>".
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT.  The token carries the
// standard sub, exp and iat claims plus a role claim checked by the
// RequireRole middleware.
func NewAccessToken(secret, subject, role string, ttl time.Duration) (AccessToken, error) {
	if secret == "" {
		return AccessToken{}, ErrEmptySecret
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
