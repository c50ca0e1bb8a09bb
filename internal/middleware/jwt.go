package middleware // middleware holds reusable echo middleware for the statement API

import (
	"fmt"
	"net/http" // HTTP status codes for responses
	"strings"  // prefix checks on the Authorization header

	"github.com/golang-jwt/jwt/v5" // JWT parsing and validation
	"github.com/labstack/echo/v4"  // echo middleware types
)

// Context keys set by JWTAuth.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// JWTAuth returns a middleware that validates an HS256 bearer token
// signed with secret.  On success the token's sub and role claims are
// stored in the context under ContextUserID and ContextRole as strings.
func JWTAuth(secret string) echo.MiddlewareFunc {
	keyFunc := func(*jwt.Token) (interface{}, error) { return []byte(secret), nil }
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// only HMAC-SHA256 tokens are accepted; anything else is rejected by the parser
			tok, err := jwt.Parse(raw, keyFunc, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			c.Set(ContextUserID, claimString(claims["sub"]))
			c.Set(ContextRole, claimString(claims["role"]))
			return next(c)
		}
	}
}

// claimString renders a claim as a string; numeric subjects decode from
// JSON as float64.
func claimString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%.0f", t)
	default:
		return fmt.Sprint(t)
	}
}

// subject returns the authenticated user id, or "anon" when the request
// did not pass through JWTAuth.
func subject(c echo.Context) string {
	if s, ok := c.Get(ContextUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}
