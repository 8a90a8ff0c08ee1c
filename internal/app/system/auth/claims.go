// internal/app/system/auth/claims.go
package auth

import (
	"time"

	"github.com/dalemusser/trackhub/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity carried by a bearer token: who the subject is and
// what role they hold. Everything downstream (policy checks, scope filters)
// is a function of these two values.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// IssueToken signs a token for the given user with the provided lifetime.
func IssueToken(secret []byte, user models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: user.ID.Hex(),
		Role:   user.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyToken parses and verifies a bearer token against the shared secret.
//
// On any failure (malformed token, wrong signature, expired) it returns
// (nil, false) — "no identity" — never an error or a panic. Callers treat
// absence of identity as anonymous.
func VerifyToken(secret []byte, token string) (*Claims, bool) {
	if token == "" {
		return nil, false
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, false
	}
	if claims.UserID == "" {
		// Older tokens carried the id only in the subject.
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" || claims.Role == "" {
		return nil, false
	}
	return claims, true
}
