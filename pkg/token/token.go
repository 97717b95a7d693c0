// Package token issues and verifies the bearer credentials used by the admin dashboard.
//
// Two codecs share one wire shape (three dot separated base64 segments whose payload carries
// userId, username, role and a Unix-seconds exp): JWTCodec signs with HS256, LegacyCodec
// reproduces the unsigned format older dashboard builds still send.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/formdesk-api/internal/models"
)

var (
	// ErrMalformed is returned when the token does not have three segments or cannot be decoded.
	ErrMalformed = errors.New("token malformed")
	// ErrExpired is returned once the current time reaches exp.
	ErrExpired = errors.New("token expired")
	// ErrSignature is returned when a signed token fails verification.
	ErrSignature = errors.New("token signature invalid")
)

// Codec issues and verifies admin tokens.
type Codec interface {
	Issue(claims models.AdminClaims) (string, time.Time, error)
	Verify(token string) (*models.AdminClaims, error)
}

// Clock returns the current time; overridable in tests.
type Clock func() time.Time

func withExpiry(claims models.AdminClaims, now time.Time, ttl time.Duration) (models.AdminClaims, time.Time) {
	expiresAt := now.Add(ttl).Truncate(time.Second)
	claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	return claims, expiresAt
}

// expired applies the "now >= exp" rule shared by both codecs. A missing exp never expires.
func expired(claims *models.AdminClaims, now time.Time) bool {
	if claims.ExpiresAt == nil {
		return false
	}
	return now.Unix() >= claims.ExpiresAt.Unix()
}
