package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/formdesk-api/internal/models"
)

// JWTCodec signs tokens with HS256.
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    Clock
}

// NewJWTCodec builds a signed codec. ttl defaults to 8 hours.
func NewJWTCodec(secret string, ttl time.Duration, issuer string, now Clock) (*JWTCodec, error) {
	if secret == "" {
		return nil, errors.New("token secret required")
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &JWTCodec{secret: []byte(secret), ttl: ttl, issuer: issuer, now: now}, nil
}

// Issue signs the claims with an exp of now+ttl.
func (c *JWTCodec) Issue(claims models.AdminClaims) (string, time.Time, error) {
	now := c.now()
	claims, expiresAt := withExpiry(claims, now, c.ttl)
	claims.IssuedAt = jwt.NewNumericDate(now.Truncate(time.Second))
	claims.Subject = claims.UserID
	if c.issuer != "" {
		claims.Issuer = c.issuer
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature, the algorithm and exp.
func (c *JWTCodec) Verify(tokenString string) (*models.AdminClaims, error) {
	claims := &models.AdminClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithoutClaimsValidation())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrSignature, err)
		}
	}

	if expired(claims, c.now()) {
		return nil, ErrExpired
	}
	return claims, nil
}
