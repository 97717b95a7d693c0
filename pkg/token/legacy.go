package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/formdesk-api/internal/models"
)

const (
	legacyHeader     = `{"alg":"HS256","typ":"JWT"}`
	legacySigLiteral = ".secret"
)

// LegacyCodec speaks the unsigned token format. The third segment is a deterministic
// re-encoding of header.payload and is never checked, so anyone can mint a valid token.
// Keep it behind TOKEN_MODE=legacy for clients that cannot move to JWTCodec yet.
type LegacyCodec struct {
	ttl time.Duration
	now Clock
}

// NewLegacyCodec builds a legacy codec. ttl defaults to 8 hours.
func NewLegacyCodec(ttl time.Duration, now Clock) *LegacyCodec {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &LegacyCodec{ttl: ttl, now: now}
}

// Issue packs the claims and an exp of now+ttl.
func (c *LegacyCodec) Issue(claims models.AdminClaims) (string, time.Time, error) {
	claims, expiresAt := withExpiry(claims, c.now(), c.ttl)
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("marshal claims: %w", err)
	}

	header := base64.StdEncoding.EncodeToString([]byte(legacyHeader))
	body := base64.StdEncoding.EncodeToString(payload)
	sig := base64.StdEncoding.EncodeToString([]byte(header + "." + body + legacySigLiteral))

	return header + "." + body + "." + sig, expiresAt, nil
}

// Verify decodes the payload segment and checks exp. The signature segment is ignored.
func (c *LegacyCodec) Verify(token string) (*models.AdminClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrMalformed
	}

	raw, err := decodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var claims models.AdminClaims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if expired(&claims, c.now()) {
		return nil, ErrExpired
	}
	return &claims, nil
}

// decodeSegment accepts padded standard base64 as produced by browsers' btoa, and the
// unpadded variants some clients emit.
func decodeSegment(seg string) ([]byte, error) {
	if raw, err := base64.StdEncoding.DecodeString(seg); err == nil {
		return raw, nil
	}
	if raw, err := base64.RawStdEncoding.DecodeString(seg); err == nil {
		return raw, nil
	}
	return base64.RawURLEncoding.DecodeString(seg)
}
