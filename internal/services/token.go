package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PlaceholderToken is returned by login when no signing secret is configured.
const PlaceholderToken = "mock_token"

type TokenIssuer struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), expiry: expiry, now: time.Now}
}

// Issue signs an HS256 token whose subject is the username, or returns the
// placeholder when the issuer has no secret.
func (t *TokenIssuer) Issue(username, deviceID string) (string, error) {
	if len(t.secret) == 0 {
		return PlaceholderToken, nil
	}
	now := t.now()
	claims := jwt.MapClaims{
		"sub":       username,
		"device_id": deviceID,
		"iat":       now.Unix(),
		"exp":       now.Add(t.expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}
