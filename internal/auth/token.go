// Package auth provides the password hashing primitive and the bearer-token
// session check. Tokens are self-contained: they carry the owning user id
// and issued/expiry times, so authentication never touches the store.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("no token provided")
	ErrInvalidToken = errors.New("permission denied")
)

// TokenTTL is fixed at issuance and not refreshed by use.
const TokenTTL = 7 * 24 * time.Hour

// Authenticator verifies a raw bearer credential and extracts the owning
// user id. Implementations must be pure functions of the credential.
type Authenticator interface {
	Authenticate(raw string) (string, error)
}

// Claims carries the user id under the "id" key the existing tokens use.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

var _ Authenticator = (*TokenManager)(nil)

// NewTokenManager creates a token manager signing with secret. ttl <= 0
// falls back to TokenTTL.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = TokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for userID, valid for the manager's ttl.
func (m *TokenManager) Issue(userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the user id it carries.
func (m *TokenManager) Verify(raw string) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

// Authenticate treats an empty credential as missing and anything that
// fails signature or expiry checks as invalid.
func (m *TokenManager) Authenticate(raw string) (string, error) {
	if raw == "" {
		return "", ErrMissingToken
	}
	return m.Verify(raw)
}
