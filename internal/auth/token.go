package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sportmatch/backend/internal/config"
)

// Manager issues and validates HMAC-signed bearer tokens.
// Secret and TTL come from config; there is no refresh flow or revocation
// list, tokens are simply valid until expiry.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token manager from app config.
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		secret: []byte(cfg.JWT.Secret),
		ttl:    time.Duration(cfg.JWT.TTLMinutes) * time.Minute,
	}
}

// Issue signs a token carrying the user ID, expiring after the configured TTL.
func (m *Manager) Issue(userID uint64) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(m.ttl).Unix(),
	})
	return token.SignedString(m.secret)
}

// Validate parses a token and returns the user ID it was issued for.
// Expired, malformed or wrongly-signed tokens all fail.
func (m *Manager) Validate(tokenStr string) (uint64, error) {
	token, err := jwt.Parse(tokenStr,
		func(token *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, fmt.Errorf("invalid user id in token")
	}
	return uint64(id), nil
}
