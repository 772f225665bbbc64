package preview

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL bounds how long a shared preview link stays valid.
const DefaultTokenTTL = 24 * time.Hour

// Claims carry the draft key a preview link grants access to.
type Claims struct {
	DraftKey string `json:"draft_key"`
	jwt.RegisteredClaims
}

// TokenService signs and validates preview draft links. A draft is unsaved
// editor state; the signature keeps guessing draft keys from turning into a
// way to read someone else's work in progress.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service. A non-positive ttl falls back to
// DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Sign issues a preview token for a draft key.
func (s *TokenService) Sign(draftKey string) (string, error) {
	now := time.Now()
	claims := &Claims{
		DraftKey: draftKey,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign preview token: %w", err)
	}
	return signed, nil
}

// Verify validates a preview token and returns the draft key it grants.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid preview token: %w", err)
	}
	if !token.Valid || claims.DraftKey == "" {
		return "", fmt.Errorf("invalid preview token")
	}
	return claims.DraftKey, nil
}
