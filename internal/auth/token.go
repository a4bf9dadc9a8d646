package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/storage-service/internal/domain"
)

// Signature and expiry failures are distinguished so the gate can answer
// 401 for garbage and 403 for tokens that were once valid.
var (
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenInvalid   = errors.New("invalid token")
)

// TokenManager handles issuing and validating JWT access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	maxTTL time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret []byte, ttl, maxTTL time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if maxTTL < ttl {
		maxTTL = ttl
	}
	return &TokenManager{secret: secret, ttl: ttl, maxTTL: maxTTL}
}

// Claims describes the JWT payload.
type Claims struct {
	Scope domain.Scope `json:"scope"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs a token for the subject. A non-zero ttl
// overrides the default lifetime, capped by the configured maximum.
func (tm *TokenManager) GenerateToken(subject string, scope domain.Scope, ttl time.Duration) (string, domain.Token, error) {
	if ttl <= 0 {
		ttl = tm.ttl
	}
	if ttl > tm.maxTTL {
		ttl = tm.maxTTL
	}
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", domain.Token{}, err
	}
	meta := domain.Token{
		Subject:   subject,
		Scope:     scope,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}
	return tokenString, meta, nil
}

// ParseToken validates signature and expiry and returns the claims.
// Structurally broken tokens yield ErrTokenMalformed; expired or
// wrongly signed ones yield ErrTokenInvalid.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrTokenMalformed
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if !domain.ValidScope(claims.Scope) {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
