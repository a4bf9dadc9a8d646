package service

import (
	"context"
	"time"

	"github.com/spec-kit/storage-service/internal/auth"
	"github.com/spec-kit/storage-service/internal/config"
	"github.com/spec-kit/storage-service/internal/domain"
	apperrors "github.com/spec-kit/storage-service/pkg/util"
)

// AuthService coordinates the credential check and token issuance flow.
type AuthService struct {
	creds    *auth.CredentialStore
	tokenMgr *auth.TokenManager
	throttle *auth.LoginThrottle
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, creds *auth.CredentialStore, throttle *auth.LoginThrottle) *AuthService {
	return &AuthService{
		creds:    creds,
		tokenMgr: auth.NewTokenManager(creds.Secret(), cfg.Auth.AccessTokenTTL(), cfg.Auth.MaxTokenTTL()),
		throttle: throttle,
	}
}

// Login exchanges verified credentials for a signed access token. The
// remote address feeds the failed-attempt throttle; a non-zero ttl
// overrides the default lifetime within the configured cap.
func (s *AuthService) Login(ctx context.Context, addr, username, password string, scope domain.Scope, ttl time.Duration) (string, domain.Token, error) {
	if !s.throttle.Allow(ctx, addr) {
		return "", domain.Token{}, apperrors.NewTooManyRequests("too many failed login attempts")
	}
	if !s.creds.Verify(username, password) {
		s.throttle.RecordFailure(ctx, addr)
		return "", domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
	}
	s.throttle.Reset(ctx, addr)

	token, meta, err := s.tokenMgr.GenerateToken(s.creds.Username(), scope, ttl)
	if err != nil {
		return "", domain.Token{}, apperrors.NewInternalError(err)
	}
	return token, meta, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
