package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/storage-service/internal/config"
)

// CredentialStore holds the single privileged admin account and is the
// sole root of trust for token signatures.
type CredentialStore struct {
	username     string
	password     string
	passwordHash string
	secret       []byte
}

// NewCredentialStore builds the store from configuration. When no explicit
// JWT secret is configured the signing secret is derived from the admin
// credentials, so rotating the password invalidates outstanding tokens.
func NewCredentialStore(cfg config.AuthConfig) *CredentialStore {
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		sum := sha256.Sum256([]byte(cfg.AdminUsername + cfg.AdminPassword))
		secret = []byte(hex.EncodeToString(sum[:]))
	}
	return &CredentialStore{
		username:     cfg.AdminUsername,
		password:     cfg.AdminPassword,
		passwordHash: cfg.AdminPasswordHash,
		secret:       secret,
	}
}

// Verify checks the presented credentials against the admin account.
// Comparison is constant-time in both the plaintext and hashed modes.
func (s *CredentialStore) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1

	var passOK bool
	if s.passwordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	}
	return userOK && passOK
}

// Username returns the admin account name used as the token subject.
func (s *CredentialStore) Username() string {
	return s.username
}

// Secret exposes the signing secret for the token manager.
func (s *CredentialStore) Secret() []byte {
	return s.secret
}
