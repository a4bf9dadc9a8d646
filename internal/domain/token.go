package domain

import "time"

// Scope differentiates read-only tokens from full-access tokens.
type Scope string

const (
	ScopeRead  Scope = "read"
	ScopeWrite Scope = "write"
)

// Allows reports whether a token with scope s may act with the required
// scope. Write implies read.
func (s Scope) Allows(required Scope) bool {
	if s == ScopeWrite {
		return true
	}
	return s == required
}

// ValidScope reports whether s is a known scope value.
func ValidScope(s Scope) bool {
	return s == ScopeRead || s == ScopeWrite
}

// Token represents issued access token metadata. Tokens are stateless and
// signature-verified; nothing is persisted server-side.
type Token struct {
	Subject   string
	Scope     Scope
	IssuedAt  time.Time
	ExpiresAt time.Time
}
