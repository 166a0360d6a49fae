package domain

import "time"

// TokenKind discriminates access tokens from refresh tokens.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// TokenClaims is the verified payload of a bearer token.
type TokenClaims struct {
	Subject   string
	Role      Role
	Kind      TokenKind
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Remaining returns how long the token stays valid after now.
func (c TokenClaims) Remaining(now time.Time) time.Duration {
	return c.ExpiresAt.Sub(now)
}

// TokenPair is what a successful login or refresh hands back.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    time.Duration
}
