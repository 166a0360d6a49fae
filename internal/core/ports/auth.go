package ports

import (
	"context"
	"time"

	"github.com/carehub/healthcare-api/internal/core/domain"
)

// PasswordHasher hashes and checks credentials. Verify never fails loudly:
// every problem reads as a mismatch.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenService issues and verifies signed bearer tokens.
type TokenService interface {
	Issue(subject string, role domain.Role, kind domain.TokenKind, ttl time.Duration) (string, *domain.TokenClaims, error)
	IssuePair(account *domain.Account) (*domain.TokenPair, error)
	// Verify returns domain.ErrInvalidToken for any token that is not a
	// valid, unexpired token of the expected kind.
	Verify(token string, kind domain.TokenKind) (*domain.TokenClaims, error)
}

// IdentityResolver maps an access token to a live account.
type IdentityResolver interface {
	Resolve(ctx context.Context, accessToken string) (*domain.Account, *domain.TokenClaims, error)
}

// RegisterInput carries everything needed to open an account.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     domain.Role
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (*domain.TokenPair, *domain.Account, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	// Logout revokes the presented access token and, when given, a refresh
	// token belonging to the same account.
	Logout(ctx context.Context, access *domain.TokenClaims, refreshToken string) error
	GetProfileFor(ctx context.Context, account *domain.Account) (domain.Profile, error)
}
