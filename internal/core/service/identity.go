package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/ports"
)

// IdentityResolver turns an access token into the live account behind it.
type IdentityResolver struct {
	tokens      ports.TokenService
	accounts    ports.AccountRepository
	revocations ports.RevocationStore
}

func NewIdentityResolver(tokens ports.TokenService, accounts ports.AccountRepository, revocations ports.RevocationStore) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, accounts: accounts, revocations: revocations}
}

// Resolve authorizes against the stored account, not the role claim, so a
// deactivation or role change applies to tokens already handed out.
func (r *IdentityResolver) Resolve(ctx context.Context, accessToken string) (*domain.Account, *domain.TokenClaims, error) {
	claims, err := r.tokens.Verify(accessToken, domain.TokenAccess)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := r.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, nil, domain.ErrInvalidToken
	}

	account, err := r.accounts.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, nil, domain.ErrUnauthenticated
		}
		return nil, nil, fmt.Errorf("load account: %w", err)
	}
	if !account.Active {
		return nil, nil, domain.ErrInactiveAccount
	}
	return account, claims, nil
}
