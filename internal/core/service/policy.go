package service

import "github.com/carehub/healthcare-api/internal/core/domain"

// Require passes account through when its role is one of allowed.
func Require(account *domain.Account, allowed ...domain.Role) (*domain.Account, error) {
	if account == nil {
		return nil, domain.ErrUnauthenticated
	}
	for _, r := range allowed {
		if account.Role == r {
			return account, nil
		}
	}
	return nil, domain.ErrForbidden
}

// RequireOwner fails unless account is the owner of the resource.
func RequireOwner(account *domain.Account, ownerAccountID string) error {
	if account == nil {
		return domain.ErrUnauthenticated
	}
	if ownerAccountID == "" || account.ID != ownerAccountID {
		return domain.ErrForbidden
	}
	return nil
}
