package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/ports"
)

type UserService struct {
	accounts ports.AccountRepository
	logger   zerolog.Logger
}

func NewUserService(accounts ports.AccountRepository, logger zerolog.Logger) *UserService {
	return &UserService{accounts: accounts, logger: logger}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.FindByID(ctx, id)
}

// UpdateSelf changes the caller's own display name. Nothing else about an
// account is self-service.
func (s *UserService) UpdateSelf(ctx context.Context, actor *domain.Account, fullName *string) (*domain.Account, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.accounts.Update(ctx, actor.ID, ports.AccountUpdate{FullName: fullName})
}

func (s *UserService) List(ctx context.Context, filter ports.ListFilter) (*ports.Page[*domain.Account], error) {
	filter.Skip, filter.Limit = normalizePage(filter.Skip, filter.Limit)

	items, total, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.Page[*domain.Account]{Items: items, Total: total, Skip: filter.Skip, Limit: filter.Limit}, nil
}

func (s *UserService) Update(ctx context.Context, id string, update ports.AccountUpdate) (*domain.Account, error) {
	account, err := s.accounts.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if update.Active != nil {
		s.logger.Info().Str("account_id", id).Bool("active", *update.Active).Msg("account activation changed")
	}
	return account, nil
}
