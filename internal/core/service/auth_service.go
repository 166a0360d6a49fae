package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/ports"
)

// AuthDependencies groups the collaborators of AuthService.
type AuthDependencies struct {
	Accounts    ports.AccountRepository
	Patients    ports.PatientRepository
	Doctors     ports.DoctorRepository
	Hasher      ports.PasswordHasher
	Tokens      ports.TokenService
	Revocations ports.RevocationStore
	Logger      zerolog.Logger
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// AuthService implements registration, login, refresh and logout.
type AuthService struct {
	accounts    ports.AccountRepository
	patients    ports.PatientRepository
	doctors     ports.DoctorRepository
	hasher      ports.PasswordHasher
	tokens      ports.TokenService
	revocations ports.RevocationStore
	logger      zerolog.Logger
	now         func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(deps AuthDependencies) *AuthService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		accounts:    deps.Accounts,
		patients:    deps.Patients,
		doctors:     deps.Doctors,
		hasher:      deps.Hasher,
		tokens:      deps.Tokens,
		revocations: deps.Revocations,
		logger:      deps.Logger,
		now:         now,
	}
}

// Register opens an account and, for patients and doctors, its empty
// profile. A failed profile write removes the account again.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Account, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !input.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	if _, err := s.accounts.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	account, err := s.accounts.Create(ctx, &domain.Account{
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		FullName:     input.FullName,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.createProfile(ctx, account, now); err != nil {
		// The request may already be cancelled; the rollback must still run.
		if delErr := s.accounts.Delete(context.WithoutCancel(ctx), account.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("account_id", account.ID).Msg("failed to roll back account after profile error")
		}
		return nil, fmt.Errorf("create %s profile: %w", account.Role, err)
	}

	s.logger.Info().Str("account_id", account.ID).Str("role", string(account.Role)).Msg("account registered")
	return account, nil
}

func (s *AuthService) createProfile(ctx context.Context, account *domain.Account, now time.Time) error {
	switch account.Role {
	case domain.RolePatient:
		_, err := s.patients.Create(ctx, domain.NewPatientProfile(account, now))
		return err
	case domain.RoleDoctor:
		_, err := s.doctors.Create(ctx, domain.NewDoctorProfile(account, now))
		return err
	default:
		return nil
	}
}

// Login checks credentials and issues a token pair. Unknown email and bad
// password are indistinguishable, timing included.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, *domain.Account, error) {
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.hasher.Verify(password, s.dummy())
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("lookup email: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if !account.Active {
		return nil, nil, domain.ErrInactiveAccount
	}

	pair, err := s.tokens.IssuePair(account)
	if err != nil {
		return nil, nil, err
	}
	return pair, account, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("timing-equalizer")
		if err != nil {
			s.logger.Warn().Err(err).Msg("dummy hash unavailable")
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// revoked first, so each refresh token works once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken, domain.TokenRefresh)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	if !account.Active {
		return nil, domain.ErrInactiveAccount
	}

	fresh, err := s.revocations.Revoke(ctx, claims.ID, claims.Remaining(s.now()))
	if err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	if !fresh {
		s.logger.Warn().Str("account_id", account.ID).Str("jti", claims.ID).Msg("refresh token replayed")
		return nil, domain.ErrInvalidToken
	}

	return s.tokens.IssuePair(account)
}

// Logout revokes the access token in use and, optionally, a refresh token.
func (s *AuthService) Logout(ctx context.Context, access *domain.TokenClaims, refreshToken string) error {
	if access == nil {
		return domain.ErrUnauthenticated
	}

	if refreshToken != "" {
		refresh, err := s.tokens.Verify(refreshToken, domain.TokenRefresh)
		if err != nil {
			return err
		}
		if refresh.Subject != access.Subject {
			return domain.ErrForbidden
		}
		if _, err := s.revocations.Revoke(ctx, refresh.ID, refresh.Remaining(s.now())); err != nil {
			return fmt.Errorf("revoke refresh token: %w", err)
		}
	}

	if _, err := s.revocations.Revoke(ctx, access.ID, access.Remaining(s.now())); err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	return nil
}

// GetProfileFor returns the profile linked to account.
func (s *AuthService) GetProfileFor(ctx context.Context, account *domain.Account) (domain.Profile, error) {
	if account == nil {
		return nil, domain.ErrUnauthenticated
	}

	switch account.Role {
	case domain.RolePatient:
		p, err := s.patients.FindByAccountID(ctx, account.ID)
		if errors.Is(err, domain.ErrPatientNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		if err != nil {
			return nil, err
		}
		return p, nil
	case domain.RoleDoctor:
		d, err := s.doctors.FindByAccountID(ctx, account.ID)
		if errors.Is(err, domain.ErrDoctorNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, domain.ErrProfileNotFound
	}
}
