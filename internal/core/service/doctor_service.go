package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/ports"
)

type DoctorService struct {
	doctors  ports.DoctorRepository
	accounts ports.AccountRepository
	logger   zerolog.Logger
}

func NewDoctorService(doctors ports.DoctorRepository, accounts ports.AccountRepository, logger zerolog.Logger) *DoctorService {
	return &DoctorService{doctors: doctors, accounts: accounts, logger: logger}
}

func (s *DoctorService) List(ctx context.Context, filter ports.ListFilter) (*ports.Page[*domain.DoctorProfile], error) {
	filter.Skip, filter.Limit = normalizePage(filter.Skip, filter.Limit)

	items, total, err := s.doctors.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.Page[*domain.DoctorProfile]{Items: items, Total: total, Skip: filter.Skip, Limit: filter.Limit}, nil
}

func (s *DoctorService) Get(ctx context.Context, id string) (*domain.DoctorProfile, error) {
	return s.doctors.FindByID(ctx, id)
}

func (s *DoctorService) Mine(ctx context.Context, actor *domain.Account) (*domain.DoctorProfile, error) {
	if _, err := Require(actor, domain.RoleDoctor); err != nil {
		return nil, err
	}
	return ownDoctor(ctx, s.doctors, actor)
}

func (s *DoctorService) Create(ctx context.Context, input ports.CreateDoctorInput) (*domain.DoctorProfile, error) {
	account, err := s.accounts.FindByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}
	if account.Role != domain.RoleDoctor {
		return nil, domain.ErrInvalidRole
	}
	if !account.Active {
		return nil, domain.ErrInactiveAccount
	}

	d := domain.NewDoctorProfile(account, time.Now().UTC())
	applyDoctorUpdate(d, input.DoctorUpdate)

	created, err := s.doctors.Create(ctx, d)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("doctor_id", created.ID).Str("account_id", account.ID).Msg("doctor profile created")
	return created, nil
}

// Update edits a doctor profile: admins any, doctors only their own.
func (s *DoctorService) Update(ctx context.Context, actor *domain.Account, id string, update ports.DoctorUpdate) (*domain.DoctorProfile, error) {
	if _, err := Require(actor, domain.RoleAdmin, domain.RoleDoctor); err != nil {
		return nil, err
	}

	d, err := s.doctors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleDoctor {
		if err := RequireOwner(actor, d.AccountID); err != nil {
			return nil, err
		}
	}
	return s.doctors.Update(ctx, d.ID, update)
}

func (s *DoctorService) UpdateMine(ctx context.Context, actor *domain.Account, update ports.DoctorUpdate) (*domain.DoctorProfile, error) {
	d, err := s.Mine(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.doctors.Update(ctx, d.ID, update)
}

func (s *DoctorService) Delete(ctx context.Context, id string) error {
	if err := s.doctors.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("doctor_id", id).Msg("doctor profile deleted")
	return nil
}

func ownDoctor(ctx context.Context, doctors ports.DoctorRepository, actor *domain.Account) (*domain.DoctorProfile, error) {
	d, err := doctors.FindByAccountID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrDoctorNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return d, nil
}

func applyDoctorUpdate(d *domain.DoctorProfile, u ports.DoctorUpdate) {
	if u.FullName != nil {
		d.FullName = *u.FullName
	}
	if u.Specialization != nil {
		d.Specialization = *u.Specialization
	}
	if u.YearsExperience != nil {
		d.YearsExperience = u.YearsExperience
	}
	if u.LicenseNo != nil {
		d.LicenseNo = *u.LicenseNo
	}
	if u.Availability != nil {
		d.Availability = u.Availability
	}
}
