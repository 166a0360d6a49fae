package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/ports"
)

type PatientService struct {
	patients ports.PatientRepository
	accounts ports.AccountRepository
	logger   zerolog.Logger
}

func NewPatientService(patients ports.PatientRepository, accounts ports.AccountRepository, logger zerolog.Logger) *PatientService {
	return &PatientService{patients: patients, accounts: accounts, logger: logger}
}

func (s *PatientService) List(ctx context.Context, filter ports.ListFilter) (*ports.Page[*domain.PatientProfile], error) {
	filter.Skip, filter.Limit = normalizePage(filter.Skip, filter.Limit)

	items, total, err := s.patients.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.Page[*domain.PatientProfile]{Items: items, Total: total, Skip: filter.Skip, Limit: filter.Limit}, nil
}

func (s *PatientService) Get(ctx context.Context, id string) (*domain.PatientProfile, error) {
	return s.patients.FindByID(ctx, id)
}

// Mine returns the caller's own patient profile.
func (s *PatientService) Mine(ctx context.Context, actor *domain.Account) (*domain.PatientProfile, error) {
	if _, err := Require(actor, domain.RolePatient); err != nil {
		return nil, err
	}
	return ownPatient(ctx, s.patients, actor)
}

// Create attaches a profile to an existing active patient account.
func (s *PatientService) Create(ctx context.Context, input ports.CreatePatientInput) (*domain.PatientProfile, error) {
	account, err := s.accounts.FindByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}
	if account.Role != domain.RolePatient {
		return nil, domain.ErrInvalidRole
	}
	if !account.Active {
		return nil, domain.ErrInactiveAccount
	}

	p := domain.NewPatientProfile(account, time.Now().UTC())
	applyPatientUpdate(p, input.PatientUpdate)

	created, err := s.patients.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("patient_id", created.ID).Str("account_id", account.ID).Msg("patient profile created")
	return created, nil
}

// Update edits any patient profile; a patient caller may only edit their own.
func (s *PatientService) Update(ctx context.Context, actor *domain.Account, id string, update ports.PatientUpdate) (*domain.PatientProfile, error) {
	if _, err := Require(actor, domain.RoleAdmin, domain.RoleDoctor, domain.RolePatient); err != nil {
		return nil, err
	}

	p, err := s.patients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RolePatient {
		if err := RequireOwner(actor, p.AccountID); err != nil {
			return nil, err
		}
	}
	return s.patients.Update(ctx, p.ID, update)
}

func (s *PatientService) UpdateMine(ctx context.Context, actor *domain.Account, update ports.PatientUpdate) (*domain.PatientProfile, error) {
	p, err := s.Mine(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.patients.Update(ctx, p.ID, update)
}

func (s *PatientService) Delete(ctx context.Context, id string) error {
	if err := s.patients.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("patient_id", id).Msg("patient profile deleted")
	return nil
}

// ownPatient loads the patient profile linked to actor.
func ownPatient(ctx context.Context, patients ports.PatientRepository, actor *domain.Account) (*domain.PatientProfile, error) {
	p, err := patients.FindByAccountID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrPatientNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

func applyPatientUpdate(p *domain.PatientProfile, u ports.PatientUpdate) {
	if u.FullName != nil {
		p.FullName = *u.FullName
	}
	if u.Age != nil {
		p.Age = u.Age
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.Conditions != nil {
		p.Conditions = u.Conditions
	}
	if u.MedicalHistory != nil {
		p.MedicalHistory = u.MedicalHistory
	}
	if u.Allergies != nil {
		p.Allergies = u.Allergies
	}
}
