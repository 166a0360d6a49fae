package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/ports"
)

type ConsultationService struct {
	consultations ports.ConsultationRepository
	patients      ports.PatientRepository
	doctors       ports.DoctorRepository
	logger        zerolog.Logger
}

func NewConsultationService(consultations ports.ConsultationRepository, patients ports.PatientRepository, doctors ports.DoctorRepository, logger zerolog.Logger) *ConsultationService {
	return &ConsultationService{consultations: consultations, patients: patients, doctors: doctors, logger: logger}
}

// Create books a consultation. Patients book for themselves; admins name the
// patient explicitly.
func (s *ConsultationService) Create(ctx context.Context, actor *domain.Account, input ports.CreateConsultationInput) (*domain.Consultation, error) {
	if _, err := Require(actor, domain.RolePatient, domain.RoleAdmin); err != nil {
		return nil, err
	}

	patientID := input.PatientID
	if actor.Role == domain.RolePatient {
		own, err := ownPatient(ctx, s.patients, actor)
		if err != nil {
			return nil, err
		}
		if patientID != "" && patientID != own.ID {
			return nil, domain.ErrForbidden
		}
		patientID = own.ID
	} else {
		if patientID == "" {
			return nil, domain.ErrPatientIDRequired
		}
		if _, err := s.patients.FindByID(ctx, patientID); err != nil {
			return nil, err
		}
	}

	if _, err := s.doctors.FindByID(ctx, input.DoctorID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.consultations.Create(ctx, &domain.Consultation{
		PatientID:   patientID,
		DoctorID:    input.DoctorID,
		ScheduledAt: input.ScheduledAt.UTC(),
		Notes:       input.Notes,
		Status:      domain.ConsultationScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("consultation_id", created.ID).
		Str("patient_id", patientID).
		Str("doctor_id", input.DoctorID).
		Msg("consultation scheduled")
	return created, nil
}

// List scopes patients and doctors to their own consultations. Admins may
// filter freely.
func (s *ConsultationService) List(ctx context.Context, actor *domain.Account, filter ports.ConsultationFilter) (*ports.Page[*domain.Consultation], error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}

	switch actor.Role {
	case domain.RolePatient:
		own, err := ownPatient(ctx, s.patients, actor)
		if err != nil {
			return nil, err
		}
		filter.PatientID = own.ID
	case domain.RoleDoctor:
		own, err := ownDoctor(ctx, s.doctors, actor)
		if err != nil {
			return nil, err
		}
		filter.DoctorID = own.ID
	}

	filter.Skip, filter.Limit = normalizePage(filter.Skip, filter.Limit)
	items, total, err := s.consultations.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.Page[*domain.Consultation]{Items: items, Total: total, Skip: filter.Skip, Limit: filter.Limit}, nil
}

// Get returns a consultation to the patient or doctor involved, or an admin.
func (s *ConsultationService) Get(ctx context.Context, actor *domain.Account, id string) (*domain.Consultation, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}

	c, err := s.consultations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeParticipant(ctx, actor, c, true); err != nil {
		return nil, err
	}
	return c, nil
}

// Update lets the consultation's doctor or an admin reschedule, annotate or
// advance its status.
func (s *ConsultationService) Update(ctx context.Context, actor *domain.Account, id string, update ports.ConsultationUpdate) (*domain.Consultation, error) {
	if _, err := Require(actor, domain.RoleDoctor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	c, err := s.consultations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeParticipant(ctx, actor, c, false); err != nil {
		return nil, err
	}

	if update.Status != nil {
		next := *update.Status
		if next == c.Status {
			update.Status = nil
		} else if !next.Valid() || !c.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, c.Status, next)
		}
	}
	if update.ScheduledAt != nil {
		at := update.ScheduledAt.UTC()
		update.ScheduledAt = &at
	}

	updated, err := s.consultations.Update(ctx, c.ID, update)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("consultation_id", c.ID).Str("status", string(updated.Status)).Msg("consultation updated")
	return updated, nil
}

// authorizeParticipant checks ownership through the linked profile. The
// patient side is only consulted when allowPatient is set. A profile that
// no longer exists reads as forbidden; lookup faults pass through.
func (s *ConsultationService) authorizeParticipant(ctx context.Context, actor *domain.Account, c *domain.Consultation, allowPatient bool) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleDoctor:
		d, err := s.doctors.FindByID(ctx, c.DoctorID)
		if errors.Is(err, domain.ErrDoctorNotFound) {
			return domain.ErrForbidden
		}
		if err != nil {
			return err
		}
		return RequireOwner(actor, d.AccountID)
	case domain.RolePatient:
		if !allowPatient {
			return domain.ErrForbidden
		}
		p, err := s.patients.FindByID(ctx, c.PatientID)
		if errors.Is(err, domain.ErrPatientNotFound) {
			return domain.ErrForbidden
		}
		if err != nil {
			return err
		}
		return RequireOwner(actor, p.AccountID)
	}
	return domain.ErrForbidden
}
