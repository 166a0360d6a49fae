package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/ports"
)

type MedicalRecordService struct {
	records  ports.MedicalRecordRepository
	patients ports.PatientRepository
	logger   zerolog.Logger
}

func NewMedicalRecordService(records ports.MedicalRecordRepository, patients ports.PatientRepository, logger zerolog.Logger) *MedicalRecordService {
	return &MedicalRecordService{records: records, patients: patients, logger: logger}
}

func (s *MedicalRecordService) Create(ctx context.Context, actor *domain.Account, input ports.CreateRecordInput) (*domain.MedicalRecord, error) {
	if _, err := Require(actor, domain.RoleDoctor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if input.PatientID == "" {
		return nil, domain.ErrPatientIDRequired
	}
	if _, err := s.patients.FindByID(ctx, input.PatientID); err != nil {
		return nil, err
	}

	metadata := input.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	created, err := s.records.Create(ctx, &domain.MedicalRecord{
		PatientID:  input.PatientID,
		RecordType: input.RecordType,
		Title:      input.Title,
		Metadata:   metadata,
		CreatedBy:  actor.ID,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("record_id", created.ID).Str("patient_id", input.PatientID).Msg("medical record created")
	return created, nil
}

// List returns a patient's own records, or for staff the records of the
// patient named in the filter.
func (s *MedicalRecordService) List(ctx context.Context, actor *domain.Account, filter ports.RecordFilter) (*ports.Page[*domain.MedicalRecord], error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}

	if actor.Role == domain.RolePatient {
		own, err := ownPatient(ctx, s.patients, actor)
		if err != nil {
			return nil, err
		}
		filter.PatientID = own.ID
	} else if filter.PatientID == "" {
		return nil, domain.ErrPatientIDRequired
	}

	filter.Skip, filter.Limit = normalizePage(filter.Skip, filter.Limit)
	items, total, err := s.records.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.Page[*domain.MedicalRecord]{Items: items, Total: total, Skip: filter.Skip, Limit: filter.Limit}, nil
}

func (s *MedicalRecordService) Get(ctx context.Context, actor *domain.Account, id string) (*domain.MedicalRecord, error) {
	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}

	r, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RolePatient {
		own, err := ownPatient(ctx, s.patients, actor)
		if err != nil {
			return nil, err
		}
		if own.ID != r.PatientID {
			return nil, domain.ErrForbidden
		}
	}
	return r, nil
}
