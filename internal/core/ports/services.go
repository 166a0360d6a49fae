package ports

import (
	"context"
	"time"

	"github.com/carehub/healthcare-api/internal/core/domain"
)

// Page is one slice of a listing plus the total number of matches.
type Page[T any] struct {
	Items []T
	Total int64
	Skip  int
	Limit int
}

type UserService interface {
	Get(ctx context.Context, id string) (*domain.Account, error)
	UpdateSelf(ctx context.Context, actor *domain.Account, fullName *string) (*domain.Account, error)
	List(ctx context.Context, filter ListFilter) (*Page[*domain.Account], error)
	// Update is the admin path; it may also flip the active flag.
	Update(ctx context.Context, id string, update AccountUpdate) (*domain.Account, error)
}

// CreatePatientInput links a new patient profile to an existing account.
type CreatePatientInput struct {
	AccountID string
	PatientUpdate
}

type PatientService interface {
	List(ctx context.Context, filter ListFilter) (*Page[*domain.PatientProfile], error)
	Get(ctx context.Context, id string) (*domain.PatientProfile, error)
	Mine(ctx context.Context, actor *domain.Account) (*domain.PatientProfile, error)
	Create(ctx context.Context, input CreatePatientInput) (*domain.PatientProfile, error)
	Update(ctx context.Context, actor *domain.Account, id string, update PatientUpdate) (*domain.PatientProfile, error)
	UpdateMine(ctx context.Context, actor *domain.Account, update PatientUpdate) (*domain.PatientProfile, error)
	Delete(ctx context.Context, id string) error
}

// CreateDoctorInput links a new doctor profile to an existing account.
type CreateDoctorInput struct {
	AccountID string
	DoctorUpdate
}

type DoctorService interface {
	List(ctx context.Context, filter ListFilter) (*Page[*domain.DoctorProfile], error)
	Get(ctx context.Context, id string) (*domain.DoctorProfile, error)
	Mine(ctx context.Context, actor *domain.Account) (*domain.DoctorProfile, error)
	Create(ctx context.Context, input CreateDoctorInput) (*domain.DoctorProfile, error)
	Update(ctx context.Context, actor *domain.Account, id string, update DoctorUpdate) (*domain.DoctorProfile, error)
	UpdateMine(ctx context.Context, actor *domain.Account, update DoctorUpdate) (*domain.DoctorProfile, error)
	Delete(ctx context.Context, id string) error
}

// CreateConsultationInput books a consultation. PatientID may be empty when
// a patient books for themselves.
type CreateConsultationInput struct {
	PatientID   string
	DoctorID    string
	ScheduledAt time.Time
	Notes       string
}

type ConsultationService interface {
	Create(ctx context.Context, actor *domain.Account, input CreateConsultationInput) (*domain.Consultation, error)
	List(ctx context.Context, actor *domain.Account, filter ConsultationFilter) (*Page[*domain.Consultation], error)
	Get(ctx context.Context, actor *domain.Account, id string) (*domain.Consultation, error)
	Update(ctx context.Context, actor *domain.Account, id string, update ConsultationUpdate) (*domain.Consultation, error)
}

// CreateRecordInput carries a new medical record.
type CreateRecordInput struct {
	PatientID  string
	RecordType string
	Title      string
	Metadata   map[string]any
}

type MedicalRecordService interface {
	Create(ctx context.Context, actor *domain.Account, input CreateRecordInput) (*domain.MedicalRecord, error)
	List(ctx context.Context, actor *domain.Account, filter RecordFilter) (*Page[*domain.MedicalRecord], error)
	Get(ctx context.Context, actor *domain.Account, id string) (*domain.MedicalRecord, error)
}
