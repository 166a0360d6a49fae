package ports

import (
	"context"
	"time"

	"github.com/carehub/healthcare-api/internal/core/domain"
)

// ListFilter carries the common search and paging parameters.
type ListFilter struct {
	Query string // optional: case-insensitive partial match
	Skip  int
	Limit int
}

// AccountUpdate holds the mutable account fields. Nil means unchanged.
type AccountUpdate struct {
	FullName *string
	Active   *bool
}

// AccountRepository persists accounts. Email uniqueness is enforced by the store.
type AccountRepository interface {
	// Create returns domain.ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Update(ctx context.Context, id string, update AccountUpdate) (*domain.Account, error)
	// Delete exists only to undo a half-finished registration.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]*domain.Account, int64, error)
}

// PatientUpdate holds the mutable patient fields. Nil means unchanged.
type PatientUpdate struct {
	FullName       *string
	Age            *int
	Gender         *string
	Conditions     []string
	MedicalHistory []string
	Allergies      []string
}

// PatientRepository persists patient profiles, one per account.
type PatientRepository interface {
	// Create returns domain.ErrProfileExists when the account already has one.
	Create(ctx context.Context, p *domain.PatientProfile) (*domain.PatientProfile, error)
	FindByID(ctx context.Context, id string) (*domain.PatientProfile, error)
	FindByAccountID(ctx context.Context, accountID string) (*domain.PatientProfile, error)
	Update(ctx context.Context, id string, update PatientUpdate) (*domain.PatientProfile, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]*domain.PatientProfile, int64, error)
}

// DoctorUpdate holds the mutable doctor fields. Nil means unchanged.
type DoctorUpdate struct {
	FullName        *string
	Specialization  *string
	YearsExperience *int
	LicenseNo       *string
	Availability    []domain.AvailabilitySlot
}

// DoctorRepository persists doctor profiles, one per account.
type DoctorRepository interface {
	Create(ctx context.Context, d *domain.DoctorProfile) (*domain.DoctorProfile, error)
	FindByID(ctx context.Context, id string) (*domain.DoctorProfile, error)
	FindByAccountID(ctx context.Context, accountID string) (*domain.DoctorProfile, error)
	Update(ctx context.Context, id string, update DoctorUpdate) (*domain.DoctorProfile, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]*domain.DoctorProfile, int64, error)
}

// ConsultationFilter scopes a consultation listing. Empty ids mean no filter.
type ConsultationFilter struct {
	PatientID string
	DoctorID  string
	Skip      int
	Limit     int
}

// ConsultationUpdate holds the mutable consultation fields. Nil means unchanged.
type ConsultationUpdate struct {
	ScheduledAt *time.Time
	Notes       *string
	Status      *domain.ConsultationStatus
}

type ConsultationRepository interface {
	Create(ctx context.Context, c *domain.Consultation) (*domain.Consultation, error)
	FindByID(ctx context.Context, id string) (*domain.Consultation, error)
	Update(ctx context.Context, id string, update ConsultationUpdate) (*domain.Consultation, error)
	// List returns newest first.
	List(ctx context.Context, filter ConsultationFilter) ([]*domain.Consultation, int64, error)
}

// RecordFilter scopes a medical record listing to one patient.
type RecordFilter struct {
	PatientID string
	Skip      int
	Limit     int
}

type MedicalRecordRepository interface {
	Create(ctx context.Context, r *domain.MedicalRecord) (*domain.MedicalRecord, error)
	FindByID(ctx context.Context, id string) (*domain.MedicalRecord, error)
	List(ctx context.Context, filter RecordFilter) ([]*domain.MedicalRecord, int64, error)
}

// RevocationStore is a denylist of token ids.
type RevocationStore interface {
	// Revoke marks jti as revoked for ttl. It reports false when jti was
	// already revoked.
	Revoke(ctx context.Context, jti string, ttl time.Duration) (bool, error)
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
