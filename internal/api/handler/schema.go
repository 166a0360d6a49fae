package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/carehub/healthcare-api/internal/core/domain"
	"github.com/carehub/healthcare-api/internal/core/ports"
)

// errorResponse documents the error envelope rendered by the HTTP error handler.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"     validate:"required,email,max=254"`
	Password string `json:"password"  validate:"required,min=6,maxbytes=72"`
	FullName string `json:"full_name" validate:"required,max=200"`
	Role     string `json:"role"      validate:"required,oneof=patient doctor"`
}

// loginRequest also accepts OAuth2 password-form fields (username, password).
type loginRequest struct {
	Email    string `json:"email"    form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int64           `json:"expires_in"` // seconds
	User         *domain.Account `json:"user,omitempty"`
}

func toTokenResponse(pair *domain.TokenPair, account *domain.Account) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int64(pair.ExpiresIn / time.Second),
		User:         account,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Users ---

type updateSelfRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=200"`
}

type updateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=200"`
	Active   *bool   `json:"is_active"`
}

// --- Patients ---

type patientRequest struct {
	FullName       *string  `json:"full_name"       validate:"omitempty,min=1,max=200"`
	Age            *int     `json:"age"             validate:"omitempty,gte=0,lte=150"`
	Gender         *string  `json:"gender"          validate:"omitempty,max=50"`
	Conditions     []string `json:"conditions"      validate:"omitempty,dive,max=200"`
	MedicalHistory []string `json:"medical_history" validate:"omitempty,dive,max=500"`
	Allergies      []string `json:"allergies"       validate:"omitempty,dive,max=200"`
}

func (r patientRequest) toUpdate() ports.PatientUpdate {
	return ports.PatientUpdate{
		FullName:       r.FullName,
		Age:            r.Age,
		Gender:         r.Gender,
		Conditions:     r.Conditions,
		MedicalHistory: r.MedicalHistory,
		Allergies:      r.Allergies,
	}
}

type createPatientRequest struct {
	AccountID string `json:"account_id" validate:"required"`
	patientRequest
}

// --- Doctors ---

type slotRequest struct {
	Day   string `json:"day"   validate:"required,oneof=mon tue wed thu fri sat sun"`
	Start string `json:"start" validate:"required,datetime=15:04"`
	End   string `json:"end"   validate:"required,datetime=15:04"`
}

type doctorRequest struct {
	FullName        *string       `json:"full_name"        validate:"omitempty,min=1,max=200"`
	Specialization  *string       `json:"specialization"   validate:"omitempty,max=200"`
	YearsExperience *int          `json:"years_experience" validate:"omitempty,gte=0,lte=80"`
	LicenseNo       *string       `json:"license_no"       validate:"omitempty,max=100"`
	Availability    []slotRequest `json:"availability"     validate:"omitempty,dive"`
}

func (r doctorRequest) toUpdate() ports.DoctorUpdate {
	var slots []domain.AvailabilitySlot
	if r.Availability != nil {
		slots = make([]domain.AvailabilitySlot, 0, len(r.Availability))
		for _, s := range r.Availability {
			slots = append(slots, domain.AvailabilitySlot{Day: s.Day, Start: s.Start, End: s.End})
		}
	}
	return ports.DoctorUpdate{
		FullName:        r.FullName,
		Specialization:  r.Specialization,
		YearsExperience: r.YearsExperience,
		LicenseNo:       r.LicenseNo,
		Availability:    slots,
	}
}

type createDoctorRequest struct {
	AccountID string `json:"account_id" validate:"required"`
	doctorRequest
}

// --- Consultations ---

type createConsultationRequest struct {
	PatientID   string    `json:"patient_id"`
	DoctorID    string    `json:"doctor_id"    validate:"required"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Notes       string    `json:"notes"        validate:"max=2000"`
}

type updateConsultationRequest struct {
	ScheduledAt *time.Time `json:"scheduled_at"`
	Notes       *string    `json:"notes"  validate:"omitempty,max=2000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
}

func (r updateConsultationRequest) toUpdate() ports.ConsultationUpdate {
	u := ports.ConsultationUpdate{ScheduledAt: r.ScheduledAt, Notes: r.Notes}
	if r.Status != nil {
		s := domain.ConsultationStatus(*r.Status)
		u.Status = &s
	}
	return u
}

// --- Medical records ---

type createRecordRequest struct {
	PatientID  string         `json:"patient_id"  validate:"required"`
	RecordType string         `json:"record_type" validate:"required,max=100"`
	Title      string         `json:"title"       validate:"required,max=200"`
	Metadata   map[string]any `json:"metadata"`
}

// --- Listing ---

type pageResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Skip  int   `json:"skip"`
	Limit int   `json:"limit"`
}

func toPageResponse[T any](p *ports.Page[T]) pageResponse[T] {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return pageResponse[T]{Items: items, Total: p.Total, Skip: p.Skip, Limit: p.Limit}
}

// bind decodes and validates req, answering 400 on either failure.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

func bindListFilter(c echo.Context) (ports.ListFilter, error) {
	var f ports.ListFilter
	err := echo.QueryParamsBinder(c).
		String("q", &f.Query).
		Int("skip", &f.Skip).
		Int("limit", &f.Limit).
		BindError()
	if err != nil {
		return f, echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	return f, nil
}
