package domain

import "errors"

// Authentication and authorization.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrInactiveAccount    = errors.New("account is inactive")
)

// Accounts and profiles.
var (
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidRole     = errors.New("invalid role")
	// ErrPasswordTooLong is bcrypt's 72-byte input limit.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrPatientNotFound = errors.New("patient not found")
	ErrDoctorNotFound  = errors.New("doctor not found")
)

// Consultations and records.
var (
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrRecordNotFound       = errors.New("medical record not found")
	ErrPatientIDRequired    = errors.New("patient_id is required")
)

var (
	// ErrStorageUnavailable wraps driver faults so the boundary can answer
	// 503 without leaking them.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
