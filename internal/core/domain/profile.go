package domain

import "time"

// Profile is the role-specific record linked one-to-one with an Account.
type Profile interface {
	OwnerID() string
	ProfileRole() Role
}

type PatientProfile struct {
	ID             string    `json:"id"`
	AccountID      string    `json:"account_id"`
	FullName       string    `json:"full_name"`
	Age            *int      `json:"age,omitempty"`
	Gender         string    `json:"gender,omitempty"`
	Conditions     []string  `json:"conditions"`
	MedicalHistory []string  `json:"medical_history"`
	Allergies      []string  `json:"allergies"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (p *PatientProfile) OwnerID() string   { return p.AccountID }
func (p *PatientProfile) ProfileRole() Role { return RolePatient }

// AvailabilitySlot is a recurring weekly window, e.g. {"mon", "09:00", "13:00"}.
type AvailabilitySlot struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type DoctorProfile struct {
	ID              string             `json:"id"`
	AccountID       string             `json:"account_id"`
	FullName        string             `json:"full_name"`
	Specialization  string             `json:"specialization,omitempty"`
	YearsExperience *int               `json:"years_experience,omitempty"`
	LicenseNo       string             `json:"license_no,omitempty"`
	Availability    []AvailabilitySlot `json:"availability"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func (p *DoctorProfile) OwnerID() string   { return p.AccountID }
func (p *DoctorProfile) ProfileRole() Role { return RoleDoctor }

// NewPatientProfile returns the empty profile created alongside a patient account.
func NewPatientProfile(account *Account, now time.Time) *PatientProfile {
	return &PatientProfile{
		AccountID:      account.ID,
		FullName:       account.FullName,
		Conditions:     []string{},
		MedicalHistory: []string{},
		Allergies:      []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// NewDoctorProfile returns the empty profile created alongside a doctor account.
func NewDoctorProfile(account *Account, now time.Time) *DoctorProfile {
	return &DoctorProfile{
		AccountID:    account.ID,
		FullName:     account.FullName,
		Availability: []AvailabilitySlot{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
