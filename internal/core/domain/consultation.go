package domain

import "time"

// ConsultationStatus represents the lifecycle state of a consultation.
type ConsultationStatus string

const (
	ConsultationScheduled  ConsultationStatus = "scheduled"
	ConsultationInProgress ConsultationStatus = "in_progress"
	ConsultationCompleted  ConsultationStatus = "completed"
	ConsultationCancelled  ConsultationStatus = "cancelled"
)

// consultationTransitions defines the allowed state machine transitions.
var consultationTransitions = map[ConsultationStatus][]ConsultationStatus{
	ConsultationScheduled:  {ConsultationInProgress, ConsultationCompleted, ConsultationCancelled},
	ConsultationInProgress: {ConsultationCompleted, ConsultationCancelled},
}

// Valid reports whether s is a known status.
func (s ConsultationStatus) Valid() bool {
	switch s {
	case ConsultationScheduled, ConsultationInProgress, ConsultationCompleted, ConsultationCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ConsultationStatus) CanTransitionTo(next ConsultationStatus) bool {
	for _, allowed := range consultationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Consultation links a patient profile with a doctor profile at a point in time.
type Consultation struct {
	ID          string             `json:"id"`
	PatientID   string             `json:"patient_id"`
	DoctorID    string             `json:"doctor_id"`
	ScheduledAt time.Time          `json:"scheduled_at"`
	Notes       string             `json:"notes,omitempty"`
	Status      ConsultationStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
