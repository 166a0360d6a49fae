package domain

import "time"

// MedicalRecord stores metadata about a clinical document. The document
// itself lives elsewhere; Metadata is free-form.
type MedicalRecord struct {
	ID         string         `json:"id"`
	PatientID  string         `json:"patient_id"`
	RecordType string         `json:"record_type"`
	Title      string         `json:"title"`
	Metadata   map[string]any `json:"metadata"`
	CreatedBy  string         `json:"created_by"`
	CreatedAt  time.Time      `json:"created_at"`
}
