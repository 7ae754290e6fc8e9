package consultation

import (
	"time"

	"github.com/google/uuid"
)

// Record maps to the consultation_record table: the clinical outcome of one
// completed queue entry.
type Record struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	PatientID       string     `db:"patient_id" json:"patient_id"`
	DoctorID        string     `db:"doctor_id" json:"doctor_id"`
	Notes           string     `db:"notes" json:"notes"`
	Diagnosis       string     `db:"diagnosis" json:"diagnosis"`
	StartedAt       *time.Time `db:"started_at" json:"started_at,omitempty"`
	EndedAt         *time.Time `db:"ended_at" json:"ended_at,omitempty"`
	DurationMinutes *int       `db:"duration_minutes" json:"duration_minutes,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}
