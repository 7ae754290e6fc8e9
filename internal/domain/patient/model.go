package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table. PatientID is the external health
// identifier used across the clinic, distinct from the row ID.
type Patient struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	PatientID   string        `db:"patient_id" json:"patient_id"`
	Name        string        `db:"name" json:"name"`
	DateOfBirth *string       `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      *string       `db:"gender" json:"gender,omitempty"`
	Phone       *string       `db:"phone" json:"phone,omitempty"`
	Vitals      *VitalsRecord `db:"vitals" json:"vitals,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// VitalsRecord is the denormalized snapshot written onto the patient when
// triage completes. Not versioned: a new triage overwrites it.
type VitalsRecord struct {
	BloodPressure    string    `json:"blood_pressure,omitempty"`
	HeartRate        string    `json:"heart_rate,omitempty"`
	Temperature      string    `json:"temperature,omitempty"`
	WeightKg         float64   `json:"weight_kg,omitempty"`
	HeightCm         float64   `json:"height_cm,omitempty"`
	BMI              float64   `json:"bmi,omitempty"`
	SpO2             string    `json:"spo2,omitempty"`
	RandomBloodSugar string    `json:"random_blood_sugar,omitempty"`
	HbA1c            string    `json:"hba1c,omitempty"`
	Ketones          string    `json:"ketones,omitempty"`
	ChiefComplaint   string    `json:"chief_complaint,omitempty"`
	RecordedAt       time.Time `json:"recorded_at"`
	RecordedFor      string    `json:"recorded_for,omitempty"` // assigned doctor ID
}
