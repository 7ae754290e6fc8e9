package triage

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Vitals captured during triage. Clinical measurements are kept as entered;
// only weight and height are numeric because BMI is derived from them.
type Vitals struct {
	BloodPressure    string  `json:"blood_pressure,omitempty"`
	HeartRate        string  `json:"heart_rate,omitempty"`
	Temperature      string  `json:"temperature,omitempty"`
	WeightKg         float64 `json:"weight_kg,omitempty"`
	HeightCm         float64 `json:"height_cm,omitempty"`
	SpO2             string  `json:"spo2,omitempty"`
	RandomBloodSugar string  `json:"random_blood_sugar,omitempty"`
	HbA1c            string  `json:"hba1c,omitempty"`
	Ketones          string  `json:"ketones,omitempty"`
}

// BMI returns weight/height² in kg/m² rounded to one decimal. The second
// return is false unless both weight and height are present.
func (v *Vitals) BMI() (float64, bool) {
	if v.WeightKg <= 0 || v.HeightCm <= 0 {
		return 0, false
	}
	m := v.HeightCm / 100
	return math.Round(v.WeightKg/(m*m)*10) / 10, true
}

// Draft is the per-patient triage editing buffer. It is persisted on every
// edit and destroyed on completion or cancellation.
type Draft struct {
	PatientID          string     `json:"patient_id"`
	Vitals             Vitals     `json:"vitals"`
	ChiefComplaint     string     `json:"chief_complaint,omitempty"`
	AssignedDoctorID   string     `json:"assigned_doctor_id,omitempty"`
	AssignedDoctorName string     `json:"assigned_doctor_name,omitempty"`
	AppointmentID      *uuid.UUID `json:"appointment_id,omitempty"`
	LastModified       time.Time  `json:"last_modified"`
}

// IncompleteTriageError names the first required field still missing, in the
// fixed order the intake form checks them: doctor, chief complaint, blood
// pressure, heart rate, temperature.
type IncompleteTriageError struct {
	Field string
}

func (e *IncompleteTriageError) Error() string {
	return fmt.Sprintf("triage incomplete: %s is required", e.Field)
}

// validate returns the first missing required field, checked in form order.
func (d *Draft) validate() error {
	checks := []struct {
		field string
		ok    bool
	}{
		{"assigned doctor", d.AssignedDoctorID != ""},
		{"chief complaint", d.ChiefComplaint != ""},
		{"blood pressure", d.Vitals.BloodPressure != ""},
		{"heart rate", d.Vitals.HeartRate != ""},
		{"temperature", d.Vitals.Temperature != ""},
	}
	for _, c := range checks {
		if !c.ok {
			return &IncompleteTriageError{Field: c.field}
		}
	}
	return nil
}

// VitalsPatch carries partial vitals edits; nil fields are left untouched.
type VitalsPatch struct {
	BloodPressure    *string  `json:"blood_pressure,omitempty"`
	HeartRate        *string  `json:"heart_rate,omitempty"`
	Temperature      *string  `json:"temperature,omitempty"`
	WeightKg         *float64 `json:"weight_kg,omitempty"`
	HeightCm         *float64 `json:"height_cm,omitempty"`
	SpO2             *string  `json:"spo2,omitempty"`
	RandomBloodSugar *string  `json:"random_blood_sugar,omitempty"`
	HbA1c            *string  `json:"hba1c,omitempty"`
	Ketones          *string  `json:"ketones,omitempty"`
}

// EditRequest merges into a draft; nil fields are left untouched.
type EditRequest struct {
	Vitals             *VitalsPatch `json:"vitals,omitempty"`
	ChiefComplaint     *string      `json:"chief_complaint,omitempty"`
	AssignedDoctorID   *string      `json:"assigned_doctor_id,omitempty"`
	AssignedDoctorName *string      `json:"assigned_doctor_name,omitempty"`
}

func (d *Draft) apply(req *EditRequest) {
	if req.ChiefComplaint != nil {
		d.ChiefComplaint = *req.ChiefComplaint
	}
	if req.AssignedDoctorID != nil {
		d.AssignedDoctorID = *req.AssignedDoctorID
	}
	if req.AssignedDoctorName != nil {
		d.AssignedDoctorName = *req.AssignedDoctorName
	}
	if req.Vitals == nil {
		return
	}
	p := req.Vitals
	if p.BloodPressure != nil {
		d.Vitals.BloodPressure = *p.BloodPressure
	}
	if p.HeartRate != nil {
		d.Vitals.HeartRate = *p.HeartRate
	}
	if p.Temperature != nil {
		d.Vitals.Temperature = *p.Temperature
	}
	if p.WeightKg != nil {
		d.Vitals.WeightKg = *p.WeightKg
	}
	if p.HeightCm != nil {
		d.Vitals.HeightCm = *p.HeightCm
	}
	if p.SpO2 != nil {
		d.Vitals.SpO2 = *p.SpO2
	}
	if p.RandomBloodSugar != nil {
		d.Vitals.RandomBloodSugar = *p.RandomBloodSugar
	}
	if p.HbA1c != nil {
		d.Vitals.HbA1c = *p.HbA1c
	}
	if p.Ketones != nil {
		d.Vitals.Ketones = *p.Ketones
	}
}
