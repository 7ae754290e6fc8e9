package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. Cancelled and completed are terminal.
const (
	StatusScheduled = "scheduled"
	StatusCheckedIn = "checked-in"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var validStatuses = map[string]bool{
	StatusScheduled: true,
	StatusCheckedIn: true,
	StatusCompleted: true,
	StatusCancelled: true,
}

// DateLayout is the wire format for appointment dates.
const DateLayout = "2006-01-02"

// Appointment maps to the appointment table.
type Appointment struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  string    `db:"patient_id" json:"patient_id"`
	DoctorID   string    `db:"doctor_id" json:"doctor_id"`
	DoctorName string    `db:"doctor_name" json:"doctor_name,omitempty"`
	Date       string    `db:"visit_date" json:"date"`
	TimeSlot   string    `db:"time_slot" json:"time_slot"`
	Type       string    `db:"visit_type" json:"type,omitempty"`
	Reason     string    `db:"reason" json:"reason,omitempty"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// DateStats counts a day's appointments by status.
type DateStats struct {
	Date     string         `json:"date"`
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}
