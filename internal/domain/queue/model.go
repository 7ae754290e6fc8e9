package queue

import (
	"time"

	"github.com/google/uuid"
)

// Priority classifies how a patient is ordered in the waiting line.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityUrgent Priority = "urgent"
)

var validPriorities = map[Priority]bool{
	PriorityNormal: true,
	PriorityUrgent: true,
}

// Stage is the clinical step a queue entry currently occupies.
type Stage string

const (
	StageWaiting    Stage = "waiting"
	StageInTriage   Stage = "in-triage"
	StageWithDoctor Stage = "with-doctor"
	StageCompleted  Stage = "completed"
)

var validStages = map[Stage]bool{
	StageWaiting:    true,
	StageInTriage:   true,
	StageWithDoctor: true,
	StageCompleted:  true,
}

// nextStage maps each stage to its forward-adjacent successor.
var nextStage = map[Stage]Stage{
	StageWaiting:    StageInTriage,
	StageInTriage:   StageWithDoctor,
	StageWithDoctor: StageCompleted,
}

// canTransition reports whether moving from one stage to another is allowed.
// Forward moves must be adjacent; in-triage may roll back to waiting
// (triage cancellation). Completed is terminal.
func canTransition(from, to Stage) bool {
	if from == to && from == StageWaiting {
		return true
	}
	if nextStage[from] == to {
		return true
	}
	return from == StageInTriage && to == StageWaiting
}

// Entry is a patient's single active presence record in the clinic's
// physical flow.
type Entry struct {
	ID                uuid.UUID  `json:"id"`
	TicketNumber      int        `json:"ticket_number"`
	PatientID         string     `json:"patient_id"`
	PatientName       string     `json:"patient_name"`
	Priority          Priority   `json:"priority"`
	Stage             Stage      `json:"stage"`
	Reason            string     `json:"reason,omitempty"`
	ArrivedAt         time.Time  `json:"arrived_at"`
	AssignedDoctorID  *string    `json:"assigned_doctor_id,omitempty"`
	AssignedDoctor    *string    `json:"assigned_doctor,omitempty"`
	ConsultationStart *time.Time `json:"consultation_start,omitempty"`
	ConsultationEnd   *time.Time `json:"consultation_end,omitempty"`
}

// ConsultationDuration returns the elapsed consultation time. The second
// return is false while the consultation is still in progress.
func (e *Entry) ConsultationDuration() (time.Duration, bool) {
	if e.ConsultationStart == nil || e.ConsultationEnd == nil {
		return 0, false
	}
	return e.ConsultationEnd.Sub(*e.ConsultationStart), true
}

// Stats summarizes the queue by stage and priority.
type Stats struct {
	Total      int              `json:"total"`
	ByStage    map[Stage]int    `json:"by_stage"`
	ByPriority map[Priority]int `json:"by_priority"`
}
