package consultation

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinicflow/clinicflow/internal/domain/queue"
)

// ErrMissingClinicalInput is returned when a consultation is completed
// without notes or a diagnosis.
var ErrMissingClinicalInput = errors.New("notes and diagnosis are required")

// Service is the doctor-side consumer of queue entries.
type Service struct {
	queue *queue.Store
	repo  Repository
}

func NewService(q *queue.Store, repo Repository) *Service {
	return &Service{queue: q, repo: repo}
}

// ListForDoctor returns the doctor's with-doctor and completed entries by
// arrival time.
func (s *Service) ListForDoctor(doctorID string) []*queue.Entry {
	return s.queue.ListForDoctor(doctorID)
}

// Start stamps the consultation start time. Calling it again keeps the
// original stamp.
func (s *Service) Start(patientID string) (*queue.Entry, error) {
	return s.queue.StampConsultationStart(patientID)
}

// Complete records the clinical outcome, stamps the consultation end and
// moves the queue entry to completed.
func (s *Service) Complete(ctx context.Context, patientID, notes, diagnosis string) (*queue.Entry, error) {
	if notes == "" || diagnosis == "" {
		return nil, ErrMissingClinicalInput
	}

	entry, err := s.queue.Get(patientID)
	if err != nil {
		return nil, err
	}
	if entry.Stage != queue.StageWithDoctor {
		return nil, fmt.Errorf("%w: %s -> %s", queue.ErrInvalidTransition, entry.Stage, queue.StageCompleted)
	}

	entry, err = s.queue.StampConsultationEnd(patientID)
	if err != nil {
		return nil, err
	}
	entry, err = s.queue.AdvanceStage(patientID, queue.StageCompleted)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		PatientID: patientID,
		Notes:     notes,
		Diagnosis: diagnosis,
		StartedAt: entry.ConsultationStart,
		EndedAt:   entry.ConsultationEnd,
	}
	if entry.AssignedDoctorID != nil {
		rec.DoctorID = *entry.AssignedDoctorID
	}
	if d, ok := entry.ConsultationDuration(); ok {
		minutes := int(d.Minutes())
		rec.DurationMinutes = &minutes
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("save consultation record: %w", err)
	}
	return entry, nil
}

func (s *Service) RecordsByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Record, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) RecordsByDoctor(ctx context.Context, doctorID string, limit, offset int) ([]*Record, int, error) {
	return s.repo.ListByDoctor(ctx, doctorID, limit, offset)
}
