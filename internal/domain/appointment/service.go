package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common errors returned by the appointment ledger.
var (
	ErrNotFound = errors.New("appointment not found")
	// ErrNoAppointmentToday is informational: the patient is a walk-in.
	// Callers treat it as a branch condition, never a failure to surface.
	ErrNoAppointmentToday = errors.New("no appointment scheduled for today")
	ErrInvalidTransition  = errors.New("appointment status is terminal")
)

type Service struct {
	repo Repository
	// now is swappable so tests can pin "today".
	now func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) today() string {
	return s.now().Format(DateLayout)
}

// Schedule records a visit. There is deliberately no doctor/time-slot
// conflict check; overlapping bookings are accepted.
func (s *Service) Schedule(ctx context.Context, a *Appointment) error {
	if a.PatientID == "" {
		return fmt.Errorf("patient_id is required")
	}
	if a.DoctorID == "" {
		return fmt.Errorf("doctor_id is required")
	}
	if a.Date == "" {
		return fmt.Errorf("date is required")
	}
	if _, err := time.Parse(DateLayout, a.Date); err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", a.Date)
	}
	if a.TimeSlot == "" {
		return fmt.Errorf("time_slot is required")
	}
	a.Status = StatusScheduled
	return s.repo.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// FindToday returns the patient's non-cancelled appointment for the current
// date, or nil when the patient has none.
func (s *Service) FindToday(ctx context.Context, patientID string) (*Appointment, error) {
	a, err := s.repo.FindActiveForDate(ctx, patientID, s.today())
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CheckIn marks today's appointment as checked-in. Returns
// ErrNoAppointmentToday when the patient has no visit scheduled; the caller
// silently takes the walk-in path.
func (s *Service) CheckIn(ctx context.Context, patientID string) (*Appointment, error) {
	a, err := s.repo.FindActiveForDate(ctx, patientID, s.today())
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNoAppointmentToday, patientID)
	}
	if err != nil {
		return nil, err
	}
	if a.Status == StatusCompleted {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, a.Status)
	}
	a.Status = StatusCheckedIn
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Cancel sets the appointment to cancelled. Terminal statuses stay put.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.setTerminal(ctx, id, StatusCancelled)
}

// Complete sets the appointment to completed. Terminal statuses stay put.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.setTerminal(ctx, id, StatusCompleted)
}

func (s *Service) setTerminal(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == StatusCancelled || a.Status == StatusCompleted {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, a.Status)
	}
	a.Status = status
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListForDate(ctx context.Context, date string, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListForDate(ctx, date, limit, offset)
}

// StatsForDate counts a day's appointments by status.
func (s *Service) StatsForDate(ctx context.Context, date string) (*DateStats, error) {
	if date == "" {
		date = s.today()
	}
	counts, err := s.repo.CountByStatusForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	st := &DateStats{Date: date, ByStatus: counts}
	for _, n := range counts {
		st.Total += n
	}
	return st, nil
}
