package triage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/clinicflow/clinicflow/internal/domain/appointment"
	"github.com/clinicflow/clinicflow/internal/domain/patient"
	"github.com/clinicflow/clinicflow/internal/domain/queue"
)

// Session is the result of opening a triage session.
type Session struct {
	Draft       *Draft                   `json:"draft"`
	Recovered   bool                     `json:"recovered"`
	Appointment *appointment.Appointment `json:"appointment,omitempty"`
}

// Service bridges the queue store, appointment ledger and patient registry
// during clinical intake. Operations on the same patient are serialized so
// two stations cannot both move an entry into triage or double-assign a
// doctor.
type Service struct {
	queue    *queue.Store
	ledger   *appointment.Service
	patients *patient.Service
	drafts   DraftStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(q *queue.Store, ledger *appointment.Service, patients *patient.Service, drafts DraftStore) *Service {
	return &Service{
		queue:    q,
		ledger:   ledger,
		patients: patients,
		drafts:   drafts,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *Service) patientLock(patientID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[patientID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[patientID] = l
	}
	return l
}

// Open starts (or resumes) triage for a patient. The queue entry moves from
// waiting to in-triage; reopening an entry already in triage resumes it. A
// previously saved draft is restored and reported as recovered; otherwise a
// fresh draft is created, pre-populated with the doctor from today's
// appointment when one exists.
func (s *Service) Open(ctx context.Context, patientID string) (*Session, error) {
	l := s.patientLock(patientID)
	l.Lock()
	defer l.Unlock()

	entry, err := s.queue.Get(patientID)
	if err != nil {
		return nil, err
	}
	switch entry.Stage {
	case queue.StageWaiting:
		if _, err := s.queue.AdvanceStage(patientID, queue.StageInTriage); err != nil {
			return nil, err
		}
	case queue.StageInTriage:
		// resuming an open session
	default:
		return nil, fmt.Errorf("%w: cannot open triage at stage %s", queue.ErrInvalidTransition, entry.Stage)
	}

	appt, err := s.ledger.FindToday(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("look up today's appointment: %w", err)
	}

	draft, err := s.drafts.Get(ctx, patientID)
	recovered := err == nil
	if errors.Is(err, ErrDraftNotFound) {
		draft = &Draft{PatientID: patientID}
		if appt != nil {
			draft.AssignedDoctorID = appt.DoctorID
			draft.AssignedDoctorName = appt.DoctorName
		}
	} else if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	if appt != nil {
		id := appt.ID
		draft.AppointmentID = &id
	}
	draft.LastModified = time.Now().UTC()
	if err := s.drafts.Put(ctx, draft); err != nil {
		return nil, fmt.Errorf("persist draft: %w", err)
	}

	return &Session{Draft: draft, Recovered: recovered, Appointment: appt}, nil
}

// Edit merges the patch into the draft and persists it immediately. A draft
// is created on first edit if none exists yet.
func (s *Service) Edit(ctx context.Context, patientID string, req *EditRequest) (*Draft, error) {
	l := s.patientLock(patientID)
	l.Lock()
	defer l.Unlock()

	draft, err := s.drafts.Get(ctx, patientID)
	if errors.Is(err, ErrDraftNotFound) {
		draft = &Draft{PatientID: patientID}
	} else if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	draft.apply(req)
	draft.LastModified = time.Now().UTC()
	if err := s.drafts.Put(ctx, draft); err != nil {
		return nil, fmt.Errorf("persist draft: %w", err)
	}
	return draft, nil
}

// ErrNoActiveTriage is returned by Complete and Cancel when the patient has
// no saved draft.
var ErrNoActiveTriage = errors.New("no active triage session")

// Complete validates the draft, writes the vitals snapshot to the patient
// record, advances the queue entry to with-doctor with the doctor assigned,
// checks in today's appointment when one was found at open time, and
// discards the draft. Validation and the stage precheck run before any
// write, so a failure leaves all three entities untouched.
func (s *Service) Complete(ctx context.Context, patientID string) (*queue.Entry, error) {
	l := s.patientLock(patientID)
	l.Lock()
	defer l.Unlock()

	draft, err := s.drafts.Get(ctx, patientID)
	if errors.Is(err, ErrDraftNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNoActiveTriage, patientID)
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	if err := draft.validate(); err != nil {
		return nil, err
	}

	entry, err := s.queue.Get(patientID)
	if err != nil {
		return nil, err
	}
	if entry.Stage != queue.StageInTriage {
		return nil, fmt.Errorf("%w: %s -> %s", queue.ErrInvalidTransition, entry.Stage, queue.StageWithDoctor)
	}

	record := &patient.VitalsRecord{
		BloodPressure:    draft.Vitals.BloodPressure,
		HeartRate:        draft.Vitals.HeartRate,
		Temperature:      draft.Vitals.Temperature,
		WeightKg:         draft.Vitals.WeightKg,
		HeightCm:         draft.Vitals.HeightCm,
		SpO2:             draft.Vitals.SpO2,
		RandomBloodSugar: draft.Vitals.RandomBloodSugar,
		HbA1c:            draft.Vitals.HbA1c,
		Ketones:          draft.Vitals.Ketones,
		ChiefComplaint:   draft.ChiefComplaint,
		RecordedAt:       time.Now().UTC(),
		RecordedFor:      draft.AssignedDoctorID,
	}
	if bmi, ok := draft.Vitals.BMI(); ok {
		record.BMI = bmi
	}
	if err := s.patients.PutVitals(ctx, patientID, record); err != nil {
		return nil, fmt.Errorf("write vitals record: %w", err)
	}

	entry, err = s.queue.AdvanceStage(patientID, queue.StageWithDoctor)
	if err != nil {
		return nil, err
	}
	entry, err = s.queue.AssignDoctor(patientID, draft.AssignedDoctorID, draft.AssignedDoctorName)
	if err != nil {
		return nil, err
	}

	if draft.AppointmentID != nil {
		// The appointment may have gone terminal since Open (another
		// station cancelled or completed it). The queue entry has already
		// advanced, so treat that like the walk-in path rather than
		// stranding the patient with-doctor and the draft saved.
		if _, err := s.ledger.CheckIn(ctx, patientID); err != nil &&
			!errors.Is(err, appointment.ErrNoAppointmentToday) &&
			!errors.Is(err, appointment.ErrInvalidTransition) {
			return nil, fmt.Errorf("check in appointment: %w", err)
		}
	}

	if err := s.drafts.Delete(ctx, patientID); err != nil {
		return nil, fmt.Errorf("discard draft: %w", err)
	}
	return entry, nil
}

// Cancel discards the draft and returns the queue entry to the waiting pool
// unmodified.
func (s *Service) Cancel(ctx context.Context, patientID string) (*queue.Entry, error) {
	l := s.patientLock(patientID)
	l.Lock()
	defer l.Unlock()

	entry, err := s.queue.AdvanceStage(patientID, queue.StageWaiting)
	if err != nil {
		return nil, err
	}
	if err := s.drafts.Delete(ctx, patientID); err != nil {
		return nil, fmt.Errorf("discard draft: %w", err)
	}
	return entry, nil
}

// Drafts lists all saved drafts, oldest patient first. Dashboards use it to
// show interrupted sessions.
func (s *Service) Drafts(ctx context.Context) ([]*Draft, error) {
	return s.drafts.List(ctx)
}
