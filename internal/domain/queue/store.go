package queue

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Common errors returned by the queue store.
var (
	ErrDuplicateEntry    = errors.New("patient already has an open queue entry")
	ErrInvalidTransition = errors.New("invalid stage transition")
	ErrQueueEmpty        = errors.New("no patients waiting")
	ErrNotFound          = errors.New("queue entry not found")
	ErrInvalidPriority   = errors.New("invalid priority")
)

// Store owns the ordered list of patients physically present at the clinic.
// The list order encodes serving order: urgent entries occupy a contiguous
// prefix in their own arrival order, normal entries follow in arrival order.
// All access goes through Store methods; callers receive copies.
type Store struct {
	mu         sync.RWMutex
	entries    []*Entry
	nextTicket int
}

func NewStore() *Store {
	return &Store{nextTicket: 1}
}

// indexOf returns the list index of the patient's open entry, or -1.
// Completed entries stay in the list until removed, and the patient may
// have re-entered the queue since; the open entry is the one keyed
// operations act on, with a completed entry matched only when no open
// one exists. Callers must hold s.mu.
func (s *Store) indexOf(patientID string) int {
	completed := -1
	for i, e := range s.entries {
		if e.PatientID != patientID {
			continue
		}
		if e.Stage != StageCompleted {
			return i
		}
		if completed < 0 {
			completed = i
		}
	}
	return completed
}

// Enqueue adds a patient to the queue. Urgent entries are inserted directly
// after the existing urgent block so urgency never displaces an earlier
// urgent arrival; normal entries append to the end.
func (s *Store) Enqueue(patientID, patientName string, priority Priority, reason string) (*Entry, error) {
	if patientID == "" {
		return nil, fmt.Errorf("patient_id is required")
	}
	if priority == "" {
		priority = PriorityNormal
	}
	if !validPriorities[priority] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPriority, priority)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.PatientID == patientID && e.Stage != StageCompleted {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEntry, patientID)
		}
	}

	entry := &Entry{
		ID:           uuid.New(),
		TicketNumber: s.nextTicket,
		PatientID:    patientID,
		PatientName:  patientName,
		Priority:     priority,
		Stage:        StageWaiting,
		Reason:       reason,
		ArrivedAt:    time.Now().UTC(),
	}
	s.nextTicket++

	if priority == PriorityUrgent {
		pos := 0
		for _, e := range s.entries {
			if e.Priority == PriorityUrgent {
				pos++
			}
		}
		s.entries = append(s.entries, nil)
		copy(s.entries[pos+1:], s.entries[pos:])
		s.entries[pos] = entry
	} else {
		s.entries = append(s.entries, entry)
	}

	out := *entry
	return &out, nil
}

// AdvanceStage moves the patient's entry to the target stage. Only
// forward-adjacent moves and the in-triage rollback to waiting are allowed.
func (s *Store) AdvanceStage(patientID string, target Stage) (*Entry, error) {
	if !validStages[target] {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrInvalidTransition, target)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(patientID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, patientID)
	}
	e := s.entries[i]
	if !canTransition(e.Stage, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.Stage, target)
	}
	e.Stage = target

	out := *e
	return &out, nil
}

// AssignDoctor attaches a doctor to the entry without changing its stage.
func (s *Store) AssignDoctor(patientID, doctorID, doctorName string) (*Entry, error) {
	if doctorID == "" {
		return nil, fmt.Errorf("doctor_id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(patientID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, patientID)
	}
	e := s.entries[i]
	e.AssignedDoctorID = &doctorID
	if doctorName != "" {
		e.AssignedDoctor = &doctorName
	}

	out := *e
	return &out, nil
}

// CallNext transitions the first waiting entry to in-triage and returns it.
// List order already encodes priority, so the first waiting element is
// always the correct pick.
func (s *Store) CallNext() (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.Stage == StageWaiting {
			e.Stage = StageInTriage
			out := *e
			return &out, nil
		}
	}
	return nil, ErrQueueEmpty
}

// Remove deletes the patient's entry regardless of stage. Removing an
// absent patient is not an error.
func (s *Store) Remove(patientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(patientID)
	if i < 0 {
		return
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
}

// Position returns the patient's 1-based rank among waiting entries. The
// second return is false when the patient is not currently waiting.
func (s *Store) Position(patientID string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rank := 0
	for _, e := range s.entries {
		if e.Stage != StageWaiting {
			continue
		}
		rank++
		if e.PatientID == patientID {
			return rank, true
		}
	}
	return 0, false
}

// Get returns a copy of the patient's entry.
func (s *Store) Get(patientID string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(patientID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, patientID)
	}
	out := *s.entries[i]
	return &out, nil
}

// List returns a copy of all entries in serving order.
func (s *Store) List() []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Entry, len(s.entries))
	for i, e := range s.entries {
		c := *e
		out[i] = &c
	}
	return out
}

// ListByStage returns entries in the given stage, in serving order.
func (s *Store) ListByStage(stage Stage) []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Entry
	for _, e := range s.entries {
		if e.Stage == stage {
			c := *e
			out = append(out, &c)
		}
	}
	return out
}

// ListForDoctor returns entries assigned to the doctor whose stage is
// with-doctor or completed, ordered by arrival time.
func (s *Store) ListForDoctor(doctorID string) []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Entry
	for _, e := range s.entries {
		if e.AssignedDoctorID == nil || *e.AssignedDoctorID != doctorID {
			continue
		}
		if e.Stage != StageWithDoctor && e.Stage != StageCompleted {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	// Entries are held in serving order, not arrival order: an urgent
	// arrival is inserted ahead of earlier normal ones.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].ArrivedAt.Before(out[j-1].ArrivedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// StampConsultationStart records the consultation start time once.
// Subsequent calls keep the original timestamp.
func (s *Store) StampConsultationStart(patientID string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(patientID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, patientID)
	}
	e := s.entries[i]
	if e.ConsultationStart == nil {
		now := time.Now().UTC()
		e.ConsultationStart = &now
	}
	out := *e
	return &out, nil
}

// StampConsultationEnd records the consultation end time.
func (s *Store) StampConsultationEnd(patientID string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(patientID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, patientID)
	}
	e := s.entries[i]
	now := time.Now().UTC()
	e.ConsultationEnd = &now
	out := *e
	return &out, nil
}

// Stats counts entries by stage and priority.
func (s *Store) Stats() *Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := &Stats{
		Total:      len(s.entries),
		ByStage:    make(map[Stage]int),
		ByPriority: make(map[Priority]int),
	}
	for _, e := range s.entries {
		st.ByStage[e.Stage]++
		st.ByPriority[e.Priority]++
	}
	return st
}
