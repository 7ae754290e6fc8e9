package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// repoMem is the in-memory ledger used when no database is configured and by
// tests. Same contract as the Postgres repository.
type repoMem struct {
	mu    sync.RWMutex
	appts map[uuid.UUID]*Appointment
}

func NewMemRepo() Repository {
	return &repoMem{appts: make(map[uuid.UUID]*Appointment)}
}

func (r *repoMem) Create(_ context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	c := *a
	r.appts[a.ID] = &c
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *a
	return &c, nil
}

func (r *repoMem) Update(_ context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appts[a.ID]; !ok {
		return ErrNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	c := *a
	r.appts[a.ID] = &c
	return nil
}

func (r *repoMem) FindActiveForDate(_ context.Context, patientID, date string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var match *Appointment
	for _, a := range r.appts {
		if a.PatientID != patientID || a.Date != date || a.Status == StatusCancelled {
			continue
		}
		if match == nil || a.TimeSlot < match.TimeSlot {
			match = a
		}
	}
	if match == nil {
		return nil, ErrNotFound
	}
	c := *match
	return &c, nil
}

func (r *repoMem) ListByPatient(_ context.Context, patientID string, limit, offset int) ([]*Appointment, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*Appointment
	for _, a := range r.appts {
		if a.PatientID == patientID {
			c := *a
			all = append(all, &c)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Date != all[j].Date {
			return all[i].Date > all[j].Date
		}
		return all[i].TimeSlot < all[j].TimeSlot
	})
	return page(all, limit, offset)
}

func (r *repoMem) ListForDate(_ context.Context, date string, limit, offset int) ([]*Appointment, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*Appointment
	for _, a := range r.appts {
		if a.Date == date {
			c := *a
			all = append(all, &c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].TimeSlot < all[j].TimeSlot })
	return page(all, limit, offset)
}

func (r *repoMem) CountByStatusForDate(_ context.Context, date string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	for _, a := range r.appts {
		if a.Date == date {
			counts[a.Status]++
		}
	}
	return counts, nil
}

func page(all []*Appointment, limit, offset int) ([]*Appointment, int, error) {
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}
