package consultation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type repoMem struct {
	mu      sync.RWMutex
	records []*Record
}

func NewMemRepo() Repository {
	return &repoMem{}
}

func (r *repoMem) Create(_ context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now().UTC()
	c := *rec
	r.records = append(r.records, &c)
	return nil
}

func (r *repoMem) ListByPatient(_ context.Context, patientID string, limit, offset int) ([]*Record, int, error) {
	return r.list(func(rec *Record) bool { return rec.PatientID == patientID }, limit, offset)
}

func (r *repoMem) ListByDoctor(_ context.Context, doctorID string, limit, offset int) ([]*Record, int, error) {
	return r.list(func(rec *Record) bool { return rec.DoctorID == doctorID }, limit, offset)
}

func (r *repoMem) list(match func(*Record) bool, limit, offset int) ([]*Record, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*Record
	for _, rec := range r.records {
		if match(rec) {
			c := *rec
			all = append(all, &c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

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
