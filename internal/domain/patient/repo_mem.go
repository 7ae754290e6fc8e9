package patient

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type repoMem struct {
	mu       sync.RWMutex
	patients map[string]*Patient // keyed by PatientID
}

func NewMemRepo() Repository {
	return &repoMem{patients: make(map[string]*Patient)}
}

func (r *repoMem) Create(_ context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.patients[p.PatientID]; ok {
		return ErrDuplicatePatient
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	c := *p
	r.patients[p.PatientID] = &c
	return nil
}

func (r *repoMem) GetByPatientID(_ context.Context, patientID string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[patientID]
	if !ok {
		return nil, ErrNotFound
	}
	c := *p
	if p.Vitals != nil {
		v := *p.Vitals
		c.Vitals = &v
	}
	return &c, nil
}

func (r *repoMem) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Patient, 0, len(r.patients))
	for _, p := range r.patients {
		c := *p
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

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

func (r *repoMem) PutVitals(_ context.Context, patientID string, v *VitalsRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[patientID]
	if !ok {
		return ErrNotFound
	}
	c := *v
	p.Vitals = &c
	p.UpdatedAt = time.Now().UTC()
	return nil
}
