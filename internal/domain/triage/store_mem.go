package triage

import (
	"context"
	"sort"
	"sync"
)

// memStore keeps drafts in memory. It does not survive restarts; deployments
// wanting draft recovery use the Postgres store.
type memStore struct {
	mu     sync.RWMutex
	drafts map[string]*Draft
}

func NewMemStore() DraftStore {
	return &memStore{drafts: make(map[string]*Draft)}
}

func (s *memStore) Get(_ context.Context, patientID string) (*Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drafts[patientID]
	if !ok {
		return nil, ErrDraftNotFound
	}
	c := *d
	return &c, nil
}

func (s *memStore) Put(_ context.Context, draft *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *draft
	s.drafts[draft.PatientID] = &c
	return nil
}

func (s *memStore) Delete(_ context.Context, patientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, patientID)
	return nil
}

func (s *memStore) List(_ context.Context) ([]*Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Draft, 0, len(s.drafts))
	for _, d := range s.drafts {
		c := *d
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PatientID < out[j].PatientID })
	return out, nil
}
