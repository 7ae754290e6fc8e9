package patient

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("patient not found")
	ErrDuplicatePatient = errors.New("patient identifier already registered")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, p *Patient) error {
	if p.PatientID == "" {
		return fmt.Errorf("patient_id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, patientID string) (*Patient, error) {
	return s.repo.GetByPatientID(ctx, patientID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// PutVitals overwrites the patient's vitals snapshot. Triage is the only
// caller; the previous snapshot is discarded, not versioned.
func (s *Service) PutVitals(ctx context.Context, patientID string, v *VitalsRecord) error {
	if v == nil {
		return fmt.Errorf("vitals record is required")
	}
	return s.repo.PutVitals(ctx, patientID, v)
}
