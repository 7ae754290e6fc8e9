package patient

import "context"

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByPatientID(ctx context.Context, patientID string) (*Patient, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)

	// PutVitals overwrites the patient's vitals snapshot.
	PutVitals(ctx context.Context, patientID string, v *VitalsRecord) error
}
