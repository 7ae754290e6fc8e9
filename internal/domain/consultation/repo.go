package consultation

import "context"

type Repository interface {
	Create(ctx context.Context, rec *Record) error
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Record, int, error)
	ListByDoctor(ctx context.Context, doctorID string, limit, offset int) ([]*Record, int, error)
}
