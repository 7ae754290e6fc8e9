package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error

	// FindActiveForDate returns the patient's non-cancelled appointment on
	// the given date, earliest time slot first when more than one exists.
	FindActiveForDate(ctx context.Context, patientID, date string) (*Appointment, error)

	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Appointment, int, error)
	ListForDate(ctx context.Context, date string, limit, offset int) ([]*Appointment, int, error)
	CountByStatusForDate(ctx context.Context, date string) (map[string]int, error)
}
