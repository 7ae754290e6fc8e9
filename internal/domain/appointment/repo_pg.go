package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const apptCols = `id, patient_id, doctor_id, doctor_name, visit_date, time_slot,
	visit_type, reason, status, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointment (id, patient_id, doctor_id, doctor_name, visit_date, time_slot, visit_type, reason, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.PatientID, a.DoctorID, a.DoctorName, a.Date, a.TimeSlot, a.Type, a.Reason, a.Status,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppt(r.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE appointment SET
			doctor_id=$2, doctor_name=$3, visit_date=$4, time_slot=$5,
			visit_type=$6, reason=$7, status=$8, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.DoctorID, a.DoctorName, a.Date, a.TimeSlot, a.Type, a.Reason, a.Status,
	)
	return err
}

func (r *repoPG) FindActiveForDate(ctx context.Context, patientID, date string) (*Appointment, error) {
	return scanAppt(r.pool.QueryRow(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE patient_id = $1 AND visit_date = $2 AND status != $3
		ORDER BY time_slot LIMIT 1`,
		patientID, date, StatusCancelled))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointment WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+` FROM appointment WHERE patient_id = $1
		ORDER BY visit_date DESC, time_slot LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAppts(rows, total)
}

func (r *repoPG) ListForDate(ctx context.Context, date string, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointment WHERE visit_date = $1`, date).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+apptCols+` FROM appointment WHERE visit_date = $1
		ORDER BY time_slot LIMIT $2 OFFSET $3`,
		date, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAppts(rows, total)
}

func (r *repoPG) CountByStatusForDate(ctx context.Context, date string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*) FROM appointment WHERE visit_date = $1 GROUP BY status`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, nil
}

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID, &a.PatientID, &a.DoctorID, &a.DoctorName, &a.Date, &a.TimeSlot,
		&a.Type, &a.Reason, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectAppts(rows pgx.Rows, total int) ([]*Appointment, int, error) {
	var appts []*Appointment
	for rows.Next() {
		var a Appointment
		err := rows.Scan(
			&a.ID, &a.PatientID, &a.DoctorID, &a.DoctorName, &a.Date, &a.TimeSlot,
			&a.Type, &a.Reason, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		appts = append(appts, &a)
	}
	return appts, total, nil
}
