package consultation

import (
	"context"

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

const recCols = `id, patient_id, doctor_id, notes, diagnosis, started_at, ended_at, duration_minutes, created_at`

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO consultation_record (id, patient_id, doctor_id, notes, diagnosis, started_at, ended_at, duration_minutes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rec.ID, rec.PatientID, rec.DoctorID, rec.Notes, rec.Diagnosis,
		rec.StartedAt, rec.EndedAt, rec.DurationMinutes,
	)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Record, int, error) {
	return r.list(ctx, `patient_id`, patientID, limit, offset)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID string, limit, offset int) ([]*Record, int, error) {
	return r.list(ctx, `doctor_id`, doctorID, limit, offset)
}

func (r *repoPG) list(ctx context.Context, col, val string, limit, offset int) ([]*Record, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM consultation_record WHERE `+col+` = $1`, val).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+recCols+` FROM consultation_record WHERE `+col+` = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, val, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var recs []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		recs = append(recs, rec)
	}
	return recs, total, nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.DoctorID, &rec.Notes, &rec.Diagnosis,
		&rec.StartedAt, &rec.EndedAt, &rec.DurationMinutes, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
