package patient

import (
	"context"
	"encoding/json"
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

const patientCols = `id, patient_id, name, date_of_birth, gender, phone, vitals, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient (id, patient_id, name, date_of_birth, gender, phone)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.PatientID, p.Name, p.DateOfBirth, p.Gender, p.Phone,
	)
	return err
}

func (r *repoPG) GetByPatientID(ctx context.Context, patientID string) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient WHERE patient_id = $1`, patientID))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+patientCols+` FROM patient ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	return patients, total, nil
}

func (r *repoPG) PutVitals(ctx context.Context, patientID string, v *VitalsRecord) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE patient SET vitals = $2, updated_at = NOW() WHERE patient_id = $1`,
		patientID, raw)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var vitals []byte
	err := row.Scan(&p.ID, &p.PatientID, &p.Name, &p.DateOfBirth, &p.Gender, &p.Phone,
		&vitals, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(vitals) > 0 {
		var v VitalsRecord
		if err := json.Unmarshal(vitals, &v); err != nil {
			return nil, err
		}
		p.Vitals = &v
	}
	return &p, nil
}
