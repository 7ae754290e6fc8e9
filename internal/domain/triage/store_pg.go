package triage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgStore persists drafts in the triage_draft table, one row per patient,
// upserted on every edit.
type pgStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) DraftStore {
	return &pgStore{pool: pool}
}

func (s *pgStore) Get(ctx context.Context, patientID string) (*Draft, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM triage_draft WHERE patient_id = $1`, patientID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *pgStore) Put(ctx context.Context, draft *Draft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO triage_draft (patient_id, payload, last_modified)
		VALUES ($1, $2, $3)
		ON CONFLICT (patient_id) DO UPDATE SET payload = $2, last_modified = $3`,
		draft.PatientID, raw, draft.LastModified)
	return err
}

func (s *pgStore) Delete(ctx context.Context, patientID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM triage_draft WHERE patient_id = $1`, patientID)
	return err
}

func (s *pgStore) List(ctx context.Context) ([]*Draft, error) {
	rows, err := s.pool.Query(ctx, `SELECT payload FROM triage_draft ORDER BY patient_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Draft
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var d Draft
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, nil
}
