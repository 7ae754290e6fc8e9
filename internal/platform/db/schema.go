package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Bootstrap creates the clinic tables when they do not exist yet. The
// schema is small enough that versioned migrations would be overhead; the
// statements are safe to run on every start.
func Bootstrap(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS patient (
			id UUID PRIMARY KEY,
			patient_id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			date_of_birth TEXT,
			gender TEXT,
			phone TEXT,
			vitals JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS appointment (
			id UUID PRIMARY KEY,
			patient_id TEXT NOT NULL,
			doctor_id TEXT NOT NULL,
			doctor_name TEXT NOT NULL DEFAULT '',
			visit_date TEXT NOT NULL,
			time_slot TEXT NOT NULL,
			visit_type TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_appointment_patient_date
			ON appointment (patient_id, visit_date)`,
		`CREATE TABLE IF NOT EXISTS triage_draft (
			patient_id TEXT PRIMARY KEY,
			payload JSONB NOT NULL,
			last_modified TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS consultation_record (
			id UUID PRIMARY KEY,
			patient_id TEXT NOT NULL,
			doctor_id TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL,
			diagnosis TEXT NOT NULL,
			started_at TIMESTAMPTZ,
			ended_at TIMESTAMPTZ,
			duration_minutes INTEGER,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_consultation_record_patient
			ON consultation_record (patient_id)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}
