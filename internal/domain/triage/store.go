package triage

import (
	"context"
	"errors"
)

// ErrDraftNotFound is returned by DraftStore lookups with no saved draft.
var ErrDraftNotFound = errors.New("triage draft not found")

// DraftStore is the keyed persistence port for triage drafts, one record per
// patient. It is the only core state that must survive a process restart so
// an interrupted triage can be resumed.
type DraftStore interface {
	Get(ctx context.Context, patientID string) (*Draft, error)
	Put(ctx context.Context, draft *Draft) error
	Delete(ctx context.Context, patientID string) error
	List(ctx context.Context) ([]*Draft, error)
}
