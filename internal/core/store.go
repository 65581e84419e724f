package core

import (
	"context"

	"github.com/google/uuid"
)

// RecordStore is the persistence collaborator. Ownership enforcement is the
// store's responsibility (every call is scoped by owner via the filter or the
// record's owner column); the engine does not re-validate it.
//
// Insert stamps CreatedAt server-side; callers never supply it.
type RecordStore interface {
	Insert(ctx context.Context, rows []NewRecord) error
	Update(ctx context.Context, id uuid.UUID, patch RecordPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	Query(ctx context.Context, filter Filter, order SortOrder) ([]Record, error)
	Get(ctx context.Context, id uuid.UUID) (Record, error)

	// AppendStatusLog writes one audit row. It is called after the primary
	// status mutation has committed and its failure must not roll that
	// mutation back.
	AppendStatusLog(ctx context.Context, entry StatusLogEntry) error
}
