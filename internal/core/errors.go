package core

// errors.go defines the error taxonomy for import and lifecycle operations.
//
// The split mirrors how callers must react:
//   - StructuralImportError: the CSV is unusable as a whole (missing required
//     headers); nothing row-level is reported.
//   - RowError: one bad data row; collected into a list, the rest of the
//     batch proceeds.
//   - WriteError: the store rejected a chunk; remaining chunks are aborted
//     but already-committed chunks stand.
//   - ErrAuthRequired: no authenticated actor; blocks any mutation.

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAuthRequired is returned when a mutating operation is attempted without
// an authenticated actor.
var ErrAuthRequired = errors.New("authentication required")

// ErrNotFound is returned when a record does not exist or is not visible to
// the caller. Store implementations must translate their own not-found
// conditions into this sentinel.
var ErrNotFound = errors.New("record not found")

// ErrImportBlocked is returned when an import commit is attempted while the
// validated batch still carries row errors. Blocking on row errors is caller
// policy, enforced by the service rather than the validator.
var ErrImportBlocked = errors.New("import blocked: fix row errors first")

// StructuralImportError aborts an entire import: the header row is missing
// required columns, so no per-row validation is attempted.
type StructuralImportError struct {
	Missing []string
}

func (e *StructuralImportError) Error() string {
	return fmt.Sprintf("missing required columns: %s (required: email, description; optional: expiresAt, status)",
		strings.Join(e.Missing, ", "))
}

// RowError is a non-fatal validation failure for a single data row. Row is
// the 1-indexed display number counting the header as row 1.
type RowError struct {
	Row     int
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// WriteError reports a failed chunk submission. Committed is the number of
// records confirmed written before the failing chunk; partial success inside
// the failed chunk is store-dependent and not modeled.
type WriteError struct {
	Committed int
	Err       error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("bulk write failed after %d committed records: %v", e.Committed, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
