package core

// lifecycle.go implements the record status state machine.
//
// A record's persisted status and its effective status can disagree: an
// UNSOLD record whose expiry has passed displays as EXPIRED without any
// write. EffectiveStatus is the pure read-side projection; the transition
// methods below are the only place persisted status changes.

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotExpirable is returned by MarkExpired when the record is not an
// UNSOLD record whose expiry has passed.
var ErrNotExpirable = errors.New("record is not effectively expired")

// ErrNotTrashed is returned by Restore when the record is not soft-deleted.
var ErrNotTrashed = errors.New("record is not in the trash")

// EffectiveStatus computes the as-of-now status from persisted state. Expiry
// only overrides UNSOLD: a SOLD or CANCELLED record keeps its status past its
// expiry date. The result is never persisted.
func EffectiveStatus(rec Record, now time.Time) Status {
	if rec.Status == StatusUnsold && rec.ExpiresAt != nil && rec.ExpiresAt.Before(now) {
		return StatusExpired
	}
	return rec.Status
}

// ToggleOutcome reports a completed sold/unsold flip. LogErr carries a
// status-log append failure: the flip itself is already committed at that
// point, so the log failure is surfaced separately instead of rolling back.
type ToggleOutcome struct {
	Record   Record
	Previous Status
	LogErr   error
}

// ToggleSold flips a record between SOLD and UNSOLD.
//
// The current persisted status is re-read first so the log records the true
// prior value rather than a stale client-held one. The status write and the
// log append are two independent calls: logging is best-effort, not
// transactional with the flip.
func (s *Service) ToggleSold(ctx context.Context, actor Actor, id uuid.UUID) (ToggleOutcome, error) {
	if actor.IsZero() {
		return ToggleOutcome{}, ErrAuthRequired
	}

	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return ToggleOutcome{}, err
	}

	next := StatusSold
	if rec.Status == StatusSold {
		next = StatusUnsold
	}

	now := s.now()
	if err := s.store.Update(ctx, id, RecordPatch{Status: &next, StatusUpdatedAt: &now}); err != nil {
		return ToggleOutcome{}, err
	}

	outcome := ToggleOutcome{Record: rec, Previous: rec.Status}
	outcome.Record.Status = next
	outcome.Record.StatusUpdatedAt = &now

	outcome.LogErr = s.store.AppendStatusLog(ctx, StatusLogEntry{
		ID:             uuid.New(),
		RecordID:       id,
		ActorID:        actor.ID,
		PreviousStatus: rec.Status,
		NewStatus:      next,
		Timestamp:      now,
	})

	return outcome, nil
}

// MarkExpired persists the EXPIRED status on a record that is already
// effectively expired but still persisted as UNSOLD. Unlike ToggleSold this
// transition writes no status-log entry: it only materializes a state the
// record is already displayed in.
func (s *Service) MarkExpired(ctx context.Context, actor Actor, id uuid.UUID) error {
	if actor.IsZero() {
		return ErrAuthRequired
	}

	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	now := s.now()
	if rec.Status != StatusUnsold || EffectiveStatus(rec, now) != StatusExpired {
		return ErrNotExpirable
	}

	expired := StatusExpired
	return s.store.Update(ctx, id, RecordPatch{Status: &expired, StatusUpdatedAt: &now})
}

// SoftDelete moves a record to the trash by stamping DeletedAt. Status is
// left untouched. Operator confirmation is the transport layer's concern.
func (s *Service) SoftDelete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if actor.IsZero() {
		return ErrAuthRequired
	}

	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}

	now := s.now()
	return s.store.Update(ctx, id, RecordPatch{DeletedAt: &now})
}

// Restore clears DeletedAt on a soft-deleted record, making it visible in
// default listings again. Restoring an active record is an error.
func (s *Service) Restore(ctx context.Context, actor Actor, id uuid.UUID) error {
	if actor.IsZero() {
		return ErrAuthRequired
	}

	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if rec.DeletedAt == nil {
		return ErrNotTrashed
	}

	return s.store.Update(ctx, id, RecordPatch{ClearDeletedAt: true})
}

// RestoreAll restores every record currently in the actor's trash. Returns
// the number of records restored.
func (s *Service) RestoreAll(ctx context.Context, actor Actor) (int, error) {
	if actor.IsZero() {
		return 0, ErrAuthRequired
	}

	trashed, err := s.store.Query(ctx, Filter{OwnerID: actor.ID, Trashed: true}, SortDeletedDesc)
	if err != nil {
		return 0, err
	}

	for i, rec := range trashed {
		if err := s.store.Update(ctx, rec.ID, RecordPatch{ClearDeletedAt: true}); err != nil {
			return i, err
		}
	}
	return len(trashed), nil
}

// HardDelete permanently removes a record. Irreversible. Prior soft deletion
// is deliberately not required here: the trash UI is the only gate, matching
// the observed permissive behavior.
func (s *Service) HardDelete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if actor.IsZero() {
		return ErrAuthRequired
	}
	return s.store.Delete(ctx, id)
}

// EmptyTrash permanently removes every record in the actor's trash. Returns
// the number of records deleted.
func (s *Service) EmptyTrash(ctx context.Context, actor Actor) (int, error) {
	if actor.IsZero() {
		return 0, ErrAuthRequired
	}

	trashed, err := s.store.Query(ctx, Filter{OwnerID: actor.ID, Trashed: true}, SortDeletedDesc)
	if err != nil {
		return 0, err
	}

	for i, rec := range trashed {
		if err := s.store.Delete(ctx, rec.ID); err != nil {
			return i, err
		}
	}
	return len(trashed), nil
}
