// Package core provides the business logic for sale-tracking records:
// import validation, the status lifecycle engine, chunked bulk submission,
// and CSV export. It has no HTTP or UI dependencies and talks to persistence
// only through the RecordStore interface.
package core

import (
	"time"

	"github.com/google/uuid"
)

// Status is the persisted lifecycle state of a record.
type Status string

const (
	StatusUnsold    Status = "UNSOLD"
	StatusSold      Status = "SOLD"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
)

// AllStatuses lists every legal status value, in display order.
var AllStatuses = []Status{StatusUnsold, StatusSold, StatusExpired, StatusCancelled}

// Valid reports whether s is one of the four legal statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusUnsold, StatusSold, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// Record is one tracked item. CreatedAt is stamped by the store on insert and
// is never client-supplied, so imports cannot forge creation time. ExpiresAt,
// when present, always carries an end-of-day local time component. A non-nil
// DeletedAt hides the record from default listings without touching Status.
type Record struct {
	ID              uuid.UUID  `json:"id"`
	OwnerID         uuid.UUID  `json:"ownerId"`
	ContactEmail    string     `json:"contactEmail"`
	Description     string     `json:"description"`
	CreatedAt       time.Time  `json:"createdAt"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	Status          Status     `json:"status"`
	StatusUpdatedAt *time.Time `json:"statusUpdatedAt,omitempty"`
	DeletedAt       *time.Time `json:"deletedAt,omitempty"`
}

// RecordView is the read-side projection used for display and export: the
// persisted record plus its effective ("as of now") status. It is recomputed
// per read and never persisted.
type RecordView struct {
	Record
	EffectiveStatus Status `json:"effectiveStatus"`
}

// NewRecord is a candidate row for insertion, produced by the import
// validator or the manual-create path.
type NewRecord struct {
	OwnerID      uuid.UUID
	ContactEmail string
	Description  string
	ExpiresAt    *time.Time
	Status       Status
}

// RecordPatch is a partial update. Nil pointer fields are left untouched;
// the Clear flags distinguish "set to null" from "leave alone".
type RecordPatch struct {
	ContactEmail    *string
	Description     *string
	ExpiresAt       *time.Time
	ClearExpiresAt  bool
	Status          *Status
	StatusUpdatedAt *time.Time
	DeletedAt       *time.Time
	ClearDeletedAt  bool
}

// Actor is the authenticated identity performing a mutation. It is threaded
// explicitly into every mutating operation rather than read from ambient
// session state.
type Actor struct {
	ID    uuid.UUID
	Email string
}

// IsZero reports whether no authenticated actor is present.
func (a Actor) IsZero() bool {
	return a.ID == uuid.Nil
}

// StatusLogEntry is one append-only audit row, created once per logged
// status transition and never mutated or deleted.
type StatusLogEntry struct {
	ID             uuid.UUID `json:"id"`
	RecordID       uuid.UUID `json:"recordId"`
	ActorID        uuid.UUID `json:"actorId"`
	PreviousStatus Status    `json:"previousStatus"`
	NewStatus      Status    `json:"newStatus"`
	Timestamp      time.Time `json:"timestamp"`
}

// SortOrder selects the listing order applied by the store.
type SortOrder string

const (
	SortCreatedDesc SortOrder = "created_desc"
	SortCreatedAsc  SortOrder = "created_asc"
	SortExpiryAsc   SortOrder = "exp_asc"
	SortExpiryDesc  SortOrder = "exp_desc"
	SortDeletedDesc SortOrder = "deleted_desc"
)

// Filter narrows a store query. Trashed selects soft-deleted records only;
// otherwise only active records are returned. Effective-status filtering and
// text search happen in the service projection, not the store.
type Filter struct {
	OwnerID uuid.UUID
	Trashed bool
}
