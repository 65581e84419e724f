package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adiwjy/catatrack/internal/csv"
)

// MinDescriptionLen is the minimum trimmed description length for manual
// creation and edits. Import only requires a non-empty description.
const MinDescriptionLen = 3

// ErrInvalidEmail is returned when an email fails the basic shape check.
var ErrInvalidEmail = errors.New("invalid email format")

// ErrDescriptionTooShort is returned when a manually entered description is
// shorter than MinDescriptionLen after trimming.
var ErrDescriptionTooShort = errors.New("description too short")

// ErrNoDataRows is returned by ImportCSV when the file decodes but carries
// no data rows beyond the header.
var ErrNoDataRows = errors.New("no data rows to import")

// Service ties the import validator, lifecycle engine, bulk writer and CSV
// export together on top of a RecordStore.
type Service struct {
	store     RecordStore
	chunkSize int
	now       func() time.Time
}

// NewService creates a Service. chunkSize <= 0 selects DefaultChunkSize.
func NewService(store RecordStore, chunkSize int) *Service {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Service{
		store:     store,
		chunkSize: chunkSize,
		now:       time.Now,
	}
}

// ListOptions narrow and order a record listing. Status filters on the
// effective status ("ALL" or empty disables it); Search matches email and
// description case-insensitively.
type ListOptions struct {
	Search string
	Status string
	Order  SortOrder
}

// ListRecords returns the owner's active records as effective-status views,
// filtered and ordered per opts. The snapshot is rebuilt wholesale on every
// call; nothing is cached between reads.
func (s *Service) ListRecords(ctx context.Context, owner uuid.UUID, opts ListOptions) ([]RecordView, error) {
	order := opts.Order
	if order == "" {
		order = SortCreatedDesc
	}

	recs, err := s.store.Query(ctx, Filter{OwnerID: owner}, order)
	if err != nil {
		return nil, err
	}

	now := s.now()
	q := strings.ToLower(strings.TrimSpace(opts.Search))
	statusFilter := strings.ToUpper(strings.TrimSpace(opts.Status))

	views := make([]RecordView, 0, len(recs))
	for _, rec := range recs {
		view := RecordView{Record: rec, EffectiveStatus: EffectiveStatus(rec, now)}

		if q != "" &&
			!strings.Contains(strings.ToLower(rec.ContactEmail), q) &&
			!strings.Contains(strings.ToLower(rec.Description), q) {
			continue
		}
		if statusFilter != "" && statusFilter != "ALL" && string(view.EffectiveStatus) != statusFilter {
			continue
		}

		views = append(views, view)
	}
	return views, nil
}

// ListTrash returns the owner's soft-deleted records, most recently deleted
// first, optionally filtered by a search term.
func (s *Service) ListTrash(ctx context.Context, owner uuid.UUID, search string) ([]Record, error) {
	recs, err := s.store.Query(ctx, Filter{OwnerID: owner, Trashed: true}, SortDeletedDesc)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return recs, nil
	}

	filtered := recs[:0]
	for _, rec := range recs {
		if strings.Contains(strings.ToLower(rec.ContactEmail), q) ||
			strings.Contains(strings.ToLower(rec.Description), q) {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// CreateRecord inserts a single manually entered record. The description must
// be at least MinDescriptionLen characters after trimming, stricter than the
// import path. CreatedAt and the UNSOLD default come from the store.
func (s *Service) CreateRecord(ctx context.Context, actor Actor, email, description string, expiresAt *time.Time) error {
	if actor.IsZero() {
		return ErrAuthRequired
	}
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	if len(strings.TrimSpace(description)) < MinDescriptionLen {
		return ErrDescriptionTooShort
	}

	return s.store.Insert(ctx, []NewRecord{{
		OwnerID:      actor.ID,
		ContactEmail: email,
		Description:  description,
		ExpiresAt:    expiresAt,
		Status:       StatusUnsold,
	}})
}

// UpdateParams are the operator-editable record fields. Nil fields are left
// unchanged; ClearExpiry removes the expiry entirely.
type UpdateParams struct {
	ContactEmail *string
	Description  *string
	ExpiresAt    *time.Time
	ClearExpiry  bool
}

// UpdateRecord applies an edit to a record's mutable fields. Status is not
// editable here; it only moves through the lifecycle transitions.
func (s *Service) UpdateRecord(ctx context.Context, actor Actor, id uuid.UUID, params UpdateParams) error {
	if actor.IsZero() {
		return ErrAuthRequired
	}
	if params.ContactEmail != nil && !ValidEmail(*params.ContactEmail) {
		return ErrInvalidEmail
	}
	if params.Description != nil && len(strings.TrimSpace(*params.Description)) < MinDescriptionLen {
		return ErrDescriptionTooShort
	}

	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}

	return s.store.Update(ctx, id, RecordPatch{
		ContactEmail:   params.ContactEmail,
		Description:    params.Description,
		ExpiresAt:      params.ExpiresAt,
		ClearExpiresAt: params.ClearExpiry,
	})
}

// ImportReport summarizes an import attempt for the caller.
type ImportReport struct {
	Valid     int      `json:"valid"`
	Submitted int      `json:"submitted"`
	Errors    []string `json:"errors,omitempty"`
}

// PreviewImport decodes and validates a CSV without writing anything, for
// showing the user what an import would do.
func (s *Service) PreviewImport(raw []byte) (ImportBatch, error) {
	rows, err := csv.Decode(string(raw))
	if err != nil {
		return ImportBatch{}, err
	}
	return ValidateRows(rows)
}

// ImportCSV decodes, validates and commits a CSV import in the actor's name.
//
// Submission policy: any row error blocks the whole commit (the report still
// carries the valid count and every error message so the user can fix the
// file in one pass). Valid batches are written through SubmitChunked; on a
// chunk failure the report's Submitted reflects what was committed before
// the failure.
func (s *Service) ImportCSV(ctx context.Context, actor Actor, raw []byte) (ImportReport, error) {
	if actor.IsZero() {
		return ImportReport{}, ErrAuthRequired
	}

	batch, err := s.PreviewImport(raw)
	if err != nil {
		return ImportReport{}, err
	}

	report := ImportReport{Valid: len(batch.Candidates), Errors: batch.Errors()}

	if len(batch.RowErrors) > 0 {
		return report, ErrImportBlocked
	}
	if len(batch.Candidates) == 0 {
		return report, ErrNoDataRows
	}

	rows := make([]NewRecord, len(batch.Candidates))
	for i, c := range batch.Candidates {
		rows[i] = NewRecord{
			OwnerID:      actor.ID,
			ContactEmail: c.ContactEmail,
			Description:  c.Description,
			ExpiresAt:    c.ExpiresAt,
			Status:       c.Status,
		}
	}

	committed, err := SubmitChunked(ctx, s.store, rows, s.chunkSize)
	report.Submitted = committed
	return report, err
}

// ExportCSV renders the owner's current filtered view as spreadsheet-ready
// CSV, in the same order the listing shows.
func (s *Service) ExportCSV(ctx context.Context, owner uuid.UUID, opts ListOptions) (string, error) {
	views, err := s.ListRecords(ctx, owner, opts)
	if err != nil {
		return "", err
	}
	return BuildExport(views), nil
}
