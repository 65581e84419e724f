// Package postgres implements core.RecordStore on PostgreSQL via pgx.
//
// created_at is stamped by the database default on insert, never by the
// client, which keeps imported rows from forging creation time.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/adiwjy/catatrack/internal/core"
)

//go:embed schema.sql
var schemaSQL string

// DBTX is the subset of pgx operations the store needs.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Store is the PostgreSQL-backed record store.
type Store struct {
	db DBTX
}

// New creates a Store on the given connection or pool.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the records and status_log tables if they do not
// exist yet. Idempotent; called once at startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const recordColumns = `id, owner_id, contact_email, description, created_at, expires_at, status, status_updated_at, deleted_at`

// Insert writes one chunk of candidate rows. Atomicity within the chunk is
// whatever a multi-row INSERT gives us; the bulk writer treats a failed
// chunk as entirely uncommitted, which a single statement guarantees.
func (s *Store) Insert(ctx context.Context, rows []core.NewRecord) error {
	if len(rows) == 0 {
		return nil
	}

	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString(`INSERT INTO records (owner_id, contact_email, description, expires_at, status) VALUES `)

	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5)

		status := row.Status
		if status == "" {
			status = core.StatusUnsold
		}
		args = append(args, row.OwnerID, row.ContactEmail, row.Description, toTimestamptz(row.ExpiresAt), string(status))
	}

	if _, err := s.db.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert records: %w", err)
	}
	return nil
}

// Update applies a partial patch. Nil patch fields are skipped entirely;
// the Clear flags write explicit NULLs.
func (s *Store) Update(ctx context.Context, id uuid.UUID, patch core.RecordPatch) error {
	sets, args := buildPatch(patch)
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	sql := fmt.Sprintf(`UPDATE records SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// buildPatch renders the SET clauses and their arguments for a patch.
func buildPatch(patch core.RecordPatch) ([]string, []interface{}) {
	var (
		sets []string
		args []interface{}
	)
	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.ContactEmail != nil {
		add("contact_email", *patch.ContactEmail)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.ExpiresAt != nil {
		add("expires_at", *patch.ExpiresAt)
	} else if patch.ClearExpiresAt {
		sets = append(sets, "expires_at = NULL")
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.StatusUpdatedAt != nil {
		add("status_updated_at", *patch.StatusUpdatedAt)
	}
	if patch.DeletedAt != nil {
		add("deleted_at", *patch.DeletedAt)
	} else if patch.ClearDeletedAt {
		sets = append(sets, "deleted_at = NULL")
	}

	return sets, args
}

// Delete permanently removes a record.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Query lists records for a filter in the requested order.
func (s *Store) Query(ctx context.Context, filter core.Filter, order core.SortOrder) ([]core.Record, error) {
	var (
		where []string
		args  []interface{}
	)

	if filter.Trashed {
		where = append(where, "deleted_at IS NOT NULL")
	} else {
		where = append(where, "deleted_at IS NULL")
	}
	if filter.OwnerID != uuid.Nil {
		args = append(args, filter.OwnerID)
		where = append(where, fmt.Sprintf("owner_id = $%d", len(args)))
	}

	sql := fmt.Sprintf(`SELECT %s FROM records WHERE %s ORDER BY %s`,
		recordColumns, strings.Join(where, " AND "), orderClause(order))

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// orderClause maps a SortOrder to SQL. Unknown orders fall back to newest
// first, matching the default listing.
func orderClause(order core.SortOrder) string {
	switch order {
	case core.SortCreatedAsc:
		return "created_at ASC"
	case core.SortExpiryAsc:
		return "expires_at ASC NULLS LAST"
	case core.SortExpiryDesc:
		return "expires_at DESC NULLS LAST"
	case core.SortDeletedDesc:
		return "deleted_at DESC"
	default:
		return "created_at DESC"
	}
}

// Get fetches one record by ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (core.Record, error) {
	row := s.db.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM records WHERE id = $1`, recordColumns), id)

	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Record{}, core.ErrNotFound
	}
	if err != nil {
		return core.Record{}, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// AppendStatusLog writes one audit row. Callers treat a failure here as
// best-effort: the primary status mutation has already committed.
func (s *Store) AppendStatusLog(ctx context.Context, entry core.StatusLogEntry) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO status_log (id, record_id, actor_id, previous_status, new_status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.RecordID, entry.ActorID, string(entry.PreviousStatus), string(entry.NewStatus), entry.Timestamp)
	if err != nil {
		return fmt.Errorf("append status log: %w", err)
	}
	return nil
}

func scanRecord(row pgx.Row) (core.Record, error) {
	var (
		rec             core.Record
		expiresAt       pgtype.Timestamptz
		statusUpdatedAt pgtype.Timestamptz
		deletedAt       pgtype.Timestamptz
		status          string
	)

	err := row.Scan(&rec.ID, &rec.OwnerID, &rec.ContactEmail, &rec.Description,
		&rec.CreatedAt, &expiresAt, &status, &statusUpdatedAt, &deletedAt)
	if err != nil {
		return core.Record{}, err
	}

	rec.Status = core.Status(status)
	if expiresAt.Valid {
		t := expiresAt.Time
		rec.ExpiresAt = &t
	}
	if statusUpdatedAt.Valid {
		t := statusUpdatedAt.Time
		rec.StatusUpdatedAt = &t
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		rec.DeletedAt = &t
	}
	return rec, nil
}

func toTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}
