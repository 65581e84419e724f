package core

// memstore_test.go provides the in-memory RecordStore used by the engine and
// service tests. Failure hooks let tests force store errors at specific call
// counts to exercise the abort and best-effort paths.

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

type memStore struct {
	records map[uuid.UUID]*Record
	seq     map[uuid.UUID]int // insertion order, stands in for CreatedAt ties
	nextSeq int
	logs    []StatusLogEntry

	inserts   [][]NewRecord // every Insert call, for chunk assertions
	insertErr func(call int) error
	logErr    error
}

func newMemStore() *memStore {
	return &memStore{
		records: make(map[uuid.UUID]*Record),
		seq:     make(map[uuid.UUID]int),
	}
}

func (m *memStore) Insert(_ context.Context, rows []NewRecord) error {
	m.inserts = append(m.inserts, rows)
	if m.insertErr != nil {
		if err := m.insertErr(len(m.inserts)); err != nil {
			return err
		}
	}
	for _, row := range rows {
		status := row.Status
		if status == "" {
			status = StatusUnsold
		}
		rec := &Record{
			ID:           uuid.New(),
			OwnerID:      row.OwnerID,
			ContactEmail: row.ContactEmail,
			Description:  row.Description,
			CreatedAt:    time.Now(),
			ExpiresAt:    row.ExpiresAt,
			Status:       status,
		}
		m.records[rec.ID] = rec
		m.seq[rec.ID] = m.nextSeq
		m.nextSeq++
	}
	return nil
}

func (m *memStore) Update(_ context.Context, id uuid.UUID, patch RecordPatch) error {
	rec, ok := m.records[id]
	if !ok {
		return ErrNotFound
	}
	if patch.ContactEmail != nil {
		rec.ContactEmail = *patch.ContactEmail
	}
	if patch.Description != nil {
		rec.Description = *patch.Description
	}
	if patch.ExpiresAt != nil {
		rec.ExpiresAt = patch.ExpiresAt
	} else if patch.ClearExpiresAt {
		rec.ExpiresAt = nil
	}
	if patch.Status != nil {
		rec.Status = *patch.Status
	}
	if patch.StatusUpdatedAt != nil {
		rec.StatusUpdatedAt = patch.StatusUpdatedAt
	}
	if patch.DeletedAt != nil {
		rec.DeletedAt = patch.DeletedAt
	} else if patch.ClearDeletedAt {
		rec.DeletedAt = nil
	}
	return nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memStore) Query(_ context.Context, filter Filter, order SortOrder) ([]Record, error) {
	var out []Record
	for _, rec := range m.records {
		if filter.OwnerID != uuid.Nil && rec.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Trashed != (rec.DeletedAt != nil) {
			continue
		}
		out = append(out, *rec)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch order {
		case SortCreatedAsc:
			return m.seq[a.ID] < m.seq[b.ID]
		case SortExpiryAsc:
			return expiryLess(a.ExpiresAt, b.ExpiresAt)
		case SortExpiryDesc:
			return expiryLess(b.ExpiresAt, a.ExpiresAt)
		case SortDeletedDesc:
			return deletedAfter(a.DeletedAt, b.DeletedAt)
		default: // SortCreatedDesc
			return m.seq[a.ID] > m.seq[b.ID]
		}
	})
	return out, nil
}

func (m *memStore) Get(_ context.Context, id uuid.UUID) (Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return *rec, nil
}

func (m *memStore) AppendStatusLog(_ context.Context, entry StatusLogEntry) error {
	if m.logErr != nil {
		return m.logErr
	}
	m.logs = append(m.logs, entry)
	return nil
}

func expiryLess(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.Before(*b)
}

func deletedAfter(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}

// seed inserts one record directly and returns its ID.
func (m *memStore) seed(rec Record) uuid.UUID {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if rec.Status == "" {
		rec.Status = StatusUnsold
	}
	m.records[rec.ID] = &rec
	m.seq[rec.ID] = m.nextSeq
	m.nextSeq++
	return rec.ID
}
