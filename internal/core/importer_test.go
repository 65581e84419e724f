package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// ----------------------------------------------------------------------------
// Header Validation Tests
// ----------------------------------------------------------------------------

func TestValidateRowsHeaders(t *testing.T) {
	tests := []struct {
		name        string
		rows        [][]string
		wantMissing []string
	}{
		{
			name:        "both required headers missing",
			rows:        [][]string{{"foo", "bar"}},
			wantMissing: []string{"email", "description"},
		},
		{
			name:        "email missing",
			rows:        [][]string{{"description", "status"}},
			wantMissing: []string{"email"},
		},
		{
			name:        "description missing",
			rows:        [][]string{{"email", "status"}},
			wantMissing: []string{"description"},
		},
		{
			name:        "no rows at all",
			rows:        nil,
			wantMissing: []string{"email", "description"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateRows(tt.rows)
			var structural *StructuralImportError
			if !errors.As(err, &structural) {
				t.Fatalf("ValidateRows() error = %v, want StructuralImportError", err)
			}
			if strings.Join(structural.Missing, ",") != strings.Join(tt.wantMissing, ",") {
				t.Errorf("Missing = %v, want %v", structural.Missing, tt.wantMissing)
			}
		})
	}
}

func TestValidateRowsHeaderMatching(t *testing.T) {
	tests := []struct {
		name   string
		header []string
	}{
		{name: "canonical names", header: []string{"email", "description", "expiresAt", "status"}},
		{name: "indonesian aliases", header: []string{"email", "deskripsi", "waktu_exp", "status"}},
		{name: "mixed case with whitespace", header: []string{" EMAIL ", "Deskripsi", " ExpiresAt", "STATUS "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := [][]string{
				tt.header,
				{"a@b.co", "Produk A", "2026-02-01", "sold"},
			}
			batch, err := ValidateRows(rows)
			if err != nil {
				t.Fatalf("ValidateRows() error = %v", err)
			}
			if len(batch.RowErrors) != 0 {
				t.Fatalf("RowErrors = %v, want none", batch.Errors())
			}
			if len(batch.Candidates) != 1 {
				t.Fatalf("Candidates = %d, want 1", len(batch.Candidates))
			}

			c := batch.Candidates[0]
			if c.Status != StatusSold {
				t.Errorf("Status = %v, want SOLD", c.Status)
			}
			if c.ExpiresAt == nil {
				t.Fatal("ExpiresAt = nil, want parsed date")
			}
			want := time.Date(2026, time.February, 1, 23, 59, 59, 999_000_000, time.Local)
			if !c.ExpiresAt.Equal(want) {
				t.Errorf("ExpiresAt = %v, want %v", *c.ExpiresAt, want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Row Validation Tests
// ----------------------------------------------------------------------------

func TestValidateRowsPerRowIndependence(t *testing.T) {
	rows := [][]string{
		{"email", "description"},
		{"ok1@example.com", "first"},
		{"not-an-email", "second"},
		{"ok2@example.com", "third"},
	}

	batch, err := ValidateRows(rows)
	if err != nil {
		t.Fatalf("ValidateRows() error = %v", err)
	}

	if len(batch.Candidates) != 2 {
		t.Errorf("Candidates = %d, want 2", len(batch.Candidates))
	}
	if len(batch.RowErrors) != 1 {
		t.Fatalf("RowErrors = %d, want 1", len(batch.RowErrors))
	}

	// Data row 2 of the input is displayed as row 3: header counts as row 1.
	if batch.RowErrors[0].Row != 3 {
		t.Errorf("RowErrors[0].Row = %d, want 3", batch.RowErrors[0].Row)
	}
	if !strings.HasPrefix(batch.RowErrors[0].Error(), "row 3:") {
		t.Errorf("error message = %q, want row 3 prefix", batch.RowErrors[0].Error())
	}
}

func TestValidateRowsRowErrors(t *testing.T) {
	header := []string{"email", "description", "expiresAt", "status"}

	tests := []struct {
		name    string
		row     []string
		wantErr string
	}{
		{
			name:    "blank email",
			row:     []string{"", "desc", "", ""},
			wantErr: "email and description are required",
		},
		{
			name:    "blank description",
			row:     []string{"a@b.co", "   ", "", ""},
			wantErr: "email and description are required",
		},
		{
			name:    "bad email shape",
			row:     []string{"a@b", "desc", "", ""},
			wantErr: "invalid email",
		},
		{
			name:    "email with spaces",
			row:     []string{"a b@c.co", "desc", "", ""},
			wantErr: "invalid email",
		},
		{
			name:    "unknown status",
			row:     []string{"a@b.co", "desc", "", "PENDING"},
			wantErr: "invalid status",
		},
		{
			name:    "bad expiry format",
			row:     []string{"a@b.co", "desc", "01.02.2026", ""},
			wantErr: "invalid expiry date",
		},
		{
			name:    "impossible expiry date",
			row:     []string{"a@b.co", "desc", "2026-02-30", ""},
			wantErr: "invalid expiry date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := ValidateRows([][]string{header, tt.row})
			if err != nil {
				t.Fatalf("ValidateRows() error = %v", err)
			}
			if len(batch.Candidates) != 0 {
				t.Errorf("Candidates = %d, want 0", len(batch.Candidates))
			}
			if len(batch.RowErrors) != 1 {
				t.Fatalf("RowErrors = %d, want 1", len(batch.RowErrors))
			}
			if !strings.Contains(batch.RowErrors[0].Message, tt.wantErr) {
				t.Errorf("error = %q, want substring %q", batch.RowErrors[0].Message, tt.wantErr)
			}
		})
	}
}

func TestValidateRowsDefaults(t *testing.T) {
	rows := [][]string{
		{"email", "description"},
		{"a@b.co", "no optional columns at all"},
	}

	batch, err := ValidateRows(rows)
	if err != nil {
		t.Fatalf("ValidateRows() error = %v", err)
	}
	if len(batch.Candidates) != 1 {
		t.Fatalf("Candidates = %d, want 1", len(batch.Candidates))
	}

	c := batch.Candidates[0]
	if c.Status != StatusUnsold {
		t.Errorf("Status = %v, want UNSOLD default", c.Status)
	}
	if c.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want nil", *c.ExpiresAt)
	}
}

func TestValidateRowsBlankOptionalCells(t *testing.T) {
	rows := [][]string{
		{"email", "description", "expiresAt", "status"},
		{"a@b.co", "desc", "  ", ""},
	}

	batch, err := ValidateRows(rows)
	if err != nil {
		t.Fatalf("ValidateRows() error = %v", err)
	}
	if len(batch.RowErrors) != 0 {
		t.Fatalf("RowErrors = %v, want none", batch.Errors())
	}

	c := batch.Candidates[0]
	if c.Status != StatusUnsold || c.ExpiresAt != nil {
		t.Errorf("blank optional cells should default: status=%v expiresAt=%v", c.Status, c.ExpiresAt)
	}
}

func TestValidateRowsShortRow(t *testing.T) {
	// A data row with fewer cells than the header treats the missing cells
	// as blank rather than crashing.
	rows := [][]string{
		{"email", "description", "expiresAt", "status"},
		{"a@b.co"},
	}

	batch, err := ValidateRows(rows)
	if err != nil {
		t.Fatalf("ValidateRows() error = %v", err)
	}
	if len(batch.RowErrors) != 1 {
		t.Fatalf("RowErrors = %d, want 1 (missing description)", len(batch.RowErrors))
	}
}
