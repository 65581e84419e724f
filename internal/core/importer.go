package core

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/adiwjy/catatrack/internal/csv"
)

// emailShape is the basic local@domain.tld check applied to imported and
// manually created records alike.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Header column names, matched case-insensitively after trimming. The
// Indonesian spellings are accepted as aliases so files exported by older
// builds keep importing.
const (
	colEmail       = "email"
	colDescription = "description"
	colDescAlias   = "deskripsi"
	colExpires     = "expiresat"
	colExpAlias    = "waktu_exp"
	colStatus      = "status"
)

// Candidate is one validated import row, ready for submission. Status is
// defaulted to UNSOLD when the cell was absent or blank; ExpiresAt is nil
// when no expiry was supplied.
type Candidate struct {
	ContactEmail string
	Description  string
	ExpiresAt    *time.Time
	Status       Status
}

// ImportBatch is the outcome of validating decoded CSV rows: the valid
// candidates plus the ordered list of per-row errors. Whether errors block
// submission is the caller's policy, not the validator's.
type ImportBatch struct {
	Candidates []Candidate
	RowErrors  []RowError
}

// Errors renders the row errors as human-readable strings, in row order.
func (b ImportBatch) Errors() []string {
	msgs := make([]string, len(b.RowErrors))
	for i, e := range b.RowErrors {
		msgs[i] = e.Error()
	}
	return msgs
}

// headerIndex maps normalized header names to their column position.
type headerIndex map[string]int

func makeHeaderIndex(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}
	return idx
}

// lookup returns the position of the first matching header name.
func (idx headerIndex) lookup(names ...string) (int, bool) {
	for _, n := range names {
		if pos, ok := idx[n]; ok {
			return pos, true
		}
	}
	return 0, false
}

func cellAt(row []string, pos int) string {
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}

// ValidateRows maps decoded tabular rows to import candidates.
//
// Row 0 is the header. Missing required headers abort the whole import with a
// *StructuralImportError and no row errors. Otherwise every data row is
// validated independently: a failing row contributes one RowError and is
// skipped, never affecting any other row. Displayed row numbers count the
// header as row 1, matching what the user sees in a spreadsheet.
func ValidateRows(rows [][]string) (ImportBatch, error) {
	if len(rows) == 0 {
		return ImportBatch{}, &StructuralImportError{Missing: []string{colEmail, colDescription}}
	}

	idx := makeHeaderIndex(rows[0])

	emailPos, emailOK := idx.lookup(colEmail)
	descPos, descOK := idx.lookup(colDescription, colDescAlias)

	var missing []string
	if !emailOK {
		missing = append(missing, colEmail)
	}
	if !descOK {
		missing = append(missing, colDescription)
	}
	if len(missing) > 0 {
		return ImportBatch{}, &StructuralImportError{Missing: missing}
	}

	expPos, expOK := idx.lookup(colExpires, colExpAlias)
	statusPos, statusOK := idx.lookup(colStatus)

	var batch ImportBatch

	for r := 1; r < len(rows); r++ {
		rowNum := r + 1 // header is row 1

		email := cellAt(rows[r], emailPos)
		desc := cellAt(rows[r], descPos)

		if email == "" || desc == "" {
			batch.RowErrors = append(batch.RowErrors, RowError{Row: rowNum, Message: "email and description are required"})
			continue
		}
		if !emailShape.MatchString(email) {
			batch.RowErrors = append(batch.RowErrors, RowError{Row: rowNum, Message: fmt.Sprintf("invalid email (%s)", email)})
			continue
		}

		status := StatusUnsold
		if statusOK {
			if raw := cellAt(rows[r], statusPos); raw != "" {
				s := Status(strings.ToUpper(raw))
				if !s.Valid() {
					batch.RowErrors = append(batch.RowErrors, RowError{Row: rowNum, Message: fmt.Sprintf("invalid status (%s)", raw)})
					continue
				}
				status = s
			}
		}

		var expiresAt *time.Time
		if expOK {
			if raw := cellAt(rows[r], expPos); raw != "" {
				expiresAt = csv.ParseCalendarDate(raw)
				if expiresAt == nil {
					batch.RowErrors = append(batch.RowErrors, RowError{Row: rowNum, Message: fmt.Sprintf("invalid expiry date %q (use YYYY-MM-DD, DD/MM/YYYY or DD-MM-YYYY)", raw)})
					continue
				}
			}
		}

		batch.Candidates = append(batch.Candidates, Candidate{
			ContactEmail: email,
			Description:  desc,
			ExpiresAt:    expiresAt,
			Status:       status,
		})
	}

	return batch, nil
}

// ValidEmail reports whether v matches the basic email shape used across
// import and manual creation.
func ValidEmail(v string) bool {
	return emailShape.MatchString(v)
}
