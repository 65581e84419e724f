// Package csv implements the delimited-text codec used for record import and
// export.
//
// The format is the dialect produced by spreadsheet tools in locales that use
// ";" as the column delimiter: files may start with a "sep=<char>" sentinel
// line, may carry a UTF-8 BOM, and quote cells with doubled-quote escaping.
// Decoding is deliberately lenient so that files which open fine in Excel also
// import fine here; encoding is a safe superset (every cell quoted) so that
// Decode(Encode(rows)) always recovers the original cells.
//
// encoding/csv is not usable for this dialect: it has no notion of the sep=
// sentinel, cannot autodetect the delimiter per file, and rejects the odd
// quoting this decoder must tolerate.
package csv

import (
	"errors"
	"regexp"
	"strings"
)

// ErrMalformedInput is returned by Decode when no rows survive parsing,
// i.e. the input is empty after BOM and sentinel handling.
var ErrMalformedInput = errors.New("malformed input: no rows")

// sepSentinel matches a "sep=<char>" first line, case-insensitive, with
// optional whitespace around the delimiter character.
var sepSentinel = regexp.MustCompile(`(?i)^sep\s*=\s*(.)\s*$`)

const bom = "\ufeff"

// Decode parses delimited text into rows of cells.
//
// Delimiter selection: a sep= sentinel on the first line wins and the line is
// discarded. Otherwise the first line is inspected and ";" is chosen only when
// it contains strictly more semicolons than commas.
//
// Parsing never fails on odd quoting; an unterminated quote simply consumes
// the rest of the input into the current cell. A row is dropped only when it
// consists of a single cell that is blank after trimming, which guards against
// trailing newlines without losing genuinely empty multi-cell rows.
func Decode(raw string) ([][]string, error) {
	text := strings.TrimPrefix(raw, bom)

	delim := byte(',')

	firstLine, _, _ := strings.Cut(text, "\n")
	firstLine = strings.TrimRight(firstLine, "\r")

	if m := sepSentinel.FindStringSubmatch(strings.TrimSpace(firstLine)); m != nil {
		delim = m[1][0]
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[i+1:]
		} else {
			text = ""
		}
	} else if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		delim = ';'
	}

	var (
		rows     [][]string
		row      []string
		cell     strings.Builder
		inQuotes bool
	)

	endRow := func() {
		row = append(row, cell.String())
		cell.Reset()
		if len(row) > 1 || strings.TrimSpace(row[0]) != "" {
			rows = append(rows, row)
		}
		row = nil
	}

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if ch == '"' {
			if inQuotes && i+1 < len(text) && text[i+1] == '"' {
				cell.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
			continue
		}

		if !inQuotes && ch == delim {
			row = append(row, cell.String())
			cell.Reset()
			continue
		}

		if !inQuotes && (ch == '\n' || ch == '\r') {
			if ch == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			endRow()
			continue
		}

		cell.WriteByte(ch)
	}
	endRow()

	if len(rows) == 0 {
		return nil, ErrMalformedInput
	}
	return rows, nil
}

// Encode serializes rows back to delimited text.
//
// A sep= sentinel is prepended so spreadsheet tools split columns correctly
// regardless of locale, and every cell is quoted unconditionally with internal
// quotes doubled. Rows are joined with "\n".
func Encode(rows [][]string, delim byte) string {
	var b strings.Builder
	b.WriteString("sep=")
	b.WriteByte(delim)

	for _, row := range rows {
		b.WriteByte('\n')
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(delim)
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return b.String()
}
