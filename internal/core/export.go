package core

import (
	"strconv"

	"github.com/adiwjy/catatrack/internal/csv"
)

// ExportDelimiter is ";" because Excel in id-ID (and most European locales)
// splits columns on semicolons; the sep= sentinel makes it explicit either way.
const ExportDelimiter = ';'

// createdAtLayout renders creation timestamps the way the id-ID locale does,
// in the exporting machine's local time.
const createdAtLayout = "02/01/2006 15.04.05"

var exportHeader = []string{"No", "Email", "Deskripsi", "Waktu Buat", "Waktu Exp", "Status"}

// BuildExport serializes the given views in their current order. Every cell
// is quoted, the expiry is exported as a bare UTC calendar date so the file
// re-imports cleanly, and the status column carries the effective status the
// user saw on screen.
func BuildExport(views []RecordView) string {
	rows := make([][]string, 0, len(views)+1)
	rows = append(rows, exportHeader)

	for i, v := range views {
		expiry := ""
		if v.ExpiresAt != nil {
			expiry = csv.FormatCalendarDate(*v.ExpiresAt)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			v.ContactEmail,
			v.Description,
			v.CreatedAt.Local().Format(createdAtLayout),
			expiry,
			string(v.EffectiveStatus),
		})
	}

	return csv.Encode(rows, ExportDelimiter)
}

// TemplateCSV returns the static example file offered for download next to
// the import form. It exercises the full header contract including a quoted
// cell with an embedded delimiter and an empty optional expiry.
func TemplateCSV() string {
	return "sep=;\n" +
		"email;description;expiresAt;status\n" +
		"user1@gmail.com;\"Produk A, warna merah\";2026-02-01;UNSOLD\n" +
		"user2@gmail.com;Produk B;2026-01-30;SOLD\n" +
		"user3@gmail.com;Produk C;;UNSOLD\n"
}
