package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/adiwjy/catatrack/internal/core"
	"github.com/adiwjy/catatrack/internal/logging"
)

// readImportFile pulls the uploaded CSV out of a multipart form, enforcing
// the configured size limit.
func (s *Server) readImportFile(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return nil, errors.New("file too large or invalid form")
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("no file provided")
	}
	defer file.Close()

	return io.ReadAll(file)
}

// handleImportPreview validates a CSV file and reports what an import would
// do without writing anything.
func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	data, err := s.readImportFile(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	batch, err := s.service.PreviewImport(data)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, map[string]interface{}{
		"valid":     len(batch.Candidates),
		"rowErrors": batch.Errors(),
	})
}

// handleImport validates and commits a CSV import in the actor's name.
//
// A blocked import (row errors present) and a partial failure (bulk write
// stopped mid-batch) both return the report alongside the error so the
// client can show exactly what happened.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	data, err := s.readImportFile(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	report, err := s.service.ImportCSV(r.Context(), actor, data)
	if err != nil {
		var writeErr *core.WriteError
		if errors.Is(err, core.ErrImportBlocked) || errors.As(err, &writeErr) {
			userMsg := core.MapError(err)
			slog.Error("import failed",
				"error", err.Error(),
				"code", userMsg.Code,
				"valid", report.Valid,
				"submitted", report.Submitted,
				"request_id", middleware.GetReqID(r.Context()),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(statusFor(err))
			writeJSON(w, map[string]interface{}{
				"report": report,
				"error":  userMsg.Message,
				"action": userMsg.Action,
				"code":   userMsg.Code,
			})
			return
		}
		s.respondError(w, r, err, statusFor(err))
		return
	}

	logging.WithActor(r.Context(), actor).Info("import committed",
		"valid", report.Valid, "submitted", report.Submitted)
	writeJSON(w, map[string]interface{}{"report": report})
}

// handleExport streams the actor's current filtered listing as a
// spreadsheet-ready CSV download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	out, err := s.service.ExportCSV(r.Context(), actor.ID, core.ListOptions{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Order:  core.SortOrder(q.Get("order")),
	})
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="records-export.csv"`)
	w.Write([]byte(out))
}

// handleTemplate serves the static example CSV offered next to the import
// form.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="import-template.csv"`)
	w.Write([]byte(core.TemplateCSV()))
}
