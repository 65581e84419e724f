package web

import (
	"errors"
	"net/http"

	"github.com/adiwjy/catatrack/internal/logging"
)

// errConfirmRequired gates the irreversible endpoints. Clients must send
// ?confirm=true after showing the user a confirmation prompt.
var errConfirmRequired = errors.New("confirmation required: pass confirm=true")

// confirmed reports whether the request carries the confirm=true gate.
func confirmed(r *http.Request) bool {
	return r.URL.Query().Get("confirm") == "true"
}

// handleToggleSold flips a record between SOLD and UNSOLD and reports the
// flip. A status-log append failure does not undo the committed flip; it is
// surfaced in the response instead.
func (s *Server) handleToggleSold(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	id, err := recordID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	outcome, err := s.service.ToggleSold(r.Context(), actor, id)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	resp := map[string]interface{}{
		"record":   outcome.Record,
		"previous": outcome.Previous,
	}
	if outcome.LogErr != nil {
		logging.WithActor(r.Context(), actor).Warn("status log append failed",
			"record_id", id, "error", outcome.LogErr)
		resp["logWarning"] = "status change saved but could not be logged"
	}
	writeJSON(w, resp)
}

// handleMarkExpired persists EXPIRED on an unsold record whose expiry passed.
func (s *Server) handleMarkExpired(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	id, err := recordID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.service.MarkExpired(r.Context(), actor, id); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, map[string]string{"status": "expired"})
}

// handleSoftDelete moves a record to the trash.
func (s *Server) handleSoftDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	id, err := recordID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if !confirmed(r) {
		s.respondError(w, r, errConfirmRequired, http.StatusBadRequest)
		return
	}

	if err := s.service.SoftDelete(r.Context(), actor, id); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, map[string]string{"status": "trashed"})
}

// handleRestore brings a trashed record back into the active listing.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	id, err := recordID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.service.Restore(r.Context(), actor, id); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, map[string]string{"status": "restored"})
}

// handleHardDelete permanently removes a record. Irreversible.
func (s *Server) handleHardDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	id, err := recordID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if !confirmed(r) {
		s.respondError(w, r, errConfirmRequired, http.StatusBadRequest)
		return
	}

	if err := s.service.HardDelete(r.Context(), actor, id); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	logging.WithActor(r.Context(), actor).Info("record permanently deleted", "record_id", id)
	writeJSON(w, map[string]string{"status": "deleted"})
}

// handleListTrash returns the actor's soft-deleted records, most recently
// deleted first.
func (s *Server) handleListTrash(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	recs, err := s.service.ListTrash(r.Context(), actor.ID, r.URL.Query().Get("search"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, map[string]interface{}{
		"records": recs,
		"count":   len(recs),
	})
}

// handleRestoreAll restores every record in the actor's trash.
func (s *Server) handleRestoreAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	restored, err := s.service.RestoreAll(r.Context(), actor)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, map[string]int{"restored": restored})
}

// handleEmptyTrash permanently removes every record in the actor's trash.
func (s *Server) handleEmptyTrash(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}
	if !confirmed(r) {
		s.respondError(w, r, errConfirmRequired, http.StatusBadRequest)
		return
	}

	deleted, err := s.service.EmptyTrash(r.Context(), actor)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	logging.WithActor(r.Context(), actor).Info("trash emptied", "deleted", deleted)
	writeJSON(w, map[string]int{"deleted": deleted})
}
