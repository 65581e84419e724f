package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adiwjy/catatrack/internal/core"
	"github.com/adiwjy/catatrack/internal/csv"
)

// errBadRecordID is returned when the path parameter is not a UUID.
var errBadRecordID = errors.New("record id is not a valid UUID")

// errBadDate is returned when an expiry date is not one of the accepted
// calendar shapes (YYYY-MM-DD, DD/MM/YYYY or DD-MM-YYYY).
var errBadDate = errors.New("expiresAt is not a recognized date")

// recordID parses the {id} path parameter.
func recordID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errBadRecordID
	}
	return id, nil
}

// parseExpiry converts an optional date string into an end-of-day timestamp.
// Empty input means no expiry.
func parseExpiry(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t := csv.ParseCalendarDate(raw)
	if t == nil {
		return nil, errBadDate
	}
	return t, nil
}

// handleListRecords returns the actor's active records with effective
// statuses, filtered and ordered per query parameters.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	views, err := s.service.ListRecords(r.Context(), actor.ID, core.ListOptions{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Order:  core.SortOrder(q.Get("order")),
	})
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, map[string]interface{}{
		"records": views,
		"count":   len(views),
	})
}

// handleCreateRecord inserts a single manually entered record.
func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	var req struct {
		ContactEmail string `json:"contactEmail"`
		Description  string `json:"description"`
		ExpiresAt    string `json:"expiresAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	expiry, err := parseExpiry(req.ExpiresAt)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	if err := s.service.CreateRecord(r.Context(), actor, req.ContactEmail, req.Description, expiry); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]string{"status": "created"})
}

// handleUpdateRecord applies a partial edit to a record's mutable fields.
// Absent fields are left unchanged; clearExpiry removes the expiry entirely.
func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	id, err := recordID(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	var req struct {
		ContactEmail *string `json:"contactEmail"`
		Description  *string `json:"description"`
		ExpiresAt    *string `json:"expiresAt"`
		ClearExpiry  bool    `json:"clearExpiry"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	params := core.UpdateParams{
		ContactEmail: req.ContactEmail,
		Description:  req.Description,
		ClearExpiry:  req.ClearExpiry,
	}
	if req.ExpiresAt != nil {
		expiry, err := parseExpiry(*req.ExpiresAt)
		if err != nil {
			s.respondError(w, r, err, http.StatusBadRequest)
			return
		}
		params.ExpiresAt = expiry
	}

	if err := s.service.UpdateRecord(r.Context(), actor, id, params); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, map[string]string{"status": "updated"})
}
