package web

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/adiwjy/catatrack/internal/core"
)

// Actor identity headers. Authentication itself lives in front of this
// service; these headers are set by the gateway after it verifies the user.
const (
	headerActorID    = "X-Actor-ID"
	headerActorEmail = "X-Actor-Email"
)

// errBadActorID is returned when the actor header is present but not a UUID.
var errBadActorID = errors.New("X-Actor-ID is not a valid UUID")

// actorFromRequest extracts the acting user from request headers. A missing
// header yields a zero Actor, which the service layer rejects with
// ErrAuthRequired on mutations.
func actorFromRequest(r *http.Request) (core.Actor, error) {
	raw := r.Header.Get(headerActorID)
	if raw == "" {
		return core.Actor{}, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return core.Actor{}, errBadActorID
	}

	return core.Actor{
		ID:    id,
		Email: r.Header.Get(headerActorEmail),
	}, nil
}

// requireActor extracts the actor and writes an error response when the
// identity is absent or malformed. The bool reports whether the handler
// should continue.
func (s *Server) requireActor(w http.ResponseWriter, r *http.Request) (core.Actor, bool) {
	actor, err := actorFromRequest(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return core.Actor{}, false
	}
	if actor.IsZero() {
		s.respondError(w, r, core.ErrAuthRequired, http.StatusUnauthorized)
		return core.Actor{}, false
	}
	return actor, true
}
