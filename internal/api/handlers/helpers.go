package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/campus-events/server/internal/api/problem"
	"github.com/campus-events/server/internal/domain/events"
	"github.com/campus-events/server/internal/domain/feedback"
	"github.com/campus-events/server/internal/domain/users"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func pathParam(r *http.Request, key string) string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.PathValue(key))
}

func decodeJSON(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeDomainError maps domain sentinels onto the API's problem taxonomy.
// Anything unrecognized is a 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, env string) {
	var eventsValidation events.ValidationError
	var usersValidation users.ValidationError
	var feedbackValidation feedback.ValidationError

	switch {
	case errors.As(err, &eventsValidation), errors.As(err, &usersValidation), errors.As(err, &feedbackValidation):
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, env)
	case errors.Is(err, events.ErrNotRegistered):
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, env)
	case errors.Is(err, events.ErrWrongAnswer):
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", err, env)
	case errors.Is(err, events.ErrNotFound),
		errors.Is(err, users.ErrNotFound), errors.Is(err, feedback.ErrEventNotFound):
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not found", err, env)
	case errors.Is(err, events.ErrNotApproved), errors.Is(err, events.ErrNoQuestion):
		problem.Write(w, r, http.StatusConflict, problem.TypeInvalidState, "Invalid state", err, env)
	case errors.Is(err, events.ErrAlreadyRegistered), errors.Is(err, events.ErrAlreadyAttended),
		errors.Is(err, users.ErrEmailTaken):
		problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Conflict", err, env)
	case errors.Is(err, users.ErrInvalidCredentials):
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthorized", err, env)
	default:
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, env)
	}
}
