package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/greenmobilitypass/backend/internal/domain"
)

// errorResponse is the JSON error envelope shared by every endpoint.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes a JSON response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps a service error onto the HTTP status and error code the
// API contract promises. Unrecognized errors become an opaque 500 — the
// message is not leaked to the client.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeErrorBody(w, http.StatusNotFound, "not_found", unwrapMessage(err))
	case errors.Is(err, domain.ErrForbidden):
		writeErrorBody(w, http.StatusForbidden, "forbidden", unwrapMessage(err))
	case errors.Is(err, domain.ErrIllegalTransition):
		writeErrorBody(w, http.StatusBadRequest, "illegal_transition", unwrapMessage(err))
	case errors.Is(err, domain.ErrValidation):
		writeErrorBody(w, http.StatusBadRequest, "invalid_input", unwrapMessage(err))
	case errors.Is(err, domain.ErrUnauthorized):
		writeErrorBody(w, http.StatusUnauthorized, "unauthorized", unwrapMessage(err))
	default:
		writeErrorBody(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// writeBadRequest rejects a request before it reaches the service layer
// (malformed body, bad path parameter).
func writeBadRequest(w http.ResponseWriter, message string) {
	writeErrorBody(w, http.StatusBadRequest, "invalid_input", message)
}

// writeUnauthorized reports a missing or unusable identity.
func writeUnauthorized(w http.ResponseWriter, message string) {
	writeErrorBody(w, http.StatusUnauthorized, "unauthorized", message)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// unwrapMessage extracts the human-readable tail from a wrapped sentinel
// error, e.g. "service.JourneyService.Update: state transition not allowed:
// cannot update a validated journey" → "cannot update a validated journey".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []error{
		domain.ErrNotFound,
		domain.ErrForbidden,
		domain.ErrValidation,
		domain.ErrIllegalTransition,
		domain.ErrUnauthorized,
	} {
		name := sentinel.Error()
		i := strings.LastIndex(msg, name)
		if i < 0 {
			continue
		}
		// "…: <sentinel>: detail" → "detail"; a bare "…: <sentinel>" keeps
		// the sentinel text itself.
		if detail := strings.TrimPrefix(msg[i+len(name):], ": "); detail != "" {
			return detail
		}
		return name
	}
	return msg
}
