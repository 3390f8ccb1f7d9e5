// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON admin API: authentication, the
// dashboard, and the per-vertical item, unit, and material endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"starbiz/internal/content"
	"starbiz/internal/media"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string               `json:"error"`
	Field  string               `json:"field,omitempty"`
	Fields []content.FieldError `json:"fields,omitempty"`
	Unit   any                  `json:"unit,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// invalid answers 422 for a single field that failed to parse.
func invalid(w http.ResponseWriter, field, msg string) {
	writeWorkflowError(w, &content.ValidationError{
		Fields: []content.FieldError{{Field: field, Error: msg}},
	})
}

// statusOf maps a workflow error to its HTTP status.
func statusOf(err error) int {
	var (
		verr *content.ValidationError
		uerr *content.UploadError
		serr *content.StorageError
		perr *content.PersistenceError
		mbe  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &mbe), errors.Is(err, media.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadBody):
		return http.StatusBadRequest
	case errors.As(err, &uerr):
		return http.StatusBadRequest
	case errors.Is(err, content.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &serr):
		return http.StatusBadGateway
	case errors.As(err, &perr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// writeWorkflowError maps a workflow error to its JSON response. Persistence
// errors carry the raw backend message so the editor can report it.
func writeWorkflowError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), errorBodyOf(err))
}

func errorBodyOf(err error) errorBody {
	var (
		verr *content.ValidationError
		uerr *content.UploadError
		perr *content.PersistenceError
		serr *content.StorageError
	)
	switch {
	case errors.As(err, &verr):
		return errorBody{Error: "validation failed", Fields: verr.Fields}
	case errors.As(err, &uerr):
		return errorBody{Error: uerr.Err.Error(), Field: uerr.Field}
	case errors.Is(err, content.ErrNotFound):
		return errorBody{Error: "not found"}
	case errors.Is(err, errBadBody):
		slog.Warn("unreadable request body", "error", err)
		return errorBody{Error: errBadBody.Error()}
	case errors.As(err, &serr):
		slog.Error("storage failure", "op", serr.Op, "error", serr.Err)
		return errorBody{Error: serr.Error()}
	case errors.As(err, &perr):
		slog.Error("persistence failure", "op", perr.Op, "error", perr.Err)
		return errorBody{Error: perr.Error()}
	default:
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return errorBody{Error: "request body too large"}
		}
		slog.Error("unhandled workflow error", "error", err)
		return errorBody{Error: "internal server error"}
	}
}

// pathID parses a UUID URL parameter, answering 404 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return uuid.Nil, false
	}
	return id, true
}
