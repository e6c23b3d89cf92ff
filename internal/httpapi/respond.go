// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rosterd/rosterd/pkg/errutil"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// writeJSON marshals v and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}

// writeError maps a service error onto an HTTP status via its error
// code and writes the JSON error body. Unrecognized errors become 500
// with a generic message so internals never leak to clients.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForCode(errutil.Code(err))
	if status == http.StatusInternalServerError {
		errutil.LogError(slog.Default(), "request failed", err)
		writeJSON(w, status, errorBody{Error: "internal server error"})
		return
	}
	slog.Debug("request rejected",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", err,
	)
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// statusForCode translates service error codes into HTTP status codes.
func statusForCode(code string) int {
	switch code {
	case "REQUEST_INVALID", "USER_WEAK_PASSWORD", "USER_INVALID_NAME", "USER_INVALID_STATUS", "USER_INACTIVE_RENAME":
		return http.StatusBadRequest
	case "AUTH_INVALID_CREDENTIALS", "SESSION_MISSING_TOKEN", "SESSION_INVALID", "SESSION_TERMINATED":
		return http.StatusUnauthorized
	case "USER_INACTIVE", "USER_SELF_DEACTIVATE", "USER_SELF_DELETE":
		return http.StatusForbidden
	case "USER_NOT_FOUND", "SESSION_NOT_FOUND":
		return http.StatusNotFound
	case "USER_CONFLICT":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
