// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/oops"

	"github.com/rosterd/rosterd/internal/account"
	"github.com/rosterd/rosterd/internal/observability"
)

// whoAmIResponse is the GET /sessions/me body. User is null when the
// session's owner has since been deleted.
type whoAmIResponse struct {
	ID     string           `json:"id"`
	UserID string           `json:"userId"`
	User   *account.UserDTO `json:"user"`
}

// SessionsHandler serves session introspection and termination. All of
// its routes sit behind the session guard.
type SessionsHandler struct {
	sessions *account.SessionService
	users    *account.UserService
	metrics  *observability.Metrics
}

// NewSessionsHandler creates the sessions handler. metrics may be nil
// when the observability server is disabled.
func NewSessionsHandler(sessions *account.SessionService, users *account.UserService, metrics *observability.Metrics) (*SessionsHandler, error) {
	if sessions == nil {
		return nil, oops.Errorf("session service is required")
	}
	if users == nil {
		return nil, oops.Errorf("user service is required")
	}
	return &SessionsHandler{sessions: sessions, users: users, metrics: metrics}, nil
}

// Me handles GET /sessions/me: reflects the authenticated session and
// its owning user back to the caller.
func (h *SessionsHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, whoAmIResponse{
		ID:     SessionID(r.Context()),
		UserID: userID.String(),
		User:   user,
	})
}

// Terminate handles PATCH /sessions/{id}/terminate. Terminating an
// already-terminated session is a no-op and returns the original
// termination time.
func (h *SessionsHandler) Terminate(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	session, err := h.sessions.Terminate(r.Context(), sessionID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.SessionsTerminatedTotal.Inc()
	}
	writeJSON(w, http.StatusOK, session)
}

// healthResponse is the GET /health body.
type healthResponse struct {
	OK   bool      `json:"ok"`
	Time time.Time `json:"time"`
}

// Health handles GET /health. It is unguarded.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{OK: true, Time: time.Now().UTC()})
}
