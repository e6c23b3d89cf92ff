// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

package httpapi

import (
	"net/http"

	"github.com/samber/oops"

	"github.com/rosterd/rosterd/internal/account"
	"github.com/rosterd/rosterd/internal/observability"
)

// AuthHandler serves the sign-up and sign-in endpoints.
type AuthHandler struct {
	auth    *account.AuthService
	metrics *observability.Metrics
}

// NewAuthHandler creates the authentication handler. metrics may be
// nil when the observability server is disabled.
func NewAuthHandler(auth *account.AuthService, metrics *observability.Metrics) (*AuthHandler, error) {
	if auth == nil {
		return nil, oops.Errorf("auth service is required")
	}
	return &AuthHandler{auth: auth, metrics: metrics}, nil
}

// SignUp handles POST /auth/signup.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, oops.Code("REQUEST_INVALID").Wrap(err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.auth.SignUp(r.Context(), req.FirstName, req.LastName, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.SignupsTotal.Inc()
	}
	writeJSON(w, http.StatusOK, result)
}

// SignIn handles POST /auth/signin.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, oops.Code("REQUEST_INVALID").Wrap(err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.auth.SignIn(r.Context(), req.FirstName, req.LastName, req.Password)
	if err != nil {
		if h.metrics != nil {
			h.metrics.SigninsTotal.WithLabelValues("failure").Inc()
		}
		writeError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.SigninsTotal.WithLabelValues("success").Inc()
	}
	writeJSON(w, http.StatusOK, result)
}
