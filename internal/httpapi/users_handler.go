// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/rosterd/rosterd/internal/account"
)

// UsersHandler serves the administrative user CRUD endpoints. All of
// its routes sit behind the session guard.
type UsersHandler struct {
	users *account.UserService
}

// NewUsersHandler creates the user management handler.
func NewUsersHandler(users *account.UserService) (*UsersHandler, error) {
	if users == nil {
		return nil, oops.Errorf("user service is required")
	}
	return &UsersHandler{users: users}, nil
}

// Create handles POST /users. Unlike sign-up it does not count a login
// and does not open a session.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, oops.Code("REQUEST_INVALID").Wrap(err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	status := account.Status(req.Status)
	user, err := h.users.Create(r.Context(), req.FirstName, req.LastName, req.Password, status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// List handles GET /users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := parsePagination(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.users.List(r.Context(), page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Update handles PATCH /users/{id}. A user may not deactivate their
// own account through this endpoint.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, oops.Code("REQUEST_INVALID").Wrap(err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	if req.Status != nil && account.Status(*req.Status) == account.StatusInactive && id == UserID(r.Context()) {
		writeError(w, r, oops.
			Code("USER_SELF_DEACTIVATE").
			Errorf("cannot deactivate own account"))
		return
	}

	user, err := h.users.Update(r.Context(), id, req.patch())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /users/{id}. A user may not delete their own
// account.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if id == UserID(r.Context()) {
		writeError(w, r, oops.
			Code("USER_SELF_DELETE").
			Errorf("cannot delete own account"))
		return
	}

	if err := h.users.Remove(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} path parameter as a ULID.
func pathID(r *http.Request) (ulid.ULID, error) {
	raw := chi.URLParam(r, "id")
	id, err := ulid.Parse(raw)
	if err != nil {
		return ulid.ULID{}, oops.
			Code("USER_NOT_FOUND").
			With("id", raw).
			Errorf("user not found")
	}
	return id, nil
}
