// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

package httpapi

import (
	"net/http"
	"strconv"

	"github.com/samber/oops"

	"github.com/rosterd/rosterd/internal/account"
)

// Password length bounds enforced at the boundary. The domain only
// enforces the minimum; the cap keeps hashing cost bounded.
const (
	MinPasswordLength = account.MinPasswordLength
	MaxPasswordLength = 200
)

// Pagination bounds for user listing.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 50
)

type credentialsRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

func (req *credentialsRequest) validate() error {
	if err := account.ValidateName(req.FirstName); err != nil {
		return oops.With("field", "firstName").Wrap(err)
	}
	if err := account.ValidateName(req.LastName); err != nil {
		return oops.With("field", "lastName").Wrap(err)
	}
	return validatePassword(req.Password)
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return oops.
			Code("USER_WEAK_PASSWORD").
			With("min", MinPasswordLength).
			With("max", MaxPasswordLength).
			Wrap(account.ErrWeakPassword)
	}
	return nil
}

type createUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
	Status    string `json:"status,omitempty"`
}

func (req *createUserRequest) validate() error {
	cr := credentialsRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	}
	if err := cr.validate(); err != nil {
		return err
	}
	if req.Status != "" && !account.Status(req.Status).Valid() {
		return oops.
			Code("USER_INVALID_STATUS").
			With("status", req.Status).
			Errorf("status must be %q or %q", account.StatusActive, account.StatusInactive)
	}
	return nil
}

type updateUserRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Status    *string `json:"status,omitempty"`
}

func (req *updateUserRequest) validate() error {
	if req.FirstName != nil {
		if err := account.ValidateName(*req.FirstName); err != nil {
			return oops.With("field", "firstName").Wrap(err)
		}
	}
	if req.LastName != nil {
		if err := account.ValidateName(*req.LastName); err != nil {
			return oops.With("field", "lastName").Wrap(err)
		}
	}
	if req.Status != nil && !account.Status(*req.Status).Valid() {
		return oops.
			Code("USER_INVALID_STATUS").
			With("status", *req.Status).
			Errorf("status must be %q or %q", account.StatusActive, account.StatusInactive)
	}
	return nil
}

// patch converts the request into a domain patch.
func (req *updateUserRequest) patch() account.Patch {
	p := account.Patch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.Status != nil {
		status := account.Status(*req.Status)
		p.Status = &status
	}
	return p
}

// parsePagination reads page and limit query parameters, applying the
// defaults and bounds the listing endpoint documents.
func parsePagination(r *http.Request) (page, limit int, err error) {
	page = 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, oops.
				Code("REQUEST_INVALID").
				Errorf("page must be a positive integer")
		}
	}

	limit = DefaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxPageLimit {
			return 0, 0, oops.
				Code("REQUEST_INVALID").
				Errorf("limit must be between 1 and %d", MaxPageLimit)
		}
	}

	return page, limit, nil
}
