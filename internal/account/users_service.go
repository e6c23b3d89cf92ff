// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

package account

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// UserService provides administrative user CRUD. Unlike AuthService.SignUp,
// Create neither records a login nor issues a session.
type UserService struct {
	users UserRepository
	now   func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(users UserRepository) (*UserService, error) {
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	return &UserService{
		users: users,
		now:   time.Now,
	}, nil
}

// Create registers a user administratively. Status defaults to active when
// empty. Returns USER_CONFLICT if the name pair is already taken.
func (s *UserService) Create(ctx context.Context, firstName, lastName, password string, status Status) (*UserDTO, error) {
	if status == "" {
		status = StatusActive
	}
	if !status.Valid() {
		return nil, oops.Code("USER_INVALID_STATUS").
			With("status", string(status)).
			Errorf("status must be active or inactive")
	}

	_, err := s.users.GetByName(ctx, firstName, lastName)
	if err == nil {
		return nil, oops.Code("USER_CONFLICT").
			With("first_name", firstName).
			With("last_name", lastName).
			Wrap(ErrDuplicateName)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("USER_CREATE_FAILED").
			With("operation", "get user by name").
			Wrap(err)
	}

	credentials, err := NewCredentials(password)
	if err != nil {
		return nil, err
	}

	user := NewUser(ulid.Make(), firstName, lastName, status, credentials, s.now())

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return nil, oops.Code("USER_CONFLICT").
				With("first_name", firstName).
				With("last_name", lastName).
				Wrap(err)
		}
		return nil, oops.Code("USER_CREATE_FAILED").
			With("operation", "persist user").
			Wrap(err)
	}

	dto := ToUserDTO(user)
	return &dto, nil
}

// List returns one page of users ordered most-recently-created first,
// echoing page and limit back for client pagination math.
func (s *UserService) List(ctx context.Context, page, limit int) (*UserPage, error) {
	users, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, oops.Code("USER_LIST_FAILED").
			With("operation", "list users").
			With("page", page).
			With("limit", limit).
			Wrap(err)
	}

	items := make([]UserDTO, 0, len(users))
	for _, u := range users {
		items = append(items, ToUserDTO(u))
	}

	return &UserPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// Update applies a patch to a user. Renaming an inactive user without
// simultaneously reactivating it fails with USER_INACTIVE_RENAME, a
// client-facing bad request.
func (s *UserService) Update(ctx context.Context, id ulid.ULID, patch Patch) (*UserDTO, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("USER_NOT_FOUND").
				With("id", id.String()).
				Wrap(err)
		}
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "get user by id").
			With("id", id.String()).
			Wrap(err)
	}

	if err := user.Update(patch, s.now()); err != nil {
		return nil, oops.Code("USER_INACTIVE_RENAME").Wrap(err)
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return nil, oops.Code("USER_CONFLICT").
				With("first_name", user.FirstName).
				With("last_name", user.LastName).
				Wrap(err)
		}
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "persist user").
			With("id", id.String()).
			Wrap(err)
	}

	dto := ToUserDTO(user)
	return &dto, nil
}

// Remove hard-deletes a user; its sessions cascade at the storage layer.
// The delete's affected-row count is the success signal.
func (s *UserService) Remove(ctx context.Context, id ulid.ULID) error {
	err := s.users.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("USER_NOT_FOUND").
				With("id", id.String()).
				Wrap(err)
		}
		return oops.Code("USER_DELETE_FAILED").
			With("operation", "delete user").
			With("id", id.String()).
			Wrap(err)
	}
	return nil
}

// Get returns the user, or (nil, nil) when it genuinely does not exist.
// Storage faults are reported as lookup failures, not absence.
func (s *UserService) Get(ctx context.Context, id ulid.ULID) (*UserDTO, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, oops.Code("USER_LOOKUP_FAILED").
			With("operation", "get user by id").
			With("id", id.String()).
			Wrap(err)
	}

	dto := ToUserDTO(user)
	return &dto, nil
}
