// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

package account

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Status is the lifecycle state of a User.
type Status string

// Valid user statuses.
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Name length constraints.
const (
	MinNameLength = 1
	MaxNameLength = 80
)

// ValidateName validates a first or last name against length rules.
func ValidateName(name string) error {
	if len(name) < MinNameLength {
		return oops.Code("USER_INVALID_NAME").Errorf("name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return oops.Code("USER_INVALID_NAME").
			With("max", MaxNameLength).
			Errorf("name must be at most %d characters", MaxNameLength)
	}
	return nil
}

// User represents a user account. The (FirstName, LastName) pair is unique
// across all users, enforced by the storage layer.
type User struct {
	ID            ulid.ULID
	FirstName     string
	LastName      string
	Status        Status
	LoginsCounter int
	Credentials   Credentials
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewUser creates a User with a zero logins counter and both timestamps
// set to now. CreatedAt never changes afterwards.
func NewUser(id ulid.ULID, firstName, lastName string, status Status, credentials Credentials, now time.Time) *User {
	return &User{
		ID:            id,
		FirstName:     firstName,
		LastName:      lastName,
		Status:        status,
		LoginsCounter: 0,
		Credentials:   credentials,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Patch describes a partial update to a User. Nil fields are left
// unchanged.
type Patch struct {
	FirstName *string
	LastName  *string
	Status    *Status
}

// touchesName reports whether the patch modifies FirstName or LastName.
func (p Patch) touchesName() bool {
	return p.FirstName != nil || p.LastName != nil
}

// reactivates reports whether the patch transitions the user to active.
func (p Patch) reactivates() bool {
	return p.Status != nil && *p.Status == StatusActive
}

// Update applies the patch and refreshes UpdatedAt. An inactive user
// cannot be renamed unless the same patch also sets the status to active.
func (u *User) Update(p Patch, now time.Time) error {
	if u.Status == StatusInactive && p.touchesName() && !p.reactivates() {
		return ErrInactiveRename
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	u.UpdatedAt = now
	return nil
}

// IsActive reports whether the user is in the active status.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// EnsureCanCreateSession returns ErrInactiveUser unless the user is
// active. Callers must check this before every session issuance.
func (u *User) EnsureCanCreateSession() error {
	if !u.IsActive() {
		return ErrInactiveUser
	}
	return nil
}

// RecordLogin increments the logins counter and refreshes UpdatedAt.
// Called exactly once per successful sign-in or sign-up, after
// authentication succeeds and before the session is created.
func (u *User) RecordLogin(now time.Time) {
	u.LoginsCounter++
	u.UpdatedAt = now
}

// UserRepository manages user persistence. Implementations translate rows
// to and from the User entity, rebuilding Credentials from the stored
// hash on read and asking Credentials for its hash on write.
type UserRepository interface {
	// Create stores a new user. Returns ErrDuplicateName if the first/last
	// name pair is already taken.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByName retrieves a user by the exact first/last name pair.
	// Returns ErrNotFound if absent.
	GetByName(ctx context.Context, firstName, lastName string) (*User, error)

	// List returns one page of users ordered most-recently-created first,
	// plus the total user count.
	List(ctx context.Context, page, limit int) ([]*User, int, error)

	// Update updates an existing user. Returns ErrNotFound if absent.
	Update(ctx context.Context, user *User) error

	// Delete hard-deletes a user; sessions cascade at the storage layer.
	// Returns ErrNotFound if no row was deleted.
	Delete(ctx context.Context, id ulid.ULID) error
}
