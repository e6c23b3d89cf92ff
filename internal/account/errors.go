// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

package account

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateName is returned when a user with the same first/last name
// pair already exists. Repository implementations translate the storage
// uniqueness violation into this error, so concurrent sign-up races
// surface it for the loser as well.
var ErrDuplicateName = errors.New("user already exists")

// Domain rule violations. These form a closed set per entity; services
// match them with errors.Is and translate them into client-facing error
// codes rather than relying on runtime type identity.
var (
	// ErrWeakPassword is returned by NewCredentials for passwords shorter
	// than MinPasswordLength.
	ErrWeakPassword = errors.New("password must be at least 6 characters")

	// ErrInactiveRename is returned by User.Update when a patch renames an
	// inactive user without simultaneously reactivating it.
	ErrInactiveRename = errors.New("first and last name cannot be updated while the user is inactive")

	// ErrInactiveUser is returned by User.EnsureCanCreateSession for users
	// that are not active.
	ErrInactiveUser = errors.New("inactive users cannot create sessions")

	// ErrSessionTerminated is returned by Session.EnsureActive once the
	// session has been terminated.
	ErrSessionTerminated = errors.New("session terminated")
)
