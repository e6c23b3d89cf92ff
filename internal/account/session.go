// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// SessionTokenBytes is the entropy of a session ID. The ID doubles as the
// opaque bearer token presented by clients, so it must be unguessable.
const SessionTokenBytes = 32 // 32 bytes = 64 hex chars

// Session is an opaque bearer token record granting an authenticated
// identity until explicitly terminated. Sessions do not expire; they end
// only through Terminate. UserID is a non-owning reference: deleting the
// user cascades deletion of its sessions at the storage layer.
type Session struct {
	ID           string
	UserID       ulid.ULID
	CreatedAt    time.Time
	TerminatedAt *time.Time
}

// NewSession creates a validated Session bound to a user.
func NewSession(id string, userID ulid.ULID, now time.Time) (*Session, error) {
	if id == "" {
		return nil, oops.Code("SESSION_INVALID_ID").Errorf("session ID cannot be empty")
	}
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID cannot be zero")
	}
	return &Session{
		ID:           id,
		UserID:       userID,
		CreatedAt:    now,
		TerminatedAt: nil,
	}, nil
}

// NewSessionToken creates a secure random session ID.
func NewSessionToken() (string, error) {
	tokenBytes := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", oops.Code("SESSION_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", SessionTokenBytes).
			Wrap(err)
	}
	return hex.EncodeToString(tokenBytes), nil
}

// IsActive reports whether the session has not been terminated.
func (s *Session) IsActive() bool {
	return s.TerminatedAt == nil
}

// EnsureActive returns ErrSessionTerminated if the session has been
// terminated. A terminated session must never authenticate a request.
func (s *Session) EnsureActive() error {
	if !s.IsActive() {
		return ErrSessionTerminated
	}
	return nil
}

// Terminate marks the session terminated at now. Termination is
// first-write-wins: once TerminatedAt is set it never changes, and
// terminating again is a no-op.
func (s *Session) Terminate(now time.Time) {
	if s.TerminatedAt != nil {
		return
	}
	s.TerminatedAt = &now
}

// SessionRepository manages session persistence.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// GetByID retrieves a session by its ID (the bearer token).
	// Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*Session, error)

	// Update updates an existing session. Returns ErrNotFound if absent.
	Update(ctx context.Context, session *Session) error
}
