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

// SessionService issues and terminates sessions.
type SessionService struct {
	sessions SessionRepository
	now      func() time.Time
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessions SessionRepository) (*SessionService, error) {
	if sessions == nil {
		return nil, oops.Errorf("sessions repository is required")
	}
	return &SessionService{
		sessions: sessions,
		now:      time.Now,
	}, nil
}

// Create builds a new session with a fresh unguessable ID bound to userID,
// persists it, and returns its DTO. Pure creation: it does not consult
// user state. Callers are responsible for checking
// User.EnsureCanCreateSession beforehand.
func (s *SessionService) Create(ctx context.Context, userID ulid.ULID) (*SessionDTO, error) {
	token, err := NewSessionToken()
	if err != nil {
		return nil, oops.Code("SESSION_CREATE_FAILED").
			With("operation", "generate session token").
			Wrap(err)
	}

	session, err := NewSession(token, userID, s.now())
	if err != nil {
		return nil, oops.Code("SESSION_CREATE_FAILED").
			With("operation", "build session").
			Wrap(err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, oops.Code("SESSION_CREATE_FAILED").
			With("operation", "persist session").
			With("user_id", userID.String()).
			Wrap(err)
	}

	dto := ToSessionDTO(session)
	return &dto, nil
}

// Terminate terminates the session and persists the result. Terminating
// an already-terminated session has no additional effect and does not
// error; the DTO reflects the original termination time.
func (s *SessionService) Terminate(ctx context.Context, sessionID string) (*SessionDTO, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("SESSION_NOT_FOUND").Wrap(err)
		}
		return nil, oops.Code("SESSION_TERMINATE_FAILED").
			With("operation", "get session by id").
			Wrap(err)
	}

	session.Terminate(s.now())

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, oops.Code("SESSION_TERMINATE_FAILED").
			With("operation", "persist session").
			Wrap(err)
	}

	dto := ToSessionDTO(session)
	return &dto, nil
}
