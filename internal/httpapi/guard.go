// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/rosterd/rosterd/internal/account"
)

// SessionHeader is the request header carrying the opaque session token.
const SessionHeader = "x-session-id"

// ctxKey is a private type for request context keys.
type ctxKey int

const (
	ctxKeySessionID ctxKey = iota
	ctxKeyUserID
)

// SessionID returns the authenticated session ID from the request
// context, or "" if the request did not pass the session guard.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeySessionID).(string)
	return id
}

// UserID returns the authenticated user ID from the request context.
// The zero ULID means the request did not pass the session guard.
func UserID(ctx context.Context) ulid.ULID {
	id, _ := ctx.Value(ctxKeyUserID).(ulid.ULID)
	return id
}

// SessionGuard authenticates requests by resolving the session token
// header against the session store.
type SessionGuard struct {
	sessions account.SessionRepository
}

// NewSessionGuard creates a guard backed by the given session store.
func NewSessionGuard(sessions account.SessionRepository) (*SessionGuard, error) {
	if sessions == nil {
		return nil, oops.Errorf("session repository is required")
	}
	return &SessionGuard{sessions: sessions}, nil
}

// Middleware rejects requests without a valid, active session. On
// success the session and user IDs are attached to the request context.
func (g *SessionGuard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(SessionHeader)
		if token == "" {
			writeError(w, r, oops.
				Code("SESSION_MISSING_TOKEN").
				Errorf("missing %s header", SessionHeader))
			return
		}

		session, err := g.sessions.GetByID(r.Context(), token)
		if err != nil {
			if errors.Is(err, account.ErrNotFound) {
				// Unknown tokens get the same 401 shape as missing
				// ones so probing reveals nothing about the store.
				writeError(w, r, oops.
					Code("SESSION_INVALID").
					Errorf("invalid session"))
				return
			}
			writeError(w, r, err)
			return
		}

		if err := session.EnsureActive(); err != nil {
			writeError(w, r, oops.
				Code("SESSION_TERMINATED").
				Errorf("Session terminated."))
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeySessionID, session.ID)
		ctx = context.WithValue(ctx, ctxKeyUserID, session.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
