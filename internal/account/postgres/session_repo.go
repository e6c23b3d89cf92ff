// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/rosterd/rosterd/internal/account"
)

// SessionRepository implements account.SessionRepository using PostgreSQL.
type SessionRepository struct {
	pool poolIface
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool poolIface) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create stores a new session.
func (r *SessionRepository) Create(ctx context.Context, session *account.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, created_at, terminated_at)
		VALUES ($1, $2, $3, $4)
	`,
		session.ID,
		session.UserID.String(),
		session.CreatedAt,
		session.TerminatedAt,
	)
	if err != nil {
		return oops.Code("SESSION_CREATE_FAILED").
			With("operation", "insert session").
			With("user_id", session.UserID.String()).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*account.Session, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, created_at, terminated_at
		FROM sessions
		WHERE id = $1
	`, id)

	session, err := r.scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SESSION_NOT_FOUND").Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SESSION_GET_BY_ID_FAILED").
			With("operation", "get session by id").
			Wrap(err)
	}
	return session, nil
}

// Update updates an existing session. Only terminated_at ever changes
// after creation, and only from null to a value.
func (r *SessionRepository) Update(ctx context.Context, session *account.Session) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE sessions SET terminated_at = $2
		WHERE id = $1
	`, session.ID, session.TerminatedAt)
	if err != nil {
		return oops.Code("SESSION_UPDATE_FAILED").
			With("operation", "update session").
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("SESSION_NOT_FOUND").Wrap(account.ErrNotFound)
	}
	return nil
}

// scanSession scans a single row into a Session.
// Callers are responsible for handling pgx.ErrNoRows.
func (r *SessionRepository) scanSession(row pgx.Row) (*account.Session, error) {
	var (
		id           string
		userIDStr    string
		createdAt    time.Time
		terminatedAt *time.Time
	)

	err := row.Scan(&id, &userIDStr, &createdAt, &terminatedAt)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("SESSION_SCAN_FAILED").
			With("operation", "scan session").
			Wrap(err)
	}

	userID, err := ulid.Parse(userIDStr)
	if err != nil {
		return nil, oops.Code("SESSION_INVALID_USER_ID").
			With("operation", "parse user id").
			With("user_id", userIDStr).
			Wrap(err)
	}

	return &account.Session{
		ID:           id,
		UserID:       userID,
		CreatedAt:    createdAt,
		TerminatedAt: terminatedAt,
	}, nil
}

// Compile-time interface check.
var _ account.SessionRepository = (*SessionRepository)(nil)
