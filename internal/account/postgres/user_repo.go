// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/rosterd/rosterd/internal/account"
)

// UserRepository implements account.UserRepository using PostgreSQL.
type UserRepository struct {
	pool poolIface
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool poolIface) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create stores a new user. The UNIQUE (first_name, last_name) constraint
// resolves concurrent creation races; its violation surfaces as
// account.ErrDuplicateName.
func (r *UserRepository) Create(ctx context.Context, user *account.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, first_name, last_name, status, logins_counter, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		user.ID.String(),
		user.FirstName,
		user.LastName,
		string(user.Status),
		user.LoginsCounter,
		user.Credentials.Hash(),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("USER_CONFLICT").
				With("first_name", user.FirstName).
				With("last_name", user.LastName).
				Wrap(account.ErrDuplicateName)
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id ulid.ULID) (*account.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, status, logins_counter, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id.String())

	user, err := r.scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("id", id.String()).
			Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_ID_FAILED").
			With("operation", "get user by id").
			With("id", id.String()).
			Wrap(err)
	}
	return user, nil
}

// GetByName retrieves a user by the exact first/last name pair.
func (r *UserRepository) GetByName(ctx context.Context, firstName, lastName string) (*account.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, status, logins_counter, password_hash, created_at, updated_at
		FROM users
		WHERE first_name = $1 AND last_name = $2
	`, firstName, lastName)

	user, err := r.scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").Wrap(account.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_NAME_FAILED").
			With("operation", "get user by name").
			Wrap(err)
	}
	return user, nil
}

// List returns one page of users ordered most-recently-created first, plus
// the total count.
func (r *UserRepository) List(ctx context.Context, page, limit int) ([]*account.User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, oops.Code("USER_LIST_FAILED").
			With("operation", "count users").
			Wrap(err)
	}

	offset := (page - 1) * limit
	rows, err := r.pool.Query(ctx, `
		SELECT id, first_name, last_name, status, logins_counter, password_hash, created_at, updated_at
		FROM users
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, oops.Code("USER_LIST_FAILED").
			With("operation", "list users").
			Wrap(err)
	}
	defer rows.Close()

	var users []*account.User
	for rows.Next() {
		user, err := r.scanUserRow(rows)
		if err != nil {
			return nil, 0, oops.Code("USER_SCAN_FAILED").
				With("operation", "scan user row").
				Wrap(err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, oops.Code("USER_ROWS_ERROR").
			With("operation", "iterate user rows").
			Wrap(err)
	}

	return users, total, nil
}

// Update updates an existing user. created_at is never written after
// creation.
func (r *UserRepository) Update(ctx context.Context, user *account.User) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, status = $4, logins_counter = $5, password_hash = $6, updated_at = $7
		WHERE id = $1
	`,
		user.ID.String(),
		user.FirstName,
		user.LastName,
		string(user.Status),
		user.LoginsCounter,
		user.Credentials.Hash(),
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("USER_CONFLICT").
				With("first_name", user.FirstName).
				With("last_name", user.LastName).
				Wrap(account.ErrDuplicateName)
		}
		return oops.Code("USER_UPDATE_FAILED").
			With("operation", "update user").
			With("id", user.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("id", user.ID.String()).
			Wrap(account.ErrNotFound)
	}
	return nil
}

// Delete removes a user; the sessions foreign key cascades. The
// affected-row count is the success signal.
func (r *UserRepository) Delete(ctx context.Context, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM users WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("USER_DELETE_FAILED").
			With("operation", "delete user").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("id", id.String()).
			Wrap(account.ErrNotFound)
	}
	return nil
}

// scanUser scans a single row into a User.
// Callers are responsible for handling pgx.ErrNoRows.
func (r *UserRepository) scanUser(row pgx.Row) (*account.User, error) {
	var (
		idStr         string
		firstName     string
		lastName      string
		status        string
		loginsCounter int
		passwordHash  string
		createdAt     time.Time
		updatedAt     time.Time
	)

	err := row.Scan(&idStr, &firstName, &lastName, &status, &loginsCounter, &passwordHash, &createdAt, &updatedAt)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("USER_SCAN_FAILED").
			With("operation", "scan user").
			Wrap(err)
	}

	return r.buildUser(idStr, firstName, lastName, status, loginsCounter, passwordHash, createdAt, updatedAt)
}

// scanUserRow scans a row from a rows iterator into a User.
func (r *UserRepository) scanUserRow(rows pgx.Rows) (*account.User, error) {
	var (
		idStr         string
		firstName     string
		lastName      string
		status        string
		loginsCounter int
		passwordHash  string
		createdAt     time.Time
		updatedAt     time.Time
	)

	err := rows.Scan(&idStr, &firstName, &lastName, &status, &loginsCounter, &passwordHash, &createdAt, &updatedAt)
	if err != nil {
		return nil, oops.Code("USER_SCAN_FAILED").
			With("operation", "scan user row").
			Wrap(err)
	}

	return r.buildUser(idStr, firstName, lastName, status, loginsCounter, passwordHash, createdAt, updatedAt)
}

// buildUser constructs a User from scanned values, rebuilding Credentials
// from the stored hash.
func (r *UserRepository) buildUser(
	idStr, firstName, lastName, status string,
	loginsCounter int,
	passwordHash string,
	createdAt, updatedAt time.Time,
) (*account.User, error) {
	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("USER_INVALID_ID").
			With("operation", "parse user id").
			With("id", idStr).
			Wrap(err)
	}

	return &account.User{
		ID:            id,
		FirstName:     firstName,
		LastName:      lastName,
		Status:        account.Status(status),
		LoginsCounter: loginsCounter,
		Credentials:   account.CredentialsFromHash(passwordHash),
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

// Compile-time interface check.
var _ account.UserRepository = (*UserRepository)(nil)
