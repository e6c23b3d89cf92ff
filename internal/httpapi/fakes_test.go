// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

package httpapi_test

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/rosterd/rosterd/internal/account"
)

// memUserRepo is an in-memory account.UserRepository for handler tests.
// It mirrors the storage contract: duplicate name pairs conflict, reads
// return copies, and listing is most-recently-created first.
type memUserRepo struct {
	mu    sync.Mutex
	users []*account.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{}
}

func (r *memUserRepo) Create(_ context.Context, user *account.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.FirstName == user.FirstName && u.LastName == user.LastName {
			return account.ErrDuplicateName
		}
	}
	clone := *user
	r.users = append(r.users, &clone)
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id ulid.ULID) (*account.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, account.ErrNotFound
}

func (r *memUserRepo) GetByName(_ context.Context, firstName, lastName string) (*account.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.FirstName == firstName && u.LastName == lastName {
			clone := *u
			return &clone, nil
		}
	}
	return nil, account.ErrNotFound
}

func (r *memUserRepo) List(_ context.Context, page, limit int) ([]*account.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := len(r.users)

	// Newest first: iterate the insertion order backwards
	reversed := make([]*account.User, 0, total)
	for i := total - 1; i >= 0; i-- {
		clone := *r.users[i]
		reversed = append(reversed, &clone)
	}

	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return reversed[start:end], total, nil
}

func (r *memUserRepo) Update(_ context.Context, user *account.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == user.ID {
			clone := *user
			r.users[i] = &clone
			return nil
		}
	}
	return account.ErrNotFound
}

func (r *memUserRepo) Delete(_ context.Context, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return account.ErrNotFound
}

// memSessionRepo is an in-memory account.SessionRepository.
type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*account.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*account.Session)}
}

func (r *memSessionRepo) Create(_ context.Context, session *account.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *session
	r.sessions[session.ID] = &clone
	return nil
}

func (r *memSessionRepo) GetByID(_ context.Context, id string) (*account.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, account.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *memSessionRepo) Update(_ context.Context, session *account.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; !ok {
		return account.ErrNotFound
	}
	clone := *session
	r.sessions[session.ID] = &clone
	return nil
}

// Compile-time interface checks.
var (
	_ account.UserRepository    = (*memUserRepo)(nil)
	_ account.SessionRepository = (*memSessionRepo)(nil)
)
