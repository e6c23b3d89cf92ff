// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

// Package mocks provides testify mocks for the account repositories.
package mocks

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/mock"

	"github.com/rosterd/rosterd/internal/account"
)

// MockUserRepository is a mock implementation of account.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a new MockUserRepository that asserts its
// expectations at test cleanup.
func NewMockUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUserRepository) Create(ctx context.Context, user *account.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id ulid.ULID) (*account.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*account.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByName(ctx context.Context, firstName, lastName string) (*account.User, error) {
	args := m.Called(ctx, firstName, lastName)
	if u, ok := args.Get(0).(*account.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, page, limit int) ([]*account.User, int, error) {
	args := m.Called(ctx, page, limit)
	users, _ := args.Get(0).([]*account.User)
	return users, args.Int(1), args.Error(2)
}

func (m *MockUserRepository) Update(ctx context.Context, user *account.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id ulid.ULID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSessionRepository is a mock implementation of account.SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

// NewMockSessionRepository creates a new MockSessionRepository that asserts
// its expectations at test cleanup.
func NewMockSessionRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSessionRepository {
	m := &MockSessionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSessionRepository) Create(ctx context.Context, session *account.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id string) (*account.Session, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*account.Session); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionRepository) Update(ctx context.Context, session *account.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// Compile-time interface checks.
var (
	_ account.UserRepository    = (*MockUserRepository)(nil)
	_ account.SessionRepository = (*MockSessionRepository)(nil)
)
