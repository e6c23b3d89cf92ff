// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

//go:build integration

package account_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/rosterd/rosterd/internal/account"
)

var _ = Describe("User Repository", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		cleanupUsers(ctx, env.pool)
	})

	Describe("Create and Get", func() {
		It("round-trips a user through the database", func() {
			user := createTestUser("Ada", "Lovelace", account.StatusActive)
			Expect(env.Users.Create(ctx, user)).To(Succeed())

			got, err := env.Users.GetByID(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.FirstName).To(Equal("Ada"))
			Expect(got.LastName).To(Equal("Lovelace"))
			Expect(got.Status).To(Equal(account.StatusActive))
			Expect(got.LoginsCounter).To(Equal(0))

			ok, err := got.Credentials.Verify("integration-pass")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		It("finds users by their exact name pair", func() {
			user := createTestUser("Grace", "Hopper", account.StatusActive)
			Expect(env.Users.Create(ctx, user)).To(Succeed())

			got, err := env.Users.GetByName(ctx, "Grace", "Hopper")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(user.ID))

			_, err = env.Users.GetByName(ctx, "Grace", "Unknown")
			Expect(errors.Is(err, account.ErrNotFound)).To(BeTrue())
		})

		It("rejects a duplicate name pair", func() {
			Expect(env.Users.Create(ctx, createTestUser("Ada", "Lovelace", account.StatusActive))).To(Succeed())

			err := env.Users.Create(ctx, createTestUser("Ada", "Lovelace", account.StatusActive))
			Expect(errors.Is(err, account.ErrDuplicateName)).To(BeTrue())
		})

		It("returns ErrNotFound for a missing ID", func() {
			_, err := env.Users.GetByID(ctx, ulid.Make())
			Expect(errors.Is(err, account.ErrNotFound)).To(BeTrue())
		})
	})

	Describe("List", func() {
		It("pages users newest first", func() {
			for i := 0; i < 5; i++ {
				user := createTestUser("User", fmt.Sprintf("Number%d", i), account.StatusActive)
				user.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
				user.UpdatedAt = user.CreatedAt
				Expect(env.Users.Create(ctx, user)).To(Succeed())
			}

			users, total, err := env.Users.List(ctx, 1, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(5))
			Expect(users).To(HaveLen(3))
			Expect(users[0].LastName).To(Equal("Number4"))

			users, total, err = env.Users.List(ctx, 2, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(5))
			Expect(users).To(HaveLen(2))
			Expect(users[1].LastName).To(Equal("Number0"))
		})

		It("returns an empty page past the end", func() {
			Expect(env.Users.Create(ctx, createTestUser("Only", "One", account.StatusActive))).To(Succeed())

			users, total, err := env.Users.List(ctx, 9, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(1))
			Expect(users).To(BeEmpty())
		})
	})

	Describe("Update", func() {
		It("persists renames and status changes", func() {
			user := createTestUser("Old", "Name", account.StatusActive)
			Expect(env.Users.Create(ctx, user)).To(Succeed())

			Expect(user.Update(account.Patch{
				FirstName: ptr("New"),
				Status:    statusPtr(account.StatusInactive),
			}, time.Now().UTC())).To(Succeed())
			Expect(env.Users.Update(ctx, user)).To(Succeed())

			got, err := env.Users.GetByID(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.FirstName).To(Equal("New"))
			Expect(got.Status).To(Equal(account.StatusInactive))
		})

		It("rejects a rename onto an existing name pair", func() {
			Expect(env.Users.Create(ctx, createTestUser("Taken", "Name", account.StatusActive))).To(Succeed())
			user := createTestUser("Free", "Name", account.StatusActive)
			Expect(env.Users.Create(ctx, user)).To(Succeed())

			Expect(user.Update(account.Patch{FirstName: ptr("Taken")}, time.Now().UTC())).To(Succeed())
			err := env.Users.Update(ctx, user)
			Expect(errors.Is(err, account.ErrDuplicateName)).To(BeTrue())
		})

		It("persists the logins counter", func() {
			user := createTestUser("Login", "Counter", account.StatusActive)
			Expect(env.Users.Create(ctx, user)).To(Succeed())

			user.RecordLogin(time.Now().UTC())
			user.RecordLogin(time.Now().UTC())
			Expect(env.Users.Update(ctx, user)).To(Succeed())

			got, err := env.Users.GetByID(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.LoginsCounter).To(Equal(2))
		})
	})

	Describe("Delete", func() {
		It("removes the user", func() {
			user := createTestUser("To", "Delete", account.StatusActive)
			Expect(env.Users.Create(ctx, user)).To(Succeed())

			Expect(env.Users.Delete(ctx, user.ID)).To(Succeed())

			_, err := env.Users.GetByID(ctx, user.ID)
			Expect(errors.Is(err, account.ErrNotFound)).To(BeTrue())
		})

		It("returns ErrNotFound for a missing user", func() {
			err := env.Users.Delete(ctx, ulid.Make())
			Expect(errors.Is(err, account.ErrNotFound)).To(BeTrue())
		})

		It("cascades to the user's sessions", func() {
			user := createTestUser("Cascade", "Owner", account.StatusActive)
			Expect(env.Users.Create(ctx, user)).To(Succeed())

			session := createTestSession(user.ID)
			Expect(env.Sessions.Create(ctx, session)).To(Succeed())

			Expect(env.Users.Delete(ctx, user.ID)).To(Succeed())

			_, err := env.Sessions.GetByID(ctx, session.ID)
			Expect(errors.Is(err, account.ErrNotFound)).To(BeTrue())
		})
	})
})

var _ = Describe("Session Repository", func() {
	var (
		ctx   context.Context
		owner *account.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		cleanupUsers(ctx, env.pool)

		owner = createTestUser("Session", "Owner", account.StatusActive)
		Expect(env.Users.Create(ctx, owner)).To(Succeed())
	})

	It("round-trips an active session", func() {
		session := createTestSession(owner.ID)
		Expect(env.Sessions.Create(ctx, session)).To(Succeed())

		got, err := env.Sessions.GetByID(ctx, session.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.UserID).To(Equal(owner.ID))
		Expect(got.TerminatedAt).To(BeNil())
	})

	It("persists termination", func() {
		session := createTestSession(owner.ID)
		Expect(env.Sessions.Create(ctx, session)).To(Succeed())

		session.Terminate(time.Now().UTC())
		Expect(env.Sessions.Update(ctx, session)).To(Succeed())

		got, err := env.Sessions.GetByID(ctx, session.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.TerminatedAt).NotTo(BeNil())
		Expect(got.IsActive()).To(BeFalse())
	})

	It("returns ErrNotFound for an unknown token", func() {
		_, err := env.Sessions.GetByID(ctx, "deadbeef")
		Expect(errors.Is(err, account.ErrNotFound)).To(BeTrue())
	})
})

func ptr(s string) *string { return &s }

func statusPtr(s account.Status) *account.Status { return &s }
