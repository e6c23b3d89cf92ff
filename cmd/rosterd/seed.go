// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/rosterd/rosterd/internal/account"
	accountpg "github.com/rosterd/rosterd/internal/account/postgres"
	"github.com/rosterd/rosterd/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// Bootstrap user created by seed. The fixed ID keeps the command
// idempotent: a rerun collides on the primary key or the name pair
// and is treated as already seeded.
const (
	seedUserID    = "01J0000000000000000000SEED"
	seedFirstName = "Admin"
	seedLastName  = "Root"
)

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	timeout  time.Duration
	password string
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the bootstrap admin user",
		Long: `Creates an initial active admin user so the guarded endpoints are
reachable on a fresh database. This command is idempotent - it will not
create duplicates if run multiple times.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().StringVar(&cfg.password, "password", "", "bootstrap admin password (required)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.password == "" {
		return oops.Code("CONFIG_INVALID").Errorf("--password is required")
	}

	// Add timeout to prevent indefinite hangs
	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.Open(ctx, databaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	cmd.Println("Running migrations...")
	if err := runMigrations(databaseURL); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}

	userRepo := accountpg.NewUserRepository(pool)

	id, err := ulid.Parse(seedUserID)
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "parse seed user ID").Wrap(err)
	}

	credentials, err := account.NewCredentials(cfg.password)
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "hash bootstrap password").Wrap(err)
	}

	user := account.NewUser(id, seedFirstName, seedLastName, account.StatusActive, credentials, time.Now().UTC())

	// Attempt to create the user; handle duplicate gracefully
	if err := userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, account.ErrDuplicateName) {
			cmd.Println("Bootstrap user already exists, skipping seed")

			existing, getErr := userRepo.GetByID(ctx, id)
			if getErr != nil {
				slog.Warn("Could not verify existing bootstrap user",
					"user_id", id,
					"error", getErr)
				return nil
			}
			if existing.Status != account.StatusActive {
				slog.Warn("Bootstrap user is inactive",
					"user_id", id,
					"status", existing.Status)
			}

			slog.Info("Already seeded", "user_id", id)
			return nil
		}
		return oops.Code("SEED_FAILED").With("operation", "create bootstrap user").Wrap(err)
	}

	cmd.Printf("Created bootstrap user: %s %s\n", seedFirstName, seedLastName)
	slog.Info("Created bootstrap user", "id", user.ID, "first_name", seedFirstName, "last_name", seedLastName)

	cmd.Println("Seeding complete!")
	return nil
}
