// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

// Package account provides the user-account domain and its application
// services.
//
// # Domain Types
//
// Domain types (User, Session, Credentials) should be created using
// their respective constructors:
//   - NewUser - creates a User with its lifecycle fields initialized
//   - NewSession - creates a Session bound to a user
//   - NewCredentials - hashes a plaintext password into a Credentials value
//
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated types from these
// constructors.
//
// # Services
//
// Service types coordinate domain operations:
//   - AuthService - sign-up and sign-in, each issuing a fresh session
//   - UserService - administrative user CRUD and listing
//   - SessionService - session issuance and termination
//
// Services are created with New*Service constructors that validate
// dependencies.
package account
