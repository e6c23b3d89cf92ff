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

// AuthService provides sign-up and sign-in, each issuing a fresh session.
type AuthService struct {
	users    UserRepository
	sessions *SessionService
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserRepository, sessions *SessionService) (*AuthService, error) {
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if sessions == nil {
		return nil, oops.Errorf("session service is required")
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		now:      time.Now,
	}, nil
}

// dummyCredentials is verified when the user doesn't exist so that unknown
// names and wrong passwords take comparable time. This is NOT a real
// credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
var dummyCredentials = CredentialsFromHash("$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")

// SignUp registers a new user and signs it in: the first login counts, so
// the returned user carries a logins counter of one and a fresh session.
// Returns USER_CONFLICT if the first/last name pair is already taken.
func (s *AuthService) SignUp(ctx context.Context, firstName, lastName, password string) (*AuthResult, error) {
	_, err := s.users.GetByName(ctx, firstName, lastName)
	if err == nil {
		return nil, oops.Code("USER_CONFLICT").
			With("first_name", firstName).
			With("last_name", lastName).
			Wrap(ErrDuplicateName)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "get user by name").
			Wrap(err)
	}

	credentials, err := NewCredentials(password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := NewUser(ulid.Make(), firstName, lastName, StatusActive, credentials, now)
	user.RecordLogin(now)

	if err := s.users.Create(ctx, user); err != nil {
		// The uniqueness constraint resolves concurrent sign-up races; the
		// loser observes the same conflict as the up-front check.
		if errors.Is(err, ErrDuplicateName) {
			return nil, oops.Code("USER_CONFLICT").
				With("first_name", firstName).
				With("last_name", lastName).
				Wrap(err)
		}
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "persist user").
			Wrap(err)
	}

	session, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "create session").
			Wrap(err)
	}

	return &AuthResult{SessionID: session.ID, User: ToUserDTO(user)}, nil
}

// SignIn authenticates a user by name pair and password. Unknown names and
// wrong passwords both fail with the identical AUTH_INVALID_CREDENTIALS
// error to resist user enumeration. Inactive users fail with USER_INACTIVE
// before any state changes. On success the login is recorded, the user
// persisted, and a fresh session issued - in that order; no partial side
// effects remain on any failure path.
func (s *AuthService) SignIn(ctx context.Context, firstName, lastName, password string) (*AuthResult, error) {
	user, lookupErr := s.users.GetByName(ctx, firstName, lastName)

	// Verify against a dummy hash when the user is unknown to keep
	// response time comparable for both failure cases.
	target := dummyCredentials
	userExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, oops.Code("AUTH_SIGNIN_FAILED").
				With("operation", "get user by name").
				Wrap(lookupErr)
		}
	} else {
		target = user.Credentials
		userExists = true
	}

	valid, verifyErr := target.Verify(password)
	if verifyErr != nil {
		if !userExists {
			return nil, invalidCredentials()
		}
		return nil, oops.Code("AUTH_SIGNIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		return nil, invalidCredentials()
	}

	if err := user.EnsureCanCreateSession(); err != nil {
		return nil, oops.Code("USER_INACTIVE").Wrap(err)
	}

	user.RecordLogin(s.now())
	if err := s.users.Update(ctx, user); err != nil {
		return nil, oops.Code("AUTH_SIGNIN_FAILED").
			With("operation", "persist user").
			Wrap(err)
	}

	session, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, oops.Code("AUTH_SIGNIN_FAILED").
			With("operation", "create session").
			Wrap(err)
	}

	return &AuthResult{SessionID: session.ID, User: ToUserDTO(user)}, nil
}

// invalidCredentials is the single error both sign-in failure modes share.
func invalidCredentials() error {
	return oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid credentials")
}
