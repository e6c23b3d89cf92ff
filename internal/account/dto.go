// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rosterd Contributors

package account

import "time"

// UserDTO is the externally-visible shape of a User. It never carries the
// password hash.
type UserDTO struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Status         string    `json:"status"`
	LoginsCounter  int       `json:"loginsCounter"`
	CreationTime   time.Time `json:"creationTime"`
	LastUpdateTime time.Time `json:"lastUpdateTime"`
}

// SessionDTO is the externally-visible shape of a Session.
type SessionDTO struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	CreationTime    time.Time  `json:"creationTime"`
	TerminationTime *time.Time `json:"terminationTime"`
}

// UserPage is one page of users plus the pagination echo clients need for
// paging math.
type UserPage struct {
	Items []UserDTO `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

// AuthResult is returned by sign-up and sign-in: the fresh session ID and
// the authenticated user.
type AuthResult struct {
	SessionID string  `json:"sessionId"`
	User      UserDTO `json:"user"`
}

// ToUserDTO maps a User entity to its DTO.
func ToUserDTO(u *User) UserDTO {
	return UserDTO{
		ID:             u.ID.String(),
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Status:         string(u.Status),
		LoginsCounter:  u.LoginsCounter,
		CreationTime:   u.CreatedAt,
		LastUpdateTime: u.UpdatedAt,
	}
}

// ToSessionDTO maps a Session entity to its DTO.
func ToSessionDTO(s *Session) SessionDTO {
	return SessionDTO{
		ID:              s.ID,
		UserID:          s.UserID.String(),
		CreationTime:    s.CreatedAt,
		TerminationTime: s.TerminatedAt,
	}
}
