// Authentication and server metadata request/response types.

package dto

import (
	"strings"
	"time"

	"github.com/maruel/ksid"
)

// RegisterRequest creates a new user account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Validate implements Validatable.
func (r *RegisterRequest) Validate() error {
	if r.Email == "" {
		return MissingField("email")
	}
	if !strings.Contains(r.Email, "@") {
		return InvalidField("email", "not an email address")
	}
	if len(r.Password) < 8 {
		return InvalidField("password", "must be at least 8 characters")
	}
	if r.Name == "" {
		return MissingField("name")
	}
	return nil
}

// LoginRequest authenticates a user.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validatable.
func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return MissingField("email or password")
	}
	return nil
}

// UserInfo is the wire representation of a user account.
type UserInfo struct {
	ID      ksid.ID   `json:"id"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
}

// AuthResponse carries a signed token and the account it belongs to.
type AuthResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// MeRequest asks for the authenticated user's account.
type MeRequest struct{}

// Validate implements Validatable.
func (r *MeRequest) Validate() error { return nil }

// UserResponse is the single-user envelope.
type UserResponse struct {
	Success bool     `json:"success"`
	Data    UserInfo `json:"data"`
}

// HealthRequest asks for server liveness.
type HealthRequest struct{}

// Validate implements Validatable.
func (r *HealthRequest) Validate() error { return nil }

// HealthResponse reports server liveness and version.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// HistoryRequest asks for the data directory's commit history.
type HistoryRequest struct {
	Limit int `query:"limit"`
}

// Validate implements Validatable.
func (r *HistoryRequest) Validate() error {
	if r.Limit < 0 {
		return InvalidField("limit", "must be non-negative")
	}
	return nil
}

// CommitInfo is one entry of the edit history.
type CommitInfo struct {
	Hash    string    `json:"hash"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
}

// HistoryResponse is the commit history envelope.
type HistoryResponse struct {
	Success bool         `json:"success"`
	Data    []CommitInfo `json:"data"`
	Count   int          `json:"count"`
}

// StatsRequest asks for server-wide record counts.
type StatsRequest struct{}

// Validate implements Validatable.
func (r *StatsRequest) Validate() error { return nil }

// StatsResponse reports record counts per dataset and total edit commits.
type StatsResponse struct {
	Personas     int `json:"personas"`
	Propositions int `json:"propositions"`
	Models       int `json:"models"`
	Views        int `json:"views"`
	Users        int `json:"users"`
	Commits      int `json:"commits"`
}
