// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// ExportTimeLayout is the timestamp format used in vote exports.
const ExportTimeLayout = "2006-01-02 15:04:05"

// Request types

// RegisterRequest is used by POST /register. The "id" field carries the
// 9-digit identity number, not the database key.
type RegisterRequest struct {
	Identity  string `json:"id" validate:"required,len=9,number"`
	FirstName string `json:"first_name" validate:"required,min=2,max=100"`
	LastName  string `json:"last_name" validate:"required,min=2,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
}

// CreateUserRequest is used by POST /create_user. An empty password makes the
// server generate a one-time credential and email it.
type CreateUserRequest struct {
	Identity  string `json:"id" validate:"required,len=9,number"`
	FirstName string `json:"first_name" validate:"required,min=2,max=100"`
	LastName  string `json:"last_name" validate:"required,min=2,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"omitempty,min=6,max=72"`
	IsAdmin   bool   `json:"is_admin"`
}

type UpdateUserRequest struct {
	Identity  string `json:"id" validate:"required,len=9,number"`
	FirstName string `json:"first_name" validate:"required,min=2,max=100"`
	LastName  string `json:"last_name" validate:"required,min=2,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	IsAdmin   bool   `json:"is_admin"`
}

// LoginRequest accepts the identity as "id" or, for older clients, "username".
type LoginRequest struct {
	Identity string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginIdentity returns whichever identity field the client sent.
func (r LoginRequest) LoginIdentity() string {
	if r.Identity != "" {
		return r.Identity
	}
	return r.Username
}

type CreateSurveyRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"max=5000"`
	Options     []string `json:"options" validate:"required,min=1,dive,required,max=255"`
}

// OptionInput is one entry of a survey update. A nil ID adds a new option.
type OptionInput struct {
	ID   *int64 `json:"id,omitempty"`
	Text string `json:"text" validate:"required,max=255"`
}

type UpdateSurveyRequest struct {
	Title           string        `json:"title" validate:"required,max=255"`
	Description     string        `json:"description" validate:"max=5000"`
	Options         []OptionInput `json:"options" validate:"dive"`
	RemoveOptionIDs []int64       `json:"remove_option_ids"`
}

type LockSurveyRequest struct {
	IsLocked *bool `json:"is_locked" validate:"required"`
}

type VoteRequest struct {
	SurveyID int64 `json:"survey_id" validate:"required,gt=0"`
	OptionID int64 `json:"option_id" validate:"required,gt=0"`
}

// Response types

type MessageResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
	Warning string `json:"warning,omitempty"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	IsAdmin   bool      `json:"is_admin"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Domain types

type User struct {
	ID           int64     `json:"id"`
	Identity     string    `json:"identity"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	IsAdmin      bool      `json:"is_admin"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName is the name shown in exports.
func (u User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

type Survey struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsLocked    bool      `json:"is_locked"`
	CreatedAt   time.Time `json:"created_at"`
	Options     []Option  `json:"options"`
}

type Option struct {
	ID       int64  `json:"id"`
	SurveyID int64  `json:"-"`
	Text     string `json:"text"`
}

type Vote struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	SurveyID int64     `json:"survey_id"`
	OptionID int64     `json:"option_id"`
	VotedAt  time.Time `json:"voted_at"`
}

// Result types

type OptionResult struct {
	ID    int64  `json:"id"`
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

type SurveyResult struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	IsLocked    bool           `json:"is_locked"`
	TotalVotes  int            `json:"total_votes"`
	Options     []OptionResult `json:"options"`
}

// Export keys keep the spreadsheet-style names existing clients read.

type ExportedVote struct {
	User    string `json:"User"`
	Option  string `json:"Option"`
	VotedAt string `json:"Voted At"`
}

type SurveyExport struct {
	SurveyID    int64          `json:"Survey ID"`
	SurveyTitle string         `json:"Survey Title"`
	Votes       []ExportedVote `json:"Votes"`
}

// Error response

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}
