// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store implements the persistence layer over database/sql.

# Components

	s := store.New(conn)

  - s.Users: credential store (create, authenticate, profile CRUD, admin bootstrap)
  - s.Surveys: survey repository (create, update, delete, lock, list)
  - s.Votes: vote ledger (cast, per-user vote map)
  - s.Results: read-only tallies and exports

Every method takes a context; handlers pass the request context so storage
calls end with the request timeout.

# Errors

Domain failures are sentinel errors, matched with errors.Is:

	ErrUserNotFound, ErrSurveyNotFound, ErrOptionNotFound,
	ErrSurveyLocked, ErrAlreadyVoted, ErrDuplicateIdentity,
	ErrInvalidCredentials, ErrNoAdminSeed

Anything else is an unexpected storage failure.

# One Vote Per Survey

The vote table has UNIQUE (user_id, survey_id). Cast checks for a prior vote
inside its transaction, and a constraint violation on insert (PostgreSQL
23505, SQLITE_CONSTRAINT_UNIQUE) is translated to ErrAlreadyVoted, so two
concurrent submissions yield exactly one vote.

# Cascades

Deleting a survey deletes its options and votes in the same transaction.
Deleting a user deletes their votes. Removing an option through
SurveyUpdate.RemoveOptionIDs deletes the votes cast for it.
*/
package store
