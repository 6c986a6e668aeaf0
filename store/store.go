// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrSurveyNotFound     = errors.New("survey not found")
	ErrOptionNotFound     = errors.New("option not found")
	ErrSurveyLocked       = errors.New("survey is locked")
	ErrAlreadyVoted       = errors.New("already voted in this survey")
	ErrDuplicateIdentity  = errors.New("identity already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoAdminSeed        = errors.New("no admin account exists and no admin seed is configured")
)

// Store groups the repositories that share one database handle.
type Store struct {
	Users   *Users
	Surveys *Surveys
	Votes   *Votes
	Results *Results
}

func New(db *sql.DB) *Store {
	return &Store{
		Users:   &Users{db: db},
		Surveys: &Surveys{db: db},
		Votes:   &Votes{db: db},
		Results: &Results{db: db},
	}
}

// withTx runs fn in a transaction, committing only if fn returns nil.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure from
// either supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}

// expectAffected turns a zero-row write into notFound.
func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// now returns the current time in UTC, truncated to what every backend stores.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
