// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/votedesk/auth"
	"github.com/danielhkuo/votedesk/models"
)

// NewUser carries the values for a new account. PasswordHash must already be hashed.
type NewUser struct {
	Identity     string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	IsAdmin      bool
}

// Profile is the admin-editable part of a user.
type Profile struct {
	Identity  string
	FirstName string
	LastName  string
	Email     string
	IsAdmin   bool
}

// Users is the credential store.
type Users struct {
	db *sql.DB
}

const userColumns = `id, identity, first_name, last_name, email, password_hash, is_admin, created_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Identity, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	return u, err
}

// Create inserts a user. A taken identity yields ErrDuplicateIdentity.
func (s *Users) Create(ctx context.Context, nu NewUser) (models.User, error) {
	u := models.User{
		Identity:     nu.Identity,
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		IsAdmin:      nu.IsAdmin,
		CreatedAt:    now(),
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (identity, first_name, last_name, email, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, u.Identity, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.IsAdmin, u.CreatedAt).Scan(&u.ID)
	if isUniqueViolation(err) {
		return models.User{}, ErrDuplicateIdentity
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return u, nil
}

func (s *Users) ByID(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

func (s *Users) ByIdentity(ctx context.Context, identity string) (models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE identity = $1`, identity))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// Authenticate verifies a password. Unknown identities and wrong passwords
// both return ErrInvalidCredentials.
func (s *Users) Authenticate(ctx context.Context, identity, rawPassword string) (models.User, error) {
	u, err := s.ByIdentity(ctx, identity)
	if errors.Is(err, ErrUserNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}

	err = auth.CheckPassword(u.PasswordHash, rawPassword)
	if errors.Is(err, auth.ErrPasswordMismatch) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}

	return u, nil
}

func (s *Users) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// Update replaces a user's profile.
func (s *Users) Update(ctx context.Context, id int64, p Profile) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET identity = $1, first_name = $2, last_name = $3, email = $4, is_admin = $5
		WHERE id = $6
	`, p.Identity, p.FirstName, p.LastName, p.Email, p.IsAdmin, id)
	if isUniqueViolation(err) {
		return ErrDuplicateIdentity
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return expectAffected(res, ErrUserNotFound)
}

// Delete removes a user together with the votes they cast.
func (s *Users) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM vote WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete user votes: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return expectAffected(res, ErrUserNotFound)
	})
}

func (s *Users) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE is_admin = $1)`, true).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for admin: %w", err)
	}
	return exists, nil
}

// EnsureAdmin creates the seed admin when no admin exists yet. It is safe to
// call on every startup and reports whether an account was created.
func (s *Users) EnsureAdmin(ctx context.Context, seed NewUser, rawPassword string) (bool, error) {
	exists, err := s.AdminExists(ctx)
	if err != nil || exists {
		return false, err
	}

	if seed.Identity == "" || rawPassword == "" {
		return false, ErrNoAdminSeed
	}

	hash, err := auth.HashPassword(rawPassword)
	if err != nil {
		return false, err
	}
	seed.PasswordHash = hash
	seed.IsAdmin = true

	_, err = s.Create(ctx, seed)
	if errors.Is(err, ErrDuplicateIdentity) {
		// Another instance may have seeded concurrently
		exists, checkErr := s.AdminExists(ctx)
		if checkErr != nil {
			return false, checkErr
		}
		if exists {
			return false, nil
		}
		return false, fmt.Errorf("admin seed identity %q belongs to a non-admin user", seed.Identity)
	}
	if err != nil {
		return false, err
	}

	return true, nil
}
