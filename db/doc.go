// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

PostgreSQL uses github.com/lib/pq. SQLite uses modernc.org/sqlite with
foreign keys on, a 5s busy timeout and a single open connection.

# Schema Creation

	if err := db.CreateSchema(ctx, conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - users: accounts, unique identity, bcrypt hash, admin flag
  - survey: title, description, lock flag
  - survey_option: options per survey
  - vote: one row per (user_id, survey_id), enforced by a UNIQUE constraint

# Relationships

	survey 1──* survey_option
	survey 1──* vote
	survey_option 1──* vote
	users 1──* vote

Foreign keys use ON DELETE CASCADE; the store also deletes dependent rows
explicitly so behaviour does not depend on the driver enforcing them.
*/
package db
