// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the votedesk API server.

votedesk is a voting administration backend: users register and sign in,
admins publish surveys, every user casts at most one vote per survey, and
admins read tallies and export who voted for what.

# Starting the Server

Configuration comes from a .env file, the environment, or CLI flags:

	DATABASE_URL=file:votedesk.db JWT_SECRET=... ADMIN_IDENTITY=000000001 ADMIN_PASSWORD=... go run .

Or against PostgreSQL with flags:

	go run . -t postgres -d "postgres://..." -p 3318

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file URL or PostgreSQL connection string
  - JWT_SECRET (-jwt-secret): token signing key, at least 32 bytes
  - ADMIN_IDENTITY, ADMIN_PASSWORD: only until the first admin exists

Optional settings:

  - PORT (-p): server port (default 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default sqlite)
  - TOKEN_TTL, REQUEST_TIMEOUT, LOG_LEVEL, CORS_ORIGIN
  - SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASS, SMTP_FROM

There are no built-in secrets or default accounts.

# Architecture

  - handlers: HTTP request handlers (users, surveys, voting, results)
  - router: route table and middleware chain
  - middleware: authentication, rate limiting, CORS, logging, JSON helpers
  - store: users, surveys, votes and results over database/sql
  - models: request, response and domain types with validation
  - auth: password hashing and session tokens
  - notify: credential delivery by email
  - db: connection setup and schema creation
  - logger: zap logger construction
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
