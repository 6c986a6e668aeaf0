// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Values are resolved in three layers: a .env file in the working directory
(optional), the process environment, then CLI flags.

# Environment Variables

	PORT             Server port (default 3318)            -p
	DATABASE_URL     Database connection string (required) -d
	DATABASE_TYPE    sqlite or postgres (default sqlite)   -t
	JWT_SECRET       Token signing secret (required)       -jwt-secret
	TOKEN_TTL        Token lifetime (default 24h)          -token-ttl
	REQUEST_TIMEOUT  Per-request timeout (default 10s)     -request-timeout
	LOG_LEVEL        debug, info, warn, error              -log-level
	CORS_ORIGIN      Allowed origin (default: echo Origin)
	TRUST_PROXY_HEADERS  Rate limit by X-Forwarded-For (default false)

Admin bootstrap, used only when no admin account exists:

	ADMIN_IDENTITY, ADMIN_PASSWORD, ADMIN_EMAIL, ADMIN_FIRST_NAME, ADMIN_LAST_NAME

Outgoing mail for generated credentials:

	SMTP_HOST, SMTP_PORT (587), SMTP_USER, SMTP_PASS, SMTP_FROM

# Validation

ParseFlags returns an error if DATABASE_URL or JWT_SECRET is missing, if the
secret is shorter than 32 bytes, or if an enum value is unknown. There are no
built-in secrets.
*/
package cliparse
