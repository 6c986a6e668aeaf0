// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and session token utilities.

# Passwords

Passwords are hashed with bcrypt; the raw value is never stored or logged:

	hash, err := auth.HashPassword(raw)
	err = auth.CheckPassword(hash, raw) // auth.ErrPasswordMismatch on failure

One-time credentials for accounts created by an admin:

	password, err := auth.GeneratePassword() // 12 base62 characters

# Session Tokens

TokenIssuer signs HS256 JWTs carrying the user ID:

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, 24*time.Hour)
	token, expiresAt, err := issuer.Issue(user.ID)
	userID, err := issuer.Verify(token)

Verify returns ErrTokenExpired, ErrTokenMalformed or ErrTokenUnsigned.
Tokens do not carry the admin flag; callers reload the user on every request
so role changes take effect immediately. Changing the secret invalidates all
outstanding tokens.
*/
package auth
