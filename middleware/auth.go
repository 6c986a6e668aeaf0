// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/danielhkuo/votedesk/auth"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/store"
)

// TokenVerifier resolves a token to the user id it was issued for
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// UserLookup loads the current state of an account
type UserLookup interface {
	ByID(ctx context.Context, id int64) (models.User, error)
}

// AuthedHandler is a handler that runs for a verified user
type AuthedHandler func(w http.ResponseWriter, r *http.Request, user models.User)

// Authenticator guards routes with bearer tokens. The user, including the
// admin flag, is reloaded on every request, so demotions and deletions take
// effect before the token expires.
type Authenticator struct {
	tokens TokenVerifier
	users  UserLookup
	log    *zap.Logger
}

func NewAuthenticator(tokens TokenVerifier, users UserLookup, log *zap.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, log: log}
}

// RequireUser admits any authenticated user
func (a *Authenticator) RequireUser(next AuthedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := a.authenticate(w, r)
		if !ok {
			return
		}
		next(w, r, user)
	}
}

// RequireAdmin admits only admins, rejecting everyone else before the
// handler runs
func (a *Authenticator) RequireAdmin(next AuthedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := a.authenticate(w, r)
		if !ok {
			return
		}
		if !user.IsAdmin {
			ErrorResponse(w, http.StatusForbidden, "Admin privileges required")
			return
		}
		next(w, r, user)
	}
}

func (a *Authenticator) authenticate(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	token := BearerToken(r)
	if token == "" {
		ErrorResponse(w, http.StatusUnauthorized, "Token is missing")
		return models.User{}, false
	}

	userID, err := a.tokens.Verify(token)
	if err != nil {
		if !errors.Is(err, auth.ErrTokenExpired) {
			a.log.Debug("rejected token", zap.Error(err))
		}
		ErrorResponse(w, http.StatusUnauthorized, "Token is invalid")
		return models.User{}, false
	}

	user, err := a.users.ByID(r.Context(), userID)
	if errors.Is(err, store.ErrUserNotFound) {
		ErrorResponse(w, http.StatusUnauthorized, "Token is invalid")
		return models.User{}, false
	}
	if err != nil {
		a.log.Error("failed to load user", zap.Int64("user_id", userID), zap.Error(err))
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.User{}, false
	}

	return user, true
}

// BearerToken returns the token from the Authorization header. Both
// "Bearer <token>" and a bare token are accepted.
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if strings.EqualFold(header, "bearer") {
		return ""
	}
	return header
}
