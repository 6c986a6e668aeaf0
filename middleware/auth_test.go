// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/danielhkuo/votedesk/auth"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/store"
)

const testSecret = "test-secret-test-secret-test-secret"

type fakeUsers map[int64]models.User

func (f fakeUsers) ByID(_ context.Context, id int64) (models.User, error) {
	if id == 500 {
		return models.User{}, errors.New("connection reset")
	}
	u, ok := f[id]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	return u, nil
}

func TestAuthenticator(t *testing.T) {
	issuer := auth.NewTokenIssuer(testSecret, time.Hour)
	users := fakeUsers{
		1: {ID: 1, Identity: "111111111"},
		2: {ID: 2, Identity: "222222222", IsAdmin: true},
	}
	a := NewAuthenticator(issuer, users, zap.NewNop())

	token := func(id int64) string {
		tok, _, err := issuer.Issue(id)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}
		return tok
	}
	expired, _, _ := auth.NewTokenIssuer(testSecret, -time.Minute).Issue(1)
	foreign, _, _ := auth.NewTokenIssuer("another-secret-another-secret-1234", time.Hour).Issue(2)

	testCases := []struct {
		name         string
		header       string
		admin        bool
		expectedCode int
		expectedMsg  string
		expectedUser int64
	}{
		{"missing token", "", false, http.StatusUnauthorized, "Token is missing", 0},
		{"bare bearer", "Bearer ", false, http.StatusUnauthorized, "Token is missing", 0},
		{"garbage token", "Bearer not-a-jwt", false, http.StatusUnauthorized, "Token is invalid", 0},
		{"expired token", "Bearer " + expired, false, http.StatusUnauthorized, "Token is invalid", 0},
		{"foreign signature", "Bearer " + foreign, true, http.StatusUnauthorized, "Token is invalid", 0},
		{"deleted user", "Bearer " + token(99), false, http.StatusUnauthorized, "Token is invalid", 0},
		{"lookup failure", "Bearer " + token(500), false, http.StatusInternalServerError, "Database error", 0},
		{"user with bearer", "Bearer " + token(1), false, http.StatusOK, "", 1},
		{"user with raw token", token(1), false, http.StatusOK, "", 1},
		{"lowercase bearer", "bearer " + token(1), false, http.StatusOK, "", 1},
		{"non-admin on admin route", "Bearer " + token(1), true, http.StatusForbidden, "Admin privileges required", 0},
		{"admin on admin route", "Bearer " + token(2), true, http.StatusOK, "", 2},
		{"admin on user route", "Bearer " + token(2), false, http.StatusOK, "", 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotUser models.User
			called := false
			next := func(w http.ResponseWriter, r *http.Request, user models.User) {
				called = true
				gotUser = user
				w.WriteHeader(http.StatusOK)
			}

			handler := a.RequireUser(next)
			if tc.admin {
				handler = a.RequireAdmin(next)
			}

			req := httptest.NewRequest(http.MethodGet, "/surveys", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			handler(w, req)

			assert.Equal(t, tc.expectedCode, w.Code)
			if tc.expectedCode != http.StatusOK {
				assert.False(t, called, "handler must not run")
				assert.Contains(t, w.Body.String(), tc.expectedMsg)
				return
			}
			assert.True(t, called)
			assert.Equal(t, tc.expectedUser, gotUser.ID)
		})
	}
}

func TestAuthenticator_AdminFlagIsReloaded(t *testing.T) {
	issuer := auth.NewTokenIssuer(testSecret, time.Hour)
	users := fakeUsers{3: {ID: 3, IsAdmin: true}}
	a := NewAuthenticator(issuer, users, zap.NewNop())

	tok, _, err := issuer.Issue(3)
	assert.NoError(t, err)

	handler := a.RequireAdmin(func(w http.ResponseWriter, r *http.Request, user models.User) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/results", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	handler(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Demote with the same token still valid
	users[3] = models.User{ID: 3, IsAdmin: false}

	w = httptest.NewRecorder()
	handler(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBearerToken(t *testing.T) {
	testCases := []struct {
		header   string
		expected string
	}{
		{"", ""},
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"BEARER abc", "abc"},
		{"Bearer   abc  ", "abc"},
		{"abc.def.ghi", "abc.def.ghi"},
		{"Bearer", ""},
	}

	for _, tc := range testCases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", tc.header)
		assert.Equal(t, tc.expected, BearerToken(req), "header %q", tc.header)
	}
}
