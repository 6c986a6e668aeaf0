// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/votedesk/auth"
	"github.com/danielhkuo/votedesk/cliparse"
	"github.com/danielhkuo/votedesk/db"
	"github.com/danielhkuo/votedesk/models"
)

// TestPassword is the password of every user created by CreateTestUser
const TestPassword = "password123"

// TestSecret signs tokens in tests
const TestSecret = "test-secret-test-secret-test-secret"

// SetupTestDB creates a fresh SQLite database with the full schema. It is
// closed automatically when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// Keep bcrypt fast in tests
	auth.PasswordCost = bcrypt.MinCost

	ctx := context.Background()
	url := "file:" + filepath.Join(t.TempDir(), "votedesk_test.db")
	conn, err := db.Open(ctx, cliparse.DatabaseSQLite, url)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.CreateSchema(ctx, conn, cliparse.DatabaseSQLite), "failed to create schema")

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseURL:    "file:test.db",
		DatabaseType:   cliparse.DatabaseSQLite,
		JWTSecret:      TestSecret,
		TokenTTL:       24 * time.Hour,
		RequestTimeout: 5 * time.Second,
		LogLevel:       "debug",
	}
}

// TestLogger returns a logger that discards output
func TestLogger() *zap.Logger {
	return zap.NewNop()
}

// TestIssuer returns a token issuer using the test config
func TestIssuer() *auth.TokenIssuer {
	cfg := GetTestConfig()
	return auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
}

// CreateTestUser inserts a user with TestPassword. identity must be 9 digits
// and unique within the test.
func CreateTestUser(t *testing.T, conn *sql.DB, identity string, isAdmin bool) models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	require.NoError(t, err)

	u := models.User{
		Identity:     identity,
		FirstName:    "User",
		LastName:     identity,
		Email:        identity + "@example.com",
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	err = conn.QueryRow(`
		INSERT INTO users (identity, first_name, last_name, email, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, u.Identity, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.IsAdmin, u.CreatedAt).Scan(&u.ID)
	require.NoError(t, err, "failed to create test user")

	return u
}

// CreateTestSurvey inserts an unlocked survey with the given options
func CreateTestSurvey(t *testing.T, conn *sql.DB, title string, options ...string) models.Survey {
	t.Helper()

	s := models.Survey{
		Title:       title,
		Description: "A test survey",
		CreatedAt:   time.Now().UTC(),
		Options:     []models.Option{},
	}
	err := conn.QueryRow(`
		INSERT INTO survey (title, description, is_locked, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, s.Title, s.Description, false, s.CreatedAt).Scan(&s.ID)
	require.NoError(t, err, "failed to create test survey")

	for _, text := range options {
		opt := models.Option{SurveyID: s.ID, Text: text}
		err := conn.QueryRow(`
			INSERT INTO survey_option (survey_id, option_text)
			VALUES ($1, $2)
			RETURNING id
		`, s.ID, text).Scan(&opt.ID)
		require.NoError(t, err, "failed to create test option")
		s.Options = append(s.Options, opt)
	}

	return s
}

// LockTestSurvey sets the lock flag directly
func LockTestSurvey(t *testing.T, conn *sql.DB, surveyID int64, locked bool) {
	t.Helper()

	_, err := conn.Exec(`UPDATE survey SET is_locked = $1 WHERE id = $2`, locked, surveyID)
	require.NoError(t, err, "failed to lock test survey")
}

// CastTestVote inserts a vote row directly, bypassing the ledger checks
func CastTestVote(t *testing.T, conn *sql.DB, userID, surveyID, optionID int64) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO vote (user_id, survey_id, option_id, voted_at)
		VALUES ($1, $2, $3, $4)
	`, userID, surveyID, optionID, time.Now().UTC())
	require.NoError(t, err, "failed to create test vote")
}

// CountVotes returns the number of vote rows for a survey
func CountVotes(t *testing.T, conn *sql.DB, surveyID int64) int {
	t.Helper()

	var n int
	err := conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE survey_id = $1`, surveyID).Scan(&n)
	require.NoError(t, err, "failed to count votes")
	return n
}

// TokenFor issues a valid token for the user
func TokenFor(t *testing.T, u models.User) string {
	t.Helper()

	token, _, err := TestIssuer().Issue(u.ID)
	require.NoError(t, err, "failed to issue token")
	return token
}

// BearerHeader builds an Authorization header map for MakeRequest
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
