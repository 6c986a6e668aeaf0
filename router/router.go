// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/votedesk/auth"
	"github.com/danielhkuo/votedesk/cliparse"
	"github.com/danielhkuo/votedesk/handlers"
	"github.com/danielhkuo/votedesk/middleware"
	"github.com/danielhkuo/votedesk/notify"
	"github.com/danielhkuo/votedesk/store"
)

// Login attempts allowed per client IP
const (
	LoginRatePerSecond = 5
	LoginBurst         = 10
)

// NewRouter wires every endpoint and wraps the mux with CORS, request
// logging and the per-request timeout. Background cleanup of the login
// limiter stops when ctx is done.
func NewRouter(ctx context.Context, st *store.Store, issuer *auth.TokenIssuer, notifier notify.Notifier, log *zap.Logger, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(st.Users, issuer, notifier, log)
	surveyHandler := handlers.NewSurveyHandler(st.Surveys, log)
	votingHandler := handlers.NewVotingHandler(st.Votes, log)
	resultsHandler := handlers.NewResultsHandler(st.Results, log)

	authn := middleware.NewAuthenticator(issuer, st.Users, log)

	loginLimiter := middleware.NewRateLimiter(LoginRatePerSecond, LoginBurst, cfg.TrustProxyHeaders)
	go loginLimiter.Run(ctx, time.Hour, 2*time.Hour)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /register", userHandler.Register)
	mux.HandleFunc("POST /login", loginLimiter.Limit(userHandler.Login))
	mux.HandleFunc("POST /create_user", authn.RequireAdmin(userHandler.CreateUser))

	// Voting (any signed-in user)
	mux.HandleFunc("GET /surveys", authn.RequireUser(surveyHandler.ListSurveys))
	mux.HandleFunc("POST /vote", authn.RequireUser(votingHandler.Vote))
	mux.HandleFunc("GET /user-votes", authn.RequireUser(votingHandler.UserVotes))

	// Survey management
	mux.HandleFunc("POST /survey", authn.RequireAdmin(surveyHandler.CreateSurvey))
	mux.HandleFunc("PUT /survey/{id}", authn.RequireAdmin(surveyHandler.UpdateSurvey))
	mux.HandleFunc("DELETE /survey/{id}", authn.RequireAdmin(surveyHandler.DeleteSurvey))
	mux.HandleFunc("PUT /survey/{id}/lock", authn.RequireAdmin(surveyHandler.SetLock))

	// Results
	mux.HandleFunc("GET /results", authn.RequireAdmin(resultsHandler.Results))
	mux.HandleFunc("GET /export", authn.RequireAdmin(resultsHandler.Export))

	// User management
	mux.HandleFunc("GET /users", authn.RequireAdmin(userHandler.ListUsers))
	mux.HandleFunc("GET /users/{id}", authn.RequireAdmin(userHandler.GetUser))
	mux.HandleFunc("PUT /users/{id}", authn.RequireAdmin(userHandler.UpdateUser))
	mux.HandleFunc("DELETE /users/{id}", authn.RequireAdmin(userHandler.DeleteUser))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("votedesk API v1"))
	})

	var handler http.Handler = mux
	handler = middleware.WithTimeout(cfg.RequestTimeout, handler)
	handler = middleware.WithLogging(log, handler)
	handler = middleware.CORS(cfg.CORSOrigin, handler)
	return handler
}
