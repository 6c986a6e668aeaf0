// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the votedesk API.

# Route Registration

NewRouter builds the handlers from the store and returns the wrapped mux:

	handler := router.NewRouter(ctx, st, issuer, notifier, log, cfg)

# Endpoints

Public:

	GET  /health   - Liveness check
	POST /register - Self-registration
	POST /login    - Issue a token (5 req/s per IP, burst 10)

Signed-in users:

	GET  /surveys    - Surveys with options
	POST /vote       - Cast a vote
	GET  /user-votes - Surveys the caller has voted in

Admins:

	POST   /create_user       - Create an account
	POST   /survey            - Create a survey
	PUT    /survey/{id}       - Edit title, description and options
	DELETE /survey/{id}       - Delete with options and votes
	PUT    /survey/{id}/lock  - Open or close voting
	GET    /results           - Per-option tallies
	GET    /export            - Every vote, JSON or ?format=csv
	GET    /users             - List accounts
	GET    /users/{id}        - One account
	PUT    /users/{id}        - Edit an account
	DELETE /users/{id}        - Delete an account and its votes

# Middleware Order

Requests pass through CORS, then request logging, then the request timeout,
then the mux. Authentication is applied per route.
*/
package router
