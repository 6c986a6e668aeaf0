// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	handler = middleware.WithLogging(log, handler)

Logs method, path, status, duration and a request id. The id is taken from
an incoming X-Request-ID header or generated, and echoed in the response.

# Timeouts

	handler = middleware.WithTimeout(cfg.RequestTimeout, handler)

# Authentication

Authenticator verifies the bearer token, reloads the user and passes it to
the handler:

	authn := middleware.NewAuthenticator(issuer, st.Users, log)
	mux.HandleFunc("GET /surveys", authn.RequireUser(h.ListSurveys))
	mux.HandleFunc("POST /survey", authn.RequireAdmin(h.CreateSurvey))

Missing token: 401 "Token is missing". Bad, expired or orphaned token: 401
"Token is invalid". Non-admin on an admin route: 403 "Admin privileges
required".

# Rate Limiting

RateLimiter keeps a token bucket per client IP (golang.org/x/time/rate) and
answers 429 when it runs dry. Forwarding headers are ignored unless
TRUST_PROXY_HEADERS is set.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(cfg.CORSOrigin, mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.ValidationErrorResponse(w, fieldErrors)

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Handles X-Forwarded-For and X-Real-IP, for request logs. The rate limiter
keys on RemoteIP, the peer address, unless proxy headers are trusted.
*/
package middleware
