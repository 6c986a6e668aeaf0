// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP handlers for the voting API.

# Handler Types

  - UserHandler: registration, login, and admin user management
  - SurveyHandler: survey listing and admin survey management
  - VotingHandler: casting votes and the per-user vote map
  - ResultsHandler: tallies and exports

Handlers that need an identity take the authenticated user as a third
argument; the router wraps them with middleware.Authenticator.

# Routes

	POST   /register          public
	POST   /login             public, rate limited
	POST   /create_user       admin
	GET    /surveys           user
	POST   /vote              user
	GET    /user-votes        user
	POST   /survey            admin
	PUT    /survey/{id}       admin
	DELETE /survey/{id}       admin
	PUT    /survey/{id}/lock  admin
	GET    /results           admin
	GET    /export            admin (?format=csv)
	GET    /users             admin
	GET    /users/{id}        admin
	PUT    /users/{id}        admin
	DELETE /users/{id}        admin

# Error Mapping

Store errors map to status codes: not found is 404, a locked survey or a
repeat vote is 400, a taken identity is 409. Validation failures return 400
with a per-field "errors" object. Anything unexpected is logged and answered
with 500 "Database error".
*/
package handlers
