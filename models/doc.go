// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON, validated with Validate:

  - RegisterRequest, CreateUserRequest, UpdateUserRequest: id (9 digits), first_name, last_name, email
  - LoginRequest: id (or username), password
  - CreateSurveyRequest: title, description, options ([]string)
  - UpdateSurveyRequest: title, description, options ([]OptionInput), remove_option_ids
  - LockSurveyRequest: is_locked
  - VoteRequest: survey_id, option_id

In request bodies "id" is the identity number users log in with. In responses
"id" is the database key and the identity number is returned as "identity".

# Response Types

  - MessageResponse: message, id, warning
  - LoginResponse: token, is_admin, expires_at
  - SurveyResult / OptionResult: tallies for GET /results
  - SurveyExport / ExportedVote: denormalized votes for GET /export
  - ErrorResponse: error, message, errors

# Domain Types

  - User: account with bcrypt password hash (never serialized)
  - Survey and Option: a poll and its ordered choices
  - Vote: one user's immutable choice in one survey

# Validation

Validate returns ValidationErrors, a map from JSON field path to message:

	if err := models.Validate(req); err != nil {
		// {"id": "must be exactly 9 characters", "options[1].text": "is required"}
	}
*/
package models
