// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/danielhkuo/votedesk/middleware"
	"github.com/danielhkuo/votedesk/models"
)

// decodeRequest parses and validates a JSON body, writing the 400 itself
// when either step fails.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := middleware.ParseJSONBody(r, v); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return validateRequest(w, v)
}

// validateRequest runs the struct validation rules, writing the 400 itself
// on failure.
func validateRequest(w http.ResponseWriter, v any) bool {
	if err := models.Validate(v); err != nil {
		var fieldErrs models.ValidationErrors
		if errors.As(err, &fieldErrs) {
			middleware.ValidationErrorResponse(w, fieldErrs)
			return false
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

// pathID reads the {id} path segment as a positive integer
func pathID(w http.ResponseWriter, r *http.Request, what string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid "+what+" ID")
		return 0, false
	}
	return id, true
}
