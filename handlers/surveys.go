// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/danielhkuo/votedesk/middleware"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/store"
)

type SurveyHandler struct {
	surveys *store.Surveys
	log     *zap.Logger
}

func NewSurveyHandler(surveys *store.Surveys, log *zap.Logger) *SurveyHandler {
	return &SurveyHandler{surveys: surveys, log: log}
}

// ListSurveys handles GET /surveys
func (h *SurveyHandler) ListSurveys(w http.ResponseWriter, r *http.Request, _ models.User) {
	surveys, err := h.surveys.List(r.Context())
	if err != nil {
		h.log.Error("failed to list surveys", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, surveys)
}

// CreateSurvey handles POST /survey
func (h *SurveyHandler) CreateSurvey(w http.ResponseWriter, r *http.Request, admin models.User) {
	var req models.CreateSurveyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Blank titles and options are treated as missing
	req.Title = strings.TrimSpace(req.Title)
	for i := range req.Options {
		req.Options[i] = strings.TrimSpace(req.Options[i])
	}
	if !validateRequest(w, &req) {
		return
	}

	survey, err := h.surveys.Create(r.Context(), req.Title, req.Description, req.Options)
	if err != nil {
		h.log.Error("failed to create survey", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.log.Info("survey created",
		zap.Int64("survey_id", survey.ID),
		zap.Int("options", len(survey.Options)),
		zap.Int64("created_by", admin.ID),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.MessageResponse{
		Message: "Survey created successfully",
		ID:      survey.ID,
	})
}

// UpdateSurvey handles PUT /survey/{id}
func (h *SurveyHandler) UpdateSurvey(w http.ResponseWriter, r *http.Request, admin models.User) {
	id, ok := pathID(w, r, "survey")
	if !ok {
		return
	}

	var req models.UpdateSurveyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	for i := range req.Options {
		req.Options[i].Text = strings.TrimSpace(req.Options[i].Text)
	}
	if !validateRequest(w, &req) {
		return
	}

	err := h.surveys.Update(r.Context(), id, store.SurveyUpdate{
		Title:           req.Title,
		Description:     req.Description,
		Options:         req.Options,
		RemoveOptionIDs: req.RemoveOptionIDs,
	})
	switch {
	case errors.Is(err, store.ErrSurveyNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	case errors.Is(err, store.ErrOptionNotFound):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Option does not belong to this survey")
		return
	case err != nil:
		h.log.Error("failed to update survey", zap.Int64("survey_id", id), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.log.Info("survey updated", zap.Int64("survey_id", id), zap.Int64("updated_by", admin.ID))

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Survey updated successfully"})
}

// DeleteSurvey handles DELETE /survey/{id}
func (h *SurveyHandler) DeleteSurvey(w http.ResponseWriter, r *http.Request, admin models.User) {
	id, ok := pathID(w, r, "survey")
	if !ok {
		return
	}

	err := h.surveys.Delete(r.Context(), id)
	if errors.Is(err, store.ErrSurveyNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	}
	if err != nil {
		h.log.Error("failed to delete survey", zap.Int64("survey_id", id), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.log.Info("survey deleted", zap.Int64("survey_id", id), zap.Int64("deleted_by", admin.ID))

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Survey deleted successfully"})
}

// SetLock handles PUT /survey/{id}/lock
func (h *SurveyHandler) SetLock(w http.ResponseWriter, r *http.Request, admin models.User) {
	id, ok := pathID(w, r, "survey")
	if !ok {
		return
	}

	var req models.LockSurveyRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	err := h.surveys.SetLocked(r.Context(), id, *req.IsLocked)
	if errors.Is(err, store.ErrSurveyNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	}
	if err != nil {
		h.log.Error("failed to set lock", zap.Int64("survey_id", id), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.log.Info("survey lock changed",
		zap.Int64("survey_id", id),
		zap.Bool("is_locked", *req.IsLocked),
		zap.Int64("changed_by", admin.ID),
	)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Survey lock status updated successfully"})
}
