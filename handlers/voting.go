// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/votedesk/middleware"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/store"
)

type VotingHandler struct {
	votes *store.Votes
	log   *zap.Logger
}

func NewVotingHandler(votes *store.Votes, log *zap.Logger) *VotingHandler {
	return &VotingHandler{votes: votes, log: log}
}

// Vote handles POST /vote
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request, user models.User) {
	var req models.VoteRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	vote, err := h.votes.Cast(r.Context(), user.ID, req.SurveyID, req.OptionID)
	switch {
	case errors.Is(err, store.ErrSurveyNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return
	case errors.Is(err, store.ErrSurveyLocked):
		middleware.ErrorResponse(w, http.StatusBadRequest, "This survey is locked and no longer accepts votes")
		return
	case errors.Is(err, store.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusBadRequest, "You have already voted in this survey")
		return
	case errors.Is(err, store.ErrOptionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Option not found in this survey")
		return
	case err != nil:
		h.log.Error("failed to cast vote",
			zap.Int64("user_id", user.ID),
			zap.Int64("survey_id", req.SurveyID),
			zap.Error(err),
		)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.log.Info("vote recorded", zap.Int64("vote_id", vote.ID), zap.Int64("survey_id", vote.SurveyID))

	middleware.JSONResponse(w, http.StatusCreated, models.MessageResponse{Message: "Vote recorded successfully"})
}

// UserVotes handles GET /user-votes
func (h *VotingHandler) UserVotes(w http.ResponseWriter, r *http.Request, user models.User) {
	voted, err := h.votes.UserVoteMap(r.Context(), user.ID)
	if err != nil {
		h.log.Error("failed to load user votes", zap.Int64("user_id", user.ID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voted)
}
