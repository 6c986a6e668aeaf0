// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/danielhkuo/votedesk/middleware"
	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/store"
)

type ResultsHandler struct {
	results *store.Results
	log     *zap.Logger
}

func NewResultsHandler(results *store.Results, log *zap.Logger) *ResultsHandler {
	return &ResultsHandler{results: results, log: log}
}

// Results handles GET /results
func (h *ResultsHandler) Results(w http.ResponseWriter, r *http.Request, _ models.User) {
	results, err := h.results.Aggregate(r.Context())
	if err != nil {
		h.log.Error("failed to aggregate results", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

// Export handles GET /export. ?format=csv returns one row per vote instead
// of the grouped JSON document.
func (h *ResultsHandler) Export(w http.ResponseWriter, r *http.Request, _ models.User) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unsupported export format")
		return
	}

	exports, err := h.results.Export(r.Context())
	if err != nil {
		h.log.Error("failed to export votes", zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if format != "csv" {
		middleware.JSONResponse(w, http.StatusOK, exports)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="survey_export.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	cw.Write([]string{"survey_id", "survey_title", "user", "option", "voted_at"})
	for _, exp := range exports {
		surveyID := strconv.FormatInt(exp.SurveyID, 10)
		for _, v := range exp.Votes {
			cw.Write([]string{surveyID, csvCell(exp.SurveyTitle), csvCell(v.User), csvCell(v.Option), v.VotedAt})
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.log.Error("failed to write csv export", zap.Error(err))
	}
}

// csvCell quotes text that a spreadsheet would otherwise evaluate as a formula.
func csvCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@", rune(s[0])) {
		return "'" + s
	}
	return s
}
