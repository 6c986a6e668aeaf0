// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/votedesk/models"
)

// Results reads tallies and exports. It never writes.
type Results struct {
	db *sql.DB
}

// Aggregate returns per-option vote counts for every survey. TotalVotes is
// the sum of the option counts.
func (s *Results) Aggregate(ctx context.Context) ([]models.SurveyResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, is_locked
		FROM survey
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query surveys: %w", err)
	}

	results := []models.SurveyResult{}
	index := make(map[int64]int)
	for rows.Next() {
		var res models.SurveyResult
		if err := rows.Scan(&res.ID, &res.Title, &res.Description, &res.IsLocked); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan survey: %w", err)
		}
		res.Options = []models.OptionResult{}
		index[res.ID] = len(results)
		results = append(results, res)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate surveys: %w", err)
	}

	// Counting in one statement keeps every survey's numbers from a single snapshot
	countRows, err := s.db.QueryContext(ctx, `
		SELECT o.survey_id, o.id, o.option_text, COUNT(v.id)
		FROM survey_option o
		LEFT JOIN vote v ON v.option_id = o.id AND v.survey_id = o.survey_id
		GROUP BY o.survey_id, o.id, o.option_text
		ORDER BY o.survey_id, o.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer countRows.Close()

	for countRows.Next() {
		var (
			surveyID int64
			opt      models.OptionResult
		)
		if err := countRows.Scan(&surveyID, &opt.ID, &opt.Text, &opt.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		i, ok := index[surveyID]
		if !ok {
			continue
		}
		results[i].Options = append(results[i].Options, opt)
		results[i].TotalVotes += opt.Votes
	}
	if err := countRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vote counts: %w", err)
	}

	return results, nil
}

// Export denormalizes every vote to voter name, option text and time, grouped
// by survey. Surveys without votes are included with an empty list.
func (s *Results) Export(ctx context.Context) ([]models.SurveyExport, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title FROM survey ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query surveys: %w", err)
	}

	exports := []models.SurveyExport{}
	index := make(map[int64]int)
	for rows.Next() {
		var exp models.SurveyExport
		if err := rows.Scan(&exp.SurveyID, &exp.SurveyTitle); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan survey: %w", err)
		}
		exp.Votes = []models.ExportedVote{}
		index[exp.SurveyID] = len(exports)
		exports = append(exports, exp)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate surveys: %w", err)
	}

	voteRows, err := s.db.QueryContext(ctx, `
		SELECT v.survey_id, u.first_name, u.last_name, o.option_text, v.voted_at
		FROM vote v
		JOIN users u ON u.id = v.user_id
		JOIN survey_option o ON o.id = v.option_id
		ORDER BY v.survey_id, v.voted_at, v.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer voteRows.Close()

	for voteRows.Next() {
		var (
			surveyID            int64
			firstName, lastName string
			optionText          string
			votedAt             time.Time
		)
		if err := voteRows.Scan(&surveyID, &firstName, &lastName, &optionText, &votedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		i, ok := index[surveyID]
		if !ok {
			continue
		}
		voter := models.User{FirstName: firstName, LastName: lastName}
		exports[i].Votes = append(exports[i].Votes, models.ExportedVote{
			User:    voter.DisplayName(),
			Option:  optionText,
			VotedAt: votedAt.UTC().Format(models.ExportTimeLayout),
		})
	}
	if err := voteRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}

	return exports, nil
}
