// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/votedesk/models"
)

// beforeVoteInsert, when set, runs inside the Cast transaction right before
// the insert. Tests use it to land a competing vote in that window.
var beforeVoteInsert func(ctx context.Context, tx *sql.Tx) error

// Votes is the vote ledger. A cast vote is permanent: there is no update or
// retraction path.
type Votes struct {
	db *sql.DB
}

// Cast records a user's choice in a survey.
//
// Checks run in order: survey exists, survey unlocked, no prior vote, option
// belongs to the survey. The prior-vote check is only a fast path; the
// UNIQUE (user_id, survey_id) constraint decides concurrent submissions, and
// the losing insert is reported as ErrAlreadyVoted.
func (s *Votes) Cast(ctx context.Context, userID, surveyID, optionID int64) (models.Vote, error) {
	vote := models.Vote{
		UserID:   userID,
		SurveyID: surveyID,
		OptionID: optionID,
		VotedAt:  now(),
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var locked bool
		err := tx.QueryRowContext(ctx, `SELECT is_locked FROM survey WHERE id = $1`, surveyID).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSurveyNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to query survey: %w", err)
		}
		if locked {
			return ErrSurveyLocked
		}

		var voted bool
		err = tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM vote WHERE user_id = $1 AND survey_id = $2)
		`, userID, surveyID).Scan(&voted)
		if err != nil {
			return fmt.Errorf("failed to check existing vote: %w", err)
		}
		if voted {
			return ErrAlreadyVoted
		}

		var validOption bool
		err = tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM survey_option WHERE id = $1 AND survey_id = $2)
		`, optionID, surveyID).Scan(&validOption)
		if err != nil {
			return fmt.Errorf("failed to check option: %w", err)
		}
		if !validOption {
			return ErrOptionNotFound
		}

		if beforeVoteInsert != nil {
			if err := beforeVoteInsert(ctx, tx); err != nil {
				return err
			}
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO vote (user_id, survey_id, option_id, voted_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, userID, surveyID, optionID, vote.VotedAt).Scan(&vote.ID)
		if isUniqueViolation(err) {
			return ErrAlreadyVoted
		}
		if err != nil {
			return fmt.Errorf("failed to insert vote: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Vote{}, err
	}

	return vote, nil
}

// UserVoteMap reports the surveys the user has voted in. It drives client UI
// state only; Cast does its own checks.
func (s *Votes) UserVoteMap(ctx context.Context, userID int64) (map[int64]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT survey_id FROM vote WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	voted := make(map[int64]bool)
	for rows.Next() {
		var surveyID int64
		if err := rows.Scan(&surveyID); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		voted[surveyID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}
	return voted, nil
}
