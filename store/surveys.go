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

// SurveyUpdate describes an admin edit of a survey.
//
// Options with an ID that belongs to the survey are renamed in place; options
// without one (or with a foreign ID) are appended. Options not mentioned are
// kept. RemoveOptionIDs deletes options, and the votes cast for them, after the
// other changes are applied.
type SurveyUpdate struct {
	Title           string
	Description     string
	Options         []models.OptionInput
	RemoveOptionIDs []int64
}

// Surveys is the survey repository.
type Surveys struct {
	db *sql.DB
}

// Create inserts a survey and its options in one transaction.
func (s *Surveys) Create(ctx context.Context, title, description string, options []string) (models.Survey, error) {
	survey := models.Survey{
		Title:       title,
		Description: description,
		CreatedAt:   now(),
		Options:     make([]models.Option, 0, len(options)),
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO survey (title, description, is_locked, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, title, description, false, survey.CreatedAt).Scan(&survey.ID)
		if err != nil {
			return fmt.Errorf("failed to insert survey: %w", err)
		}

		for _, text := range options {
			opt, err := insertOption(ctx, tx, survey.ID, text)
			if err != nil {
				return err
			}
			survey.Options = append(survey.Options, opt)
		}
		return nil
	})
	if err != nil {
		return models.Survey{}, err
	}

	return survey, nil
}

func insertOption(ctx context.Context, tx *sql.Tx, surveyID int64, text string) (models.Option, error) {
	opt := models.Option{SurveyID: surveyID, Text: text}
	err := tx.QueryRowContext(ctx, `
		INSERT INTO survey_option (survey_id, option_text)
		VALUES ($1, $2)
		RETURNING id
	`, surveyID, text).Scan(&opt.ID)
	if err != nil {
		return models.Option{}, fmt.Errorf("failed to insert option: %w", err)
	}
	return opt, nil
}

// Get returns one survey with its options.
func (s *Surveys) Get(ctx context.Context, id int64) (models.Survey, error) {
	var survey models.Survey
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, is_locked, created_at
		FROM survey
		WHERE id = $1
	`, id).Scan(&survey.ID, &survey.Title, &survey.Description, &survey.IsLocked, &survey.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Survey{}, ErrSurveyNotFound
	}
	if err != nil {
		return models.Survey{}, fmt.Errorf("failed to query survey: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, survey_id, option_text
		FROM survey_option
		WHERE survey_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return models.Survey{}, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	survey.Options = []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.SurveyID, &opt.Text); err != nil {
			return models.Survey{}, fmt.Errorf("failed to scan option: %w", err)
		}
		survey.Options = append(survey.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return models.Survey{}, fmt.Errorf("failed to iterate options: %w", err)
	}

	return survey, nil
}

// List returns every survey with its options, oldest first. It carries no tallies.
func (s *Surveys) List(ctx context.Context) ([]models.Survey, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, is_locked, created_at
		FROM survey
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query surveys: %w", err)
	}

	surveys := []models.Survey{}
	index := make(map[int64]int)
	for rows.Next() {
		var survey models.Survey
		if err := rows.Scan(&survey.ID, &survey.Title, &survey.Description, &survey.IsLocked, &survey.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan survey: %w", err)
		}
		survey.Options = []models.Option{}
		index[survey.ID] = len(surveys)
		surveys = append(surveys, survey)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate surveys: %w", err)
	}

	optRows, err := s.db.QueryContext(ctx, `
		SELECT id, survey_id, option_text
		FROM survey_option
		ORDER BY survey_id, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var opt models.Option
		if err := optRows.Scan(&opt.ID, &opt.SurveyID, &opt.Text); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		// Options of a survey created after the first query are skipped
		if i, ok := index[opt.SurveyID]; ok {
			surveys[i].Options = append(surveys[i].Options, opt)
		}
	}
	if err := optRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate options: %w", err)
	}

	return surveys, nil
}

// Update applies a SurveyUpdate atomically.
func (s *Surveys) Update(ctx context.Context, id int64, upd SurveyUpdate) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE survey SET title = $1, description = $2 WHERE id = $3
		`, upd.Title, upd.Description, id)
		if err != nil {
			return fmt.Errorf("failed to update survey: %w", err)
		}
		if err := expectAffected(res, ErrSurveyNotFound); err != nil {
			return err
		}

		existing, err := optionIDs(ctx, tx, id)
		if err != nil {
			return err
		}

		for _, in := range upd.Options {
			if in.ID != nil && existing[*in.ID] {
				_, err := tx.ExecContext(ctx, `
					UPDATE survey_option SET option_text = $1 WHERE id = $2 AND survey_id = $3
				`, in.Text, *in.ID, id)
				if err != nil {
					return fmt.Errorf("failed to update option: %w", err)
				}
				continue
			}
			if _, err := insertOption(ctx, tx, id, in.Text); err != nil {
				return err
			}
		}

		removed := make(map[int64]bool, len(upd.RemoveOptionIDs))
		for _, optionID := range upd.RemoveOptionIDs {
			if removed[optionID] {
				continue
			}
			if !existing[optionID] {
				return fmt.Errorf("%w: %d", ErrOptionNotFound, optionID)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM vote WHERE option_id = $1`, optionID); err != nil {
				return fmt.Errorf("failed to delete option votes: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM survey_option WHERE id = $1`, optionID); err != nil {
				return fmt.Errorf("failed to delete option: %w", err)
			}
			removed[optionID] = true
		}

		return nil
	})
}

func optionIDs(ctx context.Context, tx *sql.Tx, surveyID int64) (map[int64]bool, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM survey_option WHERE survey_id = $1`, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		ids[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate options: %w", err)
	}
	return ids, nil
}

// Delete removes a survey with its options and votes.
func (s *Surveys) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM vote WHERE survey_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete votes: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM survey_option WHERE survey_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete options: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM survey WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete survey: %w", err)
		}
		return expectAffected(res, ErrSurveyNotFound)
	})
}

// SetLocked opens or closes a survey for voting.
func (s *Surveys) SetLocked(ctx context.Context, id int64, locked bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE survey SET is_locked = $1 WHERE id = $2`, locked, id)
	if err != nil {
		return fmt.Errorf("failed to update lock: %w", err)
	}
	return expectAffected(res, ErrSurveyNotFound)
}
