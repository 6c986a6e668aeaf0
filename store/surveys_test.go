// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/testutil"
)

func optionTexts(s models.Survey) []string {
	texts := make([]string, 0, len(s.Options))
	for _, o := range s.Options {
		texts = append(texts, o.Text)
	}
	return texts
}

func TestSurveys_CreateAndGet(t *testing.T) {
	s := New(testutil.SetupTestDB(t))
	ctx := context.Background()

	created, err := s.Surveys.Create(ctx, "Lunch", "Where do we eat?", []string{"Pizza", "Salad"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	require.Len(t, created.Options, 2)

	got, err := s.Surveys.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", got.Title)
	assert.Equal(t, "Where do we eat?", got.Description)
	assert.False(t, got.IsLocked)
	assert.Equal(t, []string{"Pizza", "Salad"}, optionTexts(got))
	assert.Equal(t, created.Options[0].ID, got.Options[0].ID)

	_, err = s.Surveys.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrSurveyNotFound)
}

func TestSurveys_List(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)

	empty, err := s.Surveys.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)

	testutil.CreateTestSurvey(t, conn, "First", "A", "B")
	testutil.CreateTestSurvey(t, conn, "Second")
	testutil.CreateTestSurvey(t, conn, "Third", "C")

	surveys, err := s.Surveys.List(context.Background())
	require.NoError(t, err)
	require.Len(t, surveys, 3)

	assert.Equal(t, "First", surveys[0].Title)
	assert.Equal(t, []string{"A", "B"}, optionTexts(surveys[0]))
	assert.Empty(t, surveys[1].Options)
	assert.NotNil(t, surveys[1].Options)
	assert.Equal(t, []string{"C"}, optionTexts(surveys[2]))
}

func TestSurveys_UpdateMergesOptions(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	survey := testutil.CreateTestSurvey(t, conn, "Lunch", "Pizza", "Salad", "Soup")
	pizza, salad, soup := survey.Options[0], survey.Options[1], survey.Options[2]

	err := s.Surveys.Update(ctx, survey.ID, SurveyUpdate{
		Title:       "Dinner",
		Description: "Evening plans",
		Options: []models.OptionInput{
			{ID: &pizza.ID, Text: "Pizza Margherita"},
			{Text: "Sushi"},
		},
	})
	require.NoError(t, err)

	got, err := s.Surveys.Get(ctx, survey.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dinner", got.Title)
	assert.Equal(t, "Evening plans", got.Description)

	// Omitted options are retained, new ones appended
	assert.Equal(t, []string{"Pizza Margherita", "Salad", "Soup", "Sushi"}, optionTexts(got))
	assert.Equal(t, pizza.ID, got.Options[0].ID)
	assert.Equal(t, salad.ID, got.Options[1].ID)
	assert.Equal(t, soup.ID, got.Options[2].ID)
}

func TestSurveys_UpdateRemovesOptionsExplicitly(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	voter := testutil.CreateTestUser(t, conn, "111111111", false)
	survey := testutil.CreateTestSurvey(t, conn, "Lunch", "Pizza", "Salad")
	salad := survey.Options[1]
	testutil.CastTestVote(t, conn, voter.ID, survey.ID, salad.ID)

	err := s.Surveys.Update(ctx, survey.ID, SurveyUpdate{
		Title:           "Lunch",
		RemoveOptionIDs: []int64{salad.ID, salad.ID},
	})
	require.NoError(t, err)

	got, err := s.Surveys.Get(ctx, survey.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pizza"}, optionTexts(got))
	assert.Equal(t, 0, testutil.CountVotes(t, conn, survey.ID))
}

func TestSurveys_UpdateForeignOptionRollsBack(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	survey := testutil.CreateTestSurvey(t, conn, "Lunch", "Pizza")
	other := testutil.CreateTestSurvey(t, conn, "Other", "Elsewhere")

	err := s.Surveys.Update(ctx, survey.ID, SurveyUpdate{
		Title:           "Changed",
		Options:         []models.OptionInput{{Text: "Added"}},
		RemoveOptionIDs: []int64{other.Options[0].ID},
	})
	assert.ErrorIs(t, err, ErrOptionNotFound)

	got, err := s.Surveys.Get(ctx, survey.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", got.Title)
	assert.Equal(t, []string{"Pizza"}, optionTexts(got))
}

func TestSurveys_UpdateForeignOptionIDIsAppended(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	survey := testutil.CreateTestSurvey(t, conn, "Lunch", "Pizza")
	other := testutil.CreateTestSurvey(t, conn, "Other", "Elsewhere")
	foreignID := other.Options[0].ID

	err := s.Surveys.Update(ctx, survey.ID, SurveyUpdate{
		Title:   "Lunch",
		Options: []models.OptionInput{{ID: &foreignID, Text: "Tacos"}},
	})
	require.NoError(t, err)

	got, err := s.Surveys.Get(ctx, survey.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pizza", "Tacos"}, optionTexts(got))

	untouched, err := s.Surveys.Get(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Elsewhere"}, optionTexts(untouched))
}

func TestSurveys_UpdateNotFound(t *testing.T) {
	s := New(testutil.SetupTestDB(t))

	err := s.Surveys.Update(context.Background(), 77, SurveyUpdate{Title: "Nope"})
	assert.ErrorIs(t, err, ErrSurveyNotFound)
}

func TestSurveys_UpdateVisibleInList(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	survey := testutil.CreateTestSurvey(t, conn, "Lunch", "Pizza")

	err := s.Surveys.Update(ctx, survey.ID, SurveyUpdate{
		Title:       "Brunch",
		Description: "Weekend",
		Options:     []models.OptionInput{{ID: &survey.Options[0].ID, Text: "Pancakes"}},
	})
	require.NoError(t, err)

	surveys, err := s.Surveys.List(ctx)
	require.NoError(t, err)
	require.Len(t, surveys, 1)
	assert.Equal(t, "Brunch", surveys[0].Title)
	assert.Equal(t, "Weekend", surveys[0].Description)
	assert.Equal(t, []string{"Pancakes"}, optionTexts(surveys[0]))
}

func TestSurveys_DeleteCascades(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	voter := testutil.CreateTestUser(t, conn, "111111111", false)
	survey := testutil.CreateTestSurvey(t, conn, "Lunch", "Pizza", "Salad")
	kept := testutil.CreateTestSurvey(t, conn, "Kept", "Yes")
	testutil.CastTestVote(t, conn, voter.ID, survey.ID, survey.Options[0].ID)
	testutil.CastTestVote(t, conn, voter.ID, kept.ID, kept.Options[0].ID)

	require.NoError(t, s.Surveys.Delete(ctx, survey.ID))

	_, err := s.Surveys.Get(ctx, survey.ID)
	assert.ErrorIs(t, err, ErrSurveyNotFound)

	var options int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM survey_option WHERE survey_id = $1`, survey.ID).Scan(&options))
	assert.Zero(t, options)
	assert.Zero(t, testutil.CountVotes(t, conn, survey.ID))
	assert.Equal(t, 1, testutil.CountVotes(t, conn, kept.ID))

	assert.ErrorIs(t, s.Surveys.Delete(ctx, survey.ID), ErrSurveyNotFound)
}

func TestSurveys_SetLocked(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	survey := testutil.CreateTestSurvey(t, conn, "Lunch", "Pizza")

	require.NoError(t, s.Surveys.SetLocked(ctx, survey.ID, true))
	got, err := s.Surveys.Get(ctx, survey.ID)
	require.NoError(t, err)
	assert.True(t, got.IsLocked)

	require.NoError(t, s.Surveys.SetLocked(ctx, survey.ID, false))
	got, err = s.Surveys.Get(ctx, survey.ID)
	require.NoError(t, err)
	assert.False(t, got.IsLocked)

	assert.ErrorIs(t, s.Surveys.SetLocked(ctx, 999, true), ErrSurveyNotFound)
}
