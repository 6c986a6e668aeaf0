// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/votedesk/models"
	"github.com/danielhkuo/votedesk/testutil"
)

func TestResults_AggregateTotalsMatchOptionSum(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)

	survey := testutil.CreateTestSurvey(t, conn, "Colors", "Red", "Green", "Blue")
	empty := testutil.CreateTestSurvey(t, conn, "Empty", "Only")
	bare := testutil.CreateTestSurvey(t, conn, "No options")

	// 3 red, 2 green, 0 blue
	picks := []int{0, 0, 0, 1, 1}
	for i, p := range picks {
		voter := testutil.CreateTestUser(t, conn, fmt.Sprintf("1000000%02d", i), false)
		testutil.CastTestVote(t, conn, voter.ID, survey.ID, survey.Options[p].ID)
	}

	results, err := s.Results.Aggregate(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	colors := results[0]
	assert.Equal(t, survey.ID, colors.ID)
	assert.Equal(t, 5, colors.TotalVotes)
	require.Len(t, colors.Options, 3)
	assert.Equal(t, []int{3, 2, 0}, []int{colors.Options[0].Votes, colors.Options[1].Votes, colors.Options[2].Votes})
	assert.Equal(t, "Blue", colors.Options[2].Text)

	assert.Equal(t, empty.ID, results[1].ID)
	assert.Zero(t, results[1].TotalVotes)
	require.Len(t, results[1].Options, 1)
	assert.Zero(t, results[1].Options[0].Votes)

	assert.Equal(t, bare.ID, results[2].ID)
	assert.Zero(t, results[2].TotalVotes)
	assert.NotNil(t, results[2].Options)

	for _, r := range results {
		sum := 0
		for _, o := range r.Options {
			sum += o.Votes
		}
		assert.Equal(t, r.TotalVotes, sum, "survey %d", r.ID)
	}
}

func TestResults_AggregateReflectsLock(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)

	survey := testutil.CreateTestSurvey(t, conn, "Lunch", "Pizza")
	testutil.LockTestSurvey(t, conn, survey.ID, true)

	results, err := s.Results.Aggregate(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].IsLocked)
}

func TestResults_Export(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := New(conn)
	ctx := context.Background()

	alice := testutil.CreateTestUser(t, conn, "111111111", false)
	bob := testutil.CreateTestUser(t, conn, "222222222", false)
	survey := testutil.CreateTestSurvey(t, conn, "Lunch", "Pizza", "Salad")
	quiet := testutil.CreateTestSurvey(t, conn, "Quiet", "Nobody")

	_, err := s.Votes.Cast(ctx, alice.ID, survey.ID, survey.Options[0].ID)
	require.NoError(t, err)
	_, err = s.Votes.Cast(ctx, bob.ID, survey.ID, survey.Options[1].ID)
	require.NoError(t, err)

	exports, err := s.Results.Export(ctx)
	require.NoError(t, err)
	require.Len(t, exports, 2)

	lunch := exports[0]
	assert.Equal(t, survey.ID, lunch.SurveyID)
	assert.Equal(t, "Lunch", lunch.SurveyTitle)
	require.Len(t, lunch.Votes, 2)

	byUser := map[string]models.ExportedVote{}
	for _, v := range lunch.Votes {
		byUser[v.User] = v
		_, err := time.Parse(models.ExportTimeLayout, v.VotedAt)
		assert.NoError(t, err, "timestamp %q", v.VotedAt)
	}
	assert.Equal(t, "Pizza", byUser[alice.DisplayName()].Option)
	assert.Equal(t, "Salad", byUser[bob.DisplayName()].Option)

	assert.Equal(t, quiet.ID, exports[1].SurveyID)
	assert.Empty(t, exports[1].Votes)
	assert.NotNil(t, exports[1].Votes)
}

func TestResults_EmptyDatabase(t *testing.T) {
	s := New(testutil.SetupTestDB(t))
	ctx := context.Background()

	results, err := s.Results.Aggregate(ctx)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)

	exports, err := s.Results.Export(ctx)
	require.NoError(t, err)
	assert.NotNil(t, exports)
	assert.Empty(t, exports)
}
