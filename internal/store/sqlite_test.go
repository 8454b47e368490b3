package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dialectlab/tweetsift/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	queries := []string{"southern accent -filter:retweets"}
	run, err := s.CreateRun(ctx, queries)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	err = s.CompleteRun(ctx, run.ID, &model.RunResult{
		Collected: 120,
		Deduped:   100,
		Kept:      7,
		Output:    "your_tweets.csv",
	})
	require.NoError(t, err)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	assert.Equal(t, queries, got.Queries)
	require.NotNil(t, got.Result)
	assert.Equal(t, 7, got.Result.Kept)
	assert.Equal(t, "your_tweets.csv", got.Result.Output)
}

func TestSQLiteStore_CompleteRun_FailedStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	run, err := s.CreateRun(ctx, []string{"q"})
	require.NoError(t, err)

	require.NoError(t, s.CompleteRun(ctx, run.ID, &model.RunResult{Error: "search blew up"}))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "search blew up", got.Result.Error)
}

func TestSQLiteStore_CompleteRun_NotFound(t *testing.T) {
	s := newTestSQLite(t)

	err := s.CompleteRun(context.Background(), "missing", &model.RunResult{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteStore_ListRuns_FilterAndOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	first, err := s.CreateRun(ctx, []string{"q1"})
	require.NoError(t, err)
	_, err = s.CreateRun(ctx, []string{"q2"})
	require.NoError(t, err)

	require.NoError(t, s.CompleteRun(ctx, first.ID, &model.RunResult{Kept: 1}))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	complete, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, first.ID, complete[0].ID)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteStore_SaveAndListTweets(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	run, err := s.CreateRun(ctx, []string{"q"})
	require.NoError(t, err)

	tweets := []model.ScoredTweet{
		{
			Tweet:        model.Tweet{CreatedAt: "t1", Name: "a", ScreenName: "a1", Location: "DC", Description: "", Text: "first"},
			Polarity:     0.5,
			Subjectivity: 0.4,
		},
		{
			Tweet:        model.Tweet{CreatedAt: "t2", Name: "b", ScreenName: "b1", Location: "DMV", Description: "d", Text: "second"},
			Polarity:     -0.2,
			Subjectivity: 0.1,
		},
	}
	require.NoError(t, s.SaveTweets(ctx, run.ID, tweets))

	got, err := s.ListTweets(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, tweets, got, "tweets round-trip in insertion order")
}

func TestSQLiteStore_ListTweets_EmptyRun(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	run, err := s.CreateRun(ctx, []string{"q"})
	require.NoError(t, err)

	got, err := s.ListTweets(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestOpen_SQLite(t *testing.T) {
	s, err := Open(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
