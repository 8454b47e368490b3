package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dialectlab/tweetsift/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_CreateRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs(pgxmock.AnyArg(), `["q1","q2"]`, "running", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), []string{"q1", "q2"})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CompleteRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET result`).
		WithArgs(pgxmock.AnyArg(), "complete", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.CompleteRun(context.Background(), "missing", &model.RunResult{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, queries, status, result, created_at, updated_at FROM runs WHERE id = \$1`).
		WithArgs("nonexistent-run").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "nonexistent-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveTweets(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	tweets := []model.ScoredTweet{
		{Tweet: model.Tweet{CreatedAt: "t1", Text: "first"}, Polarity: 0.1, Subjectivity: 0.2},
		{Tweet: model.Tweet{CreatedAt: "t2", Text: "second"}, Polarity: -0.3, Subjectivity: 0.4},
	}
	for i, tw := range tweets {
		mock.ExpectExec(`INSERT INTO tweets`).
			WithArgs(pgxmock.AnyArg(), "run-1", i,
				tw.CreatedAt, tw.Name, tw.ScreenName, tw.Location, tw.Description, tw.Text,
				tw.Polarity, tw.Subjectivity).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	require.NoError(t, s.SaveTweets(context.Background(), "run-1", tweets))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListTweets(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{
		"created_at", "name", "screen_name", "location", "description", "text", "polarity", "subjectivity",
	}).
		AddRow("t1", "a", "a1", "DC", "", "first", 0.5, 0.4).
		AddRow("t2", "b", "b1", "DMV", "d", "second", -0.2, 0.1)

	mock.ExpectQuery(`SELECT .+ FROM tweets WHERE run_id = \$1 ORDER BY seq`).
		WithArgs("run-1").
		WillReturnRows(rows)

	tweets, err := s.ListTweets(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, tweets, 2)
	assert.Equal(t, "first", tweets[0].Text)
	assert.Equal(t, -0.2, tweets[1].Polarity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{"id", "queries", "status", "result", "created_at", "updated_at"}).
		AddRow("run-1", `["q1"]`, model.RunStatusComplete, strPtr(`{"kept":3}`), now(), now())

	mock.ExpectQuery(`SELECT id, queries, status, result, created_at, updated_at FROM runs`).
		WithArgs("complete", 100).
		WillReturnRows(rows)

	runs, err := s.ListRuns(context.Background(), RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, []string{"q1"}, runs[0].Queries)
	require.NotNil(t, runs[0].Result)
	assert.Equal(t, 3, runs[0].Result.Kept)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func strPtr(s string) *string { return &s }

func now() time.Time { return time.Now().UTC() }
