package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/dialectlab/tweetsift/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies
// it, so the postgres store is unit-testable without a live database.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	queries    JSONB NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	result     JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tweets (
	id           TEXT PRIMARY KEY,
	run_id       TEXT NOT NULL REFERENCES runs(id),
	seq          INTEGER NOT NULL,
	created_at   TEXT NOT NULL,
	name         TEXT NOT NULL,
	screen_name  TEXT NOT NULL,
	location     TEXT NOT NULL,
	description  TEXT NOT NULL,
	text         TEXT NOT NULL,
	polarity     DOUBLE PRECISION NOT NULL,
	subjectivity DOUBLE PRECISION NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_tweets_run_id ON tweets(run_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, queries []string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	queriesJSON, err := json.Marshal(queries)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal queries")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs (id, queries, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		id, string(queriesJSON), string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{
		ID:        id,
		Queries:   queries,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, result *model.RunResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	status := model.RunStatusComplete
	if result != nil && result.Error != "" {
		status = model.RunStatusFailed
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET result = $1, status = $2, updated_at = $3 WHERE id = $4`,
		string(resultJSON), string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("store: run %s not found", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, queries, status, result, created_at, updated_at FROM runs WHERE id = $1`,
		runID,
	)

	r, err := scanRun(row)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, queries, status, result, created_at, updated_at FROM runs`
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` WHERE status = $1`
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) SaveTweets(ctx context.Context, runID string, tweets []model.ScoredTweet) error {
	for i, t := range tweets {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO tweets (id, run_id, seq, created_at, name, screen_name, location, description, text, polarity, subjectivity)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			uuid.New().String(), runID, i,
			t.CreatedAt, t.Name, t.ScreenName, t.Location, t.Description, t.Text,
			t.Polarity, t.Subjectivity,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert tweet %d for run %s", i, runID)
		}
	}
	return nil
}

func (s *PostgresStore) ListTweets(ctx context.Context, runID string) ([]model.ScoredTweet, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT created_at, name, screen_name, location, description, text, polarity, subjectivity
		 FROM tweets WHERE run_id = $1 ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list tweets for run %s", runID)
	}
	defer rows.Close()

	var tweets []model.ScoredTweet
	for rows.Next() {
		var t model.ScoredTweet
		if err := rows.Scan(&t.CreatedAt, &t.Name, &t.ScreenName, &t.Location, &t.Description, &t.Text, &t.Polarity, &t.Subjectivity); err != nil {
			return nil, eris.Wrap(err, "postgres: scan tweet")
		}
		tweets = append(tweets, t)
	}
	return tweets, eris.Wrap(rows.Err(), "postgres: list tweets iterate")
}

// scanRun decodes one runs row from either QueryRow or Query rows.
func scanRun(row pgx.Row) (*model.Run, error) {
	var r model.Run
	var queriesJSON string
	var resultJSON *string
	if err := row.Scan(&r.ID, &queriesJSON, &r.Status, &resultJSON, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrap(err, "get run")
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(queriesJSON), &r.Queries); err != nil {
		return nil, eris.Wrap(err, "unmarshal queries")
	}
	if resultJSON != nil && *resultJSON != "" {
		if err := json.Unmarshal([]byte(*resultJSON), &r.Result); err != nil {
			return nil, eris.Wrap(err, "unmarshal result")
		}
	}
	return &r, nil
}
