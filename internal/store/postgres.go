package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/worldcup-etl/internal/db"
	"github.com/sells-group/worldcup-etl/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection.
// Callers pass the statement name in place of SQL.
var preparedStatements = map[string]string{
	"insert_run":   `INSERT INTO runs (id, status, started_at, metadata) VALUES ($1, $2, $3, $4)`,
	"complete_run": `UPDATE runs SET status = $1, completed_at = $2, rows_loaded = $3, warnings = $4, metadata = COALESCE($5, metadata) WHERE id = $6`,
	"fail_run":     `UPDATE runs SET status = $1, completed_at = $2, error = $3 WHERE id = $4`,
	"get_run":      selectRun + ` WHERE id = $1`,
	"get_match":    selectMatch + ` WHERE id_match = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS world_cup_matches (
	id_match     INTEGER PRIMARY KEY,
	home_team    TEXT NOT NULL,
	away_team    TEXT NOT NULL,
	home_result  INTEGER,
	away_result  INTEGER,
	result       TEXT,
	date         DATE,
	round        TEXT,
	city         TEXT NOT NULL DEFAULT '',
	edition      TEXT NOT NULL,
	source       TEXT NOT NULL DEFAULT '',
	stadium_id   INTEGER,
	stadium_name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS stadiums (
	id    INTEGER PRIMARY KEY,
	name  TEXT NOT NULL,
	city  TEXT NOT NULL DEFAULT '',
	lat   DOUBLE PRECISION,
	lng   DOUBLE PRECISION,
	image TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS teams (
	id        INTEGER PRIMARY KEY,
	name      TEXT NOT NULL,
	fifa_code TEXT NOT NULL DEFAULT '',
	iso2      TEXT NOT NULL DEFAULT '',
	flag      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tv_channels (
	id      INTEGER PRIMARY KEY,
	name    TEXT NOT NULL,
	country TEXT NOT NULL DEFAULT '',
	iso2    TEXT NOT NULL DEFAULT '',
	lang    TEXT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	status       TEXT NOT NULL DEFAULT 'running',
	started_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at TIMESTAMPTZ,
	rows_loaded  BIGINT NOT NULL DEFAULT 0,
	warnings     INTEGER NOT NULL DEFAULT 0,
	error        TEXT NOT NULL DEFAULT '',
	metadata     JSONB
);

CREATE INDEX IF NOT EXISTS idx_matches_edition ON world_cup_matches(edition);
CREATE INDEX IF NOT EXISTS idx_matches_home_team ON world_cup_matches(lower(home_team));
CREATE INDEX IF NOT EXISTS idx_matches_away_team ON world_cup_matches(lower(away_team));
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
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

// ReplaceMatches swaps the full match table for records using COPY inside
// one transaction.
func (s *PostgresStore) ReplaceMatches(ctx context.Context, records []model.MatchRecord) (int64, error) {
	rows := make([][]any, len(records))
	for i := range records {
		rows[i] = postgresMatchRow(&records[i])
	}
	n, err := db.ReplaceTable(ctx, s.pool, "world_cup_matches", matchColumns, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: replace matches")
	}
	return n, nil
}

func postgresMatchRow(r *model.MatchRecord) []any {
	var date any
	if r.Date != nil {
		date = *r.Date
	}
	return []any{
		r.IDMatch, r.HomeTeam, r.AwayTeam,
		nullableInt(r.HomeResult), nullableInt(r.AwayResult), nullableString(r.Result),
		date, nullableString(r.Round), r.City, r.Edition, r.Source,
		nullableInt(r.StadiumID), r.StadiumName,
	}
}

func (s *PostgresStore) ListMatches(ctx context.Context, filter MatchFilter) ([]model.MatchRecord, error) {
	query := selectMatch + ` WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Edition != "" {
		query += fmt.Sprintf(` AND edition = $%d`, argIdx)
		args = append(args, filter.Edition)
		argIdx++
	}
	if filter.Team != "" {
		query += fmt.Sprintf(` AND (lower(home_team) = lower($%d) OR lower(away_team) = lower($%d))`, argIdx, argIdx)
		args = append(args, filter.Team)
		argIdx++
	}
	query += ` ORDER BY id_match`

	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limitOrDefault(filter.Limit))
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list matches")
	}
	defer rows.Close()

	var out []model.MatchRecord
	for rows.Next() {
		rec, err := scanPostgresMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate matches")
}

func (s *PostgresStore) GetMatch(ctx context.Context, id int) (*model.MatchRecord, error) {
	rec, err := scanPostgresMatch(s.pool.QueryRow(ctx, "get_match", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "postgres: match %d", id)
		}
		return nil, eris.Wrapf(err, "postgres: get match %d", id)
	}
	return rec, nil
}

func (s *PostgresStore) EditionCounts(ctx context.Context) ([]model.EditionCount, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT edition, COUNT(*)::int FROM world_cup_matches GROUP BY edition ORDER BY edition`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: edition counts")
	}
	defer rows.Close()

	var out []model.EditionCount
	for rows.Next() {
		var ec model.EditionCount
		if err := rows.Scan(&ec.Edition, &ec.Matches); err != nil {
			return nil, eris.Wrap(err, "postgres: scan edition count")
		}
		out = append(out, ec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate edition counts")
}

// LoadDimensions upserts the 2018 stadiums, teams and TV channels by id.
func (s *PostgresStore) LoadDimensions(ctx context.Context, doc *model.Tournament2018) (DimensionCounts, error) {
	var counts DimensionCounts
	if doc == nil {
		return counts, nil
	}

	stadiums := make([][]any, len(doc.Stadiums))
	for i, st := range doc.Stadiums {
		stadiums[i] = []any{st.ID, st.Name, st.City, st.Lat, st.Lng, st.Image}
	}
	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "stadiums",
		Columns:      []string{"id", "name", "city", "lat", "lng", "image"},
		ConflictKeys: []string{"id"},
	}, stadiums)
	if err != nil {
		return counts, eris.Wrap(err, "postgres: load stadiums")
	}
	counts.Stadiums = n

	teams := make([][]any, len(doc.Teams))
	for i, tm := range doc.Teams {
		teams[i] = []any{tm.ID, tm.Name, tm.FIFACode, tm.ISO2, tm.Flag}
	}
	n, err = db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "teams",
		Columns:      []string{"id", "name", "fifa_code", "iso2", "flag"},
		ConflictKeys: []string{"id"},
	}, teams)
	if err != nil {
		return counts, eris.Wrap(err, "postgres: load teams")
	}
	counts.Teams = n

	channels := make([][]any, len(doc.TVChannels))
	for i, ch := range doc.TVChannels {
		lang := ch.Lang
		if lang == nil {
			lang = []string{}
		}
		channels[i] = []any{ch.ID, ch.Name, ch.Country, ch.ISO2, lang}
	}
	n, err = db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "tv_channels",
		Columns:      []string{"id", "name", "country", "iso2", "lang"},
		ConflictKeys: []string{"id"},
	}, channels)
	if err != nil {
		return counts, eris.Wrap(err, "postgres: load tv channels")
	}
	counts.TVChannels = n

	return counts, nil
}

func (s *PostgresStore) StartRun(ctx context.Context, metadata map[string]any) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	metaJSON, err := marshalMetadata(metadata)
	if err != nil {
		return nil, err
	}

	_, err = s.pool.Exec(ctx, "insert_run", id, string(model.RunStatusRunning), now, metaJSON)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{
		ID:        id,
		Status:    model.RunStatusRunning,
		StartedAt: now,
		Metadata:  metadata,
	}, nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, result *model.RunResult) error {
	if result == nil {
		result = &model.RunResult{}
	}
	metaJSON, err := marshalMetadata(result.Metadata)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, "complete_run",
		string(model.RunStatusComplete), time.Now().UTC(), result.RowsLoaded, result.Warnings, metaJSON, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "run %s", runID)
	}
	return nil
}

func (s *PostgresStore) FailRun(ctx context.Context, runID string, runErr error) error {
	tag, err := s.pool.Exec(ctx, "fail_run",
		string(model.RunStatusFailed), time.Now().UTC(), runMessage(runErr), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: fail run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "run %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	r, err := scanPostgresRun(s.pool.QueryRow(ctx, "get_run", runID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "postgres: run %s", runID)
		}
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := selectRun + ` WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	query += ` ORDER BY started_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanPostgresRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

func scanPostgresMatch(row scannable) (*model.MatchRecord, error) {
	var rec model.MatchRecord
	err := row.Scan(&rec.IDMatch, &rec.HomeTeam, &rec.AwayTeam, &rec.HomeResult, &rec.AwayResult, &rec.Result,
		&rec.Date, &rec.Round, &rec.City, &rec.Edition, &rec.Source, &rec.StadiumID, &rec.StadiumName)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanPostgresRun(row scannable) (*model.Run, error) {
	var r model.Run
	var metaJSON []byte
	err := row.Scan(&r.ID, &r.Status, &r.StartedAt, &r.CompletedAt, &r.RowsLoaded, &r.Warnings, &r.Error, &metaJSON)
	if err != nil {
		return nil, err
	}
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &r.Metadata); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal run metadata")
		}
	}
	return &r, nil
}
