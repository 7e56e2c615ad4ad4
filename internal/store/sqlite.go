package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/worldcup-etl/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS world_cup_matches (
	id_match     INTEGER PRIMARY KEY,
	home_team    TEXT NOT NULL,
	away_team    TEXT NOT NULL,
	home_result  INTEGER,
	away_result  INTEGER,
	result       TEXT,
	date         TEXT,
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
	lat   REAL,
	lng   REAL,
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
	lang    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	status       TEXT NOT NULL DEFAULT 'running',
	started_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	completed_at DATETIME,
	rows_loaded  INTEGER NOT NULL DEFAULT 0,
	warnings     INTEGER NOT NULL DEFAULT 0,
	error        TEXT NOT NULL DEFAULT '',
	metadata     TEXT
);

CREATE INDEX IF NOT EXISTS idx_matches_edition ON world_cup_matches(edition);
CREATE INDEX IF NOT EXISTS idx_matches_home_team ON world_cup_matches(home_team);
CREATE INDEX IF NOT EXISTS idx_matches_away_team ON world_cup_matches(away_team);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReplaceMatches swaps the full match table for records in one transaction.
func (s *SQLiteStore) ReplaceMatches(ctx context.Context, records []model.MatchRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM world_cup_matches`); err != nil {
		return 0, eris.Wrap(err, "sqlite: clear matches")
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(matchColumns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO world_cup_matches (%s) VALUES (%s)`, strings.Join(matchColumns, ", "), placeholders))
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	for i := range records {
		if _, err := stmt.ExecContext(ctx, sqliteMatchArgs(&records[i])...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert match %d", records[i].IDMatch)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit tx")
	}
	return int64(len(records)), nil
}

func sqliteMatchArgs(r *model.MatchRecord) []any {
	var date any
	if r.Date != nil {
		date = r.DateString()
	}
	return []any{
		r.IDMatch, r.HomeTeam, r.AwayTeam,
		nullableInt(r.HomeResult), nullableInt(r.AwayResult), nullableString(r.Result),
		date, nullableString(r.Round), r.City, r.Edition, r.Source,
		nullableInt(r.StadiumID), r.StadiumName,
	}
}

func (s *SQLiteStore) ListMatches(ctx context.Context, filter MatchFilter) ([]model.MatchRecord, error) {
	query := selectMatch + ` WHERE 1=1`
	var args []any

	if filter.Edition != "" {
		query += ` AND edition = ?`
		args = append(args, filter.Edition)
	}
	if filter.Team != "" {
		query += ` AND (home_team = ? COLLATE NOCASE OR away_team = ? COLLATE NOCASE)`
		args = append(args, filter.Team, filter.Team)
	}
	query += ` ORDER BY id_match LIMIT ? OFFSET ?`
	args = append(args, limitOrDefault(filter.Limit), filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list matches")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.MatchRecord
	for rows.Next() {
		rec, err := scanSQLiteMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate matches")
}

func (s *SQLiteStore) GetMatch(ctx context.Context, id int) (*model.MatchRecord, error) {
	row := s.db.QueryRowContext(ctx, selectMatch+` WHERE id_match = ?`, id)
	rec, err := scanSQLiteMatch(row)
	if eris.Is(err, ErrNotFound) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: match %d", id)
	}
	return rec, err
}

func (s *SQLiteStore) EditionCounts(ctx context.Context) ([]model.EditionCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT edition, COUNT(*) FROM world_cup_matches GROUP BY edition ORDER BY edition`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: edition counts")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.EditionCount
	for rows.Next() {
		var ec model.EditionCount
		if err := rows.Scan(&ec.Edition, &ec.Matches); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan edition count")
		}
		out = append(out, ec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate edition counts")
}

// LoadDimensions upserts the 2018 stadiums, teams and TV channels by id.
func (s *SQLiteStore) LoadDimensions(ctx context.Context, doc *model.Tournament2018) (DimensionCounts, error) {
	var counts DimensionCounts
	if doc == nil {
		return counts, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return counts, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	for _, st := range doc.Stadiums {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO stadiums (id, name, city, lat, lng, image) VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, city = excluded.city,
			 lat = excluded.lat, lng = excluded.lng, image = excluded.image`,
			st.ID, st.Name, st.City, st.Lat, st.Lng, st.Image,
		); err != nil {
			return counts, eris.Wrapf(err, "sqlite: upsert stadium %d", st.ID)
		}
		counts.Stadiums++
	}
	for _, tm := range doc.Teams {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO teams (id, name, fifa_code, iso2, flag) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, fifa_code = excluded.fifa_code,
			 iso2 = excluded.iso2, flag = excluded.flag`,
			tm.ID, tm.Name, tm.FIFACode, tm.ISO2, tm.Flag,
		); err != nil {
			return counts, eris.Wrapf(err, "sqlite: upsert team %d", tm.ID)
		}
		counts.Teams++
	}
	for _, ch := range doc.TVChannels {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tv_channels (id, name, country, iso2, lang) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, country = excluded.country,
			 iso2 = excluded.iso2, lang = excluded.lang`,
			ch.ID, ch.Name, ch.Country, ch.ISO2, strings.Join(ch.Lang, ","),
		); err != nil {
			return counts, eris.Wrapf(err, "sqlite: upsert tv channel %d", ch.ID)
		}
		counts.TVChannels++
	}

	if err := tx.Commit(); err != nil {
		return DimensionCounts{}, eris.Wrap(err, "sqlite: commit tx")
	}
	return counts, nil
}

func (s *SQLiteStore) StartRun(ctx context.Context, metadata map[string]any) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	metaJSON, err := marshalMetadata(metadata)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, started_at, metadata) VALUES (?, ?, ?, ?)`,
		id, string(model.RunStatusRunning), now, metaJSON,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.Run{
		ID:        id,
		Status:    model.RunStatusRunning,
		StartedAt: now,
		Metadata:  metadata,
	}, nil
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, result *model.RunResult) error {
	if result == nil {
		result = &model.RunResult{}
	}
	metaJSON, err := marshalMetadata(result.Metadata)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, completed_at = ?, rows_loaded = ?, warnings = ?,
		 metadata = COALESCE(?, metadata) WHERE id = ?`,
		string(model.RunStatusComplete), time.Now().UTC(), result.RowsLoaded, result.Warnings, metaJSON, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) FailRun(ctx context.Context, runID string, runErr error) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, completed_at = ?, error = ? WHERE id = ?`,
		string(model.RunStatusFailed), time.Now().UTC(), runMessage(runErr), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

const selectRun = `SELECT id, status, started_at, completed_at, rows_loaded, warnings, error, metadata FROM runs`

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, runID)
	run, err := scanRun(row)
	if eris.Is(err, ErrNotFound) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: run %s", runID)
	}
	return run, err
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := selectRun + ` WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSQLiteMatch(row scannable) (*model.MatchRecord, error) {
	var rec model.MatchRecord
	var homeResult, awayResult, stadiumID sql.NullInt64
	var result, date, round sql.NullString

	err := row.Scan(&rec.IDMatch, &rec.HomeTeam, &rec.AwayTeam, &homeResult, &awayResult, &result,
		&date, &round, &rec.City, &rec.Edition, &rec.Source, &stadiumID, &rec.StadiumName)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan match")
	}

	rec.HomeResult = intFromNull(homeResult)
	rec.AwayResult = intFromNull(awayResult)
	rec.StadiumID = intFromNull(stadiumID)
	if result.Valid {
		rec.Result = model.StringPtr(result.String)
	}
	if round.Valid {
		rec.Round = model.StringPtr(round.String)
	}
	if date.Valid && date.String != "" {
		d, err := time.Parse(model.DateLayout, date.String)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse date of match %d", rec.IDMatch)
		}
		rec.Date = &d
	}
	return &rec, nil
}

func scanRun(row scannable) (*model.Run, error) {
	var r model.Run
	var completedAt sql.NullTime
	var metaJSON sql.NullString

	err := row.Scan(&r.ID, &r.Status, &r.StartedAt, &completedAt, &r.RowsLoaded, &r.Warnings, &r.Error, &metaJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
	}
	if metaJSON.Valid && metaJSON.String != "" {
		if err := json.Unmarshal([]byte(metaJSON.String), &r.Metadata); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal run metadata")
		}
	}
	return &r, nil
}

func marshalMetadata(m map[string]any) (any, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, eris.Wrap(err, "store: marshal run metadata")
	}
	return string(b), nil
}

func intFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	return model.IntPtr(int(n.Int64))
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
