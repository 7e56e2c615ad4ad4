// Package store persists the consolidated match table, the 2018 dimension
// tables and the pipeline run log.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/worldcup-etl/internal/model"
)

// ErrNotFound is returned when a match or run does not exist.
var ErrNotFound = eris.New("store: not found")

// MatchFilter specifies criteria for listing matches. Team matches either
// side of the fixture.
type MatchFilter struct {
	Edition string `json:"edition,omitempty"`
	Team    string `json:"team,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
}

// DimensionCounts reports rows written per 2018 dimension table.
type DimensionCounts struct {
	Stadiums   int64 `json:"stadiums"`
	Teams      int64 `json:"teams"`
	TVChannels int64 `json:"tv_channels"`
}

// Store defines the persistence interface for the World Cup pipeline.
type Store interface {
	// Matches
	ReplaceMatches(ctx context.Context, records []model.MatchRecord) (int64, error)
	ListMatches(ctx context.Context, filter MatchFilter) ([]model.MatchRecord, error)
	GetMatch(ctx context.Context, id int) (*model.MatchRecord, error)
	EditionCounts(ctx context.Context) ([]model.EditionCount, error)

	// Dimensions
	LoadDimensions(ctx context.Context, doc *model.Tournament2018) (DimensionCounts, error)

	// Runs
	StartRun(ctx context.Context, metadata map[string]any) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, result *model.RunResult) error
	FailRun(ctx context.Context, runID string, runErr error) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// matchColumns is the column order of world_cup_matches used for writes.
var matchColumns = []string{
	"id_match", "home_team", "away_team", "home_result", "away_result", "result",
	"date", "round", "city", "edition", "source", "stadium_id", "stadium_name",
}

const selectMatch = `SELECT id_match, home_team, away_team, home_result, away_result, result,
	date, round, city, edition, source, stadium_id, stadium_name FROM world_cup_matches`

const defaultLimit = 1000

func limitOrDefault(n int) int {
	if n <= 0 {
		return defaultLimit
	}
	return n
}

func runMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
