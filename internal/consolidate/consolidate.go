// Package consolidate merges the per-source match tables into the final
// numbered table and checks it for consistency.
package consolidate

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/worldcup-etl/internal/model"
)

// FinalColumns is the column set of the consolidated table, in order.
var FinalColumns = []string{
	"id_match", "home_team", "away_team", "home_result", "away_result",
	"result", "date", "round", "city", "edition",
}

// Stats counts rows through each consolidation step.
type Stats struct {
	Inputs       int `json:"inputs"`
	RowsIn       int `json:"rows_in"`
	DateFallback int `json:"date_fallback"`
	NoTeam       int `json:"no_team"`
	Preliminary  int `json:"preliminary"`
	Duplicates   int `json:"duplicates"`
	RowsOut      int `json:"rows_out"`
}

// Consolidate merges tables in the order given, which must be the fixed
// source order: rows are deduplicated on (home_team, away_team, date,
// round) keeping the first occurrence, then stably sorted by date and
// numbered from 1.
func Consolidate(tables ...[]model.Match) ([]model.MatchRecord, error) {
	records, _, err := ConsolidateWithStats(tables...)
	return records, err
}

// ConsolidateWithStats is Consolidate that also returns step counts.
func ConsolidateWithStats(tables ...[]model.Match) ([]model.MatchRecord, Stats, error) {
	log := zap.L().With(zap.String("component", "consolidate"))
	var stats Stats

	// 1-2. Drop empty inputs, concatenate the rest in order.
	var all []model.Match
	for i, tbl := range tables {
		if len(tbl) == 0 {
			log.Warn("consolidate: skipping empty input", zap.Int("input", i))
			continue
		}
		stats.Inputs++
		for _, m := range tbl {
			all = append(all, m.Clone())
		}
	}
	if stats.Inputs == 0 {
		return nil, stats, &ConsolidationError{Stage: "input", Err: ErrNoInput}
	}
	stats.RowsIn = len(all)

	// 3. Coarse date fallback for dateless rows.
	for i := range all {
		if all[i].Date != nil {
			continue
		}
		if d := editionNewYear(all[i].Edition); d != nil {
			all[i].Date = d
			stats.DateFallback++
		}
	}

	// 4-6. Identity, round exclusion, first-occurrence dedup.
	kept := all[:0]
	seen := make(map[dedupKey]bool, len(all))
	for _, m := range all {
		switch {
		case strings.TrimSpace(m.HomeTeam) == "" || strings.TrimSpace(m.AwayTeam) == "":
			stats.NoTeam++
			continue
		case IsPreliminary(m.Round):
			stats.Preliminary++
			continue
		}
		k := keyOf(&m)
		if seen[k] {
			stats.Duplicates++
			continue
		}
		seen[k] = true
		kept = append(kept, m)
	}

	// 7. Stable date order; dateless rows last.
	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i].Date, kept[j].Date
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	records := make([]model.MatchRecord, len(kept))
	for i, m := range kept {
		records[i] = model.MatchRecord{IDMatch: i + 1, Match: m}
	}

	// 8. Projection check.
	if err := checkColumns(Project(records).Columns); err != nil {
		return nil, stats, &ConsolidationError{Stage: "projection", Err: err}
	}

	stats.RowsOut = len(records)
	log.Info("consolidate: complete",
		zap.Int("inputs", stats.Inputs),
		zap.Int("rows_in", stats.RowsIn),
		zap.Int("date_fallback", stats.DateFallback),
		zap.Int("no_team", stats.NoTeam),
		zap.Int("preliminary", stats.Preliminary),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("rows_out", stats.RowsOut),
	)
	return records, stats, nil
}

// IsPreliminary reports whether a round label denotes a qualification match.
func IsPreliminary(round *string) bool {
	return round != nil && strings.Contains(strings.ToLower(*round), "preliminary")
}

type dedupKey struct {
	home, away, date, round string
}

func keyOf(m *model.Match) dedupKey {
	return dedupKey{home: m.HomeTeam, away: m.AwayTeam, date: m.DateString(), round: m.RoundLabel()}
}

func editionNewYear(edition string) *time.Time {
	y, err := strconv.Atoi(strings.TrimSpace(edition))
	if err != nil || y <= 0 {
		return nil
	}
	return model.TimePtr(model.Day(y, time.January, 1))
}

// Project renders records as a table with FinalColumns. Absent optional
// values become empty cells.
func Project(records []model.MatchRecord) *model.Table {
	tbl := &model.Table{
		Columns: append([]string(nil), FinalColumns...),
		Rows:    make([][]string, 0, len(records)),
	}
	for i := range records {
		r := &records[i]
		tbl.Rows = append(tbl.Rows, []string{
			strconv.Itoa(r.IDMatch),
			r.HomeTeam,
			r.AwayTeam,
			intCell(r.HomeResult),
			intCell(r.AwayResult),
			r.ResultLabel(),
			r.DateString(),
			r.RoundLabel(),
			r.City,
			r.Edition,
		})
	}
	return tbl
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func checkColumns(columns []string) error {
	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[c] = true
	}
	var missing []string
	for _, c := range FinalColumns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return eris.Wrapf(ErrMissingColumn, "consolidate: columns %s", strings.Join(missing, ", "))
	}
	return nil
}
