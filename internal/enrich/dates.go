// Package enrich corrects fields of already-transformed matches against
// secondary reference files: exact dates for the 1930-2010 source and
// host cities for 2022.
package enrich

import (
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/worldcup-etl/internal/model"
	"github.com/sells-group/worldcup-etl/internal/normalize"
)

// Enricher holds the normalizer used to align reference rows with matches.
type Enricher struct {
	norm *normalize.Normalizer
	log  *zap.Logger
}

// New creates an Enricher.
func New(n *normalize.Normalizer) *Enricher {
	return &Enricher{
		norm: n,
		log:  zap.L().With(zap.String("component", "enrich")),
	}
}

// pairKey identifies a team pair within one edition, order-insensitive.
type pairKey struct {
	a, b string
	year int
}

func newPairKey(home, away string, year int) pairKey {
	if away < home {
		home, away = away, home
	}
	return pairKey{a: home, b: away, year: year}
}

// DateStats summarizes a historical-date pass.
type DateStats struct {
	Candidates  int `json:"candidates"`
	MultiGroups int `json:"multi_groups"`
	Updated     int `json:"updated"`
	Issues      int `json:"issues"`
}

// HistoricalDates replaces placeholder dates of matches at or before
// cutoff with exact dates from refs. When a team pair met more than once in
// an edition, matches are ranked by round then by current date, and the
// i-th earliest candidate date goes to the i-th ranked match. Matches with
// no candidate keep their date. The input slice is not modified.
func (e *Enricher) HistoricalDates(matches []model.Match, refs []model.HistoricalDate, cutoff int) ([]model.Match, DateStats) {
	out := make([]model.Match, len(matches))
	copy(out, matches)

	var stats DateStats
	if len(refs) == 0 {
		return out, stats
	}

	pool := e.datePool(refs)
	for _, dates := range pool {
		stats.Candidates += len(dates)
	}

	groups := make(map[pairKey][]int)
	var keys []pairKey
	for i := range out {
		year, err := strconv.Atoi(out[i].Edition)
		if err != nil || year > cutoff {
			continue
		}
		k := newPairKey(out[i].HomeTeam, out[i].AwayTeam, year)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], i)
	}

	for _, k := range keys {
		idx := groups[k]
		dates := pool[k]
		if len(dates) == 0 {
			continue
		}
		if len(idx) > 1 {
			stats.MultiGroups++
			sortByRound(out, idx)
			if len(dates) < len(idx) {
				e.log.Warn("enrich: fewer candidate dates than matches",
					zap.String("team_a", k.a),
					zap.String("team_b", k.b),
					zap.Int("year", k.year),
					zap.Int("matches", len(idx)),
					zap.Int("dates", len(dates)),
				)
			}
		}
		for rank, i := range idx {
			if rank >= len(dates) {
				break
			}
			if setDate(&out[i], dates[rank]) {
				stats.Updated++
			}
		}
	}

	stats.Issues = e.verify(out, groups)
	e.log.Info("enrich: historical dates applied",
		zap.Int("candidates", stats.Candidates),
		zap.Int("multi_groups", stats.MultiGroups),
		zap.Int("updated", stats.Updated),
		zap.Int("issues", stats.Issues),
	)
	return out, stats
}

// datePool parses the reference rows into sorted candidate dates per pair.
func (e *Enricher) datePool(refs []model.HistoricalDate) map[pairKey][]time.Time {
	pool := make(map[pairKey][]time.Time)
	var skipped int
	for _, r := range refs {
		d := normalize.ParseDayFirstDate(r.Date)
		if d == nil {
			skipped++
			continue
		}
		k := newPairKey(e.norm.Team(r.HomeTeam), e.norm.Team(r.AwayTeam), d.Year())
		pool[k] = append(pool[k], *d)
	}
	for k := range pool {
		sort.Slice(pool[k], func(i, j int) bool { return pool[k][i].Before(pool[k][j]) })
	}
	if skipped > 0 {
		e.log.Warn("enrich: reference rows without a usable date", zap.Int("skipped", skipped))
	}
	return pool
}

// sortByRound orders match indices by round precedence, then by date.
func sortByRound(matches []model.Match, idx []int) {
	sort.SliceStable(idx, func(x, y int) bool {
		a, b := &matches[idx[x]], &matches[idx[y]]
		ra, rb := model.RoundOrder(a.Round), model.RoundOrder(b.Round)
		if ra != rb {
			return ra < rb
		}
		switch {
		case a.Date == nil:
			return false
		case b.Date == nil:
			return true
		default:
			return a.Date.Before(*b.Date)
		}
	})
}

func setDate(m *model.Match, d time.Time) bool {
	if m.Date != nil && m.Date.Equal(d) {
		return false
	}
	m.Date = model.TimePtr(d)
	return true
}

// verify re-checks every multi-match group: the match count is unchanged
// and each match has its own date. Discrepancies are logged and counted.
func (e *Enricher) verify(matches []model.Match, groups map[pairKey][]int) int {
	var issues int
	for k, idx := range groups {
		if len(idx) < 2 {
			continue
		}
		var count int
		seen := make(map[time.Time]bool, len(idx))
		for i := range matches {
			year, err := strconv.Atoi(matches[i].Edition)
			if err != nil || newPairKey(matches[i].HomeTeam, matches[i].AwayTeam, year) != k {
				continue
			}
			count++
			if matches[i].Date != nil {
				seen[*matches[i].Date] = true
			}
		}
		if count != len(idx) {
			issues++
			e.log.Warn("enrich: match count changed",
				zap.String("team_a", k.a), zap.String("team_b", k.b), zap.Int("year", k.year),
				zap.Int("expected", len(idx)), zap.Int("found", count),
			)
			continue
		}
		if len(seen) < count {
			issues++
			e.log.Warn("enrich: duplicate dates within pair",
				zap.String("team_a", k.a), zap.String("team_b", k.b), zap.Int("year", k.year),
				zap.Int("matches", count), zap.Int("distinct_dates", len(seen)),
			)
		}
	}
	return issues
}
