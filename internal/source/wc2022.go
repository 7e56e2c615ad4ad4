package source

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/worldcup-etl/internal/model"
	"github.com/sells-group/worldcup-etl/internal/normalize"
)

const edition2022 = 2022

// WorldCup2022 transforms the FIFA 2022 match file. Headers are lowercase
// with embedded spaces ("number of goals team1"); dates may be compact
// ("20Nov22") or lack the year ("20 Nov"). City is often missing and is
// filled later by the 2022 city enricher.
type WorldCup2022 struct {
	norm *normalize.Normalizer
}

// NewWorldCup2022 creates the 2022 transformer.
func NewWorldCup2022(n *normalize.Normalizer) *WorldCup2022 {
	return &WorldCup2022{norm: n}
}

// Name implements Source.
func (w *WorldCup2022) Name() string { return Name2022 }

type columns2022 struct {
	home, away           int
	homeGoals, awayGoals int
	date, year           int
	city, round          int
}

// locate maps headers the way the file evolves: team columns by exact name,
// the rest by the first header containing the keyword.
func (w *WorldCup2022) locate(tbl *model.Table) (columns2022, error) {
	c := columns2022{
		home: exactColumn(tbl, "team1"), away: exactColumn(tbl, "team2"),
		homeGoals: -1, awayGoals: -1, date: -1, year: -1, city: -1, round: -1,
	}
	for i, col := range tbl.Columns {
		name := normalizeCol(col)
		switch {
		case strings.Contains(name, "number of goals team1"):
			c.homeGoals = first(c.homeGoals, i)
		case strings.Contains(name, "number of goals team2"):
			c.awayGoals = first(c.awayGoals, i)
		case strings.Contains(name, "date"):
			c.date = first(c.date, i)
		case strings.Contains(name, "year"):
			c.year = first(c.year, i)
		case strings.Contains(name, "city"):
			c.city = first(c.city, i)
		case strings.Contains(name, "round"):
			c.round = first(c.round, i)
		}
	}

	switch {
	case c.home < 0:
		return c, missingColumn(w.Name(), "team1")
	case c.away < 0:
		return c, missingColumn(w.Name(), "team2")
	case c.homeGoals < 0:
		return c, missingColumn(w.Name(), "number of goals team1")
	case c.awayGoals < 0:
		return c, missingColumn(w.Name(), "number of goals team2")
	}
	return c, nil
}

func first(cur, i int) int {
	if cur >= 0 {
		return cur
	}
	return i
}

// Transform implements Source.
func (w *WorldCup2022) Transform(in Input) ([]model.Match, error) {
	tbl := in.Table
	if tbl.Empty() {
		return nil, nil
	}
	c, err := w.locate(tbl)
	if err != nil {
		return nil, err
	}

	out := make([]model.Match, 0, tbl.Len())
	for _, row := range tbl.Rows {
		year, ok := parseYear(cell(row, c.year))
		if !ok {
			year = edition2022
		}

		m := model.Match{
			HomeTeam: w.norm.Team(cell(row, c.home)),
			AwayTeam: w.norm.Team(cell(row, c.away)),
			City:     model.Unknown,
			Edition:  strconv.Itoa(year),
			Date:     parse2022Date(cell(row, c.date), year),
			Source:   w.Name(),
		}
		m.HomeResult, m.AwayResult = normalize.ParseScorePair(cell(row, c.homeGoals), cell(row, c.awayGoals))
		m.Result = normalize.ComputeResult(m.HomeResult, m.AwayResult, m.HomeTeam, m.AwayTeam)

		if c.city >= 0 {
			m.City = w.norm.CityOrUnknown(cell(row, c.city))
		}
		if c.round >= 0 {
			m.Round = w.norm.Round(cell(row, c.round))
		} else {
			m.Round = model.StringPtr(model.RoundGroupStage)
		}
		out = append(out, m)
	}

	zap.L().Info("source: transformed",
		zap.String("source", w.Name()),
		zap.Int("rows_in", tbl.Len()),
		zap.Int("rows_out", len(out)),
	)
	return out, nil
}

// parse2022Date parses compact dates, and completes "20 Nov" with the
// edition year before giving up.
func parse2022Date(raw string, year int) *time.Time {
	if normalize.IsMissing(raw) {
		return nil
	}
	s := strings.TrimSpace(raw)
	if len(strings.Fields(s)) == 2 && !hasYear(s) {
		return normalize.ParseDatetime(s + " " + strconv.Itoa(year))
	}
	return normalize.ParseCompactDate(s)
}
