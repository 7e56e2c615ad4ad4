package source

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/sells-group/worldcup-etl/internal/model"
	"github.com/sells-group/worldcup-etl/internal/normalize"
)

// Historic transforms the 1930-2010 match file. It only carries the edition
// year, so every match gets a July 1st placeholder date that the historical
// dates enricher later corrects.
type Historic struct {
	norm *normalize.Normalizer

	// ExcludeYear drops rows for the edition a dedicated source covers.
	ExcludeYear int
}

// NewHistoric creates the historic transformer.
func NewHistoric(n *normalize.Normalizer, excludeYear int) *Historic {
	return &Historic{norm: n, ExcludeYear: excludeYear}
}

// Name implements Source.
func (h *Historic) Name() string { return NameHistoric }

// Transform implements Source.
func (h *Historic) Transform(in Input) ([]model.Match, error) {
	tbl := in.Table
	if tbl.Empty() {
		return nil, nil
	}
	log := zap.L().With(zap.String("source", h.Name()))

	colHome := findColumn(tbl, "team1", "home")
	if colHome < 0 {
		return nil, missingColumn(h.Name(), "team1")
	}
	colAway := findColumn(tbl, "team2", "away")
	if colAway < 0 {
		return nil, missingColumn(h.Name(), "team2")
	}
	colScore := exactColumn(tbl, "score")
	if colScore < 0 {
		colScore = findColumn(tbl, "score")
	}
	if colScore < 0 {
		return nil, missingColumn(h.Name(), "score")
	}
	colYear := findColumn(tbl, "year")
	if colYear < 0 {
		return nil, missingColumn(h.Name(), "year")
	}
	colCity := findColumn(tbl, "venue", "city")
	colRound := findColumn(tbl, "round")

	out := make([]model.Match, 0, tbl.Len())
	var excluded, noYear int
	for _, row := range tbl.Rows {
		year, ok := parseYear(cell(row, colYear))
		if !ok {
			noYear++
			log.Warn("source: historic row without edition year",
				zap.String("home", cell(row, colHome)),
				zap.String("away", cell(row, colAway)),
			)
			continue
		}
		if year == h.ExcludeYear {
			excluded++
			continue
		}

		m := model.Match{
			HomeTeam: h.norm.Team(cell(row, colHome)),
			AwayTeam: h.norm.Team(cell(row, colAway)),
			Date:     placeholderDate(year),
			Round:    h.norm.Round(cell(row, colRound)),
			City:     h.norm.CityOrUnknown(cell(row, colCity)),
			Edition:  strconv.Itoa(year),
			Source:   h.Name(),
		}
		m.HomeResult, m.AwayResult = normalize.ParseScore(cell(row, colScore))
		m.Result = normalize.ComputeResult(m.HomeResult, m.AwayResult, m.HomeTeam, m.AwayTeam)
		out = append(out, m)
	}

	log.Info("source: transformed",
		zap.Int("rows_in", tbl.Len()),
		zap.Int("rows_out", len(out)),
		zap.Int("excluded_year", excluded),
		zap.Int("no_year", noYear),
	)
	return out, nil
}
