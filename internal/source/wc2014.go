package source

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/sells-group/worldcup-etl/internal/model"
	"github.com/sells-group/worldcup-etl/internal/normalize"
)

const edition2014 = 2014

// WorldCup2014 transforms the semicolon-separated 2014 match file:
// "Home Team Name", "Away Team Name", "Home Team Goals", "Away Team Goals",
// "City", "Stage", "Year", "Datetime" ("13 Jul 2014 - 16:00").
type WorldCup2014 struct {
	norm *normalize.Normalizer
}

// NewWorldCup2014 creates the 2014 transformer.
func NewWorldCup2014(n *normalize.Normalizer) *WorldCup2014 {
	return &WorldCup2014{norm: n}
}

// Name implements Source.
func (w *WorldCup2014) Name() string { return Name2014 }

// Transform implements Source.
func (w *WorldCup2014) Transform(in Input) ([]model.Match, error) {
	tbl := in.Table
	if tbl.Empty() {
		return nil, nil
	}

	colHome := exactColumn(tbl, "Home Team Name")
	if colHome < 0 {
		return nil, missingColumn(w.Name(), "Home Team Name")
	}
	colAway := exactColumn(tbl, "Away Team Name")
	if colAway < 0 {
		return nil, missingColumn(w.Name(), "Away Team Name")
	}
	colHomeGoals := exactColumn(tbl, "Home Team Goals")
	colAwayGoals := exactColumn(tbl, "Away Team Goals")
	colCity := exactColumn(tbl, "City")
	colStage := exactColumn(tbl, "Stage")
	colYear := exactColumn(tbl, "Year")
	colDatetime := exactColumn(tbl, "Datetime")

	out := make([]model.Match, 0, tbl.Len())
	for _, row := range tbl.Rows {
		year, ok := parseYear(cell(row, colYear))
		if !ok {
			year = edition2014
		}

		m := model.Match{
			HomeTeam: w.norm.Team(cell(row, colHome)),
			AwayTeam: w.norm.Team(cell(row, colAway)),
			City:     model.Unknown,
			Edition:  strconv.Itoa(year),
			Source:   w.Name(),
		}
		m.HomeResult, m.AwayResult = normalize.ParseScorePair(cell(row, colHomeGoals), cell(row, colAwayGoals))
		m.Result = normalize.ComputeResult(m.HomeResult, m.AwayResult, m.HomeTeam, m.AwayTeam)

		if colCity >= 0 {
			m.City = w.norm.CityOrUnknown(cell(row, colCity))
		}
		if colStage >= 0 {
			m.Round = w.norm.Round(cell(row, colStage))
		} else {
			m.Round = model.StringPtr(model.RoundGroupStage)
		}
		if colDatetime >= 0 {
			m.Date = normalize.ParseDatetime(cell(row, colDatetime))
		} else {
			m.Date = placeholderDate(year)
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
