package ingest

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/worldcup-etl/internal/fetcher"
	"github.com/sells-group/worldcup-etl/internal/model"
)

const (
	refDates  = "historical_dates"
	refCities = "cities_2022"
)

// HistoricalDates reads the exact-date reference. Columns are positional
// (home team, away team, date); the header row is skipped whatever it says.
// Any failure, including a missing file, logs a warning and returns nil.
func (e *Extractor) HistoricalDates(ctx context.Context) []model.HistoricalDate {
	tbl, err := e.optionalTable(ctx, refDates, e.loc.HistoricalDates, fetcher.TableOptions{
		Delimiters: []rune{',', ';'},
		CleanCell:  cleanDateCell,
	})
	if tbl == nil {
		if err != nil {
			e.log.Warn("ingest: historical dates unavailable", zap.Error(err))
		}
		return nil
	}
	if len(tbl.Columns) < 3 {
		e.log.Warn("ingest: historical dates need 3 columns", zap.Strings("columns", tbl.Columns))
		return nil
	}

	var out []model.HistoricalDate
	var dropped int
	for _, row := range tbl.Rows {
		d := model.HistoricalDate{
			HomeTeam: tbl.Cell(row, 0),
			AwayTeam: tbl.Cell(row, 1),
			Date:     strings.TrimSpace(tbl.Cell(row, 2)),
		}
		if d.HomeTeam == "" || d.AwayTeam == "" || d.Date == "" {
			dropped++
			continue
		}
		out = append(out, d)
	}
	e.log.Info("ingest: historical dates loaded", zap.Int("rows", len(out)), zap.Int("dropped", dropped))
	return out
}

// Cities2022 reads the 2022 city corrections. Columns home_team, away_team
// and city are found by name, falling back to the first three positions.
// Any failure logs a warning and returns nil.
func (e *Extractor) Cities2022(ctx context.Context) []model.CityCorrection {
	tbl, err := e.optionalTable(ctx, refCities, e.loc.Cities2022, fetcher.TableOptions{
		Delimiters: []rune{';', ','},
		CleanCell:  strings.TrimSpace,
	})
	if tbl == nil {
		if err != nil {
			e.log.Warn("ingest: city corrections unavailable", zap.Error(err))
		}
		return nil
	}

	home, away, city := tbl.Index("home_team"), tbl.Index("away_team"), tbl.Index("city")
	if home < 0 || away < 0 || city < 0 {
		if len(tbl.Columns) < 3 {
			e.log.Warn("ingest: city corrections need 3 columns", zap.Strings("columns", tbl.Columns))
			return nil
		}
		home, away, city = 0, 1, 2
	}

	var out []model.CityCorrection
	for _, row := range tbl.Rows {
		c := model.CityCorrection{
			HomeTeam: tbl.Cell(row, home),
			AwayTeam: tbl.Cell(row, away),
			City:     tbl.Cell(row, city),
		}
		if c.HomeTeam == "" || c.AwayTeam == "" || c.City == "" {
			continue
		}
		out = append(out, c)
	}
	e.log.Info("ingest: city corrections loaded", zap.Int("rows", len(out)))
	return out
}

// optionalTable returns (nil, nil) when no location is configured.
func (e *Extractor) optionalTable(ctx context.Context, name, location string, opts fetcher.TableOptions) (*model.Table, error) {
	if strings.TrimSpace(location) == "" {
		e.log.Info("ingest: reference not configured", zap.String("reference", name))
		return nil, nil
	}
	tbl, err := e.readTabular(ctx, name, location, opts)
	if err != nil {
		if eris.Is(err, fetcher.ErrNotFound) {
			return nil, eris.Wrapf(err, "ingest: %s missing", name)
		}
		return nil, err
	}
	return tbl, nil
}

// cleanDateCell removes the '"rn"">' debris and every double quote.
func cleanDateCell(cell string) string {
	cell = strings.ReplaceAll(cell, `"rn"">`, "")
	cell = strings.ReplaceAll(cell, `rn">`, "")
	cell = strings.ReplaceAll(cell, `"`, "")
	return strings.TrimSpace(cell)
}
