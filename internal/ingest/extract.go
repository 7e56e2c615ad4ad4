// Package ingest reads the raw World Cup source files into tables and
// reference lists for the transform stage.
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/worldcup-etl/internal/fetcher"
	"github.com/sells-group/worldcup-etl/internal/model"
	"github.com/sells-group/worldcup-etl/internal/source"
)

// Locations names where each input lives. Values are anything
// fetcher.Opener accepts.
type Locations struct {
	Historic        string
	WC2014          string
	WC2022          string
	WC2018          string
	HistoricalDates string
	Cities2022      string
}

// Raw is everything extracted for one run.
type Raw struct {
	Tables     map[string]*model.Table // keyed by source name
	Tournament *model.Tournament2018
	Dates      []model.HistoricalDate
	Cities     []model.CityCorrection
	Errors     map[string]error // per-source extraction failures
}

// Input returns the transform input for the named source.
func (r *Raw) Input(name string) source.Input {
	if name == source.Name2018 {
		return source.Input{Tournament: r.Tournament}
	}
	return source.Input{Table: r.Tables[name]}
}

// Extractor reads sources through a fetcher.Opener.
type Extractor struct {
	opener   *fetcher.Opener
	loc      Locations
	encoding string
	log      *zap.Logger
}

// NewExtractor creates an Extractor. A non-empty encoding forces the text
// encoding of every delimited file.
func NewExtractor(opener *fetcher.Opener, loc Locations, encoding string) *Extractor {
	return &Extractor{
		opener:   opener,
		loc:      loc,
		encoding: encoding,
		log:      zap.L().With(zap.String("component", "ingest")),
	}
}

// ExtractAll reads every source concurrently. A failing primary source is
// recorded in Raw.Errors and does not stop the others; missing reference
// files leave Dates or Cities nil.
func (e *Extractor) ExtractAll(ctx context.Context) *Raw {
	raw := &Raw{
		Tables: make(map[string]*model.Table),
		Errors: make(map[string]error),
	}
	var mu sync.Mutex
	record := func(name string, tbl *model.Table, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			raw.Errors[name] = err
			e.log.Warn("ingest: source failed", zap.String("source", name), zap.Error(err))
			return
		}
		raw.Tables[name] = tbl
	}

	g := new(errgroup.Group)
	g.SetLimit(3)
	g.Go(func() error {
		tbl, err := e.Historic(ctx)
		record(source.NameHistoric, tbl, err)
		return nil
	})
	g.Go(func() error {
		tbl, err := e.WC2014(ctx)
		record(source.Name2014, tbl, err)
		return nil
	})
	g.Go(func() error {
		tbl, err := e.WC2022(ctx)
		record(source.Name2022, tbl, err)
		return nil
	})
	g.Go(func() error {
		doc, err := e.WC2018(ctx)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			raw.Errors[source.Name2018] = err
			e.log.Warn("ingest: source failed", zap.String("source", source.Name2018), zap.Error(err))
			return nil
		}
		raw.Tournament = doc
		return nil
	})
	g.Go(func() error {
		dates := e.HistoricalDates(ctx)
		mu.Lock()
		raw.Dates = dates
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		cities := e.Cities2022(ctx)
		mu.Lock()
		raw.Cities = cities
		mu.Unlock()
		return nil
	})
	_ = g.Wait()

	e.log.Info("ingest: complete",
		zap.Int("tables", len(raw.Tables)),
		zap.Bool("tournament_2018", raw.Tournament != nil),
		zap.Int("historical_dates", len(raw.Dates)),
		zap.Int("city_corrections", len(raw.Cities)),
		zap.Int("failed", len(raw.Errors)),
	)
	return raw
}

// Historic reads the 1930-2010 match history.
func (e *Extractor) Historic(ctx context.Context) (*model.Table, error) {
	return e.readTabular(ctx, source.NameHistoric, e.loc.Historic, fetcher.TableOptions{
		Delimiters: []rune{',', ';'},
	})
}

// WC2014 reads the 2014 file, which is semicolon separated and carries
// HTML-export debris in its text cells.
func (e *Extractor) WC2014(ctx context.Context) (*model.Table, error) {
	return e.readTabular(ctx, source.Name2014, e.loc.WC2014, fetcher.TableOptions{
		Delimiters: []rune{';', ','},
		CleanCell:  clean2014Cell,
	})
}

// WC2022 reads the FIFA 2022 match file.
func (e *Extractor) WC2022(ctx context.Context) (*model.Table, error) {
	return e.readTabular(ctx, source.Name2022, e.loc.WC2022, fetcher.TableOptions{
		Delimiters: []rune{',', ';'},
	})
}

// WC2018 decodes the nested 2018 tournament document.
func (e *Extractor) WC2018(ctx context.Context) (*model.Tournament2018, error) {
	if strings.TrimSpace(e.loc.WC2018) == "" {
		return nil, eris.Errorf("ingest: no location configured for %s", source.Name2018)
	}
	local, cleanup, err := e.opener.Local(ctx, e.loc.WC2018)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", source.Name2018)
	}
	defer cleanup()

	f, err := os.Open(local)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", local)
	}
	defer f.Close() //nolint:errcheck

	doc, err := fetcher.DecodeJSONObject[model.Tournament2018](f)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: decode %s", source.Name2018)
	}
	e.log.Info("ingest: read",
		zap.String("source", source.Name2018),
		zap.Int("groups", len(doc.Groups)),
		zap.Int("knockout", len(doc.Knockout)),
		zap.Int("stadiums", len(doc.Stadiums)),
		zap.Int("teams", len(doc.Teams)),
	)
	return doc, nil
}

func (e *Extractor) readTabular(ctx context.Context, name, location string, opts fetcher.TableOptions) (*model.Table, error) {
	if strings.TrimSpace(location) == "" {
		return nil, eris.Errorf("ingest: no location configured for %s", name)
	}
	opts.Encoding = e.encoding

	local, cleanup, err := e.opener.Local(ctx, location)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", name)
	}
	defer cleanup()

	var tbl *model.Table
	if strings.EqualFold(filepath.Ext(local), ".xlsx") {
		tbl, err = fetcher.ReadXLSXTable(local, fetcher.XLSXOptions{})
		if err == nil && opts.CleanCell != nil {
			for _, row := range tbl.Rows {
				for i := range row {
					row[i] = opts.CleanCell(row[i])
				}
			}
		}
	} else {
		var data []byte
		data, err = os.ReadFile(local)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: read %s", location)
		}
		tbl, err = fetcher.ReadTable(ctx, data, opts)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: parse %s", name)
	}

	e.log.Info("ingest: read",
		zap.String("source", name),
		zap.String("file", filepath.Base(local)),
		zap.Int("columns", len(tbl.Columns)),
		zap.Int("rows", tbl.Len()),
	)
	return tbl, nil
}

// clean2014Cell strips the '"rn"">' fragments and doubled quotes left in
// the 2014 export.
func clean2014Cell(cell string) string {
	cell = strings.ReplaceAll(cell, `"rn"">`, "")
	cell = strings.ReplaceAll(cell, `"rn">`, "")
	cell = strings.ReplaceAll(cell, `""`, `"`)
	return strings.TrimSpace(strings.Trim(cell, `"`))
}
