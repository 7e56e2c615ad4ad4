// Package etl orchestrates one World Cup pipeline run: extract, transform,
// enrich, consolidate, validate, load and export.
package etl

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/worldcup-etl/internal/consolidate"
	"github.com/sells-group/worldcup-etl/internal/enrich"
	"github.com/sells-group/worldcup-etl/internal/export"
	"github.com/sells-group/worldcup-etl/internal/ingest"
	"github.com/sells-group/worldcup-etl/internal/model"
	"github.com/sells-group/worldcup-etl/internal/source"
	"github.com/sells-group/worldcup-etl/internal/store"
)

// Stage names, in execution order.
const (
	StageExtract     = "extract"
	StageTransform   = "transform"
	StageEnrich      = "enrich"
	StageConsolidate = "consolidate"
	StageValidate    = "validate"
	StageLoad        = "load"
	StageExport      = "export"
)

// Extractor supplies the raw inputs of a run. *ingest.Extractor implements it.
type Extractor interface {
	ExtractAll(ctx context.Context) *ingest.Raw
}

// Options controls a run.
type Options struct {
	HistoryCutoffYear int
	Strict            bool
	Parallel          bool
	DryRun            bool
	ExportDir         string // empty disables the export stage
	ExportFormat      string
}

// StageResult is the structured summary logged for one stage.
type StageResult struct {
	Name       string         `json:"name"`
	DurationMs int64          `json:"duration_ms"`
	RowsIn     int            `json:"rows_in"`
	RowsOut    int            `json:"rows_out"`
	Warnings   int            `json:"warnings"`
	Error      string         `json:"error,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Result is the outcome of Engine.Run.
type Result struct {
	RunID      string                `json:"run_id,omitempty"`
	Records    []model.MatchRecord   `json:"-"`
	Stages     []StageResult         `json:"stages"`
	Summary    consolidate.Summary   `json:"summary"`
	Report     consolidate.Report    `json:"report"`
	Dimensions store.DimensionCounts `json:"dimensions"`
	RowsLoaded int64                 `json:"rows_loaded"`
	ExportPath string                `json:"export_path,omitempty"`
	Warnings   []string              `json:"warnings,omitempty"`
}

// Engine runs the pipeline against its collaborators.
type Engine struct {
	extractor Extractor
	registry  *source.Registry
	enricher  *enrich.Enricher
	store     store.Store
	opts      Options
	log       *zap.Logger
}

// New creates an Engine. st may be nil when opts.DryRun is set.
func New(ex Extractor, reg *source.Registry, en *enrich.Enricher, st store.Store, opts Options) *Engine {
	return &Engine{
		extractor: ex,
		registry:  reg,
		enricher:  en,
		store:     st,
		opts:      opts,
		log:       zap.L().With(zap.String("component", "etl")),
	}
}

// Run executes every stage. Source failures are warnings; the run fails
// only when consolidation has nothing to work with, strict validation
// rejects the table, or loading or exporting fails.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if !e.opts.DryRun && e.store == nil {
		return nil, eris.New("etl: store is required unless dry run")
	}
	res := &Result{}

	if !e.opts.DryRun {
		run, err := e.store.StartRun(ctx, map[string]any{
			"strict":              e.opts.Strict,
			"parallel":            e.opts.Parallel,
			"history_cutoff_year": e.opts.HistoryCutoffYear,
		})
		if err != nil {
			return nil, eris.Wrap(err, "etl: start run")
		}
		res.RunID = run.ID
	}
	log := e.log.With(zap.String("run_id", res.RunID), zap.Bool("dry_run", e.opts.DryRun))
	log.Info("etl: starting run")

	err := e.run(ctx, res, log)
	if err != nil {
		log.Error("etl: run failed", zap.Error(err))
		if res.RunID != "" {
			// The caller's context may already be done.
			if failErr := e.store.FailRun(context.WithoutCancel(ctx), res.RunID, err); failErr != nil {
				log.Warn("etl: failed to record run failure", zap.Error(failErr))
			}
		}
		return res, err
	}

	if res.RunID != "" {
		if err := e.store.CompleteRun(ctx, res.RunID, &model.RunResult{
			RowsLoaded: res.RowsLoaded,
			Warnings:   len(res.Warnings),
			Metadata:   runMetadata(res),
		}); err != nil {
			return res, eris.Wrap(err, "etl: complete run")
		}
	}

	log.Info("etl: run complete",
		zap.Int("matches", len(res.Records)),
		zap.Int64("rows_loaded", res.RowsLoaded),
		zap.Int("warnings", len(res.Warnings)),
		zap.String("export", res.ExportPath),
	)
	return res, nil
}

func (e *Engine) run(ctx context.Context, res *Result, log *zap.Logger) error {
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		res.Warnings = append(res.Warnings, msg)
		log.Warn("etl: " + msg)
	}

	track := func(name string, fn func(sr *StageResult) error) error {
		sr := StageResult{Name: name}
		start := time.Now()
		err := fn(&sr)
		sr.DurationMs = time.Since(start).Milliseconds()
		if err != nil {
			sr.Error = err.Error()
		}
		res.Stages = append(res.Stages, sr)

		fields := []zap.Field{
			zap.String("stage", name),
			zap.Int64("duration_ms", sr.DurationMs),
			zap.Int("rows_in", sr.RowsIn),
			zap.Int("rows_out", sr.RowsOut),
			zap.Int("warnings", sr.Warnings),
		}
		if len(sr.Metadata) > 0 {
			fields = append(fields, zap.Any("metadata", sr.Metadata))
		}
		if err != nil {
			log.Error("etl: stage failed", append(fields, zap.Error(err))...)
			return err
		}
		log.Info("etl: stage complete", fields...)
		return nil
	}

	// ===== Extract =====
	var raw *ingest.Raw
	_ = track(StageExtract, func(sr *StageResult) error {
		raw = e.extractor.ExtractAll(ctx)
		for _, name := range sortedErrorNames(raw.Errors) {
			warn("source %s unavailable: %v", name, raw.Errors[name])
			sr.Warnings++
		}
		for _, t := range raw.Tables {
			sr.RowsOut += t.Len()
		}
		sr.Metadata = map[string]any{
			"tables":           len(raw.Tables),
			"tournament_2018":  raw.Tournament != nil,
			"historical_dates": len(raw.Dates),
			"city_corrections": len(raw.Cities),
		}
		return nil
	})
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "etl: extract")
	}

	// ===== Transform =====
	sources := e.registry.All()
	slots := make([][]model.Match, len(sources))
	_ = track(StageTransform, func(sr *StageResult) error {
		failures := e.transformAll(ctx, raw, sources, slots)
		for i, src := range sources {
			if err, ok := failures[i]; ok {
				warn("source %s transform failed: %v", src.Name(), err)
				sr.Warnings++
			}
			sr.RowsOut += len(slots[i])
		}
		perSource := make(map[string]any, len(sources))
		for i, src := range sources {
			perSource[src.Name()] = len(slots[i])
		}
		sr.Metadata = perSource
		return nil
	})
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "etl: transform")
	}

	// ===== Enrich =====
	_ = track(StageEnrich, func(sr *StageResult) error {
		sr.Metadata = map[string]any{}
		for i, src := range sources {
			switch src.Name() {
			case source.NameHistoric:
				if len(slots[i]) == 0 {
					continue
				}
				if len(raw.Dates) == 0 {
					warn("historical dates reference unavailable; placeholder dates kept")
					sr.Warnings++
					continue
				}
				var stats enrich.DateStats
				slots[i], stats = e.enricher.HistoricalDates(slots[i], raw.Dates, e.opts.HistoryCutoffYear)
				sr.RowsIn += len(slots[i])
				sr.Metadata["dates_updated"] = stats.Updated
				sr.Metadata["date_issues"] = stats.Issues
				if stats.Issues > 0 {
					warn("historical date verification found %d issues", stats.Issues)
					sr.Warnings++
				}
			case source.Name2022:
				if len(slots[i]) == 0 {
					continue
				}
				if len(raw.Cities) == 0 {
					warn("2022 city corrections unavailable; unknown cities kept")
					sr.Warnings++
					continue
				}
				var updated int
				slots[i], updated = e.enricher.Cities2022(slots[i], raw.Cities)
				sr.RowsIn += len(slots[i])
				sr.Metadata["cities_updated"] = updated
			}
		}
		sr.RowsOut = sr.RowsIn
		return nil
	})

	// ===== Consolidate =====
	err := track(StageConsolidate, func(sr *StageResult) error {
		records, stats, err := consolidate.ConsolidateWithStats(slots...)
		sr.RowsIn = stats.RowsIn
		sr.RowsOut = stats.RowsOut
		sr.Metadata = map[string]any{
			"inputs":        stats.Inputs,
			"date_fallback": stats.DateFallback,
			"no_team":       stats.NoTeam,
			"preliminary":   stats.Preliminary,
			"duplicates":    stats.Duplicates,
		}
		if err != nil {
			return err
		}
		res.Records = records
		return nil
	})
	if err != nil {
		return eris.Wrap(err, "etl: consolidate")
	}

	// ===== Validate =====
	err = track(StageValidate, func(sr *StageResult) error {
		report, ok := consolidate.Validate(res.Records, consolidate.Options{Strict: e.opts.Strict})
		res.Report = report
		sr.RowsIn = report.Rows
		sr.RowsOut = report.Rows
		sr.Warnings = len(report.Issues)
		sr.Metadata = map[string]any{
			consolidate.IssueField:     report.Count(consolidate.IssueField),
			consolidate.IssueResult:    report.Count(consolidate.IssueResult),
			consolidate.IssueID:        report.Count(consolidate.IssueID),
			consolidate.IssueDuplicate: report.Count(consolidate.IssueDuplicate),
		}
		if !ok {
			return eris.Errorf("etl: strict validation rejected %d issues", len(report.Issues))
		}
		if len(report.Issues) > 0 {
			warn("validation found %d data-quality issues", len(report.Issues))
		}
		return nil
	})
	if err != nil {
		return err
	}

	res.Summary = consolidate.Summarize(res.Records)
	log.Info("etl: result analysis",
		zap.Int("matches", res.Summary.Matches),
		zap.Int("draws", res.Summary.Draws),
		zap.Int("no_result", res.Summary.NoResult),
		zap.Int("teams", res.Summary.Teams),
		zap.Strings("editions", res.Summary.Editions),
	)

	// ===== Load =====
	if !e.opts.DryRun {
		err = track(StageLoad, func(sr *StageResult) error {
			sr.RowsIn = len(res.Records)
			n, err := e.store.ReplaceMatches(ctx, res.Records)
			if err != nil {
				return eris.Wrap(err, "etl: replace matches")
			}
			res.RowsLoaded = n
			sr.RowsOut = int(n)

			dims, err := e.store.LoadDimensions(ctx, raw.Tournament)
			if err != nil {
				return eris.Wrap(err, "etl: load dimensions")
			}
			res.Dimensions = dims
			sr.Metadata = map[string]any{
				"stadiums":    dims.Stadiums,
				"teams":       dims.Teams,
				"tv_channels": dims.TVChannels,
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	// ===== Export =====
	if e.opts.ExportDir != "" {
		err = track(StageExport, func(sr *StageResult) error {
			format := e.opts.ExportFormat
			if format == "" {
				format = export.FormatCSV
			}
			path := export.DefaultPath(e.opts.ExportDir, format)
			if err := export.WriteFile(path, format, res.Records); err != nil {
				return err
			}
			res.ExportPath = path
			sr.RowsIn = len(res.Records)
			sr.RowsOut = len(res.Records)
			sr.Metadata = map[string]any{"path": path}
			return nil
		})
		if err != nil {
			return eris.Wrap(err, "etl: export")
		}
	}

	return nil
}

// transformAll runs each source's transform and writes its matches into
// the slot at the source's registry index, so consolidation always sees
// registry order regardless of completion order.
func (e *Engine) transformAll(ctx context.Context, raw *ingest.Raw, sources []source.Source, slots [][]model.Match) map[int]error {
	var mu sync.Mutex
	failures := make(map[int]error)

	g, gCtx := errgroup.WithContext(ctx)
	if !e.opts.Parallel {
		g.SetLimit(1)
	}
	for i, src := range sources {
		name := src.Name()
		if _, failed := raw.Errors[name]; failed {
			continue
		}
		in := raw.Input(name)
		if in.Table == nil && in.Tournament == nil {
			continue
		}
		g.Go(func() error {
			if gCtx.Err() != nil {
				return nil
			}
			matches, err := src.Transform(in)
			if err != nil {
				mu.Lock()
				failures[i] = err
				mu.Unlock()
				return nil
			}
			slots[i] = matches
			return nil
		})
	}
	_ = g.Wait()
	return failures
}

func sortedErrorNames(m map[string]error) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func runMetadata(res *Result) map[string]any {
	stages := make(map[string]any, len(res.Stages))
	for _, s := range res.Stages {
		stages[s.Name] = map[string]any{
			"duration_ms": s.DurationMs,
			"rows_out":    s.RowsOut,
			"warnings":    s.Warnings,
		}
	}
	return map[string]any{
		"stages":      stages,
		"matches":     len(res.Records),
		"draws":       res.Summary.Draws,
		"editions":    len(res.Summary.Editions),
		"export_path": res.ExportPath,
		"dimensions":  res.Dimensions,
	}
}
