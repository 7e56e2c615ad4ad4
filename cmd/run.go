package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/worldcup-etl/internal/config"
	"github.com/sells-group/worldcup-etl/internal/enrich"
	"github.com/sells-group/worldcup-etl/internal/etl"
	"github.com/sells-group/worldcup-etl/internal/fetcher"
	"github.com/sells-group/worldcup-etl/internal/ingest"
	"github.com/sells-group/worldcup-etl/internal/normalize"
	"github.com/sells-group/worldcup-etl/internal/reference"
	"github.com/sells-group/worldcup-etl/internal/source"
	"github.com/sells-group/worldcup-etl/internal/store"
)

var (
	runDryRun bool
	runStrict bool
	runJSON   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline",
	Long:  "Extracts every source, transforms and merges the matches, loads them into the store and writes the processed export.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if runStrict {
			cfg.Pipeline.StrictValidation = true
		}
		if err := cfg.Validate("run"); err != nil {
			return err
		}

		var st store.Store
		if !runDryRun {
			s, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close() //nolint:errcheck
			st = s
		}

		eng, err := buildEngine(cfg, st, runDryRun)
		if err != nil {
			return err
		}

		res, err := eng.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "run")
		}

		if runJSON {
			return json.NewEncoder(os.Stdout).Encode(res)
		}
		printRunResult(os.Stdout, res)
		return nil
	},
}

// buildEngine wires the ingestion, transform and persistence collaborators
// from configuration.
func buildEngine(c *config.Config, st store.Store, dryRun bool) (*etl.Engine, error) {
	tables, err := reference.LoadOverrides(c.Pipeline.ReferenceOverrides)
	if err != nil {
		return nil, err
	}
	norm := normalize.New(tables)

	httpFetcher := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:         c.Fetch.UserAgent,
		Timeout:           c.Fetch.Timeout(),
		MaxRetries:        c.Fetch.MaxRetries,
		RequestsPerSecond: rate.Limit(c.Fetch.RequestsPerSecond),
		BackoffBase:       time.Duration(c.Fetch.BackoffMillis) * time.Millisecond,
	})
	ftpFetcher := fetcher.NewFTPFetcher(fetcher.FTPOptions{Timeout: c.Fetch.Timeout()})
	opener := fetcher.NewOpener(httpFetcher, ftpFetcher, c.Fetch.TempDir)

	src := c.Sources
	extractor := ingest.NewExtractor(opener, ingest.Locations{
		Historic:        src.Location(src.Historic),
		WC2014:          src.Location(src.WC2014),
		WC2022:          src.Location(src.WC2022),
		WC2018:          src.Location(src.WC2018),
		HistoricalDates: src.Location(src.HistoricalDates),
		Cities2022:      src.Location(src.Cities2022),
	}, src.Encoding)

	zap.L().Debug("run: engine configured",
		zap.String("data_dir", src.DataDir),
		zap.Int("history_cutoff_year", c.Pipeline.HistoryCutoffYear),
		zap.Bool("dry_run", dryRun),
	)

	return etl.New(
		extractor,
		source.NewRegistry(norm, c.Pipeline.HistoricExcludeYear),
		enrich.New(norm),
		st,
		etl.Options{
			HistoryCutoffYear: c.Pipeline.HistoryCutoffYear,
			Strict:            c.Pipeline.StrictValidation,
			Parallel:          c.Pipeline.ParallelTransforms,
			DryRun:            dryRun,
			ExportDir:         c.Export.Dir,
			ExportFormat:      c.Export.Format,
		},
	), nil
}

func printRunResult(w io.Writer, res *etl.Result) {
	if res.RunID != "" {
		fmt.Fprintf(w, "Run:        %s\n", res.RunID)
	}
	fmt.Fprintf(w, "Matches:    %d\n", res.Summary.Matches)
	fmt.Fprintf(w, "Draws:      %d\n", res.Summary.Draws)
	fmt.Fprintf(w, "Teams:      %d\n", res.Summary.Teams)
	fmt.Fprintf(w, "Editions:   %d\n", len(res.Summary.Editions))
	if res.RunID != "" {
		fmt.Fprintf(w, "Loaded:     %d\n", res.RowsLoaded)
	}
	if res.ExportPath != "" {
		fmt.Fprintf(w, "Export:     %s\n", res.ExportPath)
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintf(w, "Warnings:   %d\n", len(res.Warnings))
		for _, msg := range res.Warnings {
			fmt.Fprintf(w, "  - %s\n", msg)
		}
	}
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "run without touching the store")
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "fail the run when validation finds issues")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the run result as JSON")
	rootCmd.AddCommand(runCmd)
}
