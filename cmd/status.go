package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/worldcup-etl/internal/model"
	"github.com/sells-group/worldcup-etl/internal/store"
)

var statusRuns int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent runs and the loaded match table",
	Long:  "Lists recent pipeline runs, then verifies the loaded table: matches per edition and the first and last match.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("status"); err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		rep, err := collectStatus(ctx, st, statusRuns)
		if err != nil {
			return err
		}
		formatStatus(os.Stdout, rep)
		return nil
	},
}

type statusReport struct {
	Runs     []model.Run
	Editions []model.EditionCount
	Total    int
	First    *model.MatchRecord
	Last     *model.MatchRecord
}

func collectStatus(ctx context.Context, st store.Store, runLimit int) (*statusReport, error) {
	runs, err := st.ListRuns(ctx, store.RunFilter{Limit: runLimit})
	if err != nil {
		return nil, eris.Wrap(err, "status: list runs")
	}
	editions, err := st.EditionCounts(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "status: edition counts")
	}

	rep := &statusReport{Runs: runs, Editions: editions}
	for _, ec := range editions {
		rep.Total += ec.Matches
	}
	if rep.Total == 0 {
		return rep, nil
	}

	if rep.First, err = st.GetMatch(ctx, 1); err != nil {
		return nil, eris.Wrap(err, "status: first match")
	}
	if rep.Last, err = st.GetMatch(ctx, rep.Total); err != nil {
		return nil, eris.Wrap(err, "status: last match")
	}
	return rep, nil
}

func formatStatus(w io.Writer, rep *statusReport) {
	if len(rep.Runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RUN\tSTATUS\tSTARTED\tROWS\tWARNINGS\tERROR")
		for _, r := range rep.Runs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
				r.ID, r.Status, r.StartedAt.Format(time.RFC3339), r.RowsLoaded, r.Warnings, truncate(r.Error, 60))
		}
		tw.Flush() //nolint:errcheck
	}
	fmt.Fprintln(w)

	if rep.Total == 0 {
		fmt.Fprintln(w, "No matches loaded.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EDITION\tMATCHES")
	for _, ec := range rep.Editions {
		fmt.Fprintf(tw, "%s\t%d\n", ec.Edition, ec.Matches)
	}
	fmt.Fprintf(tw, "TOTAL\t%d\n", rep.Total)
	tw.Flush() //nolint:errcheck

	fmt.Fprintln(w)
	fmt.Fprintf(w, "First: %s\n", describeMatch(rep.First))
	fmt.Fprintf(w, "Last:  %s\n", describeMatch(rep.Last))
}

func describeMatch(m *model.MatchRecord) string {
	if m == nil {
		return "-"
	}
	score := "?-?"
	if m.HomeResult != nil && m.AwayResult != nil {
		score = fmt.Sprintf("%d-%d", *m.HomeResult, *m.AwayResult)
	}
	date := m.DateString()
	if date == "" {
		date = m.Edition
	}
	return fmt.Sprintf("#%d %s %s %s %s (%s, %s)", m.IDMatch, date, m.HomeTeam, score, m.AwayTeam, m.RoundLabel(), m.City)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	statusCmd.Flags().IntVar(&statusRuns, "runs", 5, "number of recent runs to show")
	rootCmd.AddCommand(statusCmd)
}
