package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/worldcup-etl/internal/export"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the loaded match table to CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if exportFormat != "" {
			cfg.Export.Format = exportFormat
		}
		if err := cfg.Validate("export"); err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		records, err := allMatches(ctx, st)
		if err != nil {
			return err
		}

		path := exportOut
		if path == "" {
			path = export.DefaultPath(cfg.Export.Dir, cfg.Export.Format)
		}
		if err := export.WriteFile(path, cfg.Export.Format, records); err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Exported %d matches to %s\n", len(records), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "output format: csv or xlsx (default from config)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default <export.dir>/worldcup_clean.<format>)")
	rootCmd.AddCommand(exportCmd)
}
