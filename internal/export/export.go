// Package export writes the consolidated match table to processed files.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/worldcup-etl/internal/consolidate"
	"github.com/sells-group/worldcup-etl/internal/model"
)

// Supported formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// DefaultBaseName is the file name, without extension, of the processed table.
const DefaultBaseName = "worldcup_clean"

// SheetName is the worksheet used by WriteXLSX.
const SheetName = "matches"

// WriteCSV writes records with the final column header. Absent values are
// empty cells.
func WriteCSV(w io.Writer, records []model.MatchRecord) error {
	tbl := consolidate.Project(records)

	cw := csv.NewWriter(w)
	if err := cw.Write(tbl.Columns); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, row := range tbl.Rows {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// WriteXLSX writes records to a single-sheet workbook at path. Scores and
// ids are stored as numbers.
func WriteXLSX(path string, records []model.MatchRecord) error {
	tbl := consolidate.Project(records)

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range tbl.Columns {
		header.AddCell().SetString(col)
	}

	numeric := map[int]bool{
		tbl.Index("id_match"):    true,
		tbl.Index("home_result"): true,
		tbl.Index("away_result"): true,
	}
	for i, row := range tbl.Rows {
		xr := sheet.AddRow()
		for j, v := range row {
			cell := xr.AddCell()
			if numeric[j] && v != "" {
				cell.SetInt(intValue(records[i], tbl.Columns[j]))
				continue
			}
			cell.SetString(v)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

func intValue(r model.MatchRecord, col string) int {
	switch col {
	case "home_result":
		return *r.HomeResult
	case "away_result":
		return *r.AwayResult
	default:
		return r.IDMatch
	}
}

// WriteFile writes records in format to path, creating parent directories.
// The file is written beside path and renamed into place so readers never
// see a partial table.
func WriteFile(path, format string, records []model.MatchRecord) error {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != FormatCSV && format != FormatXLSX {
		return eris.Errorf("export: unsupported format %q", format)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "export: create dir for %s", path)
	}

	tmp := path + ".tmp"
	if format == FormatXLSX {
		if err := WriteXLSX(tmp, records); err != nil {
			os.Remove(tmp) //nolint:errcheck
			return err
		}
	} else {
		f, err := os.Create(tmp)
		if err != nil {
			return eris.Wrapf(err, "export: create %s", tmp)
		}
		if err := WriteCSV(f, records); err != nil {
			f.Close()      //nolint:errcheck
			os.Remove(tmp) //nolint:errcheck
			return err
		}
		if err := f.Close(); err != nil {
			os.Remove(tmp) //nolint:errcheck
			return eris.Wrapf(err, "export: close %s", tmp)
		}
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return eris.Wrapf(err, "export: rename to %s", path)
	}
	return nil
}

// DefaultPath returns dir/worldcup_clean.<format>.
func DefaultPath(dir, format string) string {
	return filepath.Join(dir, DefaultBaseName+"."+strings.ToLower(format))
}
