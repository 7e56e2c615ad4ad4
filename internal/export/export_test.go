package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/worldcup-etl/internal/fetcher"
	"github.com/sells-group/worldcup-etl/internal/model"
)

func sampleRecords() []model.MatchRecord {
	d := model.Day(2022, 11, 20)
	return []model.MatchRecord{
		{IDMatch: 1, Match: model.Match{
			HomeTeam: "Qatar", AwayTeam: "Ecuador",
			HomeResult: model.IntPtr(0), AwayResult: model.IntPtr(2),
			Result: model.StringPtr("Ecuador"), Date: &d, Round: model.StringPtr("Group A"),
			City: "Doha", Edition: "2022",
		}},
		{IDMatch: 2, Match: model.Match{
			HomeTeam: "Uruguay", AwayTeam: "Unknown", City: "Unknown", Edition: "1930",
		}},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id_match,home_team,away_team,home_result,away_result,result,date,round,city,edition", lines[0])
	assert.Equal(t, "1,Qatar,Ecuador,0,2,Ecuador,2022-11-20,Group A,Doha,2022", lines[1])
	assert.Equal(t, "2,Uruguay,Unknown,,,,,,Unknown,1930", lines[2])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "id_match,home_team,away_team,home_result,away_result,result,date,round,city,edition\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteXLSX(path, sampleRecords()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := f.Sheet[SheetName]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	n, err := sheet.Rows[1].Cells[4].Int()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "Doha", sheet.Rows[1].Cells[8].String())
	assert.Equal(t, "", sheet.Rows[2].Cells[3].String())

	tbl, err := fetcher.ReadXLSXTable(path, fetcher.XLSXOptions{SheetName: SheetName})
	require.NoError(t, err)
	assert.Equal(t, "Ecuador", tbl.Cell(tbl.Rows[0], tbl.Index("result")))
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "processed")

	tests := []struct {
		format string
	}{
		{FormatCSV},
		{FormatXLSX},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			path := DefaultPath(dir, tt.format)
			require.NoError(t, WriteFile(path, tt.format, sampleRecords()))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
			_, err = os.Stat(path + ".tmp")
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestWriteFile_UnsupportedFormat(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "x.json"), "json", sampleRecords())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported format "json"`)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "processed", "worldcup_clean.csv"), DefaultPath(filepath.Join("data", "processed"), "CSV"))
}
