package ingest

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/worldcup-etl/internal/fetcher"
	"github.com/sells-group/worldcup-etl/internal/source"
)

const doc2018 = `{
  "groups": {"a": {"name": "Group A", "matches": [
    {"name": 1, "home_team": 1, "away_team": 2, "home_result": 5, "away_result": 0,
     "date": "2018-06-14T18:00:00+03:00", "stadium": 1}
  ]}},
  "knockout": {},
  "stadiums": [{"id": 1, "name": "Luzhniki Stadium", "city": "Moscow"}],
  "teams": [{"id": 1, "name": "Russia", "fifaCode": "RUS"}, {"id": 2, "name": "Saudi Arabia", "fifaCode": "KSA"}],
  "tvchannels": [{"id": 1, "name": "Channel One", "country": "Russia", "iso2": "RU", "lang": ["rus"]}]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newExtractor(t *testing.T, loc Locations) *Extractor {
	t.Helper()
	return NewExtractor(fetcher.NewOpener(nil, nil, t.TempDir()), loc, "")
}

func TestExtractor_Historic(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "matches.csv", "team1, team2 ,score,year,venue,round\nBrazil,France,2-1,2010,Rio,Group A\n")

	tbl, err := newExtractor(t, Locations{Historic: path}).Historic(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"team1", "team2", "score", "year", "venue", "round"}, tbl.Columns)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "Brazil", tbl.Rows[0][0])
}

func TestExtractor_WC2014CleansCells(t *testing.T) {
	dir := t.TempDir()
	content := "Year;Datetime;Stage;City;Home Team Name;Home Team Goals;Away Team Goals;Away Team Name\n" +
		"2014;13 Jul 2014 - 16:00;Final;Rio De Janeiro;Germany;1;0;\"Argentina\"\"rn\"\">\"\n"
	path := writeFile(t, dir, "wc2014.csv", content)

	tbl, err := newExtractor(t, Locations{WC2014: path}).WC2014(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "Argentina", tbl.Cell(tbl.Rows[0], tbl.Index("Away Team Name")))
	assert.Equal(t, "13 Jul 2014 - 16:00", tbl.Cell(tbl.Rows[0], tbl.Index("Datetime")))
}

func TestClean2014Cell(t *testing.T) {
	tests := map[string]string{
		`Argentina"rn"">`:  "Argentina",
		`Mexico"rn">`:      "Mexico",
		`"Bosnia ""BiH"""`: `Bosnia "BiH`,
		"  Spain ":         "Spain",
		"":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, clean2014Cell(in), in)
	}
}

func TestExtractor_WC2022SemicolonFallback(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "wc2022.csv", "team1;team2;number of goals team1;number of goals team2;date\nQATAR;ECUADOR;0;2;20 Nov\n")

	tbl, err := newExtractor(t, Locations{WC2022: path}).WC2022(context.Background())
	require.NoError(t, err)
	assert.Len(t, tbl.Columns, 5)
	assert.Equal(t, "ECUADOR", tbl.Rows[0][1])
}

func TestExtractor_XLSXSource(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, r := range [][]string{{"Home Team Name", "Away Team Name"}, {"Germany", `Argentina"rn">`}} {
		row := sheet.AddRow()
		for _, c := range r {
			row.AddCell().SetString(c)
		}
	}
	path := filepath.Join(t.TempDir(), "wc2014.xlsx")
	require.NoError(t, f.Save(path))

	tbl, err := newExtractor(t, Locations{WC2014: path}).WC2014(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Home Team Name", "Away Team Name"}, tbl.Columns)
	assert.Equal(t, "Argentina", tbl.Rows[0][1])
}

func TestExtractor_WC2018(t *testing.T) {
	path := writeFile(t, t.TempDir(), "data_2018.json", doc2018)

	doc, err := newExtractor(t, Locations{WC2018: path}).WC2018(context.Background())
	require.NoError(t, err)
	require.Contains(t, doc.Groups, "a")
	assert.Len(t, doc.Groups["a"].Matches, 1)
	assert.Equal(t, "Moscow", doc.Stadiums[0].City)
	assert.Len(t, doc.TVChannels, 1)
}

func TestExtractor_WC2018FromZip(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "bundle.zip")
	out, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	w, err := zw.Create("raw/data_2018.json")
	require.NoError(t, err)
	_, err = w.Write([]byte(doc2018))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	doc, err := newExtractor(t, Locations{WC2018: zipPath + "#data_2018.json"}).WC2018(context.Background())
	require.NoError(t, err)
	assert.Len(t, doc.Teams, 2)
}

func TestExtractor_MissingPrimary(t *testing.T) {
	e := newExtractor(t, Locations{Historic: filepath.Join(t.TempDir(), "nope.csv")})

	_, err := e.Historic(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest: open historic")

	_, err = e.WC2014(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no location configured")
}

func TestExtractor_ExtractAll(t *testing.T) {
	dir := t.TempDir()
	loc := Locations{
		Historic:        writeFile(t, dir, "h.csv", "team1,team2,score,year\nBrazil,France,2-1,2010\n"),
		WC2014:          filepath.Join(dir, "missing.csv"),
		WC2022:          writeFile(t, dir, "w22.csv", "team1,team2\nQATAR,ECUADOR\n"),
		WC2018:          writeFile(t, dir, "w18.json", doc2018),
		HistoricalDates: writeFile(t, dir, "dates.txt", "home_team,away_team,date_exacte\nBrazil,France,12/06/2014\n"),
		Cities2022:      filepath.Join(dir, "absent.csv"),
	}

	raw := newExtractor(t, loc).ExtractAll(context.Background())
	assert.Contains(t, raw.Tables, source.NameHistoric)
	assert.Contains(t, raw.Tables, source.Name2022)
	assert.NotContains(t, raw.Tables, source.Name2014)
	assert.Contains(t, raw.Errors, source.Name2014)
	require.NotNil(t, raw.Tournament)
	assert.Len(t, raw.Dates, 1)
	assert.Nil(t, raw.Cities)

	assert.Same(t, raw.Tournament, raw.Input(source.Name2018).Tournament)
	assert.Same(t, raw.Tables[source.NameHistoric], raw.Input(source.NameHistoric).Table)
	assert.Nil(t, raw.Input(source.Name2014).Table)
}
