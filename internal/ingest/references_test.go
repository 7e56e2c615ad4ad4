package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/worldcup-etl/internal/model"
)

func TestHistoricalDates(t *testing.T) {
	dir := t.TempDir()
	content := "h,a,d\n" +
		"Brazil,France,12/06/2014\n" +
		"\"Netherlands\"\"rn\"\">\",Argentina,1974-07-03\n" +
		"Italy,,1982-07-11\n"
	path := writeFile(t, dir, "dates.txt", content)

	got := newExtractor(t, Locations{HistoricalDates: path}).HistoricalDates(context.Background())
	assert.Equal(t, []model.HistoricalDate{
		{HomeTeam: "Brazil", AwayTeam: "France", Date: "12/06/2014"},
		{HomeTeam: "Netherlands", AwayTeam: "Argentina", Date: "1974-07-03"},
	}, got)
}

func TestHistoricalDates_MissingOrMalformed(t *testing.T) {
	dir := t.TempDir()

	assert.Nil(t, newExtractor(t, Locations{}).HistoricalDates(context.Background()))
	assert.Nil(t, newExtractor(t, Locations{HistoricalDates: filepath.Join(dir, "none.txt")}).HistoricalDates(context.Background()))

	twoCols := writeFile(t, dir, "two.txt", "a,b\nx,y\n")
	assert.Nil(t, newExtractor(t, Locations{HistoricalDates: twoCols}).HistoricalDates(context.Background()))
}

func TestCities2022(t *testing.T) {
	dir := t.TempDir()

	named := writeFile(t, dir, "cities.csv", " city ;home_team;away_team\nDoha;Qatar;Ecuador\n;Iran;Wales\n")
	got := newExtractor(t, Locations{Cities2022: named}).Cities2022(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, model.CityCorrection{HomeTeam: "Qatar", AwayTeam: "Ecuador", City: "Doha"}, got[0])

	positional := writeFile(t, dir, "pos.csv", "H;A;C\nQatar;Ecuador;Doha\n")
	got = newExtractor(t, Locations{Cities2022: positional}).Cities2022(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, "Doha", got[0].City)

	assert.Nil(t, newExtractor(t, Locations{Cities2022: filepath.Join(dir, "none.csv")}).Cities2022(context.Background()))
}

func TestCleanDateCell(t *testing.T) {
	assert.Equal(t, "Argentina", cleanDateCell(`Argentina"rn"">`))
	assert.Equal(t, "Chile", cleanDateCell(`Chilern">`))
	assert.Equal(t, "Peru", cleanDateCell(` "Peru" `))
}
