package source

import (
	"encoding/json"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/worldcup-etl/internal/model"
	"github.com/sells-group/worldcup-etl/internal/normalize"
	"github.com/sells-group/worldcup-etl/internal/reference"
)

func testNormalizer() *normalize.Normalizer {
	return normalize.New(reference.Default())
}

func TestHistoric_Transform(t *testing.T) {
	t.Parallel()

	tbl := &model.Table{
		Columns: []string{"edition", "round", "team1", "team2", "score", "venue", "year"},
		Rows: [][]string{
			{"1930", "Group 1", "France", "Mexico", "4-1", "MONTEVIDEO", "1930"},
			{"1954", "Final", "West Germany", "Hungary", "3-2 (a.e.t.)", "Bern (Wankdorf)", "1954"},
			{"2014", "Group A", "Brazil", "Croatia", "3-1", "São Paulo", "2014"},
			{"1990", "Round of 16", "Ireland", "Romania", "0:0", "Genoa", "1990.0"},
			{"", "Final", "Nobody", "Else", "1-0", "Nowhere", ""},
			{"1966", "Group 4", "Portugal", "Hungary", "w/o", "", "1966"},
		},
	}

	got, err := NewHistoric(testNormalizer(), 2014).Transform(Input{Table: tbl})
	require.NoError(t, err)
	require.Len(t, got, 4)

	m := got[0]
	assert.Equal(t, "France", m.HomeTeam)
	assert.Equal(t, "Mexico", m.AwayTeam)
	assert.Equal(t, 4, *m.HomeResult)
	assert.Equal(t, 1, *m.AwayResult)
	assert.Equal(t, "France", *m.Result)
	assert.Equal(t, "1930-07-01", m.DateString())
	assert.Equal(t, model.RoundGroupStage, m.RoundLabel())
	assert.Equal(t, "Montevideo", m.City)
	assert.Equal(t, "1930", m.Edition)
	assert.Equal(t, NameHistoric, m.Source)

	assert.Equal(t, "Germany", got[1].HomeTeam)
	assert.Equal(t, "Bern", got[1].City)
	assert.Equal(t, "Germany", *got[1].Result)
	assert.Equal(t, model.RoundFinal, got[1].RoundLabel())

	assert.Equal(t, "1990", got[2].Edition)
	assert.Equal(t, model.Draw, *got[2].Result)

	assert.Nil(t, got[3].HomeResult)
	assert.Nil(t, got[3].Result)
	assert.Equal(t, model.Unknown, got[3].City)

	for _, m := range got {
		assert.NotEqual(t, "2014", m.Edition)
	}
}

func TestHistoric_MissingColumn(t *testing.T) {
	t.Parallel()

	tbl := &model.Table{
		Columns: []string{"round", "team1", "team2", "venue", "year"},
		Rows:    [][]string{{"Final", "Italy", "Brazil", "Pasadena", "1994"}},
	}
	got, err := NewHistoric(testNormalizer(), 2014).Transform(Input{Table: tbl})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), "score")
	assert.Empty(t, got)
}

func TestHistoric_EmptyInput(t *testing.T) {
	t.Parallel()

	got, err := NewHistoric(testNormalizer(), 2014).Transform(Input{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWorldCup2014_Transform(t *testing.T) {
	t.Parallel()

	tbl := &model.Table{
		Columns: []string{"Year", "Datetime", "Stage", "City", "Home Team Name", "Home Team Goals", "Away Team Goals", "Away Team Name"},
		Rows: [][]string{
			{"2014", "13 Jul 2014 - 16:00", "Final", "Rio De Janeiro", "Germany", "1", "0", "Argentina"},
			{"2014", "12 Jun 2014 - 17:00", "Group A", "Sao Paulo", "Brazil", "3", "1", "Croatia"},
			{"", "bad date", "Group C", "Recife", "Côte d'Ivoire", "x", "1", "Japan"},
		},
	}

	got, err := NewWorldCup2014(testNormalizer()).Transform(Input{Table: tbl})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Germany", got[0].HomeTeam)
	assert.Equal(t, "Germany", *got[0].Result)
	assert.Equal(t, "2014-07-13", got[0].DateString())
	assert.Equal(t, model.RoundFinal, got[0].RoundLabel())
	assert.Equal(t, "Rio de Janeiro", got[0].City)
	assert.Equal(t, "2014", got[0].Edition)

	assert.Equal(t, "São Paulo", got[1].City)
	assert.Equal(t, model.RoundGroupStage, got[1].RoundLabel())

	assert.Equal(t, reference.CoteDIvoire, got[2].HomeTeam)
	assert.Nil(t, got[2].HomeResult)
	assert.Nil(t, got[2].AwayResult)
	assert.Nil(t, got[2].Result)
	assert.Nil(t, got[2].Date)
	assert.Equal(t, "2014", got[2].Edition)
}

func TestWorldCup2014_Defaults(t *testing.T) {
	t.Parallel()

	tbl := &model.Table{
		Columns: []string{"Home Team Name", "Away Team Name", "Home Team Goals", "Away Team Goals"},
		Rows:    [][]string{{"Netherlands", "Spain", "5", "1"}},
	}
	got, err := NewWorldCup2014(testNormalizer()).Transform(Input{Table: tbl})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2014-07-01", got[0].DateString())
	assert.Equal(t, model.RoundGroupStage, got[0].RoundLabel())
	assert.Equal(t, model.Unknown, got[0].City)
}

func TestWorldCup2014_MissingColumn(t *testing.T) {
	t.Parallel()

	tbl := &model.Table{Columns: []string{"Home Team Name"}, Rows: [][]string{{"Brazil"}}}
	_, err := NewWorldCup2014(testNormalizer()).Transform(Input{Table: tbl})
	assert.True(t, eris.Is(err, ErrMissingColumn))
}

func TestWorldCup2022_Transform(t *testing.T) {
	t.Parallel()

	tbl := &model.Table{
		Columns: []string{"team1", "team2", "number of goals team1", "number of goals team2", "date", "hour", "category", "city"},
		Rows: [][]string{
			{"QATAR", "ECUADOR", "0", "2", "20 NOV 2022", "17 : 00", "Group A", ""},
			{"ARGENTINA", "FRANCE", "3", "3", "18Dec22", "18 : 00", "Final", "Lusail"},
			{"IR IRAN", "USA", "0", "1", "20 Nov", "22 : 00", "Group B", "Unknown"},
		},
	}

	got, err := NewWorldCup2022(testNormalizer()).Transform(Input{Table: tbl})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Qatar", got[0].HomeTeam)
	assert.Equal(t, "Ecuador", *got[0].Result)
	assert.Equal(t, "2022-11-20", got[0].DateString())
	assert.Equal(t, model.Unknown, got[0].City)
	assert.Equal(t, "2022", got[0].Edition)
	assert.Equal(t, model.RoundGroupStage, got[0].RoundLabel())

	assert.Equal(t, model.Draw, *got[1].Result)
	assert.Equal(t, "2022-12-18", got[1].DateString())
	assert.Equal(t, "Lusail", got[1].City)

	assert.Equal(t, "Iran", got[2].HomeTeam)
	assert.Equal(t, "USA", got[2].AwayTeam)
	assert.Equal(t, "2022-11-20", got[2].DateString())
}

func TestWorldCup2022_RoundAndYearColumns(t *testing.T) {
	t.Parallel()

	tbl := &model.Table{
		Columns: []string{"team1", "team2", "number of goals team1", "number of goals team2", "city", "round", "year", "date"},
		Rows:    [][]string{{"Qatar", "Ecuador", "0", "2", "Doha", "Group A", "2022", "20 Nov"}},
	}
	got, err := NewWorldCup2022(testNormalizer()).Transform(Input{Table: tbl})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.RoundGroupStage, got[0].RoundLabel())
	assert.Equal(t, "Doha", got[0].City)
	assert.Equal(t, "2022-11-20", got[0].DateString())
}

func TestWorldCup2022_MissingGoals(t *testing.T) {
	t.Parallel()

	tbl := &model.Table{Columns: []string{"team1", "team2"}, Rows: [][]string{{"Qatar", "Ecuador"}}}
	_, err := NewWorldCup2022(testNormalizer()).Transform(Input{Table: tbl})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrMissingColumn))
}

const doc2018 = `{
  "groups": {
    "b": {"name": "Group B", "matches": [
      {"name": 3, "home_team": 7, "away_team": 8, "home_result": 0, "away_result": 1, "date": "2018-06-15T18:00:00+03:00", "stadium": 3}
    ]},
    "a": {"name": "Group A", "matches": [
      {"name": 1, "home_team": 1, "away_team": 2, "home_result": 5, "away_result": 0, "date": "2018-06-14T18:00:00+03:00", "stadium": 1}
    ]}
  },
  "knockout": {
    "round_2": {"name": "Final", "matches": [
      {"name": 64, "home_team": 9, "away_team": 15, "home_result": 4, "away_result": 2, "date": "2018-07-15T18:00:00+03:00", "stadium": 1}
    ]},
    "round_16": {"name": "Round of 16", "matches": [
      {"name": 49, "home_team": "winner_c", "away_team": "runner_d", "home_result": null, "away_result": null, "date": "2018-06-30T17:00:00+03:00", "stadium": 99}
    ]}
  },
  "stadiums": [
    {"id": 1, "name": "Luzhniki Stadium", "city": "Moscow"},
    {"id": 3, "city": "Saint Petersburg"}
  ]
}`

func TestWorldCup2018_Transform(t *testing.T) {
	t.Parallel()

	var doc model.Tournament2018
	require.NoError(t, json.Unmarshal([]byte(doc2018), &doc))

	got, err := NewWorldCup2018(testNormalizer()).Transform(Input{Tournament: &doc})
	require.NoError(t, err)
	require.Len(t, got, 4)

	// Groups in key order, then knockout stages in chronological order.
	a := got[0]
	assert.Equal(t, "Russia", a.HomeTeam)
	assert.Equal(t, "Saudi Arabia", a.AwayTeam)
	assert.Equal(t, "Russia", *a.Result)
	assert.Equal(t, "2018-06-14", a.DateString())
	assert.Equal(t, model.RoundGroupStage, a.RoundLabel())
	assert.Equal(t, "Moscow", a.City)
	assert.Equal(t, "2018", a.Edition)
	assert.Equal(t, 1, *a.StadiumID)
	assert.Equal(t, "Luzhniki Stadium", a.StadiumName)

	b := got[1]
	assert.Equal(t, "Morocco", b.HomeTeam)
	assert.Equal(t, "Iran", *b.Result)
	assert.Equal(t, "Saint Petersburg", b.City)
	assert.Equal(t, "Krestovsky Stadium", b.StadiumName)

	r16 := got[2]
	assert.Equal(t, model.RoundOf16, r16.RoundLabel())
	assert.Equal(t, model.Unknown, r16.HomeTeam)
	assert.Nil(t, r16.Result)
	assert.Equal(t, model.Unknown, r16.City)

	final := got[3]
	assert.Equal(t, model.RoundFinal, final.RoundLabel())
	assert.Equal(t, "France", *final.Result)
	assert.Equal(t, "Croatia", final.AwayTeam)
}

func TestWorldCup2018_NilDocument(t *testing.T) {
	t.Parallel()

	got, err := NewWorldCup2018(testNormalizer()).Transform(Input{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRegistry_Order(t *testing.T) {
	t.Parallel()

	r := NewRegistry(testNormalizer(), 2014)
	assert.Equal(t, []string{NameHistoric, Name2014, Name2022, Name2018}, r.Names())

	all := r.All()
	require.Len(t, all, 4)
	assert.Equal(t, Name2018, all[3].Name())

	s, err := r.Get(Name2022)
	require.NoError(t, err)
	assert.Equal(t, Name2022, s.Name())

	_, err = r.Get("wc1998")
	assert.Error(t, err)
}

func TestFindColumn(t *testing.T) {
	t.Parallel()

	tbl := &model.Table{Columns: []string{"Home Team Goals", "Home Team Name", "team1"}}
	assert.Equal(t, 2, findColumn(tbl, "team1", "home"))
	assert.Equal(t, 0, findColumn(tbl, "home"))
	assert.Equal(t, -1, findColumn(tbl, "venue"))
	assert.Equal(t, 1, exactColumn(tbl, "  home  team name"))
}

func TestParseYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1930", 1930, true},
		{"1930.0", 1930, true},
		{`"1954"`, 1954, true},
		{"", 0, false},
		{"abc", 0, false},
		{"0", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseYear(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
