package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		round *string
		want  int
	}{
		{StringPtr(RoundGroupStage), 1},
		{StringPtr(RoundOf16), 2},
		{StringPtr(RoundQuarterFinals), 3},
		{StringPtr(RoundSemiFinals), 4},
		{StringPtr(RoundThirdPlace), 5},
		{StringPtr(RoundFinal), 6},
		{StringPtr("Final Round"), RoundUnranked},
		{nil, RoundUnranked},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundOrder(tt.round))
	}
}

func TestKnownRounds_Ordered(t *testing.T) {
	t.Parallel()

	rounds := KnownRounds()
	require.Len(t, rounds, 6)
	for i, r := range rounds {
		assert.Equal(t, i+1, RoundOrder(&r))
	}
}

func TestMatch_CloneIsDeep(t *testing.T) {
	t.Parallel()

	d := Day(1930, 7, 13)
	m := Match{
		HomeTeam:   "Uruguay",
		AwayTeam:   "Argentina",
		HomeResult: IntPtr(4),
		AwayResult: IntPtr(2),
		Result:     StringPtr("Uruguay"),
		Date:       &d,
		Round:      StringPtr(RoundFinal),
		City:       "Montevideo",
		Edition:    "1930",
	}

	c := m.Clone()
	*c.HomeResult = 0
	*c.Date = Day(1930, 7, 1)
	*c.Round = RoundGroupStage

	assert.Equal(t, 4, *m.HomeResult)
	assert.Equal(t, "1930-07-13", m.DateString())
	assert.Equal(t, RoundFinal, m.RoundLabel())
}

func TestMatch_Labels_Nil(t *testing.T) {
	t.Parallel()

	var m Match
	assert.Empty(t, m.RoundLabel())
	assert.Empty(t, m.ResultLabel())
	assert.Empty(t, m.DateString())
}

func TestFlexInt_Unmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		valid bool
		want  int
	}{
		{`12`, true, 12},
		{`"7"`, true, 7},
		{`"winner_a"`, false, 0},
		{`null`, false, 0},
		{`3.0`, true, 3},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var f FlexInt
			require.NoError(t, json.Unmarshal([]byte(tt.in), &f))
			assert.Equal(t, tt.valid, f.Valid)
			assert.Equal(t, tt.want, f.Value)
		})
	}
}

func TestFlexInt_MissingField(t *testing.T) {
	t.Parallel()

	var m Match2018
	require.NoError(t, json.Unmarshal([]byte(`{"home_team": 1, "date": "2018-06-14T18:00:00+03:00"}`), &m))
	assert.True(t, m.HomeTeam.Valid)
	assert.False(t, m.AwayTeam.Valid)
	assert.Nil(t, m.HomeResult.Ptr())
	assert.Equal(t, 1, *m.HomeTeam.Ptr())
}

func TestTable_IndexAndCell(t *testing.T) {
	t.Parallel()

	tbl := &Table{
		Columns: []string{"Home Team Name", " City "},
		Rows:    [][]string{{"Brazil"}},
	}
	assert.Equal(t, 0, tbl.Index("home team name"))
	assert.Equal(t, 1, tbl.Index("city"))
	assert.Equal(t, -1, tbl.Index("Stage"))
	assert.Equal(t, "Brazil", tbl.Cell(tbl.Rows[0], 0))
	assert.Equal(t, "", tbl.Cell(tbl.Rows[0], 1))
	assert.Equal(t, 1, tbl.Len())

	var nilTbl *Table
	assert.True(t, nilTbl.Empty())
}
