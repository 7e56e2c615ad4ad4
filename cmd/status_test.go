package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/worldcup-etl/internal/model"
)

func TestCollectStatus(t *testing.T) {
	st := newTestStore(t)
	seedMatches(t, st)
	ctx := context.Background()
	run, err := st.StartRun(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, st.CompleteRun(ctx, run.ID, &model.RunResult{RowsLoaded: 2}))

	rep, err := collectStatus(ctx, st, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Total)
	require.Len(t, rep.Runs, 1)
	assert.Equal(t, "France", rep.First.HomeTeam)
	assert.Equal(t, "Argentina", rep.Last.HomeTeam)

	var buf bytes.Buffer
	formatStatus(&buf, rep)
	out := buf.String()
	assert.Contains(t, out, run.ID)
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "First: #1 1930-07-13 France 4-1 Mexico (Group Stage, Montevideo)")
	assert.Contains(t, out, "Last:  #2 2022-12-18 Argentina 3-3 France (Final, Lusail)")
}

func TestCollectStatus_Empty(t *testing.T) {
	rep, err := collectStatus(context.Background(), newTestStore(t), 5)
	require.NoError(t, err)
	assert.Zero(t, rep.Total)
	assert.Nil(t, rep.First)

	var buf bytes.Buffer
	formatStatus(&buf, rep)
	assert.Contains(t, buf.String(), "No runs found.")
	assert.Contains(t, buf.String(), "No matches loaded.")
}

func TestDescribeMatch_NoScore(t *testing.T) {
	m := &model.MatchRecord{IDMatch: 7, Match: model.Match{HomeTeam: "Uruguay", AwayTeam: "Unknown", City: "Unknown", Edition: "1930"}}
	assert.Equal(t, "#7 1930 Uruguay ?-? Unknown (, Unknown)", describeMatch(m))
	assert.Equal(t, "-", describeMatch(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
