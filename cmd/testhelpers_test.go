package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/worldcup-etl/internal/model"
	"github.com/sells-group/worldcup-etl/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "cmd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func seedMatches(t *testing.T, st store.Store) []model.MatchRecord {
	t.Helper()
	d1 := model.Day(1930, 7, 13)
	d2 := model.Day(2022, 12, 18)
	records := []model.MatchRecord{
		{IDMatch: 1, Match: model.Match{
			HomeTeam: "France", AwayTeam: "Mexico",
			HomeResult: model.IntPtr(4), AwayResult: model.IntPtr(1),
			Result: model.StringPtr("France"), Date: &d1, Round: model.StringPtr(model.RoundGroupStage),
			City: "Montevideo", Edition: "1930", Source: "historic",
		}},
		{IDMatch: 2, Match: model.Match{
			HomeTeam: "Argentina", AwayTeam: "France",
			HomeResult: model.IntPtr(3), AwayResult: model.IntPtr(3),
			Result: model.StringPtr(model.Draw), Date: &d2, Round: model.StringPtr(model.RoundFinal),
			City: "Lusail", Edition: "2022", Source: "wc2022",
		}},
	}
	_, err := st.ReplaceMatches(context.Background(), records)
	require.NoError(t, err)
	return records
}
