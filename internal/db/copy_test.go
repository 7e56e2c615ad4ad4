package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceTable_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "world_cup_matches"`).WillReturnResult(pgxmock.NewResult("DELETE", 7))
	mock.ExpectCopyFrom(pgx.Identifier{"world_cup_matches"}, []string{"id_match", "home_team"}).WillReturnResult(2)
	mock.ExpectCommit()
	mock.ExpectRollback()

	n, err := ReplaceTable(context.Background(), mock, "world_cup_matches", []string{"id_match", "home_team"},
		[][]any{{1, "Uruguay"}, {2, "France"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestReplaceTable_EmptyClears(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "world_cup_matches"`).WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectCommit()
	mock.ExpectRollback()

	n, err := ReplaceTable(context.Background(), mock, "world_cup_matches", []string{"id_match"}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReplaceTable_CopyErrorRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM`).WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectCopyFrom(pgx.Identifier{"world_cup_matches"}, []string{"id_match"}).WillReturnError(fmt.Errorf("bad row"))
	mock.ExpectRollback()

	_, err = ReplaceTable(context.Background(), mock, "world_cup_matches", []string{"id_match"}, [][]any{{1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db: replace: COPY INTO world_cup_matches")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceTable_SchemaQualified(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "archive"."world_cup_matches"`).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"archive", "world_cup_matches"}, []string{"id_match"}).WillReturnResult(1)
	mock.ExpectCommit()
	mock.ExpectRollback()

	n, err := ReplaceTable(context.Background(), mock, "archive.world_cup_matches", []string{"id_match"}, [][]any{{1}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestReplaceTable_BeginError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin().WillReturnError(fmt.Errorf("pool exhausted"))

	_, err = ReplaceTable(context.Background(), mock, "world_cup_matches", []string{"id_match"}, [][]any{{1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db: replace: begin tx")
}
