package db

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countProjects(t *testing.T, dbh *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, dbh.QueryRow(`SELECT COUNT(*) FROM project`).Scan(&n))
	return n
}

func TestInTx_CommitsOnNil(t *testing.T) {
	writeDB, _ := OpenTestSQLite(t)
	ctx := context.Background()

	err := InTx(ctx, writeDB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO project (name, create_user) VALUES ('Riverbank', 1)`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countProjects(t, writeDB))
}

func TestInTx_RollsBackOnError(t *testing.T) {
	writeDB, _ := OpenTestSQLite(t)
	ctx := context.Background()

	sentinel := fmt.Errorf("abort")
	err := InTx(ctx, writeDB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO project (name, create_user) VALUES ('Riverbank', 1)`); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
	assert.Zero(t, countProjects(t, writeDB))
}
