package db

import (
	"context"
	"database/sql"
	"fmt"
)

// InTx runs fn inside a transaction on db. The transaction commits when fn
// returns nil and rolls back otherwise, so every mutation fn performs is
// all-or-nothing. Rollback errors are ignored; the fn error wins.
func InTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
