// Package dbx holds the small database plumbing shared by every repository:
// the DBTX interface both *sql.DB and *sql.Tx satisfy, and WithTx, which
// services use to keep a multi-record budget move inside one transaction.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the query surface repositories are written against. A repository
// bound to a *sql.Tx runs inside that transaction; the same code bound to a
// *sql.DB runs in autocommit mode.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx begins a transaction, runs fn with a transactional handle, then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    if err := users.NewPostgresRepository(tx).Debit(ctx, ownerID, stake); err != nil {
//	        return err
//	    }
//	    _, err := goals.NewPostgresRepository(tx).Create(ctx, goal)
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
