package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type txKey struct{}

// getTx extracts the transaction stored in ctx by Transaction, if present.
func (db *DB) getTx(ctx context.Context) *sqlx.Tx {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return nil
}

// withTx returns a context carrying tx, so DB methods called with it route
// through the same transaction instead of a new connection.
func withTx(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}
