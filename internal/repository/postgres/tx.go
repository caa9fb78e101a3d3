package postgres

import (
	"context"
	"database/sql"
	"time"

	"tzschedule/internal/domain"
)

const defaultTxTimeout = 5 * time.Second

type txRunner struct {
	db      *sql.DB
	timeout time.Duration
}

// NewTxRunner returns a TxRunner that hands fn an EventStore bound to a
// single transaction, so the update path's event write, assignment delta,
// and log append commit or roll back together.
func NewTxRunner(db *sql.DB) domain.TxRunner {
	return &txRunner{db: db}
}

func (t *txRunner) RunInTx(ctx context.Context, fn func(store domain.EventStore) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&eventStore{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapConflict(err)
	}
	return nil
}
