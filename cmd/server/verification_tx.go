package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"trustlink/internal/platform/database"
	"trustlink/internal/verification/store"
	dErrors "trustlink/pkg/domain-errors"
	"trustlink/pkg/platform/sentinel"
	txcontext "trustlink/pkg/platform/tx"
)

const (
	defaultVerificationTxTimeout = 5 * time.Second
	verificationTxAttempts       = 3
)

// verificationPostgresTx serializes registry mutations on the stats row so
// the first-write check and the ledger append commit together.
type verificationPostgresTx struct {
	db       *sql.DB
	timeout  time.Duration
	attempts int
}

// newVerificationPostgresTx bounds each RunInTx by timeout when the caller's
// context has no deadline; zero selects the default.
func newVerificationPostgresTx(db *sql.DB, timeout time.Duration) *verificationPostgresTx {
	if timeout <= 0 {
		timeout = defaultVerificationTxTimeout
	}
	return &verificationPostgresTx{db: db, timeout: timeout, attempts: verificationTxAttempts}
}

func (t *verificationPostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context, st store.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	attempts := max(t.attempts, 1)
	var err error
	for range attempts {
		err = t.runOnce(ctx, fn)
		if err == nil || !database.IsRetryable(err) {
			break
		}
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "verification transaction timed out")
	case database.IsRetryable(err):
		return fmt.Errorf("%w: %w", sentinel.ErrConflict, err)
	}
	return err
}

func (t *verificationPostgresTx) runOnce(ctx context.Context, fn func(ctx context.Context, st store.Store) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin verification tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var locked int
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM verification_registry_stats WHERE id = 1 FOR UPDATE`,
	).Scan(&locked); err != nil {
		return fmt.Errorf("lock registry stats: %w", err)
	}

	txCtx := txcontext.WithTx(ctx, tx)
	if err := fn(txCtx, store.NewPostgres(t.db)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit verification tx: %w", err)
	}
	return nil
}
