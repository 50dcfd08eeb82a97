package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// TxConfig holds per-transaction settings.
type TxConfig struct {
	Timeout time.Duration
}

// TxOption customizes a single WithinTx call.
type TxOption func(*TxConfig)

// WithTimeout bounds the whole transaction, commit included. Zero or negative
// durations leave the caller's context untouched.
func WithTimeout(d time.Duration) TxOption {
	return func(c *TxConfig) {
		c.Timeout = d
	}
}

// ApplyTxOptions folds opts into a TxConfig.
func ApplyTxOptions(opts ...TxOption) TxConfig {
	var cfg TxConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// UnitOfWork manages transactional boundaries. The callback receives a DBTX
// backed by a *sql.Tx; callers create tx-scoped repositories from it.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error, opts ...TxOption) error
}

// SQLiteUnitOfWork implements UnitOfWork using database/sql transactions.
type SQLiteUnitOfWork struct {
	db *sql.DB
}

// NewSQLiteUnitOfWork creates a UnitOfWork backed by the given *sql.DB.
func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error, opts ...TxOption) error {
	ctx, cancel := TxContext(ctx, opts...)
	defer cancel()

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := ctx.Err(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("transaction deadline: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// TxContext derives the context a transaction runs under.
func TxContext(ctx context.Context, opts ...TxOption) (context.Context, context.CancelFunc) {
	cfg := ApplyTxOptions(opts...)
	if cfg.Timeout > 0 {
		return context.WithTimeout(ctx, cfg.Timeout)
	}
	return context.WithCancel(ctx)
}
