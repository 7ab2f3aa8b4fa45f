package storage

import (
	"context"
	"errors"
	"fmt"
)

// Tx is the transactional resource behind a unit of work.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	// Release returns the underlying connection. It is called exactly once.
	Release()
}

// BeginFunc opens a transaction and binds the scope to it.
type BeginFunc[S any] func(ctx context.Context) (S, Tx, error)

// Run begins a transaction, runs fn and then commits on success or rolls back
// on error or panic. The resource is released exactly once in every case.
func Run[S any](ctx context.Context, begin BeginFunc[S], fn func(ctx context.Context, scope S) error) (err error) {
	scope, tx, err := begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	rollbackCtx := context.WithoutCancel(ctx)
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(rollbackCtx)
			tx.Release()
			panic(p)
		}
		tx.Release()
	}()

	if err := fn(ctx, scope); err != nil {
		if rbErr := tx.Rollback(rollbackCtx); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(rollbackCtx)
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// Unit adapts a BeginFunc to the UnitOfWork interface.
type Unit[S any] struct {
	Begin BeginFunc[S]
}

func (u Unit[S]) Do(ctx context.Context, fn func(ctx context.Context, scope S) error) error {
	return Run(ctx, u.Begin, fn)
}
