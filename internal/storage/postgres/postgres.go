// Package postgres implements the storage ports on PostgreSQL using pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spigell/job-monitor/internal/storage"
)

const uniqueViolation = "23505"

// NewPool creates and verifies a pgxpool connection pool.
func NewPool(ctx context.Context, databaseURL string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return pool, nil
}

// querier is satisfied by pgx.Tx and *pgxpool.Pool.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store hands out units of work bound to pooled connections.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Units() storage.Units {
	return storage.Units{
		Vacancy:   storage.Unit[storage.VacancyScope]{Begin: begin[storage.VacancyScope](s.pool)},
		Candidate: storage.Unit[storage.CandidateScope]{Begin: begin[storage.CandidateScope](s.pool)},
		Matching:  storage.Unit[storage.MatchingScope]{Begin: begin[storage.MatchingScope](s.pool)},
	}
}

func begin[S any](pool *pgxpool.Pool) storage.BeginFunc[S] {
	return func(ctx context.Context) (S, storage.Tx, error) {
		var zero S

		conn, err := pool.Acquire(ctx)
		if err != nil {
			return zero, nil, fmt.Errorf("acquire connection: %w", err)
		}

		tx, err := conn.Begin(ctx)
		if err != nil {
			conn.Release()
			return zero, nil, err
		}

		scope, ok := any(&txScope{q: tx}).(S)
		if !ok {
			_ = tx.Rollback(ctx)
			conn.Release()
			return zero, nil, errors.New("postgres: unsupported scope")
		}

		return scope, &connTx{conn: conn, tx: tx}, nil
	}
}

type txScope struct {
	q querier
}

func (s *txScope) Vacancies() storage.VacancyRepository     { return &vacancyRepo{q: s.q} }
func (s *txScope) Candidates() storage.CandidateRepository { return &candidateRepo{q: s.q} }

type connTx struct {
	conn *pgxpool.Conn
	tx   pgx.Tx
}

func (t *connTx) Commit(ctx context.Context) error {
	return mapError(t.tx.Commit(ctx))
}

func (t *connTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

func (t *connTx) Release() {
	t.conn.Release()
}

// mapError translates driver errors into storage errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &storage.ConflictError{Constraint: pgErr.ConstraintName, Err: err}
	}
	return err
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
