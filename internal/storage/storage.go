// Package storage declares the persistence ports and the unit-of-work contract
// shared by the postgres and in-memory engines.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spigell/job-monitor/internal/domain"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate content")
)

// ConflictError reports a uniqueness violation detected by the store.
type ConflictError struct {
	Constraint string
	Err        error
}

func (e *ConflictError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("conflict on %s", e.Constraint)
	}
	return fmt.Sprintf("conflict on %s: %v", e.Constraint, e.Err)
}

func (e *ConflictError) Is(target error) bool { return target == ErrDuplicate }
func (e *ConflictError) Unwrap() error        { return e.Err }

// UpsertResult tells whether a row was inserted or updated and which id it holds.
type UpsertResult struct {
	ID       domain.VacancyID
	Inserted bool
}

type VacancyRepository interface {
	GetByID(ctx context.Context, id domain.VacancyID) (*domain.Vacancy, error)
	GetByContentHash(ctx context.Context, hash domain.ContentHash) (*domain.Vacancy, error)
	ExistsByContentHash(ctx context.Context, hash domain.ContentHash) (bool, error)
	Add(ctx context.Context, v *domain.Vacancy) error
	Update(ctx context.Context, v *domain.Vacancy) error
	// Upsert inserts v, or updates the stored vacancy with the same content hash
	// in place. A concurrent insert of the same hash surfaces as ErrDuplicate.
	Upsert(ctx context.Context, v *domain.Vacancy) (UpsertResult, error)
	// DeactivateOlderThan retires active vacancies created before the cutoff.
	DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type CandidateRepository interface {
	GetByID(ctx context.Context, id domain.CandidateID) (*domain.Candidate, error)
	Add(ctx context.Context, c *domain.Candidate) error
	Update(ctx context.Context, c *domain.Candidate) error
	Upsert(ctx context.Context, c *domain.Candidate) error
	// FindPrefiltered returns active candidates sharing at least one
	// specialization or at least one language with the given sets.
	FindPrefiltered(ctx context.Context, specs domain.SpecializationSet, langs domain.LanguageSet) ([]*domain.Candidate, error)
}

// VacancyScope exposes the repositories of a vacancy-only transaction.
type VacancyScope interface {
	Vacancies() VacancyRepository
}

// CandidateScope exposes the repositories of a candidate-only transaction.
type CandidateScope interface {
	Candidates() CandidateRepository
}

// MatchingScope exposes both repositories inside one transaction.
type MatchingScope interface {
	VacancyScope
	CandidateScope
}

// UnitOfWork runs fn inside a transaction exposing scope S. The transaction
// commits when fn returns nil and rolls back otherwise.
type UnitOfWork[S any] interface {
	Do(ctx context.Context, fn func(ctx context.Context, scope S) error) error
}

// Units groups the per-use-case units of work of one store.
type Units struct {
	Vacancy   UnitOfWork[VacancyScope]
	Candidate UnitOfWork[CandidateScope]
	Matching  UnitOfWork[MatchingScope]
}
