// Package memory is an in-process storage engine implementing the storage
// ports with transactional semantics and a unique content-hash constraint.
package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/spigell/job-monitor/internal/domain"
	"github.com/spigell/job-monitor/internal/storage"
)

const contentHashConstraint = "vacancies_content_hash_key"

// Store keeps committed rows. Transactions stage their writes and apply them on commit.
type Store struct {
	mu         sync.Mutex
	vacancies  map[domain.VacancyID]domain.Vacancy
	candidates map[domain.CandidateID]domain.Candidate
}

func New() *Store {
	return &Store{
		vacancies:  make(map[domain.VacancyID]domain.Vacancy),
		candidates: make(map[domain.CandidateID]domain.Candidate),
	}
}

// Units returns the per-use-case units of work backed by this store.
func (s *Store) Units() storage.Units {
	return storage.Units{
		Vacancy:   storage.Unit[storage.VacancyScope]{Begin: beginScope[storage.VacancyScope](s)},
		Candidate: storage.Unit[storage.CandidateScope]{Begin: beginScope[storage.CandidateScope](s)},
		Matching:  storage.Unit[storage.MatchingScope]{Begin: beginScope[storage.MatchingScope](s)},
	}
}

// VacancyCount returns the number of committed vacancies.
func (s *Store) VacancyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.vacancies)
}

func beginScope[S any](s *Store) storage.BeginFunc[S] {
	return func(ctx context.Context) (S, storage.Tx, error) {
		var zero S
		if err := ctx.Err(); err != nil {
			return zero, nil, err
		}
		t := &tx{
			store:      s,
			vacancies:  make(map[domain.VacancyID]domain.Vacancy),
			candidates: make(map[domain.CandidateID]domain.Candidate),
		}
		scope, ok := any(&txScope{tx: t}).(S)
		if !ok {
			return zero, nil, errors.New("memory: unsupported scope")
		}
		return scope, t, nil
	}
}

type txScope struct {
	tx *tx
}

func (s *txScope) Vacancies() storage.VacancyRepository     { return &vacancyRepo{tx: s.tx} }
func (s *txScope) Candidates() storage.CandidateRepository { return &candidateRepo{tx: s.tx} }

type tx struct {
	store      *Store
	mu         sync.Mutex
	vacancies  map[domain.VacancyID]domain.Vacancy
	candidates map[domain.CandidateID]domain.Candidate
	released   bool
}

var errTxClosed = errors.New("memory: transaction already closed")

func (t *tx) Commit(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return errTxClosed
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, v := range t.vacancies {
		for otherID, other := range s.vacancies {
			if otherID != id && other.ContentHash() == v.ContentHash() {
				return &storage.ConflictError{Constraint: contentHashConstraint}
			}
		}
	}

	for id, v := range t.vacancies {
		s.vacancies[id] = v
	}
	for id, c := range t.candidates {
		s.candidates[id] = c
	}
	clear(t.vacancies)
	clear(t.candidates)
	return nil
}

func (t *tx) Rollback(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.vacancies)
	clear(t.candidates)
	return nil
}

func (t *tx) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.released = true
}

// vacancySnapshot merges committed rows with the transaction's staged writes.
func (t *tx) vacancySnapshot() map[domain.VacancyID]domain.Vacancy {
	t.store.mu.Lock()
	out := make(map[domain.VacancyID]domain.Vacancy, len(t.store.vacancies)+len(t.vacancies))
	for id, v := range t.store.vacancies {
		out[id] = v
	}
	t.store.mu.Unlock()

	t.mu.Lock()
	for id, v := range t.vacancies {
		out[id] = v
	}
	t.mu.Unlock()
	return out
}

func (t *tx) candidateSnapshot() map[domain.CandidateID]domain.Candidate {
	t.store.mu.Lock()
	out := make(map[domain.CandidateID]domain.Candidate, len(t.store.candidates)+len(t.candidates))
	for id, c := range t.store.candidates {
		out[id] = c
	}
	t.store.mu.Unlock()

	t.mu.Lock()
	for id, c := range t.candidates {
		out[id] = c
	}
	t.mu.Unlock()
	return out
}

func (t *tx) stageVacancy(v domain.Vacancy) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.vacancies[v.ID] = v
}

func (t *tx) stageCandidate(c domain.Candidate) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.candidates[c.ID] = c
}

type vacancyRepo struct {
	tx *tx
}

func (r *vacancyRepo) GetByID(_ context.Context, id domain.VacancyID) (*domain.Vacancy, error) {
	v, ok := r.tx.vacancySnapshot()[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &v, nil
}

func (r *vacancyRepo) GetByContentHash(_ context.Context, hash domain.ContentHash) (*domain.Vacancy, error) {
	for _, v := range r.tx.vacancySnapshot() {
		if v.ContentHash() == hash {
			return &v, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *vacancyRepo) ExistsByContentHash(ctx context.Context, hash domain.ContentHash) (bool, error) {
	_, err := r.GetByContentHash(ctx, hash)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *vacancyRepo) Add(ctx context.Context, v *domain.Vacancy) error {
	exists, err := r.ExistsByContentHash(ctx, v.ContentHash())
	if err != nil {
		return err
	}
	if exists {
		return &storage.ConflictError{Constraint: contentHashConstraint}
	}
	r.tx.stageVacancy(*v)
	return nil
}

func (r *vacancyRepo) Update(_ context.Context, v *domain.Vacancy) error {
	if _, ok := r.tx.vacancySnapshot()[v.ID]; !ok {
		return storage.ErrNotFound
	}
	r.tx.stageVacancy(*v)
	return nil
}

func (r *vacancyRepo) Upsert(ctx context.Context, v *domain.Vacancy) (storage.UpsertResult, error) {
	existing, err := r.GetByContentHash(ctx, v.ContentHash())
	switch {
	case errors.Is(err, storage.ErrNotFound):
		r.tx.stageVacancy(*v)
		return storage.UpsertResult{ID: v.ID, Inserted: true}, nil
	case err != nil:
		return storage.UpsertResult{}, err
	}

	v.ID = existing.ID
	v.CreatedAt = existing.CreatedAt
	r.tx.stageVacancy(*v)
	return storage.UpsertResult{ID: v.ID}, nil
}

func (r *vacancyRepo) DeactivateOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, v := range r.tx.vacancySnapshot() {
		if !v.Active || !v.CreatedAt.Before(cutoff) {
			continue
		}
		v.Deactivate()
		r.tx.stageVacancy(v)
		n++
	}
	return n, nil
}

type candidateRepo struct {
	tx *tx
}

func (r *candidateRepo) GetByID(_ context.Context, id domain.CandidateID) (*domain.Candidate, error) {
	c, ok := r.tx.candidateSnapshot()[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &c, nil
}

func (r *candidateRepo) Add(_ context.Context, c *domain.Candidate) error {
	if _, ok := r.tx.candidateSnapshot()[c.ID]; ok {
		return &storage.ConflictError{Constraint: "candidates_pkey"}
	}
	r.tx.stageCandidate(*c)
	return nil
}

func (r *candidateRepo) Update(_ context.Context, c *domain.Candidate) error {
	if _, ok := r.tx.candidateSnapshot()[c.ID]; !ok {
		return storage.ErrNotFound
	}
	r.tx.stageCandidate(*c)
	return nil
}

func (r *candidateRepo) Upsert(_ context.Context, c *domain.Candidate) error {
	r.tx.stageCandidate(*c)
	return nil
}

func (r *candidateRepo) FindPrefiltered(_ context.Context, specs domain.SpecializationSet, langs domain.LanguageSet) ([]*domain.Candidate, error) {
	var out []*domain.Candidate
	for _, c := range r.tx.candidateSnapshot() {
		if !c.Active {
			continue
		}
		if !c.Specializations.Intersects(specs) && !c.Languages.Intersects(langs) {
			continue
		}
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *domain.Candidate) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}
