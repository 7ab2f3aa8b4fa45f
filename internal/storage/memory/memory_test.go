package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spigell/job-monitor/internal/domain"
	"github.com/spigell/job-monitor/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vacancy(t *testing.T, text string) *domain.Vacancy {
	t.Helper()
	v, err := domain.NewVacancy(domain.VacancyParams{
		Text:            text,
		Specializations: []string{"Backend"},
		Languages:       []string{"Go"},
	})
	require.NoError(t, err)
	return v
}

func candidate(t *testing.T, id domain.CandidateID, specs, langs []string, active bool) *domain.Candidate {
	t.Helper()
	c, err := domain.NewCandidate(domain.CandidateParams{ID: id, Specializations: specs, Languages: langs, Active: active})
	require.NoError(t, err)
	return c
}

func TestRollbackDiscardsWrites(t *testing.T) {
	store := New()
	units := store.Units()
	ctx := context.Background()
	boom := errors.New("boom")

	err := units.Vacancy.Do(ctx, func(ctx context.Context, s storage.VacancyScope) error {
		require.NoError(t, s.Vacancies().Add(ctx, vacancy(t, "Go developer")))
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.VacancyCount())
}

func TestConcurrentInsertOfSameHashConflicts(t *testing.T) {
	store := New()
	units := store.Units()
	ctx := context.Background()

	first := vacancy(t, "Go developer, remote")
	second := vacancy(t, "go   DEVELOPER, remote")

	started := make(chan struct{})
	release := make(chan struct{})
	errs := make(chan error, 1)

	go func() {
		errs <- units.Vacancy.Do(ctx, func(ctx context.Context, s storage.VacancyScope) error {
			_, err := s.Vacancies().Upsert(ctx, first)
			close(started)
			<-release
			return err
		})
	}()

	<-started
	err := units.Vacancy.Do(ctx, func(ctx context.Context, s storage.VacancyScope) error {
		res, err := s.Vacancies().Upsert(ctx, second)
		assert.True(t, res.Inserted)
		return err
	})
	require.NoError(t, err)

	close(release)
	require.ErrorIs(t, <-errs, storage.ErrDuplicate)
	assert.Equal(t, 1, store.VacancyCount())
}

func TestUpsertUpdatesInPlace(t *testing.T) {
	store := New()
	units := store.Units()
	ctx := context.Background()

	original := vacancy(t, "Go developer")
	require.NoError(t, units.Vacancy.Do(ctx, func(ctx context.Context, s storage.VacancyScope) error {
		return s.Vacancies().Add(ctx, original)
	}))

	again := vacancy(t, "GO developer")
	again.MinExperienceMonths = 12
	require.NoError(t, units.Vacancy.Do(ctx, func(ctx context.Context, s storage.VacancyScope) error {
		res, err := s.Vacancies().Upsert(ctx, again)
		require.NoError(t, err)
		assert.False(t, res.Inserted)
		assert.Equal(t, original.ID, res.ID)
		return nil
	}))

	require.NoError(t, units.Vacancy.Do(ctx, func(ctx context.Context, s storage.VacancyScope) error {
		stored, err := s.Vacancies().GetByID(ctx, original.ID)
		require.NoError(t, err)
		assert.Equal(t, 12, stored.MinExperienceMonths)

		err = s.Vacancies().Add(ctx, vacancy(t, "go developer"))
		assert.ErrorIs(t, err, storage.ErrDuplicate)
		return nil
	}))
	assert.Equal(t, 1, store.VacancyCount())
}

func TestDeactivateOlderThan(t *testing.T) {
	store := New()
	units := store.Units()
	ctx := context.Background()

	old := vacancy(t, "old posting")
	old.CreatedAt = time.Now().Add(-48 * time.Hour)
	fresh := vacancy(t, "fresh posting")

	require.NoError(t, units.Vacancy.Do(ctx, func(ctx context.Context, s storage.VacancyScope) error {
		require.NoError(t, s.Vacancies().Add(ctx, old))
		return s.Vacancies().Add(ctx, fresh)
	}))

	require.NoError(t, units.Vacancy.Do(ctx, func(ctx context.Context, s storage.VacancyScope) error {
		n, err := s.Vacancies().DeactivateOlderThan(ctx, time.Now().Add(-24*time.Hour))
		assert.Equal(t, int64(1), n)
		return err
	}))

	require.NoError(t, units.Vacancy.Do(ctx, func(ctx context.Context, s storage.VacancyScope) error {
		got, err := s.Vacancies().GetByID(ctx, old.ID)
		require.NoError(t, err)
		assert.False(t, got.Active)

		exists, err := s.Vacancies().ExistsByContentHash(ctx, old.ContentHash())
		require.NoError(t, err)
		assert.True(t, exists, "retired vacancies still take part in dedup")
		return nil
	}))
}

func TestFindPrefilteredUsesEitherOverlap(t *testing.T) {
	store := New()
	units := store.Units()
	ctx := context.Background()

	require.NoError(t, units.Candidate.Do(ctx, func(ctx context.Context, s storage.CandidateScope) error {
		repo := s.Candidates()
		require.NoError(t, repo.Add(ctx, candidate(t, 1, []string{"Backend"}, []string{"Java"}, true)))
		require.NoError(t, repo.Add(ctx, candidate(t, 2, []string{"Mobile"}, []string{"Python"}, true)))
		require.NoError(t, repo.Add(ctx, candidate(t, 3, []string{"QA"}, []string{"Ruby"}, true)))
		require.NoError(t, repo.Add(ctx, candidate(t, 4, []string{"Backend"}, []string{"Python"}, false)))
		return nil
	}))

	require.NoError(t, units.Matching.Do(ctx, func(ctx context.Context, s storage.MatchingScope) error {
		found, err := s.Candidates().FindPrefiltered(ctx,
			domain.NewSet(domain.SpecializationBackend),
			domain.NewSet(domain.LanguagePython),
		)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, domain.CandidateID(1), found[0].ID)
		assert.Equal(t, domain.CandidateID(2), found[1].ID)
		return nil
	}))

	err := units.Candidate.Do(ctx, func(ctx context.Context, s storage.CandidateScope) error {
		return s.Candidates().Add(ctx, candidate(t, 1, nil, nil, true))
	})
	assert.ErrorIs(t, err, storage.ErrDuplicate)
}
