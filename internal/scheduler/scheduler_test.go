package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/job-monitor/internal/domain"
	"github.com/spigell/job-monitor/internal/storage"
	"github.com/spigell/job-monitor/internal/storage/memory"
)

func TestRetireStale(t *testing.T) {
	store := memory.New()
	units := store.Units()
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	old, err := domain.NewVacancy(domain.VacancyParams{Text: "old", Specializations: []string{"QA"}, Languages: []string{"Java"}})
	require.NoError(t, err)
	old.CreatedAt = now.Add(-40 * 24 * time.Hour)

	fresh, err := domain.NewVacancy(domain.VacancyParams{Text: "fresh", Specializations: []string{"QA"}, Languages: []string{"Java"}})
	require.NoError(t, err)
	fresh.CreatedAt = now.Add(-time.Hour)

	require.NoError(t, units.Vacancy.Do(ctx, func(ctx context.Context, s storage.VacancyScope) error {
		require.NoError(t, s.Vacancies().Add(ctx, old))
		return s.Vacancies().Add(ctx, fresh)
	}))

	s := New(units.Vacancy, "", 0, nil)
	s.now = func() time.Time { return now }

	n, err := s.RetireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.RetireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "already retired vacancies are not counted again")
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := New(memory.New().Units().Vacancy, "every tuesday-ish", time.Hour, nil)
	assert.Error(t, s.Start(context.Background()))
}
