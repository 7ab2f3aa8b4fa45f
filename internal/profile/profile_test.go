package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/job-monitor/internal/ai"
	"github.com/spigell/job-monitor/internal/domain"
	"github.com/spigell/job-monitor/internal/storage"
	"github.com/spigell/job-monitor/internal/storage/memory"
)

type stubExtractor struct {
	result *ai.ResumeExtraction
	err    error
}

func (s *stubExtractor) ExtractResume(context.Context, string) (*ai.ResumeExtraction, error) {
	return s.result, s.err
}

func newService(extractor ResumeExtractor) *Service {
	return NewService(memory.New().Units().Candidate, extractor, nil)
}

func TestRegisterAndResume(t *testing.T) {
	months := 48
	amount := int64(300000)
	svc := newService(&stubExtractor{result: &ai.ResumeExtraction{
		IsResume:         true,
		Specializations:  []string{"Backend"},
		Languages:        []string{"Go", "Python"},
		ExperienceMonths: &months,
		Salary:           &ai.SalaryExtraction{Amount: &amount, Currency: "RUB"},
		WorkFormat:       "UNDEFINED",
	}})
	ctx := context.Background()

	c, err := svc.Register(ctx, 10, "gopher")
	require.NoError(t, err)
	assert.True(t, c.Active)

	c, err = svc.UpdateResume(ctx, 10, "Go developer with 4 years of experience")
	require.NoError(t, err)
	assert.True(t, c.Languages.Contains(domain.LanguageGo))
	assert.Nil(t, c.DesiredWorkFormat)

	c, err = svc.SetFilter(ctx, 10, domain.DimensionSalary, domain.FilterStrict)
	require.NoError(t, err)
	assert.Equal(t, domain.FilterStrict, c.SalaryMode)

	c, err = svc.SetFilter(ctx, 10, domain.DimensionWorkFormat, domain.FilterStrict)
	require.NoError(t, err)
	assert.Equal(t, domain.FilterSoft, c.WorkFormatMode, "no work format to filter on")

	stored, err := svc.Get(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.FilterStrict, stored.SalaryMode)
	assert.Equal(t, "gopher", stored.Username)
}

func TestDeactivateAndReRegister(t *testing.T) {
	svc := newService(nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, 5, "")
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(ctx, 5))

	c, err := svc.Get(ctx, 5)
	require.NoError(t, err)
	assert.False(t, c.Active)

	c, err = svc.Register(ctx, 5, "back")
	require.NoError(t, err)
	assert.True(t, c.Active)
	assert.Equal(t, "back", c.Username)
}

func TestProfileErrors(t *testing.T) {
	ctx := context.Background()

	err := newService(nil).Deactivate(ctx, 404)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	svc := newService(&stubExtractor{result: &ai.ResumeExtraction{IsResume: false}})
	_, err = svc.Register(ctx, 1, "")
	require.NoError(t, err)
	_, err = svc.UpdateResume(ctx, 1, "buy our course")
	assert.ErrorIs(t, err, ErrNotAResume)

	boom := errors.New("quota")
	_, err = newService(&stubExtractor{err: boom}).UpdateResume(ctx, 1, "text")
	assert.ErrorIs(t, err, boom)

	_, err = newService(nil).UpdateResume(ctx, 1, "text")
	assert.Error(t, err)
}
