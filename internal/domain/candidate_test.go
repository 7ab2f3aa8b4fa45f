package domain

import (
	"errors"
	"testing"
)

func TestNewCandidateCoercesStrictModesWithoutValues(t *testing.T) {
	t.Parallel()

	c, err := NewCandidate(CandidateParams{
		ID:             42,
		Username:       "dev",
		Languages:      []string{"Python"},
		ExperienceMode: "STRICT",
		SalaryMode:     "STRICT",
		WorkFormatMode: "STRICT",
		WorkFormat:     "UNDEFINED",
		Active:         true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.ExperienceMode != FilterSoft || c.SalaryMode != FilterSoft || c.WorkFormatMode != FilterSoft {
		t.Fatalf("expected all modes soft, got %s/%s/%s", c.ExperienceMode, c.SalaryMode, c.WorkFormatMode)
	}
	if c.DesiredWorkFormat != nil {
		t.Fatalf("expected UNDEFINED work format to be treated as absent")
	}
	if c.TechStack != nil {
		t.Fatalf("expected nil tech stack when none provided")
	}
}

func TestNewCandidateKeepsStrictModesWithValues(t *testing.T) {
	t.Parallel()

	c, err := NewCandidate(CandidateParams{
		ID:               7,
		ExperienceMonths: ptr(-3),
		SalaryAmount:     ptr(int64(150000)),
		SalaryCurrency:   "RUB",
		WorkFormat:       "remote",
		TechStack:        []string{"django"},
		ExperienceMode:   "strict",
		SalaryMode:       "strict",
		WorkFormatMode:   "strict",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if *c.ExperienceMonths != 0 {
		t.Fatalf("expected experience clamped to 0, got %d", *c.ExperienceMonths)
	}
	if c.ExperienceMode != FilterStrict || c.SalaryMode != FilterStrict || c.WorkFormatMode != FilterStrict {
		t.Fatalf("expected all modes strict, got %s/%s/%s", c.ExperienceMode, c.SalaryMode, c.WorkFormatMode)
	}
	if c.TechStack == nil || !c.TechStack.Contains("Django") {
		t.Fatalf("expected normalized tech stack, got %v", c.TechStack)
	}

	// Dropping the salary from the resume must relax the strict salary filter.
	if err := c.ApplyResume(ResumeParams{ExperienceMonths: ptr(12), WorkFormat: "remote"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.SalaryMode != FilterSoft {
		t.Fatalf("expected salary mode to fall back to soft, got %s", c.SalaryMode)
	}
	if c.WorkFormatMode != FilterStrict {
		t.Fatalf("expected work format mode to stay strict, got %s", c.WorkFormatMode)
	}
}

func TestNewCandidateValidation(t *testing.T) {
	t.Parallel()

	var verr *ValidationError

	if _, err := NewCandidate(CandidateParams{}); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for missing id, got %v", err)
	}
	if _, err := NewCandidate(CandidateParams{ID: 1, SalaryAmount: ptr(int64(-10))}); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for negative salary, got %v", err)
	}
	if _, err := NewCandidate(CandidateParams{ID: 1, SalaryMode: "sometimes"}); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for unknown mode, got %v", err)
	}
}

func TestCandidateMinimumExperience(t *testing.T) {
	t.Parallel()

	c, err := NewCandidate(CandidateParams{ID: 1, ExperienceMonths: ptr(36)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := c.MinimumExperience(); ok {
		t.Fatalf("soft mode without preference must not produce a minimum")
	}

	c.SetFilterMode(DimensionExperience, FilterStrict)
	if c.ExperienceMode != FilterStrict {
		t.Fatalf("expected strict experience mode, got %s", c.ExperienceMode)
	}
	if _, ok := c.MinimumExperience(); ok {
		t.Fatalf("strict mode without preference must not produce a minimum")
	}

	c.SetExperiencePreference(ptr(12))
	if months, ok := c.MinimumExperience(); !ok || months != 12 {
		t.Fatalf("expected explicit preference to win, got %d %v", months, ok)
	}

	c.Deactivate()
	if c.Active {
		t.Fatalf("expected inactive candidate")
	}
}
