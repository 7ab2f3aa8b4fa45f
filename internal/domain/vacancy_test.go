package domain

import (
	"errors"
	"testing"
)

func validVacancyParams() VacancyParams {
	return VacancyParams{
		Text:                "  Senior Python Backend, remote, from 200000 RUB  ",
		Specializations:     []string{"Backend"},
		Languages:           []string{"Python"},
		TechStack:           []string{"django", "PostgreSQL"},
		MinExperienceMonths: 60,
		Mirror:              MirrorRef{Channel: "mirror", MessageID: "1-0"},
		WorkFormat:          WorkFormatRemote,
		SalaryAmount:        ptr(int64(200000)),
		SalaryCurrency:      " rub ",
	}
}

func ptr[T any](v T) *T { return &v }

func TestNewVacancy(t *testing.T) {
	t.Parallel()

	v, err := NewVacancy(validVacancyParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.Text() != "Senior Python Backend, remote, from 200000 RUB" {
		t.Fatalf("expected trimmed text, got %q", v.Text())
	}
	if v.ContentHash() != ComputeContentHash(v.Text()) {
		t.Fatalf("hash does not match text")
	}
	if !v.Active {
		t.Fatalf("new vacancy must be active")
	}
	if v.ID.IsZero() {
		t.Fatalf("expected id to be generated")
	}
	if v.Salary.Currency == nil || *v.Salary.Currency != CurrencyRUB {
		t.Fatalf("expected RUB currency, got %v", v.Salary)
	}
	if v.CreatedAt.Location().String() != "UTC" {
		t.Fatalf("expected UTC creation time, got %s", v.CreatedAt.Location())
	}

	v.Deactivate()
	if v.Active {
		t.Fatalf("expected vacancy to be inactive after Deactivate")
	}
}

func TestNewVacancyValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(p *VacancyParams)
	}{
		{name: "empty text", mutate: func(p *VacancyParams) { p.Text = " \n\t " }},
		{name: "no recognized specialization", mutate: func(p *VacancyParams) { p.Specializations = []string{"Astrology"} }},
		{name: "no specializations", mutate: func(p *VacancyParams) { p.Specializations = nil }},
		{name: "no recognized language", mutate: func(p *VacancyParams) { p.Languages = []string{"COBOL", ""} }},
		{name: "negative salary", mutate: func(p *VacancyParams) { p.SalaryAmount = ptr(int64(-1)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := validVacancyParams()
			tt.mutate(&p)

			_, err := NewVacancy(p)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestNewVacancyNormalizesInput(t *testing.T) {
	t.Parallel()

	p := validVacancyParams()
	p.MinExperienceMonths = -5
	p.Specializations = []string{"Backend", "Astrology"}
	p.SalaryCurrency = ""
	p.WorkFormat = WorkFormat("office")

	v, err := NewVacancy(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.MinExperienceMonths != 0 {
		t.Fatalf("expected experience clamped to 0, got %d", v.MinExperienceMonths)
	}
	if v.Specializations.Len() != 1 || !v.Specializations.Contains(SpecializationBackend) {
		t.Fatalf("expected only Backend, got %v", v.Specializations)
	}
	if v.Salary.Currency != nil {
		t.Fatalf("expected absent currency, got %v", *v.Salary.Currency)
	}
	if v.WorkFormat != WorkFormatUndefined {
		t.Fatalf("expected UNDEFINED work format, got %s", v.WorkFormat)
	}

	p.WorkFormat = WorkFormat(" remote ")
	v, err = NewVacancy(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.WorkFormat != WorkFormatRemote {
		t.Fatalf("expected lowercase work format to become REMOTE, got %q", v.WorkFormat)
	}
}

func TestRestoreVacancyRecomputesHash(t *testing.T) {
	t.Parallel()

	v, err := NewVacancy(validVacancyParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	restored, err := RestoreVacancy(v.Record())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if restored.ContentHash() != v.ContentHash() || restored.ID != v.ID {
		t.Fatalf("restored vacancy differs: %+v vs %+v", restored, v)
	}
	if *restored.Salary.Amount != 200000 {
		t.Fatalf("expected salary to survive, got %v", restored.Salary)
	}
}
