package domain

import (
	"fmt"
	"strings"
	"time"
)

// FilterDimension names one of the candidate preferences that has a strictness mode.
type FilterDimension string

const (
	DimensionExperience FilterDimension = "experience"
	DimensionSalary     FilterDimension = "salary"
	DimensionWorkFormat FilterDimension = "work_format"
)

func ParseFilterDimension(raw string) (FilterDimension, error) {
	switch d := FilterDimension(strings.ToLower(strings.TrimSpace(raw))); d {
	case DimensionExperience, DimensionSalary, DimensionWorkFormat:
		return d, nil
	case "work-format", "workformat":
		return DimensionWorkFormat, nil
	}
	return "", fmt.Errorf("unknown filter dimension %q", raw)
}

// Candidate is a job seeker who receives matching vacancies.
//
// A strict mode is only kept when the value it filters on is known: a
// candidate without experience, salary or work format always has the
// corresponding mode set to SOFT.
type Candidate struct {
	ID         CandidateID
	Username   string
	ResumeText string

	Specializations SpecializationSet
	Languages       LanguageSet
	// TechStack is nil when the candidate never provided one.
	TechStack *Set[string]

	ExperienceMonths *int
	// ExperiencePreference is an explicit minimum-experience filter set by the candidate.
	ExperiencePreference *int
	DesiredSalary        *Salary
	DesiredWorkFormat    *WorkFormat

	ExperienceMode FilterMode
	SalaryMode     FilterMode
	WorkFormatMode FilterMode

	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CandidateParams carries raw profile data for NewCandidate.
type CandidateParams struct {
	ID                   CandidateID
	Username             string
	ResumeText           string
	Specializations      []string
	Languages            []string
	TechStack            []string
	ExperienceMonths     *int
	ExperiencePreference *int
	SalaryAmount         *int64
	SalaryCurrency       string
	WorkFormat           string
	ExperienceMode       string
	SalaryMode           string
	WorkFormatMode       string
	Active               bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func NewCandidate(p CandidateParams) (*Candidate, error) {
	if p.ID == 0 {
		return nil, invalid("id", "must be set")
	}

	c := &Candidate{
		ID:                   p.ID,
		Username:             strings.TrimSpace(p.Username),
		Active:               p.Active,
		CreatedAt:            p.CreatedAt,
		ExperiencePreference: clampedCopy(p.ExperiencePreference),
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = c.CreatedAt
	}

	err := c.ApplyResume(ResumeParams{
		Text:             p.ResumeText,
		Specializations:  p.Specializations,
		Languages:        p.Languages,
		TechStack:        p.TechStack,
		ExperienceMonths: p.ExperienceMonths,
		SalaryAmount:     p.SalaryAmount,
		SalaryCurrency:   p.SalaryCurrency,
		WorkFormat:       p.WorkFormat,
	})
	if err != nil {
		return nil, err
	}

	modes := []struct {
		dim FilterDimension
		raw string
	}{
		{DimensionExperience, p.ExperienceMode},
		{DimensionSalary, p.SalaryMode},
		{DimensionWorkFormat, p.WorkFormatMode},
	}
	for _, m := range modes {
		mode, err := ParseFilterMode(m.raw)
		if err != nil {
			return nil, invalid(string(m.dim)+"_mode", err.Error())
		}
		c.SetFilterMode(m.dim, mode)
	}
	c.UpdatedAt = updated

	return c, nil
}

// ResumeParams holds resume-derived profile fields.
type ResumeParams struct {
	Text             string
	Specializations  []string
	Languages        []string
	TechStack        []string
	ExperienceMonths *int
	SalaryAmount     *int64
	SalaryCurrency   string
	WorkFormat       string
}

// ApplyResume replaces the resume-derived fields and re-checks the filter modes.
func (c *Candidate) ApplyResume(r ResumeParams) error {
	var salary *Salary
	if r.SalaryAmount != nil || strings.TrimSpace(r.SalaryCurrency) != "" {
		s, err := NewSalary(r.SalaryAmount, r.SalaryCurrency)
		if err != nil {
			return err
		}
		if !s.IsZero() {
			salary = &s
		}
	}

	c.ResumeText = strings.TrimSpace(r.Text)
	c.Specializations = ParseSpecializations(r.Specializations)
	c.Languages = ParseLanguages(r.Languages)
	c.TechStack = nil
	if stack := NormalizeTechStack(r.TechStack); !stack.IsEmpty() {
		c.TechStack = &stack
	}
	c.ExperienceMonths = clampedCopy(r.ExperienceMonths)
	c.DesiredSalary = salary
	c.DesiredWorkFormat = nil
	if format := ParseWorkFormat(r.WorkFormat); format != WorkFormatUndefined {
		c.DesiredWorkFormat = &format
	}

	c.coerceModes()
	c.touch()
	return nil
}

// SetFilterMode sets the strictness of one dimension. STRICT falls back to
// SOFT when the candidate has no value for that dimension.
func (c *Candidate) SetFilterMode(dim FilterDimension, mode FilterMode) {
	switch dim {
	case DimensionExperience:
		c.ExperienceMode = mode
	case DimensionSalary:
		c.SalaryMode = mode
	case DimensionWorkFormat:
		c.WorkFormatMode = mode
	}
	c.coerceModes()
	c.touch()
}

// SetExperiencePreference sets or clears (nil) the minimum-experience filter.
func (c *Candidate) SetExperiencePreference(months *int) {
	c.ExperiencePreference = clampedCopy(months)
	c.touch()
}

// MinimumExperience returns the experience floor used when filtering vacancies.
// Only an explicit preference sets it; the experience mode alone does not.
func (c *Candidate) MinimumExperience() (int, bool) {
	if c.ExperiencePreference == nil {
		return 0, false
	}
	return *c.ExperiencePreference, true
}

func (c *Candidate) Deactivate() {
	c.Active = false
	c.touch()
}

func (c *Candidate) Activate() {
	c.Active = true
	c.touch()
}

func (c *Candidate) coerceModes() {
	c.ExperienceMode = normalizeMode(c.ExperienceMode, c.ExperienceMonths != nil)
	c.SalaryMode = normalizeMode(c.SalaryMode, c.DesiredSalary != nil)
	c.WorkFormatMode = normalizeMode(c.WorkFormatMode, c.DesiredWorkFormat != nil)
}

func (c *Candidate) touch() {
	c.UpdatedAt = time.Now().UTC()
}

func normalizeMode(mode FilterMode, hasValue bool) FilterMode {
	if mode != FilterStrict || !hasValue {
		return FilterSoft
	}
	return FilterStrict
}

func clampedCopy(v *int) *int {
	if v == nil {
		return nil
	}
	n := max(*v, 0)
	return &n
}
