package domain

import (
	"strings"
	"time"
)

// VacancyParams carries raw extraction output for NewVacancy.
type VacancyParams struct {
	Text                string
	Specializations     []string
	Languages           []string
	TechStack           []string
	MinExperienceMonths int
	Mirror              MirrorRef
	WorkFormat          WorkFormat
	SalaryAmount        *int64
	SalaryCurrency      string
}

// Vacancy is a job posting that passed classification. Its text and content
// hash never diverge: both are fixed at construction.
type Vacancy struct {
	ID                  VacancyID
	Specializations     SpecializationSet
	Languages           LanguageSet
	TechStack           Set[string]
	MinExperienceMonths int
	Mirror              MirrorRef
	Salary              Salary
	WorkFormat          WorkFormat
	CreatedAt           time.Time
	Active              bool

	text string
	hash ContentHash
}

// NewVacancy validates raw params and builds an active vacancy. Unknown
// specializations and languages are skipped, but at least one of each must survive.
func NewVacancy(p VacancyParams) (*Vacancy, error) {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return nil, invalid("text", "must not be empty")
	}

	specs := ParseSpecializations(p.Specializations)
	if specs.IsEmpty() {
		return nil, invalid("specializations", "no recognized specialization")
	}

	langs := ParseLanguages(p.Languages)
	if langs.IsEmpty() {
		return nil, invalid("languages", "no recognized language")
	}

	salary, err := NewSalary(p.SalaryAmount, p.SalaryCurrency)
	if err != nil {
		return nil, err
	}

	format := ParseWorkFormat(string(p.WorkFormat))

	return &Vacancy{
		ID:                  NewVacancyID(),
		Specializations:     specs,
		Languages:           langs,
		TechStack:           NormalizeTechStack(p.TechStack),
		MinExperienceMonths: max(p.MinExperienceMonths, 0),
		Mirror:              p.Mirror,
		Salary:              salary,
		WorkFormat:          format,
		CreatedAt:           time.Now().UTC(),
		Active:              true,
		text:                text,
		hash:                ComputeContentHash(text),
	}, nil
}

// VacancyRecord is the persisted shape of a vacancy.
type VacancyRecord struct {
	ID                  VacancyID
	Text                string
	Specializations     []string
	Languages           []string
	TechStack           []string
	MinExperienceMonths int
	Mirror              MirrorRef
	SalaryAmount        *int64
	SalaryCurrency      string
	WorkFormat          string
	CreatedAt           time.Time
	Active              bool
}

// RestoreVacancy rebuilds a vacancy from storage. The hash is recomputed from
// the stored text.
func RestoreVacancy(r VacancyRecord) (*Vacancy, error) {
	salary, err := NewSalary(r.SalaryAmount, r.SalaryCurrency)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(r.Text)
	return &Vacancy{
		ID:                  r.ID,
		Specializations:     ParseSpecializations(r.Specializations),
		Languages:           ParseLanguages(r.Languages),
		TechStack:           NormalizeTechStack(r.TechStack),
		MinExperienceMonths: max(r.MinExperienceMonths, 0),
		Mirror:              r.Mirror,
		Salary:              salary,
		WorkFormat:          ParseWorkFormat(r.WorkFormat),
		CreatedAt:           r.CreatedAt.UTC(),
		Active:              r.Active,
		text:                text,
		hash:                ComputeContentHash(text),
	}, nil
}

func (v *Vacancy) Text() string             { return v.text }
func (v *Vacancy) ContentHash() ContentHash { return v.hash }

// Deactivate retires the vacancy. It stays stored for dedup purposes.
func (v *Vacancy) Deactivate() { v.Active = false }

func (v *Vacancy) Record() VacancyRecord {
	r := VacancyRecord{
		ID:                  v.ID,
		Text:                v.text,
		Specializations:     v.Specializations.Strings(),
		Languages:           v.Languages.Strings(),
		TechStack:           v.TechStack.Strings(),
		MinExperienceMonths: v.MinExperienceMonths,
		Mirror:              v.Mirror,
		WorkFormat:          string(v.WorkFormat),
		CreatedAt:           v.CreatedAt,
		Active:              v.Active,
	}
	if v.Salary.Amount != nil {
		a := *v.Salary.Amount
		r.SalaryAmount = &a
	}
	if v.Salary.Currency != nil {
		r.SalaryCurrency = string(*v.Salary.Currency)
	}
	return r
}
