package ai

import "context"

// SalaryExtraction is the salary as read from free text. Both parts are optional.
type SalaryExtraction struct {
	Amount   *int64 `json:"amount"`
	Currency string `json:"currency"`
}

// VacancyExtraction is the structured reading of a posting. Enum-like fields
// stay raw strings; the domain decides which values it recognizes.
type VacancyExtraction struct {
	IsPosting           bool              `json:"is_vacancy"`
	Specializations     []string          `json:"specializations"`
	Languages           []string          `json:"primary_languages"`
	TechStack           []string          `json:"tech_stack"`
	MinExperienceMonths int               `json:"min_experience_months"`
	Salary              *SalaryExtraction `json:"salary"`
	WorkFormat          string            `json:"work_format"`
}

// ResumeExtraction is the structured reading of a candidate resume.
type ResumeExtraction struct {
	IsResume         bool              `json:"is_resume"`
	Specializations  []string          `json:"specializations"`
	Languages        []string          `json:"primary_languages"`
	TechStack        []string          `json:"tech_stack"`
	ExperienceMonths *int              `json:"experience_months"`
	Salary           *SalaryExtraction `json:"salary"`
	WorkFormat       string            `json:"work_format"`
}

type Extractor interface {
	ExtractVacancy(ctx context.Context, text string) (*VacancyExtraction, error)
	ExtractResume(ctx context.Context, text string) (*ResumeExtraction, error)
}
