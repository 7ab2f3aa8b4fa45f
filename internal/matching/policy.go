// Package matching decides which candidates a vacancy should be sent to.
package matching

import "github.com/spigell/job-monitor/internal/domain"

// Reason explains why a candidate was rejected.
type Reason string

const (
	ReasonExperience Reason = "experience"
	ReasonSalary     Reason = "salary"
	ReasonWorkFormat Reason = "work_format"
)

// Decision is the outcome of evaluating one candidate against one vacancy.
type Decision struct {
	Accepted bool
	Reason   Reason
}

func accept() Decision              { return Decision{Accepted: true} }
func reject(reason Reason) Decision { return Decision{Reason: reason} }

type check struct {
	reason  Reason
	rejects func(c *domain.Candidate, v *domain.Vacancy) bool
}

// Checks run in order; the first rejecting one wins. Missing data on either
// side never rejects.
var checks = []check{
	{reason: ReasonExperience, rejects: experienceRejects},
	{reason: ReasonSalary, rejects: salaryRejects},
	{reason: ReasonWorkFormat, rejects: workFormatRejects},
}

// Evaluate applies the candidate's filters to the vacancy.
func Evaluate(c *domain.Candidate, v *domain.Vacancy) Decision {
	for _, ch := range checks {
		if ch.rejects(c, v) {
			return reject(ch.reason)
		}
	}
	return accept()
}

// experienceRejects drops vacancies asking for less experience than the
// candidate's preferred minimum, so a senior candidate does not receive junior
// postings. Candidates without a preference are never rejected here.
func experienceRejects(c *domain.Candidate, v *domain.Vacancy) bool {
	floor, ok := c.MinimumExperience()
	if !ok {
		return false
	}
	return v.MinExperienceMonths < floor
}

func salaryRejects(c *domain.Candidate, v *domain.Vacancy) bool {
	if c.SalaryMode != domain.FilterStrict || c.DesiredSalary == nil {
		return false
	}
	want, offer := *c.DesiredSalary, v.Salary
	if !want.Comparable() || !offer.Comparable() {
		return false
	}
	if *want.Currency != *offer.Currency {
		return false
	}
	return *offer.Amount < *want.Amount
}

func workFormatRejects(c *domain.Candidate, v *domain.Vacancy) bool {
	if c.WorkFormatMode != domain.FilterStrict || c.DesiredWorkFormat == nil {
		return false
	}
	if v.WorkFormat == domain.WorkFormatUndefined || *c.DesiredWorkFormat == domain.WorkFormatUndefined {
		return false
	}
	return *c.DesiredWorkFormat != v.WorkFormat
}
