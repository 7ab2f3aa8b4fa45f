package matching

import (
	"github.com/spigell/job-monitor/internal/domain"
	"go.uber.org/zap"
)

// Step describes how many candidates entered and left the policy.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Result collects the accepted candidate ids and rejection counters.
type Result struct {
	Accepted []domain.CandidateID
	Rejected map[Reason]int
	Step     Step
}

// RejectionRatio is the share of prefiltered candidates rejected by the policy.
func (r Result) RejectionRatio() float64 {
	if r.Step.Initial == 0 {
		return 0
	}
	return float64(r.Step.Dropped) / float64(r.Step.Initial)
}

// Fields renders the result for structured logs.
func (r Result) Fields() []zap.Field {
	fields := []zap.Field{
		zap.Int("initial", r.Step.Initial),
		zap.Int("dropped", r.Step.Dropped),
		zap.Int("left", r.Step.Left),
	}
	for _, reason := range []Reason{ReasonExperience, ReasonSalary, ReasonWorkFormat} {
		if n := r.Rejected[reason]; n > 0 {
			fields = append(fields, zap.Int("rejected_"+string(reason), n))
		}
	}
	return fields
}

// Select evaluates every candidate against the vacancy. Candidate order is preserved.
func Select(v *domain.Vacancy, candidates []*domain.Candidate) Result {
	res := Result{
		Accepted: make([]domain.CandidateID, 0, len(candidates)),
		Rejected: make(map[Reason]int),
	}
	for _, c := range candidates {
		if c == nil {
			continue
		}
		res.Step.Initial++
		d := Evaluate(c, v)
		if !d.Accepted {
			res.Rejected[d.Reason]++
			res.Step.Dropped++
			continue
		}
		res.Accepted = append(res.Accepted, c.ID)
	}
	res.Step.Left = len(res.Accepted)
	return res
}
