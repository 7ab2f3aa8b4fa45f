package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spigell/job-monitor/internal/domain"
	"github.com/spigell/job-monitor/internal/storage"
)

const candidateColumns = `id, username, resume_text, specializations, primary_languages, tech_stack,
	experience_months, experience_min_months, salary_amount, salary_currency, work_format,
	experience_mode, salary_mode, work_format_mode, is_active, created_at, updated_at`

type candidateRepo struct {
	q querier
}

func scanCandidate(row pgx.Row) (*domain.Candidate, error) {
	var (
		p          domain.CandidateParams
		currency   *string
		workFormat *string
	)
	err := row.Scan(
		&p.ID, &p.Username, &p.ResumeText, &p.Specializations, &p.Languages, &p.TechStack,
		&p.ExperienceMonths, &p.ExperiencePreference, &p.SalaryAmount, &currency, &workFormat,
		&p.ExperienceMode, &p.SalaryMode, &p.WorkFormatMode, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	p.SalaryCurrency = derefString(currency)
	p.WorkFormat = derefString(workFormat)
	return domain.NewCandidate(p)
}

// candidateArgs renders c in candidateColumns order.
func candidateArgs(c *domain.Candidate) []any {
	var (
		techStack  []string
		amount     *int64
		currency   *string
		workFormat *string
	)
	if c.TechStack != nil {
		techStack = c.TechStack.Strings()
	}
	if c.DesiredSalary != nil {
		amount = c.DesiredSalary.Amount
		if c.DesiredSalary.Currency != nil {
			currency = nullableString(string(*c.DesiredSalary.Currency))
		}
	}
	if c.DesiredWorkFormat != nil {
		workFormat = nullableString(string(*c.DesiredWorkFormat))
	}
	return []any{
		int64(c.ID), c.Username, c.ResumeText, c.Specializations.Strings(), c.Languages.Strings(), techStack,
		c.ExperienceMonths, c.ExperiencePreference, amount, currency, workFormat,
		string(c.ExperienceMode), string(c.SalaryMode), string(c.WorkFormatMode), c.Active, c.CreatedAt, c.UpdatedAt,
	}
}

const candidatePlaceholders = `$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17`

func (r *candidateRepo) GetByID(ctx context.Context, id domain.CandidateID) (*domain.Candidate, error) {
	row := r.q.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, int64(id))
	return scanCandidate(row)
}

func (r *candidateRepo) Add(ctx context.Context, c *domain.Candidate) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO candidates (`+candidateColumns+`) VALUES (`+candidatePlaceholders+`)`,
		candidateArgs(c)...,
	)
	if err != nil {
		return fmt.Errorf("insert candidate: %w", mapError(err))
	}
	return nil
}

func (r *candidateRepo) Update(ctx context.Context, c *domain.Candidate) error {
	args := candidateArgs(c)
	// created_at is immutable: drop it and shift updated_at into $16.
	args = append(args[:15:15], args[16])

	tag, err := r.q.Exec(ctx, `
		UPDATE candidates SET
			username = $2, resume_text = $3, specializations = $4, primary_languages = $5, tech_stack = $6,
			experience_months = $7, experience_min_months = $8, salary_amount = $9, salary_currency = $10,
			work_format = $11, experience_mode = $12, salary_mode = $13, work_format_mode = $14,
			is_active = $15, updated_at = $16
		WHERE id = $1`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("update candidate: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *candidateRepo) Upsert(ctx context.Context, c *domain.Candidate) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO candidates (`+candidateColumns+`) VALUES (`+candidatePlaceholders+`)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			resume_text = EXCLUDED.resume_text,
			specializations = EXCLUDED.specializations,
			primary_languages = EXCLUDED.primary_languages,
			tech_stack = EXCLUDED.tech_stack,
			experience_months = EXCLUDED.experience_months,
			experience_min_months = EXCLUDED.experience_min_months,
			salary_amount = EXCLUDED.salary_amount,
			salary_currency = EXCLUDED.salary_currency,
			work_format = EXCLUDED.work_format,
			experience_mode = EXCLUDED.experience_mode,
			salary_mode = EXCLUDED.salary_mode,
			work_format_mode = EXCLUDED.work_format_mode,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at`,
		candidateArgs(c)...,
	)
	if err != nil {
		return fmt.Errorf("upsert candidate: %w", mapError(err))
	}
	return nil
}

// FindPrefiltered narrows candidates with the GIN-indexed array overlap
// operator; either overlap is enough.
func (r *candidateRepo) FindPrefiltered(ctx context.Context, specs domain.SpecializationSet, langs domain.LanguageSet) ([]*domain.Candidate, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+candidateColumns+` FROM candidates
		WHERE is_active AND (specializations && $1::text[] OR primary_languages && $2::text[])
		ORDER BY id`,
		specs.Strings(), langs.Strings(),
	)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var out []*domain.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return out, nil
}
