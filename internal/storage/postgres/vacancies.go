package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spigell/job-monitor/internal/domain"
	"github.com/spigell/job-monitor/internal/storage"
)

const vacancyColumns = `id, text, specializations, primary_languages, tech_stack, min_experience_months,
	mirror_channel, mirror_message_id, salary_amount, salary_currency, work_format, created_at, is_active`

type vacancyRepo struct {
	q querier
}

func scanVacancy(row pgx.Row) (*domain.Vacancy, error) {
	var (
		id       uuid.UUID
		rec      domain.VacancyRecord
		currency *string
	)
	err := row.Scan(
		&id, &rec.Text, &rec.Specializations, &rec.Languages, &rec.TechStack, &rec.MinExperienceMonths,
		&rec.Mirror.Channel, &rec.Mirror.MessageID, &rec.SalaryAmount, &currency, &rec.WorkFormat,
		&rec.CreatedAt, &rec.Active,
	)
	if err != nil {
		return nil, mapError(err)
	}
	rec.ID = domain.VacancyID(id)
	rec.SalaryCurrency = derefString(currency)
	return domain.RestoreVacancy(rec)
}

func (r *vacancyRepo) GetByID(ctx context.Context, id domain.VacancyID) (*domain.Vacancy, error) {
	row := r.q.QueryRow(ctx, `SELECT `+vacancyColumns+` FROM vacancies WHERE id = $1`, id.UUID())
	return scanVacancy(row)
}

func (r *vacancyRepo) GetByContentHash(ctx context.Context, hash domain.ContentHash) (*domain.Vacancy, error) {
	row := r.q.QueryRow(ctx, `SELECT `+vacancyColumns+` FROM vacancies WHERE content_hash = $1`, hash.String())
	return scanVacancy(row)
}

func (r *vacancyRepo) ExistsByContentHash(ctx context.Context, hash domain.ContentHash) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM vacancies WHERE content_hash = $1)`, hash.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check content hash: %w", err)
	}
	return exists, nil
}

// Add inserts without ON CONFLICT so that a concurrent writer of the same
// hash fails on the unique index.
func (r *vacancyRepo) Add(ctx context.Context, v *domain.Vacancy) error {
	rec := v.Record()
	_, err := r.q.Exec(ctx, `
		INSERT INTO vacancies (`+vacancyColumns+`, content_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		rec.ID.UUID(), rec.Text, rec.Specializations, rec.Languages, rec.TechStack, rec.MinExperienceMonths,
		rec.Mirror.Channel, rec.Mirror.MessageID, rec.SalaryAmount, nullableString(rec.SalaryCurrency),
		rec.WorkFormat, rec.CreatedAt, rec.Active, v.ContentHash().String(),
	)
	if err != nil {
		return fmt.Errorf("insert vacancy: %w", mapError(err))
	}
	return nil
}

func (r *vacancyRepo) Update(ctx context.Context, v *domain.Vacancy) error {
	rec := v.Record()
	tag, err := r.q.Exec(ctx, `
		UPDATE vacancies SET
			text = $2, content_hash = $3, specializations = $4, primary_languages = $5, tech_stack = $6,
			min_experience_months = $7, mirror_channel = $8, mirror_message_id = $9,
			salary_amount = $10, salary_currency = $11, work_format = $12, is_active = $13
		WHERE id = $1`,
		rec.ID.UUID(), rec.Text, v.ContentHash().String(), rec.Specializations, rec.Languages, rec.TechStack,
		rec.MinExperienceMonths, rec.Mirror.Channel, rec.Mirror.MessageID,
		rec.SalaryAmount, nullableString(rec.SalaryCurrency), rec.WorkFormat, rec.Active,
	)
	if err != nil {
		return fmt.Errorf("update vacancy: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *vacancyRepo) Upsert(ctx context.Context, v *domain.Vacancy) (storage.UpsertResult, error) {
	var (
		existing  uuid.UUID
		createdAt time.Time
	)
	err := r.q.QueryRow(ctx,
		`SELECT id, created_at FROM vacancies WHERE content_hash = $1 FOR UPDATE`, v.ContentHash().String(),
	).Scan(&existing, &createdAt)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if err := r.Add(ctx, v); err != nil {
			return storage.UpsertResult{}, err
		}
		return storage.UpsertResult{ID: v.ID, Inserted: true}, nil
	case err != nil:
		return storage.UpsertResult{}, fmt.Errorf("lock vacancy by hash: %w", err)
	}

	v.ID = domain.VacancyID(existing)
	v.CreatedAt = createdAt
	if err := r.Update(ctx, v); err != nil {
		return storage.UpsertResult{}, err
	}
	return storage.UpsertResult{ID: v.ID}, nil
}

func (r *vacancyRepo) DeactivateOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE vacancies SET is_active = FALSE WHERE is_active AND created_at < $1`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("deactivate vacancies: %w", err)
	}
	return tag.RowsAffected(), nil
}
