package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS vacancies (
		id                    UUID PRIMARY KEY,
		text                  TEXT NOT NULL,
		content_hash          TEXT NOT NULL,
		specializations       TEXT[] NOT NULL DEFAULT '{}',
		primary_languages     TEXT[] NOT NULL DEFAULT '{}',
		tech_stack            TEXT[] NOT NULL DEFAULT '{}',
		min_experience_months INTEGER NOT NULL DEFAULT 0 CHECK (min_experience_months >= 0),
		mirror_channel        TEXT NOT NULL,
		mirror_message_id     TEXT NOT NULL,
		salary_amount         BIGINT NULL CHECK (salary_amount >= 0),
		salary_currency       TEXT NULL,
		work_format           TEXT NOT NULL DEFAULT 'UNDEFINED',
		created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		is_active             BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS vacancies_content_hash_key ON vacancies (content_hash)`,
	`CREATE INDEX IF NOT EXISTS vacancies_created_at_idx ON vacancies (created_at) WHERE is_active`,
	`CREATE TABLE IF NOT EXISTS candidates (
		id                    BIGINT PRIMARY KEY,
		username              TEXT NOT NULL DEFAULT '',
		resume_text           TEXT NOT NULL DEFAULT '',
		specializations       TEXT[] NOT NULL DEFAULT '{}',
		primary_languages     TEXT[] NOT NULL DEFAULT '{}',
		tech_stack            TEXT[] NULL,
		experience_months     INTEGER NULL,
		experience_min_months INTEGER NULL,
		salary_amount         BIGINT NULL,
		salary_currency       TEXT NULL,
		work_format           TEXT NULL,
		experience_mode       TEXT NOT NULL DEFAULT 'SOFT',
		salary_mode           TEXT NOT NULL DEFAULT 'SOFT',
		work_format_mode      TEXT NOT NULL DEFAULT 'SOFT',
		is_active             BOOLEAN NOT NULL DEFAULT TRUE,
		created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS candidates_specializations_idx ON candidates USING GIN (specializations)`,
	`CREATE INDEX IF NOT EXISTS candidates_primary_languages_idx ON candidates USING GIN (primary_languages)`,
}

// Migrate applies the schema in one transaction. Every statement is idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for i, stmt := range migrations {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration %d: %w", i+1, err)
			}
		}
		return nil
	})
}
