// Package profile manages candidate profiles and their filter settings.
package profile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/job-monitor/internal/ai"
	"github.com/spigell/job-monitor/internal/domain"
	"github.com/spigell/job-monitor/internal/logger"
	"github.com/spigell/job-monitor/internal/storage"
)

// ErrNotAResume is returned when the submitted text does not look like a resume.
var ErrNotAResume = errors.New("text is not a resume")

type ResumeExtractor interface {
	ExtractResume(ctx context.Context, text string) (*ai.ResumeExtraction, error)
}

type Service struct {
	units     storage.UnitOfWork[storage.CandidateScope]
	extractor ResumeExtractor
	logger    *zap.Logger
}

func NewService(units storage.UnitOfWork[storage.CandidateScope], extractor ResumeExtractor, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{units: units, extractor: extractor, logger: log}
}

// Register creates an empty active profile, or reactivates an existing one.
func (s *Service) Register(ctx context.Context, id domain.CandidateID, username string) (*domain.Candidate, error) {
	var result *domain.Candidate
	err := s.units.Do(ctx, func(ctx context.Context, scope storage.CandidateScope) error {
		repo := scope.Candidates()
		c, err := repo.GetByID(ctx, id)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			c, err = domain.NewCandidate(domain.CandidateParams{ID: id, Username: username, Active: true})
			if err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if username != "" {
				c.Username = username
			}
			c.Activate()
		}
		result = c
		return repo.Upsert(ctx, c)
	})
	if err != nil {
		return nil, fmt.Errorf("register candidate %s: %w", id, err)
	}
	s.logger.Info("candidate registered", zap.Int64(logger.FieldCandidateID, int64(id)))
	return result, nil
}

// UpdateResume extracts profile fields from resume text and stores them.
func (s *Service) UpdateResume(ctx context.Context, id domain.CandidateID, text string) (*domain.Candidate, error) {
	if s.extractor == nil {
		return nil, errors.New("resume extraction is not configured")
	}

	extraction, err := s.extractor.ExtractResume(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract resume: %w", err)
	}
	return s.ApplyResume(ctx, id, text, extraction)
}

// ApplyResume stores an already extracted resume.
func (s *Service) ApplyResume(ctx context.Context, id domain.CandidateID, text string, extraction *ai.ResumeExtraction) (*domain.Candidate, error) {
	if extraction == nil || !extraction.IsResume {
		return nil, ErrNotAResume
	}

	params := domain.ResumeParams{
		Text:             text,
		Specializations:  extraction.Specializations,
		Languages:        extraction.Languages,
		TechStack:        extraction.TechStack,
		ExperienceMonths: extraction.ExperienceMonths,
		WorkFormat:       extraction.WorkFormat,
	}
	if extraction.Salary != nil {
		params.SalaryAmount = extraction.Salary.Amount
		params.SalaryCurrency = extraction.Salary.Currency
	}

	return s.modify(ctx, id, func(c *domain.Candidate) error {
		return c.ApplyResume(params)
	})
}

// SetFilter changes the strictness of one dimension. STRICT silently stays
// SOFT when the profile has no value to filter on; the returned candidate shows
// the effective mode.
func (s *Service) SetFilter(ctx context.Context, id domain.CandidateID, dim domain.FilterDimension, mode domain.FilterMode) (*domain.Candidate, error) {
	return s.modify(ctx, id, func(c *domain.Candidate) error {
		c.SetFilterMode(dim, mode)
		return nil
	})
}

func (s *Service) SetExperiencePreference(ctx context.Context, id domain.CandidateID, months *int) (*domain.Candidate, error) {
	return s.modify(ctx, id, func(c *domain.Candidate) error {
		c.SetExperiencePreference(months)
		return nil
	})
}

// Deactivate stops deliveries to the candidate. The profile is kept.
func (s *Service) Deactivate(ctx context.Context, id domain.CandidateID) error {
	_, err := s.modify(ctx, id, func(c *domain.Candidate) error {
		c.Deactivate()
		return nil
	})
	if err == nil {
		s.logger.Info("candidate deactivated", zap.Int64(logger.FieldCandidateID, int64(id)))
	}
	return err
}

func (s *Service) Get(ctx context.Context, id domain.CandidateID) (*domain.Candidate, error) {
	var result *domain.Candidate
	err := s.units.Do(ctx, func(ctx context.Context, scope storage.CandidateScope) error {
		c, err := scope.Candidates().GetByID(ctx, id)
		result = c
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get candidate %s: %w", id, err)
	}
	return result, nil
}

func (s *Service) modify(ctx context.Context, id domain.CandidateID, fn func(c *domain.Candidate) error) (*domain.Candidate, error) {
	var result *domain.Candidate
	err := s.units.Do(ctx, func(ctx context.Context, scope storage.CandidateScope) error {
		repo := scope.Candidates()
		c, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		result = c
		return repo.Update(ctx, c)
	})
	if err != nil {
		return nil, fmt.Errorf("update candidate %s: %w", id, err)
	}
	return result, nil
}
