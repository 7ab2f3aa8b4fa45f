package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/job-monitor/internal/ai"
	"github.com/spigell/job-monitor/internal/domain"
	"github.com/spigell/job-monitor/internal/logger"
	"github.com/spigell/job-monitor/internal/matching"
	"github.com/spigell/job-monitor/internal/storage"
)

const (
	defaultExtractionTimeout       = 60 * time.Second
	defaultRejectionRatioThreshold = 0.8
)

type Config struct {
	ExtractionTimeout time.Duration
	// RejectionRatioThreshold of 0 warns on any rejection; negative values
	// fall back to the default.
	RejectionRatioThreshold float64
}

func DefaultConfig() Config {
	return Config{
		ExtractionTimeout:       defaultExtractionTimeout,
		RejectionRatioThreshold: defaultRejectionRatioThreshold,
	}
}

// Deps are the collaborators of an Ingestor.
type Deps struct {
	Units     storage.Units
	Mirror    Mirror
	Extractor VacancyExtractor
	Notifier  Notifier
	Recorder  Recorder
}

// Outcome summarizes one pipeline run.
type Outcome struct {
	State       State
	Trail       []State
	VacancyID   domain.VacancyID
	ContentHash domain.ContentHash
	Mirror      domain.MirrorRef
	Matched     []domain.CandidateID
	Err         error
}

// Ingestor runs the pipeline. It holds no per-message state, so Process may
// be called concurrently; the content-hash constraint of the store settles races.
type Ingestor struct {
	deps   Deps
	cfg    Config
	logger *zap.Logger
}

func NewIngestor(deps Deps, cfg Config, log *zap.Logger) *Ingestor {
	if cfg.ExtractionTimeout <= 0 {
		cfg.ExtractionTimeout = defaultExtractionTimeout
	}
	if cfg.RejectionRatioThreshold < 0 {
		cfg.RejectionRatioThreshold = defaultRejectionRatioThreshold
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Ingestor{deps: deps, cfg: cfg, logger: log}
}

// Process never panics and never returns an error: failures end in StateFailed
// with Outcome.Err set.
func (in *Ingestor) Process(ctx context.Context, msg Message) (out Outcome) {
	tr := newTrail()
	log := logger.WithFields(in.logger, logger.SourceFields(msg.Chat, msg.MessageID)...)

	finish := func(err error) {
		out.Err = err
		out.Trail = tr.states
		out.State = tr.current()
	}

	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("panic: %v", p)
			if !IsTerminal(tr.current()) {
				tr.states = append(tr.states, StateFailed)
			}
			log.Error("pipeline crashed", zap.Error(err), zap.Strings("trail", stateNames(tr.states)))
			finish(err)
		}
	}()

	fail := func(step string, err error) Outcome {
		tr.advance(StateFailed)
		log.Error("pipeline failed", zap.String("stage", step), zap.Error(err))
		finish(err)
		return out
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		tr.advance(StateSkippedEmpty)
		log.Debug("empty message skipped")
		finish(nil)
		return out
	}

	ref, err := in.deps.Mirror.Forward(ctx, msg)
	if err != nil {
		return fail("mirror", &TransportError{Stage: "mirror", Err: err})
	}
	tr.advance(StateMirrorForwarded)
	out.Mirror = ref

	hash := domain.ComputeContentHash(text)
	out.ContentHash = hash
	log = logger.WithFields(log, logger.VacancyFields("", hash.String())...)

	var exists bool
	err = in.deps.Units.Vacancy.Do(ctx, func(ctx context.Context, s storage.VacancyScope) error {
		var err error
		exists, err = s.Vacancies().ExistsByContentHash(ctx, hash)
		return err
	})
	if err != nil {
		return fail("dedup", err)
	}
	tr.advance(StateDedupChecked)

	if exists {
		tr.advance(StateSkippedDuplicate)
		log.Info("duplicate vacancy skipped")
		finish(nil)
		return out
	}

	extraction, err := in.extract(ctx, text)
	if err != nil {
		return fail("extraction", &TransportError{Stage: "extraction", Err: err})
	}
	tr.advance(StateExtracted)

	if !extraction.IsPosting {
		tr.advance(StateSkippedNotAVacancy)
		log.Info("message is not a vacancy")
		finish(nil)
		return out
	}

	vacancy, err := domain.NewVacancy(vacancyParams(text, ref, extraction))
	if err != nil {
		return fail("validation", err)
	}
	tr.advance(StateValidated)

	var saved storage.UpsertResult
	err = in.deps.Units.Vacancy.Do(ctx, func(ctx context.Context, s storage.VacancyScope) error {
		var err error
		saved, err = s.Vacancies().Upsert(ctx, vacancy)
		if err == nil && !saved.Inserted {
			// Another run stored the same content after our dedup check.
			return storage.ErrDuplicate
		}
		return err
	})
	if errors.Is(err, storage.ErrDuplicate) {
		tr.advance(StateSkippedDuplicate)
		log.Info("duplicate vacancy skipped on insert")
		finish(nil)
		return out
	}
	if err != nil {
		return fail("persist", err)
	}
	tr.advance(StatePersisted)
	out.VacancyID = saved.ID
	log = logger.WithFields(log, logger.VacancyFields(saved.ID.String(), "")...)
	log.Info("vacancy saved", zap.Bool("inserted", saved.Inserted), zap.Stringer("mirror", ref))
	in.deps.Recorder.RecordVacancyCollected(1)

	var (
		result matching.Result
		loaded bool
	)
	err = in.deps.Units.Matching.Do(ctx, func(ctx context.Context, s storage.MatchingScope) error {
		stored, err := s.Vacancies().GetByID(ctx, saved.ID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		loaded = true

		candidates, err := s.Candidates().FindPrefiltered(ctx, stored.Specializations, stored.Languages)
		if err != nil {
			return err
		}
		result = matching.Select(stored, candidates)
		return nil
	})
	if err != nil {
		return fail("matching", err)
	}
	if !loaded {
		tr.advance(StateMatched)
		tr.advance(StateNotificationsDispatched)
		log.Warn("persisted vacancy disappeared before matching, nothing dispatched")
		finish(nil)
		return out
	}
	tr.advance(StateMatched)
	out.Matched = result.Accepted

	log.Info("matching done", result.Fields()...)
	if ratio := result.RejectionRatio(); ratio > in.cfg.RejectionRatioThreshold {
		log.Warn("high rejection ratio",
			zap.Float64("ratio", ratio),
			zap.Float64("threshold", in.cfg.RejectionRatioThreshold),
		)
	}

	if len(result.Accepted) > 0 {
		in.deps.Notifier.Dispatch(ctx, saved.ID, ref, result.Accepted)
	}
	tr.advance(StateNotificationsDispatched)
	finish(nil)
	return out
}

func (in *Ingestor) extract(ctx context.Context, text string) (*ai.VacancyExtraction, error) {
	ctx, cancel := context.WithTimeout(ctx, in.cfg.ExtractionTimeout)
	defer cancel()

	extraction, err := in.deps.Extractor.ExtractVacancy(ctx, text)
	if err != nil {
		return nil, err
	}
	if extraction == nil {
		return nil, errors.New("extractor returned no result")
	}
	return extraction, nil
}

func vacancyParams(text string, ref domain.MirrorRef, ex *ai.VacancyExtraction) domain.VacancyParams {
	p := domain.VacancyParams{
		Text:                text,
		Specializations:     ex.Specializations,
		Languages:           ex.Languages,
		TechStack:           ex.TechStack,
		MinExperienceMonths: ex.MinExperienceMonths,
		Mirror:              ref,
		WorkFormat:          domain.ParseWorkFormat(ex.WorkFormat),
	}
	if ex.Salary != nil {
		p.SalaryAmount = ex.Salary.Amount
		p.SalaryCurrency = ex.Salary.Currency
	}
	return p
}
