// Package notify fans a matched vacancy out to candidates.
package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spigell/job-monitor/internal/domain"
	"github.com/spigell/job-monitor/internal/logger"
)

// ErrRecipientUnreachable marks a candidate that can no longer receive messages.
var ErrRecipientUnreachable = errors.New("recipient unreachable")

// Delivery is one vacancy addressed to one candidate.
type Delivery struct {
	CandidateID domain.CandidateID
	VacancyID   domain.VacancyID
	Mirror      domain.MirrorRef
}

type Deliverer interface {
	Deliver(ctx context.Context, d Delivery) error
}

// Deactivator retires candidates that are permanently unreachable.
type Deactivator interface {
	Deactivate(ctx context.Context, id domain.CandidateID) error
}

// Dispatcher delivers to each recipient independently: one failed delivery
// never stops the rest.
type Dispatcher struct {
	deliverer   Deliverer
	deactivator Deactivator
	logger      *zap.Logger
}

func NewDispatcher(deliverer Deliverer, deactivator Deactivator, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{deliverer: deliverer, deactivator: deactivator, logger: log}
}

func (d *Dispatcher) Dispatch(ctx context.Context, vacancyID domain.VacancyID, ref domain.MirrorRef, candidates []domain.CandidateID) {
	log := logger.WithFields(d.logger, logger.VacancyFields(vacancyID.String(), "")...)
	log.Info("dispatching vacancy", zap.Stringer("mirror", ref), zap.Int("recipients", len(candidates)))

	delivered := 0
	for _, id := range candidates {
		err := d.deliverer.Deliver(ctx, Delivery{CandidateID: id, VacancyID: vacancyID, Mirror: ref})
		switch {
		case err == nil:
			delivered++
		case errors.Is(err, ErrRecipientUnreachable):
			log.Warn("recipient unreachable, deactivating", zap.Int64(logger.FieldCandidateID, int64(id)))
			if d.deactivator == nil {
				continue
			}
			if err := d.deactivator.Deactivate(ctx, id); err != nil {
				log.Error("deactivating candidate", zap.Int64(logger.FieldCandidateID, int64(id)), zap.Error(err))
			}
		default:
			log.Error("delivering vacancy", zap.Int64(logger.FieldCandidateID, int64(id)), zap.Error(err))
		}
	}

	log.Info("dispatch finished", zap.Int("delivered", delivered), zap.Int("failed", len(candidates)-delivered))
}

// Noop only logs what would have been sent.
type Noop struct {
	Logger *zap.Logger
}

func (n Noop) Dispatch(_ context.Context, vacancyID domain.VacancyID, ref domain.MirrorRef, candidates []domain.CandidateID) {
	if n.Logger == nil {
		return
	}
	n.Logger.Info("notifications disabled, skipping dispatch",
		zap.String(logger.FieldVacancyID, vacancyID.String()),
		zap.Stringer("mirror", ref),
		zap.Int("recipients", len(candidates)),
	)
}
