package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/job-monitor/internal/domain"
)

type fakeDeliverer struct {
	failures  map[domain.CandidateID]error
	delivered []Delivery
}

func (f *fakeDeliverer) Deliver(_ context.Context, d Delivery) error {
	if err := f.failures[d.CandidateID]; err != nil {
		return err
	}
	f.delivered = append(f.delivered, d)
	return nil
}

type fakeDeactivator struct {
	ids []domain.CandidateID
}

func (f *fakeDeactivator) Deactivate(_ context.Context, id domain.CandidateID) error {
	f.ids = append(f.ids, id)
	return nil
}

func TestDispatchIsolatesFailures(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	deliverer := &fakeDeliverer{failures: map[domain.CandidateID]error{
		2: errors.New("timeout"),
		3: ErrRecipientUnreachable,
	}}
	deactivator := &fakeDeactivator{}
	ref := domain.MirrorRef{Channel: "mirror", MessageID: "5-0"}
	vacancyID := domain.NewVacancyID()

	NewDispatcher(deliverer, deactivator, zap.New(core)).Dispatch(context.Background(), vacancyID, ref, []domain.CandidateID{1, 2, 3, 4})

	assert.Len(t, deliverer.delivered, 2)
	assert.Equal(t, domain.CandidateID(1), deliverer.delivered[0].CandidateID)
	assert.Equal(t, domain.CandidateID(4), deliverer.delivered[1].CandidateID)
	assert.Equal(t, ref, deliverer.delivered[0].Mirror)
	assert.Equal(t, vacancyID, deliverer.delivered[1].VacancyID)
	assert.Equal(t, []domain.CandidateID{3}, deactivator.ids)

	assert.Equal(t, 1, logs.FilterMessage("delivering vacancy").Len())
	finished := logs.FilterMessage("dispatch finished").All()
	if assert.Len(t, finished, 1) {
		assert.Equal(t, int64(2), finished[0].ContextMap()["failed"])
	}
}

func TestNoopDispatch(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	Noop{Logger: zap.New(core)}.Dispatch(context.Background(), domain.NewVacancyID(), domain.MirrorRef{}, []domain.CandidateID{1})
	Noop{}.Dispatch(context.Background(), domain.NewVacancyID(), domain.MirrorRef{}, nil)

	assert.Equal(t, 1, logs.Len())
}
