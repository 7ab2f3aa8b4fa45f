package pipeline

import (
	"context"
	"time"

	"github.com/spigell/job-monitor/internal/ai"
	"github.com/spigell/job-monitor/internal/domain"
)

// Message is one inbound posting as received from a source channel.
type Message struct {
	Chat       string    `json:"chat"`
	MessageID  string    `json:"message_id"`
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"received_at"`
}

// Mirror archives the raw posting and returns a durable reference to the copy.
type Mirror interface {
	Forward(ctx context.Context, msg Message) (domain.MirrorRef, error)
}

type VacancyExtractor interface {
	ExtractVacancy(ctx context.Context, text string) (*ai.VacancyExtraction, error)
}

// Notifier delivers a vacancy to the accepted candidates. Delivery problems
// are handled by the notifier itself.
type Notifier interface {
	Dispatch(ctx context.Context, vacancyID domain.VacancyID, ref domain.MirrorRef, candidates []domain.CandidateID)
}

type Recorder interface {
	RecordVacancyCollected(count int)
}

// Source yields inbound messages until ctx is done or the source closes.
type Source interface {
	Messages(ctx context.Context) (<-chan Message, error)
}
