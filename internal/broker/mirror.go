package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spigell/job-monitor/internal/domain"
	"github.com/spigell/job-monitor/internal/pipeline"
)

// Mirror archives raw postings into a capped Redis stream.
type Mirror struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

func NewMirror(rdb *redis.Client, stream string, maxLen int64) *Mirror {
	return &Mirror{rdb: rdb, stream: stream, maxLen: maxLen}
}

// Forward appends the posting and returns the stream key and entry id as the reference.
func (m *Mirror) Forward(ctx context.Context, msg pipeline.Message) (domain.MirrorRef, error) {
	id, err := m.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: m.stream,
		MaxLen: m.maxLen,
		Approx: m.maxLen > 0,
		Values: mirrorValues(msg),
	}).Result()
	if err != nil {
		return domain.MirrorRef{}, fmt.Errorf("xadd %s: %w", m.stream, err)
	}
	return domain.MirrorRef{Channel: m.stream, MessageID: id}, nil
}

func mirrorValues(msg pipeline.Message) map[string]any {
	return map[string]any{
		"source_chat":    msg.Chat,
		"source_message": msg.MessageID,
		"text":           msg.Text,
		"received_at":    msg.ReceivedAt.UTC().Format(time.RFC3339),
	}
}
