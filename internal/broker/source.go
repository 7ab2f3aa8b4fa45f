package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spigell/job-monitor/internal/pipeline"
)

// Source reads postings published as JSON on a Redis Pub/Sub channel.
type Source struct {
	rdb     *redis.Client
	channel string
	allowed allowList
	logger  *zap.Logger
}

func NewSource(rdb *redis.Client, channel string, chats []string, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{rdb: rdb, channel: channel, allowed: newAllowList(chats), logger: logger}
}

func (s *Source) Messages(ctx context.Context) (<-chan pipeline.Message, error) {
	sub := s.rdb.Subscribe(ctx, s.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", s.channel, err)
	}

	out := make(chan pipeline.Message)
	go func() {
		defer close(out)
		defer sub.Close()

		in := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				msg, err := decodeMessage(m.Payload, time.Now().UTC())
				if err != nil {
					s.logger.Warn("dropping malformed posting", zap.String("channel", m.Channel), zap.Error(err))
					continue
				}
				if !s.allowed.allows(msg.Chat) {
					s.logger.Debug("posting from unlisted chat ignored", zap.String("chat", msg.Chat))
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func decodeMessage(payload string, now time.Time) (pipeline.Message, error) {
	var msg pipeline.Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return pipeline.Message{}, fmt.Errorf("decode posting: %w", err)
	}
	msg.Chat = NormalizeChat(msg.Chat)
	msg.MessageID = strings.TrimSpace(msg.MessageID)
	if msg.Chat == "" || msg.MessageID == "" {
		return pipeline.Message{}, errors.New("posting must carry chat and message_id")
	}
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = now
	}
	return msg, nil
}

// Publish sends a posting to the source channel.
func Publish(ctx context.Context, rdb *redis.Client, channel string, msg pipeline.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return rdb.Publish(ctx, channel, payload).Err()
}
