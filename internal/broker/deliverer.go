package broker

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/spigell/job-monitor/internal/notify"
)

// Deliverer appends one entry per recipient to the notification stream. The
// delivery bot adds candidates that blocked it to the unreachable set.
type Deliverer struct {
	rdb         *redis.Client
	stream      string
	unreachable string
}

func NewDeliverer(rdb *redis.Client, stream, unreachableSet string) *Deliverer {
	return &Deliverer{rdb: rdb, stream: stream, unreachable: unreachableSet}
}

func (d *Deliverer) Deliver(ctx context.Context, delivery notify.Delivery) error {
	if d.unreachable != "" {
		blocked, err := d.rdb.SIsMember(ctx, d.unreachable, delivery.CandidateID.String()).Result()
		if err != nil {
			return fmt.Errorf("check unreachable set: %w", err)
		}
		if blocked {
			return notify.ErrRecipientUnreachable
		}
	}

	err := d.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: d.stream,
		Values: deliveryValues(delivery),
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", d.stream, err)
	}
	return nil
}

func deliveryValues(d notify.Delivery) map[string]any {
	return map[string]any{
		"candidate_id":      d.CandidateID.String(),
		"vacancy_id":        d.VacancyID.String(),
		"mirror_channel":    d.Mirror.Channel,
		"mirror_message_id": d.Mirror.MessageID,
	}
}
