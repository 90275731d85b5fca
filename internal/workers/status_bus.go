package workers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

type StatusPublisher interface {
	PublishStatus(ctx context.Context, m StatusMessage) error
}

// StatusSubscriber returns once the subscription is live, so a status read
// afterwards cannot miss a transition. The caller must invoke the returned
// close func.
type StatusSubscriber interface {
	SubscribeStatus(ctx context.Context, candidateID string) (<-chan StatusMessage, func() error, error)
}

// StatusBus carries preprocessing progress over redis pub/sub.
type StatusBus struct {
	Redis *redis.Client
}

func (b *StatusBus) PublishStatus(ctx context.Context, m StatusMessage) error {
	m.Type = "status"
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return b.Redis.Publish(ctx, StatusChannel(m.CandidateID), string(raw)).Err()
}

func (b *StatusBus) SubscribeStatus(ctx context.Context, candidateID string) (<-chan StatusMessage, func() error, error) {
	if b.Redis == nil {
		return nil, nil, errors.New("status bus has no redis client")
	}
	ps := b.Redis.Subscribe(ctx, StatusChannel(candidateID))
	// wait for the subscribe confirmation
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, err
	}

	out := make(chan StatusMessage)
	src := ps.Channel()
	go func() {
		defer close(out)
		for m := range src {
			var sm StatusMessage
			if json.Unmarshal([]byte(m.Payload), &sm) != nil {
				continue
			}
			select {
			case out <- sm:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, ps.Close, nil
}
