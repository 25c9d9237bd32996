package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// TopicMatchCompleted carries MatchCompletedEvent payloads.
const TopicMatchCompleted = "rankings.match.completed"

// MatchCompletedEvent is published after a match-completion write commits.
type MatchCompletedEvent struct {
	MatchID      int `json:"match_id"`
	TournamentID int `json:"tournament_id"`
}

// Publisher is the narrow interface the match service needs.
type Publisher interface {
	PublishMatchCompleted(ctx context.Context, event MatchCompletedEvent) error
}

// Bus is an in-process pub/sub decoupling ranking recomputation from the
// match-completion request path.
type Bus struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, watermill.NewSlogLogger(logger)),
		logger: logger,
	}
}

func (b *Bus) PublishMatchCompleted(ctx context.Context, event MatchCompletedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal match completed event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := b.pubSub.Publish(TopicMatchCompleted, msg); err != nil {
		return fmt.Errorf("failed to publish match completed event: %w", err)
	}
	return nil
}

// SubscribeMatchCompleted feeds completed-match events to the handler from
// a background goroutine until ctx is cancelled or the bus is closed.
// Every message is acked regardless of handler outcome: recomputation is
// best-effort relative to the match-completion write, and a failure here
// must never surface to the publishing transaction.
func (b *Bus) SubscribeMatchCompleted(ctx context.Context, handler func(context.Context, MatchCompletedEvent)) error {
	messages, err := b.pubSub.Subscribe(ctx, TopicMatchCompleted)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicMatchCompleted, err)
	}

	go func() {
		for msg := range messages {
			var event MatchCompletedEvent
			if unmarshalErr := json.Unmarshal(msg.Payload, &event); unmarshalErr != nil {
				b.logger.Error("discarding malformed match completed event",
					slog.String("message_id", msg.UUID),
					slog.Any("error", unmarshalErr))
				msg.Ack()
				continue
			}
			// The subscription context outlives the publisher's request.
			handler(ctx, event)
			msg.Ack()
		}
	}()
	return nil
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}
