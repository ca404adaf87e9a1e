package tracker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/watch2give/streakd/internal/streak"
)

// subscriberBufferSize is the channel buffer for each subscriber. Streak
// effects are rare (a handful per day), so a small buffer is plenty.
const subscriberBufferSize = 16

// Broadcaster fans streak effects out to subscribers: the toast/banner UI
// listens for AchievedMax, incidental consumers animate the flame
// indicators on Incremented/Reset.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]chan streak.Effect
	logger      *slog.Logger
}

// NewBroadcaster creates a broadcaster. Pass nil logger for default.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		subscribers: make(map[string]chan streak.Effect),
		logger:      logger,
	}
}

// Subscribe registers a subscriber and returns its channel and
// subscription ID. The subscription is automatically cleaned up when ctx
// is cancelled.
func (b *Broadcaster) Subscribe(ctx context.Context) (<-chan streak.Effect, string) {
	subID := uuid.New().String()
	ch := make(chan streak.Effect, subscriberBufferSize)

	b.mu.Lock()
	b.subscribers[subID] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.Unsubscribe(subID)
	}()

	return ch, subID
}

// Publish sends an effect to all subscribers. Non-blocking: effects are
// dropped for subscribers whose channels are full, so a stalled consumer
// cannot block a transition.
func (b *Broadcaster) Publish(effect streak.Effect) {
	b.mu.RLock()
	targets := make([]chan streak.Effect, 0, len(b.subscribers))
	for _, ch := range b.subscribers {
		targets = append(targets, ch)
	}
	b.mu.RUnlock()

	for _, ch := range targets {
		select {
		case ch <- effect:
		default:
			b.logger.Debug("dropped effect for slow subscriber", "effect", effect.String())
		}
	}
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broadcaster) Unsubscribe(subID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.subscribers[subID]
	if !ok {
		return
	}
	delete(b.subscribers, subID)
	close(ch)
}
