package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watch2give/streakd/internal/streak"
)

func TestBroadcaster_PublishReachesAllSubscribers(t *testing.T) {
	b := NewBroadcaster(nil)
	ctx := context.Background()

	ch1, _ := b.Subscribe(ctx)
	ch2, _ := b.Subscribe(ctx)

	b.Publish(streak.Incremented(2))

	assert.Equal(t, streak.Incremented(2), <-ch1)
	assert.Equal(t, streak.Incremented(2), <-ch2)
}

func TestBroadcaster_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroadcaster(nil)
	ch, _ := b.Subscribe(context.Background())

	// Overfill the buffer; Publish must drop, not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBufferSize+5; i++ {
			b.Publish(streak.Reset())
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full subscriber channel")
	}
	assert.Len(t, ch, subscriberBufferSize)
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster(nil)
	ch, id := b.Subscribe(context.Background())

	b.Unsubscribe(id)

	_, open := <-ch
	assert.False(t, open)

	// Double unsubscribe is a no-op.
	b.Unsubscribe(id)
}

func TestBroadcaster_ContextCancelCleansUp(t *testing.T) {
	b := NewBroadcaster(nil)
	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := b.Subscribe(ctx)

	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, open := <-ch:
			return !open
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond, "subscription should close after ctx cancellation")
}
