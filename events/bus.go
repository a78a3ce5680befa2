// Package events provides the in-process notification mechanism used for
// cross-component refresh. The watchlist tracker publishes a
// "watchlist changed" event after every successful mutation; any mounted
// view subscribes and re-pulls its data when the event arrives.
//
// Delivery is deliberately best-effort: publishing never blocks, a slow
// subscriber's events are dropped once its buffer fills, and only
// currently-subscribed listeners hear anything. That matches the
// fire-and-forget contract of the notification: subscribers reload their
// whole state on any event, so a dropped event is at worst a stale view
// until the next one.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TopicWatchlistChanged is published whenever a watchlist entry is created
// or removed.
const TopicWatchlistChanged = "watchlist-changed"

// subscriberBuffer is how many undelivered events a subscriber may lag
// behind before further events are dropped for it.
const subscriberBuffer = 32

// Event is a broadcast notification. It carries no payload beyond its
// topic; subscribers re-pull rather than patch state.
type Event struct {
	Topic string    `json:"topic"`
	At    time.Time `json:"at"`
}

// Bus is a topic-less fan-out broadcaster with explicit subscription
// lifecycle: Subscribe hands out an id and a channel, Unsubscribe closes
// the channel. All events go to all subscribers; filtering by Topic is the
// subscriber's business (there is only one topic today).
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
	log         zerolog.Logger
}

// NewBus creates an empty Bus.
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[string]chan Event),
		log:         log.With().Str("component", "events").Logger(),
	}
}

// Subscribe registers a new listener and returns its id together with the
// receive channel. The caller must Unsubscribe with the same id on
// teardown, or the subscriber leaks.
func (b *Bus) Subscribe() (string, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New().String()
	ch := make(chan Event, subscriberBuffer)
	b.subscribers[id] = ch
	b.log.Debug().Str("subscriber", id).Msg("subscriber registered")
	return id, ch
}

// Unsubscribe removes a listener and closes its channel, unblocking any
// pending receive. Unknown ids are a no-op, so double-unsubscribe on
// teardown is safe.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.subscribers[id]
	if !ok {
		return
	}
	delete(b.subscribers, id)
	close(ch)
	b.log.Debug().Str("subscriber", id).Msg("subscriber removed")
}

// Publish broadcasts an event for topic to every current subscriber
// without blocking. Subscribers whose buffers are full miss the event.
func (b *Bus) Publish(topic string) {
	event := Event{Topic: topic, At: time.Now()}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.log.Warn().Str("subscriber", id).Str("topic", topic).Msg("subscriber buffer full, event dropped")
		}
	}
}

// SubscriberCount reports the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
