// Package bus is a process-local publish/subscribe registry for cross-cutting
// notifications that have no shared owner, e.g. "profile picture updated"
// needs to reach both the navbar view and the profile screen.
package bus

import "sync"

// Topics published by the application.
const (
	TopicProfilePictureUpdated = "profile.picture.updated"
	TopicSessionCleared        = "session.cleared"
)

// Event is one published notification.
type Event struct {
	Topic   string
	Payload any
}

// Bus fans events out to topic subscribers. Publish never blocks: a slow
// subscriber loses its oldest pending event rather than stalling the rest.
type Bus struct {
	mu     sync.Mutex
	topics map[string]map[chan Event]struct{}
}

func New() *Bus {
	return &Bus{topics: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers for one topic. The caller must invoke the returned
// cancel function when its component goes away.
func (b *Bus) Subscribe(topic string) (<-chan Event, func()) {
	ch := make(chan Event, 8)

	b.mu.Lock()
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[chan Event]struct{})
		b.topics[topic] = subs
	}
	subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if subs, ok := b.topics[topic]; ok {
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(b.topics, topic)
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber of its topic.
func (b *Bus) Publish(topic string, payload any) {
	event := Event{Topic: topic, Payload: payload}

	// Exclusive lock: the drain-then-send below only leaves room for this
	// publisher when no other publisher runs concurrently.
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.topics[topic] {
		select {
		case ch <- event:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}
