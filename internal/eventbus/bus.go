// Package eventbus lets the resolver publish lightweight notifications
// (records cached, referral followed, query resolved) for an
// observer such as the CLI's stats printer, without coupling those
// components directly to it.
package eventbus

import (
	"context"
	"sync"
)

// Topic identifies a category of resolver event.
type Topic string

const (
	// TopicCache fires once each time the resolver caches a response's
	// sections; Data is the number of records offered to the cache.
	TopicCache Topic = "cache"
	// TopicQuery fires once per completed RecursiveQuery, success or not.
	TopicQuery Topic = "query"
	// TopicReferral fires each time the engine follows a referral to a new
	// set of nameservers.
	TopicReferral Topic = "referral"
)

// Event is a single published notification.
type Event struct {
	Topic Topic
	Data  interface{}
}

// Subscriber receives events for the topic it subscribed to.
type Subscriber struct {
	Ch   <-chan Event
	stop context.CancelFunc
}

// Close stops delivery to this subscriber and closes its channel.
func (s *Subscriber) Close() {
	if s.stop != nil {
		s.stop()
	}
}

// Bus fans events out to subscribers of a topic. A slow subscriber drops
// events rather than blocking the publisher, since the resolver's hot path
// must never stall on an observer.
type Bus struct {
	mu   sync.RWMutex
	subs map[Topic][]chan Event
	buf  int
}

// New creates a Bus whose per-subscriber channels are buffered to buf.
func New(buf int) *Bus {
	return &Bus{subs: make(map[Topic][]chan Event), buf: buf}
}

// Publish delivers data to every current subscriber of topic.
func (b *Bus) Publish(topic Topic, data interface{}) {
	b.mu.RLock()
	chs := b.subs[topic]
	b.mu.RUnlock()

	for _, ch := range chs {
		select {
		case ch <- Event{Topic: topic, Data: data}:
		default:
			// Subscriber is behind; drop rather than block the publisher.
		}
	}
}

// Subscribe registers a new listener for topic. Calling Close on the
// returned Subscriber (or cancelling ctx) unregisters it.
func (b *Bus) Subscribe(ctx context.Context, topic Topic) *Subscriber {
	ch := make(chan Event, b.buf)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()

	cctx, cancel := context.WithCancel(ctx)
	go func() {
		<-cctx.Done()
		b.mu.Lock()
		subs := b.subs[topic]
		for i, c := range subs {
			if c == ch {
				b.subs[topic] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		b.mu.Unlock()
		close(ch)
	}()

	return &Subscriber{Ch: ch, stop: cancel}
}
