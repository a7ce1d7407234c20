// Package watch provides change notification for watch queries.
package watch

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ersonp/auditshield/internal/domain/ports"
)

// Topics published by the record store.
const (
	TopicAudits    = "audits"
	TopicQuestions = "questions"
	TopicAnswers   = "answers"
)

type subscriber struct {
	topics map[string]bool
	notify chan struct{}
}

// Broker fans out change notifications to subscribers by topic.
// Publish never blocks: each subscriber has a single pending slot, so a
// burst of writes collapses into one reload that observes all of them.
type Broker struct {
	mu   sync.Mutex
	subs map[string]*subscriber
}

// NewBroker creates an empty Broker.
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]*subscriber),
	}
}

// Subscribe registers interest in topics and returns the subscriber token and
// its notification channel.
func (b *Broker) Subscribe(topics ...string) (string, <-chan struct{}) {
	sub := &subscriber{
		topics: make(map[string]bool, len(topics)),
		notify: make(chan struct{}, 1),
	}
	for _, t := range topics {
		sub.topics[t] = true
	}

	id := uuid.New().String()

	b.mu.Lock()
	b.subs[id] = sub
	b.mu.Unlock()

	return id, sub.notify
}

// Unsubscribe removes a subscriber. Unknown tokens are ignored.
func (b *Broker) Unsubscribe(id string) {
	b.mu.Lock()
	delete(b.subs, id)
	b.mu.Unlock()
}

// Publish notifies every subscriber of any of the given topics.
func (b *Broker) Publish(topics ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		if !sub.interested(topics) {
			continue
		}
		select {
		case sub.notify <- struct{}{}:
		default:
		}
	}
}

// Len returns the number of active subscribers.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (s *subscriber) interested(topics []string) bool {
	for _, t := range topics {
		if s.topics[t] {
			return true
		}
	}
	return false
}

// Subscription is a running watch created by Stream.
type Subscription struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
}

// ID returns the unsubscribe token.
func (s *Subscription) ID() string {
	return s.id
}

// Close stops the watch and waits for its goroutine to exit.
// It must not be called from inside the watch's own listener; cancel the
// context passed to Stream instead.
func (s *Subscription) Close() {
	s.cancel()
	<-s.done
}

// Done is closed once the watch has stopped.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Stream loads a value and passes it to fn, then reloads and calls fn again
// after every publish on topics, until ctx is cancelled or the subscription
// is closed.
func Stream[T any](ctx context.Context, b *Broker, topics []string, load func(context.Context) (T, error), fn ports.Listener[T]) *Subscription {
	ctx, cancel := context.WithCancel(ctx)

	// Subscribe before the first load so no write can slip in between.
	id, notify := b.Subscribe(topics...)

	s := &Subscription{
		id:     id,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		defer b.Unsubscribe(id)

		emit := func() {
			v, err := load(ctx)
			if ctx.Err() != nil {
				return
			}
			fn(v, err)
		}

		emit()
		for {
			select {
			case <-ctx.Done():
				return
			case <-notify:
				emit()
			}
		}
	}()

	return s
}
