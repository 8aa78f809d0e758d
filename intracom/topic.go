package intracom

import (
	"sync"
	"sync/atomic"

	"github.com/ambitiousfew/relay/log"
)

// Topic fans every published message out to all of its consumer groups.
type Topic[T any] interface {
	Name() string
	// Publisher returns the channel to publish on. It must not be used after Close.
	Publisher() chan<- T
	Subscribe(conf SubscriberConfig[T]) (<-chan T, error)
	Unsubscribe(consumer string, ch <-chan T) error
	// Close stops publishing. Messages already published are still delivered,
	// then every consumer channel is closed.
	Close() error
}

// TopicConfig configures a topic created by CreateTopic.
type TopicConfig struct {
	Name        string // unique name for the topic
	Buffer      int    // buffer size for the publish channel
	ErrIfExists bool   // return error if topic already exists
}

type topic[T any] struct {
	name        string
	publishC    chan T
	subscribers map[string]*subscriber[T]
	closed      atomic.Bool
	mu          sync.RWMutex
	logger      log.Logger
}

func newTopic[T any](name string, buffer int, logger log.Logger) *topic[T] {
	t := &topic[T]{
		name:        name,
		publishC:    make(chan T, buffer),
		subscribers: make(map[string]*subscriber[T]),
		logger:      logger,
	}

	go t.broadcast()
	return t
}

func (t *topic[T]) Name() string {
	return t.name
}

func (t *topic[T]) Publisher() chan<- T {
	return t.publishC
}

func (t *topic[T]) Subscribe(conf SubscriberConfig[T]) (<-chan T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed.Load() {
		return nil, ErrSubscribe{Topic: t.name, Consumer: conf.ConsumerGroup, Action: ActionCreatingSubscription, Err: ErrTopicClosed}
	}

	if sub, exists := t.subscribers[conf.ConsumerGroup]; exists {
		if conf.ErrIfExists {
			return sub.ch, ErrSubscribe{Topic: t.name, Consumer: conf.ConsumerGroup, Action: ActionCreatingSubscription, Err: ErrConsumerAlreadyExists}
		}
		return sub.ch, nil
	}

	sub := newSubscriber(conf)
	t.subscribers[conf.ConsumerGroup] = sub
	return sub.ch, nil
}

func (t *topic[T]) Unsubscribe(consumer string, ch <-chan T) error {
	t.mu.RLock()
	sub, exists := t.subscribers[consumer]
	t.mu.RUnlock()

	if !exists {
		return ErrSubscribe{Topic: t.name, Consumer: consumer, Action: ActionRemovingSubscription, Err: ErrConsumerNotFound}
	}

	if sub.ch != ch {
		return ErrSubscribe{Topic: t.name, Consumer: consumer, Action: ActionRemovingSubscription, Err: ErrConsumerMismatch}
	}

	// unblock a pending delivery before waiting for the write lock.
	sub.stop()

	t.mu.Lock()
	if t.subscribers[consumer] == sub {
		delete(t.subscribers, consumer)
	}
	sub.close()
	t.mu.Unlock()
	return nil
}

func (t *topic[T]) Close() error {
	if t.closed.Swap(true) {
		return ErrTopic{Topic: t.name, Action: ActionClosingTopic, Err: ErrTopicClosed}
	}

	close(t.publishC)
	return nil
}

// broadcast runs for the lifetime of the topic. Each message is handed to every
// subscriber before the next one is read, so every consumer sees publish order.
func (t *topic[T]) broadcast() {
	for msg := range t.publishC {
		var wg sync.WaitGroup
		t.mu.RLock()
		wg.Add(len(t.subscribers))
		for name, sub := range t.subscribers {
			go func() {
				defer wg.Done()
				if err := sub.send(msg); err != nil {
					t.logger.Log(log.LevelDebug, "message not delivered", log.String("topic", t.name), log.String("consumer", name), log.Error("error", err))
				}
			}()
		}
		// the read lock is held until every send returned, close only happens under the write lock.
		wg.Wait()
		t.mu.RUnlock()
	}

	t.mu.Lock()
	for name, sub := range t.subscribers {
		sub.stop()
		sub.close()
		delete(t.subscribers, name)
	}
	t.mu.Unlock()
}
