// Package intracom is an in-process registry of typed publish/subscribe topics.
//
// A topic is created once by its publisher and any number of consumer groups
// subscribe to it, each with its own buffer and buffer policy.
package intracom

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ambitiousfew/relay/log"
)

// topicPollInterval is how often CreateSubscription checks for a topic that does not exist yet.
const topicPollInterval = 100 * time.Millisecond

type Option func(*Intracom)

// WithLogger sets the logger used by the registry and its topics.
func WithLogger(logger log.Logger) Option {
	return func(ic *Intracom) {
		if logger != nil {
			ic.logger = logger
		}
	}
}

// Intracom acts as a registry for all topics.
type Intracom struct {
	name   string
	topics map[string]any // map[string]Topic[T]
	mu     sync.RWMutex

	logger log.Logger
	closed atomic.Bool
}

// New creates a new, empty registry.
func New(name string, opts ...Option) *Intracom {
	ic := &Intracom{
		name:   name,
		topics: make(map[string]any),
		logger: log.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(ic)
	}

	ic.logger = ic.logger.With(log.String("intracom", name))
	return ic
}

// Name returns the name the registry was created with.
func (ic *Intracom) Name() string {
	return ic.name
}

// CreateTopic creates a new topic with the given configuration.
// If the topic already exists it is returned, along with an error when conf.ErrIfExists is set.
func CreateTopic[T any](ic *Intracom, conf TopicConfig) (Topic[T], error) {
	if ic == nil {
		return nil, ErrTopic{Topic: conf.Name, Action: ActionCreatingTopic, Err: ErrInvalidIntracomNil}
	}

	ic.mu.Lock()
	defer ic.mu.Unlock()

	if ic.closed.Load() {
		return nil, ErrTopic{Topic: conf.Name, Action: ActionCreatingTopic, Err: ErrIntracomClosed}
	}

	if topicAny, exists := ic.topics[conf.Name]; exists {
		topic, ok := topicAny.(Topic[T])
		if !ok {
			return nil, ErrTopic{Topic: conf.Name, Action: ActionCreatingTopic, Err: ErrInvalidTopicType}
		}
		if conf.ErrIfExists {
			return topic, ErrTopic{Topic: conf.Name, Action: ActionCreatingTopic, Err: ErrTopicAlreadyExists}
		}
		return topic, nil
	}

	topic := newTopic[T](conf.Name, conf.Buffer, ic.logger)
	ic.topics[conf.Name] = topic
	ic.logger.Log(log.LevelDebug, "topic created", log.String("topic", conf.Name))
	return topic, nil
}

// RemoveTopic unregisters and closes a topic.
func RemoveTopic[T any](ic *Intracom, name string) error {
	if ic == nil {
		return ErrTopic{Topic: name, Action: ActionRemovingTopic, Err: ErrInvalidIntracomNil}
	}

	ic.mu.Lock()
	topicAny, exists := ic.topics[name]
	if !exists {
		ic.mu.Unlock()
		return ErrTopic{Topic: name, Action: ActionRemovingTopic, Err: ErrTopicNotFound}
	}

	topic, ok := topicAny.(Topic[T])
	if !ok {
		ic.mu.Unlock()
		return ErrTopic{Topic: name, Action: ActionRemovingTopic, Err: ErrInvalidTopicType}
	}
	delete(ic.topics, name)
	ic.mu.Unlock()

	return topic.Close()
}

// CreateSubscription subscribes to topic, waiting up to maxWait for it to be created.
// If maxWait is 0 it waits until the topic exists, ctx is done or the registry is closed.
func CreateSubscription[T any](ctx context.Context, ic *Intracom, topic string, maxWait time.Duration, conf SubscriberConfig[T]) (<-chan T, error) {
	if ic == nil {
		return nil, ErrSubscribe{Topic: topic, Consumer: conf.ConsumerGroup, Action: ActionCreatingSubscription, Err: ErrInvalidIntracomNil}
	}

	// maxTimeout stays nil, and never fires, when maxWait is 0.
	var maxTimeout <-chan time.Time
	if maxWait > 0 {
		timer := time.NewTimer(maxWait)
		defer timer.Stop()
		maxTimeout = timer.C
	}

	ticker := time.NewTicker(topicPollInterval)
	defer ticker.Stop()

	for {
		if ic.closed.Load() {
			return nil, ErrSubscribe{Topic: topic, Consumer: conf.ConsumerGroup, Action: ActionCreatingSubscription, Err: ErrIntracomClosed}
		}

		ic.mu.RLock()
		topicAny, found := ic.topics[topic]
		ic.mu.RUnlock()

		if found {
			t, ok := topicAny.(Topic[T])
			if !ok {
				return nil, ErrSubscribe{Topic: topic, Consumer: conf.ConsumerGroup, Action: ActionCreatingSubscription, Err: ErrInvalidTopicType}
			}
			return t.Subscribe(conf)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-maxTimeout:
			return nil, ErrSubscribe{Topic: topic, Consumer: conf.ConsumerGroup, Action: ActionCreatingSubscription, Err: ErrMaxTimeoutReached}
		case <-ticker.C:
		}
	}
}

// RemoveSubscription removes the consumer group from topic. ch must be the channel returned when subscribing.
func RemoveSubscription[T any](ic *Intracom, topic string, consumer string, ch <-chan T) error {
	if ic == nil {
		return ErrSubscribe{Topic: topic, Consumer: consumer, Action: ActionRemovingSubscription, Err: ErrInvalidIntracomNil}
	}

	ic.mu.RLock()
	topicAny, exists := ic.topics[topic]
	ic.mu.RUnlock()

	if !exists {
		return ErrSubscribe{Topic: topic, Consumer: consumer, Action: ActionRemovingSubscription, Err: ErrTopicNotFound}
	}

	t, ok := topicAny.(Topic[T])
	if !ok {
		return ErrSubscribe{Topic: topic, Consumer: consumer, Action: ActionRemovingSubscription, Err: ErrInvalidTopicType}
	}

	return t.Unsubscribe(consumer, ch)
}

// Close closes every registered topic. The registry cannot be used afterwards.
func Close(ic *Intracom) error {
	if ic == nil {
		return ErrInvalidIntracomNil
	}

	if ic.closed.Swap(true) {
		return ErrIntracomClosed
	}

	ic.mu.Lock()
	defer ic.mu.Unlock()

	for name, topicAny := range ic.topics {
		closer, ok := topicAny.(interface{ Close() error })
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			ic.logger.Log(log.LevelError, "error closing topic", log.String("topic", name), log.Error("error", err))
		}
	}

	ic.topics = make(map[string]any)
	return nil
}
