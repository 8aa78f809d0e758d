package intracom

import "sync/atomic"

// SubscriberConfig describes one consumer group of a topic.
type SubscriberConfig[T any] struct {
	ConsumerGroup string
	ErrIfExists   bool
	BufferSize    int
	// BufferPolicy defaults to BufferPolicyDropNone.
	BufferPolicy BufferPolicyHandler[T]
}

type subscriber[T any] struct {
	consumerGroup string
	bufferPolicy  BufferPolicyHandler[T]
	ch            chan T
	stopC         chan struct{}
	stopped       atomic.Bool
	closed        atomic.Bool
}

func newSubscriber[T any](conf SubscriberConfig[T]) *subscriber[T] {
	policy := conf.BufferPolicy
	if policy == nil {
		policy = BufferPolicyDropNone[T]{}
	}

	return &subscriber[T]{
		consumerGroup: conf.ConsumerGroup,
		bufferPolicy:  policy,
		ch:            make(chan T, conf.BufferSize),
		stopC:         make(chan struct{}),
	}
}

// send delivers message according to the buffer policy.
// Callers hold the topic read lock.
func (s *subscriber[T]) send(message T) error {
	if s.stopped.Load() {
		return ErrSubscriberStopped
	}
	return s.bufferPolicy.Handle(s.ch, message, s.stopC)
}

// stop releases a send that is blocked on this subscriber.
func (s *subscriber[T]) stop() {
	if !s.stopped.Swap(true) {
		close(s.stopC)
	}
}

// close closes the consumer channel. Callers hold the topic write lock.
func (s *subscriber[T]) close() {
	if !s.closed.Swap(true) {
		close(s.ch)
	}
}
