package relay

import (
	"context"
	"sync"
	"sync/atomic"
)

// PollStatus is the outcome of a non-blocking receive.
type PollStatus uint8

const (
	// PollEmpty means nothing was queued but at least one sender is still open.
	PollEmpty PollStatus = iota
	// PollReady means a message was dequeued.
	PollReady
	// PollClosed means every sender is closed and the queue is drained, or the receiver itself was closed.
	PollClosed
)

func (s PollStatus) String() string {
	switch s {
	case PollEmpty:
		return "empty"
	case PollReady:
		return "ready"
	case PollClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// queue is the shared state behind one Sender/Receiver pair.
// It is unbounded, a send only ever holds the lock long enough to append.
type queue[T any] struct {
	mu           sync.Mutex
	items        []T
	senders      int
	receiverGone bool
	// readyC holds at most one wake-up for the single receiver.
	readyC chan struct{}
}

func (q *queue[T]) signal() {
	select {
	case q.readyC <- struct{}{}:
	default:
		// a wake-up is already pending.
	}
}

// NewChannel creates an unbounded, ordered, point-to-point channel and returns its two ends.
// Additional producers are created with Sender.Clone, the Receiver is never shared.
func NewChannel[T any]() (*Sender[T], *Receiver[T]) {
	q := &queue[T]{
		items:   nil,
		senders: 1,
		readyC:  make(chan struct{}, 1),
	}
	return &Sender[T]{q: q}, &Receiver[T]{q: q}
}

// Sender is a sending handle of a channel created by NewChannel.
type Sender[T any] struct {
	q      *queue[T]
	closed atomic.Bool
}

// Send enqueues message without ever blocking on capacity.
// It fails with ErrChannelClosed once the receiver has been closed.
func (s *Sender[T]) Send(message T) error {
	if s.closed.Load() {
		return ErrSenderClosed
	}

	s.q.mu.Lock()
	// Close flips closed under the same lock, so a send never lands after the last close.
	if s.closed.Load() {
		s.q.mu.Unlock()
		return ErrSenderClosed
	}
	if s.q.receiverGone {
		s.q.mu.Unlock()
		return ErrChannelClosed
	}
	s.q.items = append(s.q.items, message)
	s.q.mu.Unlock()

	s.q.signal()
	return nil
}

// Clone returns another sending handle onto the same channel.
// The receiver observes end-of-stream only after every handle has been closed.
func (s *Sender[T]) Clone() (*Sender[T], error) {
	if s.closed.Load() {
		return nil, ErrSenderClosed
	}

	s.q.mu.Lock()
	defer s.q.mu.Unlock()
	if s.closed.Load() {
		return nil, ErrSenderClosed
	}
	s.q.senders++
	return &Sender[T]{q: s.q}, nil
}

// Close drops this handle. Messages already sent are still delivered.
func (s *Sender[T]) Close() error {
	s.q.mu.Lock()
	if s.closed.Swap(true) {
		s.q.mu.Unlock()
		return ErrSenderClosed
	}
	s.q.senders--
	last := s.q.senders == 0
	s.q.mu.Unlock()

	if last {
		// wake the receiver so a blocked Receive can observe the close.
		s.q.signal()
	}
	return nil
}

// Receiver is the receiving handle of a channel created by NewChannel.
// It must only be used by one goroutine at a time.
type Receiver[T any] struct {
	q      *queue[T]
	closed atomic.Bool
}

// TryReceive dequeues the oldest message without blocking.
func (r *Receiver[T]) TryReceive() (T, PollStatus) {
	var zero T
	if r.closed.Load() {
		return zero, PollClosed
	}

	r.q.mu.Lock()
	defer r.q.mu.Unlock()

	if len(r.q.items) > 0 {
		msg := r.q.items[0]
		r.q.items[0] = zero // release the reference for the GC
		r.q.items = r.q.items[1:]
		if len(r.q.items) == 0 {
			r.q.items = nil
		}
		return msg, PollReady
	}

	if r.q.senders == 0 {
		return zero, PollClosed
	}

	return zero, PollEmpty
}

// Receive waits until a message is available, the channel closes or ctx is done.
// Only the calling goroutine is suspended.
func (r *Receiver[T]) Receive(ctx context.Context) (T, error) {
	var zero T
	for {
		msg, status := r.TryReceive()
		switch status {
		case PollReady:
			return msg, nil
		case PollClosed:
			return zero, ErrChannelClosed
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-r.q.readyC:
			// something changed, check the queue again.
		}
	}
}

// Len reports how many messages are currently queued.
func (r *Receiver[T]) Len() int {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return len(r.q.items)
}

// Close drops the receiver, discarding anything still queued.
// Every later Send on this channel fails with ErrChannelClosed.
func (r *Receiver[T]) Close() {
	if r.closed.Swap(true) {
		return
	}

	r.q.mu.Lock()
	r.q.receiverGone = true
	r.q.items = nil
	r.q.mu.Unlock()
}
