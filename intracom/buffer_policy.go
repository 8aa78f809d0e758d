package intracom

// BufferPolicyHandler decides what happens when a subscriber channel is full.
// Handle must return once stopC is closed.
type BufferPolicyHandler[T any] interface {
	Handle(ch chan T, message T, stopC <-chan struct{}) error
}

// BufferPolicyDropNone never drops, it blocks the topic until the subscriber has room.
type BufferPolicyDropNone[T any] struct{}

func (BufferPolicyDropNone[T]) Handle(ch chan T, message T, stopC <-chan struct{}) error {
	select {
	case <-stopC:
		return ErrSubscriberStopped
	case ch <- message:
		return nil
	}
}

// BufferPolicyDropOldest makes room for message by discarding the oldest buffered one.
// A subscriber with a buffer of one always sees the latest message.
type BufferPolicyDropOldest[T any] struct{}

func (BufferPolicyDropOldest[T]) Handle(ch chan T, message T, stopC <-chan struct{}) error {
	select {
	case <-stopC:
		return ErrSubscriberStopped
	case ch <- message:
		return nil
	default:
	}

	// full, drop one
	select {
	case <-ch:
	default:
	}

	select {
	case <-stopC:
		return ErrSubscriberStopped
	case ch <- message:
		return nil
	default:
		return ErrBufferFull
	}
}

// BufferPolicyDropNewest discards message when the subscriber has no room for it.
type BufferPolicyDropNewest[T any] struct{}

func (BufferPolicyDropNewest[T]) Handle(ch chan T, message T, stopC <-chan struct{}) error {
	select {
	case <-stopC:
		return ErrSubscriberStopped
	case ch <- message:
		return nil
	default:
		return nil
	}
}
