package relay

import "context"

// Task is a broker running on its own goroutine.
type Task struct {
	doneC chan struct{}
	err   error
}

// Start runs broker on a new goroutine and returns a handle to wait on it.
func Start[Req, Resp any](ctx context.Context, broker *Broker[Req, Resp]) *Task {
	t := &Task{doneC: make(chan struct{})}
	go func() {
		defer close(t.doneC)
		t.err = broker.Run(ctx)
	}()
	return t
}

// Done is closed once the broker has returned.
func (t *Task) Done() <-chan struct{} {
	return t.doneC
}

// Wait blocks until the broker returns and reports its error.
// It must not be called from a foreground loop.
func (t *Task) Wait() error {
	<-t.doneC
	return t.err
}

// Err reports the broker's error without blocking, it is always nil while the broker is running.
func (t *Task) Err() error {
	select {
	case <-t.doneC:
		return t.err
	default:
		return nil
	}
}
