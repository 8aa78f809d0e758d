package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestChannelFIFO(t *testing.T) {
	sender, receiver := NewChannel[int]()

	for i := 0; i < 100; i++ {
		if err := sender.Send(i); err != nil {
			t.Fatalf("Send(%d): want nil, got %v", i, err)
		}
	}

	if got := receiver.Len(); got != 100 {
		t.Errorf("Len: want 100, got %d", got)
	}

	for want := 0; want < 100; want++ {
		got, status := receiver.TryReceive()
		if status != PollReady {
			t.Fatalf("TryReceive status: want %s, got %s", PollReady, status)
		}
		if got != want {
			t.Errorf("TryReceive: want %d, got %d", want, got)
		}
	}

	if _, status := receiver.TryReceive(); status != PollEmpty {
		t.Errorf("TryReceive on drained open channel: want %s, got %s", PollEmpty, status)
	}
}

func TestChannelClosedAfterDrain(t *testing.T) {
	sender, receiver := NewChannel[string]()

	if err := sender.Send("last"); err != nil {
		t.Fatalf("Send: want nil, got %v", err)
	}
	if err := sender.Close(); err != nil {
		t.Fatalf("Close: want nil, got %v", err)
	}

	// a message queued before the close is still delivered.
	msg, status := receiver.TryReceive()
	if status != PollReady || msg != "last" {
		t.Errorf("TryReceive: want (last, %s), got (%q, %s)", PollReady, msg, status)
	}

	if _, status := receiver.TryReceive(); status != PollClosed {
		t.Errorf("TryReceive after drain: want %s, got %s", PollClosed, status)
	}
}

func TestSenderErrors(t *testing.T) {
	sender, receiver := NewChannel[int]()

	receiver.Close()
	if err := sender.Send(1); !errors.Is(err, ErrChannelClosed) {
		t.Errorf("Send after receiver close: want %v, got %v", ErrChannelClosed, err)
	}

	if err := sender.Close(); err != nil {
		t.Errorf("Close: want nil, got %v", err)
	}
	if err := sender.Close(); !errors.Is(err, ErrSenderClosed) {
		t.Errorf("second Close: want %v, got %v", ErrSenderClosed, err)
	}
	if err := sender.Send(2); !errors.Is(err, ErrSenderClosed) {
		t.Errorf("Send after own Close: want %v, got %v", ErrSenderClosed, err)
	}
	if _, err := sender.Clone(); !errors.Is(err, ErrSenderClosed) {
		t.Errorf("Clone after own Close: want %v, got %v", ErrSenderClosed, err)
	}
}

func TestReceiverCloseDiscardsQueue(t *testing.T) {
	sender, receiver := NewChannel[int]()
	_ = sender.Send(1)
	_ = sender.Send(2)

	receiver.Close()
	if got := receiver.Len(); got != 0 {
		t.Errorf("Len after Close: want 0, got %d", got)
	}
	if _, status := receiver.TryReceive(); status != PollClosed {
		t.Errorf("TryReceive after Close: want %s, got %s", PollClosed, status)
	}
}

func TestSenderCloneKeepsChannelOpen(t *testing.T) {
	sender, receiver := NewChannel[int]()

	clone, err := sender.Clone()
	if err != nil {
		t.Fatalf("Clone: want nil, got %v", err)
	}

	_ = sender.Close()
	if _, status := receiver.TryReceive(); status != PollEmpty {
		t.Errorf("TryReceive with a live clone: want %s, got %s", PollEmpty, status)
	}

	if err := clone.Send(7); err != nil {
		t.Fatalf("clone Send: want nil, got %v", err)
	}
	_ = clone.Close()

	if msg, status := receiver.TryReceive(); status != PollReady || msg != 7 {
		t.Errorf("TryReceive: want (7, %s), got (%d, %s)", PollReady, msg, status)
	}
	if _, status := receiver.TryReceive(); status != PollClosed {
		t.Errorf("TryReceive after all senders closed: want %s, got %s", PollClosed, status)
	}
}

func TestReceiveWaitsForSend(t *testing.T) {
	sender, receiver := NewChannel[int]()

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = sender.Send(42)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := receiver.Receive(ctx)
	if err != nil {
		t.Fatalf("Receive: want nil, got %v", err)
	}
	if got != 42 {
		t.Errorf("Receive: want 42, got %d", got)
	}
}

func TestReceiveObservesClose(t *testing.T) {
	sender, receiver := NewChannel[int]()

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = sender.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := receiver.Receive(ctx); !errors.Is(err, ErrChannelClosed) {
		t.Errorf("Receive: want %v, got %v", ErrChannelClosed, err)
	}
}

func TestReceiveContextDone(t *testing.T) {
	_, receiver := NewChannel[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := receiver.Receive(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Receive: want %v, got %v", context.DeadlineExceeded, err)
	}
}

func TestChannelConcurrentProducers(t *testing.T) {
	type msg struct {
		producer int
		seq      int
	}

	sender, receiver := NewChannel[msg]()
	const producers = 4
	const perProducer = 250

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		clone, err := sender.Clone()
		if err != nil {
			t.Fatalf("Clone: want nil, got %v", err)
		}
		go func(p int, s *Sender[msg]) {
			defer wg.Done()
			defer s.Close()
			for i := 0; i < perProducer; i++ {
				_ = s.Send(msg{producer: p, seq: i})
			}
		}(p, clone)
	}
	_ = sender.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	next := make(map[int]int)
	var total int
	for {
		m, err := receiver.Receive(ctx)
		if errors.Is(err, ErrChannelClosed) {
			break
		}
		if err != nil {
			t.Fatalf("Receive: want nil, got %v", err)
		}
		if m.seq != next[m.producer] {
			t.Fatalf("producer %d out of order: want %d, got %d", m.producer, next[m.producer], m.seq)
		}
		next[m.producer]++
		total++
	}
	wg.Wait()

	if total != producers*perProducer {
		t.Errorf("total received: want %d, got %d", producers*perProducer, total)
	}
}

func TestSharedSenderCloseRacingSend(t *testing.T) {
	for run := 0; run < 200; run++ {
		sender, receiver := NewChannel[int]()

		var accepted int
		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; ; i++ {
				if err := sender.Send(i); err != nil {
					if !errors.Is(err, ErrSenderClosed) {
						t.Errorf("Send: want %v, got %v", ErrSenderClosed, err)
					}
					return
				}
				accepted++
			}
		}()

		_ = sender.Close()
		<-done

		var received int
		for {
			_, status := receiver.TryReceive()
			if status == PollClosed {
				break
			}
			if status != PollReady {
				t.Fatalf("run %d: want ready or closed after the last close, got %v", run, status)
			}
			received++
		}

		if received != accepted {
			t.Fatalf("run %d: %d sends succeeded but %d were delivered", run, accepted, received)
		}
	}
}

func TestPollStatusString(t *testing.T) {
	tests := map[PollStatus]string{
		PollEmpty:      "empty",
		PollReady:      "ready",
		PollClosed:     "closed",
		PollStatus(99): "unknown",
	}
	for status, want := range tests {
		if got := status.String(); got != want {
			t.Errorf("PollStatus(%d).String(): want %q, got %q", status, want, got)
		}
	}
}
