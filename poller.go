package relay

import (
	"errors"
	"sync/atomic"

	"github.com/ambitiousfew/relay/log"
)

// Applier applies a completed response to foreground state.
type Applier[Resp any] interface {
	Apply(resp Resp)
}

// ApplierFunc adapts an ordinary function to an Applier.
type ApplierFunc[Resp any] func(resp Resp)

func (f ApplierFunc[Resp]) Apply(resp Resp) {
	f(resp)
}

// PollResult describes what a single DrainOne call observed.
type PollResult struct {
	Status  PollStatus
	Applied bool
}

// PollerOption configures a Poller created by NewPoller.
type PollerOption func(*pollerOpts)

type pollerOpts struct {
	logger log.Logger
}

// WithPollerLogger sets the logger used by the poller, the default discards everything.
func WithPollerLogger(logger log.Logger) PollerOption {
	return func(o *pollerOpts) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Poller is the foreground side of a Duplex. Both Submit and DrainOne return immediately,
// which makes them safe to call from a render or event loop once per iteration.
// A Poller must only be used from that one loop.
type Poller[Req, Resp any] struct {
	requests  *Sender[Req]
	responses *Receiver[Resp]
	applier   Applier[Resp]
	log       log.Logger

	stopped atomic.Bool
}

// NewPoller creates a poller that owns the foreground ends fg and applies responses with applier.
func NewPoller[Req, Resp any](fg Foreground[Req, Resp], applier Applier[Resp], opts ...PollerOption) *Poller[Req, Resp] {
	o := pollerOpts{
		logger: log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Poller[Req, Resp]{
		requests:  fg.Requests,
		responses: fg.Responses,
		applier:   applier,
		log:       o.logger.With(log.String("component", "poller")),
	}
}

// Submit hands req to the broker without blocking.
// If the broker is gone the error matches ErrChannelClosed and the poller stops,
// the caller is expected to report it and keep its loop running.
func (p *Poller[Req, Resp]) Submit(req Req) error {
	if p.stopped.Load() {
		return ErrChannelClosed
	}

	err := p.requests.Send(req)
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrChannelClosed) {
		p.log.Log(log.LevelWarning, "broker is gone, submit dropped", log.Error("error", err))
		p.stopped.Store(true)
	}
	return err
}

// DrainOne checks for a completed response exactly once and, if there is one,
// applies it on the calling goroutine. At most one response is applied per call.
func (p *Poller[Req, Resp]) DrainOne() PollResult {
	resp, status := p.responses.TryReceive()
	switch status {
	case PollReady:
		p.applier.Apply(resp)
		return PollResult{Status: status, Applied: true}
	case PollClosed:
		if !p.stopped.Swap(true) {
			p.log.Log(log.LevelNotice, "response channel closed, submissions stopped")
		}
	}
	return PollResult{Status: status}
}

// Pending reports how many responses are waiting to be drained.
func (p *Poller[Req, Resp]) Pending() int {
	return p.responses.Len()
}

// Stopped reports whether the poller has seen the broker go away.
func (p *Poller[Req, Resp]) Stopped() bool {
	return p.stopped.Load()
}

// Close drops both foreground ends. A broker that is idle exits cleanly, a broker that is
// still working exits with an ErrBroker when it tries to deliver the now unwanted response.
// Use CloseRequests instead to let queued work finish and still drain its responses.
func (p *Poller[Req, Resp]) Close() {
	p.stopped.Store(true)
	_ = p.requests.Close()
	p.responses.Close()
}

// CloseRequests drops only the request end. The broker handles everything already submitted,
// then exits and the poller observes PollClosed after the last response is drained.
func (p *Poller[Req, Resp]) CloseRequests() error {
	return p.requests.Close()
}
