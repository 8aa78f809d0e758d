package relay

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ambitiousfew/relay/intracom"
	"github.com/ambitiousfew/relay/log"
)

// Handler performs the work for one request and builds its response.
// A handler that does not recognize a request variant should return an error wrapping ErrUnhandledRequest.
type Handler[Req, Resp any] interface {
	Handle(ctx context.Context, req Req) (Resp, error)
}

// HandlerFunc adapts an ordinary function to a Handler.
type HandlerFunc[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

func (f HandlerFunc[Req, Resp]) Handle(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}

// Broker serially consumes requests from the background ends of a Duplex,
// runs them through its Handler and pushes each result back to the foreground.
type Broker[Req, Resp any] struct {
	name      string
	requests  *Receiver[Req]
	responses *Sender[Resp]
	handler   Handler[Req, Resp]

	log log.Logger

	ic           *intracom.Intracom
	ownsIC       bool
	states       intracom.Topic[BrokerState]
	observerDone chan struct{}

	started atomic.Bool
}

// NewBroker creates a broker that owns the background ends bg.
func NewBroker[Req, Resp any](name string, bg Background[Req, Resp], handler Handler[Req, Resp], opts ...BrokerOption) *Broker[Req, Resp] {
	o := brokerOpts{
		logger: log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	b := &Broker[Req, Resp]{
		name:      name,
		requests:  bg.Requests,
		responses: bg.Responses,
		handler:   handler,
		log:       o.logger.With(log.String("component", "broker"), log.String("broker", name)),
		ic:        o.states,
	}

	if b.ic == nil && o.observer != nil {
		b.ic = intracom.New("relay-"+name, intracom.WithLogger(b.log))
		b.ownsIC = true
	}
	if b.ic != nil {
		b.publishStates(o.observer)
	}
	return b
}

// publishStates creates the state topic and, if set, subscribes observer to it.
func (b *Broker[Req, Resp]) publishStates(observer func(BrokerState)) {
	topic, err := intracom.CreateTopic[BrokerState](b.ic, intracom.TopicConfig{
		Name:        StatesTopic(b.name),
		Buffer:      stateBuffer,
		ErrIfExists: true,
	})
	if err != nil {
		b.log.Log(log.LevelWarning, "state transitions will not be published", log.Error("error", err))
		return
	}
	b.states = topic

	if observer == nil {
		return
	}

	stateC, err := topic.Subscribe(intracom.SubscriberConfig[BrokerState]{
		ConsumerGroup: "state-observer",
		BufferSize:    stateBuffer,
		BufferPolicy:  intracom.BufferPolicyDropNone[BrokerState]{},
	})
	if err != nil {
		b.log.Log(log.LevelWarning, "state observer not subscribed", log.Error("error", err))
		return
	}

	b.observerDone = make(chan struct{})
	go func() {
		defer close(b.observerDone)
		for state := range stateC {
			observer(state)
		}
	}()
}

// Name returns the name the broker was created with.
func (b *Broker[Req, Resp]) Name() string {
	return b.name
}

// Run drains requests one at a time until the request channel is closed, ctx is done,
// or a response can no longer be delivered.
//
// A closed request channel is a clean exit and returns nil, queued requests are handled first.
// A failed response send is fatal to the broker and returns an ErrBroker.
// Cancelling ctx stops the broker before it takes the next request, queued requests are
// abandoned. A request that was already dispatched runs to completion and its response is still sent.
// Both background ends are closed on return.
func (b *Broker[Req, Resp]) Run(ctx context.Context) error {
	if b.started.Swap(true) {
		return ErrBrokerStarted
	}

	b.log.Log(log.LevelNotice, "broker started")
	defer func() {
		b.requests.Close()
		_ = b.responses.Close()
		b.transition(StateExit)
		b.closeStates()
		b.log.Log(log.LevelNotice, "broker exited")
	}()

	// handlers never see the broker's cancellation.
	handleCtx := context.WithoutCancel(ctx)

	var handled int
	for {
		if err := ctx.Err(); err != nil {
			b.log.Log(log.LevelInfo, "broker cancelled", log.Int("handled", handled), log.Int("abandoned", b.requests.Len()))
			return err
		}

		b.transition(StateDraining)
		req, err := b.requests.Receive(ctx)
		if err != nil {
			if errors.Is(err, ErrChannelClosed) {
				b.log.Log(log.LevelInfo, "request channel closed", log.Int("handled", handled))
				return nil
			}
			return err
		}

		b.transition(StateHandling)
		resp, err := b.handle(handleCtx, req)
		if err != nil {
			if errors.Is(err, ErrUnhandledRequest) {
				b.log.Log(log.LevelWarning, "ignoring request", log.Error("error", err), log.String("request", fmt.Sprintf("%T", req)))
				continue
			}
			b.log.Log(log.LevelError, "request failed, no response sent", log.Error("error", err), log.String("request", fmt.Sprintf("%T", req)))
			continue
		}
		handled++

		if err := b.responses.Send(resp); err != nil {
			b.log.Log(log.LevelError, "response channel closed, stopping broker", log.Error("error", err))
			return ErrBroker{Broker: b.name, Action: ActionSendingResponse, Err: err}
		}
		b.log.Log(log.LevelDebug, "response sent", log.String("response", fmt.Sprintf("%T", resp)))
	}
}

// handle runs the handler, turning a panic into an error so one bad request cannot take the broker down.
func (b *Broker[Req, Resp]) handle(ctx context.Context, req Req) (resp Resp, err error) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Log(log.LevelCritical, "recovered from a panic in handler", log.Any("panic", r))
			err = ErrBroker{Broker: b.name, Action: ActionHandlingRequest, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return b.handler.Handle(ctx, req)
}

func (b *Broker[Req, Resp]) transition(state BrokerState) {
	if b.states != nil {
		b.states.Publisher() <- state
	}
}

// closeStates removes the state topic and waits for the observer to see every transition.
func (b *Broker[Req, Resp]) closeStates() {
	if b.states == nil {
		return
	}

	if err := intracom.RemoveTopic[BrokerState](b.ic, b.states.Name()); err != nil {
		b.log.Log(log.LevelDebug, "removing state topic", log.Error("error", err))
	}
	if b.observerDone != nil {
		<-b.observerDone
	}
	if b.ownsIC {
		_ = intracom.Close(b.ic)
	}
}
