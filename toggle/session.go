package toggle

import (
	"time"

	"github.com/ambitiousfew/relay"
	"github.com/ambitiousfew/relay/log"
)

// Session wires a toggle broker and its foreground poller together.
type Session struct {
	State  *State
	Poller *relay.Poller[Request, Response]
	Broker *relay.Broker[Request, Response]
}

// NewSession creates the duplex channels, the broker and the poller for a toggle demo.
// The broker is not started, use relay.Start on Session.Broker. opts are passed on to the broker.
func NewSession(name string, delay time.Duration, initial bool, logger log.Logger, opts ...relay.BrokerOption) *Session {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	fg, bg := relay.NewDuplex[Request, Response]()
	state := NewState(initial, logger)

	opts = append([]relay.BrokerOption{relay.WithLogger(logger)}, opts...)
	return &Session{
		State:  state,
		Poller: relay.NewPoller[Request, Response](fg, state, relay.WithPollerLogger(logger)),
		Broker: relay.NewBroker[Request, Response](name, bg, NewHandler(delay, logger), opts...),
	}
}

// Toggle submits a request to flip the current value of ShowExtraLabel.
func (s *Session) Toggle() error {
	return s.Poller.Submit(NewToggleUIState(s.State.ShowExtraLabel))
}
