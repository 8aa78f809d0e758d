package relay

import (
	"github.com/ambitiousfew/relay/intracom"
	"github.com/ambitiousfew/relay/log"
)

// BrokerOption configures a Broker created by NewBroker.
type BrokerOption func(*brokerOpts)

type brokerOpts struct {
	logger   log.Logger
	states   *intracom.Intracom
	observer func(BrokerState)
}

// WithLogger sets the logger used by the broker, the default discards everything.
func WithLogger(logger log.Logger) BrokerOption {
	return func(o *brokerOpts) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithIntracom publishes every state transition on the topic StatesTopic(name) of ic.
// The topic is created by NewBroker, so subscribers can attach before Run, and removed when Run returns.
// ic must stay open until the broker has exited.
func WithIntracom(ic *intracom.Intracom) BrokerOption {
	return func(o *brokerOpts) {
		o.states = ic
	}
}

// WithStateObserver subscribes fn to the broker's state topic. fn is called in publish order
// on its own goroutine and Run does not return before fn has seen StateExit.
// Without WithIntracom the broker keeps a private registry for the topic.
// A slow fn eventually holds up the broker.
func WithStateObserver(fn func(BrokerState)) BrokerOption {
	return func(o *brokerOpts) {
		o.observer = fn
	}
}
