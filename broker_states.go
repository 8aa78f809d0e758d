package relay

// stateBuffer is the publish and observer buffer of a broker's state topic.
const stateBuffer = 16

// StatesTopic is the name of the intracom topic that carries the state transitions of broker name.
func StatesTopic(name string) string {
	return "relay.broker." + name + ".states"
}

const (
	// StateDraining the broker is waiting for the next request.
	StateDraining BrokerState = iota
	// StateHandling the broker is running the handler for one request.
	StateHandling
	// StateExit the broker has stopped and closed its channel ends.
	StateExit
)

// BrokerState is the lifecycle state of a broker as published on its state topic.
type BrokerState uint8

func (s BrokerState) String() string {
	switch s {
	case StateDraining:
		return "draining"
	case StateHandling:
		return "handling"
	case StateExit:
		return "exit"
	default:
		return "unknown"
	}
}
