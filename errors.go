package relay

// Error is a constant error type for the relay package.
type Error string

const (
	// ErrChannelClosed is returned when the other end of a channel has gone away.
	// For a sender that means the receiver was closed, for a receiver it means
	// every sender was closed and the queue has been drained.
	ErrChannelClosed Error = Error("channel is closed")
	// ErrSenderClosed is returned when a sending handle is used after its own Close.
	ErrSenderClosed Error = Error("sender handle is closed")
	// ErrUnhandledRequest is returned by a Handler that does not know a request variant.
	// The broker treats it as a no-op.
	ErrUnhandledRequest Error = Error("unhandled request variant")
	// ErrBrokerStarted is returned when Run is called on a broker more than once.
	ErrBrokerStarted Error = Error("broker has already been started")
)

func (e Error) Error() string {
	return string(e)
}

// Action is the action a broker was performing when an error occurred.
type Action string

const (
	// ActionReceivingRequest represents waiting on the request channel.
	ActionReceivingRequest = Action("receiving request")
	// ActionHandlingRequest represents running the handler for a request.
	ActionHandlingRequest = Action("handling request")
	// ActionSendingResponse represents pushing a response to the foreground.
	ActionSendingResponse = Action("sending response")
)

// ErrBroker wraps an error that ended or interrupted a broker.
type ErrBroker struct {
	Broker string
	Action Action
	Err    error
}

func (e ErrBroker) Error() string {
	return "broker '" + e.Broker + "' error " + string(e.Action) + " reason: " + e.Err.Error()
}

func (e ErrBroker) Unwrap() error {
	return e.Err
}
