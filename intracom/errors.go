package intracom

// Error is a custom error type for the intracom package.
type Error string

const (
	// ErrInvalidIntracomNil represents an error when an intracom is nil.
	ErrInvalidIntracomNil = Error("invalid intracom, cannot be nil")
	// ErrIntracomClosed represents an error when an intracom is closed.
	ErrIntracomClosed = Error("intracom is closed")
	// ErrTopicNotFound represents an error when a topic is not registered.
	ErrTopicNotFound = Error("topic not found")
	// ErrTopicAlreadyExists represents an error when a topic already exists.
	ErrTopicAlreadyExists = Error("topic already exists")
	// ErrInvalidTopicType represents an error when a topic exists but with a different type.
	ErrInvalidTopicType = Error("topic exists but with a different type")
	// ErrTopicClosed represents an error when a topic is closed.
	ErrTopicClosed = Error("topic is closed")
	// ErrConsumerAlreadyExists represents an error when a consumer group already exists for a topic.
	ErrConsumerAlreadyExists = Error("consumer already exists")
	// ErrConsumerNotFound represents an error when a consumer group is not subscribed to a topic.
	ErrConsumerNotFound = Error("consumer not found")
	// ErrConsumerMismatch represents an error when a consumer group is owned by another channel.
	ErrConsumerMismatch = Error("consumer channel does not match")
	// ErrMaxTimeoutReached represents an error when the maximum wait for a topic is reached.
	ErrMaxTimeoutReached = Error("max timeout reached")
	// ErrSubscriberStopped represents an error when delivering to a stopped subscriber.
	ErrSubscriberStopped = Error("subscriber stopped")
	// ErrBufferFull represents an error when a message could not be buffered.
	ErrBufferFull = Error("buffer full, failed to push message")
)

// Action is the action that was attempted when an error occurred.
type Action string

const (
	// ActionClosingTopic represents the action of closing a topic.
	ActionClosingTopic = Action("closing topic")
	// ActionRemovingTopic represents the action of removing a topic.
	ActionRemovingTopic = Action("removing topic")
	// ActionCreatingTopic represents the action of creating a topic.
	ActionCreatingTopic = Action("creating topic")
	// ActionRemovingSubscription represents the action of removing a subscription.
	ActionRemovingSubscription = Action("removing subscription")
	// ActionCreatingSubscription represents the action of creating a subscription.
	ActionCreatingSubscription = Action("creating subscription")
)

func (e Error) Error() string {
	return string(e)
}

// ErrSubscribe is returned for subscription errors.
type ErrSubscribe struct {
	Topic    string
	Consumer string
	Action   Action
	Err      error
}

func (e ErrSubscribe) Error() string {
	return "error " + string(e.Action) + " to topic '" + e.Topic + "' with consumer '" + e.Consumer + "' reason: " + e.Err.Error()
}

func (e ErrSubscribe) Unwrap() error {
	return e.Err
}

// ErrTopic is returned for topic-related errors.
type ErrTopic struct {
	Topic  string
	Action Action
	Err    error
}

func (e ErrTopic) Error() string {
	return "error " + string(e.Action) + " '" + e.Topic + "' reason: " + e.Err.Error()
}

func (e ErrTopic) Unwrap() error {
	return e.Err
}
