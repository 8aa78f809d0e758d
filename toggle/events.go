// Package toggle is the demo domain carried over relay: the foreground asks the
// background to flip a boolean after a delay, and applies the result when it arrives.
package toggle

import (
	"time"

	"github.com/google/uuid"
)

// Request is the closed set of messages the foreground sends to the broker.
type Request interface {
	isRequest()
}

// Response is the closed set of messages the broker sends back to the foreground.
type Response interface {
	isResponse()
}

// ToggleUIState asks the broker to invert CurrentState.
// CurrentState is a snapshot taken at submit time, the broker never reads foreground state.
type ToggleUIState struct {
	ID           string
	CurrentState bool
	SubmittedAt  time.Time
}

func (ToggleUIState) isRequest() {}

// NewToggleUIState stamps a new toggle request with an id and the submit time.
func NewToggleUIState(current bool) ToggleUIState {
	return ToggleUIState{
		ID:           uuid.NewString(),
		CurrentState: current,
		SubmittedAt:  time.Now(),
	}
}

// ToggleUIStateFinished carries the new value for the foreground flag.
type ToggleUIStateFinished struct {
	RequestID string
	NewState  bool
}

func (ToggleUIStateFinished) isResponse() {}
