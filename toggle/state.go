package toggle

import (
	"fmt"

	"github.com/ambitiousfew/relay"
	"github.com/ambitiousfew/relay/log"
)

// State is the foreground state the demo renders.
// It is only ever mutated by Apply, which the poller calls on the foreground goroutine.
type State struct {
	ShowExtraLabel bool
	Applied        int
	LastRequestID  string

	log log.Logger
}

// NewState returns the initial foreground state.
func NewState(showExtraLabel bool, logger log.Logger) *State {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &State{
		ShowExtraLabel: showExtraLabel,
		log:            logger.With(log.String("component", "state")),
	}
}

var _ relay.Applier[Response] = (*State)(nil)

// Apply updates the state from a completed response. Unknown variants are logged and ignored.
func (s *State) Apply(resp Response) {
	switch r := resp.(type) {
	case ToggleUIStateFinished:
		s.ShowExtraLabel = r.NewState
		s.LastRequestID = r.RequestID
		s.Applied++
		s.log.Log(log.LevelDebug, "applied toggle", log.String("request_id", r.RequestID), log.Bool("show_extra_label", r.NewState))
	default:
		s.log.Log(log.LevelWarning, "ignoring response", log.String("response", fmt.Sprintf("%T", resp)))
	}
}
