package toggle

import (
	"context"
	"fmt"
	"time"

	"github.com/ambitiousfew/relay"
	"github.com/ambitiousfew/relay/log"
)

// DefaultDelay is how long the broker takes to flip the state.
const DefaultDelay = 2 * time.Second

// Handler performs toggle requests in the background.
type Handler struct {
	// Delay simulates slow work, zero means no wait.
	Delay time.Duration
	Log   log.Logger
}

// NewHandler returns a Handler with the given delay, a nil logger discards output.
func NewHandler(delay time.Duration, logger log.Logger) *Handler {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Handler{
		Delay: delay,
		Log:   logger.With(log.String("component", "toggle")),
	}
}

var _ relay.Handler[Request, Response] = (*Handler)(nil)

// Handle dispatches on the request variant.
func (h *Handler) Handle(ctx context.Context, req Request) (Response, error) {
	switch r := req.(type) {
	case ToggleUIState:
		return h.toggle(ctx, r)
	default:
		return nil, fmt.Errorf("%w: %T", relay.ErrUnhandledRequest, req)
	}
}

func (h *Handler) toggle(ctx context.Context, req ToggleUIState) (Response, error) {
	fields := []log.Field{log.String("request_id", req.ID), log.Duration("delay", h.Delay)}
	if !req.SubmittedAt.IsZero() {
		fields = append(fields, log.Duration("queued", time.Since(req.SubmittedAt)))
	}
	h.Log.Log(log.LevelInfo, "toggling state", fields...)

	if h.Delay > 0 {
		timer := time.NewTimer(h.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	h.Log.Log(log.LevelInfo, "changing now", log.String("request_id", req.ID), log.Bool("new_state", !req.CurrentState))
	return ToggleUIStateFinished{RequestID: req.ID, NewState: !req.CurrentState}, nil
}
