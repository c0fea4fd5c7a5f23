package ipc

import (
	"context"

	"go.i3wm.org/i3/v4"

	"github.com/cboddy/i3-workspace-names-daemon/internal/state"
	"github.com/cboddy/i3-workspace-names-daemon/internal/util"
)

// Event is a window event from i3.
type Event struct {
	// Kind is the i3 change, e.g. "new", "close", "move" or "title".
	Kind   string
	Window state.Window
}

type receiver interface {
	Next() bool
	Event() i3.Event
	Close() error
	Err() error
}

// Subscribe streams i3 window events until context cancellation. The channel
// is closed when the subscription ends.
func Subscribe(ctx context.Context, logger *util.Logger) (<-chan Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pump(ctx, logger, i3.Subscribe(i3.WindowEventType)), nil
}

func pump(ctx context.Context, logger *util.Logger, recv receiver) <-chan Event {
	events := make(chan Event)
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			recv.Close()
		case <-stop:
		}
	}()
	go func() {
		defer close(events)
		defer close(stop)
		for recv.Next() {
			we, ok := recv.Event().(*i3.WindowEvent)
			if !ok {
				continue
			}
			ev := Event{Kind: we.Change, Window: windowFromNode(&we.Container)}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
		if err := recv.Err(); err != nil && ctx.Err() == nil {
			logger.Warnf("event stream error: %v", err)
		}
	}()
	return events
}
