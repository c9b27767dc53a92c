package deeplink

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
)

// Relay forwards activations to an Emitter.
type Relay struct {
	emitter Emitter
	logger  *slog.Logger
}

// NewRelay returns a Relay that forwards to emitter.
func NewRelay(emitter Emitter, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{emitter: emitter, logger: logger.With("component", "deeplink")}
}

// Dispatch forwards each URL of act as its own EventName notification, in
// order. A failed forward is logged and the rest of the batch is still
// attempted. It returns how many notifications were delivered.
func (r *Relay) Dispatch(ctx context.Context, act Activation) int {
	delivered := 0
	for i, u := range act.URLs {
		err := r.emit(ctx, u)
		switch {
		case err == nil:
			delivered++
			r.logger.Debug("deep link forwarded", "activation", act.ID, "index", i, "url", u)
		case stderrors.Is(err, ErrNoListener):
			r.logger.Warn("deep link dropped, UI not listening", "activation", act.ID, "index", i, "url", u)
		default:
			r.logger.Warn("deep-link emit error", "activation", act.ID, "index", i, "url", u, "error", err)
		}
	}
	return delivered
}

// emit 把 emitter 的 panic 也当作一次转发失败。
func (r *Relay) emit(ctx context.Context, u string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("emitter panic: %v", p)
		}
	}()
	return r.emitter.Emit(ctx, EventName, u)
}
