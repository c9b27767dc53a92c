// Package deeplink relays custom URI scheme activations to the UI layer.
//
// The OS launches a second copy of the binary with the URI as an argument.
// That copy hands the URIs to the running instance over a local endpoint
// (unix socket or named pipe) and exits; the running instance forwards each
// URI, in order, as one EventName notification. Notifications are
// fire-and-forget: nothing is queued for a UI that is not listening yet.
package deeplink

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
)

const (
	// EventName is the notification channel the UI listens on.
	EventName = "spectrus://deep-link"

	// DefaultScheme is the URI scheme registered with the OS.
	DefaultScheme = "spectrus"
)

var (
	// ErrNoListener is returned by an Emitter when no UI is attached.
	ErrNoListener = stderrors.New("no deep-link listener attached")

	// ErrAlreadyRunning is returned by Start when another instance owns the
	// activation endpoint.
	ErrAlreadyRunning = stderrors.New("another instance is already running")
)

// Activation is one OS activation carrying one or more URIs.
type Activation struct {
	ID         string
	URLs       []string
	ReceivedAt time.Time
}

// NewActivation stamps urls with a fresh id and the current time.
func NewActivation(urls []string) Activation {
	return Activation{ID: uuid.NewString(), URLs: urls, ReceivedAt: time.Now()}
}

// Emitter delivers a named notification to the UI layer.
type Emitter interface {
	Emit(ctx context.Context, event, payload string) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ctx context.Context, event, payload string) error

func (f EmitterFunc) Emit(ctx context.Context, event, payload string) error {
	return f(ctx, event, payload)
}
