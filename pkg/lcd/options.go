package lcd

import (
	"time"

	"github.com/enigmacurry/glcd/internal/app"
	"github.com/enigmacurry/glcd/internal/ports"
	"github.com/enigmacurry/glcd/pkg/log"
)

// Transport is the duplex byte stream to the display controller.
// internal/adapters/serial.Port satisfies this interface; so does any
// in-memory fake used in tests.
type Transport = ports.Transport

// Logger is the interface for structured logging.
type Logger = log.Logger

// State is the lifecycle state of the paced channel.
type State = app.State

// Lifecycle states of the paced channel.
const (
	StateStopped  = app.StateStopped
	StateStarting = app.StateStarting
	StateRunning  = app.StateRunning
	StateStopping = app.StateStopping
	StateFaulted  = app.StateFaulted
)

// StateChangeEvent describes a lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// EventHandler receives lifecycle events. Handlers are called synchronously
// from the goroutine performing the transition and must not block.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
}

// Option configures optional behavior of an LCD.
type Option func(*options)

// options holds the optional configuration for an LCD instance.
type options struct {
	logger       ports.Logger
	eventHandler EventHandler
	enqueueWait  time.Duration
	pollTimeout  time.Duration
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for lifecycle events.
// If not provided, no events are emitted.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithEnqueueWait bounds how long Send blocks on a full queue before
// failing with ErrBackpressureTimeout.
func WithEnqueueWait(d time.Duration) Option {
	return func(o *options) {
		o.enqueueWait = d
	}
}

// WithPollTimeout bounds how long a drain pass waits for the next queued
// byte before cutting the pass short. Mostly useful to speed up tests.
func WithPollTimeout(d time.Duration) Option {
	return func(o *options) {
		o.pollTimeout = d
	}
}

// eventEmitterWrapper adapts EventHandler to the internal emitter interface.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: previous,
		Current:  current,
		Reason:   reason,
	})
}
