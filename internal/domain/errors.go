package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the glcd domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when a lifecycle transition conflicts
	// with a channel that is already running.
	ErrAlreadyRunning = errors.New("glcd: already running")

	// ErrNotRunning is returned when an operation requires a startable
	// channel and it has already been stopped for good.
	ErrNotRunning = errors.New("glcd: not running")

	// ErrShutdownTimeout is returned when the pacing loop fails to drain
	// within the shutdown grace period.
	ErrShutdownTimeout = errors.New("glcd: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("glcd: invalid configuration")

	// ErrBackpressureTimeout is returned when the paced queue stays full past
	// the allowed enqueue wait. The caller is producing faster than the
	// device can absorb and may drop, retry, or slow down.
	ErrBackpressureTimeout = errors.New("glcd: backpressure timeout")

	// ErrChannelFaulted is returned once a transport write has failed during
	// draining. The channel accepts no further sends; the caller must
	// reconstruct it (the transport may need to be reopened).
	ErrChannelFaulted = errors.New("glcd: channel faulted")
)

// RangeError reports a coordinate or percentage outside the
// device-addressable bounds. It is rejected before any byte is queued or
// written, so the caller may retry with corrected input.
type RangeError struct {
	Arg   string
	Value int
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("glcd: %s %d out of range [%d, %d]", e.Arg, e.Value, e.Min, e.Max)
}

// checkRange returns a RangeError unless min <= v <= max.
func checkRange(arg string, v, min, max int) error {
	if v < min || v > max {
		return &RangeError{Arg: arg, Value: v, Min: min, Max: max}
	}
	return nil
}
