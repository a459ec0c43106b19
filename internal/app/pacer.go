package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/enigmacurry/glcd/internal/domain"
	"github.com/enigmacurry/glcd/internal/ports"
	"github.com/enigmacurry/glcd/pkg/log"
)

// Default tuning for the paced channel.
const (
	// DefaultEnqueueWait bounds how long Send blocks on a full queue
	// before surfacing backpressure to the caller.
	DefaultEnqueueWait = 5 * time.Second

	// DefaultPollTimeout bounds how long a drain pass waits for the next
	// queued byte before cutting the pass short.
	DefaultPollTimeout = 500 * time.Millisecond
)

// Config tunes the paced channel against a given device's true buffer size.
// Overshoot causes silent data loss on the device side, so conservative
// values are a deployment-time concern.
type Config struct {
	// Heartbeat is the fixed interval between drain cycles.
	Heartbeat time.Duration

	// Quantum is the maximum bytes drained per heartbeat and the queue
	// capacity. Zero disables buffering entirely: every Send writes
	// synchronously to the transport.
	Quantum int

	// EnqueueWait is the maximum time Send blocks waiting for queue
	// space. Defaults to DefaultEnqueueWait.
	EnqueueWait time.Duration

	// PollTimeout is the maximum time a drain pass waits for the next
	// byte. Defaults to DefaultPollTimeout.
	PollTimeout time.Duration
}

// Validate checks the pacing configuration.
func (c Config) Validate() error {
	if c.Quantum < 0 {
		return fmt.Errorf("%w: quantum must not be negative", domain.ErrInvalidConfig)
	}
	if c.Quantum > 0 && c.Heartbeat <= 0 {
		return fmt.Errorf("%w: heartbeat must be positive when quantum > 0", domain.ErrInvalidConfig)
	}
	return nil
}

// Pacer is a rate-limited buffered writer for a transport that applies no
// backpressure of its own. Producers enqueue bytes through Send; a single
// background loop drains at most Quantum bytes per Heartbeat and writes
// them to the transport in FIFO order.
//
// The queue is a bounded channel, so enqueue blocks when the device is
// behind and the loop never sees more than Quantum bytes per cycle.
type Pacer struct {
	transport ports.Transport
	cfg       Config
	queue     chan byte
	lifecycle *Lifecycle
	logger    ports.Logger

	mu       sync.RWMutex
	stopCh   chan struct{}
	terminal bool
}

// NewPacer constructs a paced channel in the stopped state. The transport
// is owned exclusively by the channel from here on.
func NewPacer(transport ports.Transport, cfg Config, logger ports.Logger, emitter EventEmitter) (*Pacer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.EnqueueWait <= 0 {
		cfg.EnqueueWait = DefaultEnqueueWait
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	p := &Pacer{
		transport: transport,
		cfg:       cfg,
		lifecycle: NewLifecycle(logger, emitter),
		logger:    logger,
		stopCh:    make(chan struct{}),
	}
	if cfg.Quantum > 0 {
		p.queue = make(chan byte, cfg.Quantum)
	}
	return p, nil
}

// Start spawns the background pacing loop. It is a no-op while the loop is
// already running, and a no-op forever in bypass mode (Quantum == 0).
func (p *Pacer) Start() error {
	if p.cfg.Quantum == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.lifecycle.State() {
	case StateStarting, StateRunning:
		return nil
	case StateFaulted:
		return domain.ErrChannelFaulted
	}
	if p.terminal {
		return domain.ErrNotRunning
	}

	if err := p.lifecycle.TransitionTo(StateStarting, "Start() called"); err != nil {
		return err
	}

	p.lifecycle.AddWorker()
	go p.run()
	return nil
}

// Send queues data for paced delivery, preserving byte order within the
// call. In bypass mode it writes synchronously to the transport instead.
//
/// Enqueueing is legal before Start: the queue simply fills until the loop
// begins draining. Once the queue is full, Send blocks up to EnqueueWait
// per byte and then fails with ErrBackpressureTimeout.
func (p *Pacer) Send(data []byte) error {
	if state := p.lifecycle.State(); state == StateFaulted {
		return domain.ErrChannelFaulted
	}

	p.mu.RLock()
	terminal := p.terminal
	p.mu.RUnlock()
	if terminal {
		return domain.ErrNotRunning
	}

	if p.cfg.Quantum == 0 {
		if err := p.transport.Write(data); err != nil {
			return fmt.Errorf("glcd: transport write: %w", err)
		}
		return nil
	}

	for _, b := range data {
		select {
		case p.queue <- b:
		case <-time.After(p.cfg.EnqueueWait):
			p.logger.Warn("queue full past enqueue wait",
				ports.Duration("wait", p.cfg.EnqueueWait),
				ports.Int("capacity", p.cfg.Quantum),
			)
			return domain.ErrBackpressureTimeout
		}
	}
	return nil
}

// Stop signals the pacing loop to finish draining and exit, then waits up
// to ShutdownTimeout for it. Queued bytes are not discarded; the loop
// keeps draining at the heartbeat cadence until the queue is empty. After
// Stop returns the channel accepts no further sends. Calling Stop again is
// a no-op.
func (p *Pacer) Stop() error {
	p.mu.Lock()
	if p.terminal {
		p.mu.Unlock()
		return nil
	}
	p.terminal = true

	if p.cfg.Quantum == 0 || !p.lifecycle.CanStop() {
		// Bypass mode, never started, or already faulted: no loop to drain.
		p.mu.Unlock()
		return nil
	}

	if err := p.lifecycle.TransitionTo(StateStopping, "Stop() called"); err != nil {
		p.mu.Unlock()
		if errors.Is(err, domain.ErrChannelFaulted) {
			return nil
		}
		return err
	}
	close(p.stopCh)
	p.mu.Unlock()

	err := p.lifecycle.WaitWithTimeout(ShutdownTimeout)
	if err != nil {
		_ = p.lifecycle.TransitionTo(StateFaulted, "shutdown timeout")
		return err
	}
	_ = p.lifecycle.TransitionTo(StateStopped, "graceful shutdown")
	return nil
}

// State returns the current lifecycle state.
func (p *Pacer) State() State {
	return p.lifecycle.State()
}

// run is the pacing loop. Exactly one instance runs per started channel.
func (p *Pacer) run() {
	defer p.lifecycle.WorkerDone()

	// Stop() may win the race before the loop begins, leaving the state at
	// Stopping. The loop still runs its drain passes either way; stop only
	// means "exit once the queue is empty".
	_ = p.lifecycle.TransitionTo(StateRunning, "pacing loop started")

	for {
		start := time.Now()
		sent := 0

	drain:
		for sent < p.cfg.Quantum {
			select {
			case b := <-p.queue:
				if err := p.transport.Write([]byte{b}); err != nil {
					p.logger.Error("transport write failed", ports.Err(err))
					_ = p.lifecycle.TransitionTo(StateFaulted, err.Error())
					return
				}
				sent++
			case <-time.After(p.cfg.PollTimeout):
				if p.stopRequested() {
					p.logger.Info("queue drained, pacing loop exiting")
					return
				}
				// Queue is idle; cut this pass short.
				break drain
			}
		}

		if sent > 0 {
			p.logger.Debug("drain pass",
				ports.Int("bytes", sent),
				ports.Int("pending", len(p.queue)),
			)
		}

		// Wait out the rest of the heartbeat. A pass that overran starts
		// the next one immediately; there is no catch-up burst beyond the
		// next cycle's own quantum.
		if wait := p.cfg.Heartbeat - time.Since(start); wait > 0 {
			time.Sleep(wait)
		}
	}
}

// stopRequested reports whether Stop has been signaled.
func (p *Pacer) stopRequested() bool {
	select {
	case <-p.stopCh:
		return true
	default:
		return false
	}
}
