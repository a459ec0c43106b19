package lcd

import (
	"fmt"
	"time"

	"github.com/enigmacurry/glcd/internal/adapters/serial"
	"github.com/enigmacurry/glcd/internal/app"
	"github.com/enigmacurry/glcd/internal/domain"
	"github.com/enigmacurry/glcd/internal/ports"
)

// Errors re-exported from the domain layer for errors.Is checks.
var (
	ErrInvalidConfig       = domain.ErrInvalidConfig
	ErrNotRunning          = domain.ErrNotRunning
	ErrBackpressureTimeout = domain.ErrBackpressureTimeout
	ErrChannelFaulted      = domain.ErrChannelFaulted
	ErrShutdownTimeout     = domain.ErrShutdownTimeout
)

// RangeError reports a coordinate or percentage outside the
// device-addressable bounds. Check with errors.As.
type RangeError = domain.RangeError

// Config holds the construction parameters for an LCD.
// Use DefaultConfig() to get a Config with the device's documented defaults.
type Config struct {
	// Width and Height are the screen size in pixels.
	Width  int
	Height int

	// Heartbeat is the interval between drain cycles of the paced
	// channel.
	Heartbeat time.Duration

	// Quantum is the maximum bytes sent per heartbeat, matching the
	// device's on-board receive buffer. Zero disables buffering and
	// makes every operation write synchronously (drop risk is yours).
	Quantum int
}

// DefaultConfig returns a Config matching the 128x64 backpack with its
// documented 416-byte on-board buffer.
func DefaultConfig() Config {
	return Config{
		Width:     128,
		Height:    64,
		Heartbeat: 3 * time.Second,
		Quantum:   416,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: screen size must be positive, got %dx%d",
			domain.ErrInvalidConfig, c.Width, c.Height)
	}
	return nil
}

// LCD drives a serial graphic LCD backpack through a paced channel, so
// drawing at full speed does not overrun the device's tiny receive buffer.
// Create with New or Open, call Start, draw, then Stop (or Close).
//
// All drawing operations validate their arguments against the screen
// geometry before any byte is queued; a RangeError never reaches the wire.
type LCD struct {
	geom      domain.Geometry
	pacer     *app.Pacer
	transport ports.Transport
	logger    ports.Logger
}

// New creates an LCD over an already-open transport. The transport is
// owned exclusively by the returned LCD; Close releases it.
func New(transport Transport, cfg Config, opts ...Option) (*LCD, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var emitter app.EventEmitter
	if o.eventHandler != nil {
		emitter = &eventEmitterWrapper{handler: o.eventHandler}
	}

	pacer, err := app.NewPacer(transport, app.Config{
		Heartbeat:   cfg.Heartbeat,
		Quantum:     cfg.Quantum,
		EnqueueWait: o.enqueueWait,
		PollTimeout: o.pollTimeout,
	}, o.logger, emitter)
	if err != nil {
		return nil, err
	}

	return &LCD{
		geom:      domain.NewGeometry(cfg.Width, cfg.Height),
		pacer:     pacer,
		transport: transport,
		logger:    o.logger,
	}, nil
}

// Open opens the serial device at the given speed and creates an LCD over
// it. Linux only.
func Open(device string, baud int, cfg Config, opts ...Option) (*LCD, error) {
	port, err := serial.Open(serial.Config{Device: device, BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("glcd: open %s: %w", device, err)
	}
	l, err := New(port, cfg, opts...)
	if err != nil {
		port.Close()
		return nil, err
	}
	return l, nil
}

// Start spawns the background pacing loop. No-op while already running,
// and never starts a loop in bypass mode.
func (l *LCD) Start() error {
	return l.pacer.Start()
}

// Stop drains queued bytes and shuts the pacing loop down. Idempotent.
func (l *LCD) Stop() error {
	return l.pacer.Stop()
}

// Close stops the channel and closes the transport.
func (l *LCD) Close() error {
	stopErr := l.pacer.Stop()
	if err := l.transport.Close(); err != nil {
		return err
	}
	return stopErr
}

// Status returns the paced channel's lifecycle state.
func (l *LCD) Status() State {
	return l.pacer.State()
}

// Size returns the configured screen size in pixels.
func (l *LCD) Size() (width, height int) {
	return l.geom.Width, l.geom.Height
}

// Rows returns the number of character rows for the configured screen.
func (l *LCD) Rows() int {
	return l.geom.Rows()
}

// Cols returns the number of character columns for the configured screen.
func (l *LCD) Cols() int {
	return l.geom.Cols()
}

// Send queues raw bytes to the controller. Most callers want the typed
// operations below; Send is the escape hatch for commands this package
// does not model.
func (l *LCD) Send(data []byte) error {
	return l.pacer.Send(data)
}

// Type prints text at the current cursor position. Use SetCharPosition to
// move the cursor first.
func (l *LCD) Type(text string) error {
	return l.Send([]byte(text))
}

// InitDisplay cleans the display up from previous interaction. Unnecessary
// just after power-on. It types a few spaces to flush out any command the
// device may be holding half-complete, turns the backlight off, and clears
// the screen.
func (l *LCD) InitDisplay() error {
	if err := l.Type("        "); err != nil {
		return err
	}
	if err := l.SetBacklight(0); err != nil {
		return err
	}
	return l.Clear()
}

// Clear clears the screen.
func (l *LCD) Clear() error {
	return l.send(domain.Clear{})
}

// Demo runs the backpack's built-in demo sequence.
func (l *LCD) Demo() error {
	return l.send(domain.Demo{})
}

// Reverse inverts the colors of the screen.
func (l *LCD) Reverse() error {
	return l.send(domain.Reverse{})
}

// SetBacklight sets the backlight level, 0-100 percent.
func (l *LCD) SetBacklight(percent int) error {
	cmd := domain.Backlight{Percent: percent}
	if err := cmd.Validate(); err != nil {
		return err
	}
	return l.send(cmd)
}

// SetPixelPosition sets the cursor position in pixels. Pixel positions
// start at the bottom left of the screen.
func (l *LCD) SetPixelPosition(x, y int) error {
	if err := l.geom.ValidateX(x); err != nil {
		return err
	}
	if err := l.geom.ValidateY(y); err != nil {
		return err
	}
	if err := l.send(domain.SetX{X: x}); err != nil {
		return err
	}
	return l.send(domain.SetY{Y: y})
}

// SetCharPosition sets the cursor position in characters. Character
// positions start at the top left of the screen; SetCharPosition(0, 10)
// puts the cursor on the first row, eleventh column.
func (l *LCD) SetCharPosition(row, col int) error {
	if err := l.geom.ValidateRow(row); err != nil {
		return err
	}
	if err := l.geom.ValidateCol(col); err != nil {
		return err
	}
	if err := l.send(domain.SetX{X: l.geom.CharX(col)}); err != nil {
		return err
	}
	return l.send(domain.SetY{Y: l.geom.CharY(row)})
}

// Pixel draws (or clears, with draw=false) the pixel at x,y.
func (l *LCD) Pixel(x, y int, draw bool) error {
	if err := l.validateXY(x, y); err != nil {
		return err
	}
	return l.send(domain.Pixel{X: x, Y: y, Draw: draw})
}

// Line draws or clears a line from x1,y1 to x2,y2.
func (l *LCD) Line(x1, y1, x2, y2 int, draw bool) error {
	if err := l.validateRect(x1, y1, x2, y2); err != nil {
		return err
	}
	return l.send(domain.Line{X1: x1, Y1: y1, X2: x2, Y2: y2, Draw: draw})
}

// Box draws a box from x1,y1 to x2,y2. Box clearing is not supported: the
// device firmware misreads the clear flag as a character to print, so only
// the drawing form is emitted. Use Erase to blank a region.
func (l *LCD) Box(x1, y1, x2, y2 int) error {
	if err := l.validateRect(x1, y1, x2, y2); err != nil {
		return err
	}
	return l.send(domain.Box{X1: x1, Y1: y1, X2: x2, Y2: y2})
}

// Circle draws or clears a circle of radius r centered at x,y.
func (l *LCD) Circle(x, y, r int, draw bool) error {
	if err := l.validateXY(x, y); err != nil {
		return err
	}
	cmd := domain.Circle{X: x, Y: y, R: r, Draw: draw}
	if err := cmd.Validate(); err != nil {
		return err
	}
	return l.send(cmd)
}

// Erase blanks the block of the screen from x1,y1 to x2,y2.
func (l *LCD) Erase(x1, y1, x2, y2 int) error {
	if err := l.validateRect(x1, y1, x2, y2); err != nil {
		return err
	}
	return l.send(domain.Erase{X1: x1, Y1: y1, X2: x2, Y2: y2})
}

// send encodes a command and forwards it to the paced channel.
func (l *LCD) send(cmd domain.Command) error {
	data := cmd.Encode()
	l.logger.Debug("send command", ports.Hex("data", data))
	return l.pacer.Send(data)
}

func (l *LCD) validateXY(x, y int) error {
	if err := l.geom.ValidateX(x); err != nil {
		return err
	}
	return l.geom.ValidateY(y)
}

func (l *LCD) validateRect(x1, y1, x2, y2 int) error {
	if err := l.validateXY(x1, y1); err != nil {
		return err
	}
	return l.validateXY(x2, y2)
}
