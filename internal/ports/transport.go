package ports

// Transport is the duplex byte stream connecting the host to the display
// controller, typically a serial port opened at a fixed speed. The pacing
// layer owns the transport exclusively for the lifetime of the channel and
// only requires that writes either complete or fail.
type Transport interface {
	// Write sends raw bytes to the device. The device applies no
	// backpressure; pacing is the caller's responsibility.
	Write(p []byte) error

	// Close releases the underlying stream.
	Close() error
}
