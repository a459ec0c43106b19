// Package ports defines the interfaces (ports) that connect the
// application layer to infrastructure adapters.
//
// Ports are the boundaries between the pacing core and the outside world.
// They define what the core needs from external systems without specifying
// how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [Transport]: Duplex byte stream to the display controller
//   - [Logger]: Structured logging abstraction
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// implementations (serial port, zerolog). This enables testing the pacing
// logic with in-memory fakes and swapping transports without touching it.
package ports
