// Package domain contains the core domain entities and value objects for glcd.
//
// This package represents the innermost layer of the module. It has no
// dependencies on infrastructure concerns (serial ports, logging,
// goroutines) and contains only the device command grammar and its rules.
//
// # Entities
//
//   - [Geometry]: Immutable pixel size of the screen and the character
//     grid derived from it
//   - [Command]: Tagged-variant drawing/control commands, one Encode per
//     variant, matching the backpack's flat opcode table
//   - [RangeError] and the sentinel errors shared across the module
//
// Domain entities are free of infrastructure dependencies and testable
// without mocks or external systems.
package domain
