package ports

import "github.com/enigmacurry/glcd/pkg/log"

// Logger is the structured logging port used by the application layer.
// It aliases the pkg/log abstraction so internal packages do not import
// a concrete logging library.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field

// Field constructors re-exported for the application layer.
var (
	String   = log.String
	Int      = log.Int
	Bool     = log.Bool
	Duration = log.Duration
	Hex      = log.Hex
	Err      = log.Err
	Any      = log.Any
)
