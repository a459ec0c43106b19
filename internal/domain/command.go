package domain

// Marker is the prefix byte identifying a structured command to the
// backpack. Text bytes carry no prefix and are printed literally.
const Marker byte = '|'

// Opcodes of the backpack's command grammar. Each structured command is
// Marker, opcode, then a fixed-size payload.
const (
	OpClear     byte = 0x00
	OpBacklight byte = 0x02
	OpCircle    byte = 0x03
	OpDemo      byte = 0x04
	OpErase     byte = 0x05
	OpLine      byte = 0x0c
	OpBox       byte = 0x0f
	OpPixel     byte = 0x10
	OpReverse   byte = 0x12
	OpSetX      byte = 0x18
	OpSetY      byte = 0x19
)

// Command is a single drawing or control operation, encodable to the byte
// sequence the device understands. The opcode table is a flat mapping, so
// commands are plain value variants with one Encode each rather than a
// dispatch hierarchy.
type Command interface {
	// Encode serializes the command to raw device bytes.
	Encode() []byte
}

// Clear wipes the screen.
type Clear struct{}

func (Clear) Encode() []byte { return []byte{Marker, OpClear} }

// Demo runs the backpack's built-in demo sequence.
type Demo struct{}

func (Demo) Encode() []byte { return []byte{Marker, OpDemo} }

// Reverse inverts the colors of the screen.
type Reverse struct{}

func (Reverse) Encode() []byte { return []byte{Marker, OpReverse} }

// Backlight sets the backlight level as a percentage.
type Backlight struct {
	Percent int
}

func (c Backlight) Encode() []byte {
	return []byte{Marker, OpBacklight, byte(c.Percent)}
}

// Validate checks the percentage against the 0-100 range.
func (c Backlight) Validate() error {
	return checkRange("backlight percentage", c.Percent, 0, 100)
}

// SetX moves the cursor to pixel column X. Pixel positions start at the
// bottom left of the screen.
type SetX struct {
	X int
}

func (c SetX) Encode() []byte { return []byte{Marker, OpSetX, byte(c.X)} }

// SetY moves the cursor to pixel row Y.
type SetY struct {
	Y int
}

func (c SetY) Encode() []byte { return []byte{Marker, OpSetY, byte(c.Y)} }

// Pixel draws or clears a single pixel.
type Pixel struct {
	X, Y int
	Draw bool
}

func (c Pixel) Encode() []byte {
	return []byte{Marker, OpPixel, byte(c.X), byte(c.Y), drawFlag(c.Draw)}
}

// Line draws or clears a line between two points.
type Line struct {
	X1, Y1, X2, Y2 int
	Draw           bool
}

func (c Line) Encode() []byte {
	return []byte{Marker, OpLine, byte(c.X1), byte(c.Y1), byte(c.X2), byte(c.Y2), drawFlag(c.Draw)}
}

// Box draws a rectangle between two corners.
//
// The draw flag byte is intentionally omitted: the backpack firmware
// misinterprets it as a character to print when clearing is requested, so
// box clearing is effectively disabled. This matches observed hardware
// behavior, not a bug in this layer.
type Box struct {
	X1, Y1, X2, Y2 int
}

func (c Box) Encode() []byte {
	return []byte{Marker, OpBox, byte(c.X1), byte(c.Y1), byte(c.X2), byte(c.Y2)}
}

// Circle draws or clears a circle of radius R centered at X,Y.
type Circle struct {
	X, Y, R int
	Draw    bool
}

func (c Circle) Encode() []byte {
	return []byte{Marker, OpCircle, byte(c.X), byte(c.Y), byte(c.R), drawFlag(c.Draw)}
}

// Validate checks the radius fits in the single payload byte.
func (c Circle) Validate() error {
	return checkRange("radius", c.R, 0, 255)
}

// Erase clears a block of the screen between two corners.
type Erase struct {
	X1, Y1, X2, Y2 int
}

func (c Erase) Encode() []byte {
	return []byte{Marker, OpErase, byte(c.X1), byte(c.Y1), byte(c.X2), byte(c.Y2)}
}

func drawFlag(draw bool) byte {
	if draw {
		return 1
	}
	return 0
}
