package domain

// Character cell dimensions of the backpack's built-in font.
const (
	charWidth  = 6
	charHeight = 8
)

// Geometry holds the pixel dimensions of the attached screen and the
// character grid derived from them. Immutable after construction.
type Geometry struct {
	// Width is the screen width in pixels.
	Width int

	// Height is the screen height in pixels.
	Height int
}

// NewGeometry creates a Geometry for a screen of the given pixel size.
func NewGeometry(width, height int) Geometry {
	return Geometry{Width: width, Height: height}
}

// Rows returns the number of character rows (integer division by the
// 8-pixel cell height).
func (g Geometry) Rows() int {
	return g.Height / charHeight
}

// Cols returns the number of character columns (integer division by the
// 6-pixel cell width).
func (g Geometry) Cols() int {
	return g.Width / charWidth
}

// CharX converts a character column to its pixel X coordinate.
func (g Geometry) CharX(col int) int {
	return col * charWidth
}

// CharY converts a character row to its pixel Y coordinate. Character rows
// count down from the top of the screen while pixel rows count up from the
// bottom, hence the inversion.
func (g Geometry) CharY(row int) int {
	return (g.Rows()-row)*charHeight - 1
}

// ValidateRow checks that row is an addressable character row.
func (g Geometry) ValidateRow(row int) error {
	return checkRange("row", row, 0, g.Rows()-1)
}

// ValidateCol checks that col is an addressable character column.
func (g Geometry) ValidateCol(col int) error {
	return checkRange("column", col, 0, g.Cols()-1)
}

// ValidateX checks that x is an addressable pixel X coordinate.
func (g Geometry) ValidateX(x int) error {
	return checkRange("x coordinate", x, 0, g.Width)
}

// ValidateY checks that y is an addressable pixel Y coordinate.
func (g Geometry) ValidateY(y int) error {
	return checkRange("y coordinate", y, 0, g.Height)
}
