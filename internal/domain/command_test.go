package domain

import (
	"bytes"
	"errors"
	"testing"
)

func TestCommand_Encode(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want []byte
	}{
		{"clear", Clear{}, []byte{'|', 0x00}},
		{"demo", Demo{}, []byte{'|', 0x04}},
		{"reverse", Reverse{}, []byte{'|', 0x12}},
		{"backlight zero", Backlight{Percent: 0}, []byte{'|', 0x02, 0}},
		{"backlight full", Backlight{Percent: 100}, []byte{'|', 0x02, 100}},
		{"set x", SetX{X: 60}, []byte{'|', 0x18, 60}},
		{"set y", SetY{Y: 63}, []byte{'|', 0x19, 63}},
		{"pixel draw", Pixel{X: 3, Y: 7, Draw: true}, []byte{'|', 0x10, 3, 7, 1}},
		{"pixel clear", Pixel{X: 3, Y: 7, Draw: false}, []byte{'|', 0x10, 3, 7, 0}},
		{"line draw", Line{X1: 1, Y1: 2, X2: 3, Y2: 4, Draw: true}, []byte{'|', 0x0c, 1, 2, 3, 4, 1}},
		{"line clear", Line{X1: 1, Y1: 2, X2: 3, Y2: 4, Draw: false}, []byte{'|', 0x0c, 1, 2, 3, 4, 0}},
		{"box", Box{X1: 45, Y1: 10, X2: 50, Y2: 15}, []byte{'|', 0x0f, 45, 10, 50, 15}},
		{"circle draw", Circle{X: 64, Y: 32, R: 10, Draw: true}, []byte{'|', 0x03, 64, 32, 10, 1}},
		{"circle clear", Circle{X: 64, Y: 32, R: 10, Draw: false}, []byte{'|', 0x03, 64, 32, 10, 0}},
		{"erase", Erase{X1: 0, Y1: 0, X2: 127, Y2: 63}, []byte{'|', 0x05, 0, 0, 127, 63}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cmd.Encode()
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode() = % x, want % x", got, tt.want)
			}
		})
	}
}

// The backpack firmware misreads a trailing draw flag on the box command as
// a character to print, so Box must never emit one.
func TestBox_EncodeOmitsDrawFlag(t *testing.T) {
	got := Box{X1: 1, Y1: 2, X2: 3, Y2: 4}.Encode()
	if len(got) != 6 {
		t.Fatalf("Box encoding is %d bytes, want 6 (marker, opcode, four coords)", len(got))
	}
}

func TestCommand_EncodePrefix(t *testing.T) {
	// Every structured command starts with the marker byte and its opcode.
	tests := []struct {
		cmd    Command
		opcode byte
	}{
		{Clear{}, OpClear},
		{Demo{}, OpDemo},
		{Reverse{}, OpReverse},
		{Backlight{Percent: 50}, OpBacklight},
		{SetX{X: 1}, OpSetX},
		{SetY{Y: 1}, OpSetY},
		{Pixel{}, OpPixel},
		{Line{}, OpLine},
		{Box{}, OpBox},
		{Circle{}, OpCircle},
		{Erase{}, OpErase},
	}

	for _, tt := range tests {
		got := tt.cmd.Encode()
		if got[0] != Marker {
			t.Errorf("opcode 0x%02x: first byte = 0x%02x, want marker 0x%02x", tt.opcode, got[0], Marker)
		}
		if got[1] != tt.opcode {
			t.Errorf("second byte = 0x%02x, want opcode 0x%02x", got[1], tt.opcode)
		}
	}
}

// Decoding an encoded command against the opcode table recovers the opcode
// and argument bytes exactly.
func TestCommand_RoundTrip(t *testing.T) {
	payloadLen := map[byte]int{
		OpClear:     0,
		OpDemo:      0,
		OpReverse:   0,
		OpBacklight: 1,
		OpSetX:      1,
		OpSetY:      1,
		OpPixel:     3,
		OpLine:      5,
		OpBox:       4,
		OpCircle:    4,
		OpErase:     4,
	}

	tests := []struct {
		name string
		cmd  Command
		args []byte
	}{
		{"backlight", Backlight{Percent: 75}, []byte{75}},
		{"pixel", Pixel{X: 12, Y: 34, Draw: true}, []byte{12, 34, 1}},
		{"line", Line{X1: 5, Y1: 6, X2: 7, Y2: 8, Draw: false}, []byte{5, 6, 7, 8, 0}},
		{"box", Box{X1: 9, Y1: 8, X2: 7, Y2: 6}, []byte{9, 8, 7, 6}},
		{"circle", Circle{X: 10, Y: 20, R: 30, Draw: true}, []byte{10, 20, 30, 1}},
		{"erase", Erase{X1: 2, Y1: 3, X2: 4, Y2: 5}, []byte{2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := tt.cmd.Encode()
			if enc[0] != Marker {
				t.Fatalf("missing marker prefix: % x", enc)
			}
			op, args := enc[1], enc[2:]
			wantLen, ok := payloadLen[op]
			if !ok {
				t.Fatalf("opcode 0x%02x not in the opcode table", op)
			}
			if len(args) != wantLen {
				t.Errorf("payload length = %d, want %d", len(args), wantLen)
			}
			if !bytes.Equal(args, tt.args) {
				t.Errorf("decoded args = % x, want % x", args, tt.args)
			}
		})
	}
}

func TestBacklight_Validate(t *testing.T) {
	for _, percent := range []int{0, 1, 50, 99, 100} {
		if err := (Backlight{Percent: percent}).Validate(); err != nil {
			t.Errorf("Validate(%d) = %v, want nil", percent, err)
		}
	}
	for _, percent := range []int{-1, 101, 1000} {
		err := (Backlight{Percent: percent}).Validate()
		var re *RangeError
		if !errors.As(err, &re) {
			t.Errorf("Validate(%d) = %v, want RangeError", percent, err)
		}
	}
}

func TestCircle_Validate(t *testing.T) {
	if err := (Circle{R: 255}).Validate(); err != nil {
		t.Errorf("Validate(r=255) = %v, want nil", err)
	}
	var re *RangeError
	if err := (Circle{R: 256}).Validate(); !errors.As(err, &re) {
		t.Errorf("Validate(r=256) = %v, want RangeError", err)
	}
}

func TestRangeError_Fields(t *testing.T) {
	err := checkRange("x coordinate", 200, 0, 128)
	var re *RangeError
	if !errors.As(err, &re) {
		t.Fatalf("checkRange = %v, want RangeError", err)
	}
	if re.Arg != "x coordinate" || re.Value != 200 || re.Min != 0 || re.Max != 128 {
		t.Errorf("RangeError = %+v", re)
	}
	if re.Error() == "" {
		t.Error("empty error message")
	}
}
