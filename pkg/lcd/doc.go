// Package lcd drives a SparkFun Graphic LCD Serial Backpack (LCD-09352)
// and compatible controllers over a serial line.
//
// The backpack has only a few hundred bytes of on-board receive buffering
// and silently drops data when it overflows; it applies no backpressure.
// This package compensates with a paced channel: drawing operations are
// queued and a background loop flushes at most Quantum bytes per Heartbeat
// to the wire. If you are only typing text you will probably never hit the
// limit and can set Quantum to 0 to bypass the queue entirely.
//
// Example:
//
//	l, err := lcd.Open("/dev/ttyUSB0", 115200, lcd.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer l.Close()
//
//	if err := l.Start(); err != nil {
//	    return err
//	}
//	l.InitDisplay()
//	l.SetBacklight(50)
//	l.SetCharPosition(0, 0)
//	l.Type("hello")
//	l.Circle(64, 32, 10, true)
//
// Doing extensive animation requires tuning Heartbeat and Quantum against
// the complexity of your graphics; the device cannot report its true
// absorption rate, so the right values take a bit of tweaking.
package lcd
