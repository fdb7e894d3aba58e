// Package early is a second, independent instance of kfmt's allocation-free
// Printf, hard-wired to the serial port instead of kfmt's pluggable sink.
// It exists so diagnostics keep working even if nothing ever calls
// kfmt.SetOutputSink (or calls it with something that later breaks): the
// UART needs no probing or hardware detection, so early.Printf is safe to
// call from the very first instruction after serial.Init, well before
// sched or irq exist.
package early

import (
	"io"
	"primoria/kernel/driver/serial"
	"primoria/kernel/kfmt"
)

// sink is the writer Printf sends formatted output to. It defaults to the
// real serial port; tests swap it for a bytes.Buffer the same way kfmt's
// own tests swap outputSink.
var sink io.Writer = serial.Debug

// Printf formats according to kfmt's minimal verb set and writes the result
// directly to the serial port, bypassing kfmt's own outputSink.
func Printf(format string, args ...interface{}) {
	kfmt.Fprintf(sink, format, args...)
}
