// Package serial drives a 16550 UART at the classic COM1 address (0x3F8),
// exposed as a plain io.Writer. It needs no probing or initialization
// sequence beyond programming the baud-rate divisor and line/FIFO control
// registers once, unlike the teacher's VGA console which waits on
// multiboot framebuffer detection; a UART is either wired up on the
// emulated/real board or it silently drops bytes.
//
// Grounded on the teacher's port-I/O-backed driver idiom
// (VgaTextConsole.SetPaletteColor in device/video/console/vga_text.go pokes
// 0x3c8/0x3c9 through a portWriteByteFn variable) and on
// original_source/src/drivers/tty.rs's sprint!/sprintln! naming, adapted
// onto kernel/ports instead of a vendored UART crate.
package serial

import (
	"primoria/device"
	"primoria/kernel"
	"primoria/kernel/kfmt"
	"primoria/kernel/ports"
)

const (
	comPort = 0x3F8

	regData        = comPort + 0
	regDivisorLow  = comPort + 0
	regIntEnable   = comPort + 1
	regDivisorHigh = comPort + 1
	regFIFOCtrl    = comPort + 2
	regLineCtrl    = comPort + 3
	regModemCtrl   = comPort + 4
	regLineStatus  = comPort + 5

	lineCtrlDLAB      = 1 << 7
	lineCtrl8N1       = 0x03
	fifoCtrlEnableClr = 0xC7
	modemCtrlRTSDSR   = 0x0B

	divisor38400 = 3

	lineStatusTHRE = 1 << 5 // transmit holding register empty
)

var (
	// outByteFn and inByteFn are mocked by tests, following the same
	// package-level-variable idiom as kernel/pic.
	outByteFn = ports.OutByte
	inByteFn  = ports.InByte
)

// Init programs COM1 for 38400 8N1 with FIFOs enabled. It must be called
// before the first Write.
func Init() {
	outByteFn(regIntEnable, 0x00)

	outByteFn(regLineCtrl, lineCtrlDLAB)
	outByteFn(regDivisorLow, divisor38400&0xff)
	outByteFn(regDivisorHigh, (divisor38400>>8)&0xff)

	outByteFn(regLineCtrl, lineCtrl8N1)
	outByteFn(regFIFOCtrl, fifoCtrlEnableClr)
	outByteFn(regModemCtrl, modemCtrlRTSDSR)
}

// Writer is an io.Writer backed by the COM1 UART. Its zero value is ready
// to use once Init has been called.
type Writer struct{}

// Debug is the package-wide Writer instance passed to kfmt.SetOutputSink
// and used directly by kfmt/early.
var Debug Writer

// Write sends each byte of p to the UART, polling the line status
// register's transmit-holding-register-empty bit before every byte so a
// fast writer never outruns the (comparatively glacial) serial line.
func (Writer) Write(p []byte) (int, error) {
	for _, b := range p {
		waitForTHRE()
		outByteFn(regData, b)
	}
	return len(p), nil
}

func waitForTHRE() {
	for inByteFn(regLineStatus)&lineStatusTHRE == 0 {
	}
}

// driver adapts this package's Init to the device.Driver interface so it
// can be initialized by cmd/kernel's fixed boot-order registry instead of
// being called directly, matching how the teacher's own drivers register
// themselves from an init() block. DriverInit also installs Debug as the
// kfmt output sink the moment the UART is live, the same role the
// teacher's hal.onDriverInit played when a probed driver turned out to be
// the active console/TTY.
type driver struct{ Writer }

func (driver) DriverName() string                     { return "serial_16550" }
func (driver) DriverVersion() (uint16, uint16, uint16) { return 0, 1, 0 }
func (driver) DriverInit() *kernel.Error {
	Init()
	kfmt.SetOutputSink(Debug)
	return nil
}

func init() {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderEarly,
		Drv:   driver{Debug},
	})
}
