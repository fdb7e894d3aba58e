package serial

import (
	"primoria/device"
	"primoria/kernel/kfmt"
	"primoria/kernel/ports"
	"testing"
)

func TestInitProgramsDivisorAndLineControl(t *testing.T) {
	defer func() {
		outByteFn = ports.OutByte
		inByteFn = ports.InByte
	}()

	var writes []struct {
		port  uint16
		value uint8
	}
	outByteFn = func(port uint16, value uint8) {
		writes = append(writes, struct {
			port  uint16
			value uint8
		}{port, value})
	}

	Init()

	var sawDLAB, sawLineCtrl8N1 bool
	for _, w := range writes {
		if w.port == regLineCtrl && w.value == lineCtrlDLAB {
			sawDLAB = true
		}
		if w.port == regLineCtrl && w.value == lineCtrl8N1 {
			sawLineCtrl8N1 = true
		}
	}
	if !sawDLAB {
		t.Errorf("expected Init to set DLAB before writing the divisor; writes=%+v", writes)
	}
	if !sawLineCtrl8N1 {
		t.Errorf("expected Init to leave line control at 8N1; writes=%+v", writes)
	}
}

func TestWritePollsTHREBeforeEachByte(t *testing.T) {
	defer func() {
		outByteFn = ports.OutByte
		inByteFn = ports.InByte
	}()

	var polls int
	var sent []byte

	inByteFn = func(port uint16) uint8 {
		if port == regLineStatus {
			polls++
			return lineStatusTHRE
		}
		return 0
	}
	outByteFn = func(port uint16, value uint8) {
		if port == regData {
			sent = append(sent, value)
		}
	}

	n, err := Debug.Write([]byte("hi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected Write to report 2 bytes written, got %d", n)
	}
	if string(sent) != "hi" {
		t.Fatalf("expected the bytes to reach regData in order; got %q", sent)
	}
	if polls < 2 {
		t.Fatalf("expected at least one LSR poll per byte; got %d", polls)
	}
}

func TestDriverInitProgramsUARTAndSetsOutputSink(t *testing.T) {
	defer func() {
		outByteFn = ports.OutByte
		inByteFn = ports.InByte
		kfmt.SetOutputSink(nil)
	}()

	var wrote bool
	outByteFn = func(port uint16, value uint8) {
		if port == regLineCtrl && value == lineCtrl8N1 {
			wrote = true
		}
	}

	if err := (driver{Debug}).DriverInit(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !wrote {
		t.Fatal("expected DriverInit to program the UART's line control register")
	}
	if sink, ok := kfmt.GetOutputSink().(Writer); !ok || sink != Debug {
		t.Fatalf("expected DriverInit to install Debug as the kfmt output sink, got %#v", kfmt.GetOutputSink())
	}
}

func TestRegistersAsDeviceDriver(t *testing.T) {
	var found bool
	for _, info := range device.DriverList() {
		if info.Drv.DriverName() == "serial_16550" {
			found = true
			if info.Order != device.DetectOrderEarly {
				t.Errorf("expected the serial driver to register at DetectOrderEarly, got %v", info.Order)
			}
		}
	}
	if !found {
		t.Fatal("expected package init() to register the serial driver")
	}
}
