package qemu

import (
	"primoria/kernel/ports"
	"testing"
)

func TestExitWritesSuccessCode(t *testing.T) {
	defer func() { outLongFn = ports.OutLong }()

	var gotPort uint16
	var gotValue uint32
	outLongFn = func(port uint16, value uint32) {
		gotPort = port
		gotValue = value
		// Simulate QEMU tearing the VM down: panic out of the infinite
		// halt loop Exit would otherwise enter so the test can return.
		panic("halted")
	}

	defer func() {
		recover()
		if gotPort != exitPort {
			t.Errorf("expected write to port %#x, got %#x", exitPort, gotPort)
		}
		if gotValue != codeSuccess {
			t.Errorf("expected success code %#x, got %#x", codeSuccess, gotValue)
		}
	}()

	Exit(true)
}

func TestExitWritesFailureCode(t *testing.T) {
	defer func() { outLongFn = ports.OutLong }()

	var gotValue uint32
	outLongFn = func(_ uint16, value uint32) {
		gotValue = value
		panic("halted")
	}

	defer func() {
		recover()
		if gotValue != codeFailed {
			t.Errorf("expected failure code %#x, got %#x", codeFailed, gotValue)
		}
	}()

	Exit(false)
}
