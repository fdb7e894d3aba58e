// Package qemu writes to QEMU's isa-debug-exit device, the standard way a
// freestanding kernel reports a pass/fail result to the harness running it
// and then shuts the virtual machine down. Outside its own tests it is only
// wired in by kernel/kfmt's panic path (halt_qemutest.go) when built with
// the qemutest tag; a normal boot never imports it.
//
// Grounded directly on original_source/src/drivers/qemu.rs's QemuExitCode
// and exit_qemu (port_long_out(0xf4, code)), translated onto kernel/ports.
package qemu

import (
	"primoria/kernel/cpu"
	"primoria/kernel/ports"
)

const (
	exitPort = 0xF4

	codeSuccess uint32 = 0x10
	codeFailed  uint32 = 0x11
)

var outLongFn = ports.OutLong

// Exit writes the pass/fail exit code to the isa-debug-exit port. Under
// QEMU's `-device isa-debug-exit` this immediately terminates the virtual
// machine with status (code<<1)|1, so Exit never returns; outside of QEMU
// the write is simply ignored by real hardware at that address.
func Exit(success bool) {
	code := codeFailed
	if success {
		code = codeSuccess
	}
	outLongFn(exitPort, code)

	for {
		cpu.Halt()
	}
}
