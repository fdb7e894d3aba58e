//go:build qemutest

package kfmt

import "primoria/kernel/driver/qemu"

func init() {
	cpuHaltFn = func() { qemu.Exit(false) }
}
