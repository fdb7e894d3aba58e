//go:build !qemutest

package kfmt

import "primoria/kernel/cpu"

func init() {
	cpuHaltFn = cpu.Halt
}
