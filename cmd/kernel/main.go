// Package main is the Go analogue of the teacher's stub.go/boot.go: a
// trampoline whose only job is to keep the linker from dead-code
// eliminating the real kernel entry point, since whatever rt0 assembly
// hands off to this binary has no static call into Go it can see.
package main

import (
	"primoria/device"
	_ "primoria/kernel/driver/serial"
	"primoria/kernel/irq"
	"primoria/kernel/kfmt"
	"primoria/kernel/kmain"
	"primoria/kernel/pic"
	"primoria/kernel/sched"
	"sort"
)

// initDrivers walks the registered drivers in detection order and
// initializes each in turn, the same probe loop the teacher's (now
// removed) kernel/hal.DetectHardware ran over device.DriverList(). A
// driver that fails to initialize is fatal: this kernel has no degraded
// boot path.
func initDrivers() {
	drivers := device.DriverList()
	sort.Sort(drivers)

	for _, info := range drivers {
		if err := info.Drv.DriverInit(); err != nil {
			kfmt.Panic(err)
		}
	}
}

// main is intentionally defined to prevent the Go compiler from optimizing
// away the actual kernel code; it is not expected to return, and if it
// does the CPU that rt0 leaves running will simply halt.
//
// Boot order matters: drivers run in device.DetectOrder so the serial
// sink (DetectOrderEarly) is live before anything calls kfmt.Printf, the
// PIC and IDT must both be installed before sched.Init wires the
// timer/syscall gates, and sched.Init must run strictly before
// sched.Start turns interrupts on — the same sequencing spec.md §4.1
// requires of init.
func main() {
	initDrivers()

	pic.Init()
	irq.Init()
	sched.Init()
	sched.Start(kmain.Main)
}
