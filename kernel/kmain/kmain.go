// Package kmain is thread 0's body: the function sched.Start invokes once
// the scheduler, PIC and IDT are all wired up and interrupts have been
// turned on. It is the Go analogue of the teacher's kernel/kmain.Kmain,
// grounded directly on that file's shape (log a banner, drive the rest of
// boot, never return).
package kmain

import (
	"primoria/kernel/driver/vga"
	"primoria/kernel/kfmt/early"
	"primoria/kernel/sched"
)

// console is the shared VGA text-mode framebuffer every thread below
// writes into, overlaying the fixed physical address per vga.PhysAddr.
// Demonstrating concurrent access to one shared resource from independently
// scheduled threads is spec.md §8 scenario 3's entire point.
var console = vga.NewHardwareConsole()

// Main spawns the two worker threads from spec.md §8 scenario 3 and then
// becomes thread 0's own worker loop, painting '.' into column 3 on every
// iteration. It never returns.
func Main() {
	early.Printf("primoria: boot thread running\n")

	sched.Launch(paintA)
	sched.Launch(paintB)

	for {
		console.Write('.', 7, 0, 3, 1)
	}
}

func paintA() {
	for {
		console.Write('A', 7, 0, 1, 1)
	}
}

func paintB() {
	for {
		console.Write('B', 7, 0, 2, 1)
	}
}
