// Package cpu provides thin, asm-backed wrappers around the handful of
// privileged x86_64 instructions the kernel needs directly: toggling the
// interrupt flag, halting, reading CR2 and running CPUID. Everything here
// is forward-declared with no body; the implementation lives in
// cpu_amd64.s.
package cpu

var (
	cpuidFn = ID
)

// EnableInterrupts sets the CPU's interrupt flag (IF), allowing maskable
// interrupts to be delivered again.
func EnableInterrupts()

// DisableInterrupts clears the CPU's interrupt flag (IF). While interrupts
// are disabled the current code has exclusive access to any state that is
// also touched by an interrupt handler.
func DisableInterrupts()

// Halt stops instruction execution until the next interrupt arrives.
func Halt()

// ReadCR2 returns the value stored in the CR2 register, i.e. the faulting
// linear address recorded by the CPU the last time a page fault occurred.
func ReadCR2() uint64

// ID returns information about the CPU and its features. It is implemented
// as a CPUID instruction with EAX=leaf and returns the values placed in
// EAX, EBX, ECX and EDX.
func ID(leaf uint32) (eax, ebx, ecx, edx uint32)

// IsIntel returns true if the code is running on an Intel processor.
func IsIntel() bool {
	_, ebx, ecx, edx := cpuidFn(0)
	return ebx == 0x756e6547 && // "Genu"
		edx == 0x49656e69 && // "ineI"
		ecx == 0x6c65746e // "ntel"
}
