// Package sched is the scheduler core: a fixed-size thread table, a
// timer-driven preemptive round-robin context switch, and the
// LAUNCH_THREAD syscall used to spawn new kernel threads. It is the
// centerpiece of this kernel; everything else (PIC, IDT, arena) exists to
// support it.
//
// Grounded on original_source/src/kernel.rs's State/Thread/switch_stack_frame
// design, with the "clean launch-with-entry-point" spawn variant the source
// also explored (rather than its copy-the-parent's-stack fork), translated
// onto kernel/irq's Frame/Regs split and the teacher's asm-backed,
// mockable-function-variable idiom.
package sched

import (
	"io"
	"primoria/kernel"
	"primoria/kernel/cpu"
	"primoria/kernel/irq"
	"primoria/kernel/kfmt"
	"primoria/kernel/mem/arena"
	"primoria/kernel/pic"
	"primoria/kernel/sync"
	"reflect"
)

const (
	// MaxThreads bounds the thread table; this design never reclaims a
	// slot once used.
	MaxThreads = 8

	// stackWords is the size, in machine words, of a spawned thread's
	// stack.
	stackWords = 1024

	// LaunchThread is the syscall selector for spawning a new thread.
	LaunchThread = 0xAA
)

// thread holds the resumable CPU state for one kernel thread.
type thread struct {
	frame    irq.Frame
	regs     irq.Regs
	stackEnd uintptr
}

// schedState is the process-wide scheduler singleton. Per spec, it is only
// valid on a single CPU and is mutated exclusively with interrupts disabled
// (either because the mutator runs inside an interrupt gate, or because it
// explicitly disables interrupts first).
type schedState struct {
	threads       [MaxThreads]thread
	threadCount   int
	currentThread int
	ticks         uint64
}

var state schedState

// debugOut tags every diagnostic line this package prints with "[sched] ",
// following the teacher's kfmt.PrefixWriter (used the same way in the
// now-deleted kernel/hal.InitTerminal to tag panic dumps). Sink defaults to
// io.Discard so a call into a handler before Init has run (as happens in
// this package's own tests) never writes through a nil Sink; Init rewires
// it to the real output sink.
var debugOut = &kfmt.PrefixWriter{Prefix: []byte("[sched] "), Sink: io.Discard}

// Init prepares the scheduler: it sets thread_count to 1 (the boot thread),
// installs the timer and syscall gates, and wires kernel/sync's spinlocks
// to yield the remainder of a thread's timeslice instead of busy-waiting
// with interrupts masked. It must be called exactly once, before interrupts
// are enabled.
func Init() {
	state.threadCount = 1
	state.currentThread = 0
	debugOut.Sink = kfmt.GetOutputSink()

	sync.SetYieldFn(func() {
		cpu.EnableInterrupts()
		cpu.Halt()
	})

	irq.InstallGate(irq.TimerVector, timerEntry, 0)
	irq.InstallGate(irq.SyscallVector, syscallEntry, 0)

	irq.HandleException(irq.DivideByZero, handleDivideByZero)
	irq.HandleException(irq.Breakpoint, handleBreakpoint)
	irq.HandleExceptionWithCode(irq.DoubleFault, handleDoubleFault)
	irq.HandleExceptionWithCode(irq.PageFaultException, handlePageFault)
}

// handleDivideByZero, handleBreakpoint, handleDoubleFault and
// handlePageFault dump the frame (and, for page fault, the faulting
// address from CR2) to the debug sink, matching
// original_source/src/system/idt.rs's kprintln!("{:#?}", stack_frame)
// calls. Breakpoint is the only one that can sensibly continue; the others
// have no recovery in scope (§4.7).
func handleDivideByZero(frame *irq.Frame, regs *irq.Regs) {
	kfmt.Fprintf(debugOut, "divide-by-zero in thread %d\n", state.currentThread)
	frame.Print()
	regs.Print()
	panic("sched: divide-by-zero exception")
}

func handleBreakpoint(frame *irq.Frame, regs *irq.Regs) {
	kfmt.Fprintf(debugOut, "breakpoint in thread %d\n", state.currentThread)
	frame.Print()
	regs.Print()
}

func handleDoubleFault(code uint64, frame *irq.Frame, regs *irq.Regs) {
	kfmt.Fprintf(debugOut, "double fault (code=%d) in thread %d\n", code, state.currentThread)
	frame.Print()
	regs.Print()
	kfmt.Panic(&kernel.Error{Module: "sched", Message: "double fault"})
}

func handlePageFault(code uint64, frame *irq.Frame, regs *irq.Regs) {
	kfmt.Fprintf(debugOut, "page fault (code=%d) in thread %d, faulting address=0x%x\n",
		code, state.currentThread, cpu.ReadCR2())
	frame.Print()
	regs.Print()
	panic("sched: page fault")
}

// Start records the boot thread's stack top, enables interrupts and invokes
// main. It never returns: if main returns, that is a programmer contract
// violation and is fatal.
func Start(main func()) {
	state.threads[0].stackEnd = currentStackPointer()

	cpu.EnableInterrupts()
	main()

	panic("sched: thread 0's main function returned")
}

// Launch spawns a new thread that will call entry with no arguments, and
// returns its thread id. It works by issuing the LAUNCH_THREAD syscall
// (int 0x80, RAX=0xAA, RDI=entry's address); the new thread is scheduled on
// some subsequent timer tick. Launch panics if the thread table is full.
func Launch(entry func()) int {
	return int(launchSyscall(funcAddr(entry)))
}

// ThreadID returns the id of the currently executing thread. This is an
// unsynchronized read of a word-aligned integer; benign on x86_64, per
// spec.md's own note on the topic.
func ThreadID() int {
	return state.currentThread
}

// Ticks returns the number of timer interrupts serviced since boot.
func Ticks() uint64 {
	return state.ticks
}

// nextThread computes the round-robin successor of current among
// [0, count). It is a pure function so the rotation math can be tested
// without any interrupt machinery.
func nextThread(current, count int) int {
	return (current + 1) % count
}

// switchFrame implements the §4.3 contract: compute the next thread and, if
// it differs from the current one, swap the hardware frame in place,
// log the switch with the tick count to debugOut, and advance
// current_thread. It assumes the caller already copied the outgoing
// thread's registers into state.threads[current].regs (timerTick does this
// before calling switchFrame) and that interrupts are disabled for the
// whole sequence.
func switchFrame(frame *irq.Frame) {
	cur := state.currentThread
	next := nextThread(cur, state.threadCount)

	if cur != next {
		state.threads[cur].frame = *frame
		*frame = state.threads[next].frame
		kfmt.Fprintf(debugOut, "switch %d -> %d at tick %d\n", cur, next, state.ticks)
	}
	state.currentThread = next
}

const (
	flagCF = 1 << 0
	flagPF = 1 << 2
	flagAF = 1 << 4
	flagZF = 1 << 6
	flagSF = 1 << 7
	flagIF = 1 << 9
	flagDF = 1 << 10
	flagOF = 1 << 11

	sanitizedClearMask = flagCF | flagPF | flagAF | flagZF | flagSF | flagDF | flagOF
)

// sanitizeFlags clears the arithmetic/status bits (CF, PF, AF, ZF, SF, DF,
// OF) and forces IF set, per §4.5 step 4. A freshly spawned thread must
// start with a known, interrupt-preemptible flags register rather than
// inheriting whatever condition codes happened to be live in its parent.
func sanitizeFlags(flags uint64) uint64 {
	return (flags &^ uint64(sanitizedClearMask)) | flagIF
}

// launchThread implements the LAUNCH_THREAD syscall semantics (§4.5). It
// must be called with interrupts disabled, which holds automatically since
// it only ever runs from inside the syscall interrupt gate.
func launchThread(entryPC uintptr, callerFrame *irq.Frame) int {
	if state.threadCount == MaxThreads {
		panic("sched: thread table full")
	}

	top, err := arena.Alloc(uintptr(stackWords)*8, 16)
	if err != nil {
		panic(err)
	}
	top += uintptr(stackWords) * 8

	child := state.threadCount
	state.threads[child].stackEnd = top
	state.threads[child].frame = irq.Frame{
		RIP:    uint64(trampolineEntry),
		CS:     callerFrame.CS,
		RFlags: sanitizeFlags(callerFrame.RFlags),
		RSP:    uint64(top),
		SS:     callerFrame.SS,
	}
	state.threads[child].regs = irq.Regs{RDI: uint64(entryPC)}
	state.threadCount++

	kfmt.Fprintf(debugOut, "launched thread %d entry=0x%x stack_top=0x%x\n", child, entryPC, uint64(top))
	return child
}

// dispatchSyscall is called by syscallEntryStub (stub_amd64.s) with the
// selector and argument pulled out of the saved RAX/RDI, and a pointer to
// the hardware frame. Its return value is written back into RAX before the
// stub's iretq.
func dispatchSyscall(selector uint64, arg uint64, frame *irq.Frame) uint64 {
	switch selector {
	case LaunchThread:
		return uint64(launchThread(uintptr(arg), frame))
	default:
		panic("sched: unknown syscall selector")
	}
}

// saveCurrentRegs is called by timerTick before it invokes
// switchFrame, copying the 15 just-saved GP registers into the (still)
// current thread's slot.
func saveCurrentRegs(regs *irq.Regs) {
	state.threads[state.currentThread].regs = *regs
}

// loadCurrentRegs is called by resume (stub_amd64.s) to fetch the
// now-current thread's saved registers just before they are popped into
// the CPU and iretq is executed.
func loadCurrentRegs(dest *irq.Regs) {
	*dest = state.threads[state.currentThread].regs
}

// timerTick is called by timerEntryStub after it has saved the outgoing
// thread's registers. It increments the tick counter, performs the
// round-robin switch and acknowledges the interrupt to the PIC.
func timerTick(regs *irq.Regs, frame *irq.Frame) {
	saveCurrentRegs(regs)
	state.ticks++
	switchFrame(frame)
	sendEOIFn(irq.TimerVector)
}

// sendEOIFn is mocked by tests, following the same package-level-variable
// idiom as kernel/pic's own port accessors.
var sendEOIFn = pic.SendEOI

// funcAddr returns the machine address of a zero-argument Go function,
// following the same reflect-based approach kernel/irq uses to turn
// asm-implemented functions into raw addresses installable in the IDT.
func funcAddr(fn func()) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

var (
	timerEntry      = funcAddr(timerEntryStub)
	syscallEntry    = funcAddr(syscallEntryStub)
	trampolineEntry = funcAddr(threadStartTrampoline)
)

func timerEntryStub()
func syscallEntryStub()
func threadStartTrampoline()

// threadEntryReturned is called by threadStartTrampoline if a thread's
// entry function returns. Per §4.5, that is always fatal: this design has
// no mechanism to reap a thread.
func threadEntryReturned() {
	panic("sched: thread entry function returned")
}

// currentStackPointer is implemented in stub_amd64.s; it returns the value
// of RSP at the point of the call, used once by Start to record the boot
// thread's stack extent.
func currentStackPointer() uintptr

// launchSyscall is implemented in stub_amd64.s; it issues int 0x80 with
// RAX=LaunchThread and RDI=entry, and returns the new thread id from RAX.
func launchSyscall(entry uintptr) uint64

// resume is implemented in stub_amd64.s; see loadCurrentRegs.
func resume(frame *irq.Frame)
