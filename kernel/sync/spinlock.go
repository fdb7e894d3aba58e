// Package sync provides a spinlock synchronization primitive.
package sync

import "sync/atomic"

var (
	// yieldFn is invoked by archAcquireSpinlock once a caller has spun past
	// attemptsBeforeYielding without acquiring the lock. It defaults to nil
	// (busy-wait forever) until SetYieldFn is called.
	yieldFn func()
)

// SetYieldFn installs the function a spinning Acquire calls once it has
// spun past its patience threshold, instead of busy-waiting indefinitely.
// kernel/sched calls this once from Init with a closure that re-enables
// interrupts and halts until the next tick, so a thread that loses a race
// for a lock yields the rest of its timeslice rather than spinning through
// it. Resolves the single-CPU, no-scheduler assumption this package started
// with.
func SetYieldFn(fn func()) {
	yieldFn = fn
}

// Spinlock implements a lock where each task trying to acquire it busy-waits
// till the lock becomes available.
type Spinlock struct {
	state uint32
}

// Acquire blocks until the lock can be acquired by the currently active task.
// Any attempt to re-acquire a lock already held by the current task will cause
// a deadlock.
func (l *Spinlock) Acquire() {
	archAcquireSpinlock(&l.state, 1)
}

// TryToAcquire attempts to acquire the lock and returns true if the lock could
// be acquired or false otherwise.
func (l *Spinlock) TryToAcquire() bool {
	return atomic.SwapUint32(&l.state, 1) == 0
}

// Release relinquishes a held lock allowing other tasks to acquire it. Calling
// Release while the lock is free has no effect.
func (l *Spinlock) Release() {
	atomic.StoreUint32(&l.state, 0)
}

// archAcquireSpinlock is an arch-specific implementation for acquiring the
// lock. It spins on a CPU PAUSE instruction (cheap on the hyperthreaded
// siblings of whatever core is holding the lock) and calls yieldFn, if one
// is installed, once every attemptsBeforeYielding failed attempts.
func archAcquireSpinlock(state *uint32, attemptsBeforeYielding uint32) {
	var attempts uint32
	for !atomic.CompareAndSwapUint32(state, 0, 1) {
		cpuPause()
		attempts++
		if attempts >= attemptsBeforeYielding {
			attempts = 0
			if yieldFn != nil {
				yieldFn()
			}
		}
	}
}

// cpuPause is implemented in spinlock_amd64.s; it executes the PAUSE
// instruction, a hint to the CPU that this is a spin-wait loop.
func cpuPause()
