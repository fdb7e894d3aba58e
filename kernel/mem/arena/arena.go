// Package arena implements a bump allocator over a single fixed-size static
// byte array. It is a direct generalization of
// kernel/mem/pmm/allocator/bootmem.go's monotonic-counter, no-reclaim
// design, simplified from frame-granularity physical memory (which needs
// the multiboot memory map) down to byte-granularity over one static
// backing array, since this kernel never sets up paging.
//
// Like bootMemAllocator, once a region is handed out it can never be freed;
// the only consumer is kernel/sched, which carves a fixed-size stack out of
// the arena every time a thread is launched and never releases it (threads
// never die).
package arena

import (
	"primoria/kernel"
	"primoria/kernel/mem"
	"primoria/kernel/sync"
	"unsafe"
)

// Size is the total capacity of the arena in bytes. 256 thread stacks of
// 1024 words (8KiB) would need 2MiB; this kernel's MaxThreads is far
// smaller (see kernel/sched), so a generous static backing array is cheap.
const Size = uintptr(2 * mem.Mb)

var (
	errOutOfMemory = &kernel.Error{Module: "arena", Message: "out of memory"}

	backing [Size]byte

	mu         sync.Spinlock
	allocCount uint64
	next       uintptr
)

func backingStart() uintptr {
	return uintptr(unsafe.Pointer(&backing[0]))
}

func init() {
	next = backingStart()
}

// Alloc reserves n bytes from the arena, aligned to align bytes (which must
// be a power of two), and returns a pointer to the first byte. It never
// reclaims memory: once returned, a region is owned by its caller for the
// lifetime of the kernel.
func Alloc(n uintptr, align uintptr) (uintptr, *kernel.Error) {
	mu.Acquire()
	defer mu.Release()

	aligned := (next + align - 1) &^ (align - 1)
	end := aligned + n

	if end > backingStart()+Size {
		return 0, errOutOfMemory
	}

	next = end
	allocCount++

	// A freshly spawned thread's stack must not leak whatever a previous
	// occupant of this arena region left behind; zero it the same way
	// kernel.Memset already does for page-granularity regions elsewhere
	// in the teacher's memory-management code.
	kernel.Memset(aligned, 0, n)

	return aligned, nil
}

// AllocCount returns the number of successful allocations made so far.
// Exposed for tests and diagnostics.
func AllocCount() uint64 {
	mu.Acquire()
	defer mu.Release()
	return allocCount
}

// Reset discards all allocations and rewinds the bump pointer to the start
// of the backing array. It exists only so tests can run the allocator
// repeatedly against the same static buffer; kernel code never calls it.
func Reset() {
	mu.Acquire()
	defer mu.Release()
	next = backingStart()
	allocCount = 0
}
