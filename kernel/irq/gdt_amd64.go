package irq

import "unsafe"

// The GDT and TSS are built as plain Go data here rather than hand-assembled
// in .s, following the same unsafe-pointer-over-a-static-buffer idiom the
// teacher uses for the VGA text buffer and the ring buffer in kernel/kfmt.
// Only the three instructions that have no Go-level equivalent (LGDT, LTR
// and the far-return needed to reload CS) live in irq_lowlevel_amd64.s.

const (
	gdtNullIndex = iota
	gdtKernelCodeIndex
	gdtKernelDataIndex
	gdtTSSIndex // occupies two consecutive 8-byte slots; the TSS descriptor is 16 bytes long in 64-bit mode

	gdtEntryCount = gdtTSSIndex + 2
)

const (
	// selectorKernelCode and selectorKernelData are the GDT selectors
	// installed below. Index*8 | RPL(0).
	selectorKernelCode = gdtKernelCodeIndex * 8
	selectorKernelData = gdtKernelDataIndex * 8
	selectorTSS        = gdtTSSIndex * 8
)

const (
	accessPresent    = 1 << 7
	accessDescType   = 1 << 4 // 1 = code/data, 0 = system (TSS)
	accessExecutable = 1 << 3
	accessRW         = 1 << 1 // readable (code) / writable (data)
	accessTSSBusy    = 0x9    // type field for an available 64-bit TSS

	flagLongMode = 1 << 1 // L bit (bit 1 of the flags nibble), 64-bit code segment
)

// gdtEntry is a raw 8-byte GDT descriptor. Base/limit are meaningless for
// 64-bit code/data segments (the CPU ignores them outside of FS/GS) but are
// still laid out in the classic format for clarity and because the TSS
// descriptor needs a real base address.
type gdtEntry struct {
	limitLow  uint16
	baseLow   uint16
	baseMid   uint8
	access    uint8
	flagsLim  uint8 // high nibble: flags, low nibble: limit bits 16-19
	baseHigh  uint8
}

// tssDescriptor is the 16-byte system-segment descriptor variant used for
// the TSS in 64-bit mode (a plain gdtEntry plus a 32-bit base extension and
// reserved word).
type tssDescriptor struct {
	gdtEntry
	baseUpper uint32
	reserved  uint32
}

// taskStateSegment is the 64-bit TSS. Only the IST slots are used by this
// kernel (there are no privilege-level stack switches, only the IST-based
// double-fault stack); RSP0-2 are left zero.
type taskStateSegment struct {
	reserved0 uint32
	rsp       [3]uint64
	reserved1 uint64
	ist       [7]uint64 // ist[0] is IST1, ist[1] is IST2, ...
	reserved2 uint64
	reserved3 uint16
	ioMapBase uint16
}

const doubleFaultStackSize = 4096

var (
	gdt                [gdtEntryCount]gdtEntry
	tss                taskStateSegment
	doubleFaultStack   [doubleFaultStackSize]byte
	gdtr               [10]byte // 2-byte limit + 8-byte base, as LGDT expects
)

func makeSegmentDescriptor(access, flags uint8) gdtEntry {
	return gdtEntry{
		limitLow: 0xffff,
		access:   access,
		flagsLim: (flags << 4) | 0x0f,
	}
}

// installGDT builds the kernel code/data segments and the TSS descriptor
// (with its IST1 entry pointing at a dedicated double-fault stack), then
// loads the GDT and task register.
func installGDT() {
	gdt[gdtNullIndex] = gdtEntry{}
	gdt[gdtKernelCodeIndex] = makeSegmentDescriptor(
		accessPresent|accessDescType|accessExecutable|accessRW, flagLongMode)
	gdt[gdtKernelDataIndex] = makeSegmentDescriptor(
		accessPresent|accessDescType|accessRW, 0)

	tss = taskStateSegment{}
	// IST1 grows down from the top of the dedicated stack.
	tss.ist[0] = uint64(uintptr(unsafe.Pointer(&doubleFaultStack[0]))) + doubleFaultStackSize
	tss.ioMapBase = uint16(unsafe.Sizeof(tss))

	tssBase := uint64(uintptr(unsafe.Pointer(&tss)))
	tssLimit := uint32(unsafe.Sizeof(tss) - 1)

	tssDesc := (*tssDescriptor)(unsafe.Pointer(&gdt[gdtTSSIndex]))
	tssDesc.gdtEntry = gdtEntry{
		limitLow: uint16(tssLimit),
		baseLow:  uint16(tssBase),
		baseMid:  uint8(tssBase >> 16),
		access:   accessPresent | accessTSSBusy,
		flagsLim: uint8((tssLimit >> 16) & 0x0f),
		baseHigh: uint8(tssBase >> 24),
	}
	tssDesc.baseUpper = uint32(tssBase >> 32)

	limit := uint16(unsafe.Sizeof(gdt) - 1)
	base := uint64(uintptr(unsafe.Pointer(&gdt[0])))
	*(*uint16)(unsafe.Pointer(&gdtr[0])) = limit
	*(*uint64)(unsafe.Pointer(&gdtr[2])) = base

	lgdt(uintptr(unsafe.Pointer(&gdtr[0])))
	reloadSegments(selectorKernelCode, selectorKernelData)
	ltr(selectorTSS)
}

// lgdt, ltr and reloadSegments are implemented in irq_lowlevel_amd64.s: the
// first two wrap instructions with no Go equivalent, the third reloads CS
// via a far return since the x86_64 architecture offers no direct MOV-to-CS.
func lgdt(gdtrAddr uintptr)
func ltr(selector uint16)
func reloadSegments(codeSelector, dataSelector uint16)
