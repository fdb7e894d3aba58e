package irq

import "unsafe"

const idtEntryCount = 256

const (
	gateTypeInterrupt = 0xe // 64-bit interrupt gate, clears IF on entry
	gatePresent       = 1 << 7
)

// idtGate is a single 16-byte IDT entry in long mode.
type idtGate struct {
	offsetLow  uint16
	selector   uint16
	istAndZero uint8
	typeAttr   uint8
	offsetMid  uint16
	offsetHigh uint32
	reserved   uint32
}

var (
	idt [idtEntryCount]idtGate
	idtr [10]byte
)

// installIDT zeroes the table (every gate starts out non-present) and loads
// the descriptor table register. Individual gates are filled in afterwards
// by setIDTGate.
func installIDT() {
	idt = [idtEntryCount]idtGate{}

	limit := uint16(unsafe.Sizeof(idt) - 1)
	base := uint64(uintptr(unsafe.Pointer(&idt[0])))
	*(*uint16)(unsafe.Pointer(&idtr[0])) = limit
	*(*uint64)(unsafe.Pointer(&idtr[2])) = base

	lidt(uintptr(unsafe.Pointer(&idtr[0])))
}

// setIDTGate writes a present, 64-bit interrupt gate descriptor for vector
// pointing at entry. istIndex selects one of the TSS's seven IST stacks
// (1-7); 0 means "don't switch stacks, stay on the interrupted stack".
func setIDTGate(vector uint8, entry uintptr, istIndex uint8) {
	addr := uint64(entry)
	idt[vector] = idtGate{
		offsetLow:  uint16(addr),
		selector:   selectorKernelCode,
		istAndZero: istIndex & 0x7,
		typeAttr:   gatePresent | gateTypeInterrupt,
		offsetMid:  uint16(addr >> 16),
		offsetHigh: uint32(addr >> 32),
	}
}

// lidt is implemented in irq_lowlevel_amd64.s.
func lidt(idtrAddr uintptr)
