// Package pic drives the cascaded 8259 programmable interrupt controller
// pair, remapping the master/slave vector offsets away from the CPU
// exception range and exposing end-of-interrupt acknowledgement.
//
// Grounded on original_source/src/system/idt.rs (PICS, PIC_1_OFFSET,
// notify_end_of_interrupt) but reimplemented directly on top of
// kernel/ports instead of vendoring the pic8259 crate.
package pic

import "primoria/kernel/ports"

const (
	masterCommandPort = 0x20
	masterDataPort    = 0x21
	slaveCommandPort  = 0xA0
	slaveDataPort     = 0xA1

	// MasterOffset is the vector number the master PIC's IRQ0 is remapped
	// to. IRQ0 (the timer) therefore arrives as vector 32.
	MasterOffset = 32

	// SlaveOffset is the vector number the slave PIC's IRQ8 is remapped
	// to. IRQ1 (the keyboard), which is wired to the master PIC, arrives
	// as MasterOffset+1 = 33.
	SlaveOffset = MasterOffset + 8

	icw1Init       = 0x11 // edge triggered, cascade mode, ICW4 present
	icw4Mode8086   = 0x01
	cascadeIRQLine = 0x04 // IRQ2 carries the slave's signal to the master
	cascadeIdent   = 0x02

	eoiCommand = 0x20
)

var (
	// outByteFn and inByteFn are mocked by tests and are automatically
	// inlined by the compiler.
	outByteFn = ports.OutByte
	inByteFn  = ports.InByte
)

// Init remaps the master and slave PICs so that IRQ0..IRQ15 map to vectors
// MasterOffset..MasterOffset+15, then restores the interrupt masks that were
// in place before remapping. It must be called once, before interrupts are
// enabled.
func Init() {
	// Save the current interrupt masks so we can restore the caller's
	// line selection once remapping is complete.
	masterMask := inByteFn(masterDataPort)
	slaveMask := inByteFn(slaveDataPort)

	outByteFn(masterCommandPort, icw1Init)
	ioWait()
	outByteFn(slaveCommandPort, icw1Init)
	ioWait()

	outByteFn(masterDataPort, MasterOffset)
	ioWait()
	outByteFn(slaveDataPort, SlaveOffset)
	ioWait()

	outByteFn(masterDataPort, cascadeIRQLine)
	ioWait()
	outByteFn(slaveDataPort, cascadeIdent)
	ioWait()

	outByteFn(masterDataPort, icw4Mode8086)
	ioWait()
	outByteFn(slaveDataPort, icw4Mode8086)
	ioWait()

	outByteFn(masterDataPort, masterMask)
	outByteFn(slaveDataPort, slaveMask)
}

// SendEOI notifies the PIC(s) that the interrupt identified by vector has
// been serviced. If vector originated on the slave PIC, both PICs are
// acknowledged.
func SendEOI(vector uint8) {
	if vector >= SlaveOffset {
		outByteFn(slaveCommandPort, eoiCommand)
	}
	outByteFn(masterCommandPort, eoiCommand)
}

// ioWait gives the (ancient, slow) PIC hardware time to process the
// previous command by writing to an unused port.
func ioWait() {
	outByteFn(0x80, 0)
}
