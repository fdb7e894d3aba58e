// Package ports provides typed wrappers around the x86 IN/OUT instruction
// family. Every function here is forward-declared with no body; the
// implementation lives in ports_amd64.s, following the same asm-backed
// idiom as kernel/cpu.
package ports

// InByte reads a single byte from the given I/O port.
func InByte(port uint16) uint8

// OutByte writes a single byte to the given I/O port.
func OutByte(port uint16, value uint8)

// InWord reads a 16-bit word from the given I/O port.
func InWord(port uint16) uint16

// OutWord writes a 16-bit word to the given I/O port.
func OutWord(port uint16, value uint16)

// InLong reads a 32-bit dword from the given I/O port.
func InLong(port uint16) uint32

// OutLong writes a 32-bit dword to the given I/O port.
func OutLong(port uint16, value uint32)
