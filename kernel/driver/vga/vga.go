// Package vga implements a minimal VGA text-mode console: one cell per
// character, two bytes per cell (ASCII code + a 4-bit foreground/4-bit
// background color attribute), the classic mode 0x3 layout at physical
// address 0xB8000.
//
// This is a trimmed adaptation of the teacher's
// device/video/console/vga_text.go, stripped of everything out of scope
// here: no multiboot framebuffer probing, no VESA/graphics mode, no font
// or boot logo, no device.Driver registration. What survives is exactly
// the piece spec.md §8 scenario 3 needs — two threads independently
// painting a character into a shared framebuffer — so Console operates on
// a caller-supplied backing slice instead of requiring real hardware or a
// mapped physical page.
package vga

import (
	"reflect"
	"unsafe"
)

const (
	// PhysAddr is the standard VGA text-mode framebuffer address.
	PhysAddr = 0xB8000

	// Columns and Rows are the standard 80x25 text-mode dimensions.
	Columns = 80
	Rows    = 25

	clearChar = uint16(' ')

	defaultFg uint8 = 7 // light gray
	defaultBg uint8 = 0 // black

	maxColorIndex uint8 = 15
)

// Console is an 80x25 VGA text console backed by fb, a caller-supplied
// slice of width*height uint16 cells. NewConsole over the real hardware
// buffer points fb at PhysAddr; tests point it at an ordinary Go slice.
type Console struct {
	width, height uint32
	fb            []uint16
}

// NewConsole wraps fb, which must have at least width*height elements, as
// a width x height text console. It performs no hardware access itself;
// callers that want the real screen construct fb by overlaying a slice on
// top of PhysAddr (see NewHardwareConsole).
func NewConsole(width, height uint32, fb []uint16) *Console {
	return &Console{width: width, height: height, fb: fb}
}

// NewHardwareConsole returns a Columns x Rows console backed directly by
// the real VGA text-mode framebuffer at PhysAddr, overlaid onto a []uint16
// with unsafe.Pointer/reflect.SliceHeader — the same overlay technique the
// teacher's VgaTextConsole.DriverInit uses over a mapped page, simplified
// here since this kernel never sets up paging and PhysAddr is already a
// valid linear address in the identity-mapped boot environment.
func NewHardwareConsole() *Console {
	fb := *(*[]uint16)(unsafe.Pointer(&reflect.SliceHeader{
		Len:  Columns * Rows,
		Cap:  Columns * Rows,
		Data: PhysAddr,
	}))
	return NewConsole(Columns, Rows, fb)
}

// Dimensions returns the console's width and height in characters.
func (c *Console) Dimensions() (uint32, uint32) {
	return c.width, c.height
}

// DefaultColors returns the default foreground and background color
// indices used when Write is given an out-of-range color.
func (c *Console) DefaultColors() (fg, bg uint8) {
	return defaultFg, defaultBg
}

// Write draws ch at the 1-based (x, y) cell using the given foreground and
// background color indices (0-15). Out-of-range coordinates are silently
// ignored; out-of-range colors fall back to the console's defaults.
func (c *Console) Write(ch byte, fg, bg uint8, x, y uint32) {
	if x < 1 || x > c.width || y < 1 || y > c.height {
		return
	}
	if fg > maxColorIndex {
		fg = defaultFg
	}
	if bg > maxColorIndex {
		bg = defaultBg
	}

	c.fb[((y-1)*c.width)+(x-1)] = (((uint16(bg) << 4) | uint16(fg)) << 8) | uint16(ch)
}

// Fill sets every cell in the 1-based rectangle starting at (x, y) to the
// clear character with the given colors.
func (c *Console) Fill(x, y, width, height uint32, fg, bg uint8) {
	clr := (((uint16(bg) << 4) | uint16(fg)) << 8) | clearChar

	for row := y; row < y+height && row <= c.height; row++ {
		for col := x; col < x+width && col <= c.width; col++ {
			if row < 1 || col < 1 {
				continue
			}
			c.fb[((row-1)*c.width)+(col-1)] = clr
		}
	}
}
