package kmain

import (
	"primoria/kernel/driver/vga"
	"testing"
)

// TestPaintersShareOneConsole exercises the same shared-buffer contract
// kmain.Main relies on (spec.md §8 scenario 3), against an injected test
// buffer instead of the real 0xB8000 console so it runs without hardware.
func TestPaintersShareOneConsole(t *testing.T) {
	fb := make([]uint16, vga.Columns*vga.Rows)
	c := vga.NewConsole(vga.Columns, vga.Rows, fb)

	c.Write('A', 7, 0, 1, 1)
	c.Write('B', 7, 0, 2, 1)
	c.Write('.', 7, 0, 3, 1)

	for i, want := range []byte{'A', 'B', '.'} {
		if got := byte(fb[i]); got != want {
			t.Errorf("cell %d = %q, want %q", i, got, want)
		}
	}
}
