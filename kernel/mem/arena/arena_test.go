package arena

import "testing"

func TestAllocAlignsAndAdvances(t *testing.T) {
	Reset()
	defer Reset()

	a, err := Alloc(8, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a%8 != 0 {
		t.Fatalf("expected 8-byte alignment, got address %x", a)
	}

	b, err := Alloc(8, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b <= a {
		t.Fatalf("expected the bump pointer to advance monotonically: a=%x b=%x", a, b)
	}
	if b-a != 8 {
		t.Fatalf("expected consecutive allocations to be tightly packed: a=%x b=%x", a, b)
	}
}

func TestAllocCount(t *testing.T) {
	Reset()
	defer Reset()

	if n := AllocCount(); n != 0 {
		t.Fatalf("expected a fresh arena to report 0 allocations, got %d", n)
	}
	for i := 0; i < 3; i++ {
		if _, err := Alloc(8, 8); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if n := AllocCount(); n != 3 {
		t.Fatalf("expected 3 allocations to be recorded, got %d", n)
	}
}

func TestAllocOutOfMemory(t *testing.T) {
	Reset()
	defer Reset()

	_, err := Alloc(Size+1, 8)
	if err == nil {
		t.Fatal("expected an out-of-memory error for an allocation larger than the arena")
	}
}

func TestAllocNeverReclaims(t *testing.T) {
	Reset()
	defer Reset()

	// Allocate in a loop until the arena is exhausted; the total number of
	// successful allocations should be bounded and never regress.
	var count int
	for {
		if _, err := Alloc(1024, 8); err != nil {
			break
		}
		count++
	}
	if count == 0 {
		t.Fatal("expected at least one allocation to succeed before exhaustion")
	}
	if _, err := Alloc(1024, 8); err == nil {
		t.Fatal("expected further allocations to keep failing once the arena is exhausted")
	}
}
