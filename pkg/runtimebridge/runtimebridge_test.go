package runtimebridge

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestRuntimePinRange(t *testing.T) {
	b := Runtime()
	if b.Procs() < 1 {
		t.Fatalf("Procs() = %d, want >= 1", b.Procs())
	}
	for i := 0; i < 100; i++ {
		id := b.Pin()
		if id < 0 || id >= b.Procs() {
			b.Unpin(id)
			t.Fatalf("Pin() = %d, want [0, %d)", id, b.Procs())
		}
		b.Unpin(id)
	}
}

func TestRuntimeRandnBounds(t *testing.T) {
	b := Runtime()
	for _, n := range []uint32{1, 2, 7, 32} {
		for i := 0; i < 1000; i++ {
			if v := b.Randn(n); v >= n {
				t.Fatalf("Randn(%d) = %d", n, v)
			}
		}
	}
}

func TestRuntimeRandnConcurrent(t *testing.T) {
	b := Runtime()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10000; i++ {
				if v := b.Randn(16); v >= 16 {
					t.Errorf("Randn(16) = %d", v)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestPortablePinRange(t *testing.T) {
	b := NewPortable(4)
	if b.Procs() != 4 {
		t.Fatalf("Procs() = %d, want 4", b.Procs())
	}
	for i := 0; i < 100; i++ {
		id := b.Pin()
		if id < 0 || id >= 4 {
			t.Fatalf("Pin() = %d, want [0, 4)", id)
		}
		b.Unpin(id)
	}
}

// Pinned slots must be exclusively owned: a per-slot counter incremented
// after Pin and decremented before Unpin may never exceed one.
func TestPortablePinExclusive(t *testing.T) {
	const slots = 4
	b := NewPortable(slots)

	var owners [slots]atomic.Int32
	var violations atomic.Int64

	var wg sync.WaitGroup
	for g := 0; g < 4*slots; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 5000; i++ {
				id := b.Pin()
				if owners[id].Add(1) != 1 {
					violations.Add(1)
				}
				owners[id].Add(-1)
				b.Unpin(id)
			}
		}()
	}
	wg.Wait()

	if n := violations.Load(); n != 0 {
		t.Fatalf("%d pins shared a slot concurrently", n)
	}
}

func TestPortableUnpinUnpinnedPanics(t *testing.T) {
	b := NewPortable(2)
	defer func() {
		if recover() == nil {
			t.Fatal("Unpin of an unpinned slot should panic")
		}
	}()
	b.Unpin(0)
}

func TestPortableRandnBounds(t *testing.T) {
	b := NewPortable(2)
	for _, n := range []uint32{1, 3, 64} {
		for i := 0; i < 1000; i++ {
			if v := b.Randn(n); v >= n {
				t.Fatalf("Randn(%d) = %d", n, v)
			}
		}
	}
}
