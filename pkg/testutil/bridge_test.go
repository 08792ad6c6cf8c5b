package testutil

import "testing"

func TestBridgeSequentialPins(t *testing.T) {
	b := NewBridge(3, 1)
	want := []int{0, 1, 2, 0, 1, 2}
	for i, w := range want {
		id := b.Pin()
		if id != w {
			t.Fatalf("pin %d = %d, want %d", i, id, w)
		}
		b.Unpin(id)
	}
}

func TestBridgePinTo(t *testing.T) {
	b := NewBridge(4, 1)
	b.PinTo(2)
	for i := 0; i < 5; i++ {
		id := b.Pin()
		if id != 2 {
			t.Fatalf("Pin() = %d after PinTo(2)", id)
		}
		b.Unpin(id)
	}
}

func TestBridgeRandnReproducible(t *testing.T) {
	a := NewBridge(1, 42)
	b := NewBridge(1, 42)
	for i := 0; i < 100; i++ {
		va, vb := a.Randn(1000), b.Randn(1000)
		if va != vb {
			t.Fatalf("draw %d: %d != %d for identical seeds", i, va, vb)
		}
		if va >= 1000 {
			t.Fatalf("Randn(1000) = %d", va)
		}
	}
}

func TestBridgeUnpinUnpinnedPanics(t *testing.T) {
	b := NewBridge(2, 1)
	defer func() {
		if recover() == nil {
			t.Fatal("Unpin of an unpinned slot should panic")
		}
	}()
	b.Unpin(1)
}
