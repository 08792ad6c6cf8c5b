package testutil

import (
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
)

// Bridge is a deterministic stand-in for the runtime-backed bridge. Pins
// are assigned sequentially (goroutine k's i-th pin lands on a predictable
// slot) or, after PinTo, always to one fixed slot; random numbers come from
// a single seeded PCG stream. Identical test runs observe identical slot
// and random sequences.
//
// Slot exclusivity is still enforced, so the bridge is safe to hand to
// concurrent tests; only single-goroutine tests get full determinism.
type Bridge struct {
	procs int
	fixed atomic.Int64 // fixed slot, or -1 for sequential assignment
	next  atomic.Uint64
	held  []atomic.Bool

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBridge creates a deterministic bridge with the given slot count and
// random seed. procs <= 0 selects GOMAXPROCS.
func NewBridge(procs int, seed uint64) *Bridge {
	if procs <= 0 {
		procs = runtime.GOMAXPROCS(0)
	}
	b := &Bridge{
		procs: procs,
		held:  make([]atomic.Bool, procs),
		rng:   rand.New(rand.NewPCG(seed, seed)),
	}
	b.fixed.Store(-1)
	return b
}

// PinTo makes every subsequent Pin return the given slot. Useful for
// single-shard scenarios such as LIFO and eviction tests.
func (b *Bridge) PinTo(index int) {
	if index < 0 || index >= b.procs {
		panic("testutil: PinTo index out of range")
	}
	b.fixed.Store(int64(index))
}

// Procs returns the slot count.
func (b *Bridge) Procs() int { return b.procs }

// Pin returns the next slot in the deterministic sequence, spinning if that
// slot is currently pinned by another goroutine.
func (b *Bridge) Pin() int {
	for {
		var id int
		if fixed := b.fixed.Load(); fixed >= 0 {
			id = int(fixed)
		} else {
			id = int(b.next.Add(1)-1) % b.procs
		}
		if b.held[id].CompareAndSwap(false, true) {
			return id
		}
		runtime.Gosched()
	}
}

// Unpin releases the slot returned by Pin.
func (b *Bridge) Unpin(id int) {
	if id < 0 || id >= b.procs || !b.held[id].Load() {
		panic("testutil: Unpin of a slot that is not pinned")
	}
	b.held[id].Store(false)
}

// Randn returns the next value of the seeded stream, reduced to [0, n).
func (b *Bridge) Randn(n uint32) uint32 {
	b.mu.Lock()
	v := b.rng.Uint32N(n)
	b.mu.Unlock()
	return v
}
