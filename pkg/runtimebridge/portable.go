package runtimebridge

import (
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
)

// PortableBridge implements the bridge contract with public primitives
// only: slots are handed out round-robin through a sync.Pool (which gives
// best-effort P-locality, since a sync.Pool's per-P private slot tends to
// return the same value to the same processor), and a test-and-set flag
// per slot upgrades best-effort locality into the exclusive ownership Pin
// promises. Random numbers come from per-goroutine seeded PCG generators
// recycled through a second sync.Pool.
//
// Pin may briefly spin when more goroutines than slots are pinned at once.
type PortableBridge struct {
	procs int
	slots []portableSlot
	ids   []int // stable identities handed through the pool
	idPool,
	rngPool sync.Pool
	nextID atomic.Int64
}

type portableSlot struct {
	held atomic.Bool
	_    [7]uint64 //nolint:unused // cache-line padding
}

// NewPortable creates a portable bridge with the given number of slots;
// procs <= 0 selects GOMAXPROCS.
func NewPortable(procs int) *PortableBridge {
	if procs <= 0 {
		procs = runtime.GOMAXPROCS(0)
	}
	b := &PortableBridge{
		procs: procs,
		slots: make([]portableSlot, procs),
		ids:   make([]int, procs),
	}
	for i := range b.ids {
		b.ids[i] = i
	}
	b.idPool.New = func() any {
		return &b.ids[int(b.nextID.Add(1)-1)%procs]
	}
	b.rngPool.New = func() any {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return b
}

// Procs returns the slot count.
func (b *PortableBridge) Procs() int { return b.procs }

// Pin checks out a slot and returns its index. The slot stays exclusively
// owned by the caller until Unpin.
func (b *PortableBridge) Pin() int {
	for {
		idp := b.idPool.Get().(*int)
		id := *idp
		if b.slots[id].held.CompareAndSwap(false, true) {
			return id
		}
		// Slot already pinned by another goroutine; put the identity
		// back and draw again.
		b.idPool.Put(idp)
		runtime.Gosched()
	}
}

// Unpin releases the slot returned by Pin.
func (b *PortableBridge) Unpin(id int) {
	if id < 0 || id >= b.procs || !b.slots[id].held.Load() {
		panic("runtimebridge: Unpin of a slot that is not pinned")
	}
	b.slots[id].held.Store(false)
	b.idPool.Put(&b.ids[id])
}

// Randn returns a uniform integer in [0, n) from a pooled per-goroutine
// generator.
func (b *PortableBridge) Randn(n uint32) uint32 {
	rng := b.rngPool.Get().(*rand.Rand)
	v := rng.Uint32N(n)
	b.rngPool.Put(rng)
	return v
}
