// Package freepool provides a randomized free pool: a concurrent, sharded
// cache of recycled objects that reduces allocation and GC pressure in
// high-throughput code. The pool keeps one bounded LIFO shard per logical
// processor; a goroutine pins itself to a processor for the duration of each
// Get/Put, so the common path touches only its own shard and runs without
// cross-goroutine contention. When the local shard is empty, Get falls back
// to a small number of randomized probes into other shards, which spreads
// load statistically without the hot-spotting a fixed neighbor search would
// cause.
//
// The pool is a best-effort cache, not an allocator: Get may report that no
// recycled instance is available (callers then allocate fresh), and Put may
// silently drop an object when its shard is full. Objects never handed back
// are reclaimed by ordinary garbage collection.
//
// Example usage:
//
//	pool := freepool.New(freepool.Config[*Buffer]{
//	    New: func() *Buffer { return &Buffer{} },
//	})
//
//	buf := pool.GetOrNew()
//	// ... use buf ...
//	buf.Reset()
//	pool.Put(buf)
package freepool

import (
	"fmt"
	"sync/atomic"

	"github.com/ajitpratap0/freepool/pkg/runtimebridge"
)

// Tunable defaults. Both are construction-time knobs, not contracts; see
// Config.
const (
	// DefaultShardCapacity bounds how many elements one shard retains.
	// Kept small to bound memory held in idle pools.
	DefaultShardCapacity = 32

	// DefaultProbes is how many randomized shards Get inspects after
	// finding its local shard empty.
	DefaultProbes = 4
)

// Policy selects what Put does when the local shard is full.
type Policy int

const (
	// EvictOldest drops the shard's oldest entry to admit the incoming
	// object, favoring recency. This is the default.
	EvictOldest Policy = iota
	// DropIncoming leaves the shard unchanged and discards the incoming
	// object.
	DropIncoming
)

// Config carries the construction-time knobs for a Pool. The zero value of
// every field selects a sensible default.
type Config[T any] struct {
	// ShardCapacity bounds each shard's occupancy. Defaults to
	// DefaultShardCapacity.
	ShardCapacity int
	// Probes is the number of randomized fallback probes Get performs
	// when the local shard is empty. Defaults to DefaultProbes.
	Probes int
	// Policy is the full-shard Put policy. Defaults to EvictOldest.
	Policy Policy
	// Bridge supplies processor pinning and fast random numbers.
	// Defaults to runtimebridge.Runtime().
	Bridge Bridge
	// New, if set, is invoked by GetOrNew when the pool has no recycled
	// instance.
	New func() T
}

// Stats is a point-in-time snapshot of a pool's counters.
type Stats struct {
	Gets      uint64 // total Get calls
	LocalHits uint64 // Gets satisfied from the caller's own shard
	Steals    uint64 // Gets satisfied by a randomized probe
	Empties   uint64 // Gets that found no recycled instance
	Puts      uint64 // total Put calls
	Drops     uint64 // Puts discarded under DropIncoming
	Evictions uint64 // oldest entries evicted under EvictOldest
}

// Pool is a randomized free pool of T. It is safe for concurrent use. The
// shard array is sized to Bridge.Procs() at construction and never resized.
type Pool[T any] struct {
	shards []shard[T]
	bridge Bridge
	probes int
	policy Policy
	newFn  func() T

	stats struct {
		gets      atomic.Uint64
		localHits atomic.Uint64
		steals    atomic.Uint64
		empties   atomic.Uint64
		puts      atomic.Uint64
		drops     atomic.Uint64
		evictions atomic.Uint64
	}
}

// New creates a pool from cfg, applying defaults for zero-valued fields.
func New[T any](cfg Config[T]) *Pool[T] {
	if cfg.Bridge == nil {
		cfg.Bridge = runtimebridge.Runtime()
	}
	if cfg.ShardCapacity <= 0 {
		cfg.ShardCapacity = DefaultShardCapacity
	}
	if cfg.Probes <= 0 {
		cfg.Probes = DefaultProbes
	}

	p := &Pool[T]{
		shards: make([]shard[T], cfg.Bridge.Procs()),
		bridge: cfg.Bridge,
		probes: cfg.Probes,
		policy: cfg.Policy,
		newFn:  cfg.New,
	}
	for i := range p.shards {
		p.shards[i].init(cfg.ShardCapacity)
	}
	return p
}

// Get returns a recycled element, or (zero, false) when neither the local
// shard nor any of the randomized probes holds one. An empty pool is a
// normal outcome, not an error; callers fall back to fresh allocation.
//
// Within one shard elements come back in LIFO order, which keeps recently
// used (cache-warm) objects circulating.
func (p *Pool[T]) Get() (T, bool) {
	p.stats.gets.Add(1)

	pid := p.bridge.Pin()
	if pid >= len(p.shards) {
		p.bridge.Unpin(pid)
		panic(fmt.Sprintf("freepool: pin index %d out of range for %d shards; bridge changed after construction", pid, len(p.shards)))
	}

	if v, ok := p.shards[pid].pop(); ok {
		p.bridge.Unpin(pid)
		p.stats.localHits.Add(1)
		raceAcquire(v)
		return v, true
	}

	// Local shard empty: bounded randomized probes into other shards. A
	// probe races with that shard's owner, which is why every shard
	// access goes through the spin guard.
	n := uint32(len(p.shards))
	for i := 0; i < p.probes; i++ {
		if v, ok := p.shards[p.bridge.Randn(n)].pop(); ok {
			p.bridge.Unpin(pid)
			p.stats.steals.Add(1)
			raceAcquire(v)
			return v, true
		}
	}

	p.bridge.Unpin(pid)
	p.stats.empties.Add(1)
	var zero T
	return zero, false
}

// GetOrNew returns a recycled element, falling back to the configured New
// function. If no New function was configured it returns the zero value of T
// on an empty pool.
func (p *Pool[T]) GetOrNew() T {
	if v, ok := p.Get(); ok {
		return v
	}
	if p.newFn != nil {
		return p.newFn()
	}
	var zero T
	return zero
}

// Put hands x back to the pool. It never blocks and never fails observably:
// when the local shard is full the configured Policy either evicts the
// shard's oldest entry or drops x, and a dropped object is simply not
// retained. The caller must not use x after Put.
func (p *Pool[T]) Put(x T) {
	p.stats.puts.Add(1)
	raceReleaseMerge(x)

	pid := p.bridge.Pin()
	if pid >= len(p.shards) {
		p.bridge.Unpin(pid)
		panic(fmt.Sprintf("freepool: pin index %d out of range for %d shards; bridge changed after construction", pid, len(p.shards)))
	}
	retained, evicted := p.shards[pid].push(x, p.policy)
	p.bridge.Unpin(pid)

	if evicted {
		p.stats.evictions.Add(1)
	}
	if !retained {
		p.stats.drops.Add(1)
	}
}

// ApproxLen reports the total number of retained elements. Each shard is
// read under its guard, but shards are visited one at a time, so the sum is
// exact only when the pool is quiescent.
func (p *Pool[T]) ApproxLen() int {
	total := 0
	for i := range p.shards {
		total += p.shards[i].len()
	}
	return total
}

// Shards returns the pool's shard count, fixed at construction.
func (p *Pool[T]) Shards() int {
	return len(p.shards)
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Gets:      p.stats.gets.Load(),
		LocalHits: p.stats.localHits.Load(),
		Steals:    p.stats.steals.Load(),
		Empties:   p.stats.empties.Load(),
		Puts:      p.stats.puts.Load(),
		Drops:     p.stats.drops.Load(),
		Evictions: p.stats.evictions.Load(),
	}
}
