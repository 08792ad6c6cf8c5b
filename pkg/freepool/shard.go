package freepool

import (
	"runtime"
	"sync/atomic"
)

// spinLock is a single-word test-and-set lock. The local Get/Put path takes
// it uncontended; it only ever spins when a randomized probe from another
// goroutine lands on the same shard.
type spinLock struct {
	v atomic.Bool
}

func (l *spinLock) lock() {
	for !l.v.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

func (l *spinLock) unlock() {
	l.v.Store(false)
}

// shard is one per-processor segment of the pool: a bounded LIFO ring of
// recycled elements. The ring is a power-of-two slice indexed with a mask;
// capacity bounds occupancy independently of the ring size. All mutable
// fields are guarded by the spin lock.
type shard[T any] struct {
	guard    spinLock
	base     uint32 // index of the oldest entry
	n        uint32 // occupancy, n <= capacity
	items    []T    // len(items) is a power of two
	mask     uint32
	capacity uint32

	// Padding to keep neighboring shards off the same cache line.
	_padding [4]uint64 //nolint:unused
}

func (s *shard[T]) init(capacity int) {
	ring := uint32(1)
	for ring < uint32(capacity) {
		ring <<= 1
	}
	s.items = make([]T, ring)
	s.mask = ring - 1
	s.capacity = uint32(capacity)
}

// pop removes and returns the most recently pushed element.
func (s *shard[T]) pop() (T, bool) {
	var zero T
	s.guard.lock()
	if s.n == 0 {
		s.guard.unlock()
		return zero, false
	}
	idx := (s.base + s.n - 1) & s.mask
	v := s.items[idx]
	s.items[idx] = zero // drop the reference so the element can be collected
	s.n--
	s.guard.unlock()
	return v, true
}

// push inserts x as the newest element. On a full shard the policy decides:
// EvictOldest drops the oldest entry to admit x, DropIncoming leaves the
// shard unchanged. Returns whether x was retained and whether an older
// element was evicted.
func (s *shard[T]) push(x T, policy Policy) (retained, evicted bool) {
	var zero T
	s.guard.lock()
	if s.n == s.capacity {
		if policy == DropIncoming {
			s.guard.unlock()
			return false, false
		}
		s.items[s.base] = zero
		s.base = (s.base + 1) & s.mask
		s.n--
		evicted = true
	}
	s.items[(s.base+s.n)&s.mask] = x
	s.n++
	s.guard.unlock()
	return true, evicted
}

// len reports the shard's occupancy at a point in time.
func (s *shard[T]) len() int {
	s.guard.lock()
	n := s.n
	s.guard.unlock()
	return int(n)
}
