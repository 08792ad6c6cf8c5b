//go:build race

package freepool

import (
	"runtime"
	"unsafe"
)

// Under the race detector, Put(x) must "synchronize before" the Get that
// returns x, exactly as sync.Pool promises. The shard guard's atomics
// already order the accesses; these annotations make the element handoff
// itself visible to the detector. Semantics are identical to the non-race
// build.

func raceAcquire[T any](x T) {
	runtime.RaceAcquire(poolRaceAddr(x))
}

func raceReleaseMerge[T any](x T) {
	runtime.RaceReleaseMerge(poolRaceAddr(x))
}

var poolRaceHash [128]uint64

// poolRaceAddr hashes the element to one of a small set of static addresses
// used as race-detector synchronization points. Annotating the element's own
// address could conflict with the caller's synchronization on it.
func poolRaceAddr[T any](x T) unsafe.Pointer {
	var i any = x
	ptr := uintptr((*[2]unsafe.Pointer)(unsafe.Pointer(&i))[1])
	h := uint32((uint64(uint32(ptr)) * 0x85ebca6b) >> 16)
	return unsafe.Pointer(&poolRaceHash[h%uint32(len(poolRaceHash))])
}
