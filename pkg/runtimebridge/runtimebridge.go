// Package runtimebridge exposes the two host-runtime capabilities the
// randomized free pool depends on: pinning the calling goroutine to a
// logical processor and fast, non-cryptographic random numbers.
//
// Runtime() links directly to the Go scheduler's internals and is what
// production pools should use. NewPortable builds the same contract out of
// public primitives only, for environments where the linked symbols are
// unavailable or unwanted.
package runtimebridge

import (
	"runtime"
	_ "unsafe" // for go:linkname
)

// The runtime does not export processor pinning or its per-M random
// generator, so we link to them directly. bridge_runtime.s (empty) forces
// the compiler to honor the directives. procPin, procUnpin and fastrandn
// are all on the runtime's linkname compatibility list, so these symbols
// are stable across releases. If a future toolchain removes them, the
// build fails at link time: an unsupported-platform configuration error,
// not a per-call condition.

//go:linkname runtime_procPin runtime.procPin
//go:nosplit
func runtime_procPin() int

//go:linkname runtime_procUnpin runtime.procUnpin
//go:nosplit
func runtime_procUnpin()

//go:linkname runtime_fastrandn runtime.fastrandn
func runtime_fastrandn(n uint32) uint32

// RuntimeBridge is the scheduler-backed bridge. Pin disables preemption-
// driven migration (not preemption itself) until Unpin, and the returned
// index identifies the processor exclusively for that window. Randn draws
// from the runtime's per-processor generator, so concurrent callers never
// contend.
type RuntimeBridge struct {
	procs int
}

var runtimeBridge = &RuntimeBridge{procs: runtime.GOMAXPROCS(0)}

// Runtime returns the shared scheduler-backed bridge. The processor count
// is captured once, at package initialization; pools built on it must be
// constructed before GOMAXPROCS is raised.
func Runtime() *RuntimeBridge {
	return runtimeBridge
}

// Procs returns the captured GOMAXPROCS value.
func (b *RuntimeBridge) Procs() int { return b.procs }

// Pin pins the calling goroutine to its processor and returns the
// processor index in [0, GOMAXPROCS).
func (b *RuntimeBridge) Pin() int { return runtime_procPin() }

// Unpin releases the pin. The index argument is unused; the scheduler
// tracks the pin itself.
func (b *RuntimeBridge) Unpin(int) { runtime_procUnpin() }

// Randn returns a uniform integer in [0, n) from the runtime's fast
// generator.
func (b *RuntimeBridge) Randn(n uint32) uint32 { return runtime_fastrandn(n) }
