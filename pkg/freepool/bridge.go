package freepool

// Bridge exposes the host-runtime scheduling capabilities the pool needs:
// processor pinning and a cheap per-context random source. The pool takes it
// as an injected capability so tests can substitute a deterministic
// implementation; production code uses runtimebridge.Runtime().
//
// Implementations must guarantee that between Pin and the matching Unpin the
// calling goroutine cannot migrate to a different slot, and that Randn is safe
// to call concurrently from many goroutines, each observing an independent
// stream.
type Bridge interface {
	// Procs returns the number of logical processor slots, fixed for the
	// bridge's lifetime. Pin always returns an index below this value.
	Procs() int

	// Pin binds the calling goroutine to a processor slot and returns its
	// index. Every successful Pin must be paired with exactly one Unpin,
	// on every exit path.
	Pin() int

	// Unpin releases the pin returned by Pin.
	Unpin(id int)

	// Randn returns a uniformly distributed integer in [0, n). It is not
	// cryptographically secure; it exists only to spread load.
	Randn(n uint32) uint32
}
