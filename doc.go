// Package freepool is a randomized free pool library and its generation
// pipeline: a concurrent, per-processor sharded cache for recycling
// short-lived objects, plus a tool that expands the same algorithm into
// self-contained, type-specialized source files.
//
// # The pool
//
// pkg/freepool holds the generic algorithm. A Pool[T] keeps one bounded
// LIFO shard per logical processor; Get and Put pin the calling goroutine
// to its processor, so the common path is contention-free, and an empty
// local shard falls back to a bounded number of randomized probes into
// other shards. The pool is a best-effort cache: Get may signal "empty"
// (callers allocate fresh) and Put may drop objects once a shard is full.
//
// The scheduler capabilities the pool needs - processor pinning and fast
// per-context random numbers - come from an injected bridge
// (pkg/runtimebridge), with a deterministic fake in pkg/testutil for
// tests.
//
// # The generator
//
// cmd/poolgen and pkg/gen expand one pool template into four files per
// instantiation: an optimized variant, a race-instrumented variant with
// identical semantics, and two fixed files that wire the generated code to
// the runtime's pinning primitives. Generated sources are dependency-free,
// for callers who vendor pool code into foreign packages; within this
// module the generic Pool[T] is the first choice.
//
// # Key packages
//
//	pkg/freepool      - generic randomized free pool
//	pkg/runtimebridge - scheduler-backed and portable bridges
//	pkg/gen           - template expansion and artifact rendering
//	cmd/poolgen       - generation CLI
//	pkg/metrics       - Prometheus collector for pool statistics
package freepool
