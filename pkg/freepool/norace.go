//go:build !race

package freepool

// Race-detector bookkeeping compiles to nothing outside race builds, so the
// optimized and instrumented variants share one algorithm.

func raceAcquire[T any](x T)      {}
func raceReleaseMerge[T any](x T) {}
