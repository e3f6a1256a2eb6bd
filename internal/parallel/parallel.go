// Package parallel provides fork-join execution utilities for the Lattice
// numeric kernels.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultGrain is the default number of iteration units one worker should
// own before splitting work across goroutines. Kernels divide it by their
// inner-loop length to keep per-worker work balanced.
const DefaultGrain = 32768

// Config controls parallel execution behavior.
type Config struct {
	Enabled    bool // Whether parallel execution is enabled.
	NumWorkers int  // Number of worker goroutines to use.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
	}
}

// ForGrain executes f over disjoint contiguous ranges covering [0, n).
// Each range holds at least grain items; ranges never overlap, so f may
// freely mutate per-range state. Runs sequentially when parallelism is
// disabled or a single grain covers the whole domain.
//
// A panic raised inside any worker is re-raised on the calling goroutine
// after all workers have finished, so callers observe kernel input errors
// the same way regardless of chunking.
func ForGrain(n, grain int, f func(start, end int), cfg Config) {
	if grain < 1 {
		grain = 1
	}
	if n <= 0 {
		return
	}
	if !cfg.Enabled || n <= grain {
		f(0, n)
		return
	}

	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, grain)

	var wg sync.WaitGroup
	var panicOnce sync.Once
	var panicValue any

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					panicOnce.Do(func() { panicValue = r })
				}
			}()
			f(s, e)
		}(start, end)
	}
	wg.Wait()

	if panicValue != nil {
		panic(panicValue)
	}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Convenience wrapper over ForGrain for element-wise work.
func For(n int, f func(i int), cfg Config) {
	ForGrain(n, 64, func(start, end int) {
		for i := start; i < end; i++ {
			f(i)
		}
	}, cfg)
}
