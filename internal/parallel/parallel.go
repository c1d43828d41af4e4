// Package parallel provides the parallel-for used to run pooling kernels over
// their coordinate space.
package parallel

import (
	"fmt"
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64, // Typical cache line aware chunk.
	}
}

// Validate reports settings that cannot be used for scheduling.
func (c Config) Validate() error {
	if c.NumWorkers < 0 {
		return fmt.Errorf("parallel: num_workers must be >= 0, got %d", c.NumWorkers)
	}
	if c.MinChunkSize < 0 {
		return fmt.Errorf("parallel: min_chunk_size must be >= 0, got %d", c.MinChunkSize)
	}
	return nil
}

// withDefaults fills zero-valued fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.NumWorkers <= 0 {
		c.NumWorkers = def.NumWorkers
	}
	if c.MinChunkSize <= 0 {
		c.MinChunkSize = 1
	}
	return c
}

// ForRange splits [0, n) into contiguous chunks and calls f(start, end) for
// each one, concurrently when cfg allows it. Every index is covered exactly
// once. ForRange returns after all chunks have finished. It runs f(0, n) on
// the calling goroutine when parallelism is disabled or n is too small.
func ForRange(n int, f func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	cfg = cfg.withDefaults()
	if !cfg.Enabled || cfg.NumWorkers == 1 || n < cfg.MinChunkSize {
		// Sequential fallback.
		f(0, n)
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}
