// Package parallel provides row-chunked parallel execution for CPU
// image operations.
//
// Parallelism here is an optimization, never a correctness requirement:
// every entry point degrades to a plain sequential loop when disabled or
// when the work is too small to amortize goroutine overhead. Callers
// must never depend on worker startup succeeding.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	// Enabled turns goroutine fan-out on. When false every helper runs
	// sequentially on the calling goroutine.
	Enabled bool

	// NumWorkers is the number of goroutines to fan out across.
	NumWorkers int

	// MinRows is the minimum number of rows before fan-out is worth it.
	MinRows int
}

// DefaultConfig returns a configuration based on the CPU count.
func DefaultConfig() Config {
	n := runtime.GOMAXPROCS(0)
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
		MinRows:    16,
	}
}

var (
	configMu sync.RWMutex
	config   = DefaultConfig()
)

// SetConfig replaces the process-wide configuration. Zero or negative
// NumWorkers selects GOMAXPROCS.
func SetConfig(cfg Config) {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = runtime.GOMAXPROCS(0)
	}
	configMu.Lock()
	config = cfg
	configMu.Unlock()
}

// CurrentConfig returns the process-wide configuration.
func CurrentConfig() Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return config
}

// Rows executes f(y) for every y in [0, height), splitting rows into
// contiguous chunks across workers. Rows returns only after every row
// has been processed. f must not touch rows outside its argument;
// distinct rows must be independent.
func Rows(height int, f func(y int)) {
	cfg := CurrentConfig()
	if !cfg.Enabled || height < cfg.MinRows {
		for y := 0; y < height; y++ {
			f(y)
		}
		return
	}

	chunk := (height + cfg.NumWorkers - 1) / cfg.NumWorkers
	if chunk < 1 {
		chunk = 1
	}

	var wg sync.WaitGroup
	for start := 0; start < height; start += chunk {
		end := start + chunk
		if end > height {
			end = height
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for y := s; y < e; y++ {
				f(y)
			}
		}(start, end)
	}
	wg.Wait()
}
