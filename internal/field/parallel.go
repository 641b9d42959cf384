package field

import (
	"runtime"
	"sync"
)

// minRowsPerWorker keeps tiny grids on a single goroutine.
const minRowsPerWorker = 4

// ComputeParallel is Compute with rows split across workers goroutines.
// Each pixel is written by exactly one goroutine, so the result is identical
// to Compute. workers <= 0 uses runtime.NumCPU.
func ComputeParallel(out []float64, p Params, workers int) error {
	if err := p.validate(out); err != nil {
		return err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ParallelFor(p.Height, minRowsPerWorker, workers, func(start, end int) {
		computeRows(out, p, start, end)
	})
	return nil
}

// ParallelFor executes fn over contiguous chunks of [0, n).
func ParallelFor(n, minChunk, numWorkers int, fn func(start, end int)) {
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
