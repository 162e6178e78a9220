// Package parallel runs row-independent work over contiguous index ranges.
package parallel

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/YuminosukeSato/landcover/pkg/errors"
)

// chunks splits [0, items) into at most one range per CPU core.
func chunks(items int) [][2]int {
	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}
	chunkSize := (items + numWorkers - 1) / numWorkers

	ranges := make([][2]int, 0, numWorkers)
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}

// Parallelize calls fn(start, end) for each range concurrently and waits for all of them.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	var wg sync.WaitGroup
	for _, r := range chunks(items) {
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(r[0], r[1])
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially when items <= threshold.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// ParallelizeErr is Parallelize for fallible work. The first error wins; a panic in
// fn is returned as *errors.PanicError tagged with operation. Ranges already running
// finish, so fn must write only to its own slots.
func ParallelizeErr(operation string, items int, threshold int, fn func(start, end int) error) error {
	if items <= 0 {
		return nil
	}
	if items <= threshold {
		return errors.SafeExecute(operation, func() error { return fn(0, items) })
	}

	var g errgroup.Group
	for _, r := range chunks(items) {
		s, e := r[0], r[1]
		g.Go(func() error {
			return errors.SafeExecute(operation, func() error { return fn(s, e) })
		})
	}
	return g.Wait()
}
