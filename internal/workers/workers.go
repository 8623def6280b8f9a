// Package workers fans independent per-index work out over a bounded number
// of goroutines.
package workers

import (
	"fmt"
	"runtime"
	"sync"
)

// Count resolves a requested worker count: non-positive selects GOMAXPROCS,
// and the result never exceeds n.
func Count(requested, n int) int {
	w := requested
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

// ForEach calls fn(i) for every i in [0, n) using up to workers goroutines.
// fn must only write state owned by index i. The first error by index order
// is returned after all calls finish; a panic in fn is converted to an error.
func ForEach(n, workers int, fn func(i int) error) error {
	return first(Errors(n, workers, fn))
}

// Errors is ForEach reporting the error of every index. The result has one
// entry per index, nil where fn succeeded.
func Errors(n, workers int, fn func(i int) error) []error {
	if n <= 0 {
		return nil
	}

	errs := make([]error, n)
	w := Count(workers, n)

	if w == 1 {
		for i := 0; i < n; i++ {
			errs[i] = call(fn, i)
		}
		return errs
	}

	next := make(chan int)
	var wg sync.WaitGroup
	wg.Add(w)
	for k := 0; k < w; k++ {
		go func() {
			defer wg.Done()
			for i := range next {
				errs[i] = call(fn, i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		next <- i
	}
	close(next)
	wg.Wait()

	return errs
}

// Map is ForEach collecting one result per index.
func Map[T any](n, workers int, fn func(i int) (T, error)) ([]T, error) {
	out := make([]T, max(n, 0))
	err := ForEach(n, workers, func(i int) error {
		v, err := fn(i)
		out[i] = v
		return err
	})
	return out, err
}

func call(fn func(int) error, i int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("workers: index %d panicked: %v", i, r)
		}
	}()
	return fn(i)
}

func first(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
