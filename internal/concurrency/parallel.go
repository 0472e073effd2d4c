package concurrency

import (
	"context"
	"sync"
)

const defaultWorkers = 4

// Options bounds the number of items processed at once.
type Options struct {
	MaxWorkers int
}

func DefaultOptions() Options {
	return Options{MaxWorkers: defaultWorkers}
}

// ForEach runs itemFunc for every item with at most MaxWorkers in flight and
// returns the errors it produced, in no particular order. Items not started
// when ctx is done are skipped and ctx.Err() is reported once.
func ForEach[T any](
	ctx context.Context,
	items []T,
	opts Options,
	itemFunc func(ctx context.Context, index int, item T) error,
) []error {
	if len(items) == 0 {
		return nil
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan int, len(items))
	for i := range items {
		jobs <- i
	}
	close(jobs)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		errs     []error
		canceled bool
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					mu.Lock()
					canceled = true
					mu.Unlock()
					return
				}
				if err := itemFunc(ctx, i, items[i]); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if canceled {
		errs = append(errs, ctx.Err())
	}
	return errs
}
