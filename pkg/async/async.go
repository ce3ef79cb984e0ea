package async

import (
	"context"
	"sync"
)

// Future is the eventual result of a function started with Async.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

// Await blocks until the function returns.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext blocks until the function returns or ctx is done.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// IsComplete reports without blocking whether the function has returned.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async runs fn(ctx, param) in its own goroutine.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		// Skip the work entirely when ctx is already canceled.
		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		res, err := fn(ctx, param)
		f.once.Do(func() {
			f.result = res
			f.err = err
		})
	}()

	return f
}

// WaitAllContext awaits every future in order. It stops at the first
// error, or when ctx is done.
func WaitAllContext[U any](ctx context.Context, futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.AwaitContext(ctx)
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
