package handlers

import (
	"context"
)

// Queue feeds messages to a single worker goroutine, one at a time and in
// arrival order.
type Queue[T any] struct {
	effectCh  chan T
	cancelled <-chan struct{}
	stopped   <-chan struct{}
}

// NewQueue starts the worker goroutine. Once ctx is done the worker handles
// what is already buffered and stops. The channel is never closed, so late
// senders are refused instead of panicking.
func NewQueue[T any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, T),
) Queue[T] {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	effCh := make(chan T, bufferSize)
	stopped := make(chan struct{})
	ready := make(chan struct{})

	go func(ch chan T) {
		defer close(stopped)
		close(ready)
		for {
			select {
			case msg := <-ch:
				handleFn(ctx, msg)
			case <-ctx.Done():
				for {
					select {
					case msg := <-ch:
						handleFn(ctx, msg)
					default:
						return
					}
				}
			}
		}
	}(effCh)

	<-ready

	return Queue[T]{effectCh: effCh, cancelled: ctx.Done(), stopped: stopped}
}

// Send enqueues msg. It returns false when either ctx or the queue is done first.
func (q Queue[T]) Send(ctx context.Context, msg T) bool {
	select {
	case <-q.cancelled:
		return false
	case <-ctx.Done():
		return false
	default:
	}
	select {
	case <-ctx.Done():
		return false
	case <-q.cancelled:
		return false
	case q.effectCh <- msg:
		return true
	}
}

// Done is closed once the worker has stopped.
func (q Queue[T]) Done() <-chan struct{} {
	return q.stopped
}
