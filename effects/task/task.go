package task

import (
	"context"
	"fmt"

	"github.com/on-the-ground/effect_ive_store/effects"
	"github.com/on-the-ground/effect_ive_store/effects/internal/handlers"
)

// Func is an asynchronous operation that returns a value of type R.
type Func[R any] func(context.Context) (R, error)

// PanicError carries the value a Func panicked with.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Run starts fn in its own goroutine and returns the channel its result is
// delivered on. The channel yields exactly one result and is then closed.
// If ctx ends before fn returns the result carries ctx.Err() and fn's result
// is dropped. A result that is already available wins over ctx.
func Run[R any](ctx context.Context, fn Func[R]) <-chan effects.ResumableResult[R] {
	out := make(chan effects.ResumableResult[R], 1)
	done := make(chan effects.ResumableResult[R], 1)
	ready := make(chan struct{})

	go func() {
		close(ready)
		done <- handlers.ResumableResultFrom(call(ctx, fn))
	}()
	<-ready

	go func() {
		defer close(out)
		select {
		case res := <-done:
			out <- res
		case <-ctx.Done():
			select {
			case res := <-done:
				out <- res
			default:
				out <- effects.ResumableResult[R]{Err: ctx.Err()}
			}
		}
	}()

	return out
}

// Await blocks until fn finishes or ctx ends.
func Await[R any](ctx context.Context, fn Func[R]) (R, error) {
	res := <-Run(ctx, fn)
	return res.Value, res.Err
}

// call runs fn, recovering a panic into a *PanicError.
func call[R any](ctx context.Context, fn Func[R]) (res R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return fn(ctx)
}
