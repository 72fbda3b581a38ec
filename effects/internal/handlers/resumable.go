package handlers

import (
	"context"
	"errors"
)

// ErrScopeClosed is returned for effects performed after their handler was closed.
var ErrScopeClosed = errors.New("effect scope closed")

func NewResumableHandler[P any, R any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P) (R, error),
	teardown func(),
) ResumableHandler[P, R] {
	ctx, cancelFn := context.WithCancel(ctx)
	queue := NewQueue(
		ctx,
		bufferSize,
		func(ctx context.Context, msg ResumableEffectMessage[P, R]) {
			// buffered, never blocks
			msg.ResumeCh <- ResumableResultFrom(handleFn(ctx, msg.Payload))
			close(msg.ResumeCh)
		},
	)
	return ResumableHandler[P, R]{
		effectScope: newEffectScope(queue, func() {
			cancelFn()
			<-queue.Done()
			teardown()
		}),
	}
}

type ResumableHandler[P any, R any] struct {
	*effectScope[ResumableEffectMessage[P, R]]
}

// PerformEffect enqueues payload and returns the channel its result is resumed on.
// When the payload cannot be enqueued the channel already holds the reason.
func (rh ResumableHandler[P, R]) PerformEffect(ctx context.Context, payload P) <-chan ResumableResult[R] {
	resumeCh := make(chan ResumableResult[R], 1)

	msg := ResumableEffectMessage[P, R]{
		Payload:  payload,
		ResumeCh: resumeCh,
	}
	if !rh.queue.Send(ctx, msg) {
		err := ctx.Err()
		if err == nil {
			err = ErrScopeClosed
		}
		resumeCh <- ResumableResult[R]{Err: err}
		close(resumeCh)
	}
	return resumeCh
}

// Await waits for a result from PerformEffect, giving up when ctx or the
// handler is done. A result that is already available always wins.
func (rh ResumableHandler[P, R]) Await(ctx context.Context, resultCh <-chan ResumableResult[R]) ResumableResult[R] {
	select {
	case res, ok := <-resultCh:
		if ok {
			return res
		}
		return ResumableResult[R]{Err: ErrScopeClosed}
	case <-ctx.Done():
		return ResumableResult[R]{Err: ctx.Err()}
	case <-rh.Done():
		select {
		case res, ok := <-resultCh:
			if ok {
				return res
			}
		default:
		}
		return ResumableResult[R]{Err: ErrScopeClosed}
	}
}

// ResumableResult represents the result of handled effects.
type ResumableResult[T any] struct {
	Value T
	Err   error
}

func ResumableResultFrom[R any](res R, err error) ResumableResult[R] {
	return ResumableResult[R]{Value: res, Err: err}
}

type ResumableEffectMessage[P any, R any] struct {
	Payload  P
	ResumeCh chan ResumableResult[R]
}
