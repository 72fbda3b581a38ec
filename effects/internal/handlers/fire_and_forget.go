package handlers

import (
	"context"
)

func NewFireAndForgetHandler[P any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P),
	teardown func(),
) FireAndForgetHandler[P] {
	ctx, cancelFn := context.WithCancel(ctx)
	queue := NewQueue(
		ctx,
		bufferSize,
		func(ctx context.Context, msg fireAndForgetEffectMessage[P]) {
			handleFn(ctx, msg.payload)
		},
	)
	return FireAndForgetHandler[P]{
		effectScope: newEffectScope(queue, func() {
			cancelFn()
			<-queue.Done()
			teardown()
		}),
	}
}

type FireAndForgetHandler[P any] struct {
	*effectScope[fireAndForgetEffectMessage[P]]
}

// FireAndForgetEffect enqueues payload. It reports whether the payload was accepted.
func (ffh FireAndForgetHandler[P]) FireAndForgetEffect(ctx context.Context, payload P) bool {
	return ffh.queue.Send(ctx, fireAndForgetEffectMessage[P]{
		payload: payload,
	})
}

type fireAndForgetEffectMessage[P any] struct {
	payload P
}
