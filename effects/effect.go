package effects

import (
	"context"

	"github.com/on-the-ground/effect_ive_store/effects/internal/handlers"
	"github.com/on-the-ground/effect_ive_store/effects/internal/helper"
	effectmodel "github.com/on-the-ground/effect_ive_store/effects/internal/model"
	"go.uber.org/zap"
)

// EffectEnum identifies an effect handler registered in a context.
type EffectEnum = effectmodel.EffectEnum

// ErrNoEffectHandler is the panic value raised when an effect is performed without a handler.
var ErrNoEffectHandler = effectmodel.ErrNoEffectHandler

// ErrScopeClosed is reported for effects performed after their handler was closed.
var ErrScopeClosed = handlers.ErrScopeClosed

// ResumableResult is the value a resumable handler resumes its caller with.
type ResumableResult[R any] = handlers.ResumableResult[R]

// ResumableHandler is a resumable handler that processes payloads one at a time.
type ResumableHandler[P, R any] = handlers.ResumableHandler[P, R]

// NewSerialHandler creates a resumable handler that is owned by the caller
// instead of being registered in a context. Payloads are handled strictly one
// after another, in the order they were accepted.
func NewSerialHandler[P, R any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P) (R, error),
	teardown ...func(),
) ResumableHandler[P, R] {
	handler := handlers.NewResumableHandler(ctx, bufferSize, handleFn, normalizeTeardown(teardown))
	zap.L().Debug("created serial effect handler", zap.String("effectId", handler.EffectId))
	return handler
}

// WithResumableEffectHandler registers a resumable effect handler for a given effect enum.
//
// Usage:
//
//	ctx, end := WithResumableEffectHandler(ctx, 1, MyEffectEnum, handleFn)
//	defer end()
func WithResumableEffectHandler[P any, R any](
	ctx context.Context,
	bufferSize int,
	enum EffectEnum,
	handleFn func(context.Context, P) (R, error),
	teardown ...func(),
) (context.Context, func() context.Context) {
	td := normalizeTeardown(teardown)
	handler := handlers.NewResumableHandler(ctx, bufferSize, handleFn, td)
	ctxWith := context.WithValue(ctx, enum, handler)
	zap.L().Debug("created resumable effect handler",
		zap.String("effectId", handler.EffectId), zap.Any("enum", enum))

	return ctxWith, func() context.Context {
		handler.Close()
		zap.L().Debug("closed resumable effect handler",
			zap.String("effectId", handler.EffectId), zap.Any("enum", enum))
		return ctx
	}
}

// PerformResumableEffect sends a payload to the resumable effect handler and waits for the result.
//
// Panics if no handler is registered for the given effect enum.
func PerformResumableEffect[P any, R any](
	ctx context.Context,
	enum EffectEnum,
	payload P,
) ResumableResult[R] {
	handler := helper.MustHandler[handlers.ResumableHandler[P, R]](ctx, enum)
	return handler.Await(ctx, handler.PerformEffect(ctx, payload))
}

// WithFireAndForgetEffectHandler registers a fire-and-forget effect handler for a given effect enum.
//
// Suitable for one-shot effects like logging or background work.
// This handler executes without returning a result.
func WithFireAndForgetEffectHandler[P any](
	ctx context.Context,
	bufferSize int,
	enum EffectEnum,
	handleFn func(context.Context, P),
	teardown ...func(),
) (context.Context, func() context.Context) {
	td := normalizeTeardown(teardown)
	handler := handlers.NewFireAndForgetHandler(ctx, bufferSize, handleFn, td)
	ctxWith := context.WithValue(ctx, enum, handler)
	zap.L().Debug("created fire/forget effect handler",
		zap.String("effectId", handler.EffectId), zap.Any("enum", enum))

	return ctxWith, func() context.Context {
		handler.Close()
		zap.L().Debug("closed fire/forget effect handler",
			zap.String("effectId", handler.EffectId), zap.Any("enum", enum))
		return ctx
	}
}

// FireAndForgetEffect triggers a fire-and-forget effect for the given enum and payload.
// It reports whether the handler accepted the payload; a done ctx or a closed
// scope refuses it.
//
// Panics if no handler is registered for the given enum.
func FireAndForgetEffect[P any](
	ctx context.Context,
	enum EffectEnum,
	payload P,
) bool {
	handler := helper.MustHandler[handlers.FireAndForgetHandler[P]](ctx, enum)
	return handler.FireAndForgetEffect(ctx, payload)
}

// normalizeTeardown flattens optional teardown functions into a single callable.
//
// Accepts either 0 or 1 teardown functions. Panics if more than one is passed.
func normalizeTeardown(teardown []func()) func() {
	switch len(teardown) {
	case 1:
		return teardown[0]
	case 0:
		return func() {}
	default:
		panic("normalizeTeardown: only one or zero teardown functions allowed")
	}
}
