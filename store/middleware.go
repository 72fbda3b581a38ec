package store

import (
	"context"
	"errors"
	"time"

	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/reducer"
	"go.uber.org/zap"
)

// API is the view of the store a middleware receives.
// API.Dispatch re-enters the full middleware chain.
type API[S any] interface {
	State() S
	Dispatch(ctx context.Context, a action.Action) error
}

var _ API[struct{}] = (*Store[struct{}])(nil)

// Middleware wraps the dispatch function. Middlewares run on the caller's
// goroutine, before the action is queued for the reducer.
type Middleware[S any] func(api API[S]) func(next action.DispatchFunc) action.DispatchFunc

// Config describes a store for Configure.
type Config[S any] struct {
	Reducer        reducer.Reducer[S]
	PreloadedState S
	// Middleware is applied outermost first.
	Middleware []Middleware[S]
	BufferSize int
	Logger     *zap.Logger
}

// ErrNoReducer is returned by Configure when Config.Reducer is nil.
var ErrNoReducer = errors.New("store: config has no reducer")

// Configure builds a store from cfg.
func Configure[S any](ctx context.Context, cfg Config[S]) (*Store[S], error) {
	if cfg.Reducer == nil {
		return nil, ErrNoReducer
	}
	opts := newOptions([]Option{WithBufferSize(cfg.BufferSize), WithLogger(cfg.Logger)})
	return newStore(ctx, cfg.Reducer, cfg.PreloadedState, opts, cfg.Middleware), nil
}

// LoggingMiddleware logs every dispatch with the state before and after it.
func LoggingMiddleware[S any](logger *zap.Logger) Middleware[S] {
	return func(api API[S]) func(next action.DispatchFunc) action.DispatchFunc {
		return func(next action.DispatchFunc) action.DispatchFunc {
			return func(ctx context.Context, a action.Action) error {
				started := time.Now()
				prev := api.State()
				err := next(ctx, a)
				fields := []zap.Field{
					zap.String("type", a.Type()),
					zap.Any("action", a),
					zap.Any("prev", prev),
					zap.Any("next", api.State()),
					zap.Duration("took", time.Since(started)),
				}
				if err != nil {
					logger.Warn("dispatch failed", append(fields, zap.Error(err))...)
					return err
				}
				logger.Debug("dispatched", fields...)
				return nil
			}
		}
	}
}

// FilterMiddleware drops actions for which keep returns false.
func FilterMiddleware[S any](keep func(state S, a action.Action) bool) Middleware[S] {
	return func(api API[S]) func(next action.DispatchFunc) action.DispatchFunc {
		return func(next action.DispatchFunc) action.DispatchFunc {
			return func(ctx context.Context, a action.Action) error {
				if !keep(api.State(), a) {
					return nil
				}
				return next(ctx, a)
			}
		}
	}
}
