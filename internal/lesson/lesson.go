// Package lesson runs the three state management walkthroughs.
//
// Every runner expects a log effect handler and a binding effect handler in
// ctx. Settings missing from the bindings fall back to their defaults.
package lesson

import (
	"context"
	"fmt"

	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/effects/binding"
	"github.com/on-the-ground/effect_ive_store/effects/configkeys"
	"github.com/on-the-ground/effect_ive_store/effects/log"
	"github.com/on-the-ground/effect_ive_store/internal/config"
	"github.com/on-the-ground/effect_ive_store/store"
)

const defaultBufferSize = 16

// WithConfig binds cfg for the runners.
func WithConfig(ctx context.Context, cfg config.Config) (context.Context, func() context.Context) {
	return binding.WithEffectHandler(ctx, 1, cfg.Bindings())
}

func storeBufferSize(ctx context.Context) int {
	return binding.GetOrDefault(ctx, configkeys.ConfigStoreBufferSize, defaultBufferSize)
}

// logDispatches reports every dispatch through the log effect of ctx.
func logDispatches[S any](ctx context.Context) store.Middleware[S] {
	return func(api store.API[S]) func(next action.DispatchFunc) action.DispatchFunc {
		return func(next action.DispatchFunc) action.DispatchFunc {
			return func(dctx context.Context, a action.Action) error {
				if err := next(dctx, a); err != nil {
					log.Effect(ctx, log.LogWarn, "dispatch failed", map[string]interface{}{
						"type":  a.Type(),
						"error": err.Error(),
					})
					return err
				}
				log.Effect(ctx, log.LogDebug, "dispatched", map[string]interface{}{
					"type":  a.Type(),
					"state": fmt.Sprintf("%+v", api.State()),
				})
				return nil
			}
		}
	}
}
