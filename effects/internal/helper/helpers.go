package helper

import (
	"context"
	"fmt"

	effectmodel "github.com/on-the-ground/effect_ive_store/effects/internal/model"
	sharedHelper "github.com/on-the-ground/effect_ive_store/shared/helper"
)

// Handler returns the handler of type H registered under enum in ctx.
// A missing handler yields an error wrapping ErrNoEffectHandler.
func Handler[H any](ctx context.Context, enum effectmodel.EffectEnum) (H, error) {
	return sharedHelper.Typed[H](func() (any, error) {
		if raw := ctx.Value(enum); raw != nil {
			return raw, nil
		}
		return nil, fmt.Errorf("%w: %s", effectmodel.ErrNoEffectHandler, enum)
	})
}

// MustHandler is Handler for effects that cannot run without their handler.
// It panics with the lookup error.
func MustHandler[H any](ctx context.Context, enum effectmodel.EffectEnum) H {
	h, err := Handler[H](ctx, enum)
	if err != nil {
		panic(err)
	}
	return h
}
