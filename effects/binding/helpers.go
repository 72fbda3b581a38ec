package binding

import (
	"context"

	"github.com/on-the-ground/effect_ive_store/shared/helper"
)

// GetFromBindingEffect fetches a typed value from the Binding effect using the provided key.
// Returns a zero value and error if the key is not found or the type is mismatched.
func GetFromBindingEffect[T any](ctx context.Context, key string) (T, error) {
	return helper.Typed[T](func() (any, error) {
		return Effect(ctx, key)
	})
}

// GetOrDefault is GetFromBindingEffect falling back to def on any failure.
func GetOrDefault[T any](ctx context.Context, key string, def T) T {
	v, err := GetFromBindingEffect[T](ctx, key)
	if err != nil {
		return def
	}
	return v
}

// MustGetFromBindingEffect is the panic-on-failure variant of GetFromBindingEffect.
// It panics if the key is missing or the type doesn't match.
func MustGetFromBindingEffect[T any](ctx context.Context, key string) T {
	return helper.MustTyped[T](func() (any, error) {
		return Effect(ctx, key)
	})
}
