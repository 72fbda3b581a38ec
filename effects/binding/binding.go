package binding

import (
	"context"
	"errors"
	"fmt"

	"github.com/on-the-ground/effect_ive_store/effects"
	effectmodel "github.com/on-the-ground/effect_ive_store/effects/internal/model"
)

// Payload is the key looked up by the Binding effect.
type Payload string

// ErrKeyNotFound is returned when no scope in the chain binds the key.
var ErrKeyNotFound = errors.New("key not found")

// WithEffectHandler registers a resumable effect handler for bindings.
//
//   - Accepts a key-value map used for lookups.
//   - Falls back to upper scopes if a key is not found locally.
//   - Returns a teardown function to close the handler; the context it
//     returns should be used for further operations.
func WithEffectHandler(
	ctx context.Context,
	bufferSize int,
	bindingMap map[string]any,
) (context.Context, func() context.Context) {
	bindingHandler := &bindingHandler{
		bindingMap: normalizeBindingMap(bindingMap),
	}
	return effects.WithResumableEffectHandler[Payload, any](
		ctx,
		bufferSize,
		effectmodel.EffectBinding,
		bindingHandler.handle,
	)
}

// Effect performs a key-based lookup using the Binding effect handler.
//
// Returns either the value found or an error if the key is not found and no upper scope provides it.
func Effect(ctx context.Context, key string) (any, error) {
	res := effects.PerformResumableEffect[Payload, any](ctx, effectmodel.EffectBinding, Payload(key))
	return res.Value, res.Err
}

func normalizeBindingMap(bm map[string]any) map[string]any {
	copied := make(map[string]any, len(bm))
	for k, v := range bm {
		copied[k] = v
	}
	return copied
}

// delegateBindingEffect asks the enclosing scope, turning a missing handler into ErrKeyNotFound.
func delegateBindingEffect(upperCtx context.Context, key string) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rErr, ok := r.(error); ok && errors.Is(rErr, effectmodel.ErrNoEffectHandler) {
				res = nil
				err = fmt.Errorf("%w: %s", ErrKeyNotFound, key)
				return
			}
			panic(r)
		}
	}()

	return Effect(upperCtx, key)
}

type bindingHandler struct {
	bindingMap map[string]any
}

// handle looks up the key in the local bindingMap.
// - If found: returns the value.
// - If not found: attempts to delegate the effect to an upper handler (if available).
// - Otherwise: returns a key-not-found error.
func (bh bindingHandler) handle(ctx context.Context, payload Payload) (any, error) {
	key := string(payload)
	v, ok := bh.bindingMap[key]
	if !ok {
		return delegateBindingEffect(ctx, key)
	}
	return v, nil
}
