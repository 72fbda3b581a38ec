// Package effects provides the handler machinery the store toolkit is built on.
//
// Side effects such as logging, configuration lookup and goroutine
// supervision are delegated to handlers that live in a context scope.
// A handler owns one worker goroutine fed by a queue, so payloads sent to
// the same handler are processed one after another in arrival order.
//
// # Handlers
//
// Resumable handlers return a result to the caller; fire-and-forget
// handlers do not. Both are registered with `WithXxxEffectHandler(ctx)`,
// which returns the extended context and a teardown function:
//
//	ctx, end := log.WithZapEffectHandler(ctx, 16, logger)
//	defer end()
//
//	log.Effect(ctx, log.LogInfo, "dispatched", map[string]interface{}{"type": "counter/increment"})
//
// NewSerialHandler creates the same kind of handler without registering it,
// for owners such as a store that hold the handler themselves.
//
// Performing an effect without a handler in scope panics with ErrNoEffectHandler.
package effects
