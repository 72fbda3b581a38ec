package concurrency

import (
	"context"
	"sync"

	"github.com/on-the-ground/effect_ive_store/effects"
	effectmodel "github.com/on-the-ground/effect_ive_store/effects/internal/model"
	"github.com/on-the-ground/effect_ive_store/effects/log"
)

// WithEffectHandler installs a fire-and-forget concurrency effect handler.
//
// It allows `Effect(ctx, ...)` to spawn goroutines under a managed scope.
//
//   - WaitGroup + cancellation tracking ensures children are joined on shutdown.
//   - Cancelling the parent context cancels every child.
//   - The returned function ends the scope and blocks until all children return.
//
// A log effect handler must be in scope; the supervisor reports through it.
func WithEffectHandler(
	ctx context.Context,
	bufferSize int,
) (context.Context, func() context.Context) {
	sv := &supervisor{
		doneCh: make(chan struct{}),
	}
	sv.watchParentCancel(ctx)

	return effects.WithFireAndForgetEffectHandler(
		ctx,
		bufferSize,
		effectmodel.EffectConcurrency,
		sv.spawnConcurrentChildren,
		func() {
			sv.waitChildren(ctx)
			close(sv.doneCh)
		},
	)
}

// Effect spawns each function in its own goroutine inside the current concurrency scope.
// It returns false when the scope refused the work, in which case none of fns runs.
func Effect(ctx context.Context, fns ...func(context.Context)) bool {
	return effects.FireAndForgetEffect[payload](ctx, effectmodel.EffectConcurrency, fns)
}

type payload []func(context.Context)

// supervisor tracks child goroutines so that the scope can cancel and join them.
type supervisor struct {
	wg              sync.WaitGroup
	mu              sync.Mutex
	childrenCancels []context.CancelFunc
	doneCh          chan struct{}
}

// watchParentCancel cancels every child once the parent context is done.
func (s *supervisor) watchParentCancel(parentContext context.Context) {
	ready := make(chan struct{})
	go func() {
		close(ready)
		select {
		case <-parentContext.Done():
			log.Effect(parentContext, log.LogInfo, "context cancelled, waiting for all routines to finish", nil)
			s.cancelChildren()
		case <-s.doneCh:
		}
	}()
	<-ready
}

func (s *supervisor) appendCancel(cancelFn context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.childrenCancels = append(s.childrenCancels, cancelFn)
}

func (s *supervisor) cancelChildren() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cancelFn := range s.childrenCancels {
		cancelFn()
	}
}

// spawnConcurrentChildren starts each function in its own goroutine with its own context.
// Panics are recovered per child and logged.
func (s *supervisor) spawnConcurrentChildren(
	parentContext context.Context,
	functions payload,
) {
	ready := sync.WaitGroup{}

	for _, fn := range functions {
		childCtx, cancel := context.WithCancel(context.Background())
		s.appendCancel(cancel)
		s.wg.Add(1)
		ready.Add(1)
		go func(f func(context.Context), ctx context.Context) {
			defer s.wg.Done()
			defer cancel()
			defer func() {
				if r := recover(); r != nil {
					log.Effect(parentContext, log.LogError, "panic in child routine", map[string]interface{}{
						"error": r,
					})
				}
			}()
			ready.Done()
			f(ctx)
		}(fn, childCtx)
	}

	// Wait until all child goroutines have been started before returning
	ready.Wait()
}

// waitChildren blocks until all child goroutines complete.
func (s *supervisor) waitChildren(ctx context.Context) {
	log.Effect(ctx, log.LogDebug, "waiting for all routines to finish", nil)
	s.wg.Wait()
	log.Effect(ctx, log.LogDebug, "all routines finished", nil)
}
