// Package store holds application state and applies reducers to it.
//
// A Store is an explicitly constructed value: there is no process-wide
// default, and any number of stores can coexist. Dispatches are serialized
// through a single worker, so the reducer for one action completes before
// the next one starts. Listeners run on that worker right after each
// transition, in subscription order.
//
//	s := store.New(ctx, counter.Slice().Reducer, counter.State{})
//	defer s.Close()
//
//	_ = s.Dispatch(ctx, counter.Increment{})
//	fmt.Println(s.State())
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/effects"
	"github.com/on-the-ground/effect_ive_store/reducer"
	"go.uber.org/zap"
)

var (
	// ErrClosed is returned by Dispatch after Close.
	ErrClosed = errors.New("store closed")

	// ErrReducerPanic wraps a panic raised by the reducer. The state is left unchanged.
	ErrReducerPanic = errors.New("reducer panicked")
)

// Listener observes the state after every dispatch.
// The context carries the dispatch that triggered the call; dispatching with
// it from inside the listener queues the action right behind the current one.
type Listener[S any] func(ctx context.Context, state S)

type subscription[S any] struct {
	id uint64
	fn Listener[S]
}

// Store holds the current state of type S.
type Store[S any] struct {
	id       string
	state    atomic.Pointer[S]
	reduce   reducer.Reducer[S]
	handler  effects.ResumableHandler[action.Action, S]
	dispatch action.DispatchFunc
	logger   *zap.Logger

	mu        sync.Mutex
	listeners []subscription[S]
	nextID    uint64
}

// New creates a store holding initial and starts its worker.
// The worker stops when ctx is done or Close is called.
func New[S any](ctx context.Context, reduce reducer.Reducer[S], initial S, opts ...Option) *Store[S] {
	cfg := newOptions(opts)
	return newStore(ctx, reduce, initial, cfg, nil)
}

// FromSlice creates a store for a single slice.
func FromSlice[S any](ctx context.Context, slice reducer.Slice[S], opts ...Option) *Store[S] {
	return New(ctx, slice.Reducer, slice.InitialState, opts...)
}

func newStore[S any](
	ctx context.Context,
	reduce reducer.Reducer[S],
	initial S,
	cfg options,
	middleware []Middleware[S],
) *Store[S] {
	if reduce == nil {
		panic("store: nil reducer")
	}
	s := &Store[S]{
		id:     action.NewID(),
		reduce: reduce,
		logger: cfg.logger,
	}
	s.state.Store(&initial)
	s.handler = effects.NewSerialHandler(ctx, cfg.bufferSize, s.handle)

	base := action.DispatchFunc(s.enqueue)
	for i := len(middleware) - 1; i >= 0; i-- {
		base = middleware[i](s)(base)
	}
	s.dispatch = base

	s.logger.Debug("store created", zap.String("store", s.id))
	return s
}

// State returns the current state.
func (s *Store[S]) State() S {
	return *s.state.Load()
}

// Dispatch runs a through the middleware chain and the reducer.
// It returns once the reducer and the listeners have run, or when ctx ends.
// A cancelled ctx does not withdraw an action the worker already accepted.
func (s *Store[S]) Dispatch(ctx context.Context, a action.Action) error {
	if a == nil {
		return fmt.Errorf("store: nil action")
	}
	return s.dispatch(ctx, a)
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store[S]) Subscribe(fn Listener[S]) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription[S]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			kept := make([]subscription[S], 0, len(s.listeners))
			for _, sub := range s.listeners {
				if sub.id != id {
					kept = append(kept, sub)
				}
			}
			s.listeners = kept
		})
	}
}

// Close stops the worker once the dispatches already queued are applied.
// It must not be called from a listener.
func (s *Store[S]) Close() {
	s.handler.Close()
	s.logger.Debug("store closed", zap.String("store", s.id))
}

type frameKey struct{ store string }

// enqueue is the innermost dispatch: it hands a to the worker and waits.
func (s *Store[S]) enqueue(ctx context.Context, a action.Action) error {
	if f, ok := ctx.Value(frameKey{store: s.id}).(*frame); ok && f.push(a) {
		return nil
	}
	res := s.handler.Await(ctx, s.handler.PerformEffect(ctx, a))
	if errors.Is(res.Err, effects.ErrScopeClosed) {
		return ErrClosed
	}
	return res.Err
}

// handle runs on the worker goroutine.
func (s *Store[S]) handle(ctx context.Context, a action.Action) (S, error) {
	f := &frame{}
	ctx = context.WithValue(ctx, frameKey{store: s.id}, f)

	next, err := s.apply(a)
	if err != nil {
		f.seal()
		return next, err
	}
	s.notify(ctx, next)

	for pending := f.drain(); len(pending) > 0; pending = f.drain() {
		for _, queued := range pending {
			st, err := s.apply(queued)
			if err != nil {
				s.logger.Error("queued dispatch failed",
					zap.String("store", s.id), zap.String("type", queued.Type()), zap.Error(err))
				continue
			}
			s.notify(ctx, st)
		}
	}
	return s.State(), nil
}

func (s *Store[S]) apply(a action.Action) (next S, err error) {
	prev := s.State()
	defer func() {
		if r := recover(); r != nil {
			next = prev
			err = fmt.Errorf("%w: %s: %v", ErrReducerPanic, a.Type(), r)
		}
	}()
	next = s.reduce(prev, a)
	s.state.Store(&next)
	return next, nil
}

func (s *Store[S]) notify(ctx context.Context, state S) {
	s.mu.Lock()
	listeners := append([]subscription[S](nil), s.listeners...)
	s.mu.Unlock()

	for _, sub := range listeners {
		s.call(ctx, sub, state)
	}
}

func (s *Store[S]) call(ctx context.Context, sub subscription[S], state S) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("listener panicked",
				zap.String("store", s.id), zap.Uint64("listener", sub.id), zap.Any("panic", r))
		}
	}()
	sub.fn(ctx, state)
}

// frame collects actions dispatched by listeners while a dispatch is running.
// Once sealed it refuses new actions and they take the regular queue.
type frame struct {
	mu      sync.Mutex
	sealed  bool
	pending []action.Action
}

func (f *frame) push(a action.Action) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sealed {
		return false
	}
	f.pending = append(f.pending, a)
	return true
}

func (f *frame) drain() []action.Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.pending
	f.pending = nil
	if len(p) == 0 {
		f.sealed = true
	}
	return p
}

func (f *frame) seal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sealed = true
}
