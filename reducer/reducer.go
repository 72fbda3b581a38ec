// Package reducer builds pure state transition functions.
package reducer

import (
	"fmt"

	"github.com/on-the-ground/effect_ive_store/action"
)

// Reducer computes the next state from the current state and an action.
// Reducers must return a new value instead of mutating shared data, must not
// perform I/O, and must return the state unchanged for actions they do not know.
type Reducer[S any] func(state S, a action.Action) S

// Identity returns the state unchanged for every action.
func Identity[S any](state S, _ action.Action) S { return state }

type caseFn[S any] func(S, action.Action) (S, bool)

type matcher[S any] struct {
	match func(action.Action) bool
	apply func(S, action.Action) S
}

// Builder assembles a Reducer from cases, matchers and a default.
//
// For every action at most one case runs: first the case registered for the
// action's type string, otherwise the first case registered for its Go type.
// Every matcher whose predicate holds then runs in registration order. The
// default runs only when neither a case nor a matcher applied.
type Builder[S any] struct {
	byType   map[string]caseFn[S]
	byGoType []caseFn[S]
	goTypes  map[string]struct{}
	matchers []matcher[S]
	fallback func(S, action.Action) S
}

func NewBuilder[S any]() *Builder[S] {
	return &Builder[S]{
		byType:  make(map[string]caseFn[S]),
		goTypes: make(map[string]struct{}),
	}
}

// On adds a case for every action whose dynamic Go type is T.
// It panics if a case for T already exists.
func On[T action.Action, S any](b *Builder[S], fn func(S, T) S) *Builder[S] {
	key := fmt.Sprintf("%T", *new(T))
	if _, dup := b.goTypes[key]; dup {
		panic(fmt.Sprintf("reducer: duplicate case for Go type %s", key))
	}
	b.goTypes[key] = struct{}{}
	b.byGoType = append(b.byGoType, func(state S, a action.Action) (S, bool) {
		t, ok := a.(T)
		if !ok {
			return state, false
		}
		return fn(state, t), true
	})
	return b
}

// OnType adds a case for actions whose Type() is typ. The action must also be
// a T; otherwise the case does not apply.
// It panics if a case for typ already exists.
func OnType[T action.Action, S any](b *Builder[S], typ string, fn func(S, T) S) *Builder[S] {
	if typ == "" {
		panic("reducer: case type must not be empty")
	}
	if _, dup := b.byType[typ]; dup {
		panic(fmt.Sprintf("reducer: duplicate case for action type %q", typ))
	}
	b.byType[typ] = func(state S, a action.Action) (S, bool) {
		t, ok := a.(T)
		if !ok {
			return state, false
		}
		return fn(state, t), true
	}
	return b
}

// OnCreator adds a case for the actions built by c.
func OnCreator[P any, S any](b *Builder[S], c action.Creator[P], fn func(S, action.Of[P]) S) *Builder[S] {
	return OnType(b, c.Type(), fn)
}

// AddMatcher adds a reducer that runs for every action match accepts.
func (b *Builder[S]) AddMatcher(match func(action.Action) bool, fn func(S, action.Action) S) *Builder[S] {
	b.matchers = append(b.matchers, matcher[S]{match: match, apply: fn})
	return b
}

// Default sets the reducer used when nothing else applies.
func (b *Builder[S]) Default(fn func(S, action.Action) S) *Builder[S] {
	b.fallback = fn
	return b
}

// Build freezes the builder into a Reducer. Later changes to b do not affect it.
func (b *Builder[S]) Build() Reducer[S] {
	byType := make(map[string]caseFn[S], len(b.byType))
	for k, v := range b.byType {
		byType[k] = v
	}
	byGoType := append([]caseFn[S](nil), b.byGoType...)
	matchers := append([]matcher[S](nil), b.matchers...)
	fallback := b.fallback

	return func(state S, a action.Action) S {
		handled := false
		if fn, ok := byType[a.Type()]; ok {
			state, handled = fn(state, a)
		}
		if !handled {
			for _, fn := range byGoType {
				if state, handled = fn(state, a); handled {
					break
				}
			}
		}
		for _, m := range matchers {
			if m.match(a) {
				state = m.apply(state, a)
				handled = true
			}
		}
		if !handled && fallback != nil {
			state = fallback(state, a)
		}
		return state
	}
}
