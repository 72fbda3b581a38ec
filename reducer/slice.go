package reducer

import (
	"fmt"

	"github.com/on-the-ground/effect_ive_store/action"
)

// Slice groups one state fragment with its reducer under a name.
// Action types owned by the slice are prefixed with the name.
type Slice[S any] struct {
	Name         string
	InitialState S
	Reducer      Reducer[S]
}

// NewSlice validates and returns a slice. It panics on an empty name or a nil reducer.
func NewSlice[S any](name string, initialState S, reduce Reducer[S]) Slice[S] {
	if name == "" {
		panic("reducer: slice name must not be empty")
	}
	if reduce == nil {
		panic(fmt.Sprintf("reducer: slice %q has no reducer", name))
	}
	return Slice[S]{Name: name, InitialState: initialState, Reducer: reduce}
}

// ActionType returns the fully qualified type for the slice's case name.
func (s Slice[S]) ActionType(caseName string) string {
	return s.Name + "/" + caseName
}

// Reduce applies the slice reducer.
func (s Slice[S]) Reduce(state S, a action.Action) S {
	return s.Reducer(state, a)
}
