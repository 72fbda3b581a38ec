// Package action defines the values dispatched to a store and the creators
// that build them.
//
// An action is any value with a Type. Toolkits built on this package use
// two styles side by side:
//
//   - creator style: Creator[P] stamps out Of[P] records that share one
//     type string, matched by string;
//   - tagged style: a package declares one Go type per action behind a
//     sealed interface and reducers match with a type switch.
package action

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Action is an immutable description of a state change.
type Action interface {
	Type() string
}

// Dispatcher accepts actions.
type Dispatcher interface {
	Dispatch(ctx context.Context, a Action) error
}

// DispatchFunc adapts a function to Dispatcher.
type DispatchFunc func(ctx context.Context, a Action) error

func (f DispatchFunc) Dispatch(ctx context.Context, a Action) error {
	return f(ctx, a)
}

var _ Action = Of[struct{}]{}

// Of is a plain action record carrying a payload of type P.
type Of[P any] struct {
	Kind    string
	Payload P
	Meta    any
}

func (a Of[P]) Type() string { return a.Kind }

func (a Of[P]) String() string {
	return fmt.Sprintf("%s(%+v)", a.Kind, a.Payload)
}

// NewID returns a random, URL-safe identifier for action metadata.
func NewID() string {
	return uuid.NewString()
}
