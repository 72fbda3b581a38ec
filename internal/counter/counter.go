// Package counter is a counter slice whose actions are Go types.
package counter

import (
	"fmt"

	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/reducer"
)

// Name prefixes every action type of the slice.
const Name = "counter"

type State struct {
	Counter int `json:"counter"`
}

// Action is implemented by the actions the slice handles.
type Action interface {
	action.Action
	counterAction()
}

var (
	_ Action = Increment{}
	_ Action = Decrement{}
	_ Action = IncrementBy{}
)

type Increment struct{}

func (Increment) Type() string   { return Name + "/increment" }
func (Increment) counterAction() {}

type Decrement struct{}

func (Decrement) Type() string   { return Name + "/decrement" }
func (Decrement) counterAction() {}

type IncrementBy struct {
	Amount int `json:"amount"`
}

func (IncrementBy) Type() string   { return Name + "/incrementBy" }
func (IncrementBy) counterAction() {}

// Reduce applies a to s. Actions outside this package leave s unchanged.
func Reduce(s State, a action.Action) State {
	act, ok := a.(Action)
	if !ok {
		return s
	}
	switch act := act.(type) {
	case Increment:
		return State{Counter: s.Counter + 1}
	case Decrement:
		return State{Counter: s.Counter - 1}
	case IncrementBy:
		return State{Counter: s.Counter + act.Amount}
	default:
		panic(fmt.Sprintf("unknown counter action: %T", act))
	}
}

// Slice returns the counter slice starting at zero.
func Slice() reducer.Slice[State] {
	return reducer.NewSlice(Name, State{}, Reduce)
}
