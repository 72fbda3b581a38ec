// Package counteraction is a counter built from standalone action creators
// and a builder reducer.
package counteraction

import (
	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/reducer"
)

type State struct {
	Counter int `json:"counter"`
}

// InitialState is the counter before any action.
var InitialState = State{Counter: 0}

// IncrementByArgs are the arguments of the INCREMENT_BY creator.
type IncrementByArgs struct {
	Amount int
	User   string
}

// IncrementByPayload is what INCREMENT_BY actions carry. ID is generated
// for every action.
type IncrementByPayload struct {
	Amount int    `json:"amount"`
	User   string `json:"user"`
	ID     string `json:"id"`
}

var (
	Increment = action.NewCreator[struct{}]("INCREMENT")
	Decrement = action.NewCreator[struct{}]("DECREMENT")
	Reset     = action.NewCreator[struct{}]("RESET")

	IncrementBy = action.NewPreparedCreator("INCREMENT_BY",
		func(args IncrementByArgs) action.Prepared[IncrementByPayload] {
			return action.Prepared[IncrementByPayload]{
				Payload: IncrementByPayload{
					Amount: args.Amount,
					User:   args.User,
					ID:     action.NewID(),
				},
			}
		})
)

// Reducer returns the counter reducer. Actions it has no case for leave the
// state unchanged.
func Reducer() reducer.Reducer[State] {
	b := reducer.NewBuilder[State]()
	reducer.OnCreator(b, Increment, func(s State, _ action.Of[struct{}]) State {
		return State{Counter: s.Counter + 1}
	})
	reducer.OnCreator(b, IncrementBy.Creator, func(s State, a action.Of[IncrementByPayload]) State {
		return State{Counter: s.Counter + a.Payload.Amount}
	})
	reducer.OnCreator(b, Decrement, func(s State, _ action.Of[struct{}]) State {
		return State{Counter: s.Counter - 1}
	})
	reducer.OnCreator(b, Reset, func(State, action.Of[struct{}]) State {
		return InitialState
	})
	return b.Build()
}
