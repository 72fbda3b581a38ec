package lesson

import (
	"context"
	"fmt"

	"github.com/on-the-ground/effect_ive_store/effects/log"
	"github.com/on-the-ground/effect_ive_store/internal/counter"
	"github.com/on-the-ground/effect_ive_store/internal/counteraction"
	"github.com/on-the-ground/effect_ive_store/store"
)

// CreateAction dispatches three increments to a counter built from action
// creators and returns the final state.
func CreateAction(ctx context.Context) (counteraction.State, error) {
	s, err := store.Configure(ctx, store.Config[counteraction.State]{
		Reducer:        counteraction.Reducer(),
		PreloadedState: counteraction.InitialState,
		Middleware:     []store.Middleware[counteraction.State]{logDispatches[counteraction.State](ctx)},
		BufferSize:     storeBufferSize(ctx),
	})
	if err != nil {
		return counteraction.State{}, err
	}
	defer s.Close()

	for i := 0; i < 3; i++ {
		if err := s.Dispatch(ctx, counteraction.Increment.Empty()); err != nil {
			return s.State(), fmt.Errorf("dispatch %s: %w", counteraction.Increment, err)
		}
	}

	final := s.State()
	log.Effect(ctx, log.LogInfo, "final state", map[string]interface{}{
		"counter": final.Counter,
	})
	return final, nil
}

// CreateSlice dispatches increment, increment and incrementBy(30) to the
// counter slice and returns the final state.
func CreateSlice(ctx context.Context) (counter.State, error) {
	slice := counter.Slice()
	s, err := store.Configure(ctx, store.Config[counter.State]{
		Reducer:        slice.Reducer,
		PreloadedState: slice.InitialState,
		Middleware:     []store.Middleware[counter.State]{logDispatches[counter.State](ctx)},
		BufferSize:     storeBufferSize(ctx),
	})
	if err != nil {
		return counter.State{}, err
	}
	defer s.Close()

	for _, a := range []counter.Action{
		counter.Increment{},
		counter.Increment{},
		counter.IncrementBy{Amount: 30},
	} {
		if err := s.Dispatch(ctx, a); err != nil {
			return s.State(), fmt.Errorf("dispatch %s: %w", a.Type(), err)
		}
	}

	final := s.State()
	log.Effect(ctx, log.LogInfo, "final state", map[string]interface{}{
		"counter": counter.SelectCounter(final),
		"parity":  string(counter.SelectParity(final)),
	})
	return final, nil
}
