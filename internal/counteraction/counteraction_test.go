package counteraction_test

import (
	"context"
	"testing"

	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/internal/counteraction"
	"github.com/on-the-ground/effect_ive_store/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReducer_Cases(t *testing.T) {
	reduce := counteraction.Reducer()
	s := counteraction.State{Counter: 5}

	assert.Equal(t, 6, reduce(s, counteraction.Increment.Empty()).Counter)
	assert.Equal(t, 4, reduce(s, counteraction.Decrement.Empty()).Counter)
	assert.Equal(t, 0, reduce(s, counteraction.Reset.Empty()).Counter)

	by := counteraction.IncrementBy.Prepare(counteraction.IncrementByArgs{Amount: 120, User: "Elee"})
	assert.Equal(t, 125, reduce(s, by).Counter)
}

func TestReducer_UnknownActionIsIdentity(t *testing.T) {
	reduce := counteraction.Reducer()
	s := counteraction.State{Counter: 7}

	assert.Equal(t, s, reduce(s, action.NewCreator[int]("SOMETHING_ELSE").With(1)))
	// same type string, different payload type
	assert.Equal(t, s, reduce(s, action.NewCreator[int]("INCREMENT").With(1)))
}

func TestIncrementBy_PreparesPayloadWithID(t *testing.T) {
	a := counteraction.IncrementBy.Prepare(counteraction.IncrementByArgs{Amount: 120, User: "Elee"})
	b := counteraction.IncrementBy.Prepare(counteraction.IncrementByArgs{Amount: 120, User: "Elee"})

	assert.Equal(t, "INCREMENT_BY", a.Type())
	assert.Equal(t, 120, a.Payload.Amount)
	assert.Equal(t, "Elee", a.Payload.User)
	assert.NotEmpty(t, a.Payload.ID)
	assert.NotEqual(t, a.Payload.ID, b.Payload.ID)
}

func TestStore_ThreeIncrements(t *testing.T) {
	ctx := context.Background()
	s, err := store.Configure(ctx, store.Config[counteraction.State]{
		Reducer:        counteraction.Reducer(),
		PreloadedState: counteraction.InitialState,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Dispatch(ctx, counteraction.Increment.Empty()))
	}

	assert.Equal(t, counteraction.State{Counter: 3}, s.State())
}
