package thunk_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/reducer"
	"github.com/on-the-ground/effect_ive_store/store"
	"github.com/on-the-ground/effect_ive_store/thunk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	actions []action.Action
}

func (r *recorder) Dispatch(_ context.Context, a action.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
	return nil
}

// failingOn refuses actions of one type and records the rest.
type failingOn struct {
	recorder
	typ string
	err error
}

func (f *failingOn) Dispatch(ctx context.Context, a action.Action) error {
	if a.Type() == f.typ {
		return f.err
	}
	return f.recorder.Dispatch(ctx, a)
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.actions))
	for _, a := range r.actions {
		out = append(out, a.Type())
	}
	return out
}

func (r *recorder) last() action.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.actions[len(r.actions)-1]
}

func double(_ context.Context, n int, _ thunk.API) (int, error) {
	return n * 2, nil
}

func TestAsyncThunk_TypeStrings(t *testing.T) {
	th := thunk.New("posts/fetch", double)
	assert.Equal(t, "posts/fetch", th.TypePrefix())
	assert.Equal(t, "posts/fetch/pending", th.PendingType())
	assert.Equal(t, "posts/fetch/fulfilled", th.FulfilledType())
	assert.Equal(t, "posts/fetch/rejected", th.RejectedType())
	assert.Equal(t, th.PendingType(), thunk.PendingType("posts/fetch"))
}

func TestAsyncThunk_NewPanicsOnInvalidArgs(t *testing.T) {
	assert.Panics(t, func() { thunk.New("", double) })
	assert.Panics(t, func() { thunk.New[int, int]("x", nil) })
}

func TestAsyncThunk_Fulfilled(t *testing.T) {
	rec := &recorder{}
	th := thunk.New("math/double", double)

	out := th.Run(context.Background(), rec, 21)

	require.True(t, out.Fulfilled())
	assert.Equal(t, 42, out.Value)
	assert.NotEmpty(t, out.RequestID)
	assert.Equal(t, []string{"math/double/pending", "math/double/fulfilled"}, rec.types())

	pending := rec.actions[0].(thunk.Pending[int])
	fulfilled := rec.actions[1].(thunk.Fulfilled[int, int])
	assert.Equal(t, out.RequestID, pending.Meta.RequestID)
	assert.Equal(t, out.RequestID, fulfilled.Meta.RequestID)
	assert.Equal(t, 21, fulfilled.Meta.Arg)
	assert.Equal(t, 42, fulfilled.Payload)
	assert.Equal(t, thunk.StatusFulfilled, fulfilled.Meta.RequestStatus)
	assert.GreaterOrEqual(t, fulfilled.Meta.Span.Duration(), time.Duration(0))
}

func TestAsyncThunk_RejectedWithError(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("boom")
	th := thunk.New("math/fail", func(context.Context, int, thunk.API) (int, error) {
		return 0, boom
	})

	out := th.Run(context.Background(), rec, 1)

	assert.Equal(t, thunk.StatusRejected, out.Status)
	assert.ErrorIs(t, out.Err, boom)
	_, err := out.Unwrap()
	assert.ErrorIs(t, err, boom)

	rejected, ok := rec.last().(thunk.Rejected[int])
	require.True(t, ok)
	assert.Nil(t, rejected.Payload)
	assert.False(t, rejected.Meta.RejectedWithValue)
	assert.Equal(t, thunk.SerializedError{Name: "Error", Message: "boom"}, rejected.Error)
}

type httpFailure struct{ Code int }

func TestAsyncThunk_RejectWithValue(t *testing.T) {
	rec := &recorder{}
	th := thunk.New("posts/fetch", func(context.Context, struct{}, thunk.API) ([]string, error) {
		return nil, thunk.RejectWithValue(httpFailure{Code: 503})
	})

	out := th.Run(context.Background(), rec, struct{}{})

	assert.ErrorIs(t, out.Err, thunk.ErrRejectedWithValue)
	rejected := rec.last().(thunk.Rejected[struct{}])
	assert.Equal(t, httpFailure{Code: 503}, rejected.Payload)
	assert.True(t, rejected.Meta.RejectedWithValue)
}

func TestAsyncThunk_PanicBecomesRejection(t *testing.T) {
	rec := &recorder{}
	th := thunk.New("math/panic", func(context.Context, int, thunk.API) (int, error) {
		panic("kaboom")
	})

	out := th.Run(context.Background(), rec, 0)

	assert.Equal(t, thunk.StatusRejected, out.Status)
	assert.Contains(t, out.Err.Error(), "kaboom")
	assert.Equal(t, "math/panic/rejected", rec.last().Type())
}

func TestAsyncThunk_ConditionFalseDispatchesNothing(t *testing.T) {
	rec := &recorder{}
	th := thunk.New("math/double", double,
		thunk.WithCondition(func(_ context.Context, n int) bool { return n > 0 }))

	out := th.Run(context.Background(), rec, -1)

	assert.Equal(t, thunk.StatusRejected, out.Status)
	assert.ErrorIs(t, out.Err, thunk.ErrConditionFalse)
	assert.Empty(t, rec.types())

	out = th.Run(context.Background(), rec, 1)
	assert.True(t, out.Fulfilled())
	assert.Len(t, rec.types(), 2)
}

func TestAsyncThunk_ConditionRejectionIsDispatchedWhenAsked(t *testing.T) {
	rec := &recorder{}
	th := thunk.New("math/double", double,
		thunk.WithCondition(func(context.Context, int) bool { return false }),
		thunk.WithConditionRejection[int]())

	th.Run(context.Background(), rec, 1)

	require.Equal(t, []string{"math/double/rejected"}, rec.types())
	assert.True(t, rec.last().(thunk.Rejected[int]).Meta.Condition)
}

func TestAsyncThunk_AbortedContextStillSettles(t *testing.T) {
	rec := &recorder{}
	started := make(chan struct{})
	th := thunk.New("slow/op", func(ctx context.Context, _ int, _ thunk.API) (int, error) {
		close(started)
		<-ctx.Done()
		return 0, ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	ch := th.Start(ctx, rec, 0)
	<-started
	cancel()

	select {
	case out := <-ch:
		assert.ErrorIs(t, out.Err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("thunk did not settle after cancel")
	}

	rejected, ok := rec.last().(thunk.Rejected[int])
	require.True(t, ok)
	assert.True(t, rejected.Meta.Aborted)
}

func TestAsyncThunk_AbortedFollowsContextNotError(t *testing.T) {
	started := make(chan struct{}, 1)
	th := thunk.New("slow/op", func(ctx context.Context, _ int, _ thunk.API) (int, error) {
		started <- struct{}{}
		<-ctx.Done()
		return 0, thunk.RejectWithValue("gave up")
	})

	for i := 0; i < 50; i++ {
		rec := &recorder{}
		ctx, cancel := context.WithCancel(context.Background())
		ch := th.Start(ctx, rec, i)
		<-started
		cancel()

		out := <-ch
		assert.ErrorIs(t, out.Err, thunk.ErrRejectedWithValue)
		rejected, ok := rec.last().(thunk.Rejected[int])
		require.True(t, ok)
		assert.True(t, rejected.Meta.Aborted, "run %d", i)
		assert.Equal(t, "gave up", rejected.Payload)
	}
}

func TestRejectedValue_UnwrapsErrorValue(t *testing.T) {
	cause := errors.New("upstream down")

	err := thunk.RejectWithValue(cause)
	assert.ErrorIs(t, err, thunk.ErrRejectedWithValue)
	assert.ErrorIs(t, err, cause)

	assert.Nil(t, errors.Unwrap(thunk.RejectWithValue(42)))
}

func TestAsyncThunk_FailedFulfilledDispatchRejects(t *testing.T) {
	boom := errors.New("store closed")
	d := &failingOn{typ: "math/double/fulfilled", err: boom}
	th := thunk.New("math/double", double)

	out := th.Run(context.Background(), d, 5)

	assert.Equal(t, thunk.StatusRejected, out.Status)
	assert.Equal(t, 10, out.Value)
	assert.ErrorIs(t, out.Err, boom)
	assert.Equal(t, []string{"math/double/pending"}, d.types())
}

func TestAsyncThunk_FailedRejectedDispatchJoinsError(t *testing.T) {
	boom := errors.New("store closed")
	cause := errors.New("bad input")
	d := &failingOn{typ: "bad/op/rejected", err: boom}
	th := thunk.New("bad/op", func(context.Context, int, thunk.API) (int, error) {
		return 0, cause
	})

	out := th.Run(context.Background(), d, 1)

	assert.Equal(t, thunk.StatusRejected, out.Status)
	assert.ErrorIs(t, out.Err, cause)
	assert.ErrorIs(t, out.Err, boom)
}

func TestAsyncThunk_CustomRequestIDs(t *testing.T) {
	rec := &recorder{}
	th := thunk.New("math/double", double,
		thunk.WithIDGenerator(func(n int) string { return "req-" + string(rune('a'+n)) }))

	out := th.Run(context.Background(), rec, 2)

	assert.Equal(t, "req-c", out.RequestID)
}

func TestAsyncThunk_PayloadCreatorCanDispatch(t *testing.T) {
	rec := &recorder{}
	note := action.NewCreator[string]("log/note")
	th := thunk.New("math/double", func(ctx context.Context, n int, api thunk.API) (int, error) {
		if err := api.Dispatch(ctx, note.With(api.RequestID)); err != nil {
			return 0, err
		}
		return n * 2, nil
	})

	out := th.Run(context.Background(), rec, 1)

	assert.Equal(t, []string{"math/double/pending", "log/note", "math/double/fulfilled"}, rec.types())
	assert.Equal(t, out.RequestID, rec.actions[1].(action.Of[string]).Payload)
}

type loadState struct {
	Loading bool
	Value   int
	Err     string
}

func TestAsyncThunk_DrivesStoreThroughLifecycle(t *testing.T) {
	ctx := context.Background()
	th := thunk.New("math/double", double)

	b := reducer.NewBuilder[loadState]()
	reducer.OnType(b, th.PendingType(), func(s loadState, _ thunk.Pending[int]) loadState {
		return loadState{Loading: true, Value: s.Value}
	})
	reducer.OnType(b, th.FulfilledType(), func(_ loadState, a thunk.Fulfilled[int, int]) loadState {
		return loadState{Value: a.Payload}
	})
	s := store.New(ctx, b.Build(), loadState{})
	t.Cleanup(s.Close)

	var seen []loadState
	s.Subscribe(func(_ context.Context, st loadState) { seen = append(seen, st) })

	out := th.Run(ctx, s, 5)

	require.True(t, out.Fulfilled())
	assert.Equal(t, []loadState{{Loading: true}, {Value: 10}}, seen)
	assert.Equal(t, loadState{Value: 10}, s.State())
}
