// Package thunk runs asynchronous work against a store and reports its
// progress as lifecycle actions.
//
// An AsyncThunk with prefix "posts/fetch" dispatches "posts/fetch/pending"
// before its payload creator starts and exactly one of
// "posts/fetch/fulfilled" or "posts/fetch/rejected" after it settles.
// Failures never escape as Go errors: Run always returns an Outcome and the
// rejected action carries what went wrong.
package thunk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/effects"
	"github.com/on-the-ground/effect_ive_store/effects/task"
)

// API is handed to payload creators.
type API struct {
	RequestID string
	// Dispatch sends further actions to the store running the thunk.
	Dispatch func(ctx context.Context, a action.Action) error
}

// PayloadCreator does the asynchronous work of a thunk.
type PayloadCreator[Arg, R any] func(ctx context.Context, arg Arg, api API) (R, error)

// Outcome is the settled result of one run.
type Outcome[R any] struct {
	RequestID string
	Status    Status
	Value     R
	// Err is set for rejections. It is the payload creator's error, ctx.Err()
	// for aborted runs, or ErrConditionFalse.
	Err error
}

// Fulfilled reports whether the run succeeded.
func (o Outcome[R]) Fulfilled() bool { return o.Status == StatusFulfilled }

// Unwrap returns the value or the rejection error.
func (o Outcome[R]) Unwrap() (R, error) {
	if o.Status == StatusFulfilled {
		return o.Value, nil
	}
	return o.Value, o.Err
}

type config[Arg any] struct {
	condition         func(context.Context, Arg) bool
	dispatchCondition bool
	newID             func(Arg) string
}

// Option configures an AsyncThunk.
type Option[Arg any] func(*config[Arg])

// WithCondition vetoes runs for which fn returns false. A vetoed run
// dispatches nothing.
func WithCondition[Arg any](fn func(ctx context.Context, arg Arg) bool) Option[Arg] {
	return func(c *config[Arg]) { c.condition = fn }
}

// WithConditionRejection makes vetoed runs dispatch a rejected action with
// Meta.Condition set.
func WithConditionRejection[Arg any]() Option[Arg] {
	return func(c *config[Arg]) { c.dispatchCondition = true }
}

// WithIDGenerator replaces the uuid request ids.
func WithIDGenerator[Arg any](fn func(arg Arg) string) Option[Arg] {
	return func(c *config[Arg]) { c.newID = fn }
}

// AsyncThunk binds a type prefix to a payload creator.
type AsyncThunk[Arg, R any] struct {
	prefix  string
	payload PayloadCreator[Arg, R]
	cfg     config[Arg]
}

// New returns an AsyncThunk. It panics on an empty prefix or a nil payload creator.
func New[Arg, R any](prefix string, payload PayloadCreator[Arg, R], opts ...Option[Arg]) *AsyncThunk[Arg, R] {
	if prefix == "" {
		panic("thunk: type prefix must not be empty")
	}
	if payload == nil {
		panic(fmt.Sprintf("thunk: nil payload creator for %q", prefix))
	}
	cfg := config[Arg]{
		newID: func(Arg) string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &AsyncThunk[Arg, R]{prefix: prefix, payload: payload, cfg: cfg}
}

func (t *AsyncThunk[Arg, R]) TypePrefix() string    { return t.prefix }
func (t *AsyncThunk[Arg, R]) PendingType() string   { return PendingType(t.prefix) }
func (t *AsyncThunk[Arg, R]) FulfilledType() string { return FulfilledType(t.prefix) }
func (t *AsyncThunk[Arg, R]) RejectedType() string  { return RejectedType(t.prefix) }

// Run executes one request and blocks until it settles.
//
// Pending is dispatched with ctx. The settling action is dispatched even when
// ctx has ended, so a store never stays in its pending state; in that case
// the run is rejected with Meta.Aborted set.
func (t *AsyncThunk[Arg, R]) Run(ctx context.Context, d action.Dispatcher, arg Arg) Outcome[R] {
	requestID := t.cfg.newID(arg)
	start := time.Now()
	meta := func(status Status) Meta[Arg] {
		return Meta[Arg]{
			RequestID:     requestID,
			Arg:           arg,
			RequestStatus: status,
			Span:          effects.NewTimeSpan(start, time.Now()),
		}
	}

	if t.cfg.condition != nil && !t.cfg.condition(ctx, arg) {
		if t.cfg.dispatchCondition {
			m := meta(StatusRejected)
			m.Condition = true
			return t.reject(ctx, d, requestID, m, ErrConditionFalse)
		}
		return Outcome[R]{RequestID: requestID, Status: StatusRejected, Err: ErrConditionFalse}
	}

	if err := d.Dispatch(ctx, Pending[Arg]{Prefix: t.prefix, Meta: meta(StatusPending)}); err != nil {
		return t.reject(context.WithoutCancel(ctx), d, requestID, meta(StatusRejected), err)
	}

	api := API{RequestID: requestID, Dispatch: d.Dispatch}
	value, err := task.Await(ctx, func(ctx context.Context) (R, error) {
		return t.payload(ctx, arg, api)
	})

	settleCtx := context.WithoutCancel(ctx)
	if err != nil {
		m := meta(StatusRejected)
		m.Aborted = ctx.Err() != nil
		return t.reject(settleCtx, d, requestID, m, err)
	}

	fulfilled := Fulfilled[Arg, R]{Prefix: t.prefix, Payload: value, Meta: meta(StatusFulfilled)}
	if err := d.Dispatch(settleCtx, fulfilled); err != nil {
		return Outcome[R]{
			RequestID: requestID,
			Status:    StatusRejected,
			Value:     value,
			Err:       fmt.Errorf("dispatch %s: %w", fulfilled.Type(), err),
		}
	}
	return Outcome[R]{RequestID: requestID, Status: StatusFulfilled, Value: value}
}

// Start runs the request in its own goroutine. The channel yields the
// outcome once and is then closed.
func (t *AsyncThunk[Arg, R]) Start(ctx context.Context, d action.Dispatcher, arg Arg) <-chan Outcome[R] {
	out := make(chan Outcome[R], 1)
	go func() {
		defer close(out)
		out <- t.Run(ctx, d, arg)
	}()
	return out
}

func (t *AsyncThunk[Arg, R]) reject(
	ctx context.Context,
	d action.Dispatcher,
	requestID string,
	meta Meta[Arg],
	err error,
) Outcome[R] {
	rejected := Rejected[Arg]{Prefix: t.prefix, Error: SerializeError(err), Meta: meta}
	var rv *RejectedValue
	if errors.As(err, &rv) {
		rejected.Payload = rv.Value
		rejected.Meta.RejectedWithValue = true
	}
	if dErr := d.Dispatch(ctx, rejected); dErr != nil {
		err = errors.Join(err, fmt.Errorf("dispatch %s: %w", rejected.Type(), dErr))
	}
	return Outcome[R]{RequestID: requestID, Status: StatusRejected, Err: err}
}
