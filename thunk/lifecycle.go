package thunk

import (
	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/effects"
)

// Status is the position of a request in its lifecycle.
type Status int

const (
	StatusPending Status = iota
	StatusFulfilled
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFulfilled:
		return "fulfilled"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// PendingType returns the type string of pending actions for prefix.
func PendingType(prefix string) string { return prefix + "/" + StatusPending.String() }

// FulfilledType returns the type string of fulfilled actions for prefix.
func FulfilledType(prefix string) string { return prefix + "/" + StatusFulfilled.String() }

// RejectedType returns the type string of rejected actions for prefix.
func RejectedType(prefix string) string { return prefix + "/" + StatusRejected.String() }

// Meta describes the request a lifecycle action belongs to.
type Meta[Arg any] struct {
	RequestID     string
	Arg           Arg
	RequestStatus Status
	// Span covers the request from start to the moment the action was built.
	Span effects.TimeSpan
	// Aborted is set on rejections caused by the caller's context ending.
	Aborted bool
	// Condition is set when the request was vetoed by its condition and never started.
	Condition bool
	// RejectedWithValue is set when the payload creator returned RejectWithValue.
	RejectedWithValue bool
}

var _ effects.TimeBounded = Meta[struct{}]{}

func (m Meta[Arg]) TimeSpan() effects.TimeSpan { return m.Span }

// Lifecycle is the closed set of actions an AsyncThunk dispatches.
type Lifecycle interface {
	action.Action
	Status() Status
	lifecycle()
}

var (
	_ Lifecycle = Pending[struct{}]{}
	_ Lifecycle = Fulfilled[struct{}, struct{}]{}
	_ Lifecycle = Rejected[struct{}]{}
)

// Pending is dispatched when a request starts.
type Pending[Arg any] struct {
	Prefix string
	Meta   Meta[Arg]
}

func (p Pending[Arg]) Type() string   { return PendingType(p.Prefix) }
func (p Pending[Arg]) Status() Status { return StatusPending }
func (Pending[Arg]) lifecycle()       {}

// Fulfilled is dispatched when the payload creator succeeds.
type Fulfilled[Arg, R any] struct {
	Prefix  string
	Payload R
	Meta    Meta[Arg]
}

func (f Fulfilled[Arg, R]) Type() string   { return FulfilledType(f.Prefix) }
func (f Fulfilled[Arg, R]) Status() Status { return StatusFulfilled }
func (Fulfilled[Arg, R]) lifecycle()       {}

// Rejected is dispatched when the payload creator fails.
// Payload is set only for RejectWithValue rejections.
type Rejected[Arg any] struct {
	Prefix  string
	Payload any
	Error   SerializedError
	Meta    Meta[Arg]
}

func (r Rejected[Arg]) Type() string   { return RejectedType(r.Prefix) }
func (r Rejected[Arg]) Status() Status { return StatusRejected }
func (Rejected[Arg]) lifecycle()       {}
