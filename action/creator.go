package action

import "fmt"

// Creator builds actions of one type. The zero value is not usable.
type Creator[P any] struct {
	kind string
}

// NewCreator returns a creator for actions of the given type.
// It panics if kind is empty.
func NewCreator[P any](kind string) Creator[P] {
	if kind == "" {
		panic("action: creator type must not be empty")
	}
	return Creator[P]{kind: kind}
}

// Type is the type string every action built by c carries.
func (c Creator[P]) Type() string { return c.kind }

func (c Creator[P]) String() string { return c.kind }

// With builds an action carrying payload.
func (c Creator[P]) With(payload P) Of[P] {
	return Of[P]{Kind: c.kind, Payload: payload}
}

// Empty builds an action with a zero payload.
func (c Creator[P]) Empty() Of[P] {
	var zero P
	return c.With(zero)
}

// Match reports whether a was built by a creator of the same type and payload.
func (c Creator[P]) Match(a Action) (Of[P], bool) {
	of, ok := a.(Of[P])
	if !ok || of.Kind != c.kind {
		return Of[P]{}, false
	}
	return of, true
}

// Prepared is what a prepare callback returns.
type Prepared[P any] struct {
	Payload P
	Meta    any
}

// PreparedCreator builds actions from arguments of type A through a prepare callback.
type PreparedCreator[A any, P any] struct {
	Creator[P]
	prepare func(A) Prepared[P]
}

// NewPreparedCreator returns a creator whose payload is computed by prepare.
func NewPreparedCreator[A any, P any](kind string, prepare func(A) Prepared[P]) PreparedCreator[A, P] {
	if prepare == nil {
		panic(fmt.Sprintf("action: nil prepare callback for %q", kind))
	}
	return PreparedCreator[A, P]{Creator: NewCreator[P](kind), prepare: prepare}
}

// Prepare builds an action from args.
func (c PreparedCreator[A, P]) Prepare(args A) Of[P] {
	prepared := c.prepare(args)
	return Of[P]{Kind: c.kind, Payload: prepared.Payload, Meta: prepared.Meta}
}
