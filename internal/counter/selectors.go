package counter

import "github.com/on-the-ground/effect_ive_store/selector"

func SelectCounter(s State) int { return s.Counter }

type Parity string

const (
	Even Parity = "even"
	Odd  Parity = "odd"
)

// SelectParity is memoized over the last states it saw.
var SelectParity = selector.New(func(s State) Parity {
	if s.Counter%2 == 0 {
		return Even
	}
	return Odd
}, 64)
