// Package selector memoizes pure functions that derive data from state.
//
// A selector must be pure: for equal inputs it returns equal results, and it
// never depends on time, I/O or anything outside its arguments. Results are
// kept in a bounded two-generation table, so memory stays proportional to
// maxSize no matter how many distinct states pass through.
package selector

// Func derives R from a state.
type Func[S, R any] func(S) R

// New memoizes fn by its comparable input.
func New[S comparable, R any](fn func(S) R, maxSize uint32) Func[S, R] {
	t := newTable[S, R](maxSize)
	return func(s S) R {
		return memoize(t, s, func() R { return fn(s) })
	}
}

// NewKeyed memoizes fn by key(s), for states that are not comparable.
// key must return equal values only for states fn treats alike.
func NewKeyed[S any, K comparable, R any](key func(S) K, fn func(S) R, maxSize uint32) Func[S, R] {
	t := newTable[K, R](maxSize)
	return func(s S) R {
		return memoize(t, key(s), func() R { return fn(s) })
	}
}

type pair[A, B any] struct {
	first  A
	second B
}

// NewKeyedPair is NewKeyed for functions with two results, such as lookups
// reporting whether they found anything.
func NewKeyedPair[S any, K comparable, R1, R2 any](
	key func(S) K,
	fn func(S) (R1, R2),
	maxSize uint32,
) func(S) (R1, R2) {
	t := newTable[K, pair[R1, R2]](maxSize)
	return func(s S) (R1, R2) {
		p := memoize(t, key(s), func() pair[R1, R2] {
			r1, r2 := fn(s)
			return pair[R1, R2]{first: r1, second: r2}
		})
		return p.first, p.second
	}
}

// Combine memoizes fn over the results of two input selectors. fn runs again
// only when a or b yields a value it has not seen recently.
func Combine[S any, A, B comparable, R any](
	a func(S) A,
	b func(S) B,
	fn func(A, B) R,
	maxSize uint32,
) Func[S, R] {
	t := newTable[pair[A, B], R](maxSize)
	return func(s S) R {
		in := pair[A, B]{first: a(s), second: b(s)}
		return memoize(t, in, func() R { return fn(in.first, in.second) })
	}
}

// WithArg memoizes a selector that takes an argument besides the state.
func WithArg[S, A comparable, R any](fn func(S, A) R, maxSize uint32) func(S, A) R {
	t := newTable[pair[S, A], R](maxSize)
	return func(s S, arg A) R {
		return memoize(t, pair[S, A]{first: s, second: arg}, func() R { return fn(s, arg) })
	}
}
