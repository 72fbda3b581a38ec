// Package helper holds small generic utilities shared across packages.
package helper

import (
	"errors"
	"fmt"
)

// ErrUnexpectedType is returned when a looked-up value has the wrong type.
var ErrUnexpectedType = errors.New("unexpected type")

// Typed calls get and asserts its result to T.
func Typed[T any](get func() (any, error)) (T, error) {
	var zero T

	res, err := get()
	if err != nil {
		return zero, fmt.Errorf("failed to get value: %w", err)
	}

	val, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("%w: want %T, got %T", ErrUnexpectedType, zero, res)
	}
	return val, nil
}

// MustTyped is Typed for lookups that cannot fail in a correct program,
// such as a handler that is known to be in scope. It panics with the error.
func MustTyped[T any](get func() (any, error)) T {
	res, err := Typed[T](get)
	if err != nil {
		panic(err)
	}
	return res
}
