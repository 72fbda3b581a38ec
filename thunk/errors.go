package thunk

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConditionFalse marks a request vetoed by its condition.
	ErrConditionFalse = errors.New("aborted due to condition callback returning false")

	// ErrRejectedWithValue is matched by every error RejectWithValue returns.
	ErrRejectedWithValue = errors.New("rejected")
)

// RejectedValue is returned by payload creators that want to reject with a
// specific payload instead of an error description.
type RejectedValue struct {
	Value any
}

func (r *RejectedValue) Error() string {
	return fmt.Sprintf("%s with value: %v", ErrRejectedWithValue, r.Value)
}

func (r *RejectedValue) Is(target error) bool {
	return target == ErrRejectedWithValue
}

// Unwrap exposes Value when it is itself an error.
func (r *RejectedValue) Unwrap() error {
	err, _ := r.Value.(error)
	return err
}

// RejectWithValue makes the request reject with v as the rejected action's payload.
func RejectWithValue(v any) error {
	return &RejectedValue{Value: v}
}

// SerializedError is the plain description of an error recorded in a rejected action.
type SerializedError struct {
	Name    string
	Message string
}

func (e SerializedError) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return e.Name + ": " + e.Message
}

// SerializeError describes err by its concrete type and message.
func SerializeError(err error) SerializedError {
	if err == nil {
		return SerializedError{}
	}
	name := strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
	switch name {
	case "errors.errorString", "fmt.wrapError", "fmt.wrapErrors":
		name = "Error"
	}
	return SerializedError{Name: name, Message: err.Error()}
}
