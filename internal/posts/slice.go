package posts

import (
	"context"
	"errors"

	"github.com/on-the-ground/effect_ive_store/reducer"
	"github.com/on-the-ground/effect_ive_store/thunk"
)

const (
	// Name prefixes the slice's action types.
	Name = "posts"

	// FetchPrefix is the type prefix of the fetch lifecycle actions.
	FetchPrefix = Name + "/fetch"
)

// Fetcher loads posts.
type Fetcher interface {
	FetchPosts(ctx context.Context) ([]Post, error)
}

type (
	FetchPending   = thunk.Pending[struct{}]
	FetchFulfilled = thunk.Fulfilled[struct{}, []Post]
	FetchRejected  = thunk.Rejected[struct{}]
)

// NewFetchPosts returns the fetch thunk. A failed fetch always rejects, with
// the *FetchError as the rejected action's payload.
func NewFetchPosts(f Fetcher, opts ...thunk.Option[struct{}]) *thunk.AsyncThunk[struct{}, []Post] {
	return thunk.New(FetchPrefix, func(ctx context.Context, _ struct{}, _ thunk.API) ([]Post, error) {
		posts, err := f.FetchPosts(ctx)
		if err != nil {
			var fe *FetchError
			if errors.As(err, &fe) {
				return nil, thunk.RejectWithValue(fe)
			}
			return nil, err
		}
		return posts, nil
	}, opts...)
}

// Slice returns the posts slice. Its reducer only reacts to the fetch lifecycle.
func Slice() reducer.Slice[State] {
	b := reducer.NewBuilder[State]()
	reducer.OnType(b, thunk.PendingType(FetchPrefix), func(s State, _ FetchPending) State {
		return State{Posts: s.Posts, Loading: true}
	})
	reducer.OnType(b, thunk.FulfilledType(FetchPrefix), func(_ State, a FetchFulfilled) State {
		posts := a.Payload
		if posts == nil {
			posts = []Post{}
		}
		return State{Posts: posts}
	})
	reducer.OnType(b, thunk.RejectedType(FetchPrefix), func(_ State, a FetchRejected) State {
		return State{Posts: []Post{}, Error: rejection(a)}
	})
	return reducer.NewSlice(Name, InitialState(), b.Build())
}

func rejection(a FetchRejected) *FetchError {
	if fe, ok := a.Payload.(*FetchError); ok {
		return fe
	}
	return &FetchError{Message: a.Error.Message}
}
