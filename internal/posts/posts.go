// Package posts fetches blog posts over HTTP and keeps them in a slice whose
// state follows the request lifecycle.
package posts

import (
	"fmt"
)

// DefaultURL is the endpoint FetchPosts reads when no other is configured.
const DefaultURL = "https://jsonplaceholder.typicode.com/posts"

type Post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// State tracks the last fetch. Loading is set while a request is in flight;
// afterwards either Posts holds the result or Error describes the failure.
type State struct {
	Posts   []Post      `json:"posts"`
	Loading bool        `json:"loading"`
	Error   *FetchError `json:"error"`
}

// InitialState returns the state before any fetch.
func InitialState() State {
	return State{Posts: []Post{}}
}

// FetchError describes a failed fetch. StatusCode is zero when no response
// was received.
type FetchError struct {
	StatusCode int    `json:"status"`
	Status     string `json:"statusText"`
	URL        string `json:"url"`
	Message    string `json:"message"`

	err error
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
	}
	return fmt.Sprintf("fetch %s: %s: %s", e.URL, e.Status, e.Message)
}

func (e *FetchError) Unwrap() error { return e.err }

// Temporary reports whether repeating the request may succeed.
func (e *FetchError) Temporary() bool {
	return e.StatusCode == 0 || e.StatusCode == 429 || e.StatusCode >= 500
}
