package posts_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/on-the-ground/effect_ive_store/internal/posts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePosts = `[
	{"userId": 1, "id": 1, "title": "first", "body": "a"},
	{"userId": 1, "id": 2, "title": "second", "body": "b"},
	{"userId": 2, "id": 3, "title": "third", "body": "c"}
]`

type fakeServer struct {
	*httptest.Server
	hits atomic.Int32
}

// newServer answers with statuses[i] on the i-th request, repeating the last one.
func newServer(t *testing.T, body string, statuses ...int) *fakeServer {
	t.Helper()
	if len(statuses) == 0 {
		statuses = []int{http.StatusOK}
	}
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(fs.hits.Add(1)) - 1
		if n >= len(statuses) {
			n = len(statuses) - 1
		}
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statuses[n])
		if statuses[n] == http.StatusOK {
			fmt.Fprint(w, body)
		} else {
			fmt.Fprint(w, `{}`)
		}
	}))
	t.Cleanup(fs.Close)
	return fs
}

func TestClient_FetchPosts(t *testing.T) {
	srv := newServer(t, samplePosts)
	c, err := posts.NewClient(srv.URL)
	require.NoError(t, err)

	got, err := c.FetchPosts(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, posts.Post{UserID: 2, ID: 3, Title: "third", Body: "c"}, got[2])
	assert.EqualValues(t, 1, srv.hits.Load())
}

func TestClient_DefaultURL(t *testing.T) {
	c, err := posts.NewClient("")
	require.NoError(t, err)
	assert.Equal(t, posts.DefaultURL, c.URL())
}

func TestClient_NonSuccessStatusIsFetchError(t *testing.T) {
	srv := newServer(t, samplePosts, http.StatusNotFound)
	c, err := posts.NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.FetchPosts(context.Background())

	var fe *posts.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.Equal(t, "Not Found", fe.Status)
	assert.Equal(t, srv.URL, fe.URL)
	assert.False(t, fe.Temporary())
}

func TestClient_InvalidJSONIsFetchError(t *testing.T) {
	srv := newServer(t, `{"not": "a list"}`)
	c, err := posts.NewClient(srv.URL)
	require.NoError(t, err)

	_, err = c.FetchPosts(context.Background())

	var fe *posts.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Message, "decode posts")
}

func TestClient_TransportErrorUnwrapsCause(t *testing.T) {
	srv := newServer(t, samplePosts)
	c, err := posts.NewClient(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.FetchPosts(ctx)

	var fe *posts.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.StatusCode)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_CacheAvoidsSecondRequest(t *testing.T) {
	srv := newServer(t, samplePosts)
	c, err := posts.NewClient(srv.URL, posts.WithCache(time.Minute))
	require.NoError(t, err)
	t.Cleanup(c.Close)

	first, err := c.FetchPosts(context.Background())
	require.NoError(t, err)
	second, err := c.FetchPosts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, srv.hits.Load())
}

func TestClient_RetryRecoversFromServerErrors(t *testing.T) {
	srv := newServer(t, samplePosts, http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusOK)
	c, err := posts.NewClient(srv.URL, posts.WithRetry(5, time.Millisecond))
	require.NoError(t, err)

	got, err := c.FetchPosts(context.Background())

	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.EqualValues(t, 3, srv.hits.Load())
}

func TestClient_RetryGivesUpAfterMaxTries(t *testing.T) {
	srv := newServer(t, samplePosts, http.StatusInternalServerError)
	c, err := posts.NewClient(srv.URL, posts.WithRetry(3, time.Millisecond))
	require.NoError(t, err)

	_, err = c.FetchPosts(context.Background())

	var fe *posts.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusInternalServerError, fe.StatusCode)
	assert.EqualValues(t, 3, srv.hits.Load())
}

func TestClient_RetrySkipsClientErrors(t *testing.T) {
	srv := newServer(t, samplePosts, http.StatusForbidden)
	c, err := posts.NewClient(srv.URL, posts.WithRetry(5, time.Millisecond))
	require.NoError(t, err)

	_, err = c.FetchPosts(context.Background())

	var fe *posts.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusForbidden, fe.StatusCode)
	assert.EqualValues(t, 1, srv.hits.Load())
}
