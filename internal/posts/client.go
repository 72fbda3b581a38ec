package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	ristretto "github.com/dgraph-io/ristretto/v2"
	"go.uber.org/zap"
)

const maxErrorBody = 512

// Client reads posts from one URL.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger

	cache    *ristretto.Cache[string, []Post]
	cacheTTL time.Duration

	retryMax      uint
	retryInterval time.Duration
}

type ClientOption func(*Client) error

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) error {
		c.httpClient = hc
		return nil
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) error {
		c.httpClient = &http.Client{Timeout: d, Transport: c.httpClient.Transport}
		return nil
	}
}

func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithCache keeps successful responses for ttl.
func WithCache(ttl time.Duration) ClientOption {
	return func(c *Client) error {
		cache, err := ristretto.NewCache(&ristretto.Config[string, []Post]{
			NumCounters: 1e4,
			MaxCost:     1 << 20,
			BufferItems: 64,
		})
		if err != nil {
			return fmt.Errorf("posts cache: %w", err)
		}
		c.cache = cache
		c.cacheTTL = ttl
		return nil
	}
}

// WithRetry repeats failed requests with exponential backoff, up to maxTries
// attempts in total. Client errors other than 429 are not repeated.
func WithRetry(maxTries uint, initialInterval time.Duration) ClientOption {
	return func(c *Client) error {
		c.retryMax = maxTries
		c.retryInterval = initialInterval
		return nil
	}
}

func NewClient(url string, opts ...ClientOption) (*Client, error) {
	if url == "" {
		url = DefaultURL
	}
	c := &Client{
		url:        url,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) URL() string { return c.url }

// Close releases the response cache.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// FetchPosts performs one GET against the client's URL. Failures are
// returned as *FetchError.
func (c *Client) FetchPosts(ctx context.Context) ([]Post, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(c.url); ok {
			c.logger.Debug("posts cache hit", zap.String("url", c.url), zap.Int("count", len(cached)))
			return cached, nil
		}
	}

	posts, err := c.fetchWithRetry(ctx)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.SetWithTTL(c.url, posts, int64(len(posts))+1, c.cacheTTL)
		c.cache.Wait()
	}
	return posts, nil
}

func (c *Client) fetchWithRetry(ctx context.Context) ([]Post, error) {
	if c.retryMax <= 1 {
		return c.get(ctx)
	}

	b := backoff.NewExponentialBackOff()
	if c.retryInterval > 0 {
		b.InitialInterval = c.retryInterval
	}
	return backoff.Retry(ctx, func() ([]Post, error) {
		posts, err := c.get(ctx)
		if err == nil {
			return posts, nil
		}
		var fe *FetchError
		if errors.As(err, &fe) && !fe.Temporary() {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.retryMax),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Warn("retrying posts fetch", zap.Error(err), zap.Duration("in", next))
		}),
	)
}

func (c *Client) get(ctx context.Context) ([]Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FetchError{URL: c.url, Message: err.Error(), err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: c.url, Message: err.Error(), err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			URL:        c.url,
			Message:    string(body),
		}
	}

	var posts []Post
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			URL:        c.url,
			Message:    fmt.Sprintf("decode posts: %v", err),
		}
	}
	if posts == nil {
		posts = []Post{}
	}
	c.logger.Debug("posts fetched", zap.String("url", c.url), zap.Int("count", len(posts)))
	return posts, nil
}
