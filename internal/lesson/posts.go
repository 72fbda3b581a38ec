package lesson

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/on-the-ground/effect_ive_store/effects/binding"
	"github.com/on-the-ground/effect_ive_store/effects/concurrency"
	"github.com/on-the-ground/effect_ive_store/effects/configkeys"
	"github.com/on-the-ground/effect_ive_store/effects/log"
	"github.com/on-the-ground/effect_ive_store/internal/posts"
	"github.com/on-the-ground/effect_ive_store/store"
	"github.com/on-the-ground/effect_ive_store/thunk"
)

// PostsResult is what AsyncThunk observed.
type PostsResult struct {
	Final    posts.State
	Outcomes []thunk.Outcome[[]posts.Post]
	// Observed holds every state the subscriber saw, in order.
	Observed []posts.State
}

// NewPostsClient builds the posts client from the bindings in ctx.
func NewPostsClient(ctx context.Context) (*posts.Client, error) {
	opts := []posts.ClientOption{
		posts.WithTimeout(binding.GetOrDefault(ctx, configkeys.ConfigPostsTimeout, 10*time.Second)),
	}
	if n := binding.GetOrDefault(ctx, configkeys.ConfigPostsRetryMax, uint(0)); n > 1 {
		interval := binding.GetOrDefault(ctx, configkeys.ConfigPostsRetryInterval, 200*time.Millisecond)
		opts = append(opts, posts.WithRetry(n, interval))
	}
	if ttl := binding.GetOrDefault(ctx, configkeys.ConfigPostsCacheTTL, time.Duration(0)); ttl > 0 {
		opts = append(opts, posts.WithCache(ttl))
	}
	return posts.NewClient(binding.GetOrDefault(ctx, configkeys.ConfigPostsURL, posts.DefaultURL), opts...)
}

// AsyncThunk subscribes a logger to the posts store, starts runs fetches
// concurrently and waits for all of them to settle.
func AsyncThunk(ctx context.Context, fetcher posts.Fetcher, runs int) (PostsResult, error) {
	if runs < 1 {
		return PostsResult{}, fmt.Errorf("lesson: runs must be positive, got %d", runs)
	}

	slice := posts.Slice()
	s, err := store.Configure(ctx, store.Config[posts.State]{
		Reducer:        slice.Reducer,
		PreloadedState: slice.InitialState,
		Middleware:     []store.Middleware[posts.State]{logDispatches[posts.State](ctx)},
		BufferSize:     storeBufferSize(ctx),
	})
	if err != nil {
		return PostsResult{}, err
	}
	defer s.Close()

	var (
		mu       sync.Mutex
		observed []posts.State
	)
	unsubscribe := s.Subscribe(func(_ context.Context, st posts.State) {
		mu.Lock()
		observed = append(observed, st)
		mu.Unlock()
		fields := map[string]interface{}{
			"loading": st.Loading,
			"posts":   len(st.Posts),
		}
		if st.Error != nil {
			fields["error"] = st.Error.Error()
		}
		log.Effect(ctx, log.LogInfo, "posts state", fields)
	})
	defer unsubscribe()

	fetch := posts.NewFetchPosts(fetcher)
	outcomes := make([]thunk.Outcome[[]posts.Post], runs)
	fns := make([]func(context.Context), runs)
	for i := range fns {
		fns[i] = func(child context.Context) {
			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			stop := context.AfterFunc(child, cancel)
			defer stop()
			outcomes[i] = fetch.Run(runCtx, s, struct{}{})
		}
	}

	concurrencySize := binding.GetOrDefault(ctx, configkeys.ConfigEffectConcurrencyBufferSize, 10)
	cctx, endOfConcurrency := concurrency.WithEffectHandler(ctx, concurrencySize)
	accepted := concurrency.Effect(cctx, fns...)
	endOfConcurrency()
	if !accepted {
		if err := ctx.Err(); err != nil {
			return PostsResult{}, fmt.Errorf("lesson: fetches not started: %w", err)
		}
		return PostsResult{}, errors.New("lesson: fetches not started")
	}

	final := s.State()
	for _, out := range outcomes {
		if out.Fulfilled() {
			continue
		}
		fields := map[string]interface{}{"requestId": out.RequestID}
		if out.Err != nil {
			fields["error"] = out.Err.Error()
		}
		log.Effect(ctx, log.LogWarn, "fetch rejected", fields)
	}
	reportAuthors(ctx, final)

	mu.Lock()
	defer mu.Unlock()
	return PostsResult{Final: final, Outcomes: outcomes, Observed: slices.Clone(observed)}, nil
}

func reportAuthors(ctx context.Context, st posts.State) {
	users := posts.SelectUserIDs(st)
	perUser := make(map[int]int, len(users))
	for _, uid := range users {
		perUser[uid] = len(posts.SelectByUser(st, uid))
	}
	fields := map[string]interface{}{
		"authors": len(users),
		"perUser": perUser,
	}
	if latest, ok := posts.SelectLatest(st); ok {
		fields["latest"] = latest.Title
	}
	log.Effect(ctx, log.LogInfo, "posts report", fields)
}
