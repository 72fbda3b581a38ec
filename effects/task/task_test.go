package task_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/on-the-ground/effect_ive_store/effects"
	"github.com/on-the-ground/effect_ive_store/effects/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_Success(t *testing.T) {
	ch := task.Run(context.Background(), func(ctx context.Context) (string, error) {
		time.Sleep(50 * time.Millisecond)
		return "ok", nil
	})

	select {
	case res := <-ch:
		require.NoError(t, res.Err)
		assert.Equal(t, "ok", res.Value)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for task result")
	}

	_, open := <-ch
	assert.False(t, open, "result channel should be closed after one result")
}

func TestTask_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ch := task.Run(ctx, func(ctx context.Context) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Second):
			return "too late", nil
		}
	})

	select {
	case res := <-ch:
		assert.True(t, errors.Is(res.Err, context.DeadlineExceeded), "got %v", res.Err)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for task result")
	}
}

func TestTask_Parallel(t *testing.T) {
	ctx := context.Background()

	results := make([]<-chan effects.ResumableResult[int], 0, 5)
	for i := 0; i < 5; i++ {
		n := i
		results = append(results, task.Run(ctx, func(ctx context.Context) (int, error) {
			time.Sleep(time.Duration(10+n*10) * time.Millisecond)
			return n * 2, nil
		}))
	}

	for i, ch := range results {
		select {
		case res := <-ch:
			require.NoError(t, res.Err)
			assert.Equal(t, i*2, res.Value)
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for task %d", i)
		}
	}
}

func TestTask_PanicBecomesError(t *testing.T) {
	_, err := task.Await(context.Background(), func(ctx context.Context) (int, error) {
		panic("boom")
	})

	var panicErr *task.PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, "boom", panicErr.Value)
}
