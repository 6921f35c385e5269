package async_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/delayed/pkg/async"
)

func TestAsync(t *testing.T) {
	t.Parallel()

	t.Run("returns function result", func(t *testing.T) {
		t.Parallel()
		future := async.Async(context.Background(), 42, func(_ context.Context, num int) (string, error) {
			time.Sleep(10 * time.Millisecond)
			return fmt.Sprintf("Number: %d", num), nil
		})

		result, err := future.Await()
		require.NoError(t, err)
		assert.Equal(t, "Number: 42", result)
		assert.True(t, future.IsComplete())
	})

	t.Run("propagates function error", func(t *testing.T) {
		t.Parallel()
		expectedErr := errors.New("an error occurred in the async function")
		future := async.Async(context.Background(), 42, func(_ context.Context, _ int) (int, error) {
			return 0, expectedErr
		})

		result, err := future.Await()
		assert.ErrorIs(t, err, expectedErr)
		assert.Zero(t, result)
	})

	t.Run("skips function when context already cancelled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var called atomic.Bool
		future := async.Async(ctx, 1, func(_ context.Context, n int) (int, error) {
			called.Store(true)
			return n, nil
		})

		_, err := future.Await()
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called.Load())
	})

	t.Run("function observes context deadline", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		future := async.Async(ctx, 42, func(ctx context.Context, num int) (string, error) {
			select {
			case <-time.After(time.Second):
				return fmt.Sprintf("Number: %d", num), nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		})

		result, err := future.Await()
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Empty(t, result)
	})
}

func TestNewPromise(t *testing.T) {
	t.Parallel()

	t.Run("first settle wins", func(t *testing.T) {
		t.Parallel()
		future, settle := async.NewPromise[string]()
		assert.False(t, future.IsComplete())

		assert.True(t, settle("first", nil))
		assert.False(t, settle("second", errors.New("late")))

		result, err := future.Await()
		require.NoError(t, err)
		assert.Equal(t, "first", result)
	})

	t.Run("rejection keeps result value", func(t *testing.T) {
		t.Parallel()
		future, settle := async.NewPromise[int]()
		rejectErr := errors.New("rejected")
		settle(7, rejectErr)

		result, err := future.Await()
		assert.ErrorIs(t, err, rejectErr)
		assert.Equal(t, 7, result)
	})

	t.Run("concurrent settles produce one winner", func(t *testing.T) {
		t.Parallel()
		future, settle := async.NewPromise[int]()

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := range 64 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if settle(i, nil) {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
		<-future.Done()
		assert.True(t, future.IsComplete())
	})
}

func TestFuture_AwaitWithTimeout(t *testing.T) {
	t.Parallel()

	t.Run("returns result when settled in time", func(t *testing.T) {
		t.Parallel()
		future, settle := async.NewPromise[string]()
		settle("success", nil)

		result, err := future.AwaitWithTimeout(100 * time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, "success", result)
	})

	t.Run("times out without settling", func(t *testing.T) {
		t.Parallel()
		future, settle := async.NewPromise[string]()

		result, err := future.AwaitWithTimeout(10 * time.Millisecond)
		assert.ErrorIs(t, err, async.ErrTimeout)
		assert.Empty(t, result)
		assert.False(t, future.IsComplete())

		assert.True(t, settle("late", nil))
	})
}

func TestFuture_AwaitContext(t *testing.T) {
	t.Parallel()

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		future, _ := async.NewPromise[int]()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := future.AwaitContext(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("settled future wins over cancelled context", func(t *testing.T) {
		t.Parallel()
		future, settle := async.NewPromise[int]()
		settle(3, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := future.AwaitContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, result)
	})

	t.Run("settles while waiting", func(t *testing.T) {
		t.Parallel()
		future, settle := async.NewPromise[int]()
		time.AfterFunc(5*time.Millisecond, func() { settle(9, nil) })

		result, err := future.AwaitContext(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 9, result)
	})
}
