package stash

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	c := New[int](WithClock(newMockClock()))
	defer c.Destroy()

	loaded := 0
	load := func(context.Context) (int, error) {
		loaded++
		return 42, nil
	}

	v, err := c.Fetch(context.Background(), "answer", 0, load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	// second call should use cache
	v, err = c.Fetch(context.Background(), "answer", 0, load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, loaded, "loader should not be called again (cached)")
}

func TestFetchUsesTTL(t *testing.T) {
	clk := newMockClock()
	c := New[int](WithClock(clk), WithTTL(time.Hour))
	defer c.Destroy()

	_, err := c.Fetch(context.Background(), "k", time.Second, func(context.Context) (int, error) {
		return 1, nil
	})
	require.NoError(t, err)

	clk.Advance(2 * time.Second)
	assert.False(t, c.Has("k"))
}

func TestFetchError(t *testing.T) {
	c := New[int]()
	defer c.Destroy()

	dbErr := stderrors.New("connection refused")
	_, err := c.Fetch(context.Background(), "animals:page=1", 0, func(context.Context) (int, error) {
		return 0, dbErr
	})
	require.ErrorIs(t, err, dbErr)

	var perr errors.PlatformError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "animals:page=1", perr.Context()["cache_key"])

	// should not be cached
	assert.False(t, c.Has("animals:page=1"), "failed load should not cache")
}

func TestFetchKeepsPlatformError(t *testing.T) {
	c := New[int]()
	defer c.Destroy()

	notFound := errors.New(errors.CodeNotFound, "animal not found")
	_, err := c.Fetch(context.Background(), "animal:9", 0, func(context.Context) (int, error) {
		return 0, notFound
	})
	require.Error(t, err)

	assert.True(t, errors.Is(err, notFound))
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	assert.Contains(t, err.Error(), "animal not found")
}

func TestFetchKeepsWrappedError(t *testing.T) {
	c := New[int]()
	defer c.Destroy()

	notFound := errors.New(errors.CodeNotFound, "animal not found")
	queryErr := fmt.Errorf("query animals: %w", notFound)
	_, err := c.Fetch(context.Background(), "animal:9", 0, func(context.Context) (int, error) {
		return 0, queryErr
	})
	require.Error(t, err)

	assert.True(t, errors.Is(err, queryErr))
	assert.True(t, errors.Is(err, notFound))
	assert.Contains(t, err.Error(), "query animals:")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	var perr errors.PlatformError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "animal:9", perr.Context()["cache_key"])
}

func TestFetchCallerCancelDoesNotAbortSharedLoad(t *testing.T) {
	c := New[int]()
	defer c.Destroy()

	var loadCount atomic.Int32
	started := make(chan struct{})
	proceed := make(chan struct{})
	var loadCtxErr atomic.Value
	load := func(ctx context.Context) (int, error) {
		loadCount.Add(1)
		close(started)
		<-proceed
		loadCtxErr.Store(fmt.Sprint(ctx.Err()))
		return 42, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Fetch(ctx, "herd:3", 0, load)
		firstErr <- err
	}()
	<-started

	type result struct {
		v   int
		err error
	}
	second := make(chan result, 1)
	go func() {
		v, err := c.Fetch(context.Background(), "herd:3", 0, load)
		second <- result{v, err}
	}()

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(proceed)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, 42, res.v)

	assert.Equal(t, int32(1), loadCount.Load())
	assert.Equal(t, "<nil>", loadCtxErr.Load(), "load must not see the caller's cancellation")
	assert.True(t, c.Has("herd:3"), "shared load still caches its result")
}

func TestFetchCanceledContext(t *testing.T) {
	c := New[int]()
	defer c.Destroy()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := c.Fetch(ctx, "k", 0, func(context.Context) (int, error) {
		called = true
		return 1, nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestFetchSingleFlight(t *testing.T) {
	c := New[int]()
	defer c.Destroy()

	var loadCount atomic.Int32
	proceed := make(chan struct{})
	load := func(context.Context) (int, error) {
		loadCount.Add(1)
		<-proceed
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 3)
	errs := make([]error, 3)

	for i := range 3 {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = c.Fetch(context.Background(), "key", 0, load)
		}(i)
	}

	// give goroutines time to start and coalesce on the same load call
	time.Sleep(10 * time.Millisecond)

	close(proceed)
	wg.Wait()

	assert.Equal(t, int32(1), loadCount.Load(), "single-flight should coalesce loads")
	for i, err := range errs {
		assert.NoError(t, err, "goroutine %d error", i)
		assert.Equal(t, 42, results[i], "goroutine %d result", i)
	}
}

func TestFetchNilInterfaceValue(t *testing.T) {
	c := New[any]()
	defer c.Destroy()

	v, err := c.Fetch(context.Background(), "k", 0, func(context.Context) (any, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.True(t, c.Has("k"))
}
