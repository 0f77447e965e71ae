package generator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kolah/routespec/model"
	"github.com/stretchr/testify/require"
)

// countingSource blocks in Endpoints until release is closed.
type countingSource struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
	err     error
}

func newCountingSource() *countingSource {
	return &countingSource{
		entered: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (s *countingSource) Endpoints(ctx context.Context) ([]model.Endpoint, error) {
	s.calls.Add(1)
	s.entered <- struct{}{}
	<-s.release
	if s.err != nil {
		return nil, s.err
	}
	return usersEndpoints(), nil
}

func TestProviderSharesOnePass(t *testing.T) {
	src := newCountingSource()
	p := NewProvider(New(WithInfo(testInfo), WithoutMetaSchema()), src)

	const callers = 8
	results := make([]*Result, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := p.Result(context.Background())
			require.NoError(t, err)
			results[i] = res
		}()
	}

	<-src.entered
	time.Sleep(20 * time.Millisecond)
	close(src.release)
	wg.Wait()

	require.Equal(t, int32(1), src.calls.Load())
	for _, res := range results {
		require.Same(t, results[0], res)
	}

	again, err := p.Result(context.Background())
	require.NoError(t, err)
	require.Same(t, results[0], again)
	require.Equal(t, int32(1), src.calls.Load())
}

func TestProviderInvalidate(t *testing.T) {
	src := newCountingSource()
	close(src.release)
	p := NewProvider(New(WithInfo(testInfo), WithoutMetaSchema()), src)

	first, err := p.Result(context.Background())
	require.NoError(t, err)

	p.Invalidate()
	second, err := p.Result(context.Background())
	require.NoError(t, err)
	require.NotSame(t, first, second)
	require.Equal(t, first.JSON, second.JSON)
	require.Equal(t, int32(2), src.calls.Load())
}

func TestProviderDoesNotCacheFailure(t *testing.T) {
	src := newCountingSource()
	src.err = errors.New("router not ready")
	close(src.release)
	p := NewProvider(New(WithInfo(testInfo), WithoutMetaSchema()), src)

	_, err := p.Result(context.Background())
	require.ErrorContains(t, err, "router not ready")

	src.err = nil
	res, err := p.Result(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, int32(2), src.calls.Load())
}

func TestProviderCallerCancellation(t *testing.T) {
	src := newCountingSource()
	p := NewProvider(New(WithInfo(testInfo), WithoutMetaSchema()), src)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := p.Result(ctx)
		errc <- err
	}()

	<-src.entered
	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)

	close(src.release)
	res, err := p.Result(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, int32(1), src.calls.Load())
}

func TestStaticSource(t *testing.T) {
	src := StaticSource(usersEndpoints())
	got, err := src.Endpoints(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	got[0].Path = "/changed"
	require.Equal(t, "/users", src[0].Path)
}
