package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func echoHandler(req map[string]any) map[string]any {
	return success(map[string]any{"command": req["command"], "account": req["account"]})
}

func newTestManager(url string) *Manager {
	return NewManager(Options{
		URL:            url,
		DialTimeout:    2 * time.Second,
		RequestTimeout: 2 * time.Second,
		ReconnectMin:   10 * time.Millisecond,
		ReconnectMax:   50 * time.Millisecond,
	}, zap.NewNop())
}

func TestAcquireSingleDialUnderConcurrency(t *testing.T) {
	srv := newFakeRippled(t, echoHandler)
	m := newTestManager(srv.URL())
	defer m.Release()

	const callers = 32
	conns := make([]*Conn, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := m.Acquire(context.Background())
			assert.NoError(t, err)
			conns[i] = c
		}(i)
	}
	wg.Wait()

	for _, c := range conns {
		assert.Same(t, conns[0], c)
	}
	assert.EqualValues(t, 1, srv.accepted.Load())
	assert.EqualValues(t, 1, m.Dials())
	assert.True(t, m.Connected())
}

func TestAcquireDialFailure(t *testing.T) {
	srv := newFakeRippled(t, echoHandler)
	url := srv.URL()
	srv.srv.Close()

	m := newTestManager(url)
	_, err := m.Acquire(context.Background())

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, url, connErr.URL)
	assert.True(t, IsTransient(err))
	assert.False(t, m.Connected())
}

func TestReleaseIsIdempotent(t *testing.T) {
	srv := newFakeRippled(t, echoHandler)
	m := newTestManager(srv.URL())

	c1, err := m.Acquire(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.Release())
	require.NoError(t, m.Release())
	assert.False(t, c1.IsConnected())
	assert.True(t, c1.Intentional())
	assert.False(t, m.Connected())

	c2, err := m.Acquire(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, c1, c2)
	assert.EqualValues(t, 2, srv.accepted.Load())
	require.NoError(t, m.Release())
}

func TestSuperviseReconnectsAfterDrop(t *testing.T) {
	srv := newFakeRippled(t, echoHandler)
	m := newTestManager(srv.URL())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Supervise(ctx) }()

	require.Eventually(t, m.Connected, 2*time.Second, 5*time.Millisecond)
	first, err := m.Acquire(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return srv.openConns() == 1 }, time.Second, 5*time.Millisecond)

	srv.dropAll()

	require.Eventually(t, func() bool {
		return srv.accepted.Load() == 2 && m.Connected()
	}, 2*time.Second, 5*time.Millisecond)

	second, err := m.Acquire(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	var out map[string]any
	require.NoError(t, second.Request(ctx, "ping", nil, &out))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not stop")
	}
	require.NoError(t, m.Release())
}

func TestSuperviseDoesNotRedialAfterRelease(t *testing.T) {
	srv := newFakeRippled(t, echoHandler)
	m := newTestManager(srv.URL())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = m.Supervise(ctx) }()

	require.Eventually(t, m.Connected, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, m.Release())

	time.Sleep(100 * time.Millisecond)
	assert.False(t, m.Connected())
	assert.EqualValues(t, 1, srv.accepted.Load())
}

func TestRequestAfterCloseIsNetworkError(t *testing.T) {
	srv := newFakeRippled(t, echoHandler)
	m := newTestManager(srv.URL())

	c, err := m.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, m.Release())

	err = c.Request(context.Background(), "ping", nil, nil)
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, errors.Is(err, ErrClosed))
}
