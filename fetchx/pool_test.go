package fetchx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(host string) connKey {
	return connKey{scheme: "http", host: host, port: "80"}
}

func newTestRegistry(max int) *registry {
	return newRegistry(max, time.Minute, nil, nil)
}

func TestRegistryDialGrantAndAbandon(t *testing.T) {
	r := newTestRegistry(1)
	id := testKey("h")

	c, err := r.acquire(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, c, "empty pool grants a dial")
	assert.Equal(t, 1, r.activeCount())

	r.abandon(id.host)
	assert.Equal(t, 0, r.activeCount())
	c, err = r.acquire(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, c)
	r.abandon(id.host)
}

func TestRegistryIdleReuseMRU(t *testing.T) {
	r := newTestRegistry(4)
	id := testKey("h")

	var conns []*conn
	for i := 0; i < 2; i++ {
		g, err := r.acquire(context.Background(), id)
		require.NoError(t, err)
		require.Nil(t, g)
		conns = append(conns, newConn(id, nil, 0))
	}
	r.putIdle(conns[0])
	r.putIdle(conns[1])
	assert.Equal(t, 0, r.activeCount())

	got, err := r.acquire(context.Background(), id)
	require.NoError(t, err)
	assert.Same(t, conns[1], got, "most recently idled is reused first")
	assert.True(t, got.reused)
	assert.Equal(t, 1, r.activeCount())
}

func TestRegistryCapBlocksAndFIFO(t *testing.T) {
	r := newTestRegistry(1)
	id := testKey("h")

	g, err := r.acquire(context.Background(), id)
	require.NoError(t, err)
	require.Nil(t, g)

	order := make(chan int, 2)
	waiterBody := func(i int) {
		g, err := r.acquire(context.Background(), id)
		assert.NoError(t, err)
		assert.Nil(t, g)
		order <- i
	}
	go waiterBody(1)
	time.Sleep(20 * time.Millisecond) // let waiter 1 enqueue first
	go waiterBody(2)
	time.Sleep(20 * time.Millisecond)

	r.abandon(id.host) // frees the slot; waiter 1 inherits it
	require.Equal(t, 1, <-order)
	r.abandon(id.host)
	require.Equal(t, 2, <-order)
	r.abandon(id.host)
	assert.Equal(t, 0, r.activeCount())
}

func TestRegistryIdleHandedToWaiter(t *testing.T) {
	r := newTestRegistry(1)
	id := testKey("h")

	g, err := r.acquire(context.Background(), id)
	require.NoError(t, err)
	require.Nil(t, g)
	c := newConn(id, nil, 0)

	got := make(chan *conn, 1)
	go func() {
		wc, err := r.acquire(context.Background(), id)
		assert.NoError(t, err)
		got <- wc
	}()
	time.Sleep(30 * time.Millisecond) // waiter is queued

	r.putIdle(c)
	select {
	case wc := <-got:
		assert.Same(t, c, wc, "idle connection is handed straight to the waiter")
	case <-time.After(time.Second):
		t.Fatal("waiter was not released")
	}
	assert.Equal(t, 1, r.activeCount())
	r.destroy(c)
	assert.Equal(t, 0, r.activeCount())
}

func TestRegistryWaiterCancellation(t *testing.T) {
	r := newTestRegistry(1)
	id := testKey("h")

	g, err := r.acquire(context.Background(), id)
	require.NoError(t, err)
	require.Nil(t, g)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := r.acquire(ctx, id)
		errCh <- err
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrCancelled)
	case <-time.After(time.Second):
		t.Fatal("cancelled waiter did not return")
	}

	// The slot is still usable by others.
	r.abandon(id.host)
	g, err = r.acquire(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, g)
	r.abandon(id.host)
}

func TestRegistryIdleExpiry(t *testing.T) {
	r := newRegistry(1, 50*time.Millisecond, nil, nil)
	id := testKey("h")

	g, err := r.acquire(context.Background(), id)
	require.NoError(t, err)
	require.Nil(t, g)
	c := newConn(id, nil, 0)
	r.putIdle(c)

	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return len(r.idle) == 0 && r.perHost[id.host] == 0
	}, time.Second, 10*time.Millisecond, "idle connection expires and frees the slot")

	// Expiry is idempotent against a late destroy.
	r.destroy(c)
	assert.Equal(t, 0, r.activeCount())
}

func TestRegistryDestroyWakesWaiter(t *testing.T) {
	r := newTestRegistry(1)
	id := testKey("h")

	g, err := r.acquire(context.Background(), id)
	require.NoError(t, err)
	require.Nil(t, g)
	c := newConn(id, nil, 0)

	granted := make(chan *conn, 1)
	go func() {
		wc, err := r.acquire(context.Background(), id)
		assert.NoError(t, err)
		granted <- wc
	}()
	time.Sleep(30 * time.Millisecond)

	r.destroy(c)
	select {
	case wc := <-granted:
		assert.Nil(t, wc, "destroy grants a fresh dial, not a connection")
	case <-time.After(time.Second):
		t.Fatal("waiter not woken by destroy")
	}
	r.abandon(id.host)
}
