package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellikit/intellikit/backend"
)

func TestManager_OpenAndAcquire(t *testing.T) {
	m := NewManager(backend.NewMockBackend())

	id, err := m.Open(context.Background(), "be brief")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	sess, ok := m.Acquire(id)
	require.True(t, ok)
	assert.Equal(t, id, sess.ID)
	assert.Equal(t, "be brief", sess.Instructions)
	m.Release(id)

	assert.Equal(t, 1, m.Len())
}

func TestManager_OpenUniqueIDs(t *testing.T) {
	m := NewManager(backend.NewMockBackend())

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := m.Open(context.Background(), "")
		require.NoError(t, err)
		require.False(t, seen[id], "duplicate session id %s", id)
		seen[id] = true
	}
}

func TestManager_OpenBackendFailure(t *testing.T) {
	mock := backend.NewMockBackend()
	mock.FailOpen(errors.New("no capacity"))
	m := NewManager(mock)

	_, err := m.Open(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestManager_AcquireUnknown(t *testing.T) {
	m := NewManager(backend.NewMockBackend())

	_, ok := m.Acquire("nope")
	assert.False(t, ok)
}

func TestManager_CloseTwice(t *testing.T) {
	mock := backend.NewMockBackend()
	m := NewManager(mock)

	id, err := m.Open(context.Background(), "")
	require.NoError(t, err)

	assert.True(t, m.Close(id))
	assert.False(t, m.Close(id))
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 1, mock.ClosedCount())
}

func TestManager_CloseAll(t *testing.T) {
	mock := backend.NewMockBackend()
	m := NewManager(mock)

	for i := 0; i < 3; i++ {
		_, err := m.Open(context.Background(), "")
		require.NoError(t, err)
	}

	assert.Equal(t, 3, m.CloseAll())
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 3, mock.ClosedCount())
}

func TestManager_SweepEvictsExpired(t *testing.T) {
	mock := backend.NewMockBackend()
	m := NewManager(mock, func(o *Options) {
		o.IdleTimeout = time.Minute
	})

	stale, err := m.Open(context.Background(), "")
	require.NoError(t, err)
	fresh, err := m.Open(context.Background(), "")
	require.NoError(t, err)

	m.mu.Lock()
	m.sessions[stale].lastActivity = time.Now().Add(-2 * time.Minute)
	m.mu.Unlock()

	m.sweep(time.Now())

	_, ok := m.Acquire(stale)
	assert.False(t, ok, "stale session should be evicted")
	_, ok = m.Acquire(fresh)
	assert.True(t, ok, "fresh session should survive")
	m.Release(fresh)
	assert.Equal(t, 1, mock.ClosedCount())
}

func TestManager_SweepSkipsBusy(t *testing.T) {
	m := NewManager(backend.NewMockBackend(), func(o *Options) {
		o.IdleTimeout = time.Minute
	})

	id, err := m.Open(context.Background(), "")
	require.NoError(t, err)

	_, ok := m.Acquire(id)
	require.True(t, ok)

	m.mu.Lock()
	m.sessions[id].lastActivity = time.Now().Add(-2 * time.Minute)
	m.mu.Unlock()

	m.sweep(time.Now())
	assert.Equal(t, 1, m.Len(), "busy session must not be evicted")

	m.Release(id)
	m.sweep(time.Now())
	assert.Equal(t, 1, m.Len(), "release refreshed the activity clock")
}

func TestManager_AcquireRefreshesActivity(t *testing.T) {
	m := NewManager(backend.NewMockBackend(), func(o *Options) {
		o.IdleTimeout = time.Minute
	})

	id, err := m.Open(context.Background(), "")
	require.NoError(t, err)

	m.mu.Lock()
	m.sessions[id].lastActivity = time.Now().Add(-2 * time.Minute)
	m.mu.Unlock()

	_, ok := m.Acquire(id)
	require.True(t, ok)
	m.Release(id)

	m.sweep(time.Now())
	assert.Equal(t, 1, m.Len())
}

func TestManager_RunStopsOnCancel(t *testing.T) {
	m := NewManager(backend.NewMockBackend(), func(o *Options) {
		o.SweepInterval = time.Millisecond
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweep goroutine did not stop")
	}
}
