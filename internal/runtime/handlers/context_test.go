package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"
)

func TestNewTestCallContextDefaults(t *testing.T) {
	before := time.Now()
	call := NewTestCallContext()

	assert.Len(t, call.ID, 26)
	assert.Equal(t, "MyMethod", call.Method)
	assert.Equal(t, "localhost", call.Host)
	assert.Equal(t, "127.0.0.1", call.Peer)
	assert.WithinDuration(t, before.Add(time.Minute), call.Deadline, 5*time.Second)
	assert.Empty(t, call.RequestHeaders)
	assert.NoError(t, call.WriteHeaders(metadata.Pairs("x", "y")))
	assert.NoError(t, call.Err())

	select {
	case <-call.Done():
		t.Fatal("test call context must not be cancelled")
	default:
	}

	md, ok := metadata.FromIncomingContext(call.Context)
	require.True(t, ok)
	assert.Empty(t, md)
}

func TestNewTestCallContextOptions(t *testing.T) {
	deadline := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	var written metadata.MD
	parent, cancel := context.WithCancel(context.Background())

	call := NewTestCallContext(
		WithMethod("/bench.Greeter/HelloWorld"),
		WithHost("bench.local"),
		WithPeer("10.0.0.1:5000"),
		WithDeadline(deadline),
		WithRequestHeaders(metadata.Pairs("X-Tenant", "acme")),
		WithParentContext(parent),
		WithHeaderWriter(func(md metadata.MD) error {
			written = md
			return nil
		}),
		nil,
	)

	assert.Equal(t, "/bench.Greeter/HelloWorld", call.Method)
	assert.Equal(t, "bench.local", call.Host)
	assert.Equal(t, "10.0.0.1:5000", call.Peer)
	assert.Equal(t, deadline, call.Deadline)
	assert.Equal(t, "acme", call.Header("x-tenant"))
	assert.Equal(t, "", call.Header("missing"))

	md, ok := metadata.FromIncomingContext(call.Context)
	require.True(t, ok)
	assert.Equal(t, []string{"acme"}, md.Get("x-tenant"))

	require.NoError(t, call.WriteHeaders(metadata.Pairs("k", "v")))
	assert.Equal(t, []string{"v"}, written.Get("k"))

	cancel()
	<-call.Done()
	assert.ErrorIs(t, call.Err(), context.Canceled)
}

func TestCallIDsAreUniqueAndOrdered(t *testing.T) {
	prev := ""
	for i := 0; i < 100; i++ {
		id := NewTestCallContext().ID
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestCallContextWithoutContext(t *testing.T) {
	call := &CallContext{ID: "manual"}

	assert.NoError(t, call.Err())
	select {
	case <-call.Done():
		t.Fatal("call without a context must not be cancelled")
	default:
	}
	assert.Empty(t, call.Header("x"))
}
