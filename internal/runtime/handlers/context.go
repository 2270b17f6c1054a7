package handlers

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"google.golang.org/grpc/metadata"
)

// CallContext carries the per-call server state handed to a handler as its
// second argument. The dispatch runtime never inspects it.
type CallContext struct {
	// ID is a time-sortable ULID unique to this call.
	ID     string
	Method string
	Host   string
	Peer   string
	// Deadline is informational; Context is never cancelled by it.
	Deadline       time.Time
	RequestHeaders metadata.MD
	// Context carries RequestHeaders as incoming gRPC metadata.
	Context      context.Context
	WriteHeaders func(metadata.MD) error
}

// Done mirrors context.Context so handlers can select on cancellation. A call
// without a Context is never cancelled.
func (c *CallContext) Done() <-chan struct{} {
	return c.ctx().Done()
}

// Err reports why Context was cancelled, if it was.
func (c *CallContext) Err() error {
	return c.ctx().Err()
}

func (c *CallContext) ctx() context.Context {
	if c.Context == nil {
		return context.Background()
	}
	return c.Context
}

// Header returns the first value of a request header.
func (c *CallContext) Header(key string) string {
	if values := c.RequestHeaders.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

// CallOption customises a test call context.
type CallOption func(*CallContext)

// WithMethod sets the full method name of the call.
func WithMethod(method string) CallOption {
	return func(c *CallContext) { c.Method = method }
}

// WithHost sets the host the call was addressed to.
func WithHost(host string) CallOption {
	return func(c *CallContext) { c.Host = host }
}

// WithPeer sets the remote address of the caller.
func WithPeer(peer string) CallOption {
	return func(c *CallContext) { c.Peer = peer }
}

// WithDeadline sets the informational deadline.
func WithDeadline(deadline time.Time) CallOption {
	return func(c *CallContext) { c.Deadline = deadline }
}

// WithRequestHeaders copies md into the call's request headers.
func WithRequestHeaders(md metadata.MD) CallOption {
	return func(c *CallContext) { c.RequestHeaders = md.Copy() }
}

// WithParentContext replaces the background context the call context derives from.
func WithParentContext(ctx context.Context) CallOption {
	return func(c *CallContext) { c.Context = ctx }
}

// WithHeaderWriter replaces the no-op response header writer.
func WithHeaderWriter(fn func(metadata.MD) error) CallOption {
	return func(c *CallContext) { c.WriteHeaders = fn }
}

// Defaults used by NewTestCallContext.
const (
	DefaultTestMethod = "MyMethod"
	DefaultTestHost   = "localhost"
	DefaultTestPeer   = "127.0.0.1"
	DefaultTestTTL    = time.Minute
)

// NewTestCallContext builds a stand-in server call context: method MyMethod on
// localhost from peer 127.0.0.1, a deadline one minute out, no headers and a
// context that is never cancelled.
func NewTestCallContext(opts ...CallOption) *CallContext {
	call := &CallContext{
		ID:             newCallID(),
		Method:         DefaultTestMethod,
		Host:           DefaultTestHost,
		Peer:           DefaultTestPeer,
		Deadline:       time.Now().Add(DefaultTestTTL),
		RequestHeaders: metadata.MD{},
		Context:        context.Background(),
		WriteHeaders:   func(metadata.MD) error { return nil },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(call)
		}
	}
	if call.RequestHeaders == nil {
		call.RequestHeaders = metadata.MD{}
	}
	if call.Context == nil {
		call.Context = context.Background()
	}
	call.Context = metadata.NewIncomingContext(call.Context, call.RequestHeaders)
	return call
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

func newCallID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
