package runtime

import (
	"bytes"
	"fmt"
	"reflect"

	"google.golang.org/protobuf/proto"

	"github.com/drblury/dispatchbench/internal/runtime/benchpb"
	codecpkg "github.com/drblury/dispatchbench/internal/runtime/codec"
	configpkg "github.com/drblury/dispatchbench/internal/runtime/config"
	errspkg "github.com/drblury/dispatchbench/internal/runtime/errors"
	"github.com/drblury/dispatchbench/internal/runtime/handlers"
	"github.com/drblury/dispatchbench/internal/runtime/invoke"
	loggingpkg "github.com/drblury/dispatchbench/internal/runtime/logging"
)

// DefaultFallbackName names the response substituted when a handler result
// cannot be unwrapped.
const DefaultFallbackName = "Exec"

// UnwrapPolicy decides what happens when a handler's result cannot be unwrapped.
type UnwrapPolicy int

const (
	// FallbackOnUnwrapFailure substitutes the fixture's fallback response.
	FallbackOnUnwrapFailure UnwrapPolicy = iota
	// StrictUnwrap returns ErrResultUnwrap to the caller.
	StrictUnwrap
)

func (p UnwrapPolicy) String() string {
	switch p {
	case FallbackOnUnwrapFailure:
		return configpkg.UnwrapPolicyFallback
	case StrictUnwrap:
		return configpkg.UnwrapPolicyStrict
	default:
		return fmt.Sprintf("unwrap_policy(%d)", int(p))
	}
}

// Valid reports whether p is one of the declared policies.
func (p UnwrapPolicy) Valid() bool {
	return p == FallbackOnUnwrapFailure || p == StrictUnwrap
}

// ParseUnwrapPolicy maps "fallback" (or "") and "strict" to a policy.
func ParseUnwrapPolicy(name string) (UnwrapPolicy, error) {
	switch configpkg.NormalizeUnwrapPolicy(name) {
	case "", configpkg.UnwrapPolicyFallback:
		return FallbackOnUnwrapFailure, nil
	case configpkg.UnwrapPolicyStrict:
		return StrictUnwrap, nil
	default:
		return 0, fmt.Errorf("%w %q", errspkg.ErrUnknownUnwrapPolicy, name)
	}
}

// Fixture is the input shared by every strategy in a run.
type Fixture struct {
	HandlerName string
	// Payload is the request already encoded with the run's codec.
	Payload []byte
	// Fallback is encoded in place of a result that cannot be unwrapped.
	Fallback proto.Message
}

// NewFixture encodes request once with c. The fallback defaults to a
// Response named DefaultFallbackName.
func NewFixture(handlerName string, request proto.Message, c codecpkg.Codec) (Fixture, error) {
	payload, err := codecpkg.Encode(c, request)
	if err != nil {
		return Fixture{}, fmt.Errorf("encode fixture request: %w", err)
	}
	return Fixture{
		HandlerName: handlerName,
		Payload:     payload,
		Fallback:    &benchpb.Response{Name: DefaultFallbackName},
	}, nil
}

// EntryPoint runs one full dispatch iteration.
type EntryPoint func() ([]byte, error)

// RunnerOption customises NewRunner.
type RunnerOption func(*runnerOptions)

type runnerOptions struct {
	codec       codecpkg.Codec
	logger      loggingpkg.ServiceLogger
	policy      UnwrapPolicy
	newCall     func() *handlers.CallContext
	middlewares []Middleware
	onBuild     func(reflect.Method)
	onFallback  []func(invoke.Strategy, error)
}

// WithCodec selects the codec for request decoding and response encoding. It
// must match the codec that produced the fixture payload.
func WithCodec(c codecpkg.Codec) RunnerOption {
	return func(o *runnerOptions) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithLogger receives setup, fallback and resolution logs.
func WithLogger(logger loggingpkg.ServiceLogger) RunnerOption {
	return func(o *runnerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithUnwrapPolicy selects fallback or strict handling of results that cannot
// be unwrapped. NewRunner rejects any other value.
func WithUnwrapPolicy(p UnwrapPolicy) RunnerOption {
	return func(o *runnerOptions) { o.policy = p }
}

// WithCallContextFactory replaces handlers.NewTestCallContext as the source
// of per-iteration call contexts.
func WithCallContextFactory(fn func() *handlers.CallContext) RunnerOption {
	return func(o *runnerOptions) {
		if fn != nil {
			o.newCall = fn
		}
	}
}

// WithMiddlewares wraps every dispatch; the first middleware is outermost.
func WithMiddlewares(mws ...Middleware) RunnerOption {
	return func(o *runnerOptions) { o.middlewares = append(o.middlewares, mws...) }
}

// WithBuildHook observes compiled thunk construction.
func WithBuildHook(fn func(reflect.Method)) RunnerOption {
	return func(o *runnerOptions) { o.onBuild = fn }
}

// WithUnwrapFallbackHook is called whenever the fallback response is used.
func WithUnwrapFallbackHook(fn func(invoke.Strategy, error)) RunnerOption {
	return func(o *runnerOptions) {
		if fn != nil {
			o.onFallback = append(o.onFallback, fn)
		}
	}
}

// WithMetrics records dispatch counts, durations and fallbacks on m.
func WithMetrics(m *DispatchMetrics) RunnerOption {
	return func(o *runnerOptions) {
		if m == nil {
			return
		}
		o.middlewares = append(o.middlewares, MetricsMiddleware(m))
		o.onFallback = append(o.onFallback, func(s invoke.Strategy, _ error) { m.RecordUnwrapFallback(s) })
	}
}

// Runner executes decode, invoke, unwrap and encode for a resolved handler.
// It is read-only after NewRunner and safe for concurrent use.
type Runner struct {
	descriptor *handlers.Descriptor
	codec      codecpkg.Codec
	payload    []byte
	fallback   proto.Message
	policy     UnwrapPolicy
	logger     loggingpkg.ServiceLogger
	newCall    func() *handlers.CallContext
	onFallback []func(invoke.Strategy, error)
	dispatch   DispatchFunc
}

var callContextType = reflect.TypeOf((*handlers.CallContext)(nil))

// NewRunner resolves fixture.HandlerName on container. The handler must take
// exactly a request message and a *handlers.CallContext.
func NewRunner(container any, fixture Fixture, opts ...RunnerOption) (*Runner, error) {
	o := runnerOptions{
		codec:   codecpkg.Default,
		logger:  loggingpkg.NopServiceLogger(),
		policy:  FallbackOnUnwrapFailure,
		newCall: func() *handlers.CallContext { return handlers.NewTestCallContext() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if !o.policy.Valid() {
		return nil, fmt.Errorf("%w: %v", errspkg.ErrUnknownUnwrapPolicy, o.policy)
	}

	descriptor, err := handlers.Resolve(container, fixture.HandlerName,
		handlers.WithCodec(o.codec),
		handlers.WithBuildHook(o.onBuild),
		handlers.WithLogger(o.logger),
	)
	if err != nil {
		return nil, err
	}
	if n := descriptor.NumParams(); n != 2 {
		return nil, fmt.Errorf("%w: %s takes %d parameters, want request and call context", errspkg.ErrInvalidHandlerSignature, descriptor.Name(), n)
	}
	if second := descriptor.Method().Type.In(2); !callContextType.AssignableTo(second) {
		return nil, fmt.Errorf("%w: %s second parameter is %s, want %s", errspkg.ErrInvalidHandlerSignature, descriptor.Name(), second, callContextType)
	}

	fallback := fixture.Fallback
	if fallback == nil {
		fallback = &benchpb.Response{Name: DefaultFallbackName}
	}

	r := &Runner{
		descriptor: descriptor,
		codec:      o.codec,
		payload:    bytes.Clone(fixture.Payload),
		fallback:   proto.Clone(fallback),
		policy:     o.policy,
		logger:     o.logger.With(loggingpkg.LogFields{"handler": descriptor.Name()}),
		newCall:    o.newCall,
		onFallback: o.onFallback,
	}
	r.dispatch = Chain(r.dispatchOnce, o.middlewares...)
	return r, nil
}

// NewRunnerFromConfig builds the fixture, codec and policy from cfg. Options
// in opts are applied after the configured ones.
func NewRunnerFromConfig(container any, cfg *configpkg.Config, opts ...RunnerOption) (*Runner, error) {
	if err := configpkg.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	c, err := codecpkg.ByName(cfg.Codec)
	if err != nil {
		return nil, err
	}
	policy, err := ParseUnwrapPolicy(cfg.UnwrapPolicy)
	if err != nil {
		return nil, err
	}
	fixture, err := NewFixture(cfg.Handler, &benchpb.Hello{Name: cfg.RequestName}, c)
	if err != nil {
		return nil, err
	}
	fixture.Fallback = &benchpb.Response{Name: cfg.FallbackName}

	base := []RunnerOption{WithCodec(c), WithUnwrapPolicy(policy)}
	return NewRunner(container, fixture, append(base, opts...)...)
}

// Descriptor exposes the resolved handler.
func (r *Runner) Descriptor() *handlers.Descriptor { return r.descriptor }

// Policy is the unwrap policy in effect.
func (r *Runner) Policy() UnwrapPolicy { return r.policy }

// Dispatch runs one iteration with strategy. A nil call gets a fresh context
// from the configured factory.
func (r *Runner) Dispatch(strategy invoke.Strategy, call *handlers.CallContext) ([]byte, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: %v", errspkg.ErrUnknownStrategy, strategy)
	}
	if call == nil {
		call = r.newCall()
	}
	return r.dispatch(strategy, call)
}

// EntryPoint returns a zero-argument function that performs one iteration
// with a fresh call context each time it is called.
func (r *Runner) EntryPoint(strategy invoke.Strategy) (EntryPoint, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: %v", errspkg.ErrUnknownStrategy, strategy)
	}
	return func() ([]byte, error) {
		return r.dispatch(strategy, r.newCall())
	}, nil
}

func (r *Runner) dispatchOnce(strategy invoke.Strategy, call *handlers.CallContext) ([]byte, error) {
	inv, err := r.descriptor.Invoker(strategy)
	if err != nil {
		return nil, err
	}

	request, err := r.descriptor.DecodeWith(strategy, r.payload)
	if err != nil {
		return nil, err
	}

	raw, err := inv.Invoke(r.descriptor.Container(), []any{request, call})
	if err != nil {
		return nil, err
	}

	response, err := handlers.UnwrapResult(raw)
	if err != nil {
		if r.policy == StrictUnwrap {
			return nil, err
		}
		r.reportFallback(strategy, err)
		response = r.fallback
	}

	return codecpkg.Encode(r.codec, response)
}

func (r *Runner) reportFallback(strategy invoke.Strategy, err error) {
	r.logger.Debug("Using fallback response", loggingpkg.LogFields{
		"strategy": strategy.String(),
		"error":    err.Error(),
	})
	for _, fn := range r.onFallback {
		fn(strategy, err)
	}
}
