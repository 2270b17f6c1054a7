package runtime

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/drblury/dispatchbench/internal/runtime/benchpb"
	codecpkg "github.com/drblury/dispatchbench/internal/runtime/codec"
	configpkg "github.com/drblury/dispatchbench/internal/runtime/config"
	"github.com/drblury/dispatchbench/internal/runtime/echo"
	errspkg "github.com/drblury/dispatchbench/internal/runtime/errors"
	"github.com/drblury/dispatchbench/internal/runtime/handlers"
	"github.com/drblury/dispatchbench/internal/runtime/invoke"
)

type testHandlers struct{}

func (h *testHandlers) Void(req *benchpb.Hello, call *handlers.CallContext) {}

func (h *testHandlers) Plain(req *benchpb.Hello, call *handlers.CallContext) *benchpb.Response {
	return &benchpb.Response{Name: req.GetName()}
}

func (h *testHandlers) Boom(req *benchpb.Hello, call *handlers.CallContext) *handlers.Completion[*benchpb.Response] {
	panic("boom")
}

func (h *testHandlers) Method(req *benchpb.Hello, call *handlers.CallContext) *handlers.Completion[*benchpb.Response] {
	return handlers.Completed(&benchpb.Response{Name: call.Method})
}

func (h *testHandlers) Single(req *benchpb.Hello) {}

func (h *testHandlers) WrongContext(req *benchpb.Hello, call string) {}

func init() {
	invoke.RegisterAction2[*testHandlers, *benchpb.Hello, *handlers.CallContext]()
}

var (
	benchmarkBytes = []byte{0x0a, 0x09, 'B', 'e', 'n', 'c', 'h', 'm', 'a', 'r', 'k'}
	execBytes      = []byte{0x0a, 0x04, 'E', 'x', 'e', 'c'}
)

func newFixture(t testing.TB, handler, name string) Fixture {
	t.Helper()
	fixture, err := NewFixture(handler, &benchpb.Hello{Name: name}, nil)
	require.NoError(t, err)
	return fixture
}

func newEchoRunner(t testing.TB, name string, opts ...RunnerOption) *Runner {
	t.Helper()
	runner, err := NewRunner(&echo.Service{}, newFixture(t, echo.HandlerName, name), opts...)
	require.NoError(t, err)
	return runner
}

func runAll(t *testing.T, runner *Runner) map[invoke.Strategy][]byte {
	t.Helper()
	out := make(map[invoke.Strategy][]byte, 3)
	for _, s := range invoke.Strategies() {
		entry, err := runner.EntryPoint(s)
		require.NoError(t, err)
		data, err := entry()
		require.NoError(t, err, s.String())
		out[s] = data
	}
	return out
}

func TestRunnerStrategiesProduceIdenticalBytes(t *testing.T) {
	runner := newEchoRunner(t, "Benchmark")
	for s, data := range runAll(t, runner) {
		assert.Equal(t, benchmarkBytes, data, s.String())
	}
}

type countingCodec struct {
	codecpkg.ProtoCodec
	unmarshals *int
}

func (c countingCodec) Unmarshal(data []byte, msg proto.Message) error {
	*c.unmarshals++
	return c.ProtoCodec.Unmarshal(data, msg)
}

func TestRunnerDecodesThroughStrategyDecoder(t *testing.T) {
	unmarshals := 0
	runner := newEchoRunner(t, "Benchmark", WithCodec(countingCodec{unmarshals: &unmarshals}))
	assert.True(t, runner.Descriptor().TypedDecoder())

	for _, s := range invoke.Strategies() {
		before := unmarshals
		data, err := runner.Dispatch(s, nil)
		require.NoError(t, err, s.String())
		assert.Equal(t, benchmarkBytes, data, s.String())
		assert.Equal(t, before+1, unmarshals, s.String())
	}
}

func TestRunnerEchoesExec(t *testing.T) {
	runner := newEchoRunner(t, "Exec")
	for s, data := range runAll(t, runner) {
		resp, err := codecpkg.Decode[*benchpb.Response](nil, data)
		require.NoError(t, err)
		assert.Equal(t, "Exec", resp.GetName(), s.String())
	}
}

func TestRunnerRepeatedIterationsAreStable(t *testing.T) {
	runner := newEchoRunner(t, "Benchmark")
	for _, s := range invoke.Strategies() {
		entry, err := runner.EntryPoint(s)
		require.NoError(t, err)
		for i := 0; i < 50; i++ {
			data, err := entry()
			require.NoError(t, err)
			require.Equal(t, benchmarkBytes, data)
		}
	}
}

func TestRunnerFallbackOnUnwrapFailure(t *testing.T) {
	for _, handler := range []string{"Void", "Plain"} {
		t.Run(handler, func(t *testing.T) {
			var fallbacks []invoke.Strategy
			runner, err := NewRunner(&testHandlers{}, newFixture(t, handler, "Benchmark"),
				WithUnwrapFallbackHook(func(s invoke.Strategy, err error) {
					assert.ErrorIs(t, err, errspkg.ErrResultUnwrap)
					fallbacks = append(fallbacks, s)
				}),
			)
			require.NoError(t, err)
			assert.Equal(t, FallbackOnUnwrapFailure, runner.Policy())

			for s, data := range runAll(t, runner) {
				assert.Equal(t, execBytes, data, s.String())
			}
			assert.Equal(t, invoke.Strategies(), fallbacks)
		})
	}
}

func TestRunnerCustomFallback(t *testing.T) {
	fixture := newFixture(t, "Void", "Benchmark")
	fixture.Fallback = &benchpb.Response{Name: "Fallback"}

	runner, err := NewRunner(&testHandlers{}, fixture)
	require.NoError(t, err)

	data, err := runner.Dispatch(invoke.CachedReflective, nil)
	require.NoError(t, err)
	resp, err := codecpkg.Decode[*benchpb.Response](nil, data)
	require.NoError(t, err)
	assert.Equal(t, "Fallback", resp.GetName())
}

func TestRunnerStrictUnwrap(t *testing.T) {
	runner, err := NewRunner(&testHandlers{}, newFixture(t, "Void", "Benchmark"), WithUnwrapPolicy(StrictUnwrap))
	require.NoError(t, err)

	for _, s := range invoke.Strategies() {
		data, err := runner.Dispatch(s, nil)
		assert.ErrorIs(t, err, errspkg.ErrResultUnwrap, s.String())
		assert.Nil(t, data)
	}
}

func TestRunnerDecodeErrorPropagates(t *testing.T) {
	fixture := newFixture(t, echo.HandlerName, "Benchmark")
	fixture.Payload = []byte{0xff}

	runner, err := NewRunner(&echo.Service{}, fixture)
	require.NoError(t, err)

	for _, s := range invoke.Strategies() {
		_, err := runner.Dispatch(s, nil)
		assert.ErrorIs(t, err, errspkg.ErrDecode, s.String())
	}
}

func TestRunnerUnknownHandler(t *testing.T) {
	builds := 0
	runner, err := NewRunner(&echo.Service{}, newFixture(t, "Missing", "Benchmark"),
		WithBuildHook(func(reflect.Method) { builds++ }),
	)
	assert.ErrorIs(t, err, errspkg.ErrHandlerNotFound)
	assert.Nil(t, runner)
	assert.Zero(t, builds)
}

func TestRunnerRejectsHandlerShape(t *testing.T) {
	for _, handler := range []string{"Single", "WrongContext"} {
		_, err := NewRunner(&testHandlers{}, newFixture(t, handler, "Benchmark"))
		assert.ErrorIs(t, err, errspkg.ErrInvalidHandlerSignature, handler)
	}
}

func TestRunnerBuildsThunkOnce(t *testing.T) {
	builds := 0
	runner := newEchoRunner(t, "Benchmark", WithBuildHook(func(reflect.Method) { builds++ }))
	assert.True(t, runner.Descriptor().TypedThunk())

	entry, err := runner.EntryPoint(invoke.CompiledThunk)
	require.NoError(t, err)
	for i := 0; i < 500; i++ {
		_, err := entry()
		require.NoError(t, err)
	}
	assert.Equal(t, 1, builds)
}

func TestRunnerUnknownStrategy(t *testing.T) {
	runner := newEchoRunner(t, "Benchmark")

	_, err := runner.EntryPoint(invoke.Strategy(0))
	assert.ErrorIs(t, err, errspkg.ErrUnknownStrategy)

	_, err = runner.Dispatch(invoke.Strategy(7), nil)
	assert.ErrorIs(t, err, errspkg.ErrUnknownStrategy)
}

func TestRunnerCopiesFixture(t *testing.T) {
	fixture := newFixture(t, echo.HandlerName, "Benchmark")
	fallback := &benchpb.Response{Name: "Exec"}
	fixture.Fallback = fallback

	runner, err := NewRunner(&echo.Service{}, fixture)
	require.NoError(t, err)

	for i := range fixture.Payload {
		fixture.Payload[i] = 0
	}
	fallback.Name = "Changed"

	data, err := runner.Dispatch(invoke.RawReflective, nil)
	require.NoError(t, err)
	assert.Equal(t, benchmarkBytes, data)
	assert.True(t, proto.Equal(&benchpb.Response{Name: "Exec"}, runner.fallback))
}

func TestRunnerCallContextFactory(t *testing.T) {
	calls := 0
	runner, err := NewRunner(&testHandlers{}, newFixture(t, "Method", "Benchmark"),
		WithCallContextFactory(func() *handlers.CallContext {
			calls++
			return handlers.NewTestCallContext(handlers.WithMethod("Custom"))
		}),
	)
	require.NoError(t, err)

	for s, data := range runAll(t, runner) {
		resp, err := codecpkg.Decode[*benchpb.Response](nil, data)
		require.NoError(t, err)
		assert.Equal(t, "Custom", resp.GetName(), s.String())
	}
	assert.Equal(t, 3, calls)

	data, err := runner.Dispatch(invoke.CompiledThunk, handlers.NewTestCallContext(handlers.WithMethod("Explicit")))
	require.NoError(t, err)
	resp, err := codecpkg.Decode[*benchpb.Response](nil, data)
	require.NoError(t, err)
	assert.Equal(t, "Explicit", resp.GetName())
	assert.Equal(t, 3, calls)
}

func TestNewRunnerFromConfig(t *testing.T) {
	cfg := configpkg.Default()
	cfg.Codec = "json"
	cfg.RequestName = "FromConfig"

	runner, err := NewRunnerFromConfig(&echo.Service{}, cfg)
	require.NoError(t, err)

	outputs := runAll(t, runner)
	first := outputs[invoke.RawReflective]
	for s, data := range outputs {
		assert.Equal(t, first, data, s.String())
	}

	resp, err := codecpkg.Decode[*benchpb.Response](codecpkg.JSONCodec{}, first)
	require.NoError(t, err)
	assert.Equal(t, "FromConfig", resp.GetName())
}

func TestNewRunnerFromConfigStrictPolicy(t *testing.T) {
	cfg := configpkg.Default()
	cfg.Handler = "Void"
	cfg.UnwrapPolicy = "strict"

	runner, err := NewRunnerFromConfig(&testHandlers{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, StrictUnwrap, runner.Policy())

	_, err = runner.Dispatch(invoke.RawReflective, nil)
	assert.ErrorIs(t, err, errspkg.ErrResultUnwrap)
}

func TestNewRunnerFromConfigFallbackName(t *testing.T) {
	cfg := configpkg.Default()
	cfg.Handler = "Void"
	cfg.FallbackName = "Configured"

	runner, err := NewRunnerFromConfig(&testHandlers{}, cfg)
	require.NoError(t, err)

	data, err := runner.Dispatch(invoke.CompiledThunk, nil)
	require.NoError(t, err)
	resp, err := codecpkg.Decode[*benchpb.Response](nil, data)
	require.NoError(t, err)
	assert.Equal(t, "Configured", resp.GetName())
}

func TestNewRunnerFromConfigValidates(t *testing.T) {
	_, err := NewRunnerFromConfig(&echo.Service{}, nil)
	assert.ErrorIs(t, err, errspkg.ErrConfigRequired)

	cfg := configpkg.Default()
	cfg.Codec = "xml"
	_, err = NewRunnerFromConfig(&echo.Service{}, cfg)
	assert.ErrorIs(t, err, errspkg.ErrUnknownCodec)
}

func TestNewFixture(t *testing.T) {
	fixture, err := NewFixture(echo.HandlerName, &benchpb.Hello{Name: "Benchmark"}, codecpkg.ProtoCodec{})
	require.NoError(t, err)
	assert.Equal(t, echo.HandlerName, fixture.HandlerName)
	assert.Equal(t, benchmarkBytes, fixture.Payload)
	assert.True(t, proto.Equal(&benchpb.Response{Name: DefaultFallbackName}, fixture.Fallback))

	_, err = NewFixture(echo.HandlerName, nil, nil)
	assert.ErrorIs(t, err, errspkg.ErrMessageRequired)
}

func TestNewRunnerRejectsUnknownPolicy(t *testing.T) {
	builds := 0
	runner, err := NewRunner(&echo.Service{}, newFixture(t, echo.HandlerName, "Benchmark"),
		WithUnwrapPolicy(UnwrapPolicy(7)),
		WithBuildHook(func(reflect.Method) { builds++ }),
	)
	require.ErrorIs(t, err, errspkg.ErrUnknownUnwrapPolicy)
	assert.Nil(t, runner)
	assert.Zero(t, builds)
	assert.False(t, UnwrapPolicy(7).Valid())
	assert.Equal(t, "unwrap_policy(7)", UnwrapPolicy(7).String())
}

func TestNewRunnerFromConfigTrimsPolicy(t *testing.T) {
	cfg := configpkg.Default()
	cfg.UnwrapPolicy = " Strict "
	require.NoError(t, cfg.Validate())

	runner, err := NewRunnerFromConfig(&echo.Service{}, cfg)
	require.NoError(t, err)
	assert.Equal(t, StrictUnwrap, runner.Policy())
}

func TestParseUnwrapPolicy(t *testing.T) {
	p, err := ParseUnwrapPolicy("")
	require.NoError(t, err)
	assert.Equal(t, FallbackOnUnwrapFailure, p)

	p, err = ParseUnwrapPolicy("Strict")
	require.NoError(t, err)
	assert.Equal(t, StrictUnwrap, p)

	p, err = ParseUnwrapPolicy(" strict\t")
	require.NoError(t, err)
	assert.Equal(t, StrictUnwrap, p)

	_, err = ParseUnwrapPolicy("lenient")
	assert.ErrorIs(t, err, errspkg.ErrUnknownUnwrapPolicy)

	assert.Equal(t, "fallback", FallbackOnUnwrapFailure.String())
	assert.Equal(t, "strict", StrictUnwrap.String())
}
