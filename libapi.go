package dispatchbench

import (
	"google.golang.org/protobuf/proto"

	runtimepkg "github.com/drblury/dispatchbench/internal/runtime"
	codecpkg "github.com/drblury/dispatchbench/internal/runtime/codec"
	configpkg "github.com/drblury/dispatchbench/internal/runtime/config"
	errspkg "github.com/drblury/dispatchbench/internal/runtime/errors"
	handlerpkg "github.com/drblury/dispatchbench/internal/runtime/handlers"
	invokepkg "github.com/drblury/dispatchbench/internal/runtime/invoke"
	loggingpkg "github.com/drblury/dispatchbench/internal/runtime/logging"
)

type (
	Config = configpkg.Config

	Codec      = codecpkg.Codec
	ProtoCodec = codecpkg.ProtoCodec
	JSONCodec  = codecpkg.JSONCodec
	Decoder    = codecpkg.Decoder

	Strategy     = invokepkg.Strategy
	Invoker      = invokepkg.Invoker
	InvokeOption = invokepkg.Option
	Thunk        = invokepkg.Thunk

	Descriptor        = handlerpkg.Descriptor
	ResolveOption     = handlerpkg.Option
	CallContext       = handlerpkg.CallContext
	CallOption        = handlerpkg.CallOption
	Completion[T any] = handlerpkg.Completion[T]

	Fixture      = runtimepkg.Fixture
	Runner       = runtimepkg.Runner
	RunnerOption = runtimepkg.RunnerOption
	EntryPoint   = runtimepkg.EntryPoint
	UnwrapPolicy = runtimepkg.UnwrapPolicy

	DispatchFunc = runtimepkg.DispatchFunc
	Middleware   = runtimepkg.Middleware

	// Dispatch lifecycle hooks
	DispatchInfo  = runtimepkg.DispatchInfo
	DispatchHooks = runtimepkg.DispatchHooks

	// Dispatch metrics
	DispatchMetrics         = runtimepkg.DispatchMetrics
	StrategyMetrics         = runtimepkg.StrategyMetrics
	DispatchMetricsSnapshot = runtimepkg.DispatchMetricsSnapshot

	LogFields     = loggingpkg.LogFields
	ServiceLogger = loggingpkg.ServiceLogger
)

const (
	RawReflective    = invokepkg.RawReflective
	CachedReflective = invokepkg.CachedReflective
	CompiledThunk    = invokepkg.CompiledThunk

	FallbackOnUnwrapFailure = runtimepkg.FallbackOnUnwrapFailure
	StrictUnwrap            = runtimepkg.StrictUnwrap
)

var (
	LoadConfig     = configpkg.Load
	DefaultConfig  = configpkg.Default
	ValidateConfig = configpkg.ValidateConfig

	CodecByName = codecpkg.ByName
	DecoderFor  = codecpkg.DecoderFor

	Strategies    = invokepkg.Strategies
	ParseStrategy = invokepkg.ParseStrategy
	NewInvoker    = invokepkg.New

	Resolve            = handlerpkg.Resolve
	UnwrapResult       = handlerpkg.UnwrapResult
	NewTestCallContext = handlerpkg.NewTestCallContext

	NewFixture          = runtimepkg.NewFixture
	NewRunner           = runtimepkg.NewRunner
	NewRunnerFromConfig = runtimepkg.NewRunnerFromConfig
	ParseUnwrapPolicy   = runtimepkg.ParseUnwrapPolicy

	WithCodec              = runtimepkg.WithCodec
	WithLogger             = runtimepkg.WithLogger
	WithUnwrapPolicy       = runtimepkg.WithUnwrapPolicy
	WithCallContextFactory = runtimepkg.WithCallContextFactory
	WithMiddlewares        = runtimepkg.WithMiddlewares
	WithBuildHook          = runtimepkg.WithBuildHook
	WithUnwrapFallbackHook = runtimepkg.WithUnwrapFallbackHook
	WithMetrics            = runtimepkg.WithMetrics

	Chain                 = runtimepkg.Chain
	TracerMiddleware      = runtimepkg.TracerMiddleware
	MetricsMiddleware     = runtimepkg.MetricsMiddleware
	LogDispatchMiddleware = runtimepkg.LogDispatchMiddleware
	RecovererMiddleware   = runtimepkg.RecovererMiddleware
	HooksMiddleware       = runtimepkg.HooksMiddleware

	NewDispatchMetrics = runtimepkg.NewDispatchMetrics

	NewSlogServiceLogger      = loggingpkg.NewSlogServiceLogger
	NewWatermillServiceLogger = loggingpkg.NewWatermillServiceLogger
	NewTextServiceLogger      = loggingpkg.NewTextServiceLogger
	NopServiceLogger          = loggingpkg.NopServiceLogger

	ErrHandlerNotFound          = errspkg.ErrHandlerNotFound
	ErrHandlerNameRequired      = errspkg.ErrHandlerNameRequired
	ErrHandlerContainerRequired = errspkg.ErrHandlerContainerRequired
	ErrInvalidHandlerSignature  = errspkg.ErrInvalidHandlerSignature
	ErrNotProtoMessage          = errspkg.ErrNotProtoMessage
	ErrUnknownCodec             = errspkg.ErrUnknownCodec
	ErrUnknownStrategy          = errspkg.ErrUnknownStrategy
	ErrUnknownUnwrapPolicy      = errspkg.ErrUnknownUnwrapPolicy
	ErrConfigRequired           = errspkg.ErrConfigRequired
	ErrDecode                   = errspkg.ErrDecode
	ErrMessageRequired          = errspkg.ErrMessageRequired
	ErrInvocationArgument       = errspkg.ErrInvocationArgument
	ErrResultUnwrap             = errspkg.ErrResultUnwrap
	ErrHandlerPanicked          = errspkg.ErrHandlerPanicked
)

// Encode serialises msg with c (the binary protobuf codec when c is nil).
func Encode(c Codec, msg proto.Message) ([]byte, error) {
	return codecpkg.Encode(c, msg)
}

// Decode allocates a T and populates it from data.
func Decode[T proto.Message](c Codec, data []byte) (T, error) {
	return codecpkg.Decode[T](c, data)
}

// Completed wraps v in a finished Completion.
func Completed[T any](v T) *Completion[T] {
	return handlerpkg.Completed(v)
}

// RegisterFunc2 enables typed thunks for handlers shaped
// func (R) Name(A1, A2) Out. Call it from init in the package that declares R.
func RegisterFunc2[R, A1, A2, Out any]() {
	invokepkg.RegisterFunc2[R, A1, A2, Out]()
}

// RegisterAction2 is RegisterFunc2 for handlers without a result.
func RegisterAction2[R, A1, A2 any]() {
	invokepkg.RegisterAction2[R, A1, A2]()
}

// RegisterDecoder makes Decode[T] reachable from the runtime type of T, so
// every strategy decodes requests of type T through its own call path.
func RegisterDecoder[T proto.Message]() {
	codecpkg.RegisterDecoder[T]()
}
