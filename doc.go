// Package dispatchbench measures three ways of calling a handler method that
// is only known by name at runtime. A Runner resolves the method once, then
// repeatedly decodes a fixed protobuf payload, invokes the handler, unwraps
// its Completion result and re-encodes the response. The three strategies
// differ only in how the invocation step is performed:
//
//   - RawReflective repeats the reflect method lookup and signature walk on
//     every call before using reflect.Value.Call.
//   - CachedReflective keeps the reflected function and parameter types from
//     setup and only validates arguments per call.
//   - CompiledThunk calls through a statically typed closure registered with
//     RegisterFunc2 or RegisterAction2, falling back to a prepared reflective
//     call when no typed builder exists for the method's shape.
//
// Every strategy produces byte-identical output for the same fixture, so the
// cost of each can be compared with go test -bench or with testing.Benchmark
// as the strategies example does.
//
// # Handlers
//
// A handler is an exported method taking a request message and a
// *CallContext and returning a *Completion wrapping the response:
//
//	func (s *Service) HelloWorld(req *pb.Hello, call *dispatchbench.CallContext) *dispatchbench.Completion[*pb.Response]
//
// When the result cannot be unwrapped the runner substitutes the fixture's
// fallback response, or returns ErrResultUnwrap under StrictUnwrap.
//
// # Configuration
//
// LoadConfig reads DISPATCH_* settings from the environment. NewRunnerFromConfig
// turns a Config into a ready Runner with the configured codec, fixture and
// unwrap policy.
//
// # Middleware
//
// Runners accept an optional middleware chain around every dispatch for
// OpenTelemetry tracing, Prometheus metrics, logging, panic recovery and
// lifecycle hooks. None of it is installed by default so measurements only
// cover the dispatch itself.
package dispatchbench
