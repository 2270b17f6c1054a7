/*
Package runtime provides the dispatch loop behind dispatchbench.

# Architecture Overview

A Runner owns a handler Descriptor resolved once at construction and a
Fixture holding the encoded request. Each iteration runs the same four steps
for every invocation strategy: decode the payload into the handler's input
type, invoke the handler with the request and a fresh call context, unwrap
the Completion result and encode the response. Decoding goes through the
decoder the Descriptor prepared for the selected strategy, so the decoder is
reached the same way the handler is.

# Package Structure

## Runner (runner.go)

Fixture, Runner, EntryPoint and the unwrap policies. NewRunnerFromConfig
builds a Runner from config.Config.

## Middleware (middleware.go)

Optional decorators around a dispatch:
  - Tracer: OpenTelemetry span per dispatch
  - Metrics: Prometheus counters and duration histogram
  - LogDispatch: debug and error logging
  - Recoverer: handler panics become ErrHandlerPanicked

## Hooks (hooks.go)

OnDispatchStart, OnDispatchDone and OnDispatchError callbacks.

## Metrics (metrics.go)

DispatchMetrics keeps per-strategy counters alongside the Prometheus
collectors.

# Sub-packages

  - benchpb/: protobuf request and response messages
  - codec/: protobuf binary and JSON codecs
  - config/: environment-driven configuration with validation
  - echo/: the HelloWorld handler container
  - errors/: sentinel errors
  - handlers/: handler resolution, call context and result unwrapping
  - invoke/: the three invocation strategies and the typed thunk registry
  - logging/: logger interface and adapters
  - report/: JSON-lines benchmark results

# Usage Example

	fixture, err := runtime.NewFixture(echo.HandlerName, &benchpb.Hello{Name: "Benchmark"}, codec.ProtoCodec{})
	if err != nil {
		return err
	}

	runner, err := runtime.NewRunner(&echo.Service{}, fixture)
	if err != nil {
		return err
	}

	entry, err := runner.EntryPoint(invoke.CompiledThunk)
	if err != nil {
		return err
	}
	out, err := entry()
*/
package runtime
