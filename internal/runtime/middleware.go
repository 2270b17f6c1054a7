package runtime

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	errspkg "github.com/drblury/dispatchbench/internal/runtime/errors"
	"github.com/drblury/dispatchbench/internal/runtime/handlers"
	"github.com/drblury/dispatchbench/internal/runtime/invoke"
	loggingpkg "github.com/drblury/dispatchbench/internal/runtime/logging"
)

// TracerName identifies spans emitted by TracerMiddleware.
const TracerName = "github.com/drblury/dispatchbench"

// DispatchFunc performs one dispatch iteration.
type DispatchFunc func(strategy invoke.Strategy, call *handlers.CallContext) ([]byte, error)

// Middleware decorates a DispatchFunc.
type Middleware func(DispatchFunc) DispatchFunc

// Chain wraps h so that mws[0] runs first.
func Chain(h DispatchFunc, mws ...Middleware) DispatchFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		h = mws[i](h)
	}
	return h
}

// TracerMiddleware wraps each dispatch in an OpenTelemetry span. A nil tracer
// uses the global provider. Downstream handlers see a copy of the call whose
// Context carries the span; the caller's call is left untouched.
func TracerMiddleware(tracer trace.Tracer) Middleware {
	return func(next DispatchFunc) DispatchFunc {
		return func(strategy invoke.Strategy, call *handlers.CallContext) ([]byte, error) {
			t := tracer
			if t == nil {
				t = otel.Tracer(TracerName)
			}
			parent := call.Context
			if parent == nil {
				parent = context.Background()
			}
			ctx, span := t.Start(parent, "Dispatch")
			defer span.End()

			// Copy so a reused call does not parent later spans to this one.
			spanCall := *call
			spanCall.Context = ctx

			span.SetAttributes(
				attribute.String("dispatch.strategy", strategy.String()),
				attribute.String("dispatch.call_id", call.ID),
				attribute.String("rpc.method", call.Method),
				attribute.String("net.peer.name", call.Peer),
			)

			out, err := next(strategy, &spanCall)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			span.SetAttributes(attribute.Int("dispatch.response_bytes", len(out)))
			return out, nil
		}
	}
}

// MetricsMiddleware records the outcome and duration of every dispatch.
func MetricsMiddleware(m *DispatchMetrics) Middleware {
	return func(next DispatchFunc) DispatchFunc {
		return func(strategy invoke.Strategy, call *handlers.CallContext) ([]byte, error) {
			start := time.Now()
			out, err := next(strategy, call)
			m.ObserveDispatch(strategy, time.Since(start), err)
			return out, err
		}
	}
}

// LogDispatchMiddleware logs every dispatch at debug level and failures at error level.
func LogDispatchMiddleware(logger loggingpkg.ServiceLogger) Middleware {
	if logger == nil {
		logger = loggingpkg.NopServiceLogger()
	}
	return func(next DispatchFunc) DispatchFunc {
		return func(strategy invoke.Strategy, call *handlers.CallContext) ([]byte, error) {
			fields := loggingpkg.LogFields{
				"strategy": strategy.String(),
				"call_id":  call.ID,
			}
			out, err := next(strategy, call)
			if err != nil {
				logger.Error("Dispatch failed", err, fields)
				return out, err
			}
			fields["response_bytes"] = len(out)
			logger.Debug("Dispatched", fields)
			return out, nil
		}
	}
}

// RecovererMiddleware turns a handler panic into ErrHandlerPanicked.
func RecovererMiddleware() Middleware {
	return func(next DispatchFunc) DispatchFunc {
		return func(strategy invoke.Strategy, call *handlers.CallContext) (out []byte, err error) {
			defer func() {
				if r := recover(); r != nil {
					out = nil
					err = fmt.Errorf("%w: %v", errspkg.ErrHandlerPanicked, r)
				}
			}()
			return next(strategy, call)
		}
	}
}
