package runtime

import (
	"context"
	"time"

	"github.com/drblury/dispatchbench/internal/runtime/handlers"
	"github.com/drblury/dispatchbench/internal/runtime/invoke"
)

// DispatchInfo describes one dispatch to hooks.
type DispatchInfo struct {
	Strategy invoke.Strategy
	// CallID is the call context's ULID.
	CallID  string
	Method  string
	Context context.Context
	// StartedAt is when the dispatch began.
	StartedAt time.Time
	// Duration is only set in OnDispatchDone and OnDispatchError.
	Duration time.Duration
	// ResponseBytes is only set in OnDispatchDone.
	ResponseBytes int
}

// DispatchHooks defines callbacks for dispatch lifecycle events.
// All hooks are optional - nil hooks are simply not called.
type DispatchHooks struct {
	OnDispatchStart func(info DispatchInfo)
	OnDispatchDone  func(info DispatchInfo)
	// OnDispatchError receives the error returned by the wrapped dispatch.
	OnDispatchError func(info DispatchInfo, err error)
}

// Merge combines two DispatchHooks. The hooks from other run after those of h.
func (h DispatchHooks) Merge(other DispatchHooks) DispatchHooks {
	return DispatchHooks{
		OnDispatchStart: chainInfoHooks(h.OnDispatchStart, other.OnDispatchStart),
		OnDispatchDone:  chainInfoHooks(h.OnDispatchDone, other.OnDispatchDone),
		OnDispatchError: chainErrorHooks(h.OnDispatchError, other.OnDispatchError),
	}
}

func chainInfoHooks(a, b func(DispatchInfo)) func(DispatchInfo) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(info DispatchInfo) {
		a(info)
		b(info)
	}
}

func chainErrorHooks(a, b func(DispatchInfo, error)) func(DispatchInfo, error) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(info DispatchInfo, err error) {
		a(info, err)
		b(info, err)
	}
}

// HooksMiddleware invokes hooks around every dispatch.
func HooksMiddleware(hooks DispatchHooks) Middleware {
	return func(next DispatchFunc) DispatchFunc {
		return func(strategy invoke.Strategy, call *handlers.CallContext) ([]byte, error) {
			info := DispatchInfo{
				Strategy:  strategy,
				CallID:    call.ID,
				Method:    call.Method,
				Context:   call.Context,
				StartedAt: time.Now(),
			}
			if hooks.OnDispatchStart != nil {
				hooks.OnDispatchStart(info)
			}

			out, err := next(strategy, call)
			info.Duration = time.Since(info.StartedAt)

			if err != nil {
				if hooks.OnDispatchError != nil {
					hooks.OnDispatchError(info, err)
				}
				return out, err
			}

			info.ResponseBytes = len(out)
			if hooks.OnDispatchDone != nil {
				hooks.OnDispatchDone(info)
			}
			return out, nil
		}
	}
}
