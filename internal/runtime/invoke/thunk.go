package invoke

import (
	"reflect"
)

// Thunk is the prepared call form of a method.
type Thunk func(target any, args []any) (any, error)

// ThunkInvoker calls through a thunk built once at construction.
type ThunkInvoker struct {
	name  string
	thunk Thunk
	typed bool
}

// NewCompiledThunk builds the thunk for m. A typed builder registered for the
// method's function type yields a direct call. Without one, the thunk falls
// back to a prepared reflective call and Typed reports false.
func NewCompiledThunk(m reflect.Method, opts ...Option) (*ThunkInvoker, error) {
	if err := checkMethod(m); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	inv := &ThunkInvoker{name: m.Name}
	if build, ok := lookupBuilder(m.Type); ok {
		thunk, err := build(m)
		if err != nil {
			return nil, err
		}
		inv.thunk = thunk
		inv.typed = true
	} else {
		inv.thunk = newCached(m).Invoke
	}

	if o.onBuild != nil {
		o.onBuild(m)
	}
	return inv, nil
}

func (t *ThunkInvoker) Strategy() Strategy { return CompiledThunk }

func (t *ThunkInvoker) Invoke(target any, args []any) (any, error) {
	return t.thunk(target, args)
}

// Typed reports whether the thunk calls the method without reflection.
func (t *ThunkInvoker) Typed() bool { return t.typed }
