package invoke

import (
	"fmt"
	"reflect"

	errspkg "github.com/drblury/dispatchbench/internal/runtime/errors"
)

// Invoker calls one resolved method on a target with positional arguments.
// Implementations are immutable after construction and safe for concurrent use.
type Invoker interface {
	Strategy() Strategy
	Invoke(target any, args []any) (any, error)
}

// Option configures invoker construction.
type Option func(*options)

type options struct {
	onBuild func(reflect.Method)
}

// WithBuildHook registers a callback that fires each time a compiled thunk is
// built. Reflective strategies never call it.
func WithBuildHook(fn func(reflect.Method)) Option {
	return func(o *options) {
		o.onBuild = fn
	}
}

// New builds the invoker for strategy s.
func New(s Strategy, m reflect.Method, opts ...Option) (Invoker, error) {
	switch s {
	case RawReflective:
		return NewRawReflective(m)
	case CachedReflective:
		return NewCachedReflective(m)
	case CompiledThunk:
		return NewCompiledThunk(m, opts...)
	default:
		return nil, fmt.Errorf("%w: %v", errspkg.ErrUnknownStrategy, s)
	}
}

// RawInvoker resolves the method from the target's dynamic type on every call.
type RawInvoker struct {
	name     string
	receiver reflect.Type
}

// NewRawReflective keeps only the method name and receiver type of m.
func NewRawReflective(m reflect.Method) (*RawInvoker, error) {
	if err := checkMethod(m); err != nil {
		return nil, err
	}
	return &RawInvoker{name: m.Name, receiver: m.Type.In(0)}, nil
}

func (r *RawInvoker) Strategy() Strategy { return RawReflective }

func (r *RawInvoker) Invoke(target any, args []any) (any, error) {
	if target == nil || reflect.TypeOf(target) != r.receiver {
		return nil, targetError(r.name, r.receiver, target)
	}
	m, ok := reflect.TypeOf(target).MethodByName(r.name)
	if !ok {
		return nil, targetError(r.name, r.receiver, target)
	}
	params := make([]reflect.Type, m.Type.NumIn()-1)
	for i := range params {
		params[i] = m.Type.In(i + 1)
	}
	in, err := prepareArgs(r.name, params, target, args)
	if err != nil {
		return nil, err
	}
	return firstResult(m.Func.Call(in)), nil
}

// CachedInvoker calls a reflected function captured at construction.
type CachedInvoker struct {
	name     string
	fn       reflect.Value
	receiver reflect.Type
	params   []reflect.Type
}

// NewCachedReflective captures m.Func and its parameter types.
func NewCachedReflective(m reflect.Method) (*CachedInvoker, error) {
	if err := checkMethod(m); err != nil {
		return nil, err
	}
	return newCached(m), nil
}

func newCached(m reflect.Method) *CachedInvoker {
	params := make([]reflect.Type, m.Type.NumIn()-1)
	for i := range params {
		params[i] = m.Type.In(i + 1)
	}
	return &CachedInvoker{
		name:     m.Name,
		fn:       m.Func,
		receiver: m.Type.In(0),
		params:   params,
	}
}

func (c *CachedInvoker) Strategy() Strategy { return CachedReflective }

func (c *CachedInvoker) Invoke(target any, args []any) (any, error) {
	if target == nil || reflect.TypeOf(target) != c.receiver {
		return nil, targetError(c.name, c.receiver, target)
	}
	in, err := prepareArgs(c.name, c.params, target, args)
	if err != nil {
		return nil, err
	}
	return firstResult(c.fn.Call(in)), nil
}

func checkMethod(m reflect.Method) error {
	if m.Type == nil || !m.Func.IsValid() {
		return fmt.Errorf("%w: method %q is not resolved", errspkg.ErrInvalidHandlerSignature, m.Name)
	}
	if m.Type.IsVariadic() {
		return fmt.Errorf("%w: %s is variadic", errspkg.ErrInvalidHandlerSignature, m.Name)
	}
	if m.Type.NumOut() > 1 {
		return fmt.Errorf("%w: %s returns %d values", errspkg.ErrInvalidHandlerSignature, m.Name, m.Type.NumOut())
	}
	return nil
}

func prepareArgs(name string, params []reflect.Type, target any, args []any) ([]reflect.Value, error) {
	if len(args) != len(params) {
		return nil, arityError(name, len(params), len(args))
	}
	in := make([]reflect.Value, len(params)+1)
	in[0] = reflect.ValueOf(target)
	for i, typ := range params {
		if !accepts(typ, args[i]) {
			return nil, argumentError(i, typ, args[i])
		}
		if args[i] == nil {
			in[i+1] = reflect.Zero(typ)
			continue
		}
		in[i+1] = reflect.ValueOf(args[i])
	}
	return in, nil
}

// accepts mirrors a type assertion: exact match for concrete types,
// Implements for interfaces. Untyped nil is accepted by nillable types only.
func accepts(typ reflect.Type, arg any) bool {
	if arg == nil {
		return nillable(typ)
	}
	argType := reflect.TypeOf(arg)
	if typ.Kind() == reflect.Interface {
		return argType.Implements(typ)
	}
	return argType == typ
}

func nillable(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

func firstResult(out []reflect.Value) any {
	if len(out) == 0 {
		return nil
	}
	return out[0].Interface()
}

func targetError(name string, receiver reflect.Type, target any) error {
	return fmt.Errorf("%w: %s requires a %s receiver, got %T", errspkg.ErrInvocationArgument, name, receiver, target)
}

func arityError(name string, want, got int) error {
	return fmt.Errorf("%w: %s expects %d arguments, got %d", errspkg.ErrInvocationArgument, name, want, got)
}

func argumentError(index int, want reflect.Type, got any) error {
	return fmt.Errorf("%w: argument %d must be %s, got %T", errspkg.ErrInvocationArgument, index, want, got)
}
