package invoke

import (
	"fmt"
	"reflect"
	"sync"

	errspkg "github.com/drblury/dispatchbench/internal/runtime/errors"
)

type thunkBuilder func(m reflect.Method) (Thunk, error)

var registry = struct {
	sync.RWMutex
	builders map[reflect.Type]thunkBuilder
}{builders: make(map[reflect.Type]thunkBuilder)}

func register(fnType reflect.Type, build thunkBuilder) {
	registry.Lock()
	defer registry.Unlock()
	registry.builders[fnType] = build
}

func lookupBuilder(fnType reflect.Type) (thunkBuilder, bool) {
	registry.RLock()
	defer registry.RUnlock()
	build, ok := registry.builders[fnType]
	return build, ok
}

// Registered reports whether a typed thunk builder exists for the method
// expression type fnType (receiver first).
func Registered(fnType reflect.Type) bool {
	_, ok := lookupBuilder(fnType)
	return ok
}

// RegisterFunc1 enables typed thunks for methods shaped func(R, A1) Out.
func RegisterFunc1[R, A1, Out any]() {
	register(reflect.TypeFor[func(R, A1) Out](), func(m reflect.Method) (Thunk, error) {
		fn, err := methodFunc[func(R, A1) Out](m)
		if err != nil {
			return nil, err
		}
		name, receiver := m.Name, reflect.TypeFor[R]()
		return func(target any, args []any) (any, error) {
			recv, ok := target.(R)
			if !ok {
				return nil, targetError(name, receiver, target)
			}
			if len(args) != 1 {
				return nil, arityError(name, 1, len(args))
			}
			a1, err := param[A1](0, args[0])
			if err != nil {
				return nil, err
			}
			return fn(recv, a1), nil
		}, nil
	})
}

// RegisterFunc2 enables typed thunks for methods shaped func(R, A1, A2) Out.
func RegisterFunc2[R, A1, A2, Out any]() {
	register(reflect.TypeFor[func(R, A1, A2) Out](), func(m reflect.Method) (Thunk, error) {
		fn, err := methodFunc[func(R, A1, A2) Out](m)
		if err != nil {
			return nil, err
		}
		name, receiver := m.Name, reflect.TypeFor[R]()
		return func(target any, args []any) (any, error) {
			recv, ok := target.(R)
			if !ok {
				return nil, targetError(name, receiver, target)
			}
			if len(args) != 2 {
				return nil, arityError(name, 2, len(args))
			}
			a1, err := param[A1](0, args[0])
			if err != nil {
				return nil, err
			}
			a2, err := param[A2](1, args[1])
			if err != nil {
				return nil, err
			}
			return fn(recv, a1, a2), nil
		}, nil
	})
}

// RegisterAction1 enables typed thunks for void methods shaped func(R, A1).
func RegisterAction1[R, A1 any]() {
	register(reflect.TypeFor[func(R, A1)](), func(m reflect.Method) (Thunk, error) {
		fn, err := methodFunc[func(R, A1)](m)
		if err != nil {
			return nil, err
		}
		name, receiver := m.Name, reflect.TypeFor[R]()
		return func(target any, args []any) (any, error) {
			recv, ok := target.(R)
			if !ok {
				return nil, targetError(name, receiver, target)
			}
			if len(args) != 1 {
				return nil, arityError(name, 1, len(args))
			}
			a1, err := param[A1](0, args[0])
			if err != nil {
				return nil, err
			}
			fn(recv, a1)
			return nil, nil
		}, nil
	})
}

// RegisterAction2 enables typed thunks for void methods shaped func(R, A1, A2).
func RegisterAction2[R, A1, A2 any]() {
	register(reflect.TypeFor[func(R, A1, A2)](), func(m reflect.Method) (Thunk, error) {
		fn, err := methodFunc[func(R, A1, A2)](m)
		if err != nil {
			return nil, err
		}
		name, receiver := m.Name, reflect.TypeFor[R]()
		return func(target any, args []any) (any, error) {
			recv, ok := target.(R)
			if !ok {
				return nil, targetError(name, receiver, target)
			}
			if len(args) != 2 {
				return nil, arityError(name, 2, len(args))
			}
			a1, err := param[A1](0, args[0])
			if err != nil {
				return nil, err
			}
			a2, err := param[A2](1, args[1])
			if err != nil {
				return nil, err
			}
			fn(recv, a1, a2)
			return nil, nil
		}, nil
	})
}

func methodFunc[F any](m reflect.Method) (F, error) {
	fn, ok := m.Func.Interface().(F)
	if !ok {
		var zero F
		return zero, fmt.Errorf("%w: %s has type %s, want %s", errspkg.ErrInvalidHandlerSignature, m.Name, m.Type, reflect.TypeFor[F]())
	}
	return fn, nil
}

func param[T any](index int, arg any) (T, error) {
	if v, ok := arg.(T); ok {
		return v, nil
	}
	var zero T
	want := reflect.TypeFor[T]()
	if arg == nil && nillable(want) {
		return zero, nil
	}
	return zero, argumentError(index, want, arg)
}
