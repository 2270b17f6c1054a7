package handlers

import (
	"fmt"
	"reflect"

	"google.golang.org/protobuf/proto"

	codecpkg "github.com/drblury/dispatchbench/internal/runtime/codec"
	errspkg "github.com/drblury/dispatchbench/internal/runtime/errors"
	"github.com/drblury/dispatchbench/internal/runtime/invoke"
	loggingpkg "github.com/drblury/dispatchbench/internal/runtime/logging"
)

// Descriptor is a handler method resolved by name together with its three
// invokers and three matching request decoders. It is immutable after Resolve
// and safe for concurrent use.
type Descriptor struct {
	name        string
	container   any
	method      reflect.Method
	inputType   reflect.Type
	decode      codecpkg.Decoder
	decoders    map[invoke.Strategy]codecpkg.Decoder
	invokers    map[invoke.Strategy]invoke.Invoker
	typed       bool
	typedDecode bool
}

// Option customises Resolve.
type Option func(*resolveOptions)

type resolveOptions struct {
	codec   codecpkg.Codec
	onBuild func(reflect.Method)
	logger  loggingpkg.ServiceLogger
}

// WithCodec selects the codec used to decode request payloads.
func WithCodec(c codecpkg.Codec) Option {
	return func(o *resolveOptions) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithBuildHook observes compiled thunk construction.
func WithBuildHook(fn func(reflect.Method)) Option {
	return func(o *resolveOptions) { o.onBuild = fn }
}

// WithLogger receives the debug line describing the resolved handler.
func WithLogger(logger loggingpkg.ServiceLogger) Option {
	return func(o *resolveOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Resolve locates the method called name on container and prepares it for
// dispatch. The first non-receiver parameter must be a protobuf message
// pointer; it becomes the descriptor's input type.
func Resolve(container any, name string, opts ...Option) (*Descriptor, error) {
	if name == "" {
		return nil, errspkg.ErrHandlerNameRequired
	}
	if isNilContainer(container) {
		return nil, errspkg.ErrHandlerContainerRequired
	}

	o := resolveOptions{codec: codecpkg.Default, logger: loggingpkg.NopServiceLogger()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	containerType := reflect.TypeOf(container)
	method, ok := containerType.MethodByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", errspkg.ErrHandlerNotFound, name, containerType)
	}

	if method.Type.NumIn() < 2 {
		return nil, fmt.Errorf("%w: %s takes no parameters", errspkg.ErrInvalidHandlerSignature, name)
	}
	if method.Type.NumOut() > 1 {
		return nil, fmt.Errorf("%w: %s returns %d values", errspkg.ErrInvalidHandlerSignature, name, method.Type.NumOut())
	}

	inputType := method.Type.In(1)
	decode, err := codecpkg.DecoderFor(o.codec, inputType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s first parameter: %w", errspkg.ErrInvalidHandlerSignature, name, err)
	}
	decoders, typedDecode := decodeAdapters(o.codec, inputType, decode)

	invokers := make(map[invoke.Strategy]invoke.Invoker, len(invoke.Strategies()))
	typed := false
	for _, strategy := range invoke.Strategies() {
		inv, err := invoke.New(strategy, method, invoke.WithBuildHook(o.onBuild))
		if err != nil {
			return nil, fmt.Errorf("build %s invoker for %s: %w", strategy, name, err)
		}
		if thunk, ok := inv.(*invoke.ThunkInvoker); ok {
			typed = thunk.Typed()
		}
		invokers[strategy] = inv
	}

	o.logger.Debug("Resolved handler", loggingpkg.LogFields{
		"handler":       name,
		"container":     containerType.String(),
		"input_type":    inputType.String(),
		"typed_thunk":   typed,
		"typed_decoder": typedDecode,
		"codec":         o.codec.Name(),
	})

	return &Descriptor{
		name:        name,
		container:   container,
		method:      method,
		inputType:   inputType,
		decode:      decode,
		decoders:    decoders,
		invokers:    invokers,
		typed:       typed,
		typedDecode: typedDecode,
	}, nil
}

// Name is the method name the descriptor was resolved from.
func (d *Descriptor) Name() string { return d.name }

// Container is the receiver every invoker calls the handler on.
func (d *Descriptor) Container() any { return d.container }

// Method is the resolved method, receiver first.
func (d *Descriptor) Method() reflect.Method { return d.method }

// InputType is the handler's first non-receiver parameter type.
func (d *Descriptor) InputType() reflect.Type { return d.inputType }

// NumParams counts the non-receiver parameters.
func (d *Descriptor) NumParams() int { return d.method.Type.NumIn() - 1 }

// TypedThunk reports whether the compiled strategy avoids reflection.
func (d *Descriptor) TypedThunk() bool { return d.typed }

// TypedDecoder reports whether a Decode instantiation was registered for
// InputType with codec.RegisterDecoder.
func (d *Descriptor) TypedDecoder() bool { return d.typedDecode }

// Decode allocates an InputType message and populates it from data.
func (d *Descriptor) Decode(data []byte) (proto.Message, error) {
	return d.decode(data)
}

// DecodeWith decodes data through the decoder prepared for strategy.
func (d *Descriptor) DecodeWith(strategy invoke.Strategy, data []byte) (proto.Message, error) {
	decode, ok := d.decoders[strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %v", errspkg.ErrUnknownStrategy, strategy)
	}
	return decode(data)
}

// Invoker returns the invoker built for strategy.
func (d *Descriptor) Invoker(strategy invoke.Strategy) (invoke.Invoker, error) {
	inv, ok := d.invokers[strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %v", errspkg.ErrUnknownStrategy, strategy)
	}
	return inv, nil
}

// Invoke calls the handler on its container using strategy.
func (d *Descriptor) Invoke(strategy invoke.Strategy, args ...any) (any, error) {
	inv, err := d.Invoker(strategy)
	if err != nil {
		return nil, err
	}
	return inv.Invoke(d.container, args)
}

func isNilContainer(container any) bool {
	if container == nil {
		return true
	}
	val := reflect.ValueOf(container)
	switch val.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Func:
		return val.IsNil()
	default:
		return false
	}
}
