package codec

import (
	"reflect"
	"sync"

	"google.golang.org/protobuf/proto"
)

// DecodeFunc is a Decode instantiation with its result widened to proto.Message.
type DecodeFunc func(c Codec, data []byte) (proto.Message, error)

type registeredDecoder struct {
	// fn is Decode[T] itself, a func(Codec, []byte) (T, error).
	fn    any
	typed DecodeFunc
}

var decoders = struct {
	sync.RWMutex
	byType map[reflect.Type]registeredDecoder
}{byType: make(map[reflect.Type]registeredDecoder)}

// RegisterDecoder records the Decode instantiation for T so that code holding
// only the runtime type of T can reach it.
func RegisterDecoder[T proto.Message]() {
	fn := Decode[T]
	decoders.Lock()
	defer decoders.Unlock()
	decoders.byType[reflect.TypeFor[T]()] = registeredDecoder{
		fn: fn,
		typed: func(c Codec, data []byte) (proto.Message, error) {
			msg, err := fn(c, data)
			if err != nil {
				return nil, err
			}
			return msg, nil
		},
	}
}

// LookupDecoder returns the Decode instantiation registered for typ as an
// untyped func value, suitable for reflect.ValueOf(fn).Call.
func LookupDecoder(typ reflect.Type) (any, bool) {
	decoders.RLock()
	defer decoders.RUnlock()
	d, ok := decoders.byType[typ]
	return d.fn, ok
}

// LookupDecodeFunc returns the Decode instantiation registered for typ
// behind a direct, non-reflective call.
func LookupDecodeFunc(typ reflect.Type) (DecodeFunc, bool) {
	decoders.RLock()
	defer decoders.RUnlock()
	d, ok := decoders.byType[typ]
	return d.typed, ok
}
