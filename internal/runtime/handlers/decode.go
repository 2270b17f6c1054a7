package handlers

import (
	"reflect"

	"google.golang.org/protobuf/proto"

	codecpkg "github.com/drblury/dispatchbench/internal/runtime/codec"
	"github.com/drblury/dispatchbench/internal/runtime/invoke"
)

// decodeAdapters prepares one Decoder per strategy. Each reaches the Decode
// instantiation for inputType the same way its strategy reaches the handler:
// looked up and called reflectively every time, called through a cached
// reflect.Value, or called directly. Types without a RegisterDecoder entry
// use the runtime-typed decoder in its place.
func decodeAdapters(c codecpkg.Codec, inputType reflect.Type, runtimeTyped codecpkg.Decoder) (map[invoke.Strategy]codecpkg.Decoder, bool) {
	fallback := codecpkg.DecodeFunc(func(_ codecpkg.Codec, data []byte) (proto.Message, error) {
		return runtimeTyped(data)
	})

	fn, typed := codecpkg.LookupDecoder(inputType)
	if !typed {
		fn = fallback
	}
	direct, ok := codecpkg.LookupDecodeFunc(inputType)
	if !ok {
		direct = fallback
	}

	codecValue := reflect.ValueOf(&c).Elem()
	cached := reflect.ValueOf(fn)

	return map[invoke.Strategy]codecpkg.Decoder{
		invoke.RawReflective: func(data []byte) (proto.Message, error) {
			fn, ok := codecpkg.LookupDecoder(inputType)
			if !ok {
				fn = fallback
			}
			return callDecode(reflect.ValueOf(fn), reflect.ValueOf(&c).Elem(), data)
		},
		invoke.CachedReflective: func(data []byte) (proto.Message, error) {
			return callDecode(cached, codecValue, data)
		},
		invoke.CompiledThunk: func(data []byte) (proto.Message, error) {
			return direct(c, data)
		},
	}, typed
}

func callDecode(fn, c reflect.Value, data []byte) (proto.Message, error) {
	out := fn.Call([]reflect.Value{c, reflect.ValueOf(data)})
	if err, _ := out[1].Interface().(error); err != nil {
		return nil, err
	}
	msg, _ := out[0].Interface().(proto.Message)
	return msg, nil
}
