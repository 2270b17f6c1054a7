package codec

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/drblury/dispatchbench/internal/runtime/benchpb"
	errspkg "github.com/drblury/dispatchbench/internal/runtime/errors"
)

func TestRegisterDecoder(t *testing.T) {
	RegisterDecoder[*benchpb.Hello]()
	typ := reflect.TypeFor[*benchpb.Hello]()

	fn, ok := LookupDecoder(typ)
	require.True(t, ok)
	decode, ok := fn.(func(Codec, []byte) (*benchpb.Hello, error))
	require.True(t, ok, "unexpected registered type %T", fn)

	data, err := Encode(ProtoCodec{}, &benchpb.Hello{Name: "Benchmark"})
	require.NoError(t, err)

	hello, err := decode(ProtoCodec{}, data)
	require.NoError(t, err)
	assert.Equal(t, "Benchmark", hello.GetName())

	typed, ok := LookupDecodeFunc(typ)
	require.True(t, ok)
	msg, err := typed(ProtoCodec{}, data)
	require.NoError(t, err)
	assert.Equal(t, "Benchmark", msg.(*benchpb.Hello).GetName())

	msg, err = typed(ProtoCodec{}, []byte{0xff})
	assert.Nil(t, msg)
	assert.True(t, errors.Is(err, errspkg.ErrDecode), "got %v", err)
}

func TestLookupDecoderUnregistered(t *testing.T) {
	_, ok := LookupDecoder(reflect.TypeFor[*wrapperspb.BytesValue]())
	assert.False(t, ok)
	_, ok = LookupDecodeFunc(reflect.TypeFor[*wrapperspb.BytesValue]())
	assert.False(t, ok)
}
