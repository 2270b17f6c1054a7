package codec

import (
	"fmt"
	"reflect"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	errspkg "github.com/drblury/dispatchbench/internal/runtime/errors"
)

// Codec converts protobuf messages to and from their wire form.
type Codec interface {
	Name() string
	Marshal(msg proto.Message) ([]byte, error)
	Unmarshal(data []byte, msg proto.Message) error
}

// Decoder produces a freshly allocated message populated from data.
type Decoder func(data []byte) (proto.Message, error)

// ProtoCodec is the binary protobuf wire format. Output is deterministic so
// equal messages always encode to equal bytes.
type ProtoCodec struct{}

func (ProtoCodec) Name() string { return "proto" }

func (ProtoCodec) Marshal(msg proto.Message) ([]byte, error) {
	return proto.MarshalOptions{Deterministic: true}.Marshal(msg)
}

func (ProtoCodec) Unmarshal(data []byte, msg proto.Message) error {
	return proto.UnmarshalOptions{Merge: true}.Unmarshal(data, msg)
}

// JSONCodec is the canonical protobuf JSON mapping.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg proto.Message) ([]byte, error) {
	return protojson.MarshalOptions{}.Marshal(msg)
}

// Unmarshal resets msg before populating it.
func (JSONCodec) Unmarshal(data []byte, msg proto.Message) error {
	return protojson.UnmarshalOptions{}.Unmarshal(data, msg)
}

// Default is used wherever a nil Codec is supplied.
var Default Codec = ProtoCodec{}

// ByName resolves a codec from its configuration name.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "proto", "protobuf":
		return ProtoCodec{}, nil
	case "json", "protojson":
		return JSONCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errspkg.ErrUnknownCodec, name)
	}
}

// Encode serialises msg with c, falling back to Default when c is nil.
func Encode(c Codec, msg proto.Message) ([]byte, error) {
	if isNilMessage(msg) {
		return nil, errspkg.ErrMessageRequired
	}
	if c == nil {
		c = Default
	}
	data, err := c.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msg.ProtoReflect().Descriptor().FullName(), err)
	}
	return data, nil
}

// Decode allocates a zero-valued T and populates it from data.
func Decode[T proto.Message](c Codec, data []byte) (T, error) {
	msg := New[T]()
	if c == nil {
		c = Default
	}
	if err := c.Unmarshal(data, msg); err != nil {
		var zero T
		return zero, fmt.Errorf("%w for %s: %w", errspkg.ErrDecode, msg.ProtoReflect().Descriptor().FullName(), err)
	}
	return msg, nil
}

// New returns a freshly allocated message of type T. T is expected to be a
// pointer to a generated message struct.
func New[T proto.Message]() T {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ != nil && typ.Kind() == reflect.Ptr {
		return reflect.New(typ.Elem()).Interface().(T)
	}
	return zero
}

var protoMessageType = reflect.TypeOf((*proto.Message)(nil)).Elem()

// DecoderFor resolves the message type behind typ once and returns a Decoder
// that allocates through protoreflect on every call.
func DecoderFor(c Codec, typ reflect.Type) (Decoder, error) {
	mt, err := MessageTypeOf(typ)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = Default
	}
	name := mt.Descriptor().FullName()
	return func(data []byte) (proto.Message, error) {
		msg := mt.New().Interface()
		if err := c.Unmarshal(data, msg); err != nil {
			return nil, fmt.Errorf("%w for %s: %w", errspkg.ErrDecode, name, err)
		}
		return msg, nil
	}, nil
}

// MessageTypeOf returns the protobuf message type for a generated message
// pointer type.
func MessageTypeOf(typ reflect.Type) (protoreflect.MessageType, error) {
	if typ == nil || typ.Kind() != reflect.Ptr || !typ.Implements(protoMessageType) {
		return nil, fmt.Errorf("%w: %v", errspkg.ErrNotProtoMessage, typ)
	}
	prototype, ok := reflect.New(typ.Elem()).Interface().(proto.Message)
	if !ok {
		return nil, fmt.Errorf("%w: %v", errspkg.ErrNotProtoMessage, typ)
	}
	return prototype.ProtoReflect().Type(), nil
}

func isNilMessage(msg proto.Message) bool {
	if msg == nil {
		return true
	}
	v := reflect.ValueOf(msg)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
