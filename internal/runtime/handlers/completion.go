package handlers

import (
	"fmt"
	"reflect"

	"google.golang.org/protobuf/proto"

	errspkg "github.com/drblury/dispatchbench/internal/runtime/errors"
)

// ResultField is the field UnwrapResult reads from a handler's return value.
const ResultField = "Result"

// Completion is the already-finished asynchronous result a handler returns.
type Completion[T any] struct {
	Result T
}

// Completed wraps v in a finished Completion.
func Completed[T any](v T) *Completion[T] {
	return &Completion[T]{Result: v}
}

// UnwrapResult extracts the response message from a handler return value by
// reading its Result field. Any wrapper type exposing an exported Result
// holding a proto.Message is accepted.
func UnwrapResult(raw any) (proto.Message, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: handler returned no value", errspkg.ErrResultUnwrap)
	}

	v := reflect.ValueOf(raw)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, fmt.Errorf("%w: handler returned nil %T", errspkg.ErrResultUnwrap, raw)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T has no %s field", errspkg.ErrResultUnwrap, raw, ResultField)
	}

	field := v.FieldByName(ResultField)
	if !field.IsValid() || !field.CanInterface() {
		return nil, fmt.Errorf("%w: %T has no %s field", errspkg.ErrResultUnwrap, raw, ResultField)
	}

	if field.Kind() == reflect.Interface && field.IsNil() {
		return nil, fmt.Errorf("%w: %T.%s is nil", errspkg.ErrResultUnwrap, raw, ResultField)
	}

	msg, ok := field.Interface().(proto.Message)
	if !ok {
		return nil, fmt.Errorf("%w: %T.%s is %s, not a protobuf message", errspkg.ErrResultUnwrap, raw, ResultField, field.Type())
	}
	if isNilMessage(msg) {
		return nil, fmt.Errorf("%w: %T.%s is nil", errspkg.ErrResultUnwrap, raw, ResultField)
	}
	return msg, nil
}

func isNilMessage(msg proto.Message) bool {
	if msg == nil {
		return true
	}
	val := reflect.ValueOf(msg)
	return val.Kind() == reflect.Ptr && val.IsNil()
}
