package errors

import sterrors "errors"

// Setup errors. Any of these aborts before a measured iteration runs.
var (
	ErrHandlerNameRequired      = sterrors.New("dispatchbench: handler name is required")
	ErrHandlerContainerRequired = sterrors.New("dispatchbench: handler container is required")
	ErrHandlerNotFound          = sterrors.New("dispatchbench: handler not found")
	ErrInvalidHandlerSignature  = sterrors.New("dispatchbench: invalid handler signature")
	ErrNotProtoMessage          = sterrors.New("dispatchbench: type is not a protobuf message")
	ErrUnknownCodec             = sterrors.New("dispatchbench: unknown codec")
	ErrUnknownStrategy          = sterrors.New("dispatchbench: unknown invocation strategy")
	ErrUnknownUnwrapPolicy      = sterrors.New("dispatchbench: unknown unwrap policy")
	ErrConfigRequired           = sterrors.New("dispatchbench: configuration is required")
)

// Per-iteration errors.
var (
	ErrDecode             = sterrors.New("dispatchbench: malformed payload")
	ErrMessageRequired    = sterrors.New("dispatchbench: message is required")
	ErrInvocationArgument = sterrors.New("dispatchbench: invocation argument mismatch")
	ErrResultUnwrap       = sterrors.New("dispatchbench: handler result cannot be unwrapped")
	ErrHandlerPanicked    = sterrors.New("dispatchbench: handler panicked")
)
