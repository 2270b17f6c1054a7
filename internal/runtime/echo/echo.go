// Package echo provides the handler container exercised by the dispatch
// benchmarks.
package echo

import (
	"github.com/drblury/dispatchbench/internal/runtime/benchpb"
	"github.com/drblury/dispatchbench/internal/runtime/codec"
	"github.com/drblury/dispatchbench/internal/runtime/handlers"
	"github.com/drblury/dispatchbench/internal/runtime/invoke"
)

// HandlerName is the method dispatched by name.
const HandlerName = "HelloWorld"

// Service echoes request names back to the caller.
type Service struct{}

func init() {
	codec.RegisterDecoder[*benchpb.Hello]()
	invoke.RegisterFunc2[*Service, *benchpb.Hello, *handlers.CallContext, *handlers.Completion[*benchpb.Response]]()
}

// HelloWorld responds with the request's name.
func (s *Service) HelloWorld(req *benchpb.Hello, call *handlers.CallContext) *handlers.Completion[*benchpb.Response] {
	return handlers.Completed(&benchpb.Response{Name: req.GetName()})
}
