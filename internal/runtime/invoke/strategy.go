package invoke

import (
	"fmt"
	"strings"

	errspkg "github.com/drblury/dispatchbench/internal/runtime/errors"
)

// Strategy selects how a resolved handler method is called.
type Strategy int

const (
	// RawReflective repeats the method lookup and signature walk on every call.
	RawReflective Strategy = iota + 1
	// CachedReflective keeps the reflected function and parameter types from setup.
	CachedReflective
	// CompiledThunk calls the method through a statically typed closure.
	CompiledThunk
)

var strategyNames = map[Strategy]string{
	RawReflective:    "raw_reflective",
	CachedReflective: "cached_reflective",
	CompiledThunk:    "compiled_thunk",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// Valid reports whether s names one of the known strategies.
func (s Strategy) Valid() bool {
	_, ok := strategyNames[s]
	return ok
}

// Strategies returns every strategy in measurement order.
func Strategies() []Strategy {
	return []Strategy{RawReflective, CachedReflective, CompiledThunk}
}

// ParseStrategy accepts the snake_case name as well as the short forms
// "raw", "cached" and "compiled".
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "raw_reflective", "raw":
		return RawReflective, nil
	case "cached_reflective", "cached":
		return CachedReflective, nil
	case "compiled_thunk", "compiled", "thunk":
		return CompiledThunk, nil
	default:
		return 0, fmt.Errorf("%w: %q", errspkg.ErrUnknownStrategy, name)
	}
}
