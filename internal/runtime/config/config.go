package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"

	codecpkg "github.com/drblury/dispatchbench/internal/runtime/codec"
	errspkg "github.com/drblury/dispatchbench/internal/runtime/errors"
	"github.com/drblury/dispatchbench/internal/runtime/invoke"
	loggingpkg "github.com/drblury/dispatchbench/internal/runtime/logging"
)

// Unwrap policy names accepted by UnwrapPolicy.
const (
	UnwrapPolicyFallback = "fallback"
	UnwrapPolicyStrict   = "strict"
)

// Config groups the settings for a dispatch benchmark run. Every field can be
// set from the environment.
type Config struct {
	// Handler is the method name resolved on the handler container.
	Handler string `envconfig:"DISPATCH_HANDLER" default:"HelloWorld"`
	// RequestName populates the fixture request encoded once per run.
	RequestName string `envconfig:"DISPATCH_REQUEST_NAME" default:"Benchmark"`
	// FallbackName is the response name substituted when a result cannot be unwrapped.
	FallbackName string `envconfig:"DISPATCH_FALLBACK_NAME" default:"Exec"`

	// Codec is "proto" or "json".
	Codec string `envconfig:"DISPATCH_CODEC" default:"proto"`
	// Strategies lists the invocation strategies to measure, in order.
	Strategies []string `envconfig:"DISPATCH_STRATEGIES" default:"raw_reflective,cached_reflective,compiled_thunk"`
	// UnwrapPolicy is "fallback" or "strict".
	UnwrapPolicy string `envconfig:"DISPATCH_UNWRAP_POLICY" default:"fallback"`
	// VerifyOutput compares every strategy's output bytes before measuring.
	VerifyOutput bool `envconfig:"DISPATCH_VERIFY_OUTPUT" default:"true"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Metrics configuration.
	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"false"`
	// MetricsPort is the port where Prometheus metrics will be exposed.
	MetricsPort int `envconfig:"METRICS_PORT" default:"9090"`

	TracingEnabled bool `envconfig:"TRACING_ENABLED" default:"false"`
}

// Load reads the configuration from environment variables and validates it.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default returns the configuration Load produces with an empty environment.
func Default() *Config {
	return &Config{
		Handler:      "HelloWorld",
		RequestName:  "Benchmark",
		FallbackName: "Exec",
		Codec:        "proto",
		Strategies:   []string{"raw_reflective", "cached_reflective", "compiled_thunk"},
		UnwrapPolicy: UnwrapPolicyFallback,
		VerifyOutput: true,
		LogLevel:     "info",
		MetricsPort:  9090,
	}
}

func (c Config) String() string {
	type configAlias Config
	return fmt.Sprintf("%+v", configAlias(c))
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	errs = append(errs, c.validateDispatch()...)
	errs = append(errs, c.validatePorts()...)
	if _, err := loggingpkg.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	return errors.Join(errs...)
}

func (c *Config) validateDispatch() []error {
	var errs []error
	if strings.TrimSpace(c.Handler) == "" {
		errs = append(errs, errors.New("dispatch: handler name is required"))
	}
	if _, err := codecpkg.ByName(c.Codec); err != nil {
		errs = append(errs, fmt.Errorf("dispatch: %w", err))
	}
	if _, err := c.ParsedStrategies(); err != nil {
		errs = append(errs, fmt.Errorf("dispatch: %w", err))
	}
	switch NormalizeUnwrapPolicy(c.UnwrapPolicy) {
	case "", UnwrapPolicyFallback, UnwrapPolicyStrict:
	default:
		errs = append(errs, fmt.Errorf("dispatch: %w %q", errspkg.ErrUnknownUnwrapPolicy, c.UnwrapPolicy))
	}
	return errs
}

// NormalizeUnwrapPolicy trims and lowercases a policy name.
func NormalizeUnwrapPolicy(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (c *Config) validatePorts() []error {
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		return []error{fmt.Errorf("metrics: invalid port %d", c.MetricsPort)}
	}
	return nil
}

// ParsedStrategies resolves Strategies, dropping duplicates.
func (c *Config) ParsedStrategies() ([]invoke.Strategy, error) {
	if len(c.Strategies) == 0 {
		return nil, errors.New("at least one strategy is required")
	}
	seen := make(map[invoke.Strategy]bool, len(c.Strategies))
	out := make([]invoke.Strategy, 0, len(c.Strategies))
	for _, name := range c.Strategies {
		s, err := invoke.ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

// ValidateConfig validates a config pointer, rejecting nil.
func ValidateConfig(c *Config) error {
	if c == nil {
		return errspkg.ErrConfigRequired
	}
	return c.Validate()
}
