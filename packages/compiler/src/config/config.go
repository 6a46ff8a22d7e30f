package config

import (
	"ngve-go/packages/compiler/core"
)

// CompilerConfig represents the compiler configuration
type CompilerConfig struct {
	DefaultEncapsulation *core.ViewEncapsulation
	// GenDebugInfo controls emission of debug markers into generated code
	GenDebugInfo bool
	// LogBindingUpdate controls emission of binding-update debug calls for
	// element property bindings
	LogBindingUpdate bool
	UseJit           bool
}

// NewCompilerConfig creates a new CompilerConfig with optional parameters
func NewCompilerConfig(opts ...CompilerConfigOption) *CompilerConfig {
	config := &CompilerConfig{
		DefaultEncapsulation: ViewEncapsulationPtr(core.ViewEncapsulationEmulated),
		GenDebugInfo:         false,
		LogBindingUpdate:     false,
		UseJit:               true,
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// CompilerConfigOption is a function that modifies CompilerConfig
type CompilerConfigOption func(*CompilerConfig)

// WithDefaultEncapsulation sets the default encapsulation
func WithDefaultEncapsulation(encapsulation core.ViewEncapsulation) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.DefaultEncapsulation = ViewEncapsulationPtr(encapsulation)
	}
}

// WithGenDebugInfo sets whether generated code carries debug markers
func WithGenDebugInfo(genDebugInfo bool) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.GenDebugInfo = genDebugInfo
	}
}

// WithLogBindingUpdate sets whether generated code logs binding updates
func WithLogBindingUpdate(logBindingUpdate bool) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.LogBindingUpdate = logBindingUpdate
	}
}

// WithUseJit sets whether the compiler targets JIT evaluation
func WithUseJit(useJit bool) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.UseJit = useJit
	}
}

// Helper function to get pointer to ViewEncapsulation
func ViewEncapsulationPtr(v core.ViewEncapsulation) *core.ViewEncapsulation {
	return &v
}
