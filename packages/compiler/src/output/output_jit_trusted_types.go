package output

import "fmt"

// Trusted Types is a browser security feature and doesn't directly apply
// here. When generated code is executed in a browser-like runtime that
// supports it, function creation must go through a policy; the embedded
// runtime reports no support and falls back to regular Function creation.

// NewTrustedFunctionForJIT creates a new function for JIT compilation using
// the given JavaScript runtime. The last argument is the function body, the
// rest are parameter names. A nil runtime falls back to DefaultJSRuntime.
func NewTrustedFunctionForJIT(runtime JSRuntime, args ...string) (FunctionHandle, error) {
	if runtime == nil {
		runtime = DefaultJSRuntime
	}
	if runtime == nil {
		return nil, fmt.Errorf("JavaScript runtime not initialized. Call InitDefaultJSRuntime first")
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("at least one argument (function body) is required")
	}

	paramNames := args[:len(args)-1]
	body := args[len(args)-1]

	return runtime.NewFunction(paramNames, body)
}
