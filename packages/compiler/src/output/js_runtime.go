package output

import (
	"fmt"
	"strings"

	"github.com/robertkrimen/otto"
)

// JSRuntime represents a JavaScript runtime interface
// This allows different implementations (embedded engine, helper process, etc.)
type JSRuntime interface {
	// NewFunction creates a new JavaScript function from source code
	// args: function parameter names
	// body: function body as string
	// Returns a function handle that can be executed
	NewFunction(args []string, body string) (FunctionHandle, error)

	// ExecuteFunction executes a function handle with given arguments
	ExecuteFunction(fn FunctionHandle, args []interface{}) (interface{}, error)

	// SupportsTrustedTypes returns true if the runtime supports Trusted Types
	SupportsTrustedTypes() bool
}

// FunctionHandle represents a handle to a JavaScript function
// The actual implementation depends on the runtime
type FunctionHandle interface {
	// String returns the function source code
	String() string
}

// OttoJSRuntime implements JSRuntime using the otto embedded JavaScript
// engine. All functions created by one runtime share a single VM, so
// generated code can see globals primed on the VM beforehand.
type OttoJSRuntime struct {
	vm *otto.Otto
}

// NewOttoJSRuntime creates a new embedded JavaScript runtime
func NewOttoJSRuntime() *OttoJSRuntime {
	return &OttoJSRuntime{vm: otto.New()}
}

// VM exposes the underlying otto VM so callers can prime globals or read
// values evaluated by generated code
func (r *OttoJSRuntime) VM() *otto.Otto {
	return r.vm
}

// NewFunction creates a new JavaScript function using the embedded engine
func (r *OttoJSRuntime) NewFunction(args []string, body string) (FunctionHandle, error) {
	source := fmt.Sprintf("(function(%s) {\n%s\n})", strings.Join(args, ","), body)
	value, err := r.vm.Run(source)
	if err != nil {
		return nil, fmt.Errorf("failed to compile function: %w", err)
	}
	if !value.IsFunction() {
		return nil, fmt.Errorf("compiled source is not a function")
	}
	return &OttoFunctionHandle{fn: value, source: source}, nil
}

// ExecuteFunction executes a function using the embedded engine
func (r *OttoJSRuntime) ExecuteFunction(fn FunctionHandle, args []interface{}) (interface{}, error) {
	handle, ok := fn.(*OttoFunctionHandle)
	if !ok {
		return nil, fmt.Errorf("invalid function handle type")
	}

	result, err := handle.fn.Call(otto.UndefinedValue(), args...)
	if err != nil {
		return nil, fmt.Errorf("function execution error: %w", err)
	}

	exported, err := result.Export()
	if err != nil {
		return nil, fmt.Errorf("failed to export result: %w", err)
	}
	return exported, nil
}

// SupportsTrustedTypes returns false, the embedded engine has no Trusted
// Types implementation
func (r *OttoJSRuntime) SupportsTrustedTypes() bool {
	return false
}

// OttoFunctionHandle represents a function handle from the embedded runtime
type OttoFunctionHandle struct {
	fn     otto.Value
	source string
}

func (f *OttoFunctionHandle) String() string {
	return f.source
}

// DefaultJSRuntime is the default JavaScript runtime
var DefaultJSRuntime JSRuntime

// InitDefaultJSRuntime initializes the default JavaScript runtime
// This should be called at startup
func InitDefaultJSRuntime() {
	DefaultJSRuntime = NewOttoJSRuntime()
}
