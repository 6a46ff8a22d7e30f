package view_compiler

import (
	"ngve-go/packages/compiler/src/compiler_util"
	"ngve-go/packages/compiler/src/output"
)

// EventHandlerVars holds the variables available inside generated event
// handler methods.
var EventHandlerVars = struct {
	Event *output.ReadVarExpr
}{
	Event: output.Variable("$event", nil, nil),
}

// DetectChangesVars holds the variables available inside the generated change
// detection methods. ValUnwrapper is shared with the expression converter so
// that unwrap calls and the shared declaration agree on the variable name.
var DetectChangesVars = struct {
	ThrowOnChange *output.ReadVarExpr
	Changed       *output.ReadVarExpr
	Changes       *output.ReadVarExpr
	ValUnwrapper  *output.ReadVarExpr
}{
	ThrowOnChange: output.Variable("throwOnChange", nil, nil),
	Changed:       output.Variable("changed", nil, nil),
	Changes:       output.Variable("changes", nil, nil),
	ValUnwrapper:  compiler_util.ValUnwrapperVar,
}

// ViewProperties holds the properties of the view instance that generated
// statements read off `this`.
var ViewProperties = struct {
	Renderer  output.OutputExpression
	ViewUtils output.OutputExpression
}{
	Renderer:  output.Prop(output.ThisExpr, "renderer"),
	ViewUtils: output.Prop(output.ThisExpr, "viewUtils"),
}
