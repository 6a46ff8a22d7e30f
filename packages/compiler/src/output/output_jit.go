package output

import (
	"fmt"
)

// ExternalReferenceResolver resolves external references to runtime values
type ExternalReferenceResolver interface {
	ResolveExternalReference(ref *ExternalReference) interface{}
}

// JitEvaluator is a helper class to manage the evaluation of JIT generated
// code
type JitEvaluator struct {
	runtime JSRuntime
}

// NewJitEvaluator creates a new JitEvaluator. A nil runtime falls back to
// DefaultJSRuntime at evaluation time.
func NewJitEvaluator(runtime JSRuntime) *JitEvaluator {
	return &JitEvaluator{runtime: runtime}
}

// EvaluateStatements evaluates an array of statement AST nodes and returns
// the map of exported names to their evaluated values
func (je *JitEvaluator) EvaluateStatements(
	sourceURL string,
	statements []OutputStatement,
	refResolver ExternalReferenceResolver,
	createSourceMaps bool,
) (map[string]interface{}, error) {
	converter := NewJitEmitterVisitor(refResolver)
	ctx := CreateRootEmitterVisitorContext()

	// Ensure generated code is in strict mode
	if len(statements) > 0 && !isUseStrictStatement(statements[0]) {
		useStrict := NewExpressionStatement(
			NewLiteralExpr("use strict", nil, nil),
			nil,
			nil,
		)
		statements = append([]OutputStatement{useStrict}, statements...)
	}

	converter.VisitAllStatements(statements, ctx)
	converter.CreateReturnStmt(ctx)

	args := converter.GetArgs()
	return je.EvaluateCode(sourceURL, ctx, args, createSourceMaps)
}

// EvaluateCode evaluates a piece of JIT generated code
func (je *JitEvaluator) EvaluateCode(
	sourceURL string,
	ctx *EmitterVisitorContext,
	vars map[string]interface{},
	createSourceMap bool,
) (map[string]interface{}, error) {
	fnArgNames := []string{}
	fnArgValues := []interface{}{}

	for argName, argValue := range vars {
		fnArgValues = append(fnArgValues, argValue)
		fnArgNames = append(fnArgNames, argName)
	}

	fnBody := fmt.Sprintf("\"use strict\";%s\n//# sourceURL=%s", ctx.ToSource(), sourceURL)

	if createSourceMap {
		// the runtime wraps the body with a single header line, so generated
		// lines start at line 1
		sourceMapGen, err := ctx.ToSourceMapGenerator(sourceURL, 1)
		if err != nil {
			return nil, err
		}
		jsComment, err := sourceMapGen.ToJsComment()
		if err != nil {
			return nil, err
		}
		fnBody += "\n" + jsComment
	}

	fn, err := NewTrustedFunctionForJIT(je.runtime, append(fnArgNames, fnBody)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create function: %w", err)
	}

	result, err := je.ExecuteFunction(fn, fnArgValues)
	if err != nil {
		return nil, fmt.Errorf("failed to execute function: %w", err)
	}

	if resultMap, ok := result.(map[string]interface{}); ok {
		return resultMap, nil
	}

	return map[string]interface{}{}, nil
}

// ExecuteFunction executes a JIT generated function by calling it
// This method can be overridden in tests to capture the functions that are
// generated
func (je *JitEvaluator) ExecuteFunction(fn FunctionHandle, args []interface{}) (interface{}, error) {
	runtime := je.runtime
	if runtime == nil {
		runtime = DefaultJSRuntime
	}
	if runtime == nil {
		return nil, fmt.Errorf("JavaScript runtime not initialized. Call InitDefaultJSRuntime first")
	}
	return runtime.ExecuteFunction(fn, args)
}

// JitEmitterVisitor is an AST visitor that converts AST nodes into
// executable JavaScript code, collecting external references as function
// arguments along the way
type JitEmitterVisitor struct {
	*AbstractJsEmitterVisitor
	refResolver      ExternalReferenceResolver
	evalArgNames     []string
	evalArgValues    []interface{}
	evalExportedVars []string
}

// NewJitEmitterVisitor creates a new JitEmitterVisitor
func NewJitEmitterVisitor(refResolver ExternalReferenceResolver) *JitEmitterVisitor {
	v := &JitEmitterVisitor{
		AbstractJsEmitterVisitor: NewAbstractJsEmitterVisitor(),
		refResolver:              refResolver,
		evalArgNames:             []string{},
		evalArgValues:            []interface{}{},
		evalExportedVars:         []string{},
	}
	v.SetVisitor(v)
	return v
}

// CreateReturnStmt emits a return of all exported vars as an object literal
func (jev *JitEmitterVisitor) CreateReturnStmt(ctx *EmitterVisitorContext) {
	entries := []*LiteralMapEntry{}
	for _, resultVar := range jev.evalExportedVars {
		entries = append(entries, NewLiteralMapEntry(
			resultVar,
			NewReadVarExpr(resultVar, nil, nil),
			false,
		))
	}

	stmt := NewReturnStatement(
		NewLiteralMapExpr(entries, nil, nil),
		nil,
		nil,
	)
	stmt.VisitStatement(jev, ctx)
}

// GetArgs returns the collected external reference arguments
func (jev *JitEmitterVisitor) GetArgs() map[string]interface{} {
	result := make(map[string]interface{})
	for i := 0; i < len(jev.evalArgNames); i++ {
		result[jev.evalArgNames[i]] = jev.evalArgValues[i]
	}
	return result
}

// VisitExternalExpr visits an external expression
func (jev *JitEmitterVisitor) VisitExternalExpr(ast *ExternalExpr, context interface{}) interface{} {
	ctx := jev.getContext(context)
	value := jev.refResolver.ResolveExternalReference(ast.Value)
	name := ""
	if ast.Value.Name != nil {
		name = *ast.Value.Name
	}
	jev.emitReferenceToExternal(ast, value, name, ctx)
	return nil
}

// VisitWrappedNodeExpr visits a wrapped node expression
func (jev *JitEmitterVisitor) VisitWrappedNodeExpr(ast *WrappedNodeExpr, context interface{}) interface{} {
	ctx := jev.getContext(context)
	jev.emitReferenceToExternal(ast, ast.Node, "", ctx)
	return nil
}

// VisitDeclareVarStmt visits a declare variable statement
func (jev *JitEmitterVisitor) VisitDeclareVarStmt(stmt *DeclareVarStmt, context interface{}) interface{} {
	if stmt.HasModifier(StmtModifierExported) {
		jev.evalExportedVars = append(jev.evalExportedVars, stmt.Name)
	}
	return jev.AbstractJsEmitterVisitor.VisitDeclareVarStmt(stmt, context)
}

// VisitDeclareFunctionStmt visits a declare function statement
func (jev *JitEmitterVisitor) VisitDeclareFunctionStmt(stmt *DeclareFunctionStmt, context interface{}) interface{} {
	if stmt.HasModifier(StmtModifierExported) {
		jev.evalExportedVars = append(jev.evalExportedVars, stmt.Name)
	}
	return jev.AbstractJsEmitterVisitor.VisitDeclareFunctionStmt(stmt, context)
}

// VisitDeclareClassStmt visits a class declaration statement
func (jev *JitEmitterVisitor) VisitDeclareClassStmt(stmt *ClassStmt, context interface{}) interface{} {
	if stmt.HasModifier(StmtModifierExported) {
		jev.evalExportedVars = append(jev.evalExportedVars, stmt.Name)
	}
	return jev.AbstractJsEmitterVisitor.VisitDeclareClassStmt(stmt, context)
}

// emitReferenceToExternal emits a reference to an external value, registering
// it as an argument of the evaluated function
func (jev *JitEmitterVisitor) emitReferenceToExternal(
	ast OutputExpression,
	value interface{},
	name string,
	ctx *EmitterVisitorContext,
) {
	id := -1
	for i, v := range jev.evalArgValues {
		if v == value {
			id = i
			break
		}
	}

	if id == -1 {
		id = len(jev.evalArgValues)
		jev.evalArgValues = append(jev.evalArgValues, value)
		if name == "" {
			name = "val"
		}
		jev.evalArgNames = append(jev.evalArgNames, fmt.Sprintf("jit_%s_%d", name, id))
	}
	ctx.Print(ast, jev.evalArgNames[id], false)
}

// isUseStrictStatement checks if a statement is a "use strict" statement
func isUseStrictStatement(stmt OutputStatement) bool {
	if exprStmt, ok := stmt.(*ExpressionStatement); ok {
		if litExpr, ok := exprStmt.Expr.(*LiteralExpr); ok {
			if str, ok := litExpr.Value.(string); ok {
				return str == "use strict"
			}
		}
	}
	return false
}
