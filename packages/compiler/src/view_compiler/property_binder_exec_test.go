package view_compiler_test

import (
	"fmt"
	"testing"

	"ngve-go/packages/compiler/core"
	"ngve-go/packages/compiler/src/output"
	"ngve-go/packages/compiler/src/template_parser"
	"ngve-go/packages/compiler/src/view_compiler"
)

// execResolver resolves the generated code's external references against shim
// implementations living on the test VM.
type execResolver struct {
	values map[string]interface{}
}

func (r *execResolver) ResolveExternalReference(ref *output.ExternalReference) interface{} {
	if ref.Name == nil {
		return nil
	}
	return r.values[*ref.Name]
}

func newExecHarness(t *testing.T) (*output.JitEvaluator, *execResolver) {
	t.Helper()
	runtime := output.NewOttoJSRuntime()
	uninitialized, err := runtime.VM().Run("({})")
	if err != nil {
		t.Fatalf("priming the uninitialized sentinel failed: %v", err)
	}
	checkBinding, err := runtime.VM().Run(
		"(function(throwOnChange, oldValue, newValue) { return oldValue !== newValue; })")
	if err != nil {
		t.Fatalf("priming checkBinding failed: %v", err)
	}
	resolver := &execResolver{values: map[string]interface{}{
		"UNINITIALIZED": uninitialized,
		"checkBinding":  checkBinding,
	}}
	return output.NewJitEvaluator(runtime), resolver
}

func namePtr(name string) *string {
	return &name
}

// viewClassStmt wraps the statements the binders generated into a runnable
// view class: the constructor takes the renderer, the component context and
// the render node, runs the create method, and detectChanges runs the render
// property changes.
func viewClassStmt(view *view_compiler.CompileView, renderNodeField string) output.OutputStatement {
	ctorBody := []output.OutputStatement{
		output.ToStmt(output.Prop(output.ThisExpr, "renderer").Set(output.Variable("renderer", nil, nil))),
		output.ToStmt(output.Prop(output.ThisExpr, "context").Set(output.Variable("context", nil, nil))),
		output.ToStmt(output.Prop(output.ThisExpr, renderNodeField).Set(output.Variable("node", nil, nil))),
	}
	ctorBody = append(ctorBody, view.CreateMethod.Finish()...)
	ctor := output.NewClassMethod(nil, []*output.FnParam{
		output.NewFnParam("renderer", nil),
		output.NewFnParam("context", nil),
		output.NewFnParam("node", nil),
	}, ctorBody, nil, output.StmtModifierNone)
	detect := output.NewClassMethod(namePtr("detectChanges"),
		[]*output.FnParam{output.NewFnParam("throwOnChange", nil)},
		view.DetectChangesRenderPropertiesMethod.Finish(), nil, output.StmtModifierNone)
	return output.NewClassStmt("ViewE2E", nil, nil, nil, ctor, []*output.ClassMethod{detect}, output.StmtModifierNone, nil)
}

func rendererShim(methodName string, paramNames []string, pushExpr output.OutputExpression) output.OutputStatement {
	params := make([]*output.FnParam, len(paramNames))
	for i, name := range paramNames {
		params[i] = output.NewFnParam(name, nil)
	}
	shim := output.Fn(params, []output.OutputStatement{
		output.ToStmt(output.CallMethod(output.Variable("log", nil, nil), "push",
			[]output.OutputExpression{pushExpr})),
	}, nil, nil)
	return output.NewDeclareVarStmt("renderer",
		output.LiteralMap([]*output.LiteralMapEntry{output.NewLiteralMapEntry(methodName, shim, false)}, nil),
		nil, output.StmtModifierNone, nil, nil)
}

func runViewClass(t *testing.T, view *view_compiler.CompileView, renderNodeField string,
	renderer output.OutputStatement, context *output.LiteralMapExpr, passes int) []string {
	t.Helper()
	evaluator, resolver := newExecHarness(t)

	stmts := []output.OutputStatement{
		output.NewDeclareVarStmt("log", output.LiteralArr(nil, nil, nil), nil, output.StmtModifierExported, nil, nil),
		renderer,
		viewClassStmt(view, renderNodeField),
		output.NewDeclareVarStmt("view", output.InstantiateCls(output.Variable("ViewE2E", nil, nil),
			[]output.OutputExpression{
				output.Variable("renderer", nil, nil),
				context,
				output.Literal("#node", nil, nil),
			}, nil), nil, output.StmtModifierNone, nil, nil),
	}
	for i := 0; i < passes; i++ {
		stmts = append(stmts, output.ToStmt(output.CallMethod(output.Variable("view", nil, nil),
			"detectChanges", []output.OutputExpression{output.Literal(false, nil, nil)})))
	}

	exports, err := evaluator.EvaluateStatements("view_binding_e2e.js", stmts, resolver, false)
	if err != nil {
		t.Fatalf("evaluating the generated view failed: %v", err)
	}
	switch entries := exports["log"].(type) {
	case []string:
		return entries
	case []interface{}:
		result := make([]string, len(entries))
		for i, entry := range entries {
			result[i] = fmt.Sprint(entry)
		}
		return result
	case nil:
		return nil
	default:
		t.Fatalf("unexpected log export %T", exports["log"])
		return nil
	}
}

func TestGeneratedTextBindingRunsOnce(t *testing.T) {
	view := newTestView(nil, nil)
	boundText := template_parser.NewBoundTextAst(parseTestBinding("name"), 0, fakeSpan())
	node := newTestNode(view, 0, boundText)
	view_compiler.BindRenderText(boundText, node, view)

	renderer := rendererShim("setText", []string{"node", "value"}, output.Variable("value", nil, nil))
	context := output.LiteralMap([]*output.LiteralMapEntry{
		output.NewLiteralMapEntry("name", output.Literal("Alice", nil, nil), false),
	}, nil)

	log := runViewClass(t, view, "_text_0", renderer, context, 2)

	if len(log) != 1 || log[0] != "Alice" {
		t.Errorf("Expected exactly one setText('Alice') across two passes, got %v", log)
	}
}

func TestGeneratedStyleBindingAppendsUnit(t *testing.T) {
	view := newTestView(nil, nil)
	styleProp := boundProperty("width", template_parser.PropertyBindingTypeStyle, core.SecurityContextNONE, "w", "px")
	element := newTestElement(view, 0, styleProp)
	view_compiler.BindRenderInputs([]*template_parser.BoundElementPropertyAst{styleProp}, element, nil)

	renderer := rendererShim("setElementStyle", []string{"node", "name", "value"},
		output.Plus(output.Plus(output.Variable("name", nil, nil), output.Literal(":", nil, nil)),
			output.Variable("value", nil, nil)))
	context := output.LiteralMap([]*output.LiteralMapEntry{
		output.NewLiteralMapEntry("w", output.Literal(50, nil, nil), false),
	}, nil)

	log := runViewClass(t, view, "_el_0", renderer, context, 2)

	if len(log) != 1 || log[0] != "width:50px" {
		t.Errorf("Expected one setElementStyle('width', '50px') across two passes, got %v", log)
	}
}

func TestGeneratedAttributeBindingBlankValue(t *testing.T) {
	view := newTestView(nil, nil)
	attrProp := boundProperty("role", template_parser.PropertyBindingTypeAttribute, core.SecurityContextNONE, "role", "")
	element := newTestElement(view, 0, attrProp)
	view_compiler.BindRenderInputs([]*template_parser.BoundElementPropertyAst{attrProp}, element, nil)

	renderer := rendererShim("setElementAttribute", []string{"node", "name", "value"},
		output.Plus(output.Plus(output.Variable("name", nil, nil), output.Literal("=", nil, nil)),
			output.Variable("value", nil, nil)))
	context := output.LiteralMap([]*output.LiteralMapEntry{
		output.NewLiteralMapEntry("role", output.NullExpr, false),
	}, nil)

	log := runViewClass(t, view, "_el_0", renderer, context, 1)

	if len(log) != 1 || log[0] != "role=null" {
		t.Errorf("Expected a blank attribute value to update with null, got %v", log)
	}
}
