package view_compiler_test

import (
	"testing"

	"ngve-go/packages/compiler/core"
	"ngve-go/packages/compiler/src/output"
	"ngve-go/packages/compiler/src/view_compiler"
)

func newEmbeddedTestView(parent *view_compiler.CompileView, nodeIndex, viewIndex int) *view_compiler.CompileView {
	element := newTestElement(parent, nodeIndex, nil)
	embedded := view_compiler.NewCompileView(newTestComponent(), parent.GenConfig, nil, viewIndex, element)
	element.EmbeddedView = embedded
	return embedded
}

func TestCompileViewTypes(t *testing.T) {
	view := newTestView(nil, nil)
	if view.ViewType != core.ViewTypeCOMPONENT {
		t.Errorf("Expected a component view at index 0")
	}
	if view.ClassName != "_View_TestComp0" {
		t.Errorf("Expected the class name from component type and view index, got %s", view.ClassName)
	}
	if view.ComponentView != view {
		t.Errorf("Expected a component view to render into itself")
	}

	embedded := newEmbeddedTestView(view, 0, 1)
	if embedded.ViewType != core.ViewTypeEMBEDDED {
		t.Errorf("Expected an embedded view at index > 0")
	}
	if embedded.ComponentView != view {
		t.Errorf("Expected the embedded view to render into the declaring component view")
	}
}

func TestGetLocalEventVariable(t *testing.T) {
	view := newTestView(nil, nil)
	if view.GetLocal("$event") != output.OutputExpression(view_compiler.EventHandlerVars.Event) {
		t.Errorf("Expected $event to resolve to the handler parameter")
	}
}

func TestGetLocalUnknownName(t *testing.T) {
	view := newTestView(nil, nil)
	if view.GetLocal("nope") != nil {
		t.Errorf("Expected an unknown local to resolve to nil")
	}
}

func TestGetLocalOnSameView(t *testing.T) {
	view := newTestView(nil, nil)
	local := output.Prop(output.ThisExpr, "context")
	view.Locals["ctx"] = local

	if view.GetLocal("ctx") != output.OutputExpression(local) {
		t.Errorf("Expected a local of the view itself to be returned unchanged")
	}
}

func TestGetLocalWalksDeclaringViews(t *testing.T) {
	parent := newTestView(nil, nil)
	parent.Locals["user"] = output.Prop(output.ThisExpr, "context")
	embedded := newEmbeddedTestView(parent, 0, 1)

	result := embedded.GetLocal("user")

	prop := asPropRead(t, result)
	if prop.Name != "context" {
		t.Fatalf("Expected the parent's local expression, got %s", prop.Name)
	}
	receiver := asPropRead(t, prop.Receiver)
	if receiver.Name != "parent" || receiver.Receiver != output.OutputExpression(output.ThisExpr) {
		t.Errorf("Expected the receiver rewritten to this.parent")
	}
}

func TestGetLocalCastsViewFields(t *testing.T) {
	parent := newTestView(nil, nil)
	parent.Fields = append(parent.Fields, output.NewClassField("_local", nil, output.StmtModifierPrivate))
	parent.Locals["item"] = output.Prop(output.ThisExpr, "_local")
	embedded := newEmbeddedTestView(parent, 0, 1)

	result := embedded.GetLocal("item")

	prop := asPropRead(t, result)
	if prop.Name != "_local" {
		t.Fatalf("Expected the parent's field read, got %s", prop.Name)
	}
	if _, ok := prop.Receiver.(*output.CastExpr); !ok {
		t.Errorf("Expected the parent view reference to be cast to its class, got %T", prop.Receiver)
	}
}
