package view_compiler_test

import (
	"testing"

	"ngve-go/packages/compiler/core"
	"ngve-go/packages/compiler/src/compile_metadata"
	"ngve-go/packages/compiler/src/output"
	"ngve-go/packages/compiler/src/template_parser"
	"ngve-go/packages/compiler/src/view_compiler"
)

func TestBindViewWalksTemplateInOrder(t *testing.T) {
	view := newTestView(nil, nil)
	boundText := template_parser.NewBoundTextAst(parseTestBinding("greeting"), 0, fakeSpan())
	directive := compile_metadata.NewCompileDirectiveMetadata(
		testType("MyDir"), false, "[myDir]", []string{"value"}, nil, nil, nil, nil)
	directiveAst := template_parser.NewDirectiveAst(directive,
		[]*template_parser.BoundDirectivePropertyAst{
			template_parser.NewBoundDirectivePropertyAst("value", "value", parseTestBinding("name"), fakeSpan()),
		}, nil, nil, fakeSpan())
	elementAst := template_parser.NewElementAst("div", nil,
		[]*template_parser.BoundElementPropertyAst{
			boundProperty("title", template_parser.PropertyBindingTypeProperty, core.SecurityContextNONE, "title", ""),
		},
		[]*template_parser.BoundEventAst{boundEvent("click", "", "", "onClick()")},
		nil, []*template_parser.DirectiveAst{directiveAst}, nil, 0, fakeSpan())

	newTestNode(view, 0, boundText)
	element := newTestElement(view, 1, elementAst)
	element.DirectiveWrapperInstances[directive.Type] = output.Prop(output.ThisExpr, "_MyDir_1_3")

	view_compiler.BindView(view, []template_parser.TemplateAst{boundText, elementAst})

	if len(view.Bindings) != 4 {
		t.Fatalf("Expected text, event, render input and directive input bindings, got %d", len(view.Bindings))
	}
	if view.Bindings[0].SourceAst != template_parser.TemplateAst(boundText) {
		t.Errorf("Expected the text binding to take the first slot")
	}
	if _, ok := view.Bindings[1].SourceAst.(*template_parser.BoundEventAst); !ok {
		t.Errorf("Expected the element's event binding in slot 1, got %T", view.Bindings[1].SourceAst)
	}
	if _, ok := view.Bindings[2].SourceAst.(*template_parser.BoundElementPropertyAst); !ok {
		t.Errorf("Expected the render input in slot 2, got %T", view.Bindings[2].SourceAst)
	}
	if _, ok := view.Bindings[3].SourceAst.(*template_parser.BoundDirectivePropertyAst); !ok {
		t.Errorf("Expected the directive input in slot 3, got %T", view.Bindings[3].SourceAst)
	}

	// The event and directive input bindings allocate no cache field.
	if len(view.Fields) != 2 || view.Fields[0].Name != "_expr_0" || view.Fields[1].Name != "_expr_2" {
		names := make([]string, 0, len(view.Fields))
		for _, field := range view.Fields {
			names = append(names, field.Name)
		}
		t.Errorf("Expected cache fields _expr_0 and _expr_2, got %v", names)
	}
	if len(view.Methods) != 1 || *view.Methods[0].Name != "_handle_click_1_0" {
		t.Errorf("Expected the click handler method on the view")
	}
	if view.DetectChangesInInputsMethod.IsEmpty() {
		t.Errorf("Expected the directive input check in the inputs method")
	}
}

func TestBindViewBindsEmbeddedViews(t *testing.T) {
	view := newTestView(nil, nil)
	childText := template_parser.NewBoundTextAst(parseTestBinding("name"), 0, fakeSpan())
	embeddedAst := template_parser.NewEmbeddedTemplateAst(nil, nil, nil, nil, nil,
		[]template_parser.TemplateAst{childText}, 0, fakeSpan())
	element := newTestElement(view, 0, embeddedAst)
	embeddedView := view_compiler.NewCompileView(newTestComponent(), view.GenConfig, nil, 1, element)
	element.EmbeddedView = embeddedView
	newTestNode(embeddedView, 0, childText)

	view_compiler.BindView(view, []template_parser.TemplateAst{embeddedAst})

	if len(view.Bindings) != 0 {
		t.Errorf("Expected no bindings on the declaring view, got %d", len(view.Bindings))
	}
	if len(embeddedView.Bindings) != 1 {
		t.Fatalf("Expected the text binding on the embedded view, got %d", len(embeddedView.Bindings))
	}
	if len(embeddedView.Fields) != 1 || embeddedView.Fields[0].Name != "_expr_0" {
		t.Errorf("Expected the embedded view to own the cache field")
	}
}

func TestBindViewCreatesUsedPipes(t *testing.T) {
	pipeMeta := &compile_metadata.CompilePipeMetadata{Type: testType("UpperPipe"), Name: "upper", Pure: true}
	view := newTestView(nil, []*compile_metadata.CompilePipeMetadata{pipeMeta})
	boundText := template_parser.NewBoundTextAst(parseTestBinding("name | upper"), 0, fakeSpan())
	newTestNode(view, 0, boundText)

	view_compiler.BindView(view, []template_parser.TemplateAst{boundText})

	if len(view.Pipes) != 1 {
		t.Fatalf("Expected the used pipe to be registered, got %d", len(view.Pipes))
	}
	var pipeField *output.ClassField
	for _, field := range view.Fields {
		if field.Name == "_pipe_upper_0" {
			pipeField = field
		}
	}
	if pipeField == nil {
		t.Fatalf("Expected an instance field for the pipe")
	}
	if pipeField.Modifiers&output.StmtModifierPrivate == 0 {
		t.Errorf("Expected a private pipe instance field")
	}

	var instantiated bool
	for _, stmt := range view.CreateMethod.Finish() {
		exprStmt, ok := stmt.(*output.ExpressionStatement)
		if !ok {
			continue
		}
		if assign, ok := exprStmt.Expr.(*output.BinaryOperatorExpr); ok && assign.Operator == output.BinaryOperatorAssign {
			if prop, ok := assign.Lhs.(*output.ReadPropExpr); ok && prop.Name == "_pipe_upper_0" {
				if _, ok := assign.Rhs.(*output.InstantiateExpr); ok {
					instantiated = true
				}
			}
		}
	}
	if !instantiated {
		t.Errorf("Expected the pipe instance to be constructed in the create method")
	}
}

func TestBindViewSkipsUnusedPipes(t *testing.T) {
	pipeMeta := &compile_metadata.CompilePipeMetadata{Type: testType("UpperPipe"), Name: "upper", Pure: true}
	view := newTestView(nil, []*compile_metadata.CompilePipeMetadata{pipeMeta})
	boundText := template_parser.NewBoundTextAst(parseTestBinding("name"), 0, fakeSpan())
	newTestNode(view, 0, boundText)

	view_compiler.BindView(view, []template_parser.TemplateAst{boundText})

	if len(view.Pipes) != 0 {
		t.Errorf("Expected no pipe instance for a pipe the template never calls")
	}
}
