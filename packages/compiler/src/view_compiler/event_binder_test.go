package view_compiler_test

import (
	"testing"

	"ngve-go/packages/compiler/src/compile_metadata"
	"ngve-go/packages/compiler/src/output"
	"ngve-go/packages/compiler/src/template_parser"
	"ngve-go/packages/compiler/src/view_compiler"
)

func boundEvent(name, target, phase, expression string) *template_parser.BoundEventAst {
	return template_parser.NewBoundEventAst(name, target, phase, parseTestAction(expression), fakeSpan())
}

func TestCollectEventListenersGroupsActionsByEvent(t *testing.T) {
	view := newTestView(nil, nil)
	element := newTestElement(view, 0, nil)
	events := []*template_parser.BoundEventAst{
		boundEvent("click", "", "", "onClick()"),
		boundEvent("click", "", "", "onClickAgain()"),
		boundEvent("mouseover", "", "", "onOver()"),
	}

	listeners := view_compiler.CollectEventListeners(events, nil, element)

	if len(listeners) != 2 {
		t.Fatalf("Expected actions on the same event to share a listener, got %d listeners", len(listeners))
	}
	if listeners[0].EventName != "click" || listeners[1].EventName != "mouseover" {
		t.Errorf("Expected listeners in first-seen order, got %s, %s", listeners[0].EventName, listeners[1].EventName)
	}
	if len(view.Bindings) != 3 {
		t.Errorf("Expected every bound event to consume a binding slot, got %d", len(view.Bindings))
	}
	if len(view.Methods) != 2 {
		t.Fatalf("Expected one handler method per listener, got %d", len(view.Methods))
	}
	if *view.Methods[0].Name != "_handle_click_0_0" || *view.Methods[1].Name != "_handle_mouseover_0_1" {
		t.Errorf("Expected handler names from event, node and listener index, got %s and %s",
			*view.Methods[0].Name, *view.Methods[1].Name)
	}
}

func TestEventHandlerMethodStructure(t *testing.T) {
	view := newTestView(nil, nil)
	element := newTestElement(view, 0, nil)

	view_compiler.CollectEventListeners([]*template_parser.BoundEventAst{
		boundEvent("click", "", "", "doIt($event)"),
	}, nil, element)

	if len(view.Methods) != 1 {
		t.Fatalf("Expected one handler method, got %d", len(view.Methods))
	}
	method := view.Methods[0]
	if len(method.Params) != 1 || method.Params[0].Name != "$event" {
		t.Fatalf("Expected the handler to take $event")
	}
	if method.Modifiers&output.StmtModifierPrivate == 0 {
		t.Errorf("Expected a private handler method")
	}

	receiver, markName, _ := methodCall(t, asExprStmt(t, method.Body[0]).Expr)
	if markName != "markPathToRootAsCheckOnce" || receiver != output.OutputExpression(output.ThisExpr) {
		t.Fatalf("Expected the handler to mark the path to the root first")
	}

	ret, ok := method.Body[len(method.Body)-1].(*output.ReturnStatement)
	if !ok {
		t.Fatalf("Expected the handler to end in a return, got %T", method.Body[len(method.Body)-1])
	}
	result := asBinary(t, ret.Value)
	if result.Operator != output.BinaryOperatorAnd {
		t.Errorf("Expected the action results to be and-ed together")
	}
	if asLiteral(t, result.Lhs).Value != true {
		t.Errorf("Expected the result chain to start from true")
	}
	if asReadVar(t, result.Rhs).Name != "preventDefault_0" {
		t.Errorf("Expected the action's preventDefault result in the chain")
	}
}

func TestComponentHostListenerMarksComponentView(t *testing.T) {
	view := newTestView(nil, nil)
	element := newTestElement(view, 0, nil)
	component := compile_metadata.NewCompileDirectiveMetadata(
		testType("ChildComp"), true, "child-comp", nil, nil, nil, nil, nil)
	directiveAst := template_parser.NewDirectiveAst(component, nil, nil,
		[]*template_parser.BoundEventAst{boundEvent("click", "", "", "handle()")}, fakeSpan())
	element.DirectiveWrapperInstances[component.Type] = output.Prop(output.ThisExpr, "_ChildComp_0_3")

	view_compiler.CollectEventListeners(nil, []*template_parser.DirectiveAst{directiveAst}, element)

	method := view.Methods[0]
	receiver, markName, _ := methodCall(t, asExprStmt(t, method.Body[0]).Expr)
	if markName != "markPathToRootAsCheckOnce" {
		t.Fatalf("Expected the check-once marking first, got %s", markName)
	}
	componentView := asPropRead(t, receiver)
	if componentView.Name != "componentView" || componentView.Receiver != output.OutputExpression(element.AppElement) {
		t.Errorf("Expected a component host listener to mark from the nested component view")
	}
}

func TestBindRenderOutputsListensOnRenderer(t *testing.T) {
	view := newTestView(nil, nil)
	element := newTestElement(view, 0, nil)
	listeners := view_compiler.CollectEventListeners([]*template_parser.BoundEventAst{
		boundEvent("click", "", "", "onClick()"),
	}, nil, element)

	view_compiler.BindRenderOutputs(listeners)

	if len(view.Disposables) != 1 {
		t.Fatalf("Expected the unlisten function to be kept as a disposable")
	}
	stmts := view.CreateMethod.Finish()
	decl := asDeclareVar(t, stmts[0])
	if decl.Name != "disposable_0" {
		t.Errorf("Expected the disposable in disposable_0, got %s", decl.Name)
	}
	receiver, name, args := methodCall(t, decl.Value)
	if receiver != view_compiler.ViewProperties.Renderer || name != "listen" {
		t.Fatalf("Expected renderer.listen, got %s", name)
	}
	if args[0] != element.RenderNode {
		t.Errorf("Expected the element's render node as the listen target")
	}
	if asLiteral(t, args[1]).Value != "click" {
		t.Errorf("Expected the event name as the second argument")
	}
	_, wrapName, wrapArgs := methodCall(t, args[2])
	if wrapName != "eventHandler" {
		t.Fatalf("Expected the handler to go through this.eventHandler, got %s", wrapName)
	}
	_, bindName, _ := methodCall(t, wrapArgs[0])
	if bindName != "bind" {
		t.Errorf("Expected the handler method to be bound to the view")
	}
}

func TestBindRenderOutputsGlobalTarget(t *testing.T) {
	view := newTestView(nil, nil)
	element := newTestElement(view, 0, nil)
	listeners := view_compiler.CollectEventListeners([]*template_parser.BoundEventAst{
		boundEvent("scroll", "window", "", "onScroll()"),
	}, nil, element)

	view_compiler.BindRenderOutputs(listeners)

	decl := asDeclareVar(t, view.CreateMethod.Finish()[0])
	_, name, args := methodCall(t, decl.Value)
	if name != "listenGlobal" {
		t.Fatalf("Expected a targeted event to use listenGlobal, got %s", name)
	}
	if asLiteral(t, args[0]).Value != "window" || asLiteral(t, args[1]).Value != "scroll" {
		t.Errorf("Expected (target, name) arguments for the global listener")
	}
}

func TestBindRenderOutputsSkipsAnimationListeners(t *testing.T) {
	view := newTestView(nil, nil)
	element := newTestElement(view, 0, nil)
	listeners := view_compiler.CollectEventListeners([]*template_parser.BoundEventAst{
		boundEvent("fade", "", "done", "onDone($event)"),
	}, nil, element)

	view_compiler.BindRenderOutputs(listeners)

	if !listeners[0].IsAnimation() {
		t.Fatalf("Expected a phase-qualified event to be an animation listener")
	}
	if len(view.Disposables) != 0 || !view.CreateMethod.IsEmpty() {
		t.Errorf("Expected animation listeners to stay off the renderer")
	}
}

func TestListenToAnimationStmtPhases(t *testing.T) {
	view := newTestView(nil, nil)
	element := newTestElement(view, 0, nil)
	listeners := view_compiler.CollectEventListeners([]*template_parser.BoundEventAst{
		boundEvent("fade", "", "start", "onStart($event)"),
		boundEvent("fade", "", "done", "onDone($event)"),
	}, nil, element)
	transitionVar := output.Variable("animationTransition_fade", nil, nil)

	_, startName, _ := methodCall(t, asExprStmt(t, listeners[0].ListenToAnimationStmt(transitionVar)).Expr)
	_, doneName, _ := methodCall(t, asExprStmt(t, listeners[1].ListenToAnimationStmt(transitionVar)).Expr)
	if startName != "onStart" {
		t.Errorf("Expected the start phase to hook onStart, got %s", startName)
	}
	if doneName != "onDone" {
		t.Errorf("Expected the done phase to hook onDone, got %s", doneName)
	}
}

func TestBindDirectiveOutputsSubscribesInSortedOrder(t *testing.T) {
	view := newTestView(nil, nil)
	element := newTestElement(view, 0, nil)
	directive := compile_metadata.NewCompileDirectiveMetadata(
		testType("MyDir"), false, "[myDir]", nil,
		[]string{"zebraChange: zebra", "appleChange: apple"}, nil, nil, nil)
	directiveAst := template_parser.NewDirectiveAst(directive, nil, nil, nil, fakeSpan())
	directiveInstance := output.Prop(output.ThisExpr, "_MyDir_0_3")
	element.DirectiveWrapperInstances[directive.Type] = directiveInstance
	listeners := view_compiler.CollectEventListeners([]*template_parser.BoundEventAst{
		boundEvent("zebra", "", "", "onZebra()"),
		boundEvent("apple", "", "", "onApple()"),
	}, nil, element)

	view_compiler.BindDirectiveOutputs(directiveAst, output.Prop(directiveInstance, "context"), listeners)

	if len(view.Subscriptions) != 2 {
		t.Fatalf("Expected one subscription per matched output, got %d", len(view.Subscriptions))
	}
	stmts := view.CreateMethod.Finish()
	var observableProps []string
	for i, stmt := range stmts {
		decl := asDeclareVar(t, stmt)
		if decl.Name != asReadVar(t, view.Subscriptions[i]).Name {
			t.Errorf("Expected subscription numbering to follow registration order")
		}
		receiver, name, _ := methodCall(t, decl.Value)
		if name != "subscribe" {
			t.Fatalf("Expected a subscribe call, got %s", name)
		}
		observableProps = append(observableProps, asPropRead(t, receiver).Name)
	}
	if observableProps[0] != "appleChange" || observableProps[1] != "zebraChange" {
		t.Errorf("Expected outputs walked in sorted order, got %v", observableProps)
	}
}
