package view_compiler

import (
	"fmt"
	"regexp"
	"sort"

	"ngve-go/packages/compiler/src/compile_metadata"
	"ngve-go/packages/compiler/src/compiler_util"
	"ngve-go/packages/compiler/src/output"
	"ngve-go/packages/compiler/src/template_parser"
)

var eventNameSanitizerRegexp = regexp.MustCompile(`[^a-zA-Z_]`)

// CompileEventListener collects all actions bound to one (target, name,
// phase) event of an element and generates the handler method plus the
// renderer, directive or animation subscription that invokes it.
type CompileEventListener struct {
	CompileElement *CompileElement
	EventTarget    string
	EventName      string
	EventPhase     string

	method                   *CompileMethod
	hasComponentHostListener bool
	methodName               string
	eventParam               *output.FnParam
	actionResultExprs        []output.OutputExpression
}

func getOrCreateEventListener(compileElement *CompileElement, eventTarget, eventName, eventPhase string,
	targetEventListeners *[]*CompileEventListener) *CompileEventListener {
	for _, listener := range *targetEventListeners {
		if listener.EventTarget == eventTarget && listener.EventName == eventName && listener.EventPhase == eventPhase {
			return listener
		}
	}
	listener := newCompileEventListener(compileElement, eventTarget, eventName, eventPhase, len(*targetEventListeners))
	*targetEventListeners = append(*targetEventListeners, listener)
	return listener
}

func newCompileEventListener(compileElement *CompileElement, eventTarget, eventName, eventPhase string,
	listenerIndex int) *CompileEventListener {
	return &CompileEventListener{
		CompileElement: compileElement,
		EventTarget:    eventTarget,
		EventName:      eventName,
		EventPhase:     eventPhase,
		method:         NewCompileMethod(compileElement.View),
		methodName: fmt.Sprintf("_handle_%s_%d_%d",
			sanitizeEventName(eventName), compileElement.NodeIndex, listenerIndex),
		eventParam: output.NewFnParam(EventHandlerVars.Event.Name, output.DynamicType),
	}
}

// MethodName returns the name of the generated handler method.
func (l *CompileEventListener) MethodName() string {
	return l.methodName
}

// IsAnimation reports whether this listener belongs to an animation phase
// event such as (@fade.start).
func (l *CompileEventListener) IsAnimation() bool {
	return l.EventPhase != ""
}

// AddAction appends the statements of one bound action to the handler method.
// Actions of directive host listeners run against the directive instance,
// all others against the component context.
func (l *CompileEventListener) AddAction(hostEvent *template_parser.BoundEventAst,
	directive *compile_metadata.CompileDirectiveMetadata, directiveInstance output.OutputExpression, bindingIndex int) {
	if directive != nil && directive.IsComponent {
		l.hasComponentHostListener = true
	}
	l.method.ResetDebugInfo(l.CompileElement.NodeIndex, hostEvent)
	view := l.CompileElement.View
	context := directiveInstance
	var resolver compiler_util.NameResolver = view
	if context == nil {
		context = view.ComponentContext
	} else {
		// Locals and pipes are not available to a directive's own host
		// listeners.
		resolver = nil
	}
	evalResult := compiler_util.ConvertActionBinding(&view.ClassBuilder, resolver, context, hostEvent.Handler, bindingIndex)
	if evalResult.PreventDefaultVar != nil {
		l.actionResultExprs = append(l.actionResultExprs, evalResult.PreventDefaultVar)
	}
	l.method.AddStmts(evalResult.Stmts)
}

// FinishMethod emits the handler method onto the view. The handler first
// marks the path to the root as check-once, runs the collected actions and
// returns false as soon as any action returned false, which tells the caller
// to prevent the default event behavior.
func (l *CompileEventListener) FinishMethod() {
	markPathToRootStart := output.OutputExpression(output.ThisExpr)
	if l.hasComponentHostListener {
		markPathToRootStart = output.Prop(l.CompileElement.AppElement, "componentView")
	}
	resultExpr := output.OutputExpression(output.Literal(true, nil, nil))
	for _, actionResult := range l.actionResultExprs {
		resultExpr = output.And(resultExpr, actionResult)
	}
	stmts := []output.OutputStatement{
		output.ToStmt(output.CallMethod(markPathToRootStart, "markPathToRootAsCheckOnce", []output.OutputExpression{})),
	}
	stmts = append(stmts, l.method.Finish()...)
	stmts = append(stmts, output.NewReturnStatement(resultExpr, nil, nil))

	// private is fine here as no child view will reference the event handler
	methodName := l.methodName
	view := l.CompileElement.View
	view.Methods = append(view.Methods, output.NewClassMethod(&methodName,
		[]*output.FnParam{l.eventParam}, stmts, output.BoolType, output.StmtModifierPrivate))
}

// ListenToRenderer registers the handler with the renderer in the create
// method and keeps the returned unlisten function as a disposable.
func (l *CompileEventListener) ListenToRenderer() {
	view := l.CompileElement.View
	eventListener := output.CallMethod(output.ThisExpr, "eventHandler",
		[]output.OutputExpression{l.handlerExpr()})
	var listenExpr output.OutputExpression
	if l.EventTarget != "" {
		listenExpr = output.CallMethod(ViewProperties.Renderer, "listenGlobal",
			[]output.OutputExpression{output.Literal(l.EventTarget, nil, nil), output.Literal(l.EventName, nil, nil), eventListener})
	} else {
		listenExpr = output.CallMethod(ViewProperties.Renderer, "listen",
			[]output.OutputExpression{l.CompileElement.RenderNode, output.Literal(l.EventName, nil, nil), eventListener})
	}
	disposable := output.Variable(fmt.Sprintf("disposable_%d", len(view.Disposables)), nil, nil)
	view.Disposables = append(view.Disposables, disposable)
	view.CreateMethod.AddStmt(disposable.ToDeclStmt(listenExpr, output.FunctionType, output.StmtModifierPrivate))
}

// ListenToAnimationStmt hooks the handler onto the matching callback of a
// started animation transition.
func (l *CompileEventListener) ListenToAnimationStmt(animationTransitionVar *output.ReadVarExpr) output.OutputStatement {
	callbackMethod := "onDone"
	if l.EventPhase == "start" {
		callbackMethod = "onStart"
	}
	return output.ToStmt(output.CallMethod(animationTransitionVar, callbackMethod,
		[]output.OutputExpression{l.handlerExpr()}))
}

// ListenToDirective subscribes the handler to an observable output property
// of a directive in the create method.
func (l *CompileEventListener) ListenToDirective(directiveInstance output.OutputExpression, observablePropName string) {
	view := l.CompileElement.View
	subscription := output.Variable(fmt.Sprintf("subscription_%d", len(view.Subscriptions)), nil, nil)
	view.Subscriptions = append(view.Subscriptions, subscription)
	eventListener := output.CallMethod(output.ThisExpr, "eventHandler",
		[]output.OutputExpression{l.handlerExpr()})
	view.CreateMethod.AddStmt(subscription.ToDeclStmt(
		output.CallMethod(output.Prop(directiveInstance, observablePropName), "subscribe",
			[]output.OutputExpression{eventListener}), nil, output.StmtModifierFinal))
}

func (l *CompileEventListener) handlerExpr() output.OutputExpression {
	return output.CallMethod(output.Prop(output.ThisExpr, l.methodName), "bind",
		[]output.OutputExpression{output.ThisExpr})
}

// CollectEventListeners registers a binding for every bound event of the
// element and its directives, groups the actions into listeners by (target,
// name, phase) and finishes the handler methods.
func CollectEventListeners(hostEvents []*template_parser.BoundEventAst, dirs []*template_parser.DirectiveAst,
	compileElement *CompileElement) []*CompileEventListener {
	var eventListeners []*CompileEventListener
	view := compileElement.View
	for _, hostEvent := range hostEvents {
		bindingIndex := len(view.Bindings)
		view.Bindings = append(view.Bindings, NewCompileBinding(compileElement.CompileNode, hostEvent))
		listener := getOrCreateEventListener(compileElement, hostEvent.Target, hostEvent.Name, hostEvent.Phase, &eventListeners)
		listener.AddAction(hostEvent, nil, nil, bindingIndex)
	}
	for _, directiveAst := range dirs {
		directiveInstance := directiveContextExpr(compileElement, directiveAst)
		for _, hostEvent := range directiveAst.HostEvents {
			bindingIndex := len(view.Bindings)
			view.Bindings = append(view.Bindings, NewCompileBinding(compileElement.CompileNode, hostEvent))
			listener := getOrCreateEventListener(compileElement, hostEvent.Target, hostEvent.Name, hostEvent.Phase, &eventListeners)
			listener.AddAction(hostEvent, directiveAst.Directive, directiveInstance, bindingIndex)
		}
	}
	for _, listener := range eventListeners {
		listener.FinishMethod()
	}
	return eventListeners
}

// BindDirectiveOutputs subscribes every listener that matches an output event
// of the directive. Outputs are walked in sorted order so subscription
// numbering is stable.
func BindDirectiveOutputs(directiveAst *template_parser.DirectiveAst, directiveInstance output.OutputExpression,
	eventListeners []*CompileEventListener) {
	observablePropNames := make([]string, 0, len(directiveAst.Directive.Outputs))
	for observablePropName := range directiveAst.Directive.Outputs {
		observablePropNames = append(observablePropNames, observablePropName)
	}
	sort.Strings(observablePropNames)
	for _, observablePropName := range observablePropNames {
		eventName := directiveAst.Directive.Outputs[observablePropName]
		for _, listener := range eventListeners {
			if listener.EventName == eventName {
				listener.ListenToDirective(directiveInstance, observablePropName)
			}
		}
	}
}

// BindRenderOutputs attaches all non-animation listeners to the renderer.
// Animation listeners are hooked onto their transition at the binding site
// instead.
func BindRenderOutputs(eventListeners []*CompileEventListener) {
	for _, listener := range eventListeners {
		if !listener.IsAnimation() {
			listener.ListenToRenderer()
		}
	}
}

func sanitizeEventName(name string) string {
	return eventNameSanitizerRegexp.ReplaceAllString(name, "_")
}
