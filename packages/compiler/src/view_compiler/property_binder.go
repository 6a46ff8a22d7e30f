package view_compiler

import (
	"fmt"

	"ngve-go/packages/compiler/core"
	"ngve-go/packages/compiler/src/compiler_util"
	"ngve-go/packages/compiler/src/expression_parser"
	"ngve-go/packages/compiler/src/identifiers"
	"ngve-go/packages/compiler/src/output"
	"ngve-go/packages/compiler/src/template_parser"
	"ngve-go/packages/compiler/src/util"
)

// emptyAnimationState is written instead of an uninitialized or detached
// animation value so the runtime can look up the styles registered for the
// `void` state.
const emptyAnimationState = "void"

func createBindFieldExpr(exprIndex int) *output.ReadPropExpr {
	return output.Prop(output.ThisExpr, fmt.Sprintf("_expr_%d", exprIndex))
}

// evaluate lowers parsedExpression into method and returns the conversion
// result whose CurrValExpr carries the freshly computed value, named like
// currValExpr. Returns nil when the expression lowers to nothing, e.g. for an
// empty binding.
func evaluate(view *CompileView, currValExpr *output.ReadVarExpr, parsedExpression expression_parser.AST,
	context output.OutputExpression, nameResolver compiler_util.NameResolver, method *CompileMethod,
	bindingIndex int) *compiler_util.ConvertPropertyBindingResult {
	evalResult := compiler_util.ConvertPropertyBinding(&view.ClassBuilder, nameResolver, context, parsedExpression, bindingIndex)
	if evalResult == nil {
		return nil
	}
	method.AddStmts(evalResult.Stmts)
	return evalResult
}

// bind emits the guarded update for one binding slot: the value is computed
// into currValExpr, compared against the cached fieldExpr and, only when
// checkBinding reports a change (or the conversion forces an update), the
// given actions run and the cache is refreshed. Host property bindings get
// the default name resolver since locals and pipes are not available on a
// directive's host.
func bind(view *CompileView, currValExpr *output.ReadVarExpr, fieldExpr *output.ReadPropExpr,
	parsedExpression expression_parser.AST, context output.OutputExpression,
	actions []output.OutputStatement, method *CompileMethod, bindingIndex int, isHostProp bool) {
	var nameResolver compiler_util.NameResolver
	if !isHostProp {
		nameResolver = view
	}
	evalResult := evaluate(view, currValExpr, parsedExpression, context, nameResolver, method, bindingIndex)
	if evalResult == nil {
		// e.g. an empty expression was given
		return
	}

	// private is fine here as no child view will reference the cached value
	view.Fields = append(view.Fields, output.NewClassField(fieldExpr.Name, nil, output.StmtModifierPrivate))
	view.CreateMethod.AddStmt(output.ToStmt(
		output.Prop(output.ThisExpr, fieldExpr.Name).Set(output.ImportExpr(identifiers.UNINITIALIZED, nil, nil))))

	condition := output.OutputExpression(output.CallFn(output.ImportExpr(identifiers.CheckBinding, nil, nil),
		[]output.OutputExpression{DetectChangesVars.ThrowOnChange, fieldExpr, evalResult.CurrValExpr}))
	if evalResult.ForceUpdate != nil {
		condition = output.Or(evalResult.ForceUpdate, condition)
	}
	trueCase := append([]output.OutputStatement{}, actions...)
	trueCase = append(trueCase, output.ToStmt(
		output.Prop(output.ThisExpr, fieldExpr.Name).Set(evalResult.CurrValExpr)))
	method.AddStmt(output.NewIfStmt(condition, trueCase, nil, nil, nil))
}

// BindRenderText binds an interpolated text node: a change of the expression
// value updates the render node through renderer.setText.
func BindRenderText(boundText *template_parser.BoundTextAst, compileNode *CompileNode, view *CompileView) {
	bindingIndex := len(view.Bindings)
	view.Bindings = append(view.Bindings, NewCompileBinding(compileNode, boundText))
	view.DetectChangesRenderPropertiesMethod.ResetDebugInfo(compileNode.NodeIndex, boundText)
	currValExpr := compiler_util.CreateCurrValueExpr(bindingIndex)
	valueField := createBindFieldExpr(bindingIndex)

	bind(view, currValExpr, valueField, boundText.Value, view.ComponentContext,
		[]output.OutputStatement{
			output.ToStmt(output.CallMethod(ViewProperties.Renderer, "setText",
				[]output.OutputExpression{compileNode.RenderNode, currValExpr})),
		},
		view.DetectChangesRenderPropertiesMethod, bindingIndex, false)
}

func bindAndWriteToRenderer(boundProps []*template_parser.BoundElementPropertyAst, context output.OutputExpression,
	compileElement *CompileElement, isHostProp bool, eventListeners []*CompileEventListener) {
	view := compileElement.View
	renderNode := compileElement.RenderNode
	for _, boundProp := range boundProps {
		bindingIndex := len(view.Bindings)
		view.Bindings = append(view.Bindings, NewCompileBinding(compileElement.CompileNode, boundProp))
		view.DetectChangesRenderPropertiesMethod.ResetDebugInfo(compileElement.NodeIndex, boundProp)
		fieldExpr := createBindFieldExpr(bindingIndex)
		currValExpr := compiler_util.CreateCurrValueExpr(bindingIndex)
		oldRenderValue := sanitizedValue(boundProp, fieldExpr)
		renderValue := sanitizedValue(boundProp, currValExpr)
		var updateStmts []output.OutputStatement
		compileMethod := view.DetectChangesRenderPropertiesMethod

		switch boundProp.Type {
		case template_parser.PropertyBindingTypeProperty:
			if view.GenConfig.LogBindingUpdate {
				updateStmts = append(updateStmts, logBindingUpdateStmt(renderNode, boundProp.Name, currValExpr))
			}
			updateStmts = append(updateStmts, output.ToStmt(
				output.CallMethod(ViewProperties.Renderer, "setElementProperty",
					[]output.OutputExpression{renderNode, output.Literal(boundProp.Name, nil, nil), renderValue})))

		case template_parser.PropertyBindingTypeAttribute:
			renderValue = output.Conditional(output.IsBlank(renderValue), output.NullExpr,
				output.CallMethod(renderValue, "toString", []output.OutputExpression{}))
			updateStmts = append(updateStmts, output.ToStmt(
				output.CallMethod(ViewProperties.Renderer, "setElementAttribute",
					[]output.OutputExpression{renderNode, output.Literal(boundProp.Name, nil, nil), renderValue})))

		case template_parser.PropertyBindingTypeClass:
			updateStmts = append(updateStmts, output.ToStmt(
				output.CallMethod(ViewProperties.Renderer, "setElementClass",
					[]output.OutputExpression{renderNode, output.Literal(boundProp.Name, nil, nil), renderValue})))

		case template_parser.PropertyBindingTypeStyle:
			strValue := output.OutputExpression(output.CallMethod(renderValue, "toString", []output.OutputExpression{}))
			if boundProp.Unit != "" {
				strValue = output.Plus(strValue, output.Literal(boundProp.Unit, nil, nil))
			}
			renderValue = output.Conditional(output.IsBlank(renderValue), output.NullExpr, strValue)
			updateStmts = append(updateStmts, output.ToStmt(
				output.CallMethod(ViewProperties.Renderer, "setElementStyle",
					[]output.OutputExpression{renderNode, output.Literal(boundProp.Name, nil, nil), renderValue})))

		case template_parser.PropertyBindingTypeAnimation:
			compileMethod = view.AnimationBindingsMethod
			var detachStmts []output.OutputStatement
			animationName := boundProp.Name
			targetViewExpr := output.OutputExpression(output.ThisExpr)
			if isHostProp {
				targetViewExpr = output.Prop(compileElement.AppElement, "componentView")
			}

			animationFnExpr := output.Key(
				output.Prop(output.Prop(targetViewExpr, "componentType"), "animations"),
				output.Literal(animationName, nil, nil))

			// it's important to normalize the void value as `void` explicitly
			// so that the styles data can be obtained from the stringmap
			emptyStateValue := output.Literal(emptyAnimationState, nil, nil)
			uninitializedValue := output.ImportExpr(identifiers.UNINITIALIZED, nil, nil)
			animationTransitionVar := output.Variable(fmt.Sprintf("animationTransition_%s", animationName), nil, nil)

			updateStmts = append(updateStmts, animationTransitionVar.ToDeclStmt(
				output.CallFn(animationFnExpr, []output.OutputExpression{
					output.ThisExpr, renderNode,
					output.Conditional(output.Equals(oldRenderValue, uninitializedValue), emptyStateValue, oldRenderValue),
					output.Conditional(output.Equals(renderValue, uninitializedValue), emptyStateValue, renderValue),
				}), nil, output.StmtModifierNone))

			detachStmts = append(detachStmts, animationTransitionVar.ToDeclStmt(
				output.CallFn(animationFnExpr, []output.OutputExpression{
					output.ThisExpr, renderNode, oldRenderValue, emptyStateValue,
				}), nil, output.StmtModifierNone))

			for _, listener := range eventListeners {
				if listener.IsAnimation() && listener.EventName == animationName {
					animationStmt := listener.ListenToAnimationStmt(animationTransitionVar)
					updateStmts = append(updateStmts, animationStmt)
					detachStmts = append(detachStmts, animationStmt)
				}
			}

			view.DetachMethod.AddStmts(detachStmts)
		}

		bind(view, currValExpr, fieldExpr, boundProp.Value, context, updateStmts, compileMethod, bindingIndex, isHostProp)
	}
}

// BindRenderInputs binds the property, attribute, class, style and animation
// inputs of an element against the component context.
func BindRenderInputs(boundProps []*template_parser.BoundElementPropertyAst, compileElement *CompileElement,
	eventListeners []*CompileEventListener) {
	bindAndWriteToRenderer(boundProps, compileElement.View.ComponentContext, compileElement, false, eventListeners)
}

// BindDirectiveHostProps binds the host properties of a directive against the
// directive instance held by its wrapper.
func BindDirectiveHostProps(directiveAst *template_parser.DirectiveAst, directiveWrapperInstance output.OutputExpression,
	compileElement *CompileElement, eventListeners []*CompileEventListener) {
	bindAndWriteToRenderer(directiveAst.HostProperties, output.Prop(directiveWrapperInstance, "context"),
		compileElement, true, eventListeners)
}

// BindDirectiveInputs evaluates the directive's input expressions and hands
// each fresh value to the wrapper's per-input check method; change guarding
// happens inside the wrapper. Afterwards change detection of the directive is
// triggered, and for an on-push component a reported change marks the nested
// component view as check-once.
func BindDirectiveInputs(directiveAst *template_parser.DirectiveAst, directiveWrapperInstance output.OutputExpression,
	compileElement *CompileElement) {
	view := compileElement.View
	detectChangesInInputsMethod := view.DetectChangesInInputsMethod

	for _, input := range directiveAst.Inputs {
		bindingIndex := len(view.Bindings)
		view.Bindings = append(view.Bindings, NewCompileBinding(compileElement.CompileNode, input))
		detectChangesInInputsMethod.ResetDebugInfo(compileElement.NodeIndex, input)

		currValExpr := compiler_util.CreateCurrValueExpr(bindingIndex)
		evalResult := evaluate(view, currValExpr, input.Value, view.ComponentContext, view,
			detectChangesInInputsMethod, bindingIndex)
		if evalResult == nil {
			continue
		}
		forceUpdate := evalResult.ForceUpdate
		if forceUpdate == nil {
			forceUpdate = output.Literal(false, nil, nil)
		}
		detectChangesInInputsMethod.AddStmt(output.ToStmt(
			output.CallMethod(directiveWrapperInstance, fmt.Sprintf("check_%s", input.DirectiveName),
				[]output.OutputExpression{evalResult.CurrValExpr, DetectChangesVars.ThrowOnChange, forceUpdate})))
	}

	isOnPushComp := directiveAst.Directive.IsComponent &&
		!core.IsDefaultChangeDetectionStrategy(directiveAst.Directive.ChangeDetection)
	directiveDetectChangesExpr := output.CallMethod(directiveWrapperInstance, "detectChangesInternal",
		[]output.OutputExpression{output.ThisExpr, compileElement.RenderNode, DetectChangesVars.ThrowOnChange})
	if isOnPushComp {
		detectChangesInInputsMethod.AddStmt(output.NewIfStmt(directiveDetectChangesExpr,
			[]output.OutputStatement{
				output.ToStmt(output.CallMethod(output.Prop(compileElement.AppElement, "componentView"),
					"markAsCheckOnce", []output.OutputExpression{})),
			}, nil, nil, nil))
	} else {
		detectChangesInInputsMethod.AddStmt(output.ToStmt(directiveDetectChangesExpr))
	}
}

func logBindingUpdateStmt(renderNode output.OutputExpression, propName string, value output.OutputExpression) output.OutputStatement {
	return output.ToStmt(output.CallMethod(ViewProperties.Renderer, "setBindingDebugInfo",
		[]output.OutputExpression{
			renderNode,
			output.Literal(fmt.Sprintf("ng-reflect-%s", util.CamelCaseToDashCase(propName)), nil, nil),
			output.Conditional(output.IsBlank(value), output.NullExpr,
				output.CallMethod(value, "toString", []output.OutputExpression{})),
		}))
}

func sanitizedValue(boundProp *template_parser.BoundElementPropertyAst, renderValue output.OutputExpression) output.OutputExpression {
	var enumValue string
	switch boundProp.SecurityContext {
	case core.SecurityContextNONE:
		return renderValue // No sanitization needed.
	case core.SecurityContextHTML:
		enumValue = "HTML"
	case core.SecurityContextSTYLE:
		enumValue = "STYLE"
	case core.SecurityContextSCRIPT:
		enumValue = "SCRIPT"
	case core.SecurityContextURL:
		enumValue = "URL"
	case core.SecurityContextRESOURCE_URL:
		enumValue = "RESOURCE_URL"
	default:
		panic(fmt.Sprintf("internal error, unexpected SecurityContext %v.", boundProp.SecurityContext))
	}
	ctx := output.Prop(ViewProperties.ViewUtils, "sanitizer")
	args := []output.OutputExpression{
		identifiers.CreateEnumExpression(identifiers.SecurityContext, enumValue),
		renderValue,
	}
	return output.CallMethod(ctx, "sanitize", args)
}
