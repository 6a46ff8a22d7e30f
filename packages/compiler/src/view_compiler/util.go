package view_compiler

import (
	"fmt"

	"ngve-go/packages/compiler/src/compile_metadata"
	"ngve-go/packages/compiler/src/output"
	"ngve-go/packages/compiler/src/template_parser"
)

// getPropertyInView rewrites a property expression defined on definedView so
// that it can be evaluated from callingView, walking `parent` references up
// the view tree. Properties that are fields or getters of the defined view
// get a cast to that view's class so emitted code keeps its type.
func getPropertyInView(property output.OutputExpression, callingView, definedView *CompileView) output.OutputExpression {
	if callingView == definedView {
		return property
	}
	viewProp := output.OutputExpression(output.ThisExpr)
	currView := callingView
	for currView != definedView && currView.DeclarationElement != nil && currView.DeclarationElement.View != nil {
		currView = currView.DeclarationElement.View
		viewProp = output.Prop(viewProp, "parent")
	}
	if currView != definedView {
		panic(fmt.Sprintf("Internal error: Could not calculate a property in a parent view: %v", property))
	}
	if readPropExpr, ok := property.(*output.ReadPropExpr); ok {
		// Note: Don't cast for members of the view base class, they are
		// available on every view.
		if definedView.hasFieldOrGetter(readPropExpr.Name) {
			viewProp = output.Cast(viewProp, definedView.ClassType)
		}
	}
	return output.ReplaceVarInExpression(output.ThisExpr.Name, viewProp, property)
}

// directiveContextExpr is the expression for a directive's instance, read off
// the wrapper created for it on the element.
func directiveContextExpr(compileElement *CompileElement, directiveAst *template_parser.DirectiveAst) output.OutputExpression {
	return output.Prop(compileElement.DirectiveWrapperInstance(directiveAst.Directive), "context")
}

// externalReferenceOf adapts identifier metadata to the external reference
// form used by the output AST.
func externalReferenceOf(meta *compile_metadata.CompileIdentifierMetadata) *output.ExternalReference {
	ref := &output.ExternalReference{Runtime: meta.Reference}
	if meta.Name != "" {
		name := meta.Name
		ref.Name = &name
	}
	if meta.ModuleURL != "" {
		moduleURL := meta.ModuleURL
		ref.ModuleName = &moduleURL
	}
	return ref
}
