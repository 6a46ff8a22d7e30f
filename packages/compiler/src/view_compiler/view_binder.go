package view_compiler

import (
	"ngve-go/packages/compiler/src/template_parser"
)

// BindView walks the parsed template of a view in template order and
// generates all bindings onto it: text bindings, element render property
// bindings, directive inputs and host bindings, and event wiring. Afterwards
// the pipes that were used get their instance fields created.
func BindView(view *CompileView, parsedTemplate []template_parser.TemplateAst) {
	visitor := &viewBinderVisitor{view: view}
	template_parser.TemplateVisitAll(visitor, parsedTemplate, nil)
	for _, pipe := range view.Pipes {
		pipe.Create()
	}
}

type viewBinderVisitor struct {
	view      *CompileView
	nodeIndex int
}

func (v *viewBinderVisitor) VisitBoundText(ast *template_parser.BoundTextAst, context interface{}) interface{} {
	node := v.view.Nodes[v.nodeIndex].Node()
	v.nodeIndex++
	BindRenderText(ast, node, v.view)
	return nil
}

func (v *viewBinderVisitor) VisitText(ast *template_parser.TextAst, context interface{}) interface{} {
	v.nodeIndex++
	return nil
}

func (v *viewBinderVisitor) VisitNgContent(ast *template_parser.NgContentAst, context interface{}) interface{} {
	return nil
}

func (v *viewBinderVisitor) VisitElement(ast *template_parser.ElementAst, context interface{}) interface{} {
	compileElement := v.view.Nodes[v.nodeIndex].(*CompileElement)
	v.nodeIndex++

	eventListeners := CollectEventListeners(ast.Outputs, ast.Directives, compileElement)
	// Animation outputs must be collected before the animation inputs bind,
	// so transition callbacks can be attached at the binding site.
	BindRenderInputs(ast.Inputs, compileElement, eventListeners)
	for _, directiveAst := range ast.Directives {
		directiveWrapperInstance := compileElement.DirectiveWrapperInstance(directiveAst.Directive)
		BindDirectiveInputs(directiveAst, directiveWrapperInstance, compileElement)
		BindDirectiveHostProps(directiveAst, directiveWrapperInstance, compileElement, eventListeners)
		BindDirectiveOutputs(directiveAst, directiveContextExpr(compileElement, directiveAst), eventListeners)
	}
	template_parser.TemplateVisitAll(v, ast.Children, compileElement)
	BindRenderOutputs(eventListeners)
	return nil
}

func (v *viewBinderVisitor) VisitEmbeddedTemplate(ast *template_parser.EmbeddedTemplateAst, context interface{}) interface{} {
	compileElement := v.view.Nodes[v.nodeIndex].(*CompileElement)
	v.nodeIndex++

	eventListeners := CollectEventListeners(ast.Outputs, ast.Directives, compileElement)
	for _, directiveAst := range ast.Directives {
		directiveWrapperInstance := compileElement.DirectiveWrapperInstance(directiveAst.Directive)
		BindDirectiveInputs(directiveAst, directiveWrapperInstance, compileElement)
		BindDirectiveOutputs(directiveAst, directiveContextExpr(compileElement, directiveAst), eventListeners)
	}
	BindRenderOutputs(eventListeners)
	if compileElement.EmbeddedView != nil {
		BindView(compileElement.EmbeddedView, ast.Children)
	}
	return nil
}

func (v *viewBinderVisitor) VisitReference(ast *template_parser.ReferenceAst, context interface{}) interface{} {
	return nil
}

func (v *viewBinderVisitor) VisitVariable(ast *template_parser.VariableAst, context interface{}) interface{} {
	return nil
}

func (v *viewBinderVisitor) VisitEvent(ast *template_parser.BoundEventAst, context interface{}) interface{} {
	return nil
}

func (v *viewBinderVisitor) VisitElementProperty(ast *template_parser.BoundElementPropertyAst, context interface{}) interface{} {
	return nil
}

func (v *viewBinderVisitor) VisitAttr(ast *template_parser.AttrAst, context interface{}) interface{} {
	return nil
}

func (v *viewBinderVisitor) VisitDirective(ast *template_parser.DirectiveAst, context interface{}) interface{} {
	return nil
}

func (v *viewBinderVisitor) VisitDirectiveProperty(ast *template_parser.BoundDirectivePropertyAst, context interface{}) interface{} {
	return nil
}
