package template_parser

import (
	"ngve-go/packages/compiler/core"
	"ngve-go/packages/compiler/src/compile_metadata"
	"ngve-go/packages/compiler/src/expression_parser"
	"ngve-go/packages/compiler/src/util"
)

// TemplateAst is a node in the parsed template tree handed to the view
// compiler. Nodes keep the source span of the template fragment they were
// parsed from so generated code can carry debug info.
type TemplateAst interface {
	SourceSpan() *util.ParseSourceSpan
	Visit(visitor TemplateAstVisitor, context interface{}) interface{}
}

// TemplateAstVisitor visits TemplateAst nodes
type TemplateAstVisitor interface {
	VisitNgContent(ast *NgContentAst, context interface{}) interface{}
	VisitEmbeddedTemplate(ast *EmbeddedTemplateAst, context interface{}) interface{}
	VisitElement(ast *ElementAst, context interface{}) interface{}
	VisitReference(ast *ReferenceAst, context interface{}) interface{}
	VisitVariable(ast *VariableAst, context interface{}) interface{}
	VisitEvent(ast *BoundEventAst, context interface{}) interface{}
	VisitElementProperty(ast *BoundElementPropertyAst, context interface{}) interface{}
	VisitAttr(ast *AttrAst, context interface{}) interface{}
	VisitBoundText(ast *BoundTextAst, context interface{}) interface{}
	VisitText(ast *TextAst, context interface{}) interface{}
	VisitDirective(ast *DirectiveAst, context interface{}) interface{}
	VisitDirectiveProperty(ast *BoundDirectivePropertyAst, context interface{}) interface{}
}

// TextAst represents a static text node
type TextAst struct {
	Value          string
	NgContentIndex int
	sourceSpan     *util.ParseSourceSpan
}

// NewTextAst creates a new TextAst
func NewTextAst(value string, ngContentIndex int, sourceSpan *util.ParseSourceSpan) *TextAst {
	return &TextAst{Value: value, NgContentIndex: ngContentIndex, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (a *TextAst) SourceSpan() *util.ParseSourceSpan { return a.sourceSpan }

// Visit calls the visitor's VisitText method
func (a *TextAst) Visit(visitor TemplateAstVisitor, context interface{}) interface{} {
	return visitor.VisitText(a, context)
}

// BoundTextAst represents a text node with interpolated expressions
type BoundTextAst struct {
	Value          expression_parser.AST
	NgContentIndex int
	sourceSpan     *util.ParseSourceSpan
}

// NewBoundTextAst creates a new BoundTextAst
func NewBoundTextAst(value expression_parser.AST, ngContentIndex int, sourceSpan *util.ParseSourceSpan) *BoundTextAst {
	return &BoundTextAst{Value: value, NgContentIndex: ngContentIndex, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (a *BoundTextAst) SourceSpan() *util.ParseSourceSpan { return a.sourceSpan }

// Visit calls the visitor's VisitBoundText method
func (a *BoundTextAst) Visit(visitor TemplateAstVisitor, context interface{}) interface{} {
	return visitor.VisitBoundText(a, context)
}

// AttrAst represents a plain attribute on an element
type AttrAst struct {
	Name       string
	Value      string
	sourceSpan *util.ParseSourceSpan
}

// NewAttrAst creates a new AttrAst
func NewAttrAst(name, value string, sourceSpan *util.ParseSourceSpan) *AttrAst {
	return &AttrAst{Name: name, Value: value, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (a *AttrAst) SourceSpan() *util.ParseSourceSpan { return a.sourceSpan }

// Visit calls the visitor's VisitAttr method
func (a *AttrAst) Visit(visitor TemplateAstVisitor, context interface{}) interface{} {
	return visitor.VisitAttr(a, context)
}

// PropertyBindingType describes the target of a bound element property
type PropertyBindingType int

const (
	// PropertyBindingTypeProperty is a normal binding to a property (e.g. `[property]="expression"`)
	PropertyBindingTypeProperty PropertyBindingType = iota
	// PropertyBindingTypeAttribute is a binding to an element attribute (e.g. `[attr.name]="expression"`)
	PropertyBindingTypeAttribute
	// PropertyBindingTypeClass is a binding to a CSS class (e.g. `[class.name]="condition"`)
	PropertyBindingTypeClass
	// PropertyBindingTypeStyle is a binding to a style rule (e.g. `[style.rule]="expression"`)
	PropertyBindingTypeStyle
	// PropertyBindingTypeAnimation is a binding to an animation reference (e.g. `[@trigger]="stateExp"`)
	PropertyBindingTypeAnimation
)

// BoundElementPropertyAst represents a property, attribute, class, style or
// animation binding on an element
type BoundElementPropertyAst struct {
	Name            string
	Type            PropertyBindingType
	SecurityContext core.SecurityContext
	Value           expression_parser.AST
	Unit            string
	sourceSpan      *util.ParseSourceSpan
}

// NewBoundElementPropertyAst creates a new BoundElementPropertyAst
func NewBoundElementPropertyAst(
	name string,
	typ PropertyBindingType,
	securityContext core.SecurityContext,
	value expression_parser.AST,
	unit string,
	sourceSpan *util.ParseSourceSpan,
) *BoundElementPropertyAst {
	return &BoundElementPropertyAst{
		Name:            name,
		Type:            typ,
		SecurityContext: securityContext,
		Value:           value,
		Unit:            unit,
		sourceSpan:      sourceSpan,
	}
}

// SourceSpan returns the source span
func (a *BoundElementPropertyAst) SourceSpan() *util.ParseSourceSpan { return a.sourceSpan }

// Visit calls the visitor's VisitElementProperty method
func (a *BoundElementPropertyAst) Visit(visitor TemplateAstVisitor, context interface{}) interface{} {
	return visitor.VisitElementProperty(a, context)
}

// IsAnimation reports whether the binding targets an animation trigger
func (a *BoundElementPropertyAst) IsAnimation() bool {
	return a.Type == PropertyBindingTypeAnimation
}

// BoundEventAst represents an event binding on an element or a directive
// output. Animation listener bindings carry the phase ("start" or "done")
// instead of a target.
type BoundEventAst struct {
	Name       string
	Target     string
	Phase      string
	Handler    expression_parser.AST
	sourceSpan *util.ParseSourceSpan
}

// NewBoundEventAst creates a new BoundEventAst
func NewBoundEventAst(name, target, phase string, handler expression_parser.AST, sourceSpan *util.ParseSourceSpan) *BoundEventAst {
	return &BoundEventAst{
		Name:       name,
		Target:     target,
		Phase:      phase,
		Handler:    handler,
		sourceSpan: sourceSpan,
	}
}

// CalcEventFullName returns the qualified name of an event binding
func CalcEventFullName(name, target, phase string) string {
	if target != "" {
		return target + ":" + name
	}
	if phase != "" {
		return "@" + name + "." + phase
	}
	return name
}

// SourceSpan returns the source span
func (a *BoundEventAst) SourceSpan() *util.ParseSourceSpan { return a.sourceSpan }

// Visit calls the visitor's VisitEvent method
func (a *BoundEventAst) Visit(visitor TemplateAstVisitor, context interface{}) interface{} {
	return visitor.VisitEvent(a, context)
}

// FullName returns the qualified name of the event
func (a *BoundEventAst) FullName() string {
	return CalcEventFullName(a.Name, a.Target, a.Phase)
}

// IsAnimation reports whether the event is an animation trigger listener
func (a *BoundEventAst) IsAnimation() bool { return a.Phase != "" }

// VariableAst represents a variable declared on an embedded template
// (e.g. `let item` in a microsyntax expression)
type VariableAst struct {
	Name       string
	Value      string
	sourceSpan *util.ParseSourceSpan
}

// NewVariableAst creates a new VariableAst
func NewVariableAst(name, value string, sourceSpan *util.ParseSourceSpan) *VariableAst {
	return &VariableAst{Name: name, Value: value, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (a *VariableAst) SourceSpan() *util.ParseSourceSpan { return a.sourceSpan }

// Visit calls the visitor's VisitVariable method
func (a *VariableAst) Visit(visitor TemplateAstVisitor, context interface{}) interface{} {
	return visitor.VisitVariable(a, context)
}

// ReferenceAst represents a reference declared on an element (e.g. `#ref`)
type ReferenceAst struct {
	Name       string
	Value      *compile_metadata.CompileIdentifierMetadata
	sourceSpan *util.ParseSourceSpan
}

// NewReferenceAst creates a new ReferenceAst
func NewReferenceAst(name string, value *compile_metadata.CompileIdentifierMetadata, sourceSpan *util.ParseSourceSpan) *ReferenceAst {
	return &ReferenceAst{Name: name, Value: value, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (a *ReferenceAst) SourceSpan() *util.ParseSourceSpan { return a.sourceSpan }

// Visit calls the visitor's VisitReference method
func (a *ReferenceAst) Visit(visitor TemplateAstVisitor, context interface{}) interface{} {
	return visitor.VisitReference(a, context)
}

// ElementAst represents an element with attributes, bindings and children
type ElementAst struct {
	Name           string
	Attrs          []*AttrAst
	Inputs         []*BoundElementPropertyAst
	Outputs        []*BoundEventAst
	References     []*ReferenceAst
	Directives     []*DirectiveAst
	Children       []TemplateAst
	NgContentIndex int
	sourceSpan     *util.ParseSourceSpan
}

// NewElementAst creates a new ElementAst
func NewElementAst(
	name string,
	attrs []*AttrAst,
	inputs []*BoundElementPropertyAst,
	outputs []*BoundEventAst,
	references []*ReferenceAst,
	directives []*DirectiveAst,
	children []TemplateAst,
	ngContentIndex int,
	sourceSpan *util.ParseSourceSpan,
) *ElementAst {
	return &ElementAst{
		Name:           name,
		Attrs:          attrs,
		Inputs:         inputs,
		Outputs:        outputs,
		References:     references,
		Directives:     directives,
		Children:       children,
		NgContentIndex: ngContentIndex,
		sourceSpan:     sourceSpan,
	}
}

// SourceSpan returns the source span
func (a *ElementAst) SourceSpan() *util.ParseSourceSpan { return a.sourceSpan }

// Visit calls the visitor's VisitElement method
func (a *ElementAst) Visit(visitor TemplateAstVisitor, context interface{}) interface{} {
	return visitor.VisitElement(a, context)
}

// EmbeddedTemplateAst represents a `<template>` element with variables and children
type EmbeddedTemplateAst struct {
	Attrs          []*AttrAst
	Outputs        []*BoundEventAst
	References     []*ReferenceAst
	Variables      []*VariableAst
	Directives     []*DirectiveAst
	Children       []TemplateAst
	NgContentIndex int
	sourceSpan     *util.ParseSourceSpan
}

// NewEmbeddedTemplateAst creates a new EmbeddedTemplateAst
func NewEmbeddedTemplateAst(
	attrs []*AttrAst,
	outputs []*BoundEventAst,
	references []*ReferenceAst,
	variables []*VariableAst,
	directives []*DirectiveAst,
	children []TemplateAst,
	ngContentIndex int,
	sourceSpan *util.ParseSourceSpan,
) *EmbeddedTemplateAst {
	return &EmbeddedTemplateAst{
		Attrs:          attrs,
		Outputs:        outputs,
		References:     references,
		Variables:      variables,
		Directives:     directives,
		Children:       children,
		NgContentIndex: ngContentIndex,
		sourceSpan:     sourceSpan,
	}
}

// SourceSpan returns the source span
func (a *EmbeddedTemplateAst) SourceSpan() *util.ParseSourceSpan { return a.sourceSpan }

// Visit calls the visitor's VisitEmbeddedTemplate method
func (a *EmbeddedTemplateAst) Visit(visitor TemplateAstVisitor, context interface{}) interface{} {
	return visitor.VisitEmbeddedTemplate(a, context)
}

// BoundDirectivePropertyAst represents a directive input bound to an expression
type BoundDirectivePropertyAst struct {
	DirectiveName string
	TemplateName  string
	Value         expression_parser.AST
	sourceSpan    *util.ParseSourceSpan
}

// NewBoundDirectivePropertyAst creates a new BoundDirectivePropertyAst
func NewBoundDirectivePropertyAst(directiveName, templateName string, value expression_parser.AST, sourceSpan *util.ParseSourceSpan) *BoundDirectivePropertyAst {
	return &BoundDirectivePropertyAst{
		DirectiveName: directiveName,
		TemplateName:  templateName,
		Value:         value,
		sourceSpan:    sourceSpan,
	}
}

// SourceSpan returns the source span
func (a *BoundDirectivePropertyAst) SourceSpan() *util.ParseSourceSpan { return a.sourceSpan }

// Visit calls the visitor's VisitDirectiveProperty method
func (a *BoundDirectivePropertyAst) Visit(visitor TemplateAstVisitor, context interface{}) interface{} {
	return visitor.VisitDirectiveProperty(a, context)
}

// DirectiveAst represents a directive instantiated on an element, with its
// bound inputs and the bindings of its host area
type DirectiveAst struct {
	Directive      *compile_metadata.CompileDirectiveMetadata
	Inputs         []*BoundDirectivePropertyAst
	HostProperties []*BoundElementPropertyAst
	HostEvents     []*BoundEventAst
	sourceSpan     *util.ParseSourceSpan
}

// NewDirectiveAst creates a new DirectiveAst
func NewDirectiveAst(
	directive *compile_metadata.CompileDirectiveMetadata,
	inputs []*BoundDirectivePropertyAst,
	hostProperties []*BoundElementPropertyAst,
	hostEvents []*BoundEventAst,
	sourceSpan *util.ParseSourceSpan,
) *DirectiveAst {
	return &DirectiveAst{
		Directive:      directive,
		Inputs:         inputs,
		HostProperties: hostProperties,
		HostEvents:     hostEvents,
		sourceSpan:     sourceSpan,
	}
}

// SourceSpan returns the source span
func (a *DirectiveAst) SourceSpan() *util.ParseSourceSpan { return a.sourceSpan }

// Visit calls the visitor's VisitDirective method
func (a *DirectiveAst) Visit(visitor TemplateAstVisitor, context interface{}) interface{} {
	return visitor.VisitDirective(a, context)
}

// NgContentAst represents a `<ng-content>` projection point
type NgContentAst struct {
	Index          int
	NgContentIndex int
	sourceSpan     *util.ParseSourceSpan
}

// NewNgContentAst creates a new NgContentAst
func NewNgContentAst(index, ngContentIndex int, sourceSpan *util.ParseSourceSpan) *NgContentAst {
	return &NgContentAst{Index: index, NgContentIndex: ngContentIndex, sourceSpan: sourceSpan}
}

// SourceSpan returns the source span
func (a *NgContentAst) SourceSpan() *util.ParseSourceSpan { return a.sourceSpan }

// Visit calls the visitor's VisitNgContent method
func (a *NgContentAst) Visit(visitor TemplateAstVisitor, context interface{}) interface{} {
	return visitor.VisitNgContent(a, context)
}

// TemplateVisitAll visits all given TemplateAst nodes and collects the
// non-nil results
func TemplateVisitAll(visitor TemplateAstVisitor, asts []TemplateAst, context interface{}) []interface{} {
	result := []interface{}{}
	for _, ast := range asts {
		if astResult := ast.Visit(visitor, context); astResult != nil {
			result = append(result, astResult)
		}
	}
	return result
}
