package view_compiler

import (
	"fmt"

	"ngve-go/packages/compiler/src/compile_metadata"
	"ngve-go/packages/compiler/src/output"
	"ngve-go/packages/compiler/src/template_parser"
)

// CompileViewNode is a node of a compiled view: either a plain *CompileNode
// (text, bound text, ng-content) or a *CompileElement.
type CompileViewNode interface {
	Node() *CompileNode
}

// CompileNode ties a template node to the expression that reads its render
// node off the view instance.
type CompileNode struct {
	Parent     *CompileElement
	View       *CompileView
	NodeIndex  int
	RenderNode output.OutputExpression
	SourceAst  template_parser.TemplateAst
}

// NewCompileNode creates a new CompileNode
func NewCompileNode(parent *CompileElement, view *CompileView, nodeIndex int, renderNode output.OutputExpression, sourceAst template_parser.TemplateAst) *CompileNode {
	return &CompileNode{
		Parent:     parent,
		View:       view,
		NodeIndex:  nodeIndex,
		RenderNode: renderNode,
		SourceAst:  sourceAst,
	}
}

// Node implements CompileViewNode.
func (n *CompileNode) Node() *CompileNode { return n }

// CompileElement is the node of an element or an embedded template. AppElement
// is the expression for the app element that owns nested views; the wrapper
// instance map holds, per directive type, the expression for the directive
// wrapper created on this element.
type CompileElement struct {
	*CompileNode

	AppElement                *output.ReadPropExpr
	Component                 *compile_metadata.CompileDirectiveMetadata
	DirectiveWrapperInstances map[*compile_metadata.CompileTypeMetadata]output.OutputExpression
	EmbeddedView              *CompileView
}

// NewCompileElement creates a new CompileElement
func NewCompileElement(parent *CompileElement, view *CompileView, nodeIndex int, renderNode output.OutputExpression, sourceAst template_parser.TemplateAst,
	appElement *output.ReadPropExpr, component *compile_metadata.CompileDirectiveMetadata) *CompileElement {
	return &CompileElement{
		CompileNode:               NewCompileNode(parent, view, nodeIndex, renderNode, sourceAst),
		AppElement:                appElement,
		Component:                 component,
		DirectiveWrapperInstances: map[*compile_metadata.CompileTypeMetadata]output.OutputExpression{},
	}
}

// DirectiveWrapperInstance returns the wrapper expression registered for the
// given directive on this element.
func (e *CompileElement) DirectiveWrapperInstance(directive *compile_metadata.CompileDirectiveMetadata) output.OutputExpression {
	wrapper := e.DirectiveWrapperInstances[directive.Type]
	if wrapper == nil {
		panic(fmt.Sprintf("Illegal state: no directive wrapper for %s on node %d", directive.Type.Name, e.NodeIndex))
	}
	return wrapper
}
