package view_compiler

import (
	"ngve-go/packages/compiler/src/template_parser"
)

// CompileBinding records one registered binding of a view. The index of a
// binding in CompileView.Bindings is its slot, which names the generated
// `_expr_<slot>` field and `currVal_<slot>` variable.
type CompileBinding struct {
	Node      *CompileNode
	SourceAst template_parser.TemplateAst
}

// NewCompileBinding creates a new CompileBinding
func NewCompileBinding(node *CompileNode, sourceAst template_parser.TemplateAst) *CompileBinding {
	return &CompileBinding{Node: node, SourceAst: sourceAst}
}
