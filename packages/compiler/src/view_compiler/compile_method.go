package view_compiler

import (
	"fmt"

	"ngve-go/packages/compiler/src/output"
	"ngve-go/packages/compiler/src/template_parser"
)

type debugState struct {
	nodeIndex int
	sourceAst template_parser.TemplateAst
}

var nullDebugState = debugState{nodeIndex: -1}

// CompileMethod collects the statements of one generated view method. When
// debug info generation is enabled, a comment statement naming the template
// node and its source location is emitted whenever statements for a new node
// start.
type CompileMethod struct {
	view *CompileView

	debugEnabled bool
	newState     debugState
	currState    debugState

	bodyStatements []output.OutputStatement
}

// NewCompileMethod creates a new CompileMethod
func NewCompileMethod(view *CompileView) *CompileMethod {
	return &CompileMethod{
		view:         view,
		debugEnabled: view.GenConfig.GenDebugInfo,
		newState:     nullDebugState,
		currState:    nullDebugState,
	}
}

func (m *CompileMethod) updateDebugContextIfNeeded() {
	if m.newState.nodeIndex != m.currState.nodeIndex || m.newState.sourceAst != m.currState.sourceAst {
		m.currState = m.newState
		if m.debugEnabled && m.currState.nodeIndex >= 0 {
			m.bodyStatements = append(m.bodyStatements, output.NewCommentStmt(debugMarker(m.currState), nil))
		}
	}
}

func debugMarker(state debugState) string {
	comment := fmt.Sprintf("node %d", state.nodeIndex)
	if state.sourceAst != nil && state.sourceAst.SourceSpan() != nil {
		start := state.sourceAst.SourceSpan().Start
		comment = fmt.Sprintf("%s, line %d, col %d", comment, start.Line, start.Col)
	}
	return comment
}

// ResetDebugInfo records the template node the next added statements belong
// to. Pass a negative nodeIndex and nil ast for statements that have no
// template counterpart.
func (m *CompileMethod) ResetDebugInfo(nodeIndex int, sourceAst template_parser.TemplateAst) {
	m.newState = debugState{nodeIndex: nodeIndex, sourceAst: sourceAst}
}

// AddStmt appends a single statement
func (m *CompileMethod) AddStmt(stmt output.OutputStatement) {
	m.updateDebugContextIfNeeded()
	m.bodyStatements = append(m.bodyStatements, stmt)
}

// AddStmts appends a list of statements
func (m *CompileMethod) AddStmts(stmts []output.OutputStatement) {
	m.updateDebugContextIfNeeded()
	m.bodyStatements = append(m.bodyStatements, stmts...)
}

// Finish returns the collected method body.
func (m *CompileMethod) Finish() []output.OutputStatement {
	return m.bodyStatements
}

// IsEmpty reports whether no statements have been added.
func (m *CompileMethod) IsEmpty() bool {
	return len(m.bodyStatements) == 0
}
