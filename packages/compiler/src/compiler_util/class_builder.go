package compiler_util

import (
	"ngve-go/packages/compiler/src/output"
)

// ClassBuilder collects the parts of a generated class while the binding
// passes contribute fields, accessors and constructor statements.
type ClassBuilder struct {
	Fields    []*output.ClassField
	Getters   []*output.ClassGetter
	Methods   []*output.ClassMethod
	CtorStmts []output.OutputStatement
}

// CreateClassStmt assembles a class statement from the accumulated builder
// parts. When parent is set, a super call with parentArgs is prepended to the
// constructor body.
func CreateClassStmt(name string, parent output.OutputExpression, parentArgs []output.OutputExpression, ctorParams []*output.FnParam, modifiers output.StmtModifier, builder *ClassBuilder) *output.ClassStmt {
	ctorStmts := []output.OutputStatement{}
	if parent != nil {
		ctorStmts = append(ctorStmts, output.ToStmt(output.CallFn(output.SuperExpr, parentArgs)))
	}
	ctorStmts = append(ctorStmts, builder.CtorStmts...)
	ctor := output.NewClassMethod(nil, ctorParams, ctorStmts, nil, output.StmtModifierNone)
	return output.NewClassStmt(name, parent, builder.Fields, builder.Getters, ctor, builder.Methods, modifiers, nil)
}
