package output

import (
	"fmt"
)

// AbstractJsEmitterVisitor is the base class for JavaScript emitters. Classes
// are downlevelled to constructor functions with prototype members so the
// generated code runs on ES5 engines.
type AbstractJsEmitterVisitor struct {
	*AbstractEmitterVisitor
}

// NewAbstractJsEmitterVisitor creates a new AbstractJsEmitterVisitor
func NewAbstractJsEmitterVisitor() *AbstractJsEmitterVisitor {
	v := &AbstractJsEmitterVisitor{
		AbstractEmitterVisitor: NewAbstractEmitterVisitor(false),
	}
	v.SetVisitor(v)
	return v
}

// VisitWrappedNodeExpr visits a wrapped node expression
func (v *AbstractJsEmitterVisitor) VisitWrappedNodeExpr(ast *WrappedNodeExpr, context interface{}) interface{} {
	panic("Cannot emit a WrappedNodeExpr in Javascript.")
}

// VisitDeclareVarStmt visits a declare variable statement
func (v *AbstractJsEmitterVisitor) VisitDeclareVarStmt(stmt *DeclareVarStmt, context interface{}) interface{} {
	ctx := v.getContext(context)
	v.PrintLeadingComments(stmt, ctx)
	ctx.Print(stmt, fmt.Sprintf("var %s", stmt.Name), false)
	if stmt.Value != nil {
		ctx.Print(stmt, " = ", false)
		stmt.Value.VisitExpression(v.visitor, ctx)
	}
	ctx.Println(stmt, ";")
	return nil
}

// VisitDeclareClassStmt visits a class declaration statement
func (v *AbstractJsEmitterVisitor) VisitDeclareClassStmt(stmt *ClassStmt, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.PushClass(stmt)
	v.visitClassConstructor(stmt, ctx)

	if stmt.Parent != nil {
		ctx.Print(stmt, fmt.Sprintf("%s.prototype = Object.create(", stmt.Name), false)
		stmt.Parent.VisitExpression(v.visitor, ctx)
		ctx.Println(stmt, ".prototype);")
	}
	for _, getter := range stmt.Getters {
		v.visitClassGetter(stmt, getter, ctx)
	}
	for _, method := range stmt.Methods {
		v.visitClassMethod(stmt, method, ctx)
	}
	ctx.PopClass()
	return nil
}

func (v *AbstractJsEmitterVisitor) visitClassConstructor(stmt *ClassStmt, ctx *EmitterVisitorContext) {
	ctx.Print(stmt, fmt.Sprintf("function %s(", stmt.Name), false)
	if stmt.ConstructorMethod != nil {
		v.visitParams(stmt.ConstructorMethod.Params, ctx)
	}
	ctx.Println(stmt, ") {")
	ctx.IncIndent()
	if stmt.ConstructorMethod != nil && len(stmt.ConstructorMethod.Body) > 0 {
		ctx.Println(stmt, "var self = this;")
		v.VisitAllStatements(stmt.ConstructorMethod.Body, ctx)
	}
	ctx.DecIndent()
	ctx.Println(stmt, "}")
}

func (v *AbstractJsEmitterVisitor) visitClassGetter(stmt *ClassStmt, getter *ClassGetter, ctx *EmitterVisitorContext) {
	ctx.Println(stmt, fmt.Sprintf("Object.defineProperty(%s.prototype, '%s', { get: function() {", stmt.Name, getter.Name))
	ctx.IncIndent()
	if len(getter.Body) > 0 {
		ctx.Println(stmt, "var self = this;")
		v.VisitAllStatements(getter.Body, ctx)
	}
	ctx.DecIndent()
	ctx.Println(stmt, "}});")
}

func (v *AbstractJsEmitterVisitor) visitClassMethod(stmt *ClassStmt, method *ClassMethod, ctx *EmitterVisitorContext) {
	if method.Name == nil {
		panic("AssertionError: a class method must have a name")
	}
	ctx.Print(stmt, fmt.Sprintf("%s.prototype.%s = function(", stmt.Name, *method.Name), false)
	v.visitParams(method.Params, ctx)
	ctx.Println(stmt, ") {")
	ctx.IncIndent()
	if len(method.Body) > 0 {
		ctx.Println(stmt, "var self = this;")
		v.VisitAllStatements(method.Body, ctx)
	}
	ctx.DecIndent()
	ctx.Println(stmt, "};")
}

// VisitReadVarExpr visits a read variable expression. Inside class members
// `this` is emitted as `self` so that closures keep the view instance.
func (v *AbstractJsEmitterVisitor) VisitReadVarExpr(ast *ReadVarExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	if ast == ThisExpr || ast.Name == "this" {
		ctx.Print(ast, "self", false)
		return nil
	}
	if ast == SuperExpr || ast.Name == "super" {
		panic("'super' needs to be handled at a parent ast node, not at the variable level!")
	}
	return v.AbstractEmitterVisitor.VisitReadVarExpr(ast, context)
}

// VisitInvokeFunctionExpr visits an invoke function expression. Calls to
// `super` are rewritten to a `.call(this, ...)` on the parent class.
func (v *AbstractJsEmitterVisitor) VisitInvokeFunctionExpr(expr *InvokeFunctionExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	if fnVar, ok := expr.Fn.(*ReadVarExpr); ok && (fnVar == SuperExpr || fnVar.Name == "super") {
		currentClass := ctx.CurrentClass()
		if currentClass == nil || currentClass.Parent == nil {
			panic("AssertionError: 'super' called outside a class with a parent")
		}
		currentClass.Parent.VisitExpression(v.visitor, ctx)
		ctx.Print(expr, ".call(this", false)
		if len(expr.Args) > 0 {
			ctx.Print(expr, ", ", false)
			v.VisitAllExpressions(expr.Args, ctx, ",")
		}
		ctx.Print(expr, ")", false)
		return nil
	}
	return v.AbstractEmitterVisitor.VisitInvokeFunctionExpr(expr, context)
}

// VisitFunctionExpr visits a function expression
func (v *AbstractJsEmitterVisitor) VisitFunctionExpr(ast *FunctionExpr, context interface{}) interface{} {
	ctx := v.getContext(context)
	ctx.Print(ast, "function(", false)
	v.visitParams(ast.Params, ctx)
	ctx.Println(ast, ") {")
	ctx.IncIndent()
	v.VisitAllStatements(ast.Statements, ctx)
	ctx.DecIndent()
	ctx.Print(ast, "}", false)
	return nil
}

// VisitDeclareFunctionStmt visits a declare function statement
func (v *AbstractJsEmitterVisitor) VisitDeclareFunctionStmt(stmt *DeclareFunctionStmt, context interface{}) interface{} {
	ctx := v.getContext(context)
	v.PrintLeadingComments(stmt, ctx)
	ctx.Print(stmt, fmt.Sprintf("function %s(", stmt.Name), false)
	v.visitParams(stmt.Params, ctx)
	ctx.Println(stmt, ") {")
	ctx.IncIndent()
	v.VisitAllStatements(stmt.Statements, ctx)
	ctx.DecIndent()
	ctx.Println(stmt, "}")
	return nil
}

// visitParams visits function parameters
func (v *AbstractJsEmitterVisitor) visitParams(params []*FnParam, ctx *EmitterVisitorContext) {
	v.VisitAllObjects(func(param *FnParam) {
		ctx.Print(nil, param.Name, false)
	}, params, ctx, ",")
}
