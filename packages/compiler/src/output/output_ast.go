package output

import (
	"ngve-go/packages/compiler/src/util"
)

// TypeModifier represents modifiers for types
type TypeModifier int

const (
	TypeModifierNone  TypeModifier = 0
	TypeModifierConst TypeModifier = 1 << 0
)

// Type is the interface for all output types
type Type interface {
	VisitType(visitor TypeVisitor, context interface{}) interface{}
	HasModifier(modifier TypeModifier) bool
}

// BuiltinTypeName enumerates the builtin type names
type BuiltinTypeName int

const (
	BuiltinTypeNameDynamic BuiltinTypeName = iota
	BuiltinTypeNameBool
	BuiltinTypeNameString
	BuiltinTypeNameInt
	BuiltinTypeNameNumber
	BuiltinTypeNameFunction
	BuiltinTypeNameInferred
)

// BuiltinType represents a builtin type
type BuiltinType struct {
	Name      BuiltinTypeName
	Modifiers TypeModifier
}

// NewBuiltinType creates a new BuiltinType
func NewBuiltinType(name BuiltinTypeName, modifiers TypeModifier) *BuiltinType {
	return &BuiltinType{
		Name:      name,
		Modifiers: modifiers,
	}
}

// VisitType implements the Type interface
func (b *BuiltinType) VisitType(visitor TypeVisitor, context interface{}) interface{} {
	return visitor.VisitBuiltinType(b, context)
}

// HasModifier checks if the type has a modifier
func (b *BuiltinType) HasModifier(modifier TypeModifier) bool {
	return b.Modifiers&modifier != 0
}

// ExternalType represents a type referencing an external symbol
type ExternalType struct {
	Value      *ExternalReference
	TypeParams []Type
	Modifiers  TypeModifier
}

// NewExternalType creates a new ExternalType
func NewExternalType(value *ExternalReference, typeParams []Type, modifiers TypeModifier) *ExternalType {
	return &ExternalType{
		Value:      value,
		TypeParams: typeParams,
		Modifiers:  modifiers,
	}
}

// VisitType implements the Type interface
func (e *ExternalType) VisitType(visitor TypeVisitor, context interface{}) interface{} {
	return visitor.VisitExternalType(e, context)
}

// HasModifier checks if the type has a modifier
func (e *ExternalType) HasModifier(modifier TypeModifier) bool {
	return e.Modifiers&modifier != 0
}

// ArrayType represents an array type
type ArrayType struct {
	Of        Type
	Modifiers TypeModifier
}

// NewArrayType creates a new ArrayType
func NewArrayType(of Type, modifiers TypeModifier) *ArrayType {
	return &ArrayType{
		Of:        of,
		Modifiers: modifiers,
	}
}

// VisitType implements the Type interface
func (a *ArrayType) VisitType(visitor TypeVisitor, context interface{}) interface{} {
	return visitor.VisitArrayType(a, context)
}

// HasModifier checks if the type has a modifier
func (a *ArrayType) HasModifier(modifier TypeModifier) bool {
	return a.Modifiers&modifier != 0
}

// MapType represents a map type
type MapType struct {
	ValueType Type
	Modifiers TypeModifier
}

// NewMapType creates a new MapType
func NewMapType(valueType Type, modifiers TypeModifier) *MapType {
	return &MapType{
		ValueType: valueType,
		Modifiers: modifiers,
	}
}

// VisitType implements the Type interface
func (m *MapType) VisitType(visitor TypeVisitor, context interface{}) interface{} {
	return visitor.VisitMapType(m, context)
}

// HasModifier checks if the type has a modifier
func (m *MapType) HasModifier(modifier TypeModifier) bool {
	return m.Modifiers&modifier != 0
}

// TypeVisitor is the interface for visiting types
type TypeVisitor interface {
	VisitBuiltinType(typ *BuiltinType, context interface{}) interface{}
	VisitExternalType(typ *ExternalType, context interface{}) interface{}
	VisitArrayType(typ *ArrayType, context interface{}) interface{}
	VisitMapType(typ *MapType, context interface{}) interface{}
}

// Predefined type constants
var (
	DynamicType  = NewBuiltinType(BuiltinTypeNameDynamic, TypeModifierNone)
	InferredType = NewBuiltinType(BuiltinTypeNameInferred, TypeModifierNone)
	BoolType     = NewBuiltinType(BuiltinTypeNameBool, TypeModifierNone)
	IntType      = NewBuiltinType(BuiltinTypeNameInt, TypeModifierNone)
	NumberType   = NewBuiltinType(BuiltinTypeNameNumber, TypeModifierNone)
	StringType   = NewBuiltinType(BuiltinTypeNameString, TypeModifierNone)
	FunctionType = NewBuiltinType(BuiltinTypeNameFunction, TypeModifierNone)
)

// ImportType creates an ExternalType for an external reference, or nil for a
// nil reference
func ImportType(id *ExternalReference, typeParams []Type, modifiers TypeModifier) *ExternalType {
	if id == nil {
		return nil
	}
	return NewExternalType(id, typeParams, modifiers)
}

// UnaryOperator represents unary operators
type UnaryOperator int

const (
	UnaryOperatorMinus UnaryOperator = iota
	UnaryOperatorPlus
)

// BinaryOperator represents binary operators
type BinaryOperator int

const (
	BinaryOperatorEquals BinaryOperator = iota
	BinaryOperatorNotEquals
	BinaryOperatorAssign
	BinaryOperatorIdentical
	BinaryOperatorNotIdentical
	BinaryOperatorMinus
	BinaryOperatorPlus
	BinaryOperatorDivide
	BinaryOperatorMultiply
	BinaryOperatorModulo
	BinaryOperatorAnd
	BinaryOperatorOr
	BinaryOperatorLower
	BinaryOperatorLowerEquals
	BinaryOperatorBigger
	BinaryOperatorBiggerEquals
)

// OutputExpression represents an expression in the output AST
type OutputExpression interface {
	GetType() Type
	GetSourceSpan() *util.ParseSourceSpan
	VisitExpression(visitor ExpressionVisitor, context interface{}) interface{}
	IsEquivalent(e OutputExpression) bool
	IsConstant() bool
	Clone() OutputExpression
}

// ExpressionVisitor is the interface for visiting expressions
type ExpressionVisitor interface {
	VisitReadVarExpr(ast *ReadVarExpr, context interface{}) interface{}
	VisitInvokeFunctionExpr(ast *InvokeFunctionExpr, context interface{}) interface{}
	VisitInstantiateExpr(ast *InstantiateExpr, context interface{}) interface{}
	VisitLiteralExpr(ast *LiteralExpr, context interface{}) interface{}
	VisitExternalExpr(ast *ExternalExpr, context interface{}) interface{}
	VisitConditionalExpr(ast *ConditionalExpr, context interface{}) interface{}
	VisitNotExpr(ast *NotExpr, context interface{}) interface{}
	VisitCastExpr(ast *CastExpr, context interface{}) interface{}
	VisitFunctionExpr(ast *FunctionExpr, context interface{}) interface{}
	VisitUnaryOperatorExpr(ast *UnaryOperatorExpr, context interface{}) interface{}
	VisitBinaryOperatorExpr(ast *BinaryOperatorExpr, context interface{}) interface{}
	VisitReadPropExpr(ast *ReadPropExpr, context interface{}) interface{}
	VisitReadKeyExpr(ast *ReadKeyExpr, context interface{}) interface{}
	VisitLiteralArrayExpr(ast *LiteralArrayExpr, context interface{}) interface{}
	VisitLiteralMapExpr(ast *LiteralMapExpr, context interface{}) interface{}
	VisitCommaExpr(ast *CommaExpr, context interface{}) interface{}
	VisitWrappedNodeExpr(ast *WrappedNodeExpr, context interface{}) interface{}
}

// ExpressionBase is the base struct for all expressions
type ExpressionBase struct {
	Type       Type
	SourceSpan *util.ParseSourceSpan
}

// GetType returns the type of the expression
func (e *ExpressionBase) GetType() Type {
	return e.Type
}

// GetSourceSpan returns the source span
func (e *ExpressionBase) GetSourceSpan() *util.ParseSourceSpan {
	return e.SourceSpan
}

// ReadVarExpr represents a variable read
type ReadVarExpr struct {
	ExpressionBase
	Name string
}

// NewReadVarExpr creates a new ReadVarExpr
func NewReadVarExpr(name string, typ Type, sourceSpan *util.ParseSourceSpan) *ReadVarExpr {
	return &ReadVarExpr{
		ExpressionBase: ExpressionBase{
			Type:       typ,
			SourceSpan: sourceSpan,
		},
		Name: name,
	}
}

// VisitExpression implements OutputExpression interface
func (r *ReadVarExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitReadVarExpr(r, context)
}

// IsEquivalent checks if two expressions are equivalent
func (r *ReadVarExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*ReadVarExpr); ok {
		return r.Name == other.Name
	}
	return false
}

// IsConstant returns false for variable reads
func (r *ReadVarExpr) IsConstant() bool {
	return false
}

// Clone clones the expression
func (r *ReadVarExpr) Clone() OutputExpression {
	return NewReadVarExpr(r.Name, r.Type, r.SourceSpan)
}

// Set creates an assignment expression
func (r *ReadVarExpr) Set(value OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(
		BinaryOperatorAssign,
		r,
		value,
		r.Type,
		r.SourceSpan,
	)
}

// ToDeclStmt creates a variable declaration statement from this variable and a value
func (r *ReadVarExpr) ToDeclStmt(value OutputExpression, typ Type, modifiers StmtModifier) *DeclareVarStmt {
	return NewDeclareVarStmt(r.Name, value, typ, modifiers, r.SourceSpan, nil)
}

// LiteralExpr represents a literal expression
type LiteralExpr struct {
	ExpressionBase
	Value interface{} // number | string | bool | nil
}

// NewLiteralExpr creates a new LiteralExpr
func NewLiteralExpr(value interface{}, typ Type, sourceSpan *util.ParseSourceSpan) *LiteralExpr {
	return &LiteralExpr{
		ExpressionBase: ExpressionBase{
			Type:       typ,
			SourceSpan: sourceSpan,
		},
		Value: value,
	}
}

// VisitExpression implements OutputExpression interface
func (l *LiteralExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralExpr(l, context)
}

// IsEquivalent checks if two expressions are equivalent
func (l *LiteralExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*LiteralExpr); ok {
		return l.Value == other.Value
	}
	return false
}

// IsConstant returns true for literals
func (l *LiteralExpr) IsConstant() bool {
	return true
}

// Clone clones the expression
func (l *LiteralExpr) Clone() OutputExpression {
	return NewLiteralExpr(l.Value, l.Type, l.SourceSpan)
}

// Predefined expression constants
var (
	NullExpr  = NewLiteralExpr(nil, nil, nil)
	ThisExpr  = NewReadVarExpr("this", nil, nil)
	SuperExpr = NewReadVarExpr("super", nil, nil)
)

// BinaryOperatorExpr represents a binary operator expression
type BinaryOperatorExpr struct {
	ExpressionBase
	Operator BinaryOperator
	Lhs      OutputExpression
	Rhs      OutputExpression
}

// NewBinaryOperatorExpr creates a new BinaryOperatorExpr
func NewBinaryOperatorExpr(operator BinaryOperator, lhs, rhs OutputExpression, typ Type, sourceSpan *util.ParseSourceSpan) *BinaryOperatorExpr {
	exprType := typ
	if exprType == nil && lhs != nil {
		exprType = lhs.GetType()
	}
	return &BinaryOperatorExpr{
		ExpressionBase: ExpressionBase{
			Type:       exprType,
			SourceSpan: sourceSpan,
		},
		Operator: operator,
		Lhs:      lhs,
		Rhs:      rhs,
	}
}

// VisitExpression implements OutputExpression interface
func (b *BinaryOperatorExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitBinaryOperatorExpr(b, context)
}

// IsEquivalent checks if two expressions are equivalent
func (b *BinaryOperatorExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*BinaryOperatorExpr); ok {
		return b.Operator == other.Operator &&
			b.Lhs.IsEquivalent(other.Lhs) &&
			b.Rhs.IsEquivalent(other.Rhs)
	}
	return false
}

// IsConstant returns false for binary operators
func (b *BinaryOperatorExpr) IsConstant() bool {
	return false
}

// Clone clones the expression
func (b *BinaryOperatorExpr) Clone() OutputExpression {
	return NewBinaryOperatorExpr(
		b.Operator,
		b.Lhs.Clone(),
		b.Rhs.Clone(),
		b.Type,
		b.SourceSpan,
	)
}

// IsAssignment checks if the operator is an assignment operator
func (b *BinaryOperatorExpr) IsAssignment() bool {
	return b.Operator == BinaryOperatorAssign
}

// UnaryOperatorExpr represents a unary operator expression
type UnaryOperatorExpr struct {
	ExpressionBase
	Operator UnaryOperator
	Expr     OutputExpression
}

// NewUnaryOperatorExpr creates a new UnaryOperatorExpr
func NewUnaryOperatorExpr(operator UnaryOperator, expr OutputExpression, typ Type, sourceSpan *util.ParseSourceSpan) *UnaryOperatorExpr {
	exprType := typ
	if exprType == nil && expr != nil {
		exprType = expr.GetType()
	}
	return &UnaryOperatorExpr{
		ExpressionBase: ExpressionBase{
			Type:       exprType,
			SourceSpan: sourceSpan,
		},
		Operator: operator,
		Expr:     expr,
	}
}

// VisitExpression implements OutputExpression interface
func (u *UnaryOperatorExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitUnaryOperatorExpr(u, context)
}

// IsEquivalent checks if two expressions are equivalent
func (u *UnaryOperatorExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*UnaryOperatorExpr); ok {
		return u.Operator == other.Operator && u.Expr.IsEquivalent(other.Expr)
	}
	return false
}

// IsConstant returns false for unary operators
func (u *UnaryOperatorExpr) IsConstant() bool {
	return false
}

// Clone clones the expression
func (u *UnaryOperatorExpr) Clone() OutputExpression {
	return NewUnaryOperatorExpr(u.Operator, u.Expr.Clone(), u.Type, u.SourceSpan)
}

// InvokeFunctionExpr represents a function invocation
type InvokeFunctionExpr struct {
	ExpressionBase
	Fn   OutputExpression
	Args []OutputExpression
}

// NewInvokeFunctionExpr creates a new InvokeFunctionExpr
func NewInvokeFunctionExpr(fn OutputExpression, args []OutputExpression, typ Type, sourceSpan *util.ParseSourceSpan) *InvokeFunctionExpr {
	return &InvokeFunctionExpr{
		ExpressionBase: ExpressionBase{
			Type:       typ,
			SourceSpan: sourceSpan,
		},
		Fn:   fn,
		Args: args,
	}
}

// VisitExpression implements OutputExpression interface
func (i *InvokeFunctionExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitInvokeFunctionExpr(i, context)
}

// IsEquivalent checks if two expressions are equivalent
func (i *InvokeFunctionExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*InvokeFunctionExpr); ok {
		return i.Fn.IsEquivalent(other.Fn) &&
			areAllEquivalentExprs(i.Args, other.Args)
	}
	return false
}

// IsConstant returns false for function invocations
func (i *InvokeFunctionExpr) IsConstant() bool {
	return false
}

// Clone clones the expression
func (i *InvokeFunctionExpr) Clone() OutputExpression {
	args := make([]OutputExpression, len(i.Args))
	for idx, arg := range i.Args {
		args[idx] = arg.Clone()
	}
	return NewInvokeFunctionExpr(i.Fn.Clone(), args, i.Type, i.SourceSpan)
}

func areAllEquivalentExprs(base, other []OutputExpression) bool {
	if len(base) != len(other) {
		return false
	}
	for i := range base {
		if !base[i].IsEquivalent(other[i]) {
			return false
		}
	}
	return true
}

func areAllEquivalentStmts(base, other []OutputStatement) bool {
	if len(base) != len(other) {
		return false
	}
	for i := range base {
		if !base[i].IsEquivalent(other[i]) {
			return false
		}
	}
	return true
}

// InstantiateExpr represents a constructor invocation
type InstantiateExpr struct {
	ExpressionBase
	ClassExpr OutputExpression
	Args      []OutputExpression
}

// NewInstantiateExpr creates a new InstantiateExpr
func NewInstantiateExpr(classExpr OutputExpression, args []OutputExpression, typ Type, sourceSpan *util.ParseSourceSpan) *InstantiateExpr {
	return &InstantiateExpr{
		ExpressionBase: ExpressionBase{
			Type:       typ,
			SourceSpan: sourceSpan,
		},
		ClassExpr: classExpr,
		Args:      args,
	}
}

// VisitExpression implements OutputExpression interface
func (i *InstantiateExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitInstantiateExpr(i, context)
}

// IsEquivalent checks if two expressions are equivalent
func (i *InstantiateExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*InstantiateExpr); ok {
		return i.ClassExpr.IsEquivalent(other.ClassExpr) &&
			areAllEquivalentExprs(i.Args, other.Args)
	}
	return false
}

// IsConstant returns false for constructor invocations
func (i *InstantiateExpr) IsConstant() bool {
	return false
}

// Clone clones the expression
func (i *InstantiateExpr) Clone() OutputExpression {
	args := make([]OutputExpression, len(i.Args))
	for idx, arg := range i.Args {
		args[idx] = arg.Clone()
	}
	return NewInstantiateExpr(i.ClassExpr.Clone(), args, i.Type, i.SourceSpan)
}

// ExternalReference represents a reference to an external symbol
type ExternalReference struct {
	ModuleName *string
	Name       *string
	Runtime    interface{}
}

// ExternalExpr represents an external reference expression
type ExternalExpr struct {
	ExpressionBase
	Value      *ExternalReference
	TypeParams []Type
}

// NewExternalExpr creates a new ExternalExpr
func NewExternalExpr(value *ExternalReference, typ Type, typeParams []Type, sourceSpan *util.ParseSourceSpan) *ExternalExpr {
	return &ExternalExpr{
		ExpressionBase: ExpressionBase{
			Type:       typ,
			SourceSpan: sourceSpan,
		},
		Value:      value,
		TypeParams: typeParams,
	}
}

// VisitExpression implements OutputExpression interface
func (e *ExternalExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitExternalExpr(e, context)
}

// IsEquivalent checks if two expressions are equivalent
func (e *ExternalExpr) IsEquivalent(other OutputExpression) bool {
	if o, ok := other.(*ExternalExpr); ok {
		return nullSafeStringEquals(e.Value.Name, o.Value.Name) &&
			nullSafeStringEquals(e.Value.ModuleName, o.Value.ModuleName)
	}
	return false
}

func nullSafeStringEquals(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// IsConstant returns false for external references
func (e *ExternalExpr) IsConstant() bool {
	return false
}

// Clone clones the expression
func (e *ExternalExpr) Clone() OutputExpression {
	return NewExternalExpr(e.Value, e.Type, e.TypeParams, e.SourceSpan)
}

// ConditionalExpr represents a conditional (ternary) expression
type ConditionalExpr struct {
	ExpressionBase
	Condition OutputExpression
	TrueCase  OutputExpression
	FalseCase OutputExpression
}

// NewConditionalExpr creates a new ConditionalExpr
func NewConditionalExpr(condition, trueCase, falseCase OutputExpression, typ Type, sourceSpan *util.ParseSourceSpan) *ConditionalExpr {
	exprType := typ
	if exprType == nil && trueCase != nil {
		exprType = trueCase.GetType()
	}
	return &ConditionalExpr{
		ExpressionBase: ExpressionBase{
			Type:       exprType,
			SourceSpan: sourceSpan,
		},
		Condition: condition,
		TrueCase:  trueCase,
		FalseCase: falseCase,
	}
}

// VisitExpression implements OutputExpression interface
func (c *ConditionalExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitConditionalExpr(c, context)
}

// IsEquivalent checks if two expressions are equivalent
func (c *ConditionalExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*ConditionalExpr); ok {
		return c.Condition.IsEquivalent(other.Condition) &&
			c.TrueCase.IsEquivalent(other.TrueCase) &&
			NullSafeIsEquivalent(c.FalseCase, other.FalseCase)
	}
	return false
}

// IsConstant returns false for conditionals
func (c *ConditionalExpr) IsConstant() bool {
	return false
}

// Clone clones the expression
func (c *ConditionalExpr) Clone() OutputExpression {
	var falseCase OutputExpression
	if c.FalseCase != nil {
		falseCase = c.FalseCase.Clone()
	}
	return NewConditionalExpr(c.Condition.Clone(), c.TrueCase.Clone(), falseCase, c.Type, c.SourceSpan)
}

// NullSafeIsEquivalent compares two possibly-nil expressions
func NullSafeIsEquivalent(base, other OutputExpression) bool {
	if base == nil || other == nil {
		return base == other
	}
	return base.IsEquivalent(other)
}

// NotExpr represents a boolean negation
type NotExpr struct {
	ExpressionBase
	Condition OutputExpression
}

// NewNotExpr creates a new NotExpr
func NewNotExpr(condition OutputExpression, sourceSpan *util.ParseSourceSpan) *NotExpr {
	return &NotExpr{
		ExpressionBase: ExpressionBase{
			Type:       BoolType,
			SourceSpan: sourceSpan,
		},
		Condition: condition,
	}
}

// VisitExpression implements OutputExpression interface
func (n *NotExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitNotExpr(n, context)
}

// IsEquivalent checks if two expressions are equivalent
func (n *NotExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*NotExpr); ok {
		return n.Condition.IsEquivalent(other.Condition)
	}
	return false
}

// IsConstant returns false for negations
func (n *NotExpr) IsConstant() bool {
	return false
}

// Clone clones the expression
func (n *NotExpr) Clone() OutputExpression {
	return NewNotExpr(n.Condition.Clone(), n.SourceSpan)
}

// CastExpr represents a type cast; it has no effect on emitted JavaScript
type CastExpr struct {
	ExpressionBase
	Value OutputExpression
}

// NewCastExpr creates a new CastExpr
func NewCastExpr(value OutputExpression, typ Type, sourceSpan *util.ParseSourceSpan) *CastExpr {
	return &CastExpr{
		ExpressionBase: ExpressionBase{
			Type:       typ,
			SourceSpan: sourceSpan,
		},
		Value: value,
	}
}

// VisitExpression implements OutputExpression interface
func (c *CastExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitCastExpr(c, context)
}

// IsEquivalent checks if two expressions are equivalent
func (c *CastExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*CastExpr); ok {
		return c.Value.IsEquivalent(other.Value)
	}
	return false
}

// IsConstant returns false for casts
func (c *CastExpr) IsConstant() bool {
	return false
}

// Clone clones the expression
func (c *CastExpr) Clone() OutputExpression {
	return NewCastExpr(c.Value.Clone(), c.Type, c.SourceSpan)
}

// FnParam represents a function parameter
type FnParam struct {
	Name string
	Type Type
}

// NewFnParam creates a new FnParam
func NewFnParam(name string, typ Type) *FnParam {
	return &FnParam{Name: name, Type: typ}
}

// IsEquivalent checks if two parameters are equivalent
func (f *FnParam) IsEquivalent(other *FnParam) bool {
	return f.Name == other.Name
}

// FunctionExpr represents a function expression
type FunctionExpr struct {
	ExpressionBase
	Params     []*FnParam
	Statements []OutputStatement
}

// NewFunctionExpr creates a new FunctionExpr
func NewFunctionExpr(params []*FnParam, statements []OutputStatement, typ Type, sourceSpan *util.ParseSourceSpan) *FunctionExpr {
	return &FunctionExpr{
		ExpressionBase: ExpressionBase{
			Type:       typ,
			SourceSpan: sourceSpan,
		},
		Params:     params,
		Statements: statements,
	}
}

// VisitExpression implements OutputExpression interface
func (f *FunctionExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitFunctionExpr(f, context)
}

// IsEquivalent checks if two expressions are equivalent
func (f *FunctionExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*FunctionExpr); ok {
		if len(f.Params) != len(other.Params) {
			return false
		}
		for i := range f.Params {
			if !f.Params[i].IsEquivalent(other.Params[i]) {
				return false
			}
		}
		return areAllEquivalentStmts(f.Statements, other.Statements)
	}
	return false
}

// IsConstant returns false for function expressions
func (f *FunctionExpr) IsConstant() bool {
	return false
}

// Clone clones the expression
func (f *FunctionExpr) Clone() OutputExpression {
	return NewFunctionExpr(f.Params, f.Statements, f.Type, f.SourceSpan)
}

// ToDeclStmt creates a function declaration statement from this function expression
func (f *FunctionExpr) ToDeclStmt(name string, modifiers StmtModifier) *DeclareFunctionStmt {
	return NewDeclareFunctionStmt(name, f.Params, f.Statements, f.Type, modifiers, f.SourceSpan, nil)
}

// ReadPropExpr represents a property read
type ReadPropExpr struct {
	ExpressionBase
	Receiver OutputExpression
	Name     string
}

// NewReadPropExpr creates a new ReadPropExpr
func NewReadPropExpr(receiver OutputExpression, name string, typ Type, sourceSpan *util.ParseSourceSpan) *ReadPropExpr {
	return &ReadPropExpr{
		ExpressionBase: ExpressionBase{
			Type:       typ,
			SourceSpan: sourceSpan,
		},
		Receiver: receiver,
		Name:     name,
	}
}

// VisitExpression implements OutputExpression interface
func (r *ReadPropExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitReadPropExpr(r, context)
}

// IsEquivalent checks if two expressions are equivalent
func (r *ReadPropExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*ReadPropExpr); ok {
		return r.Receiver.IsEquivalent(other.Receiver) && r.Name == other.Name
	}
	return false
}

// IsConstant returns false for property reads
func (r *ReadPropExpr) IsConstant() bool {
	return false
}

// Clone clones the expression
func (r *ReadPropExpr) Clone() OutputExpression {
	return NewReadPropExpr(r.Receiver.Clone(), r.Name, r.Type, r.SourceSpan)
}

// Set creates an assignment expression
func (r *ReadPropExpr) Set(value OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(
		BinaryOperatorAssign,
		r,
		value,
		r.Type,
		r.SourceSpan,
	)
}

// ReadKeyExpr represents a keyed read
type ReadKeyExpr struct {
	ExpressionBase
	Receiver OutputExpression
	Index    OutputExpression
}

// NewReadKeyExpr creates a new ReadKeyExpr
func NewReadKeyExpr(receiver, index OutputExpression, typ Type, sourceSpan *util.ParseSourceSpan) *ReadKeyExpr {
	return &ReadKeyExpr{
		ExpressionBase: ExpressionBase{
			Type:       typ,
			SourceSpan: sourceSpan,
		},
		Receiver: receiver,
		Index:    index,
	}
}

// VisitExpression implements OutputExpression interface
func (r *ReadKeyExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitReadKeyExpr(r, context)
}

// IsEquivalent checks if two expressions are equivalent
func (r *ReadKeyExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*ReadKeyExpr); ok {
		return r.Receiver.IsEquivalent(other.Receiver) && r.Index.IsEquivalent(other.Index)
	}
	return false
}

// IsConstant returns false for keyed reads
func (r *ReadKeyExpr) IsConstant() bool {
	return false
}

// Clone clones the expression
func (r *ReadKeyExpr) Clone() OutputExpression {
	return NewReadKeyExpr(r.Receiver.Clone(), r.Index.Clone(), r.Type, r.SourceSpan)
}

// Set creates an assignment expression
func (r *ReadKeyExpr) Set(value OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(
		BinaryOperatorAssign,
		r,
		value,
		r.Type,
		r.SourceSpan,
	)
}

// LiteralArrayExpr represents an array literal
type LiteralArrayExpr struct {
	ExpressionBase
	Entries []OutputExpression
}

// NewLiteralArrayExpr creates a new LiteralArrayExpr
func NewLiteralArrayExpr(entries []OutputExpression, typ Type, sourceSpan *util.ParseSourceSpan) *LiteralArrayExpr {
	return &LiteralArrayExpr{
		ExpressionBase: ExpressionBase{
			Type:       typ,
			SourceSpan: sourceSpan,
		},
		Entries: entries,
	}
}

// VisitExpression implements OutputExpression interface
func (l *LiteralArrayExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralArrayExpr(l, context)
}

// IsEquivalent checks if two expressions are equivalent
func (l *LiteralArrayExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*LiteralArrayExpr); ok {
		return areAllEquivalentExprs(l.Entries, other.Entries)
	}
	return false
}

// IsConstant returns true when all entries are constant
func (l *LiteralArrayExpr) IsConstant() bool {
	for _, e := range l.Entries {
		if !e.IsConstant() {
			return false
		}
	}
	return true
}

// Clone clones the expression
func (l *LiteralArrayExpr) Clone() OutputExpression {
	entries := make([]OutputExpression, len(l.Entries))
	for i, e := range l.Entries {
		entries[i] = e.Clone()
	}
	return NewLiteralArrayExpr(entries, l.Type, l.SourceSpan)
}

// LiteralMapEntry represents an entry in a map literal
type LiteralMapEntry struct {
	Key    string
	Value  OutputExpression
	Quoted bool
}

// NewLiteralMapEntry creates a new LiteralMapEntry
func NewLiteralMapEntry(key string, value OutputExpression, quoted bool) *LiteralMapEntry {
	return &LiteralMapEntry{Key: key, Value: value, Quoted: quoted}
}

// IsEquivalent checks if two entries are equivalent
func (l *LiteralMapEntry) IsEquivalent(e *LiteralMapEntry) bool {
	return l.Key == e.Key && l.Value.IsEquivalent(e.Value)
}

// Clone clones the entry
func (l *LiteralMapEntry) Clone() *LiteralMapEntry {
	return NewLiteralMapEntry(l.Key, l.Value.Clone(), l.Quoted)
}

// LiteralMapExpr represents a map literal
type LiteralMapExpr struct {
	ExpressionBase
	Entries   []*LiteralMapEntry
	ValueType Type
}

// NewLiteralMapExpr creates a new LiteralMapExpr
func NewLiteralMapExpr(entries []*LiteralMapEntry, typ *MapType, sourceSpan *util.ParseSourceSpan) *LiteralMapExpr {
	var valueType Type
	var exprType Type
	if typ != nil {
		valueType = typ.ValueType
		exprType = typ
	}
	return &LiteralMapExpr{
		ExpressionBase: ExpressionBase{
			Type:       exprType,
			SourceSpan: sourceSpan,
		},
		Entries:   entries,
		ValueType: valueType,
	}
}

// VisitExpression implements OutputExpression interface
func (l *LiteralMapExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralMapExpr(l, context)
}

// IsEquivalent checks if two expressions are equivalent
func (l *LiteralMapExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*LiteralMapExpr); ok {
		if len(l.Entries) != len(other.Entries) {
			return false
		}
		for i := range l.Entries {
			if !l.Entries[i].IsEquivalent(other.Entries[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// IsConstant returns true when all entry values are constant
func (l *LiteralMapExpr) IsConstant() bool {
	for _, e := range l.Entries {
		if !e.Value.IsConstant() {
			return false
		}
	}
	return true
}

// Clone clones the expression
func (l *LiteralMapExpr) Clone() OutputExpression {
	entries := make([]*LiteralMapEntry, len(l.Entries))
	for i, e := range l.Entries {
		entries[i] = e.Clone()
	}
	var mapType *MapType
	if l.Type != nil {
		if mt, ok := l.Type.(*MapType); ok {
			mapType = mt
		}
	}
	return NewLiteralMapExpr(entries, mapType, l.SourceSpan)
}

// CommaExpr represents a sequence of expressions evaluated left to right
type CommaExpr struct {
	ExpressionBase
	Parts []OutputExpression
}

// NewCommaExpr creates a new CommaExpr
func NewCommaExpr(parts []OutputExpression, sourceSpan *util.ParseSourceSpan) *CommaExpr {
	var typ Type
	if len(parts) > 0 {
		typ = parts[len(parts)-1].GetType()
	}
	return &CommaExpr{
		ExpressionBase: ExpressionBase{
			Type:       typ,
			SourceSpan: sourceSpan,
		},
		Parts: parts,
	}
}

// VisitExpression implements OutputExpression interface
func (c *CommaExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitCommaExpr(c, context)
}

// IsEquivalent checks if two expressions are equivalent
func (c *CommaExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*CommaExpr); ok {
		return areAllEquivalentExprs(c.Parts, other.Parts)
	}
	return false
}

// IsConstant returns false for comma expressions
func (c *CommaExpr) IsConstant() bool {
	return false
}

// Clone clones the expression
func (c *CommaExpr) Clone() OutputExpression {
	parts := make([]OutputExpression, len(c.Parts))
	for i, p := range c.Parts {
		parts[i] = p.Clone()
	}
	return NewCommaExpr(parts, c.SourceSpan)
}

// WrappedNodeExpr wraps a runtime value so it can flow through the output AST
type WrappedNodeExpr struct {
	ExpressionBase
	Node interface{}
}

// NewWrappedNodeExpr creates a new WrappedNodeExpr
func NewWrappedNodeExpr(node interface{}, typ Type, sourceSpan *util.ParseSourceSpan) *WrappedNodeExpr {
	return &WrappedNodeExpr{
		ExpressionBase: ExpressionBase{
			Type:       typ,
			SourceSpan: sourceSpan,
		},
		Node: node,
	}
}

// VisitExpression implements OutputExpression interface
func (w *WrappedNodeExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitWrappedNodeExpr(w, context)
}

// IsEquivalent checks if two expressions are equivalent
func (w *WrappedNodeExpr) IsEquivalent(e OutputExpression) bool {
	if other, ok := e.(*WrappedNodeExpr); ok {
		return w.Node == other.Node
	}
	return false
}

// IsConstant returns false for wrapped nodes
func (w *WrappedNodeExpr) IsConstant() bool {
	return false
}

// Clone clones the expression
func (w *WrappedNodeExpr) Clone() OutputExpression {
	return NewWrappedNodeExpr(w.Node, w.Type, w.SourceSpan)
}

// StmtModifier represents statement modifiers as bit flags
type StmtModifier int

const (
	StmtModifierNone     StmtModifier = 0
	StmtModifierFinal    StmtModifier = 1 << 0
	StmtModifierPrivate  StmtModifier = 1 << 1
	StmtModifierExported StmtModifier = 1 << 2
	StmtModifierStatic   StmtModifier = 1 << 3
)

// StatementVisitor is the interface for visiting statements
type StatementVisitor interface {
	VisitDeclareVarStmt(stmt *DeclareVarStmt, context interface{}) interface{}
	VisitDeclareFunctionStmt(stmt *DeclareFunctionStmt, context interface{}) interface{}
	VisitExpressionStmt(stmt *ExpressionStatement, context interface{}) interface{}
	VisitReturnStmt(stmt *ReturnStatement, context interface{}) interface{}
	VisitDeclareClassStmt(stmt *ClassStmt, context interface{}) interface{}
	VisitIfStmt(stmt *IfStmt, context interface{}) interface{}
	VisitCommentStmt(stmt *CommentStmt, context interface{}) interface{}
}

// OutputStatement represents a statement in the output AST
type OutputStatement interface {
	GetModifiers() StmtModifier
	GetSourceSpan() *util.ParseSourceSpan
	VisitStatement(visitor StatementVisitor, context interface{}) interface{}
	IsEquivalent(stmt OutputStatement) bool
}

// StatementBase is the base struct for all statements
type StatementBase struct {
	Modifiers       StmtModifier
	SourceSpan      *util.ParseSourceSpan
	LeadingComments []*LeadingComment
}

// GetModifiers returns the modifiers
func (s *StatementBase) GetModifiers() StmtModifier {
	return s.Modifiers
}

// GetSourceSpan returns the source span
func (s *StatementBase) GetSourceSpan() *util.ParseSourceSpan {
	return s.SourceSpan
}

// HasModifier checks if the statement has a modifier
func (s *StatementBase) HasModifier(modifier StmtModifier) bool {
	return s.Modifiers&modifier != 0
}

// GetLeadingComments returns the leading comments
func (s *StatementBase) GetLeadingComments() []*LeadingComment {
	return s.LeadingComments
}

// LeadingComment represents a comment attached before a statement
type LeadingComment struct {
	Text      string
	Multiline bool
}

// DeclareVarStmt represents a variable declaration statement
type DeclareVarStmt struct {
	StatementBase
	Name  string
	Value OutputExpression
	Type  Type
}

// NewDeclareVarStmt creates a new DeclareVarStmt
func NewDeclareVarStmt(name string, value OutputExpression, typ Type, modifiers StmtModifier, sourceSpan *util.ParseSourceSpan, leadingComments []*LeadingComment) *DeclareVarStmt {
	declType := typ
	if declType == nil && value != nil {
		declType = value.GetType()
	}
	return &DeclareVarStmt{
		StatementBase: StatementBase{
			Modifiers:       modifiers,
			SourceSpan:      sourceSpan,
			LeadingComments: leadingComments,
		},
		Name:  name,
		Value: value,
		Type:  declType,
	}
}

// VisitStatement implements OutputStatement interface
func (d *DeclareVarStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitDeclareVarStmt(d, context)
}

// IsEquivalent checks if two statements are equivalent
func (d *DeclareVarStmt) IsEquivalent(stmt OutputStatement) bool {
	if other, ok := stmt.(*DeclareVarStmt); ok {
		return d.Name == other.Name && NullSafeIsEquivalent(d.Value, other.Value)
	}
	return false
}

// DeclareFunctionStmt represents a function declaration statement
type DeclareFunctionStmt struct {
	StatementBase
	Name       string
	Params     []*FnParam
	Statements []OutputStatement
	Type       Type
}

// NewDeclareFunctionStmt creates a new DeclareFunctionStmt
func NewDeclareFunctionStmt(name string, params []*FnParam, statements []OutputStatement, typ Type, modifiers StmtModifier, sourceSpan *util.ParseSourceSpan, leadingComments []*LeadingComment) *DeclareFunctionStmt {
	return &DeclareFunctionStmt{
		StatementBase: StatementBase{
			Modifiers:       modifiers,
			SourceSpan:      sourceSpan,
			LeadingComments: leadingComments,
		},
		Name:       name,
		Params:     params,
		Statements: statements,
		Type:       typ,
	}
}

// VisitStatement implements OutputStatement interface
func (d *DeclareFunctionStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitDeclareFunctionStmt(d, context)
}

// IsEquivalent checks if two statements are equivalent
func (d *DeclareFunctionStmt) IsEquivalent(stmt OutputStatement) bool {
	if other, ok := stmt.(*DeclareFunctionStmt); ok {
		return d.Name == other.Name &&
			areAllEquivalentStmts(d.Statements, other.Statements)
	}
	return false
}

// ExpressionStatement wraps an expression as a statement
type ExpressionStatement struct {
	StatementBase
	Expr OutputExpression
}

// NewExpressionStatement creates a new ExpressionStatement
func NewExpressionStatement(expr OutputExpression, sourceSpan *util.ParseSourceSpan, leadingComments []*LeadingComment) *ExpressionStatement {
	return &ExpressionStatement{
		StatementBase: StatementBase{
			Modifiers:       StmtModifierNone,
			SourceSpan:      sourceSpan,
			LeadingComments: leadingComments,
		},
		Expr: expr,
	}
}

// VisitStatement implements OutputStatement interface
func (e *ExpressionStatement) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitExpressionStmt(e, context)
}

// IsEquivalent checks if two statements are equivalent
func (e *ExpressionStatement) IsEquivalent(stmt OutputStatement) bool {
	if other, ok := stmt.(*ExpressionStatement); ok {
		return e.Expr.IsEquivalent(other.Expr)
	}
	return false
}

// ReturnStatement represents a return statement
type ReturnStatement struct {
	StatementBase
	Value OutputExpression
}

// NewReturnStatement creates a new ReturnStatement
func NewReturnStatement(value OutputExpression, sourceSpan *util.ParseSourceSpan, leadingComments []*LeadingComment) *ReturnStatement {
	return &ReturnStatement{
		StatementBase: StatementBase{
			Modifiers:       StmtModifierNone,
			SourceSpan:      sourceSpan,
			LeadingComments: leadingComments,
		},
		Value: value,
	}
}

// VisitStatement implements OutputStatement interface
func (r *ReturnStatement) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitReturnStmt(r, context)
}

// IsEquivalent checks if two statements are equivalent
func (r *ReturnStatement) IsEquivalent(stmt OutputStatement) bool {
	if other, ok := stmt.(*ReturnStatement); ok {
		return NullSafeIsEquivalent(r.Value, other.Value)
	}
	return false
}

// ClassField represents a field of a generated class
type ClassField struct {
	Name      string
	Type      Type
	Modifiers StmtModifier
}

// NewClassField creates a new ClassField
func NewClassField(name string, typ Type, modifiers StmtModifier) *ClassField {
	return &ClassField{Name: name, Type: typ, Modifiers: modifiers}
}

// HasModifier checks if the field has a modifier
func (c *ClassField) HasModifier(modifier StmtModifier) bool {
	return c.Modifiers&modifier != 0
}

// IsEquivalent checks if two fields are equivalent
func (c *ClassField) IsEquivalent(other *ClassField) bool {
	return c.Name == other.Name
}

// ClassMethod represents a method of a generated class. A nil name marks the
// constructor method.
type ClassMethod struct {
	Name      *string
	Params    []*FnParam
	Body      []OutputStatement
	Type      Type
	Modifiers StmtModifier
}

// NewClassMethod creates a new ClassMethod
func NewClassMethod(name *string, params []*FnParam, body []OutputStatement, typ Type, modifiers StmtModifier) *ClassMethod {
	return &ClassMethod{
		Name:      name,
		Params:    params,
		Body:      body,
		Type:      typ,
		Modifiers: modifiers,
	}
}

// HasModifier checks if the method has a modifier
func (c *ClassMethod) HasModifier(modifier StmtModifier) bool {
	return c.Modifiers&modifier != 0
}

// IsEquivalent checks if two methods are equivalent
func (c *ClassMethod) IsEquivalent(other *ClassMethod) bool {
	return nullSafeStringEquals(c.Name, other.Name) &&
		areAllEquivalentStmts(c.Body, other.Body)
}

// ClassGetter represents a getter of a generated class
type ClassGetter struct {
	Name      string
	Body      []OutputStatement
	Type      Type
	Modifiers StmtModifier
}

// NewClassGetter creates a new ClassGetter
func NewClassGetter(name string, body []OutputStatement, typ Type, modifiers StmtModifier) *ClassGetter {
	return &ClassGetter{
		Name:      name,
		Body:      body,
		Type:      typ,
		Modifiers: modifiers,
	}
}

// HasModifier checks if the getter has a modifier
func (c *ClassGetter) HasModifier(modifier StmtModifier) bool {
	return c.Modifiers&modifier != 0
}

// IsEquivalent checks if two getters are equivalent
func (c *ClassGetter) IsEquivalent(other *ClassGetter) bool {
	return c.Name == other.Name && areAllEquivalentStmts(c.Body, other.Body)
}

// ClassStmt represents a class declaration statement
type ClassStmt struct {
	StatementBase
	Name              string
	Parent            OutputExpression
	Fields            []*ClassField
	Getters           []*ClassGetter
	ConstructorMethod *ClassMethod
	Methods           []*ClassMethod
}

// NewClassStmt creates a new ClassStmt
func NewClassStmt(name string, parent OutputExpression, fields []*ClassField, getters []*ClassGetter, constructorMethod *ClassMethod, methods []*ClassMethod, modifiers StmtModifier, sourceSpan *util.ParseSourceSpan) *ClassStmt {
	return &ClassStmt{
		StatementBase: StatementBase{
			Modifiers:  modifiers,
			SourceSpan: sourceSpan,
		},
		Name:              name,
		Parent:            parent,
		Fields:            fields,
		Getters:           getters,
		ConstructorMethod: constructorMethod,
		Methods:           methods,
	}
}

// VisitStatement implements OutputStatement interface
func (c *ClassStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitDeclareClassStmt(c, context)
}

// IsEquivalent checks if two statements are equivalent
func (c *ClassStmt) IsEquivalent(stmt OutputStatement) bool {
	if other, ok := stmt.(*ClassStmt); ok {
		if c.Name != other.Name || !NullSafeIsEquivalent(c.Parent, other.Parent) {
			return false
		}
		if len(c.Fields) != len(other.Fields) || len(c.Getters) != len(other.Getters) ||
			len(c.Methods) != len(other.Methods) {
			return false
		}
		for i := range c.Fields {
			if !c.Fields[i].IsEquivalent(other.Fields[i]) {
				return false
			}
		}
		for i := range c.Getters {
			if !c.Getters[i].IsEquivalent(other.Getters[i]) {
				return false
			}
		}
		for i := range c.Methods {
			if !c.Methods[i].IsEquivalent(other.Methods[i]) {
				return false
			}
		}
		if c.ConstructorMethod == nil || other.ConstructorMethod == nil {
			return c.ConstructorMethod == other.ConstructorMethod
		}
		return c.ConstructorMethod.IsEquivalent(other.ConstructorMethod)
	}
	return false
}

// IfStmt represents an if statement
type IfStmt struct {
	StatementBase
	Condition OutputExpression
	TrueCase  []OutputStatement
	FalseCase []OutputStatement
}

// NewIfStmt creates a new IfStmt
func NewIfStmt(condition OutputExpression, trueCase, falseCase []OutputStatement, sourceSpan *util.ParseSourceSpan, leadingComments []*LeadingComment) *IfStmt {
	return &IfStmt{
		StatementBase: StatementBase{
			Modifiers:       StmtModifierNone,
			SourceSpan:      sourceSpan,
			LeadingComments: leadingComments,
		},
		Condition: condition,
		TrueCase:  trueCase,
		FalseCase: falseCase,
	}
}

// VisitStatement implements OutputStatement interface
func (i *IfStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitIfStmt(i, context)
}

// IsEquivalent checks if two statements are equivalent
func (i *IfStmt) IsEquivalent(stmt OutputStatement) bool {
	if other, ok := stmt.(*IfStmt); ok {
		return i.Condition.IsEquivalent(other.Condition) &&
			areAllEquivalentStmts(i.TrueCase, other.TrueCase) &&
			areAllEquivalentStmts(i.FalseCase, other.FalseCase)
	}
	return false
}

// CommentStmt represents a comment emitted as its own statement
type CommentStmt struct {
	StatementBase
	Comment string
}

// NewCommentStmt creates a new CommentStmt
func NewCommentStmt(comment string, sourceSpan *util.ParseSourceSpan) *CommentStmt {
	return &CommentStmt{
		StatementBase: StatementBase{
			Modifiers:  StmtModifierNone,
			SourceSpan: sourceSpan,
		},
		Comment: comment,
	}
}

// VisitStatement implements OutputStatement interface
func (c *CommentStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitCommentStmt(c, context)
}

// IsEquivalent checks if two statements are equivalent
func (c *CommentStmt) IsEquivalent(stmt OutputStatement) bool {
	if other, ok := stmt.(*CommentStmt); ok {
		return c.Comment == other.Comment
	}
	return false
}

// Builder helpers. These mirror the factory functions of the source language
// model so generation code reads close to the structures it emits.

// Variable creates a variable read
func Variable(name string, typ Type, sourceSpan *util.ParseSourceSpan) *ReadVarExpr {
	return NewReadVarExpr(name, typ, sourceSpan)
}

// ImportExpr creates an external reference expression
func ImportExpr(id *ExternalReference, typeParams []Type, sourceSpan *util.ParseSourceSpan) *ExternalExpr {
	return NewExternalExpr(id, nil, typeParams, sourceSpan)
}

// Literal creates a literal expression
func Literal(value interface{}, typ Type, sourceSpan *util.ParseSourceSpan) *LiteralExpr {
	return NewLiteralExpr(value, typ, sourceSpan)
}

// LiteralArr creates an array literal expression
func LiteralArr(values []OutputExpression, typ Type, sourceSpan *util.ParseSourceSpan) *LiteralArrayExpr {
	return NewLiteralArrayExpr(values, typ, sourceSpan)
}

// LiteralMap creates a map literal expression
func LiteralMap(values []*LiteralMapEntry, typ *MapType) *LiteralMapExpr {
	return NewLiteralMapExpr(values, typ, nil)
}

// Not creates a boolean negation
func Not(expr OutputExpression, sourceSpan *util.ParseSourceSpan) *NotExpr {
	return NewNotExpr(expr, sourceSpan)
}

// Fn creates a function expression
func Fn(params []*FnParam, body []OutputStatement, typ Type, sourceSpan *util.ParseSourceSpan) *FunctionExpr {
	return NewFunctionExpr(params, body, typ, sourceSpan)
}

// Prop creates a property read on a receiver
func Prop(receiver OutputExpression, name string) *ReadPropExpr {
	return NewReadPropExpr(receiver, name, nil, nil)
}

// Key creates a keyed read on a receiver
func Key(receiver, index OutputExpression) *ReadKeyExpr {
	return NewReadKeyExpr(receiver, index, nil, nil)
}

// CallMethod creates a method invocation on a receiver
func CallMethod(receiver OutputExpression, name string, args []OutputExpression) *InvokeFunctionExpr {
	return NewInvokeFunctionExpr(Prop(receiver, name), args, nil, nil)
}

// CallFn creates a function invocation
func CallFn(fn OutputExpression, args []OutputExpression) *InvokeFunctionExpr {
	return NewInvokeFunctionExpr(fn, args, nil, nil)
}

// InstantiateCls creates a constructor invocation
func InstantiateCls(classExpr OutputExpression, args []OutputExpression, typ Type) *InstantiateExpr {
	return NewInstantiateExpr(classExpr, args, typ, nil)
}

// Equals creates a loose equality comparison
func Equals(lhs, rhs OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(BinaryOperatorEquals, lhs, rhs, BoolType, nil)
}

// NotEquals creates a loose inequality comparison
func NotEquals(lhs, rhs OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(BinaryOperatorNotEquals, lhs, rhs, BoolType, nil)
}

// Identical creates a strict equality comparison
func Identical(lhs, rhs OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(BinaryOperatorIdentical, lhs, rhs, BoolType, nil)
}

// NotIdentical creates a strict inequality comparison
func NotIdentical(lhs, rhs OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(BinaryOperatorNotIdentical, lhs, rhs, BoolType, nil)
}

// And creates a logical conjunction
func And(lhs, rhs OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(BinaryOperatorAnd, lhs, rhs, BoolType, nil)
}

// Or creates a logical disjunction
func Or(lhs, rhs OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(BinaryOperatorOr, lhs, rhs, BoolType, nil)
}

// Plus creates an addition
func Plus(lhs, rhs OutputExpression) *BinaryOperatorExpr {
	return NewBinaryOperatorExpr(BinaryOperatorPlus, lhs, rhs, nil, nil)
}

// Conditional creates a ternary expression
func Conditional(condition, trueCase, falseCase OutputExpression) *ConditionalExpr {
	return NewConditionalExpr(condition, trueCase, falseCase, nil, nil)
}

// IsBlank creates a loose null comparison, which also matches undefined values
// at runtime
func IsBlank(expr OutputExpression) *BinaryOperatorExpr {
	return Equals(expr, NullExpr)
}

// Cast creates a type cast
func Cast(expr OutputExpression, typ Type) *CastExpr {
	return NewCastExpr(expr, typ, nil)
}

// ToStmt wraps an expression into a statement
func ToStmt(expr OutputExpression) *ExpressionStatement {
	return NewExpressionStatement(expr, nil, nil)
}

// ExpressionTransformer rebuilds expression and statement trees, producing a
// new node wherever a child changed. Embedders override individual Visit
// methods and must register themselves via SetVisitor so that recursion
// dispatches through the overriding methods.
type ExpressionTransformer struct {
	visitor EmitterVisitor
}

// NewExpressionTransformer creates a new ExpressionTransformer
func NewExpressionTransformer() *ExpressionTransformer {
	t := &ExpressionTransformer{}
	t.visitor = t
	return t
}

// SetVisitor registers the outermost visitor for recursive dispatch
func (t *ExpressionTransformer) SetVisitor(visitor EmitterVisitor) {
	t.visitor = visitor
}

func (t *ExpressionTransformer) transformExpr(expr OutputExpression, context interface{}) OutputExpression {
	if expr == nil {
		return nil
	}
	return expr.VisitExpression(t.visitor, context).(OutputExpression)
}

// VisitAllExpressions transforms each expression in the slice
func (t *ExpressionTransformer) VisitAllExpressions(exprs []OutputExpression, context interface{}) []OutputExpression {
	result := make([]OutputExpression, len(exprs))
	for i, expr := range exprs {
		result[i] = t.transformExpr(expr, context)
	}
	return result
}

// VisitAllStatements transforms each statement in the slice
func (t *ExpressionTransformer) VisitAllStatements(stmts []OutputStatement, context interface{}) []OutputStatement {
	result := make([]OutputStatement, len(stmts))
	for i, stmt := range stmts {
		result[i] = stmt.VisitStatement(t.visitor, context).(OutputStatement)
	}
	return result
}

// VisitReadVarExpr returns the leaf unchanged
func (t *ExpressionTransformer) VisitReadVarExpr(ast *ReadVarExpr, context interface{}) interface{} {
	return ast
}

// VisitInvokeFunctionExpr rebuilds the call with transformed callee and args
func (t *ExpressionTransformer) VisitInvokeFunctionExpr(ast *InvokeFunctionExpr, context interface{}) interface{} {
	return NewInvokeFunctionExpr(t.transformExpr(ast.Fn, context), t.VisitAllExpressions(ast.Args, context), ast.Type, ast.SourceSpan)
}

// VisitInstantiateExpr rebuilds the instantiation with transformed class and args
func (t *ExpressionTransformer) VisitInstantiateExpr(ast *InstantiateExpr, context interface{}) interface{} {
	return NewInstantiateExpr(t.transformExpr(ast.ClassExpr, context), t.VisitAllExpressions(ast.Args, context), ast.Type, ast.SourceSpan)
}

// VisitLiteralExpr returns the leaf unchanged
func (t *ExpressionTransformer) VisitLiteralExpr(ast *LiteralExpr, context interface{}) interface{} {
	return ast
}

// VisitExternalExpr returns the leaf unchanged
func (t *ExpressionTransformer) VisitExternalExpr(ast *ExternalExpr, context interface{}) interface{} {
	return ast
}

// VisitConditionalExpr rebuilds the conditional with transformed branches
func (t *ExpressionTransformer) VisitConditionalExpr(ast *ConditionalExpr, context interface{}) interface{} {
	return NewConditionalExpr(t.transformExpr(ast.Condition, context), t.transformExpr(ast.TrueCase, context), t.transformExpr(ast.FalseCase, context), ast.Type, ast.SourceSpan)
}

// VisitNotExpr rebuilds the negation with a transformed condition
func (t *ExpressionTransformer) VisitNotExpr(ast *NotExpr, context interface{}) interface{} {
	return NewNotExpr(t.transformExpr(ast.Condition, context), ast.SourceSpan)
}

// VisitCastExpr rebuilds the cast with a transformed value
func (t *ExpressionTransformer) VisitCastExpr(ast *CastExpr, context interface{}) interface{} {
	return NewCastExpr(t.transformExpr(ast.Value, context), ast.Type, ast.SourceSpan)
}

// VisitFunctionExpr does not descend into nested functions
func (t *ExpressionTransformer) VisitFunctionExpr(ast *FunctionExpr, context interface{}) interface{} {
	return ast
}

// VisitUnaryOperatorExpr rebuilds the unary operation with a transformed operand
func (t *ExpressionTransformer) VisitUnaryOperatorExpr(ast *UnaryOperatorExpr, context interface{}) interface{} {
	return NewUnaryOperatorExpr(ast.Operator, t.transformExpr(ast.Expr, context), ast.Type, ast.SourceSpan)
}

// VisitBinaryOperatorExpr rebuilds the binary operation with transformed operands
func (t *ExpressionTransformer) VisitBinaryOperatorExpr(ast *BinaryOperatorExpr, context interface{}) interface{} {
	return NewBinaryOperatorExpr(ast.Operator, t.transformExpr(ast.Lhs, context), t.transformExpr(ast.Rhs, context), ast.Type, ast.SourceSpan)
}

// VisitReadPropExpr rebuilds the property read with a transformed receiver
func (t *ExpressionTransformer) VisitReadPropExpr(ast *ReadPropExpr, context interface{}) interface{} {
	return NewReadPropExpr(t.transformExpr(ast.Receiver, context), ast.Name, ast.Type, ast.SourceSpan)
}

// VisitReadKeyExpr rebuilds the keyed read with transformed receiver and index
func (t *ExpressionTransformer) VisitReadKeyExpr(ast *ReadKeyExpr, context interface{}) interface{} {
	return NewReadKeyExpr(t.transformExpr(ast.Receiver, context), t.transformExpr(ast.Index, context), ast.Type, ast.SourceSpan)
}

// VisitLiteralArrayExpr rebuilds the array literal with transformed entries
func (t *ExpressionTransformer) VisitLiteralArrayExpr(ast *LiteralArrayExpr, context interface{}) interface{} {
	return NewLiteralArrayExpr(t.VisitAllExpressions(ast.Entries, context), ast.Type, ast.SourceSpan)
}

// VisitLiteralMapExpr rebuilds the map literal with transformed values
func (t *ExpressionTransformer) VisitLiteralMapExpr(ast *LiteralMapExpr, context interface{}) interface{} {
	entries := make([]*LiteralMapEntry, len(ast.Entries))
	for i, entry := range ast.Entries {
		entries[i] = NewLiteralMapEntry(entry.Key, t.transformExpr(entry.Value, context), entry.Quoted)
	}
	return NewLiteralMapExpr(entries, NewMapType(ast.ValueType, TypeModifierNone), ast.SourceSpan)
}

// VisitCommaExpr rebuilds the comma expression with transformed parts
func (t *ExpressionTransformer) VisitCommaExpr(ast *CommaExpr, context interface{}) interface{} {
	return NewCommaExpr(t.VisitAllExpressions(ast.Parts, context), ast.SourceSpan)
}

// VisitWrappedNodeExpr returns the leaf unchanged
func (t *ExpressionTransformer) VisitWrappedNodeExpr(ast *WrappedNodeExpr, context interface{}) interface{} {
	return ast
}

// VisitDeclareVarStmt rebuilds the declaration with a transformed value
func (t *ExpressionTransformer) VisitDeclareVarStmt(stmt *DeclareVarStmt, context interface{}) interface{} {
	return NewDeclareVarStmt(stmt.Name, t.transformExpr(stmt.Value, context), stmt.Type, stmt.Modifiers, stmt.SourceSpan, stmt.LeadingComments)
}

// VisitDeclareFunctionStmt does not descend into nested functions
func (t *ExpressionTransformer) VisitDeclareFunctionStmt(stmt *DeclareFunctionStmt, context interface{}) interface{} {
	return stmt
}

// VisitExpressionStmt rebuilds the statement with a transformed expression
func (t *ExpressionTransformer) VisitExpressionStmt(stmt *ExpressionStatement, context interface{}) interface{} {
	return NewExpressionStatement(t.transformExpr(stmt.Expr, context), stmt.SourceSpan, stmt.LeadingComments)
}

// VisitReturnStmt rebuilds the return with a transformed value
func (t *ExpressionTransformer) VisitReturnStmt(stmt *ReturnStatement, context interface{}) interface{} {
	return NewReturnStatement(t.transformExpr(stmt.Value, context), stmt.SourceSpan, stmt.LeadingComments)
}

// VisitDeclareClassStmt does not descend into nested classes
func (t *ExpressionTransformer) VisitDeclareClassStmt(stmt *ClassStmt, context interface{}) interface{} {
	return stmt
}

// VisitIfStmt rebuilds the conditional statement with transformed branches
func (t *ExpressionTransformer) VisitIfStmt(stmt *IfStmt, context interface{}) interface{} {
	return NewIfStmt(t.transformExpr(stmt.Condition, context), t.VisitAllStatements(stmt.TrueCase, context), t.VisitAllStatements(stmt.FalseCase, context), stmt.SourceSpan, stmt.LeadingComments)
}

// VisitCommentStmt returns the comment unchanged
func (t *ExpressionTransformer) VisitCommentStmt(stmt *CommentStmt, context interface{}) interface{} {
	return stmt
}

// RecursiveExpressionVisitor walks expression and statement trees without
// rebuilding them, returning each node unchanged. Embedders override
// individual Visit methods and register themselves via SetVisitor.
type RecursiveExpressionVisitor struct {
	visitor EmitterVisitor
}

// NewRecursiveExpressionVisitor creates a new RecursiveExpressionVisitor
func NewRecursiveExpressionVisitor() *RecursiveExpressionVisitor {
	v := &RecursiveExpressionVisitor{}
	v.visitor = v
	return v
}

// SetVisitor registers the outermost visitor for recursive dispatch
func (v *RecursiveExpressionVisitor) SetVisitor(visitor EmitterVisitor) {
	v.visitor = visitor
}

func (v *RecursiveExpressionVisitor) visitExpr(expr OutputExpression, context interface{}) {
	if expr != nil {
		expr.VisitExpression(v.visitor, context)
	}
}

// VisitAllExpressions visits each expression in the slice
func (v *RecursiveExpressionVisitor) VisitAllExpressions(exprs []OutputExpression, context interface{}) {
	for _, expr := range exprs {
		v.visitExpr(expr, context)
	}
}

// VisitAllStatements visits each statement in the slice
func (v *RecursiveExpressionVisitor) VisitAllStatements(stmts []OutputStatement, context interface{}) {
	for _, stmt := range stmts {
		stmt.VisitStatement(v.visitor, context)
	}
}

// VisitReadVarExpr visits a variable read leaf
func (v *RecursiveExpressionVisitor) VisitReadVarExpr(ast *ReadVarExpr, context interface{}) interface{} {
	return ast
}

// VisitInvokeFunctionExpr visits the callee and arguments
func (v *RecursiveExpressionVisitor) VisitInvokeFunctionExpr(ast *InvokeFunctionExpr, context interface{}) interface{} {
	v.visitExpr(ast.Fn, context)
	v.VisitAllExpressions(ast.Args, context)
	return ast
}

// VisitInstantiateExpr visits the class expression and arguments
func (v *RecursiveExpressionVisitor) VisitInstantiateExpr(ast *InstantiateExpr, context interface{}) interface{} {
	v.visitExpr(ast.ClassExpr, context)
	v.VisitAllExpressions(ast.Args, context)
	return ast
}

// VisitLiteralExpr visits a literal leaf
func (v *RecursiveExpressionVisitor) VisitLiteralExpr(ast *LiteralExpr, context interface{}) interface{} {
	return ast
}

// VisitExternalExpr visits an external reference leaf
func (v *RecursiveExpressionVisitor) VisitExternalExpr(ast *ExternalExpr, context interface{}) interface{} {
	return ast
}

// VisitConditionalExpr visits the condition and both branches
func (v *RecursiveExpressionVisitor) VisitConditionalExpr(ast *ConditionalExpr, context interface{}) interface{} {
	v.visitExpr(ast.Condition, context)
	v.visitExpr(ast.TrueCase, context)
	v.visitExpr(ast.FalseCase, context)
	return ast
}

// VisitNotExpr visits the negated condition
func (v *RecursiveExpressionVisitor) VisitNotExpr(ast *NotExpr, context interface{}) interface{} {
	v.visitExpr(ast.Condition, context)
	return ast
}

// VisitCastExpr visits the cast value
func (v *RecursiveExpressionVisitor) VisitCastExpr(ast *CastExpr, context interface{}) interface{} {
	v.visitExpr(ast.Value, context)
	return ast
}

// VisitFunctionExpr does not descend into nested functions
func (v *RecursiveExpressionVisitor) VisitFunctionExpr(ast *FunctionExpr, context interface{}) interface{} {
	return ast
}

// VisitUnaryOperatorExpr visits the operand
func (v *RecursiveExpressionVisitor) VisitUnaryOperatorExpr(ast *UnaryOperatorExpr, context interface{}) interface{} {
	v.visitExpr(ast.Expr, context)
	return ast
}

// VisitBinaryOperatorExpr visits both operands
func (v *RecursiveExpressionVisitor) VisitBinaryOperatorExpr(ast *BinaryOperatorExpr, context interface{}) interface{} {
	v.visitExpr(ast.Lhs, context)
	v.visitExpr(ast.Rhs, context)
	return ast
}

// VisitReadPropExpr visits the receiver
func (v *RecursiveExpressionVisitor) VisitReadPropExpr(ast *ReadPropExpr, context interface{}) interface{} {
	v.visitExpr(ast.Receiver, context)
	return ast
}

// VisitReadKeyExpr visits the receiver and index
func (v *RecursiveExpressionVisitor) VisitReadKeyExpr(ast *ReadKeyExpr, context interface{}) interface{} {
	v.visitExpr(ast.Receiver, context)
	v.visitExpr(ast.Index, context)
	return ast
}

// VisitLiteralArrayExpr visits each entry
func (v *RecursiveExpressionVisitor) VisitLiteralArrayExpr(ast *LiteralArrayExpr, context interface{}) interface{} {
	v.VisitAllExpressions(ast.Entries, context)
	return ast
}

// VisitLiteralMapExpr visits each entry value
func (v *RecursiveExpressionVisitor) VisitLiteralMapExpr(ast *LiteralMapExpr, context interface{}) interface{} {
	for _, entry := range ast.Entries {
		v.visitExpr(entry.Value, context)
	}
	return ast
}

// VisitCommaExpr visits each part
func (v *RecursiveExpressionVisitor) VisitCommaExpr(ast *CommaExpr, context interface{}) interface{} {
	v.VisitAllExpressions(ast.Parts, context)
	return ast
}

// VisitWrappedNodeExpr visits a wrapped node leaf
func (v *RecursiveExpressionVisitor) VisitWrappedNodeExpr(ast *WrappedNodeExpr, context interface{}) interface{} {
	return ast
}

// VisitDeclareVarStmt visits the declared value
func (v *RecursiveExpressionVisitor) VisitDeclareVarStmt(stmt *DeclareVarStmt, context interface{}) interface{} {
	v.visitExpr(stmt.Value, context)
	return stmt
}

// VisitDeclareFunctionStmt does not descend into nested functions
func (v *RecursiveExpressionVisitor) VisitDeclareFunctionStmt(stmt *DeclareFunctionStmt, context interface{}) interface{} {
	return stmt
}

// VisitExpressionStmt visits the wrapped expression
func (v *RecursiveExpressionVisitor) VisitExpressionStmt(stmt *ExpressionStatement, context interface{}) interface{} {
	v.visitExpr(stmt.Expr, context)
	return stmt
}

// VisitReturnStmt visits the returned value
func (v *RecursiveExpressionVisitor) VisitReturnStmt(stmt *ReturnStatement, context interface{}) interface{} {
	v.visitExpr(stmt.Value, context)
	return stmt
}

// VisitDeclareClassStmt does not descend into nested classes
func (v *RecursiveExpressionVisitor) VisitDeclareClassStmt(stmt *ClassStmt, context interface{}) interface{} {
	return stmt
}

// VisitIfStmt visits the condition and both branches
func (v *RecursiveExpressionVisitor) VisitIfStmt(stmt *IfStmt, context interface{}) interface{} {
	v.visitExpr(stmt.Condition, context)
	v.VisitAllStatements(stmt.TrueCase, context)
	v.VisitAllStatements(stmt.FalseCase, context)
	return stmt
}

// VisitCommentStmt visits a comment leaf
func (v *RecursiveExpressionVisitor) VisitCommentStmt(stmt *CommentStmt, context interface{}) interface{} {
	return stmt
}

// ReplaceVarInExpression substitutes every read of the given variable inside
// the expression with the replacement value
func ReplaceVarInExpression(varName string, newValue OutputExpression, expression OutputExpression) OutputExpression {
	transformer := newReplaceVariableTransformer(varName, newValue)
	return expression.VisitExpression(transformer, nil).(OutputExpression)
}

type replaceVariableTransformer struct {
	*ExpressionTransformer
	varName  string
	newValue OutputExpression
}

func newReplaceVariableTransformer(varName string, newValue OutputExpression) *replaceVariableTransformer {
	t := &replaceVariableTransformer{
		ExpressionTransformer: NewExpressionTransformer(),
		varName:               varName,
		newValue:              newValue,
	}
	t.SetVisitor(t)
	return t
}

func (t *replaceVariableTransformer) VisitReadVarExpr(ast *ReadVarExpr, context interface{}) interface{} {
	if ast.Name == t.varName {
		return t.newValue
	}
	return ast
}

// FindReadVarNames collects the names of all variables read inside the given
// statements
func FindReadVarNames(stmts []OutputStatement) map[string]bool {
	finder := newVariableFinder()
	finder.VisitAllStatements(stmts, nil)
	return finder.varNames
}

type variableFinder struct {
	*RecursiveExpressionVisitor
	varNames map[string]bool
}

func newVariableFinder() *variableFinder {
	f := &variableFinder{
		RecursiveExpressionVisitor: NewRecursiveExpressionVisitor(),
		varNames:                   map[string]bool{},
	}
	f.SetVisitor(f)
	return f
}

func (f *variableFinder) VisitReadVarExpr(ast *ReadVarExpr, context interface{}) interface{} {
	f.varNames[ast.Name] = true
	return nil
}
