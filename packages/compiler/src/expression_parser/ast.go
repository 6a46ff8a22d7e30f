package expression_parser

import (
	"ngve-go/packages/compiler/src/util"
)

// ParseSpan represents a span within an expression
type ParseSpan struct {
	Start int
	End   int
}

// NewParseSpan creates a new ParseSpan
func NewParseSpan(start, end int) *ParseSpan {
	return &ParseSpan{Start: start, End: end}
}

// ToAbsolute converts a ParseSpan to an AbsoluteSourceSpan
func (ps *ParseSpan) ToAbsolute(absoluteOffset int) *AbsoluteSourceSpan {
	return NewAbsoluteSourceSpan(absoluteOffset+ps.Start, absoluteOffset+ps.End)
}

// AbsoluteSourceSpan records the absolute position of a text span in a source file
type AbsoluteSourceSpan struct {
	Start int
	End   int
}

// NewAbsoluteSourceSpan creates a new AbsoluteSourceSpan
func NewAbsoluteSourceSpan(start, end int) *AbsoluteSourceSpan {
	return &AbsoluteSourceSpan{Start: start, End: end}
}

// AST is the base interface for all AST nodes
type AST interface {
	Span() *ParseSpan
	SourceSpan() *AbsoluteSourceSpan
	Visit(visitor AstVisitor, context interface{}) interface{}
	String() string
}

// ASTWithName is the base class for AST nodes that have a name
type ASTWithName struct {
	span       *ParseSpan
	sourceSpan *AbsoluteSourceSpan
	nameSpan   *AbsoluteSourceSpan
}

// Span returns the parse span
func (a *ASTWithName) Span() *ParseSpan {
	return a.span
}

// SourceSpan returns the absolute source span
func (a *ASTWithName) SourceSpan() *AbsoluteSourceSpan {
	return a.sourceSpan
}

// NameSpan returns the absolute span of the name part
func (a *ASTWithName) NameSpan() *AbsoluteSourceSpan {
	return a.nameSpan
}

// EmptyExpr represents an empty expression
type EmptyExpr struct {
	span       *ParseSpan
	sourceSpan *AbsoluteSourceSpan
}

// NewEmptyExpr creates a new EmptyExpr
func NewEmptyExpr(span *ParseSpan, sourceSpan *AbsoluteSourceSpan) *EmptyExpr {
	return &EmptyExpr{span: span, sourceSpan: sourceSpan}
}

// Span returns the parse span
func (e *EmptyExpr) Span() *ParseSpan {
	return e.span
}

// SourceSpan returns the absolute source span
func (e *EmptyExpr) SourceSpan() *AbsoluteSourceSpan {
	return e.sourceSpan
}

// Visit implements the AST interface
func (e *EmptyExpr) Visit(visitor AstVisitor, context interface{}) interface{} {
	// do nothing
	return nil
}

// String returns string representation
func (e *EmptyExpr) String() string {
	return "AST"
}

// ImplicitReceiver represents an implicit receiver
type ImplicitReceiver struct {
	span       *ParseSpan
	sourceSpan *AbsoluteSourceSpan
}

// NewImplicitReceiver creates a new ImplicitReceiver
func NewImplicitReceiver(span *ParseSpan, sourceSpan *AbsoluteSourceSpan) *ImplicitReceiver {
	return &ImplicitReceiver{span: span, sourceSpan: sourceSpan}
}

// Span returns the parse span
func (i *ImplicitReceiver) Span() *ParseSpan {
	return i.span
}

// SourceSpan returns the absolute source span
func (i *ImplicitReceiver) SourceSpan() *AbsoluteSourceSpan {
	return i.sourceSpan
}

// Visit implements the AST interface
func (i *ImplicitReceiver) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitImplicitReceiver(i, context)
}

// String returns string representation
func (i *ImplicitReceiver) String() string {
	return "AST"
}

// Chain represents multiple expressions separated by a semicolon
type Chain struct {
	span        *ParseSpan
	sourceSpan  *AbsoluteSourceSpan
	Expressions []AST
}

// NewChain creates a new Chain
func NewChain(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expressions []AST) *Chain {
	return &Chain{
		span:        span,
		sourceSpan:  sourceSpan,
		Expressions: expressions,
	}
}

// Span returns the parse span
func (c *Chain) Span() *ParseSpan {
	return c.span
}

// SourceSpan returns the absolute source span
func (c *Chain) SourceSpan() *AbsoluteSourceSpan {
	return c.sourceSpan
}

// Visit implements the AST interface
func (c *Chain) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitChain(c, context)
}

// String returns string representation
func (c *Chain) String() string {
	return "AST"
}

// Conditional represents a conditional expression (ternary operator)
type Conditional struct {
	span       *ParseSpan
	sourceSpan *AbsoluteSourceSpan
	Condition  AST
	TrueExp    AST
	FalseExp   AST
}

// NewConditional creates a new Conditional
func NewConditional(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, condition, trueExp, falseExp AST) *Conditional {
	return &Conditional{
		span:       span,
		sourceSpan: sourceSpan,
		Condition:  condition,
		TrueExp:    trueExp,
		FalseExp:   falseExp,
	}
}

// Span returns the parse span
func (c *Conditional) Span() *ParseSpan {
	return c.span
}

// SourceSpan returns the absolute source span
func (c *Conditional) SourceSpan() *AbsoluteSourceSpan {
	return c.sourceSpan
}

// Visit implements the AST interface
func (c *Conditional) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitConditional(c, context)
}

// String returns string representation
func (c *Conditional) String() string {
	return "AST"
}

// PropertyRead represents a property read operation
type PropertyRead struct {
	*ASTWithName
	Receiver AST
	Name     string
}

// NewPropertyRead creates a new PropertyRead
func NewPropertyRead(span *ParseSpan, sourceSpan, nameSpan *AbsoluteSourceSpan, receiver AST, name string) *PropertyRead {
	return &PropertyRead{
		ASTWithName: &ASTWithName{
			span:       span,
			sourceSpan: sourceSpan,
			nameSpan:   nameSpan,
		},
		Receiver: receiver,
		Name:     name,
	}
}

// Visit implements the AST interface
func (p *PropertyRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPropertyRead(p, context)
}

// String returns string representation
func (p *PropertyRead) String() string {
	return "AST"
}

// PropertyWrite represents a property write operation
type PropertyWrite struct {
	*ASTWithName
	Receiver AST
	Name     string
	Value    AST
}

// NewPropertyWrite creates a new PropertyWrite
func NewPropertyWrite(span *ParseSpan, sourceSpan, nameSpan *AbsoluteSourceSpan, receiver AST, name string, value AST) *PropertyWrite {
	return &PropertyWrite{
		ASTWithName: &ASTWithName{
			span:       span,
			sourceSpan: sourceSpan,
			nameSpan:   nameSpan,
		},
		Receiver: receiver,
		Name:     name,
		Value:    value,
	}
}

// Visit implements the AST interface
func (p *PropertyWrite) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPropertyWrite(p, context)
}

// String returns string representation
func (p *PropertyWrite) String() string {
	return "AST"
}

// SafePropertyRead represents a safe property read operation (?.)
type SafePropertyRead struct {
	*ASTWithName
	Receiver AST
	Name     string
}

// NewSafePropertyRead creates a new SafePropertyRead
func NewSafePropertyRead(span *ParseSpan, sourceSpan, nameSpan *AbsoluteSourceSpan, receiver AST, name string) *SafePropertyRead {
	return &SafePropertyRead{
		ASTWithName: &ASTWithName{
			span:       span,
			sourceSpan: sourceSpan,
			nameSpan:   nameSpan,
		},
		Receiver: receiver,
		Name:     name,
	}
}

// Visit implements the AST interface
func (s *SafePropertyRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitSafePropertyRead(s, context)
}

// String returns string representation
func (s *SafePropertyRead) String() string {
	return "AST"
}

// KeyedRead represents a keyed read operation (array/object access)
type KeyedRead struct {
	span       *ParseSpan
	sourceSpan *AbsoluteSourceSpan
	Receiver   AST
	Key        AST
}

// NewKeyedRead creates a new KeyedRead
func NewKeyedRead(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver, key AST) *KeyedRead {
	return &KeyedRead{
		span:       span,
		sourceSpan: sourceSpan,
		Receiver:   receiver,
		Key:        key,
	}
}

// Span returns the parse span
func (k *KeyedRead) Span() *ParseSpan {
	return k.span
}

// SourceSpan returns the absolute source span
func (k *KeyedRead) SourceSpan() *AbsoluteSourceSpan {
	return k.sourceSpan
}

// Visit implements the AST interface
func (k *KeyedRead) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitKeyedRead(k, context)
}

// String returns string representation
func (k *KeyedRead) String() string {
	return "AST"
}

// KeyedWrite represents a keyed write operation
type KeyedWrite struct {
	span       *ParseSpan
	sourceSpan *AbsoluteSourceSpan
	Receiver   AST
	Key        AST
	Value      AST
}

// NewKeyedWrite creates a new KeyedWrite
func NewKeyedWrite(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, receiver, key, value AST) *KeyedWrite {
	return &KeyedWrite{
		span:       span,
		sourceSpan: sourceSpan,
		Receiver:   receiver,
		Key:        key,
		Value:      value,
	}
}

// Span returns the parse span
func (k *KeyedWrite) Span() *ParseSpan {
	return k.span
}

// SourceSpan returns the absolute source span
func (k *KeyedWrite) SourceSpan() *AbsoluteSourceSpan {
	return k.sourceSpan
}

// Visit implements the AST interface
func (k *KeyedWrite) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitKeyedWrite(k, context)
}

// String returns string representation
func (k *KeyedWrite) String() string {
	return "AST"
}

// BindingPipe represents a pipe operation
type BindingPipe struct {
	*ASTWithName
	Exp  AST
	Name string
	Args []AST
}

// NewBindingPipe creates a new BindingPipe
func NewBindingPipe(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, exp AST, name string, args []AST, nameSpan *AbsoluteSourceSpan) *BindingPipe {
	return &BindingPipe{
		ASTWithName: &ASTWithName{
			span:       span,
			sourceSpan: sourceSpan,
			nameSpan:   nameSpan,
		},
		Exp:  exp,
		Name: name,
		Args: args,
	}
}

// Visit implements the AST interface
func (b *BindingPipe) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPipe(b, context)
}

// String returns string representation
func (b *BindingPipe) String() string {
	return "AST"
}

// LiteralPrimitive represents a primitive literal value
type LiteralPrimitive struct {
	span       *ParseSpan
	sourceSpan *AbsoluteSourceSpan
	Value      interface{}
}

// NewLiteralPrimitive creates a new LiteralPrimitive
func NewLiteralPrimitive(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, value interface{}) *LiteralPrimitive {
	return &LiteralPrimitive{
		span:       span,
		sourceSpan: sourceSpan,
		Value:      value,
	}
}

// Span returns the parse span
func (l *LiteralPrimitive) Span() *ParseSpan {
	return l.span
}

// SourceSpan returns the absolute source span
func (l *LiteralPrimitive) SourceSpan() *AbsoluteSourceSpan {
	return l.sourceSpan
}

// Visit implements the AST interface
func (l *LiteralPrimitive) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralPrimitive(l, context)
}

// String returns string representation
func (l *LiteralPrimitive) String() string {
	return "AST"
}

// LiteralArray represents an array literal
type LiteralArray struct {
	span        *ParseSpan
	sourceSpan  *AbsoluteSourceSpan
	Expressions []AST
}

// NewLiteralArray creates a new LiteralArray
func NewLiteralArray(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expressions []AST) *LiteralArray {
	return &LiteralArray{
		span:        span,
		sourceSpan:  sourceSpan,
		Expressions: expressions,
	}
}

// Span returns the parse span
func (l *LiteralArray) Span() *ParseSpan {
	return l.span
}

// SourceSpan returns the absolute source span
func (l *LiteralArray) SourceSpan() *AbsoluteSourceSpan {
	return l.sourceSpan
}

// Visit implements the AST interface
func (l *LiteralArray) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralArray(l, context)
}

// String returns string representation
func (l *LiteralArray) String() string {
	return "AST"
}

// LiteralMapKey represents a key in a literal map
type LiteralMapKey struct {
	Key    string
	Quoted bool
}

// LiteralMap represents a map/object literal
type LiteralMap struct {
	span       *ParseSpan
	sourceSpan *AbsoluteSourceSpan
	Keys       []LiteralMapKey
	Values     []AST
}

// NewLiteralMap creates a new LiteralMap
func NewLiteralMap(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, keys []LiteralMapKey, values []AST) *LiteralMap {
	return &LiteralMap{
		span:       span,
		sourceSpan: sourceSpan,
		Keys:       keys,
		Values:     values,
	}
}

// Span returns the parse span
func (l *LiteralMap) Span() *ParseSpan {
	return l.span
}

// SourceSpan returns the absolute source span
func (l *LiteralMap) SourceSpan() *AbsoluteSourceSpan {
	return l.sourceSpan
}

// Visit implements the AST interface
func (l *LiteralMap) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralMap(l, context)
}

// String returns string representation
func (l *LiteralMap) String() string {
	return "AST"
}

// Interpolation represents an interpolation expression
type Interpolation struct {
	span        *ParseSpan
	sourceSpan  *AbsoluteSourceSpan
	Strings     []string
	Expressions []AST
}

// NewInterpolation creates a new Interpolation
func NewInterpolation(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, strings []string, expressions []AST) *Interpolation {
	return &Interpolation{
		span:        span,
		sourceSpan:  sourceSpan,
		Strings:     strings,
		Expressions: expressions,
	}
}

// Span returns the parse span
func (i *Interpolation) Span() *ParseSpan {
	return i.span
}

// SourceSpan returns the absolute source span
func (i *Interpolation) SourceSpan() *AbsoluteSourceSpan {
	return i.sourceSpan
}

// Visit implements the AST interface
func (i *Interpolation) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitInterpolation(i, context)
}

// String returns string representation
func (i *Interpolation) String() string {
	return "AST"
}

// Binary represents a binary operation
type Binary struct {
	span       *ParseSpan
	sourceSpan *AbsoluteSourceSpan
	Operation  string
	Left       AST
	Right      AST
}

// NewBinary creates a new Binary
func NewBinary(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, operation string, left, right AST) *Binary {
	return &Binary{
		span:       span,
		sourceSpan: sourceSpan,
		Operation:  operation,
		Left:       left,
		Right:      right,
	}
}

// Span returns the parse span
func (b *Binary) Span() *ParseSpan {
	return b.span
}

// SourceSpan returns the absolute source span
func (b *Binary) SourceSpan() *AbsoluteSourceSpan {
	return b.sourceSpan
}

// Visit implements the AST interface
func (b *Binary) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitBinary(b, context)
}

// String returns string representation
func (b *Binary) String() string {
	return "AST"
}

// PrefixNot represents a prefix not operation
type PrefixNot struct {
	span       *ParseSpan
	sourceSpan *AbsoluteSourceSpan
	Expression AST
}

// NewPrefixNot creates a new PrefixNot
func NewPrefixNot(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, expression AST) *PrefixNot {
	return &PrefixNot{
		span:       span,
		sourceSpan: sourceSpan,
		Expression: expression,
	}
}

// Span returns the parse span
func (p *PrefixNot) Span() *ParseSpan {
	return p.span
}

// SourceSpan returns the absolute source span
func (p *PrefixNot) SourceSpan() *AbsoluteSourceSpan {
	return p.sourceSpan
}

// Visit implements the AST interface
func (p *PrefixNot) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitPrefixNot(p, context)
}

// String returns string representation
func (p *PrefixNot) String() string {
	return "AST"
}

// MethodCall represents a method call
type MethodCall struct {
	*ASTWithName
	Receiver AST
	Name     string
	Args     []AST
}

// NewMethodCall creates a new MethodCall
func NewMethodCall(span *ParseSpan, sourceSpan, nameSpan *AbsoluteSourceSpan, receiver AST, name string, args []AST) *MethodCall {
	return &MethodCall{
		ASTWithName: &ASTWithName{
			span:       span,
			sourceSpan: sourceSpan,
			nameSpan:   nameSpan,
		},
		Receiver: receiver,
		Name:     name,
		Args:     args,
	}
}

// Visit implements the AST interface
func (m *MethodCall) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitMethodCall(m, context)
}

// String returns string representation
func (m *MethodCall) String() string {
	return "AST"
}

// SafeMethodCall represents a safe method call (?.)
type SafeMethodCall struct {
	*ASTWithName
	Receiver AST
	Name     string
	Args     []AST
}

// NewSafeMethodCall creates a new SafeMethodCall
func NewSafeMethodCall(span *ParseSpan, sourceSpan, nameSpan *AbsoluteSourceSpan, receiver AST, name string, args []AST) *SafeMethodCall {
	return &SafeMethodCall{
		ASTWithName: &ASTWithName{
			span:       span,
			sourceSpan: sourceSpan,
			nameSpan:   nameSpan,
		},
		Receiver: receiver,
		Name:     name,
		Args:     args,
	}
}

// Visit implements the AST interface
func (s *SafeMethodCall) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitSafeMethodCall(s, context)
}

// String returns string representation
func (s *SafeMethodCall) String() string {
	return "AST"
}

// FunctionCall represents a function call
type FunctionCall struct {
	span       *ParseSpan
	sourceSpan *AbsoluteSourceSpan
	Target     AST
	Args       []AST
}

// NewFunctionCall creates a new FunctionCall
func NewFunctionCall(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, target AST, args []AST) *FunctionCall {
	return &FunctionCall{
		span:       span,
		sourceSpan: sourceSpan,
		Target:     target,
		Args:       args,
	}
}

// Span returns the parse span
func (f *FunctionCall) Span() *ParseSpan {
	return f.span
}

// SourceSpan returns the absolute source span
func (f *FunctionCall) SourceSpan() *AbsoluteSourceSpan {
	return f.sourceSpan
}

// Visit implements the AST interface
func (f *FunctionCall) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitFunctionCall(f, context)
}

// String returns string representation
func (f *FunctionCall) String() string {
	return "AST"
}

// Quote represents an uninterpreted expression with a prefix, e.g. `route:/some/path`.
// The part after the colon is not parsed; downstream tooling decides what to do
// with it.
type Quote struct {
	span              *ParseSpan
	sourceSpan        *AbsoluteSourceSpan
	Prefix            string
	UncommittedString string
	Location          string
}

// NewQuote creates a new Quote
func NewQuote(span *ParseSpan, sourceSpan *AbsoluteSourceSpan, prefix, uncommittedString, location string) *Quote {
	return &Quote{
		span:              span,
		sourceSpan:        sourceSpan,
		Prefix:            prefix,
		UncommittedString: uncommittedString,
		Location:          location,
	}
}

// Span returns the parse span
func (q *Quote) Span() *ParseSpan {
	return q.span
}

// SourceSpan returns the absolute source span
func (q *Quote) SourceSpan() *AbsoluteSourceSpan {
	return q.sourceSpan
}

// Visit implements the AST interface
func (q *Quote) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitQuote(q, context)
}

// String returns string representation
func (q *Quote) String() string {
	return "Quote"
}

// ASTWithSource wraps an AST with source information
type ASTWithSource struct {
	AST            AST
	Source         *string
	Location       string
	AbsoluteOffset int
	Errors         []*util.ParseError
	span           *ParseSpan
	sourceSpan     *AbsoluteSourceSpan
}

// NewASTWithSource creates a new ASTWithSource
func NewASTWithSource(ast AST, source *string, location string, absoluteOffset int, errors []*util.ParseError) *ASTWithSource {
	sourceLen := 0
	if source != nil {
		sourceLen = len(*source)
	}
	span := NewParseSpan(0, sourceLen)
	return &ASTWithSource{
		AST:            ast,
		Source:         source,
		Location:       location,
		AbsoluteOffset: absoluteOffset,
		Errors:         errors,
		span:           span,
		sourceSpan:     span.ToAbsolute(absoluteOffset),
	}
}

// Span returns the parse span
func (a *ASTWithSource) Span() *ParseSpan {
	return a.span
}

// SourceSpan returns the absolute source span
func (a *ASTWithSource) SourceSpan() *AbsoluteSourceSpan {
	return a.sourceSpan
}

// Visit implements the AST interface
func (a *ASTWithSource) Visit(visitor AstVisitor, context interface{}) interface{} {
	return visitor.VisitASTWithSource(a, context)
}

// String returns string representation
func (a *ASTWithSource) String() string {
	if a.Source != nil {
		return *a.Source + " in " + a.Location
	}
	return "null in " + a.Location
}

// TemplateBindingIdentifier represents an identifier in a template binding
type TemplateBindingIdentifier struct {
	Source string
	Span   *AbsoluteSourceSpan
}

// TemplateBinding represents a template binding
type TemplateBinding interface {
	SourceSpan() *AbsoluteSourceSpan
}

// VariableBinding represents a variable binding
type VariableBinding struct {
	sourceSpan *AbsoluteSourceSpan
	Key        *TemplateBindingIdentifier
	Value      *TemplateBindingIdentifier
}

// NewVariableBinding creates a new VariableBinding
func NewVariableBinding(sourceSpan *AbsoluteSourceSpan, key, value *TemplateBindingIdentifier) *VariableBinding {
	return &VariableBinding{
		sourceSpan: sourceSpan,
		Key:        key,
		Value:      value,
	}
}

// SourceSpan returns the source span
func (v *VariableBinding) SourceSpan() *AbsoluteSourceSpan {
	return v.sourceSpan
}

// ExpressionBinding represents an expression binding
type ExpressionBinding struct {
	sourceSpan *AbsoluteSourceSpan
	Key        *TemplateBindingIdentifier
	Value      *ASTWithSource
}

// NewExpressionBinding creates a new ExpressionBinding
func NewExpressionBinding(sourceSpan *AbsoluteSourceSpan, key *TemplateBindingIdentifier, value *ASTWithSource) *ExpressionBinding {
	return &ExpressionBinding{
		sourceSpan: sourceSpan,
		Key:        key,
		Value:      value,
	}
}

// SourceSpan returns the source span
func (e *ExpressionBinding) SourceSpan() *AbsoluteSourceSpan {
	return e.sourceSpan
}

// AstVisitor is the interface for visiting AST nodes
type AstVisitor interface {
	VisitBinary(ast *Binary, context interface{}) interface{}
	VisitChain(ast *Chain, context interface{}) interface{}
	VisitConditional(ast *Conditional, context interface{}) interface{}
	VisitFunctionCall(ast *FunctionCall, context interface{}) interface{}
	VisitImplicitReceiver(ast *ImplicitReceiver, context interface{}) interface{}
	VisitInterpolation(ast *Interpolation, context interface{}) interface{}
	VisitKeyedRead(ast *KeyedRead, context interface{}) interface{}
	VisitKeyedWrite(ast *KeyedWrite, context interface{}) interface{}
	VisitLiteralArray(ast *LiteralArray, context interface{}) interface{}
	VisitLiteralMap(ast *LiteralMap, context interface{}) interface{}
	VisitLiteralPrimitive(ast *LiteralPrimitive, context interface{}) interface{}
	VisitMethodCall(ast *MethodCall, context interface{}) interface{}
	VisitPipe(ast *BindingPipe, context interface{}) interface{}
	VisitPrefixNot(ast *PrefixNot, context interface{}) interface{}
	VisitPropertyRead(ast *PropertyRead, context interface{}) interface{}
	VisitPropertyWrite(ast *PropertyWrite, context interface{}) interface{}
	VisitQuote(ast *Quote, context interface{}) interface{}
	VisitSafeMethodCall(ast *SafeMethodCall, context interface{}) interface{}
	VisitSafePropertyRead(ast *SafePropertyRead, context interface{}) interface{}
	VisitASTWithSource(ast *ASTWithSource, context interface{}) interface{}
	Visit(ast AST, context interface{}) interface{}
}

// RecursiveAstVisitor is a base visitor that recursively visits all nodes.
// Embedders override individual Visit methods and register themselves via
// SetVisitor so that nested nodes dispatch through the overriding methods.
type RecursiveAstVisitor struct {
	visitor AstVisitor
}

// NewRecursiveAstVisitor creates a new RecursiveAstVisitor
func NewRecursiveAstVisitor() *RecursiveAstVisitor {
	r := &RecursiveAstVisitor{}
	r.visitor = r
	return r
}

// SetVisitor registers the outermost visitor for recursive dispatch
func (r *RecursiveAstVisitor) SetVisitor(visitor AstVisitor) {
	r.visitor = visitor
}

// Visit is the default visit method
func (r *RecursiveAstVisitor) Visit(ast AST, context interface{}) interface{} {
	ast.Visit(r.visitor, context)
	return nil
}

// VisitAll visits all nodes in the slice
func (r *RecursiveAstVisitor) VisitAll(asts []AST, context interface{}) interface{} {
	for _, ast := range asts {
		r.Visit(ast, context)
	}
	return nil
}

// VisitBinary visits a binary expression
func (r *RecursiveAstVisitor) VisitBinary(ast *Binary, context interface{}) interface{} {
	r.Visit(ast.Left, context)
	r.Visit(ast.Right, context)
	return nil
}

// VisitChain visits a chain expression
func (r *RecursiveAstVisitor) VisitChain(ast *Chain, context interface{}) interface{} {
	r.VisitAll(ast.Expressions, context)
	return nil
}

// VisitConditional visits a conditional expression
func (r *RecursiveAstVisitor) VisitConditional(ast *Conditional, context interface{}) interface{} {
	r.Visit(ast.Condition, context)
	r.Visit(ast.TrueExp, context)
	r.Visit(ast.FalseExp, context)
	return nil
}

// VisitFunctionCall visits a function call
func (r *RecursiveAstVisitor) VisitFunctionCall(ast *FunctionCall, context interface{}) interface{} {
	if ast.Target != nil {
		r.Visit(ast.Target, context)
	}
	r.VisitAll(ast.Args, context)
	return nil
}

// VisitImplicitReceiver visits an implicit receiver
func (r *RecursiveAstVisitor) VisitImplicitReceiver(ast *ImplicitReceiver, context interface{}) interface{} {
	return nil
}

// VisitInterpolation visits an interpolation
func (r *RecursiveAstVisitor) VisitInterpolation(ast *Interpolation, context interface{}) interface{} {
	r.VisitAll(ast.Expressions, context)
	return nil
}

// VisitKeyedRead visits a keyed read
func (r *RecursiveAstVisitor) VisitKeyedRead(ast *KeyedRead, context interface{}) interface{} {
	r.Visit(ast.Receiver, context)
	r.Visit(ast.Key, context)
	return nil
}

// VisitKeyedWrite visits a keyed write
func (r *RecursiveAstVisitor) VisitKeyedWrite(ast *KeyedWrite, context interface{}) interface{} {
	r.Visit(ast.Receiver, context)
	r.Visit(ast.Key, context)
	r.Visit(ast.Value, context)
	return nil
}

// VisitLiteralArray visits a literal array
func (r *RecursiveAstVisitor) VisitLiteralArray(ast *LiteralArray, context interface{}) interface{} {
	r.VisitAll(ast.Expressions, context)
	return nil
}

// VisitLiteralMap visits a literal map
func (r *RecursiveAstVisitor) VisitLiteralMap(ast *LiteralMap, context interface{}) interface{} {
	r.VisitAll(ast.Values, context)
	return nil
}

// VisitLiteralPrimitive visits a literal primitive
func (r *RecursiveAstVisitor) VisitLiteralPrimitive(ast *LiteralPrimitive, context interface{}) interface{} {
	return nil
}

// VisitMethodCall visits a method call
func (r *RecursiveAstVisitor) VisitMethodCall(ast *MethodCall, context interface{}) interface{} {
	r.Visit(ast.Receiver, context)
	r.VisitAll(ast.Args, context)
	return nil
}

// VisitPipe visits a pipe expression
func (r *RecursiveAstVisitor) VisitPipe(ast *BindingPipe, context interface{}) interface{} {
	r.Visit(ast.Exp, context)
	r.VisitAll(ast.Args, context)
	return nil
}

// VisitPrefixNot visits a prefix not
func (r *RecursiveAstVisitor) VisitPrefixNot(ast *PrefixNot, context interface{}) interface{} {
	r.Visit(ast.Expression, context)
	return nil
}

// VisitPropertyRead visits a property read
func (r *RecursiveAstVisitor) VisitPropertyRead(ast *PropertyRead, context interface{}) interface{} {
	r.Visit(ast.Receiver, context)
	return nil
}

// VisitPropertyWrite visits a property write
func (r *RecursiveAstVisitor) VisitPropertyWrite(ast *PropertyWrite, context interface{}) interface{} {
	r.Visit(ast.Receiver, context)
	r.Visit(ast.Value, context)
	return nil
}

// VisitQuote visits a quote
func (r *RecursiveAstVisitor) VisitQuote(ast *Quote, context interface{}) interface{} {
	return nil
}

// VisitSafeMethodCall visits a safe method call
func (r *RecursiveAstVisitor) VisitSafeMethodCall(ast *SafeMethodCall, context interface{}) interface{} {
	r.Visit(ast.Receiver, context)
	r.VisitAll(ast.Args, context)
	return nil
}

// VisitSafePropertyRead visits a safe property read
func (r *RecursiveAstVisitor) VisitSafePropertyRead(ast *SafePropertyRead, context interface{}) interface{} {
	r.Visit(ast.Receiver, context)
	return nil
}

// VisitASTWithSource visits the wrapped AST
func (r *RecursiveAstVisitor) VisitASTWithSource(ast *ASTWithSource, context interface{}) interface{} {
	r.Visit(ast.AST, context)
	return nil
}

// PipeCollector records the pipes used by an expression.
type PipeCollector struct {
	*RecursiveAstVisitor
	Pipes map[string]*BindingPipe
}

// NewPipeCollector creates a new PipeCollector
func NewPipeCollector() *PipeCollector {
	c := &PipeCollector{
		RecursiveAstVisitor: NewRecursiveAstVisitor(),
		Pipes:               make(map[string]*BindingPipe),
	}
	c.SetVisitor(c)
	return c
}

// VisitPipe visits a pipe and records its name
func (c *PipeCollector) VisitPipe(ast *BindingPipe, context interface{}) interface{} {
	c.Pipes[ast.Name] = ast
	c.Visit(ast.Exp, context)
	c.VisitAll(ast.Args, context)
	return nil
}
