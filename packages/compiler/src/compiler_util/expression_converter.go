package compiler_util

import (
	"fmt"

	"ngve-go/packages/compiler/src/expression_parser"
	"ngve-go/packages/compiler/src/identifiers"
	"ngve-go/packages/compiler/src/output"
)

// ValUnwrapperVar is the shared local that pipe bindings unwrap WrappedValue
// results through. Its declaration is emitted by
// CreateSharedBindingVariablesIfNeeded once a change detection method reads it.
var ValUnwrapperVar = output.Variable("valUnwrapper", nil, nil)

// NameResolver resolves pipe invocations and template locals while an
// expression is lowered. A nil result leaves the name to normal property
// resolution on the implicit receiver.
type NameResolver interface {
	CallPipe(name string, input output.OutputExpression, args []output.OutputExpression) output.OutputExpression
	GetLocal(name string) output.OutputExpression
}

type defaultNameResolver struct{}

func (r *defaultNameResolver) CallPipe(name string, input output.OutputExpression, args []output.OutputExpression) output.OutputExpression {
	return nil
}

func (r *defaultNameResolver) GetLocal(name string) output.OutputExpression {
	return nil
}

// ConvertPropertyBindingResult holds the statements that compute the current
// value of a property binding.
type ConvertPropertyBindingResult struct {
	Stmts       []output.OutputStatement
	CurrValExpr output.OutputExpression
	ForceUpdate output.OutputExpression
}

// ConvertPropertyBinding converts the given expression AST into an executable
// output AST, assuming the expression is used in a property binding. Returns
// nil when the expression lowers to nothing (e.g. an empty expression was
// given).
func ConvertPropertyBinding(builder *ClassBuilder, nameResolver NameResolver, implicitReceiver output.OutputExpression, expression expression_parser.AST, bindingIndex int) *ConvertPropertyBindingResult {
	currValExpr := CreateCurrValueExpr(bindingIndex)
	if nameResolver == nil {
		nameResolver = &defaultNameResolver{}
	}
	visitor := newAstToIrVisitor(builder, nameResolver, implicitReceiver, ValUnwrapperVar, bindingIndex, false)
	outputExpr, _ := visitor.Visit(expression, modeExpression).(output.OutputExpression)
	if outputExpr == nil {
		return nil
	}
	stmts := []output.OutputStatement{}
	for i := 0; i < visitor.temporaryCount; i++ {
		stmts = append(stmts, temporaryDeclaration(bindingIndex, i))
	}
	if visitor.needsValueUnwrapper {
		stmts = append(stmts, output.ToStmt(output.CallMethod(ValUnwrapperVar, "reset", []output.OutputExpression{})))
	}
	stmts = append(stmts, currValExpr.ToDeclStmt(outputExpr, nil, output.StmtModifierFinal))
	if visitor.needsValueUnwrapper {
		return &ConvertPropertyBindingResult{stmts, currValExpr, output.Prop(ValUnwrapperVar, "hasWrappedValue")}
	}
	return &ConvertPropertyBindingResult{stmts, currValExpr, nil}
}

// ConvertActionBindingResult holds the statements of a lowered event handler.
type ConvertActionBindingResult struct {
	Stmts             []output.OutputStatement
	PreventDefaultVar *output.ReadVarExpr
}

// ConvertActionBinding converts the given expression AST into an executable
// output AST, assuming the expression is used in an action binding (e.g. an
// event handler).
func ConvertActionBinding(builder *ClassBuilder, nameResolver NameResolver, implicitReceiver output.OutputExpression, action expression_parser.AST, bindingIndex int) *ConvertActionBindingResult {
	if nameResolver == nil {
		nameResolver = &defaultNameResolver{}
	}
	visitor := newAstToIrVisitor(builder, nameResolver, implicitReceiver, nil, bindingIndex, true)
	actionStmts := []output.OutputStatement{}
	flattenStatements(visitor.Visit(action, modeStatement), &actionStmts)
	prependTemporaryDecls(visitor.temporaryCount, bindingIndex, &actionStmts)
	lastIndex := len(actionStmts) - 1
	var preventDefaultVar *output.ReadVarExpr
	if lastIndex >= 0 {
		returnExpr := convertStmtIntoExpression(actionStmts[lastIndex])
		if returnExpr != nil {
			// Note: We need to cast the result of the method call to dynamic,
			// as it might be a void method!
			preventDefaultVar = createPreventDefaultVar(bindingIndex)
			actionStmts[lastIndex] = preventDefaultVar.ToDeclStmt(
				output.NotIdentical(output.Cast(returnExpr, output.DynamicType), output.Literal(false, nil, nil)),
				nil, output.StmtModifierFinal)
		}
	}
	return &ConvertActionBindingResult{actionStmts, preventDefaultVar}
}

// CreateSharedBindingVariablesIfNeeded declares the variables that are shared
// by multiple calls to ConvertPropertyBinding, currently the valUnwrapper.
func CreateSharedBindingVariablesIfNeeded(stmts []output.OutputStatement) []output.OutputStatement {
	unwrapperStmts := []output.OutputStatement{}
	readVars := output.FindReadVarNames(stmts)
	if readVars[ValUnwrapperVar.Name] {
		unwrapperStmts = append(unwrapperStmts, ValUnwrapperVar.ToDeclStmt(
			output.InstantiateCls(output.ImportExpr(identifiers.ValueUnwrapper, nil, nil), []output.OutputExpression{}, nil),
			nil, output.StmtModifierFinal))
	}
	return unwrapperStmts
}

// CreateCurrValueExpr returns the local that holds the freshly computed value
// of a binding.
func CreateCurrValueExpr(bindingIndex int) *output.ReadVarExpr {
	return output.Variable(fmt.Sprintf("currVal_%d", bindingIndex), nil, nil)
}

func createPreventDefaultVar(bindingIndex int) *output.ReadVarExpr {
	return output.Variable(fmt.Sprintf("preventDefault_%d", bindingIndex), nil, nil)
}

func temporaryName(bindingIndex, temporaryNumber int) string {
	return fmt.Sprintf("tmp_%d_%d", bindingIndex, temporaryNumber)
}

func temporaryDeclaration(bindingIndex, temporaryNumber int) output.OutputStatement {
	return output.NewDeclareVarStmt(temporaryName(bindingIndex, temporaryNumber), output.NullExpr, nil, output.StmtModifierNone, nil, nil)
}

func prependTemporaryDecls(temporaryCount, bindingIndex int, statements *[]output.OutputStatement) {
	for i := temporaryCount - 1; i >= 0; i-- {
		*statements = append([]output.OutputStatement{temporaryDeclaration(bindingIndex, i)}, *statements...)
	}
}

type conversionMode int

const (
	modeStatement conversionMode = iota
	modeExpression
)

func ensureStatementMode(mode conversionMode, ast expression_parser.AST) {
	if mode != modeStatement {
		panic(fmt.Sprintf("Expected a statement, but saw %v", ast))
	}
}

func ensureExpressionMode(mode conversionMode, ast expression_parser.AST) {
	if mode != modeExpression {
		panic(fmt.Sprintf("Expected an expression, but saw %v", ast))
	}
}

func convertToStatementIfNeeded(mode conversionMode, expr output.OutputExpression) interface{} {
	if mode == modeStatement {
		return output.ToStmt(expr)
	}
	return expr
}

func flattenStatements(arg interface{}, statements *[]output.OutputStatement) {
	switch v := arg.(type) {
	case []interface{}:
		for _, entry := range v {
			flattenStatements(entry, statements)
		}
	case output.OutputStatement:
		*statements = append(*statements, v)
	}
}

func convertStmtIntoExpression(stmt output.OutputStatement) output.OutputExpression {
	switch s := stmt.(type) {
	case *output.ExpressionStatement:
		return s.Expr
	case *output.ReturnStatement:
		return s.Value
	}
	return nil
}

type astToIrVisitor struct {
	builder          *ClassBuilder
	nameResolver     NameResolver
	implicitReceiver output.OutputExpression
	valUnwrapper     *output.ReadVarExpr
	bindingIndex     int
	isAction         bool

	needsValueUnwrapper bool
	temporaryCount      int
	currentTemporary    int

	// nodeMap maps safe navigation nodes onto their unguarded alternatives
	// while the guarding conditional is built.
	nodeMap map[expression_parser.AST]expression_parser.AST
	// resultMap maps receiver nodes onto the temporaries caching their value.
	resultMap map[expression_parser.AST]output.OutputExpression
}

func newAstToIrVisitor(builder *ClassBuilder, nameResolver NameResolver, implicitReceiver output.OutputExpression, valUnwrapper *output.ReadVarExpr, bindingIndex int, isAction bool) *astToIrVisitor {
	return &astToIrVisitor{
		builder:          builder,
		nameResolver:     nameResolver,
		implicitReceiver: implicitReceiver,
		valUnwrapper:     valUnwrapper,
		bindingIndex:     bindingIndex,
		isAction:         isAction,
		nodeMap:          make(map[expression_parser.AST]expression_parser.AST),
		resultMap:        make(map[expression_parser.AST]output.OutputExpression),
	}
}

// Visit routes through the result and node maps so safe navigation rewrites
// take effect on the way down.
func (v *astToIrVisitor) Visit(ast expression_parser.AST, context interface{}) interface{} {
	if result, ok := v.resultMap[ast]; ok {
		return result
	}
	if mapped, ok := v.nodeMap[ast]; ok {
		ast = mapped
	}
	return ast.Visit(v, context)
}

func (v *astToIrVisitor) visitExpr(ast expression_parser.AST, mode conversionMode) output.OutputExpression {
	result, _ := v.Visit(ast, mode).(output.OutputExpression)
	return result
}

func (v *astToIrVisitor) visitAllExprs(asts []expression_parser.AST, mode conversionMode) []output.OutputExpression {
	exprs := make([]output.OutputExpression, len(asts))
	for i, ast := range asts {
		exprs[i] = v.visitExpr(ast, mode)
	}
	return exprs
}

func (v *astToIrVisitor) visitAll(asts []expression_parser.AST, mode conversionMode) []interface{} {
	results := make([]interface{}, len(asts))
	for i, ast := range asts {
		results[i] = v.Visit(ast, mode)
	}
	return results
}

func (v *astToIrVisitor) VisitASTWithSource(ast *expression_parser.ASTWithSource, context interface{}) interface{} {
	return v.Visit(ast.AST, context)
}

func (v *astToIrVisitor) VisitBinary(ast *expression_parser.Binary, context interface{}) interface{} {
	mode := context.(conversionMode)
	var op output.BinaryOperator
	switch ast.Operation {
	case "+":
		op = output.BinaryOperatorPlus
	case "-":
		op = output.BinaryOperatorMinus
	case "*":
		op = output.BinaryOperatorMultiply
	case "/":
		op = output.BinaryOperatorDivide
	case "%":
		op = output.BinaryOperatorModulo
	case "&&":
		op = output.BinaryOperatorAnd
	case "||":
		op = output.BinaryOperatorOr
	case "==":
		op = output.BinaryOperatorEquals
	case "!=":
		op = output.BinaryOperatorNotEquals
	case "===":
		op = output.BinaryOperatorIdentical
	case "!==":
		op = output.BinaryOperatorNotIdentical
	case "<":
		op = output.BinaryOperatorLower
	case ">":
		op = output.BinaryOperatorBigger
	case "<=":
		op = output.BinaryOperatorLowerEquals
	case ">=":
		op = output.BinaryOperatorBiggerEquals
	default:
		panic(fmt.Sprintf("Unsupported operation %s", ast.Operation))
	}
	return convertToStatementIfNeeded(mode, output.NewBinaryOperatorExpr(
		op, v.visitExpr(ast.Left, modeExpression), v.visitExpr(ast.Right, modeExpression), nil, nil))
}

func (v *astToIrVisitor) VisitChain(ast *expression_parser.Chain, context interface{}) interface{} {
	mode := context.(conversionMode)
	ensureStatementMode(mode, ast)
	return v.visitAll(ast.Expressions, mode)
}

func (v *astToIrVisitor) VisitConditional(ast *expression_parser.Conditional, context interface{}) interface{} {
	mode := context.(conversionMode)
	value := v.visitExpr(ast.Condition, modeExpression)
	return convertToStatementIfNeeded(mode, output.Conditional(
		value, v.visitExpr(ast.TrueExp, modeExpression), v.visitExpr(ast.FalseExp, modeExpression)))
}

func (v *astToIrVisitor) VisitPipe(ast *expression_parser.BindingPipe, context interface{}) interface{} {
	mode := context.(conversionMode)
	input := v.visitExpr(ast.Exp, modeExpression)
	args := v.visitAllExprs(ast.Args, modeExpression)
	value := v.nameResolver.CallPipe(ast.Name, input, args)
	if value == nil {
		panic(fmt.Sprintf("Illegal state: Pipe %s is not allowed here!", ast.Name))
	}
	v.needsValueUnwrapper = true
	return convertToStatementIfNeeded(mode, output.CallMethod(v.valUnwrapper, "unwrap", []output.OutputExpression{value}))
}

func (v *astToIrVisitor) VisitFunctionCall(ast *expression_parser.FunctionCall, context interface{}) interface{} {
	mode := context.(conversionMode)
	return convertToStatementIfNeeded(mode, output.CallFn(
		v.visitExpr(ast.Target, modeExpression), v.visitAllExprs(ast.Args, modeExpression)))
}

func (v *astToIrVisitor) VisitImplicitReceiver(ast *expression_parser.ImplicitReceiver, context interface{}) interface{} {
	mode := context.(conversionMode)
	ensureExpressionMode(mode, ast)
	return v.implicitReceiver
}

// VisitInterpolation lowers the interpolation to an interpolate call of the
// form interpolate(numberOfExpressions, strings_and_expressions...).
func (v *astToIrVisitor) VisitInterpolation(ast *expression_parser.Interpolation, context interface{}) interface{} {
	mode := context.(conversionMode)
	ensureExpressionMode(mode, ast)
	args := []output.OutputExpression{output.Literal(len(ast.Expressions), nil, nil)}
	for i := 0; i < len(ast.Strings)-1; i++ {
		args = append(args, output.Literal(ast.Strings[i], nil, nil))
		args = append(args, v.visitExpr(ast.Expressions[i], modeExpression))
	}
	args = append(args, output.Literal(ast.Strings[len(ast.Strings)-1], nil, nil))
	return output.CallFn(output.ImportExpr(identifiers.Interpolate, nil, nil), args)
}

func (v *astToIrVisitor) VisitKeyedRead(ast *expression_parser.KeyedRead, context interface{}) interface{} {
	mode := context.(conversionMode)
	leftMostSafe := v.leftMostSafeNode(ast)
	if leftMostSafe != nil {
		return v.convertSafeAccess(ast, leftMostSafe, mode)
	}
	return convertToStatementIfNeeded(mode, output.Key(
		v.visitExpr(ast.Receiver, modeExpression), v.visitExpr(ast.Key, modeExpression)))
}

func (v *astToIrVisitor) VisitKeyedWrite(ast *expression_parser.KeyedWrite, context interface{}) interface{} {
	mode := context.(conversionMode)
	obj := v.visitExpr(ast.Receiver, modeExpression)
	key := v.visitExpr(ast.Key, modeExpression)
	value := v.visitExpr(ast.Value, modeExpression)
	return convertToStatementIfNeeded(mode, output.Key(obj, key).Set(value))
}

func (v *astToIrVisitor) VisitLiteralArray(ast *expression_parser.LiteralArray, context interface{}) interface{} {
	mode := context.(conversionMode)
	parts := v.visitAllExprs(ast.Expressions, modeExpression)
	var literalArr output.OutputExpression
	if v.isAction {
		literalArr = output.LiteralArr(parts, nil, nil)
	} else {
		literalArr = createCachedLiteralArray(v.builder, parts)
	}
	return convertToStatementIfNeeded(mode, literalArr)
}

func (v *astToIrVisitor) VisitLiteralMap(ast *expression_parser.LiteralMap, context interface{}) interface{} {
	mode := context.(conversionMode)
	parts := make([]*output.LiteralMapEntry, len(ast.Values))
	for i, value := range ast.Values {
		parts[i] = output.NewLiteralMapEntry(ast.Keys[i].Key, v.visitExpr(value, modeExpression), ast.Keys[i].Quoted)
	}
	var literalMap output.OutputExpression
	if v.isAction {
		literalMap = output.LiteralMap(parts, nil)
	} else {
		literalMap = createCachedLiteralMap(v.builder, parts)
	}
	return convertToStatementIfNeeded(mode, literalMap)
}

func (v *astToIrVisitor) VisitLiteralPrimitive(ast *expression_parser.LiteralPrimitive, context interface{}) interface{} {
	mode := context.(conversionMode)
	return convertToStatementIfNeeded(mode, output.Literal(ast.Value, nil, nil))
}

func (v *astToIrVisitor) VisitMethodCall(ast *expression_parser.MethodCall, context interface{}) interface{} {
	mode := context.(conversionMode)
	leftMostSafe := v.leftMostSafeNode(ast)
	if leftMostSafe != nil {
		return v.convertSafeAccess(ast, leftMostSafe, mode)
	}
	args := v.visitAllExprs(ast.Args, modeExpression)
	var result output.OutputExpression
	receiver := v.visitExpr(ast.Receiver, modeExpression)
	if receiver == v.implicitReceiver {
		if varExpr := v.nameResolver.GetLocal(ast.Name); varExpr != nil {
			result = output.CallFn(varExpr, args)
		}
	}
	if result == nil {
		result = output.CallMethod(receiver, ast.Name, args)
	}
	return convertToStatementIfNeeded(mode, result)
}

func (v *astToIrVisitor) VisitPrefixNot(ast *expression_parser.PrefixNot, context interface{}) interface{} {
	mode := context.(conversionMode)
	return convertToStatementIfNeeded(mode, output.Not(v.visitExpr(ast.Expression, modeExpression), nil))
}

func (v *astToIrVisitor) VisitPropertyRead(ast *expression_parser.PropertyRead, context interface{}) interface{} {
	mode := context.(conversionMode)
	leftMostSafe := v.leftMostSafeNode(ast)
	if leftMostSafe != nil {
		return v.convertSafeAccess(ast, leftMostSafe, mode)
	}
	var result output.OutputExpression
	receiver := v.visitExpr(ast.Receiver, modeExpression)
	if receiver == v.implicitReceiver {
		result = v.nameResolver.GetLocal(ast.Name)
	}
	if result == nil {
		result = output.Prop(receiver, ast.Name)
	}
	return convertToStatementIfNeeded(mode, result)
}

func (v *astToIrVisitor) VisitPropertyWrite(ast *expression_parser.PropertyWrite, context interface{}) interface{} {
	mode := context.(conversionMode)
	receiver := v.visitExpr(ast.Receiver, modeExpression)
	if receiver == v.implicitReceiver {
		if v.nameResolver.GetLocal(ast.Name) != nil {
			panic("Cannot assign to a reference or variable!")
		}
	}
	return convertToStatementIfNeeded(mode, output.Prop(receiver, ast.Name).Set(v.visitExpr(ast.Value, modeExpression)))
}

func (v *astToIrVisitor) VisitQuote(ast *expression_parser.Quote, context interface{}) interface{} {
	panic("Quotes are not supported for evaluation!")
}

func (v *astToIrVisitor) VisitSafeMethodCall(ast *expression_parser.SafeMethodCall, context interface{}) interface{} {
	mode := context.(conversionMode)
	return v.convertSafeAccess(ast, v.leftMostSafeNode(ast), mode)
}

func (v *astToIrVisitor) VisitSafePropertyRead(ast *expression_parser.SafePropertyRead, context interface{}) interface{} {
	mode := context.(conversionMode)
	return v.convertSafeAccess(ast, v.leftMostSafeNode(ast), mode)
}

// convertSafeAccess converts an expression with a safe access node on its left
// into a conditional that guards the member access by checking the receiver
// for blank. Member access is left associative, so the right side of the
// expression sits at the top of the AST: a copy of the left part is lifted up
// and tested before the unguarded version runs.
func (v *astToIrVisitor) convertSafeAccess(ast expression_parser.AST, leftMostSafe expression_parser.AST, mode conversionMode) interface{} {
	var receiver expression_parser.AST
	switch n := leftMostSafe.(type) {
	case *expression_parser.SafeMethodCall:
		receiver = n.Receiver
	case *expression_parser.SafePropertyRead:
		receiver = n.Receiver
	}

	guardedExpression := v.visitExpr(receiver, modeExpression)
	var temporary *output.ReadVarExpr
	if v.needsTemporary(receiver) {
		// If the receiver has method calls or pipes, its result is kept in a
		// temporary so stateful or impure code does not run more than once.
		temporary = v.allocateTemporary()
		guardedExpression = temporary.Set(guardedExpression)
		v.resultMap[receiver] = temporary
	}
	condition := output.IsBlank(guardedExpression)

	// Substitute the safe node with its unguarded version for the recursive
	// conversion below.
	switch n := leftMostSafe.(type) {
	case *expression_parser.SafeMethodCall:
		v.nodeMap[n] = expression_parser.NewMethodCall(n.Span(), n.SourceSpan(), n.NameSpan(), n.Receiver, n.Name, n.Args)
	case *expression_parser.SafePropertyRead:
		v.nodeMap[n] = expression_parser.NewPropertyRead(n.Span(), n.SourceSpan(), n.NameSpan(), n.Receiver, n.Name)
	}

	access := v.visitExpr(ast, modeExpression)
	delete(v.nodeMap, leftMostSafe)
	if temporary != nil {
		v.releaseTemporary(temporary)
	}
	return convertToStatementIfNeeded(mode, output.Conditional(condition, output.NullExpr, access))
}

// leftMostSafeNode returns the left most safe navigation node of ast,
// or nil when ast contains no unguarded safe access.
func (v *astToIrVisitor) leftMostSafeNode(ast expression_parser.AST) expression_parser.AST {
	var search func(ast expression_parser.AST) expression_parser.AST
	search = func(ast expression_parser.AST) expression_parser.AST {
		if mapped, ok := v.nodeMap[ast]; ok {
			ast = mapped
		}
		switch n := ast.(type) {
		case *expression_parser.ASTWithSource:
			return search(n.AST)
		case *expression_parser.KeyedRead:
			return search(n.Receiver)
		case *expression_parser.MethodCall:
			return search(n.Receiver)
		case *expression_parser.PropertyRead:
			return search(n.Receiver)
		case *expression_parser.SafeMethodCall:
			if result := search(n.Receiver); result != nil {
				return result
			}
			return n
		case *expression_parser.SafePropertyRead:
			if result := search(n.Receiver); result != nil {
				return result
			}
			return n
		}
		return nil
	}
	return search(ast)
}

// needsTemporary reports whether ast includes a method call, function call or
// pipe whose result must not be computed twice.
func (v *astToIrVisitor) needsTemporary(ast expression_parser.AST) bool {
	var check func(ast expression_parser.AST) bool
	checkSome := func(asts []expression_parser.AST) bool {
		for _, entry := range asts {
			if check(entry) {
				return true
			}
		}
		return false
	}
	check = func(ast expression_parser.AST) bool {
		if ast == nil {
			return false
		}
		if mapped, ok := v.nodeMap[ast]; ok {
			ast = mapped
		}
		switch n := ast.(type) {
		case *expression_parser.ASTWithSource:
			return check(n.AST)
		case *expression_parser.Binary:
			return check(n.Left) || check(n.Right)
		case *expression_parser.Conditional:
			return check(n.Condition) || check(n.TrueExp) || check(n.FalseExp)
		case *expression_parser.FunctionCall:
			return true
		case *expression_parser.Interpolation:
			return checkSome(n.Expressions)
		case *expression_parser.LiteralArray:
			return true
		case *expression_parser.LiteralMap:
			return true
		case *expression_parser.MethodCall:
			return true
		case *expression_parser.BindingPipe:
			return true
		case *expression_parser.PrefixNot:
			return check(n.Expression)
		case *expression_parser.SafeMethodCall:
			return true
		}
		return false
	}
	return check(ast)
}

func (v *astToIrVisitor) allocateTemporary() *output.ReadVarExpr {
	tempNumber := v.currentTemporary
	v.currentTemporary++
	if v.currentTemporary > v.temporaryCount {
		v.temporaryCount = v.currentTemporary
	}
	return output.Variable(temporaryName(v.bindingIndex, tempNumber), nil, nil)
}

func (v *astToIrVisitor) releaseTemporary(temporary *output.ReadVarExpr) {
	v.currentTemporary--
	if temporary.Name != temporaryName(v.bindingIndex, v.currentTemporary) {
		panic(fmt.Sprintf("Temporary %s released out of order", temporary.Name))
	}
}

func createCachedLiteralArray(builder *ClassBuilder, values []output.OutputExpression) output.OutputExpression {
	if len(values) == 0 {
		return output.ImportExpr(identifiers.EMPTY_ARRAY, nil, nil)
	}
	proxyExpr := output.Prop(output.ThisExpr, fmt.Sprintf("_arr_%d", len(builder.Fields)))
	proxyParams := []*output.FnParam{}
	proxyReturnEntries := []output.OutputExpression{}
	for i := range values {
		paramName := fmt.Sprintf("p%d", i)
		proxyParams = append(proxyParams, output.NewFnParam(paramName, nil))
		proxyReturnEntries = append(proxyReturnEntries, output.Variable(paramName, nil, nil))
	}
	createPureProxy(
		output.Fn(proxyParams, []output.OutputStatement{
			output.NewReturnStatement(output.LiteralArr(proxyReturnEntries, nil, nil), nil, nil),
		}, nil, nil),
		len(values), proxyExpr, builder)
	return output.CallFn(proxyExpr, values)
}

func createCachedLiteralMap(builder *ClassBuilder, entries []*output.LiteralMapEntry) output.OutputExpression {
	if len(entries) == 0 {
		return output.ImportExpr(identifiers.EMPTY_MAP, nil, nil)
	}
	proxyExpr := output.Prop(output.ThisExpr, fmt.Sprintf("_map_%d", len(builder.Fields)))
	proxyParams := []*output.FnParam{}
	proxyReturnEntries := []*output.LiteralMapEntry{}
	values := []output.OutputExpression{}
	for i, entry := range entries {
		paramName := fmt.Sprintf("p%d", i)
		proxyParams = append(proxyParams, output.NewFnParam(paramName, nil))
		proxyReturnEntries = append(proxyReturnEntries, output.NewLiteralMapEntry(entry.Key, output.Variable(paramName, nil, nil), entry.Quoted))
		values = append(values, entry.Value)
	}
	createPureProxy(
		output.Fn(proxyParams, []output.OutputStatement{
			output.NewReturnStatement(output.LiteralMap(proxyReturnEntries, nil), nil, nil),
		}, nil, nil),
		len(entries), proxyExpr, builder)
	return output.CallFn(proxyExpr, values)
}

// createPureProxy caches fn on a class field behind a pureProxy wrapper so a
// pure result is only recomputed when one of its arguments changes.
func createPureProxy(fn output.OutputExpression, argCount int, pureProxyProp *output.ReadPropExpr, builder *ClassBuilder) {
	builder.Fields = append(builder.Fields, output.NewClassField(pureProxyProp.Name, nil, output.StmtModifierNone))
	if argCount >= len(identifiers.PureProxies) || identifiers.PureProxies[argCount] == nil {
		panic(fmt.Sprintf("Unsupported number of argument for pure functions: %d", argCount))
	}
	builder.CtorStmts = append(builder.CtorStmts, output.ToStmt(
		output.Prop(output.ThisExpr, pureProxyProp.Name).
			Set(output.CallFn(output.ImportExpr(identifiers.PureProxies[argCount], nil, nil), []output.OutputExpression{fn}))))
}
