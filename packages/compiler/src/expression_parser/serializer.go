package expression_parser

import (
	"fmt"
	"strings"
)

// Serialize serializes the given AST into a normalized string format
func Serialize(expression *ASTWithSource) string {
	visitor := NewSerializeExpressionVisitor()
	return expression.Visit(visitor, nil).(string)
}

// SerializeExpressionVisitor is a visitor that serializes AST to string
type SerializeExpressionVisitor struct{}

// NewSerializeExpressionVisitor creates a new SerializeExpressionVisitor
func NewSerializeExpressionVisitor() *SerializeExpressionVisitor {
	return &SerializeExpressionVisitor{}
}

// VisitBinary visits a binary expression
func (s *SerializeExpressionVisitor) VisitBinary(ast *Binary, context interface{}) interface{} {
	return fmt.Sprintf("%s %s %s",
		ast.Left.Visit(s, context).(string),
		ast.Operation,
		ast.Right.Visit(s, context).(string))
}

// VisitChain visits a chain expression
func (s *SerializeExpressionVisitor) VisitChain(ast *Chain, context interface{}) interface{} {
	parts := make([]string, len(ast.Expressions))
	for i, expr := range ast.Expressions {
		parts[i] = expr.Visit(s, context).(string)
	}
	return strings.Join(parts, "; ")
}

// VisitConditional visits a conditional expression
func (s *SerializeExpressionVisitor) VisitConditional(ast *Conditional, context interface{}) interface{} {
	return fmt.Sprintf("%s ? %s : %s",
		ast.Condition.Visit(s, context).(string),
		ast.TrueExp.Visit(s, context).(string),
		ast.FalseExp.Visit(s, context).(string))
}

// VisitFunctionCall visits a function call
func (s *SerializeExpressionVisitor) VisitFunctionCall(ast *FunctionCall, context interface{}) interface{} {
	args := make([]string, len(ast.Args))
	for i, arg := range ast.Args {
		args[i] = arg.Visit(s, context).(string)
	}
	return fmt.Sprintf("%s(%s)",
		ast.Target.Visit(s, context).(string),
		strings.Join(args, ", "))
}

// VisitImplicitReceiver visits an implicit receiver
func (s *SerializeExpressionVisitor) VisitImplicitReceiver(ast *ImplicitReceiver, context interface{}) interface{} {
	return ""
}

// VisitInterpolation visits an interpolation
func (s *SerializeExpressionVisitor) VisitInterpolation(ast *Interpolation, context interface{}) interface{} {
	parts := interleave(ast.Strings, ast.Expressions, s, context)
	return strings.Join(parts, "")
}

// VisitKeyedRead visits a keyed read
func (s *SerializeExpressionVisitor) VisitKeyedRead(ast *KeyedRead, context interface{}) interface{} {
	return fmt.Sprintf("%s[%s]",
		ast.Receiver.Visit(s, context).(string),
		ast.Key.Visit(s, context).(string))
}

// VisitKeyedWrite visits a keyed write
func (s *SerializeExpressionVisitor) VisitKeyedWrite(ast *KeyedWrite, context interface{}) interface{} {
	return fmt.Sprintf("%s[%s] = %s",
		ast.Receiver.Visit(s, context).(string),
		ast.Key.Visit(s, context).(string),
		ast.Value.Visit(s, context).(string))
}

// VisitLiteralArray visits a literal array
func (s *SerializeExpressionVisitor) VisitLiteralArray(ast *LiteralArray, context interface{}) interface{} {
	parts := make([]string, len(ast.Expressions))
	for i, expr := range ast.Expressions {
		parts[i] = expr.Visit(s, context).(string)
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

// VisitLiteralMap visits a literal map
func (s *SerializeExpressionVisitor) VisitLiteralMap(ast *LiteralMap, context interface{}) interface{} {
	keys := make([]string, len(ast.Keys))
	for i, key := range ast.Keys {
		if key.Quoted {
			keys[i] = fmt.Sprintf("'%s'", key.Key)
		} else {
			keys[i] = key.Key
		}
	}
	values := make([]string, len(ast.Values))
	for i, value := range ast.Values {
		values[i] = value.Visit(s, context).(string)
	}
	pairs := zip(keys, values)
	pairStrs := make([]string, len(pairs))
	for i, pair := range pairs {
		pairStrs[i] = fmt.Sprintf("%s: %s", pair[0], pair[1])
	}
	return fmt.Sprintf("{%s}", strings.Join(pairStrs, ", "))
}

// VisitLiteralPrimitive visits a literal primitive
func (s *SerializeExpressionVisitor) VisitLiteralPrimitive(ast *LiteralPrimitive, context interface{}) interface{} {
	if ast.Value == nil {
		return "null"
	}

	switch v := ast.Value.(type) {
	case float64:
		return fmt.Sprintf("%g", v)
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case bool:
		return fmt.Sprintf("%t", v)
	case string:
		return fmt.Sprintf("'%s'", strings.ReplaceAll(v, "'", "\\'"))
	default:
		panic(fmt.Sprintf("Unsupported primitive type: %T", ast.Value))
	}
}

// VisitMethodCall visits a method call
func (s *SerializeExpressionVisitor) VisitMethodCall(ast *MethodCall, context interface{}) interface{} {
	args := make([]string, len(ast.Args))
	for i, arg := range ast.Args {
		args[i] = arg.Visit(s, context).(string)
	}
	if _, ok := ast.Receiver.(*ImplicitReceiver); ok {
		return fmt.Sprintf("%s(%s)", ast.Name, strings.Join(args, ", "))
	}
	return fmt.Sprintf("%s.%s(%s)",
		ast.Receiver.Visit(s, context).(string),
		ast.Name,
		strings.Join(args, ", "))
}

// VisitPipe visits a pipe expression
func (s *SerializeExpressionVisitor) VisitPipe(ast *BindingPipe, context interface{}) interface{} {
	result := fmt.Sprintf("%s | %s",
		ast.Exp.Visit(s, context).(string),
		ast.Name)
	for _, arg := range ast.Args {
		result += ":" + arg.Visit(s, context).(string)
	}
	return result
}

// VisitPrefixNot visits a prefix not
func (s *SerializeExpressionVisitor) VisitPrefixNot(ast *PrefixNot, context interface{}) interface{} {
	return fmt.Sprintf("!%s", ast.Expression.Visit(s, context).(string))
}

// VisitPropertyRead visits a property read
func (s *SerializeExpressionVisitor) VisitPropertyRead(ast *PropertyRead, context interface{}) interface{} {
	if _, ok := ast.Receiver.(*ImplicitReceiver); ok {
		return ast.Name
	}
	return fmt.Sprintf("%s.%s",
		ast.Receiver.Visit(s, context).(string),
		ast.Name)
}

// VisitPropertyWrite visits a property write
func (s *SerializeExpressionVisitor) VisitPropertyWrite(ast *PropertyWrite, context interface{}) interface{} {
	value := ast.Value.Visit(s, context).(string)
	if _, ok := ast.Receiver.(*ImplicitReceiver); ok {
		return fmt.Sprintf("%s = %s", ast.Name, value)
	}
	return fmt.Sprintf("%s.%s = %s",
		ast.Receiver.Visit(s, context).(string),
		ast.Name,
		value)
}

// VisitQuote visits a quote expression
func (s *SerializeExpressionVisitor) VisitQuote(ast *Quote, context interface{}) interface{} {
	return fmt.Sprintf("%s:%s", ast.Prefix, ast.UncommittedString)
}

// VisitSafeMethodCall visits a safe method call
func (s *SerializeExpressionVisitor) VisitSafeMethodCall(ast *SafeMethodCall, context interface{}) interface{} {
	args := make([]string, len(ast.Args))
	for i, arg := range ast.Args {
		args[i] = arg.Visit(s, context).(string)
	}
	return fmt.Sprintf("%s?.%s(%s)",
		ast.Receiver.Visit(s, context).(string),
		ast.Name,
		strings.Join(args, ", "))
}

// VisitSafePropertyRead visits a safe property read
func (s *SerializeExpressionVisitor) VisitSafePropertyRead(ast *SafePropertyRead, context interface{}) interface{} {
	return fmt.Sprintf("%s?.%s",
		ast.Receiver.Visit(s, context).(string),
		ast.Name)
}

// VisitASTWithSource visits an AST with source
func (s *SerializeExpressionVisitor) VisitASTWithSource(ast *ASTWithSource, context interface{}) interface{} {
	return ast.AST.Visit(s, context).(string)
}

// Visit is the default visit method
func (s *SerializeExpressionVisitor) Visit(ast AST, context interface{}) interface{} {
	return ast.Visit(s, context)
}

// zip zips the two input arrays into a single array of pairs of elements at the same index
func zip(left, right []string) [][]string {
	if len(left) != len(right) {
		panic("Array lengths must match")
	}
	result := make([][]string, len(left))
	for i := range left {
		result[i] = []string{left[i], right[i]}
	}
	return result
}

// interleave interleaves the two arrays, starting with the first item on the left, then the first item
// on the right, second item from the left, and so on
func interleave(left []string, right []AST, visitor *SerializeExpressionVisitor, context interface{}) []string {
	maxLen := len(left)
	if len(right) > maxLen {
		maxLen = len(right)
	}
	result := make([]string, 0, maxLen*2)
	for i := 0; i < maxLen; i++ {
		if i < len(left) {
			result = append(result, left[i])
		}
		if i < len(right) {
			result = append(result, right[i].Visit(visitor, context).(string))
		}
	}
	return result
}
