package template_parser

import (
	"fmt"
	"sort"
	"strings"

	"ngve-go/packages/compiler/core"
	"ngve-go/packages/compiler/src/compile_metadata"
	"ngve-go/packages/compiler/src/expression_parser"
	"ngve-go/packages/compiler/src/schema"
	"ngve-go/packages/compiler/src/util"
)

const PROPERTY_PARTS_SEPARATOR = "."
const ATTRIBUTE_PREFIX = "attr"
const CLASS_PREFIX = "class"
const STYLE_PREFIX = "style"
const TEMPLATE_ATTR_PREFIX = "*"
const ANIMATE_PROP_PREFIX = "animate-"

// BoundPropertyType describes what kind of property a BoundProperty is
type BoundPropertyType int

const (
	BoundPropertyTypeDefault BoundPropertyType = iota
	BoundPropertyTypeLiteralAttr
	BoundPropertyTypeAnimation
)

// BoundProperty is a parsed property binding that has not yet been classified
// against an element
type BoundProperty struct {
	Name       string
	Expression *expression_parser.ASTWithSource
	Type       BoundPropertyType
	SourceSpan *util.ParseSourceSpan
}

// NewBoundProperty creates a new BoundProperty
func NewBoundProperty(name string, expression *expression_parser.ASTWithSource, typ BoundPropertyType, sourceSpan *util.ParseSourceSpan) *BoundProperty {
	return &BoundProperty{Name: name, Expression: expression, Type: typ, SourceSpan: sourceSpan}
}

// IsLiteral reports whether the property is a literal attribute
func (bp *BoundProperty) IsLiteral() bool { return bp.Type == BoundPropertyTypeLiteralAttr }

// IsAnimation reports whether the property targets an animation trigger
func (bp *BoundProperty) IsAnimation() bool { return bp.Type == BoundPropertyTypeAnimation }

// BindingParser parses bindings in templates and in the directive host area
type BindingParser struct {
	exprParser     *expression_parser.Parser
	schemaRegistry schema.ElementSchemaRegistry
	PipesByName    map[string]*compile_metadata.CompilePipeMetadata
	Errors         []*util.ParseError
}

// NewBindingParser creates a new BindingParser
func NewBindingParser(
	exprParser *expression_parser.Parser,
	schemaRegistry schema.ElementSchemaRegistry,
	pipes []*compile_metadata.CompilePipeMetadata,
) *BindingParser {
	pipesByName := make(map[string]*compile_metadata.CompilePipeMetadata)
	for _, pipe := range pipes {
		pipesByName[pipe.Name] = pipe
	}
	return &BindingParser{
		exprParser:     exprParser,
		schemaRegistry: schemaRegistry,
		PipesByName:    pipesByName,
		Errors:         []*util.ParseError{},
	}
}

// CreateDirectiveHostPropertyAsts creates the bound element properties for the
// host bindings of a directive sitting on the given element. Host bindings are
// processed in name order so the resulting binding registration is stable.
func (bp *BindingParser) CreateDirectiveHostPropertyAsts(
	dirMeta *compile_metadata.CompileDirectiveMetadata,
	elementName string,
	sourceSpan *util.ParseSourceSpan,
) []*BoundElementPropertyAst {
	if len(dirMeta.HostProperties) == 0 {
		return nil
	}
	boundProps := []*BoundProperty{}
	for _, propName := range sortedKeys(dirMeta.HostProperties) {
		bp.ParsePropertyBinding(propName, dirMeta.HostProperties[propName], true, sourceSpan, &boundProps)
	}
	targetPropertyAsts := []*BoundElementPropertyAst{}
	for _, prop := range boundProps {
		if propAst := bp.CreateElementPropertyAst(elementName, prop); propAst != nil {
			targetPropertyAsts = append(targetPropertyAsts, propAst)
		}
	}
	return targetPropertyAsts
}

// CreateDirectiveHostEventAsts creates the bound events for the host listeners
// of a directive
func (bp *BindingParser) CreateDirectiveHostEventAsts(
	dirMeta *compile_metadata.CompileDirectiveMetadata,
	sourceSpan *util.ParseSourceSpan,
) []*BoundEventAst {
	if len(dirMeta.HostListeners) == 0 {
		return nil
	}
	targetEventAsts := []*BoundEventAst{}
	for _, propName := range sortedKeys(dirMeta.HostListeners) {
		bp.ParseEvent(propName, dirMeta.HostListeners[propName], sourceSpan, &targetEventAsts)
	}
	return targetEventAsts
}

// ParseInterpolation parses an interpolation expression, returning nil when
// the value contains no interpolation
func (bp *BindingParser) ParseInterpolation(value string, sourceSpan *util.ParseSourceSpan) *expression_parser.ASTWithSource {
	ast := bp.exprParser.ParseInterpolation(value, sourceSpan, spanOffset(sourceSpan))
	if ast == nil {
		return nil
	}
	bp.reportExpressionParserErrors(ast.Errors, sourceSpan)
	bp.checkPipes(ast, sourceSpan)
	return ast
}

// ParseInlineTemplateBinding parses the bindings in a microsyntax expression
// (e.g. the value of `*ngFor`) into properties and template variables.
// absoluteValueOffset is the offset of the microsyntax value within the file.
func (bp *BindingParser) ParseInlineTemplateBinding(
	tplKey string,
	tplValue string,
	sourceSpan *util.ParseSourceSpan,
	absoluteValueOffset int,
	targetProps *[]*BoundProperty,
	targetVars *[]*VariableAst,
) {
	absoluteKeyOffset := spanOffset(sourceSpan) + len(TEMPLATE_ATTR_PREFIX)
	bindings := bp.parseTemplateBindings(tplKey, tplValue, sourceSpan, absoluteKeyOffset, absoluteValueOffset)

	for _, binding := range bindings {
		switch b := binding.(type) {
		case *expression_parser.VariableBinding:
			value := "$implicit"
			if b.Value != nil {
				value = b.Value.Source
			}
			*targetVars = append(*targetVars, NewVariableAst(b.Key.Source, value, sourceSpan))
		case *expression_parser.ExpressionBinding:
			if b.Value != nil {
				bp.checkPipes(b.Value, sourceSpan)
				bp.parsePropertyAst(b.Key.Source, b.Value, sourceSpan, targetProps)
			} else {
				bp.ParseLiteralAttr(b.Key.Source, nil, sourceSpan, targetProps)
			}
		}
	}
}

func (bp *BindingParser) parseTemplateBindings(
	tplKey string,
	tplValue string,
	sourceSpan *util.ParseSourceSpan,
	absoluteKeyOffset int,
	absoluteValueOffset int,
) []expression_parser.TemplateBinding {
	bindingsResult := bp.exprParser.ParseTemplateBindings(tplKey, tplValue, sourceSpan, absoluteKeyOffset, absoluteValueOffset)
	bp.reportExpressionParserErrors(bindingsResult.Errors, sourceSpan)
	for _, warning := range bindingsResult.Warnings {
		bp.reportError(warning, sourceSpan, util.ParseErrorLevelWarning)
	}
	return bindingsResult.TemplateBindings
}

// ParseLiteralAttr records a literal (unbound) attribute. A `@trigger`
// attribute without a value is a valid animation binding; pairing it with a
// value is an error.
func (bp *BindingParser) ParseLiteralAttr(
	name string,
	value *string,
	sourceSpan *util.ParseSourceSpan,
	targetProps *[]*BoundProperty,
) {
	if isAnimationLabel(name) {
		name = name[1:]
		if value != nil && *value != "" {
			bp.reportError(
				`Assigning animation triggers via @prop="exp" attributes with an expression is invalid. Use property bindings (e.g. [@prop]="exp") or use an attribute without a value (e.g. @prop) instead.`,
				sourceSpan,
				util.ParseErrorLevelError,
			)
		}
		bp.parseAnimation(name, value, sourceSpan, targetProps)
	} else {
		*targetProps = append(*targetProps, NewBoundProperty(
			name,
			bp.exprParser.WrapLiteralPrimitive(value, sourceSpan, spanOffset(sourceSpan)),
			BoundPropertyTypeLiteralAttr,
			sourceSpan,
		))
	}
}

// ParsePropertyBinding parses a property binding of the form
// `[prop]`, `[attr.name]`, `[class.name]`, `[style.prop.unit]` or `[@trigger]`
func (bp *BindingParser) ParsePropertyBinding(
	name string,
	expression string,
	isHost bool,
	sourceSpan *util.ParseSourceSpan,
	targetProps *[]*BoundProperty,
) {
	isAnimationProp := false
	if isAnimationLabel(name) {
		isAnimationProp = true
		name = name[1:]
	} else if strings.HasPrefix(name, ANIMATE_PROP_PREFIX) {
		isAnimationProp = true
		name = name[len(ANIMATE_PROP_PREFIX):]
	}

	if isAnimationProp {
		bp.parseAnimation(name, &expression, sourceSpan, targetProps)
	} else {
		bp.parsePropertyAst(name, bp.parseBinding(expression, isHost, sourceSpan), sourceSpan, targetProps)
	}
}

// ParsePropertyInterpolation parses a property bound through an interpolated
// attribute value; returns false when the value carries no interpolation
func (bp *BindingParser) ParsePropertyInterpolation(
	name string,
	value string,
	sourceSpan *util.ParseSourceSpan,
	targetProps *[]*BoundProperty,
) bool {
	expr := bp.ParseInterpolation(value, sourceSpan)
	if expr == nil {
		return false
	}
	bp.parsePropertyAst(name, expr, sourceSpan, targetProps)
	return true
}

func (bp *BindingParser) parsePropertyAst(
	name string,
	ast *expression_parser.ASTWithSource,
	sourceSpan *util.ParseSourceSpan,
	targetProps *[]*BoundProperty,
) {
	*targetProps = append(*targetProps, NewBoundProperty(name, ast, BoundPropertyTypeDefault, sourceSpan))
}

func (bp *BindingParser) parseAnimation(
	name string,
	expression *string,
	sourceSpan *util.ParseSourceSpan,
	targetProps *[]*BoundProperty,
) {
	if name == "" {
		bp.reportError("Animation trigger is missing", sourceSpan, util.ParseErrorLevelError)
	}
	// This will occur when a @trigger is not paired with an expression.
	// For animations it is valid to not have an expression since */void
	// states will be applied by angular when the element is attached/detached
	exprValue := "null"
	if expression != nil && *expression != "" {
		exprValue = *expression
	}
	ast := bp.parseBinding(exprValue, false, sourceSpan)
	*targetProps = append(*targetProps, NewBoundProperty(name, ast, BoundPropertyTypeAnimation, sourceSpan))
}

func (bp *BindingParser) parseBinding(value string, isHostBinding bool, sourceSpan *util.ParseSourceSpan) *expression_parser.ASTWithSource {
	var ast *expression_parser.ASTWithSource
	if isHostBinding {
		ast = bp.exprParser.ParseSimpleBinding(value, sourceSpan, spanOffset(sourceSpan))
	} else {
		ast = bp.exprParser.ParseBinding(value, sourceSpan, spanOffset(sourceSpan))
	}
	bp.reportExpressionParserErrors(ast.Errors, sourceSpan)
	bp.checkPipes(ast, sourceSpan)
	return ast
}

// CreateElementPropertyAst classifies a parsed property against an element:
// animation triggers, `attr.`/`class.`/`style.` prefixes, falling back to a
// renderer property. The security context is resolved through the schema
// registry. Returns nil after reporting an error for an invalid name.
func (bp *BindingParser) CreateElementPropertyAst(elementName string, boundProp *BoundProperty) *BoundElementPropertyAst {
	if boundProp.IsAnimation() {
		return NewBoundElementPropertyAst(
			boundProp.Name,
			PropertyBindingTypeAnimation,
			core.SecurityContextNONE,
			boundProp.Expression,
			"",
			boundProp.SourceSpan,
		)
	}

	unit := ""
	var bindingType PropertyBindingType
	var boundPropertyName string
	var securityContext core.SecurityContext
	parts := strings.Split(boundProp.Name, PROPERTY_PARTS_SEPARATOR)

	if len(parts) == 1 {
		boundPropertyName = bp.schemaRegistry.GetMappedPropName(parts[0])
		securityContext = bp.schemaRegistry.SecurityContext(elementName, boundPropertyName, false)
		bindingType = PropertyBindingTypeProperty
		bp.validatePropertyOrAttributeName(boundPropertyName, boundProp.SourceSpan, false)
	} else {
		if parts[0] == ATTRIBUTE_PREFIX {
			boundPropertyName = strings.Join(parts[1:], PROPERTY_PARTS_SEPARATOR)
			bp.validatePropertyOrAttributeName(boundPropertyName, boundProp.SourceSpan, true)
			securityContext = bp.schemaRegistry.SecurityContext(elementName, boundPropertyName, true)

			if nsSeparatorIdx := strings.Index(boundPropertyName, ":"); nsSeparatorIdx > -1 {
				ns := boundPropertyName[:nsSeparatorIdx]
				name := boundPropertyName[nsSeparatorIdx+1:]
				boundPropertyName = mergeNsAndName(ns, name)
			}

			bindingType = PropertyBindingTypeAttribute
		} else if parts[0] == CLASS_PREFIX {
			boundPropertyName = parts[1]
			bindingType = PropertyBindingTypeClass
			securityContext = core.SecurityContextNONE
		} else if parts[0] == STYLE_PREFIX {
			if len(parts) > 2 {
				unit = parts[2]
			}
			boundPropertyName = parts[1]
			bindingType = PropertyBindingTypeStyle
			securityContext = core.SecurityContextSTYLE
		} else {
			bp.reportError(fmt.Sprintf("Invalid property name '%s'", boundProp.Name), boundProp.SourceSpan, util.ParseErrorLevelError)
			return nil
		}
	}

	return NewBoundElementPropertyAst(
		boundPropertyName,
		bindingType,
		securityContext,
		boundProp.Expression,
		unit,
		boundProp.SourceSpan,
	)
}

// ParseEvent parses an event binding, handling the `@trigger.phase` animation
// listener form
func (bp *BindingParser) ParseEvent(
	name string,
	expression string,
	sourceSpan *util.ParseSourceSpan,
	targetEvents *[]*BoundEventAst,
) {
	if isAnimationLabel(name) {
		name = name[1:]
		bp.parseAnimationEvent(name, expression, sourceSpan, targetEvents)
	} else {
		bp.parseRegularEvent(name, expression, sourceSpan, targetEvents)
	}
}

func (bp *BindingParser) parseAnimationEvent(
	name string,
	expression string,
	sourceSpan *util.ParseSourceSpan,
	targetEvents *[]*BoundEventAst,
) {
	matches := util.SplitAtPeriod(name, []string{name, ""})
	eventName := matches[0]
	phase := strings.ToLower(matches[1])
	if phase != "" {
		switch phase {
		case "start", "done":
			ast := bp.parseAction(expression, sourceSpan)
			*targetEvents = append(*targetEvents, NewBoundEventAst(eventName, "", phase, ast, sourceSpan))
		default:
			bp.reportError(
				fmt.Sprintf("The provided animation output phase value \"%s\" for \"@%s\" is not supported (use start or done)", phase, eventName),
				sourceSpan,
				util.ParseErrorLevelError,
			)
		}
	} else {
		bp.reportError(
			fmt.Sprintf("The animation trigger output event (@%s) is missing its phase value name (start or done are currently supported)", eventName),
			sourceSpan,
			util.ParseErrorLevelError,
		)
	}
}

func (bp *BindingParser) parseRegularEvent(
	name string,
	expression string,
	sourceSpan *util.ParseSourceSpan,
	targetEvents *[]*BoundEventAst,
) {
	// long format: 'target: eventName'
	parts := util.SplitAtColon(name, []string{"", name})
	target := parts[0]
	eventName := parts[1]
	ast := bp.parseAction(expression, sourceSpan)
	*targetEvents = append(*targetEvents, NewBoundEventAst(eventName, target, "", ast, sourceSpan))
	// Don't detect directives for event names for now,
	// so don't add the event name to the matchableAttrs
}

func (bp *BindingParser) parseAction(value string, sourceSpan *util.ParseSourceSpan) *expression_parser.ASTWithSource {
	ast := bp.exprParser.ParseAction(value, sourceSpan, spanOffset(sourceSpan))
	bp.reportExpressionParserErrors(ast.Errors, sourceSpan)
	if isEmptyExpr(ast.AST) {
		errValue := "ERROR"
		bp.reportError("Empty expressions are not allowed", sourceSpan, util.ParseErrorLevelError)
		return bp.exprParser.WrapLiteralPrimitive(&errValue, sourceSpan, spanOffset(sourceSpan))
	}
	bp.checkPipes(ast, sourceSpan)
	return ast
}

func (bp *BindingParser) reportError(message string, sourceSpan *util.ParseSourceSpan, level util.ParseErrorLevel) {
	err := util.NewParseError(sourceSpan, message)
	err.Level = level
	bp.Errors = append(bp.Errors, err)
}

func (bp *BindingParser) reportExpressionParserErrors(errors []*util.ParseError, sourceSpan *util.ParseSourceSpan) {
	for _, err := range errors {
		bp.reportError(err.Msg, sourceSpan, util.ParseErrorLevelError)
	}
}

func (bp *BindingParser) checkPipes(ast *expression_parser.ASTWithSource, sourceSpan *util.ParseSourceSpan) {
	if ast == nil {
		return
	}
	collector := expression_parser.NewPipeCollector()
	ast.Visit(collector, nil)
	pipeNames := make([]string, 0, len(collector.Pipes))
	for pipeName := range collector.Pipes {
		pipeNames = append(pipeNames, pipeName)
	}
	sort.Strings(pipeNames)
	for _, pipeName := range pipeNames {
		if _, ok := bp.PipesByName[pipeName]; !ok {
			bp.reportError(fmt.Sprintf("The pipe '%s' could not be found", pipeName), sourceSpan, util.ParseErrorLevelError)
		}
	}
}

func (bp *BindingParser) validatePropertyOrAttributeName(propName string, sourceSpan *util.ParseSourceSpan, isAttr bool) {
	var report schema.PropertyValidationResult
	if isAttr {
		report = bp.schemaRegistry.ValidateAttribute(propName)
	} else {
		report = bp.schemaRegistry.ValidateProperty(propName)
	}
	if report.Error {
		bp.reportError(report.Msg, sourceSpan, util.ParseErrorLevelError)
	}
}

func isAnimationLabel(name string) bool {
	return len(name) > 0 && name[0] == '@'
}

func isEmptyExpr(ast expression_parser.AST) bool {
	_, ok := ast.(*expression_parser.EmptyExpr)
	return ok
}

func mergeNsAndName(prefix, localName string) string {
	if prefix != "" {
		return ":" + prefix + ":" + localName
	}
	return localName
}

func spanOffset(sourceSpan *util.ParseSourceSpan) int {
	if sourceSpan != nil && sourceSpan.Start != nil {
		return sourceSpan.Start.Offset
	}
	return 0
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
