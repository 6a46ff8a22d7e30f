package template_parser_test

import (
	"fmt"
	"strings"
	"testing"

	"ngve-go/packages/compiler/core"
	"ngve-go/packages/compiler/src/compile_metadata"
	"ngve-go/packages/compiler/src/expression_parser"
	"ngve-go/packages/compiler/src/schema"
	"ngve-go/packages/compiler/src/template_parser"
	"ngve-go/packages/compiler/src/util"
)

// mockSchemaRegistry resolves security contexts through the real security
// schema table and rejects on* property/attribute names the way the DOM
// registry does.
type mockSchemaRegistry struct {
	attrPropMapping map[string]string
}

func newMockSchemaRegistry() *mockSchemaRegistry {
	return &mockSchemaRegistry{
		attrPropMapping: map[string]string{
			"class":     "className",
			"for":       "htmlFor",
			"innerHtml": "innerHTML",
			"readonly":  "readOnly",
			"tabindex":  "tabIndex",
		},
	}
}

func (r *mockSchemaRegistry) HasProperty(tagName string, propName string, schemaMetas []*core.SchemaMetadata) bool {
	return true
}

func (r *mockSchemaRegistry) HasElement(tagName string, schemaMetas []*core.SchemaMetadata) bool {
	return true
}

func (r *mockSchemaRegistry) SecurityContext(elementName string, propName string, isAttribute bool) core.SecurityContext {
	if ctx, ok := schema.SecuritySchema()[strings.ToLower(elementName+"|"+propName)]; ok {
		return ctx
	}
	if ctx, ok := schema.SecuritySchema()[strings.ToLower("*|"+propName)]; ok {
		return ctx
	}
	return core.SecurityContextNONE
}

func (r *mockSchemaRegistry) AllKnownElementNames() []string {
	return []string{"a", "div", "img", "span"}
}

func (r *mockSchemaRegistry) GetMappedPropName(propName string) string {
	if mapped, ok := r.attrPropMapping[propName]; ok {
		return mapped
	}
	return propName
}

func (r *mockSchemaRegistry) GetDefaultComponentElementName() string { return "ng-component" }

func (r *mockSchemaRegistry) ValidateProperty(name string) schema.PropertyValidationResult {
	if strings.HasPrefix(strings.ToLower(name), "on") {
		return schema.PropertyValidationResult{
			Error: true,
			Msg:   fmt.Sprintf("Binding to event property '%s' is disallowed for security reasons", name),
		}
	}
	return schema.PropertyValidationResult{}
}

func (r *mockSchemaRegistry) ValidateAttribute(name string) schema.PropertyValidationResult {
	if strings.HasPrefix(strings.ToLower(name), "on") {
		return schema.PropertyValidationResult{
			Error: true,
			Msg:   fmt.Sprintf("Binding to event attribute '%s' is disallowed for security reasons", name),
		}
	}
	return schema.PropertyValidationResult{}
}

func (r *mockSchemaRegistry) NormalizeAnimationStyleProperty(propName string) string {
	return util.DashCaseToCamelCase(propName)
}

func (r *mockSchemaRegistry) NormalizeAnimationStyleValue(camelCaseProp string, userProvidedProp string, val interface{}) schema.AnimationStyleValueResult {
	return schema.AnimationStyleValueResult{Value: util.Stringify(val)}
}

func newTestBindingParser(pipes ...*compile_metadata.CompilePipeMetadata) *template_parser.BindingParser {
	return template_parser.NewBindingParser(
		expression_parser.NewParser(expression_parser.NewLexer()),
		newMockSchemaRegistry(),
		pipes,
	)
}

func testSpan() *util.ParseSourceSpan {
	file := util.NewParseSourceFile("", "test.html")
	start := util.NewParseLocation(file, 0, 0, 0)
	return util.NewParseSourceSpan(start, start, nil)
}

func exprSource(ast expression_parser.AST) string {
	if withSource, ok := ast.(*expression_parser.ASTWithSource); ok && withSource.Source != nil {
		return *withSource.Source
	}
	return ""
}

type boundPropSummary struct {
	name     string
	typ      template_parser.PropertyBindingType
	security core.SecurityContext
	unit     string
	source   string
}

func summarizeProp(t *testing.T, ast *template_parser.BoundElementPropertyAst) boundPropSummary {
	t.Helper()
	if ast == nil {
		t.Fatal("expected a bound element property, got nil")
	}
	return boundPropSummary{
		name:     ast.Name,
		typ:      ast.Type,
		security: ast.SecurityContext,
		unit:     ast.Unit,
		source:   exprSource(ast.Value),
	}
}

func parseBoundProp(t *testing.T, bp *template_parser.BindingParser, name, expression string, isHost bool) *template_parser.BoundProperty {
	t.Helper()
	props := []*template_parser.BoundProperty{}
	bp.ParsePropertyBinding(name, expression, isHost, testSpan(), &props)
	if len(props) != 1 {
		t.Fatalf("expected one bound property, got %d", len(props))
	}
	return props[0]
}

func classifyProp(t *testing.T, bp *template_parser.BindingParser, elementName, name, expression string) *template_parser.BoundElementPropertyAst {
	t.Helper()
	return bp.CreateElementPropertyAst(elementName, parseBoundProp(t, bp, name, expression, false))
}

func expectParseErrors(t *testing.T, bp *template_parser.BindingParser, messages ...string) {
	t.Helper()
	for _, message := range messages {
		found := false
		for _, err := range bp.Errors {
			if strings.Contains(err.Msg, message) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected an error containing %q, got %v", message, bp.Errors)
		}
	}
}

func expectNoParseErrors(t *testing.T, bp *template_parser.BindingParser) {
	t.Helper()
	if len(bp.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", bp.Errors)
	}
}

func TestBindingParserProperties(t *testing.T) {
	t.Run("should classify a plain property binding", func(t *testing.T) {
		bp := newTestBindingParser()
		got := summarizeProp(t, classifyProp(t, bp, "div", "title", "value"))
		want := boundPropSummary{name: "title", typ: template_parser.PropertyBindingTypeProperty, security: core.SecurityContextNONE, source: "value"}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
		expectNoParseErrors(t, bp)
	})

	t.Run("should map property names through the schema registry", func(t *testing.T) {
		bp := newTestBindingParser()
		got := summarizeProp(t, classifyProp(t, bp, "div", "innerHtml", "html"))
		if got.name != "innerHTML" {
			t.Errorf("got name %q, want %q", got.name, "innerHTML")
		}
		if got.security != core.SecurityContextHTML {
			t.Errorf("got security context %v, want HTML", got.security)
		}
	})

	t.Run("should resolve element specific security contexts", func(t *testing.T) {
		bp := newTestBindingParser()
		if got := summarizeProp(t, classifyProp(t, bp, "a", "href", "link")).security; got != core.SecurityContextURL {
			t.Errorf("got security context %v, want URL", got)
		}
		if got := summarizeProp(t, classifyProp(t, bp, "div", "href", "link")).security; got != core.SecurityContextNONE {
			t.Errorf("got security context %v, want NONE", got)
		}
	})

	t.Run("should classify attribute bindings", func(t *testing.T) {
		bp := newTestBindingParser()
		got := summarizeProp(t, classifyProp(t, bp, "div", "attr.role", "role"))
		want := boundPropSummary{name: "role", typ: template_parser.PropertyBindingTypeAttribute, security: core.SecurityContextNONE, source: "role"}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("should resolve security contexts for attribute bindings", func(t *testing.T) {
		bp := newTestBindingParser()
		if got := summarizeProp(t, classifyProp(t, bp, "a", "attr.href", "link")).security; got != core.SecurityContextURL {
			t.Errorf("got security context %v, want URL", got)
		}
	})

	t.Run("should merge namespaced attribute names", func(t *testing.T) {
		bp := newTestBindingParser()
		got := summarizeProp(t, classifyProp(t, bp, "div", "attr.xlink:href", "link"))
		if got.name != ":xlink:href" {
			t.Errorf("got name %q, want %q", got.name, ":xlink:href")
		}
		if got.typ != template_parser.PropertyBindingTypeAttribute {
			t.Errorf("got type %v, want Attribute", got.typ)
		}
	})

	t.Run("should classify class bindings", func(t *testing.T) {
		bp := newTestBindingParser()
		got := summarizeProp(t, classifyProp(t, bp, "div", "class.highlight", "cond"))
		want := boundPropSummary{name: "highlight", typ: template_parser.PropertyBindingTypeClass, security: core.SecurityContextNONE, source: "cond"}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("should classify style bindings", func(t *testing.T) {
		bp := newTestBindingParser()
		got := summarizeProp(t, classifyProp(t, bp, "div", "style.color", "color"))
		want := boundPropSummary{name: "color", typ: template_parser.PropertyBindingTypeStyle, security: core.SecurityContextSTYLE, source: "color"}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("should pick up style units", func(t *testing.T) {
		bp := newTestBindingParser()
		got := summarizeProp(t, classifyProp(t, bp, "div", "style.width.px", "width"))
		if got.unit != "px" {
			t.Errorf("got unit %q, want %q", got.unit, "px")
		}
		if got.name != "width" {
			t.Errorf("got name %q, want %q", got.name, "width")
		}
	})

	t.Run("should classify animation trigger bindings", func(t *testing.T) {
		bp := newTestBindingParser()
		got := summarizeProp(t, classifyProp(t, bp, "div", "@fade", "state"))
		want := boundPropSummary{name: "fade", typ: template_parser.PropertyBindingTypeAnimation, security: core.SecurityContextNONE, source: "state"}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	})

	t.Run("should accept the animate- prefix", func(t *testing.T) {
		bp := newTestBindingParser()
		got := summarizeProp(t, classifyProp(t, bp, "div", "animate-fade", "state"))
		if got.name != "fade" || got.typ != template_parser.PropertyBindingTypeAnimation {
			t.Errorf("got %+v, want an animation binding named fade", got)
		}
	})

	t.Run("should parse null for an animation trigger without an expression", func(t *testing.T) {
		bp := newTestBindingParser()
		got := summarizeProp(t, classifyProp(t, bp, "div", "@fade", ""))
		if got.source != "null" {
			t.Errorf("got source %q, want %q", got.source, "null")
		}
		expectNoParseErrors(t, bp)
	})

	t.Run("should report invalid property names", func(t *testing.T) {
		bp := newTestBindingParser()
		if ast := bp.CreateElementPropertyAst("div", parseBoundProp(t, bp, "some.prop", "value", false)); ast != nil {
			t.Errorf("expected nil for an invalid property name, got %+v", ast)
		}
		expectParseErrors(t, bp, "Invalid property name 'some.prop'")
	})

	t.Run("should report disallowed event properties", func(t *testing.T) {
		bp := newTestBindingParser()
		classifyProp(t, bp, "div", "onclick", "value")
		expectParseErrors(t, bp, "Binding to event property 'onclick' is disallowed for security reasons")
	})

	t.Run("should report disallowed event attributes", func(t *testing.T) {
		bp := newTestBindingParser()
		classifyProp(t, bp, "div", "attr.onclick", "value")
		expectParseErrors(t, bp, "Binding to event attribute 'onclick' is disallowed for security reasons")
	})

	t.Run("should report a missing animation trigger name", func(t *testing.T) {
		bp := newTestBindingParser()
		props := []*template_parser.BoundProperty{}
		bp.ParsePropertyBinding("@", "state", false, testSpan(), &props)
		expectParseErrors(t, bp, "Animation trigger is missing")
	})
}

func TestBindingParserLiteralAttrs(t *testing.T) {
	t.Run("should record literal attributes", func(t *testing.T) {
		bp := newTestBindingParser()
		props := []*template_parser.BoundProperty{}
		value := "bar"
		bp.ParseLiteralAttr("foo", &value, testSpan(), &props)
		if len(props) != 1 || !props[0].IsLiteral() {
			t.Fatalf("expected one literal attribute, got %+v", props)
		}
		if got := exprSource(props[0].Expression); got != "bar" {
			t.Errorf("got source %q, want %q", got, "bar")
		}
		expectNoParseErrors(t, bp)
	})

	t.Run("should treat a bare @trigger attribute as an animation binding", func(t *testing.T) {
		bp := newTestBindingParser()
		props := []*template_parser.BoundProperty{}
		bp.ParseLiteralAttr("@fade", nil, testSpan(), &props)
		if len(props) != 1 || !props[0].IsAnimation() || props[0].Name != "fade" {
			t.Fatalf("expected an animation binding named fade, got %+v", props)
		}
		expectNoParseErrors(t, bp)
	})

	t.Run("should report @trigger attributes paired with a value", func(t *testing.T) {
		bp := newTestBindingParser()
		props := []*template_parser.BoundProperty{}
		value := "exp"
		bp.ParseLiteralAttr("@fade", &value, testSpan(), &props)
		expectParseErrors(t, bp, "Assigning animation triggers via @prop=\"exp\" attributes with an expression is invalid")
	})
}

func TestBindingParserInterpolations(t *testing.T) {
	t.Run("should parse property interpolations", func(t *testing.T) {
		bp := newTestBindingParser()
		props := []*template_parser.BoundProperty{}
		if !bp.ParsePropertyInterpolation("title", "Hello {{name}}!", testSpan(), &props) {
			t.Fatal("expected the interpolation to be recognized")
		}
		if len(props) != 1 || props[0].Name != "title" {
			t.Fatalf("expected one bound property named title, got %+v", props)
		}
		expectNoParseErrors(t, bp)
	})

	t.Run("should ignore values without interpolation", func(t *testing.T) {
		bp := newTestBindingParser()
		props := []*template_parser.BoundProperty{}
		if bp.ParsePropertyInterpolation("title", "static text", testSpan(), &props) {
			t.Fatal("expected no interpolation to be recognized")
		}
		if len(props) != 0 {
			t.Fatalf("expected no bound properties, got %+v", props)
		}
	})
}

func TestBindingParserEvents(t *testing.T) {
	parseEvent := func(t *testing.T, bp *template_parser.BindingParser, name, expression string) []*template_parser.BoundEventAst {
		t.Helper()
		events := []*template_parser.BoundEventAst{}
		bp.ParseEvent(name, expression, testSpan(), &events)
		return events
	}

	t.Run("should parse plain events", func(t *testing.T) {
		bp := newTestBindingParser()
		events := parseEvent(t, bp, "click", "onClick()")
		if len(events) != 1 {
			t.Fatalf("expected one event, got %d", len(events))
		}
		event := events[0]
		if event.Name != "click" || event.Target != "" || event.Phase != "" {
			t.Errorf("got %+v, want a plain click event", event)
		}
		if event.FullName() != "click" {
			t.Errorf("got full name %q, want %q", event.FullName(), "click")
		}
		if event.IsAnimation() {
			t.Error("expected a non-animation event")
		}
		expectNoParseErrors(t, bp)
	})

	t.Run("should parse targeted events", func(t *testing.T) {
		bp := newTestBindingParser()
		events := parseEvent(t, bp, "window:resize", "onResize()")
		if len(events) != 1 {
			t.Fatalf("expected one event, got %d", len(events))
		}
		event := events[0]
		if event.Name != "resize" || event.Target != "window" {
			t.Errorf("got %+v, want window:resize", event)
		}
		if event.FullName() != "window:resize" {
			t.Errorf("got full name %q, want %q", event.FullName(), "window:resize")
		}
	})

	t.Run("should parse animation listeners", func(t *testing.T) {
		for _, phase := range []string{"start", "done"} {
			bp := newTestBindingParser()
			events := parseEvent(t, bp, "@openClose."+phase, "handle($event)")
			if len(events) != 1 {
				t.Fatalf("expected one event, got %d", len(events))
			}
			event := events[0]
			if event.Name != "openClose" || event.Phase != phase || event.Target != "" {
				t.Errorf("got %+v, want an openClose %s listener", event, phase)
			}
			if !event.IsAnimation() {
				t.Error("expected an animation event")
			}
			if want := "@openClose." + phase; event.FullName() != want {
				t.Errorf("got full name %q, want %q", event.FullName(), want)
			}
			expectNoParseErrors(t, bp)
		}
	})

	t.Run("should lower case the phase name", func(t *testing.T) {
		bp := newTestBindingParser()
		events := parseEvent(t, bp, "@openClose.DONE", "handle()")
		if len(events) != 1 || events[0].Phase != "done" {
			t.Fatalf("expected a done listener, got %+v", events)
		}
	})

	t.Run("should reject unsupported phases", func(t *testing.T) {
		bp := newTestBindingParser()
		events := parseEvent(t, bp, "@openClose.bla", "handle()")
		if len(events) != 0 {
			t.Fatalf("expected no events, got %+v", events)
		}
		expectParseErrors(t, bp, `The provided animation output phase value "bla" for "@openClose" is not supported (use start or done)`)
	})

	t.Run("should reject a missing phase", func(t *testing.T) {
		bp := newTestBindingParser()
		events := parseEvent(t, bp, "@openClose", "handle()")
		if len(events) != 0 {
			t.Fatalf("expected no events, got %+v", events)
		}
		expectParseErrors(t, bp, "The animation trigger output event (@openClose) is missing its phase value name (start or done are currently supported)")
	})

	t.Run("should reject empty handlers", func(t *testing.T) {
		bp := newTestBindingParser()
		parseEvent(t, bp, "click", "")
		expectParseErrors(t, bp, "Empty expressions are not allowed")
	})
}

func TestBindingParserPipes(t *testing.T) {
	t.Run("should report unknown pipes", func(t *testing.T) {
		bp := newTestBindingParser()
		parseBoundProp(t, bp, "title", "value | unknown", false)
		expectParseErrors(t, bp, "The pipe 'unknown' could not be found")
	})

	t.Run("should accept registered pipes", func(t *testing.T) {
		bp := newTestBindingParser(&compile_metadata.CompilePipeMetadata{Name: "uppercase", Pure: true})
		parseBoundProp(t, bp, "title", "value | uppercase", false)
		expectNoParseErrors(t, bp)
	})

	t.Run("should report unknown pipes in interpolations", func(t *testing.T) {
		bp := newTestBindingParser()
		props := []*template_parser.BoundProperty{}
		bp.ParsePropertyInterpolation("title", "{{ value | unknown }}", testSpan(), &props)
		expectParseErrors(t, bp, "The pipe 'unknown' could not be found")
	})

	t.Run("should report pipes in host bindings", func(t *testing.T) {
		bp := newTestBindingParser(&compile_metadata.CompilePipeMetadata{Name: "uppercase", Pure: true})
		parseBoundProp(t, bp, "title", "value | uppercase", true)
		expectParseErrors(t, bp, "Host binding expression cannot contain pipes")
	})
}

func TestBindingParserHostBindings(t *testing.T) {
	newDirMeta := func(host map[string]string) *compile_metadata.CompileDirectiveMetadata {
		return compile_metadata.NewCompileDirectiveMetadata(
			compile_metadata.NewCompileTypeMetadata("MyDir", "/my_dir.ts", nil),
			false,
			"[myDir]",
			nil,
			nil,
			host,
			nil,
			nil,
		)
	}

	t.Run("should create host property asts in stable order", func(t *testing.T) {
		bp := newTestBindingParser()
		dirMeta := newDirMeta(map[string]string{
			"[title]":     "titleExp",
			"[attr.role]": "roleExp",
			"[class.on]":  "onExp",
		})
		asts := bp.CreateDirectiveHostPropertyAsts(dirMeta, "div", testSpan())
		if len(asts) != 3 {
			t.Fatalf("expected three host properties, got %d", len(asts))
		}
		wantOrder := []string{"role", "on", "title"}
		wantTypes := []template_parser.PropertyBindingType{
			template_parser.PropertyBindingTypeAttribute,
			template_parser.PropertyBindingTypeClass,
			template_parser.PropertyBindingTypeProperty,
		}
		for i, ast := range asts {
			if ast.Name != wantOrder[i] || ast.Type != wantTypes[i] {
				t.Errorf("ast %d: got (%s, %v), want (%s, %v)", i, ast.Name, ast.Type, wantOrder[i], wantTypes[i])
			}
		}
		expectNoParseErrors(t, bp)
	})

	t.Run("should create host animation asts", func(t *testing.T) {
		bp := newTestBindingParser()
		dirMeta := newDirMeta(map[string]string{"[@fade]": "state"})
		asts := bp.CreateDirectiveHostPropertyAsts(dirMeta, "div", testSpan())
		if len(asts) != 1 || asts[0].Type != template_parser.PropertyBindingTypeAnimation || asts[0].Name != "fade" {
			t.Fatalf("expected one animation host binding named fade, got %+v", asts)
		}
	})

	t.Run("should create host listener asts", func(t *testing.T) {
		bp := newTestBindingParser()
		dirMeta := newDirMeta(map[string]string{
			"(window:scroll)": "scrolled()",
			"(click)":         "clicked()",
		})
		events := bp.CreateDirectiveHostEventAsts(dirMeta, testSpan())
		if len(events) != 2 {
			t.Fatalf("expected two host listeners, got %d", len(events))
		}
		if events[0].Name != "click" || events[0].Target != "" {
			t.Errorf("got %+v, want click first", events[0])
		}
		if events[1].Name != "scroll" || events[1].Target != "window" {
			t.Errorf("got %+v, want window:scroll second", events[1])
		}
		expectNoParseErrors(t, bp)
	})

	t.Run("should return nothing for a directive without host bindings", func(t *testing.T) {
		bp := newTestBindingParser()
		dirMeta := newDirMeta(nil)
		if asts := bp.CreateDirectiveHostPropertyAsts(dirMeta, "div", testSpan()); asts != nil {
			t.Errorf("expected no host properties, got %+v", asts)
		}
		if events := bp.CreateDirectiveHostEventAsts(dirMeta, testSpan()); events != nil {
			t.Errorf("expected no host listeners, got %+v", events)
		}
	})
}

func TestBindingParserInlineTemplates(t *testing.T) {
	parseInline := func(t *testing.T, bp *template_parser.BindingParser, key, value string) ([]*template_parser.BoundProperty, []*template_parser.VariableAst) {
		t.Helper()
		props := []*template_parser.BoundProperty{}
		vars := []*template_parser.VariableAst{}
		bp.ParseInlineTemplateBinding(key, value, testSpan(), len(key)+3, &props, &vars)
		return props, vars
	}

	t.Run("should parse bound microsyntax properties", func(t *testing.T) {
		bp := newTestBindingParser()
		props, vars := parseInline(t, bp, "ngIf", "condition")
		if len(vars) != 0 {
			t.Fatalf("expected no variables, got %+v", vars)
		}
		if len(props) != 1 || props[0].Name != "ngIf" || exprSource(props[0].Expression) != "condition" {
			t.Fatalf("expected a bound ngIf property, got %+v", props)
		}
		expectNoParseErrors(t, bp)
	})

	t.Run("should parse let variables", func(t *testing.T) {
		bp := newTestBindingParser()
		props, vars := parseInline(t, bp, "ngFor", "let item of items")
		if len(vars) != 1 || vars[0].Name != "item" || vars[0].Value != "$implicit" {
			t.Fatalf("expected an implicit item variable, got %+v", vars)
		}
		if len(props) != 2 {
			t.Fatalf("expected two properties, got %+v", props)
		}
		if props[0].Name != "ngFor" || !props[0].IsLiteral() {
			t.Errorf("expected a literal ngFor property, got %+v", props[0])
		}
		if props[1].Name != "ngForOf" || exprSource(props[1].Expression) != "items" {
			t.Errorf("expected ngForOf bound to items, got %+v", props[1])
		}
		expectNoParseErrors(t, bp)
	})

	t.Run("should map as bindings to variables", func(t *testing.T) {
		bp := newTestBindingParser()
		props, vars := parseInline(t, bp, "ngIf", "condition as local")
		if len(props) != 1 || props[0].Name != "ngIf" || exprSource(props[0].Expression) != "condition" {
			t.Fatalf("expected a bound ngIf property, got %+v", props)
		}
		if len(vars) != 1 || vars[0].Name != "local" || vars[0].Value != "ngIf" {
			t.Fatalf("expected a local variable reading ngIf, got %+v", vars)
		}
	})

	t.Run("should report unknown pipes in microsyntax values", func(t *testing.T) {
		bp := newTestBindingParser()
		parseInline(t, bp, "ngIf", "condition | unknown")
		expectParseErrors(t, bp, "The pipe 'unknown' could not be found")
	})
}
