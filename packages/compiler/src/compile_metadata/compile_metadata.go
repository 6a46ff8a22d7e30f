package compile_metadata

import (
	"regexp"

	"ngve-go/packages/compiler/core"
	"ngve-go/packages/compiler/src/util"
)

// CompileIdentifierMetadata identifies a symbol of the generated code's
// runtime, with an optional runtime reference for JIT resolution.
type CompileIdentifierMetadata struct {
	Name      string
	ModuleURL string
	Reference interface{}
}

// CompileTypeMetadata is metadata regarding the compilation of a type.
type CompileTypeMetadata struct {
	CompileIdentifierMetadata
	IsHost         bool
	LifecycleHooks []core.LifecycleHooks
}

// NewCompileTypeMetadata creates type metadata for the given symbol name.
func NewCompileTypeMetadata(name string, moduleURL string, reference interface{}) *CompileTypeMetadata {
	return &CompileTypeMetadata{
		CompileIdentifierMetadata: CompileIdentifierMetadata{
			Name:      name,
			ModuleURL: moduleURL,
			Reference: reference,
		},
		LifecycleHooks: []core.LifecycleHooks{},
	}
}

// HasLifecycleHook reports whether the type implements the given hook.
func (t *CompileTypeMetadata) HasLifecycleHook(hook core.LifecycleHooks) bool {
	for _, h := range t.LifecycleHooks {
		if h == hook {
			return true
		}
	}
	return false
}

// CompileAnimationEntryMetadata names a `trigger(...)` entry of a component's
// animations metadata. The view compiler only needs the trigger name; the
// state/transition definitions stay behind the animations factory the
// generated code looks up by name.
type CompileAnimationEntryMetadata struct {
	Name string
}

// CompileTemplateMetadata is metadata regarding the compilation of a template.
type CompileTemplateMetadata struct {
	Encapsulation      *core.ViewEncapsulation
	Template           string
	NgContentSelectors []string
	Animations         []*CompileAnimationEntryMetadata
}

// Host metadata keys are either plain attributes, `[property]` bindings or
// `(event)` listeners.
var hostRegExp = regexp.MustCompile(`^(?:(?:\[([^\]]+)\])|(?:\(([^)]+)\)))$`)

// CompileDirectiveMetadata is metadata regarding the compilation of a
// directive.
type CompileDirectiveMetadata struct {
	Type        *CompileTypeMetadata
	IsComponent bool
	Selector    string

	// Inputs and Outputs map the directive property name to the template
	// binding name ("dirProp" -> "templateName").
	Inputs  map[string]string
	Outputs map[string]string

	HostListeners  map[string]string
	HostProperties map[string]string
	HostAttributes map[string]string

	ChangeDetection *core.ChangeDetectionStrategy
	Template        *CompileTemplateMetadata
}

// NewCompileDirectiveMetadata creates directive metadata. Inputs and outputs
// are given in the `"dirProp: templateName"` (or plain `"prop"`) declaration
// form; host metadata is split into attributes, properties and listeners by
// its `[...]`/`(...)` key syntax.
func NewCompileDirectiveMetadata(
	typ *CompileTypeMetadata,
	isComponent bool,
	selector string,
	inputs []string,
	outputs []string,
	host map[string]string,
	changeDetection *core.ChangeDetectionStrategy,
	template *CompileTemplateMetadata,
) *CompileDirectiveMetadata {
	hostListeners := map[string]string{}
	hostProperties := map[string]string{}
	hostAttributes := map[string]string{}
	for key, value := range host {
		matches := hostRegExp.FindStringSubmatch(key)
		switch {
		case matches == nil:
			hostAttributes[key] = value
		case matches[1] != "":
			hostProperties[matches[1]] = value
		case matches[2] != "":
			hostListeners[matches[2]] = value
		}
	}

	inputsMap := map[string]string{}
	for _, bindConfig := range inputs {
		// canonical syntax: `dirProp: elProp`
		parts := util.SplitAtColon(bindConfig, []string{bindConfig, bindConfig})
		inputsMap[parts[0]] = parts[1]
	}
	outputsMap := map[string]string{}
	for _, bindConfig := range outputs {
		parts := util.SplitAtColon(bindConfig, []string{bindConfig, bindConfig})
		outputsMap[parts[0]] = parts[1]
	}

	return &CompileDirectiveMetadata{
		Type:            typ,
		IsComponent:     isComponent,
		Selector:        selector,
		Inputs:          inputsMap,
		Outputs:         outputsMap,
		HostListeners:   hostListeners,
		HostProperties:  hostProperties,
		HostAttributes:  hostAttributes,
		ChangeDetection: changeDetection,
		Template:        template,
	}
}

// CompilePipeMetadata is metadata regarding the compilation of a pipe.
type CompilePipeMetadata struct {
	Type *CompileTypeMetadata
	Name string
	Pure bool
}
