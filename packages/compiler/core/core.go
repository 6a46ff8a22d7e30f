package core

// ViewEncapsulation represents the encapsulation strategy for component styles
type ViewEncapsulation int

const (
	ViewEncapsulationEmulated ViewEncapsulation = iota
	ViewEncapsulationNative
	ViewEncapsulationNone
)

// ChangeDetectionStrategy represents the change detection strategy
type ChangeDetectionStrategy int

const (
	ChangeDetectionStrategyOnPush ChangeDetectionStrategy = iota
	ChangeDetectionStrategyDefault
)

// IsDefaultChangeDetectionStrategy reports whether a strategy behaves like the
// default (check every cycle) strategy. A nil strategy counts as default.
func IsDefaultChangeDetectionStrategy(changeDetectionStrategy *ChangeDetectionStrategy) bool {
	return changeDetectionStrategy == nil ||
		*changeDetectionStrategy == ChangeDetectionStrategyDefault
}

// ViewType describes the role of a generated view class
type ViewType int

const (
	// ViewTypeHOST is a view that contains a single element with a component
	ViewTypeHOST ViewType = iota
	// ViewTypeCOMPONENT is a view of a component's template
	ViewTypeCOMPONENT
	// ViewTypeEMBEDDED is a view declared inside a <template> element
	ViewTypeEMBEDDED
)

// LifecycleHooks enumerates the directive lifecycle callbacks
type LifecycleHooks int

const (
	LifecycleHooksOnInit LifecycleHooks = iota
	LifecycleHooksOnDestroy
	LifecycleHooksDoCheck
	LifecycleHooksOnChanges
	LifecycleHooksAfterContentInit
	LifecycleHooksAfterContentChecked
	LifecycleHooksAfterViewInit
	LifecycleHooksAfterViewChecked
)

// Input represents an input property configuration
type Input struct {
	Alias *string
}

// Output represents an output property configuration
type Output struct {
	Alias *string
}

// HostBinding represents a host binding configuration
type HostBinding struct {
	HostPropertyName *string
}

// HostListener represents a host listener configuration
type HostListener struct {
	EventName *string
	Args      []string
}

// SchemaMetadata represents schema metadata
type SchemaMetadata struct {
	Name string
}

var (
	CUSTOM_ELEMENTS_SCHEMA = SchemaMetadata{Name: "custom-elements"}
	NO_ERRORS_SCHEMA       = SchemaMetadata{Name: "no-errors-schema"}
)

// SecurityContext represents the security context for sanitization
type SecurityContext int

const (
	SecurityContextNONE SecurityContext = iota
	SecurityContextHTML
	SecurityContextSTYLE
	SecurityContextSCRIPT
	SecurityContextURL
	SecurityContextRESOURCE_URL
)

// SecurityContextName returns the enum constant name used by the runtime for a
// security context value. Unknown values return the empty string.
func SecurityContextName(ctx SecurityContext) string {
	switch ctx {
	case SecurityContextNONE:
		return "NONE"
	case SecurityContextHTML:
		return "HTML"
	case SecurityContextSTYLE:
		return "STYLE"
	case SecurityContextSCRIPT:
		return "SCRIPT"
	case SecurityContextURL:
		return "URL"
	case SecurityContextRESOURCE_URL:
		return "RESOURCE_URL"
	}
	return ""
}
