package identifiers

import (
	"fmt"

	"ngve-go/packages/compiler/src/output"
)

func assetURL(path string) string {
	return "@angular/core/src/" + path
}

var (
	viewUtilsModuleURL = assetURL("linker/view_utils")
	cdUtilModuleURL    = assetURL("change_detection/change_detection_util")
	securityModuleURL  = assetURL("security")
	animationModuleURL = assetURL("animation/animation_transition")
)

// References into the runtime the generated view code links against.
var (
	ViewUtils      = &output.ExternalReference{Name: stringPtr("ViewUtils"), ModuleName: &viewUtilsModuleURL}
	CheckBinding   = &output.ExternalReference{Name: stringPtr("checkBinding"), ModuleName: &viewUtilsModuleURL}
	Interpolate    = &output.ExternalReference{Name: stringPtr("interpolate"), ModuleName: &viewUtilsModuleURL}
	CastByValue    = &output.ExternalReference{Name: stringPtr("castByValue"), ModuleName: &viewUtilsModuleURL}
	EMPTY_ARRAY    = &output.ExternalReference{Name: stringPtr("EMPTY_ARRAY"), ModuleName: &viewUtilsModuleURL}
	EMPTY_MAP      = &output.ExternalReference{Name: stringPtr("EMPTY_MAP"), ModuleName: &viewUtilsModuleURL}
	UNINITIALIZED  = &output.ExternalReference{Name: stringPtr("UNINITIALIZED"), ModuleName: &cdUtilModuleURL}
	ValueUnwrapper = &output.ExternalReference{Name: stringPtr("ValueUnwrapper"), ModuleName: &cdUtilModuleURL}

	SecurityContext = &output.ExternalReference{Name: stringPtr("SecurityContext"), ModuleName: &securityModuleURL}

	AnimationTransition = &output.ExternalReference{Name: stringPtr("AnimationTransition"), ModuleName: &animationModuleURL}
)

// PureProxies is indexed by proxied-function arity; index 0 is unused.
var PureProxies = []*output.ExternalReference{
	nil,
	pureProxy(1),
	pureProxy(2),
	pureProxy(3),
	pureProxy(4),
	pureProxy(5),
	pureProxy(6),
	pureProxy(7),
	pureProxy(8),
	pureProxy(9),
	pureProxy(10),
}

func pureProxy(arity int) *output.ExternalReference {
	return &output.ExternalReference{
		Name:       stringPtr(fmt.Sprintf("pureProxy%d", arity)),
		ModuleName: &viewUtilsModuleURL,
	}
}

// CreateEnumExpression builds a reference to a member of a runtime enum, e.g.
// SecurityContext.HTML. The member is read off the imported enum object so
// that JIT evaluation only has to resolve the enum reference itself.
func CreateEnumExpression(enumType *output.ExternalReference, name string) output.OutputExpression {
	return output.Prop(output.ImportExpr(enumType, nil, nil), name)
}

func stringPtr(s string) *string {
	return &s
}
