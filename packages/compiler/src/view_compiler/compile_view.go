package view_compiler

import (
	"fmt"

	"ngve-go/packages/compiler/core"
	"ngve-go/packages/compiler/src/compile_metadata"
	"ngve-go/packages/compiler/src/compiler_util"
	"ngve-go/packages/compiler/src/config"
	"ngve-go/packages/compiler/src/output"
)

// CompileView aggregates everything the binders generate for one view class:
// the class members collected through the embedded ClassBuilder, the per-phase
// methods, the registered bindings and the pipes in use. It implements
// compiler_util.NameResolver so bound expressions can reach template locals
// and pipes.
type CompileView struct {
	compiler_util.ClassBuilder

	Component          *compile_metadata.CompileDirectiveMetadata
	GenConfig          *config.CompilerConfig
	PipeMetas          []*compile_metadata.CompilePipeMetadata
	ViewIndex          int
	DeclarationElement *CompileElement

	ViewType  core.ViewType
	ClassName string
	ClassType output.Type

	// ComponentView is the view this view renders into: the view itself for
	// component and host views, the declaring component view for embedded
	// views.
	ComponentView    *CompileView
	ComponentContext output.OutputExpression

	Nodes []CompileViewNode

	Bindings      []*CompileBinding
	Disposables   []output.OutputExpression
	Subscriptions []output.OutputExpression

	Locals    map[string]output.OutputExpression
	Pipes     []*CompilePipe
	PipeCount int
	purePipes map[string]*CompilePipe

	CreateMethod                        *CompileMethod
	AnimationBindingsMethod             *CompileMethod
	DetectChangesInInputsMethod         *CompileMethod
	DetectChangesRenderPropertiesMethod *CompileMethod
	DetachMethod                        *CompileMethod
	DestroyMethod                       *CompileMethod
}

// NewCompileView creates a new CompileView
func NewCompileView(component *compile_metadata.CompileDirectiveMetadata, genConfig *config.CompilerConfig,
	pipeMetas []*compile_metadata.CompilePipeMetadata, viewIndex int, declarationElement *CompileElement) *CompileView {
	view := &CompileView{
		Component:          component,
		GenConfig:          genConfig,
		PipeMetas:          pipeMetas,
		ViewIndex:          viewIndex,
		DeclarationElement: declarationElement,
		Locals:             map[string]output.OutputExpression{},
		purePipes:          map[string]*CompilePipe{},
	}

	view.CreateMethod = NewCompileMethod(view)
	view.AnimationBindingsMethod = NewCompileMethod(view)
	view.DetectChangesInInputsMethod = NewCompileMethod(view)
	view.DetectChangesRenderPropertiesMethod = NewCompileMethod(view)
	view.DetachMethod = NewCompileMethod(view)
	view.DestroyMethod = NewCompileMethod(view)

	view.ViewType = getViewType(component, viewIndex)
	view.ClassName = fmt.Sprintf("_View_%s%d", component.Type.Name, viewIndex)
	className := view.ClassName
	view.ClassType = output.NewExternalType(&output.ExternalReference{Name: &className}, nil, output.TypeModifierNone)

	if view.ViewType == core.ViewTypeCOMPONENT || view.ViewType == core.ViewTypeHOST {
		view.ComponentView = view
	} else {
		view.ComponentView = declarationElement.View.ComponentView
	}
	view.ComponentContext = getPropertyInView(output.Prop(output.ThisExpr, "context"), view, view.ComponentView)

	return view
}

func getViewType(component *compile_metadata.CompileDirectiveMetadata, embeddedViewIndex int) core.ViewType {
	if embeddedViewIndex > 0 {
		return core.ViewTypeEMBEDDED
	}
	if component.Type.IsHost {
		return core.ViewTypeHOST
	}
	return core.ViewTypeCOMPONENT
}

// CallPipe implements compiler_util.NameResolver.
func (v *CompileView) CallPipe(name string, input output.OutputExpression, args []output.OutputExpression) output.OutputExpression {
	return callPipe(v, name, append([]output.OutputExpression{input}, args...))
}

// GetLocal implements compiler_util.NameResolver. Locals are looked up on the
// view itself first and then up the chain of declaring views, rewriting the
// resulting expression so it is readable from this view.
func (v *CompileView) GetLocal(name string) output.OutputExpression {
	if name == EventHandlerVars.Event.Name {
		return EventHandlerVars.Event
	}
	currView := v
	result := currView.Locals[name]
	for result == nil && currView.DeclarationElement != nil && currView.DeclarationElement.View != nil {
		currView = currView.DeclarationElement.View
		result = currView.Locals[name]
	}
	if result == nil {
		return nil
	}
	return getPropertyInView(result, v, currView)
}

func (v *CompileView) hasFieldOrGetter(name string) bool {
	for _, field := range v.Fields {
		if field.Name == name {
			return true
		}
	}
	for _, getter := range v.Getters {
		if getter.Name == name {
			return true
		}
	}
	return false
}
