package view_compiler

import (
	"fmt"

	"ngve-go/packages/compiler/src/compile_metadata"
	"ngve-go/packages/compiler/src/output"
)

// CompilePipe generates the instance field and the transform calls for one
// pipe used by a view. Pure pipes are cached per component view so that every
// usage inside the component shares a single instance; impure pipes get a
// fresh instance on the view that calls them.
type CompilePipe struct {
	View     *CompileView
	Meta     *compile_metadata.CompilePipeMetadata
	Instance *output.ReadPropExpr
}

func callPipe(view *CompileView, name string, args []output.OutputExpression) output.OutputExpression {
	compView := view.ComponentView
	meta := findPipeMeta(compView, name)
	var pipe *CompilePipe
	if meta.Pure {
		// Pure pipes live on the component view.
		pipe = compView.purePipes[name]
		if pipe == nil {
			pipe = newCompilePipe(compView, meta)
			compView.purePipes[name] = pipe
			compView.Pipes = append(compView.Pipes, pipe)
		}
	} else {
		// Non pure pipes live on the view that called them.
		pipe = newCompilePipe(view, meta)
		view.Pipes = append(view.Pipes, pipe)
	}
	return pipe.call(view, args)
}

func newCompilePipe(view *CompileView, meta *compile_metadata.CompilePipeMetadata) *CompilePipe {
	pipe := &CompilePipe{
		View: view,
		Meta: meta,
	}
	pipe.Instance = output.Prop(output.ThisExpr, fmt.Sprintf("_pipe_%s_%d", meta.Name, view.PipeCount))
	view.PipeCount++
	return pipe
}

// Pure reports whether the underlying pipe is pure.
func (p *CompilePipe) Pure() bool {
	return p.Meta.Pure
}

// Create emits the instance field and its construction into the create
// method of the owning view.
func (p *CompilePipe) Create() {
	typeRef := externalReferenceOf(&p.Meta.Type.CompileIdentifierMetadata)
	p.View.Fields = append(p.View.Fields,
		output.NewClassField(p.Instance.Name, output.ImportType(typeRef, nil, output.TypeModifierNone), output.StmtModifierPrivate))
	p.View.CreateMethod.ResetDebugInfo(-1, nil)
	p.View.CreateMethod.AddStmt(output.ToStmt(
		output.Prop(output.ThisExpr, p.Instance.Name).
			Set(output.InstantiateCls(output.ImportExpr(typeRef, nil, nil), []output.OutputExpression{}, nil))))
}

func (p *CompilePipe) call(callingView *CompileView, args []output.OutputExpression) output.OutputExpression {
	instance := getPropertyInView(p.Instance, callingView, p.View)
	return output.CallMethod(instance, "transform", args)
}

func findPipeMeta(view *CompileView, name string) *compile_metadata.CompilePipeMetadata {
	var pipeMeta *compile_metadata.CompilePipeMetadata
	for i := len(view.PipeMetas) - 1; i >= 0; i-- {
		localPipeMeta := view.PipeMetas[i]
		if localPipeMeta.Name == name {
			pipeMeta = localPipeMeta
			break
		}
	}
	if pipeMeta == nil {
		panic(fmt.Sprintf("Illegal state: Could not find pipe %s although the parser should have detected it!", name))
	}
	return pipeMeta
}
