package driver

import (
	"context"
	"fmt"

	"zlang/internal/ast"
	"zlang/internal/diag"
	"zlang/internal/module"
	"zlang/internal/observ"
	"zlang/internal/sema"
	"zlang/internal/source"
	"zlang/internal/trace"
	"zlang/internal/types"
)

type ParseResult struct {
	FileSet  *source.FileSet
	Registry *module.Registry
	Module   *module.Module // nil when parsing failed
	Bag      *diag.Bag
	Timer    *observ.Timer
}

// Parse loads the program and every module it uses. Lexing, parsing and
// typing run interleaved inside the parser; the typecheck phase then makes
// sure no node of any loaded module was left untyped.
func Parse(ctx context.Context, req Request) (*ParseResult, error) {
	s := newSession(ctx, req)
	sctx, span := trace.Begin(s.ctx, trace.ScopeDriver, "parse")
	defer span.End("")
	s.ctx = sctx
	return s.parse()
}

func (s *session) parse() (*ParseResult, error) {
	files := source.NewFileSet()
	res := &ParseResult{FileSet: files, Bag: s.bag, Timer: s.timer}
	res.Registry = module.NewRegistry(s.ctx, module.Options{LibDir: s.req.LibDir, Files: files})

	err := s.phase("parse", func(context.Context) error {
		mod, err := res.Registry.LoadArg(s.req.Source, s.req.Stdin, s.reporter())
		if err != nil {
			return err
		}
		res.Module = mod
		return nil
	})
	if err != nil {
		return res, s.fail(err)
	}

	err = s.phase("typecheck", func(context.Context) error {
		return typecheck(res.Registry, s.reporter())
	})
	return res, s.fail(err)
}

// typecheck re-runs MarkType over every module root (a no-op for typed
// nodes) and rejects any node still without a type.
func typecheck(reg *module.Registry, rep diag.Reporter) error {
	for _, mod := range reg.Modules() {
		typer := sema.NewTyper(mod.Builder, sema.Options{
			Reporter: rep,
			Types:    reg.Types(),
			Symbols:  reg.Symbols(),
			Bindings: mod.Bindings,
		})
		if !typer.MarkType(mod.Root) {
			return fmt.Errorf("typecheck %s failed", mod.Name)
		}
		var untyped *diag.Diagnostic
		mod.Builder.Exprs.Walk(mod.Root, func(id ast.ExprID) bool {
			expr := mod.Builder.Exprs.Get(id)
			if untyped == nil && expr.Type == types.NoTypeID {
				untyped = diag.NewError(diag.SemaTypeUnknown, expr.Span,
					fmt.Sprintf("%s has no type", expr.Kind))
			}
			return untyped == nil
		})
		if untyped != nil {
			rep.Report(untyped.Code, untyped.Severity, untyped.Primary, untyped.Message, nil)
			return diag.AsError(untyped)
		}
	}
	return nil
}
