package driver

import (
	"context"
	"io"

	"zlang/internal/backend/x86"
	"zlang/internal/trace"
	"zlang/internal/vm"
)

type CompileResult struct {
	*ParseResult
	Asm      string
	CacheHit bool
}

// Compile parses the program and generates x86-64 assembly for it. `#f(...)`
// calls are folded by an interpreter over the same registry. Assembling and
// linking are left to buildpipeline.
func Compile(ctx context.Context, req Request) (*CompileResult, error) {
	s := newSession(ctx, req)
	sctx, span := trace.Begin(s.ctx, trace.ScopeDriver, "compile")
	defer span.End("")
	s.ctx = sctx

	parsed, err := s.parse()
	res := &CompileResult{ParseResult: parsed}
	if err != nil {
		return res, err
	}

	err = s.phase("codegen", func(ctx context.Context) error {
		key := CacheKey(parsed.Registry)
		var cached AsmPayload
		if hit, cacheErr := req.Cache.Get(key, &cached); cacheErr == nil && hit && cached.Module == parsed.Module.Name {
			res.Asm = cached.Asm
			res.CacheHit = true
			trace.Point(ctx, trace.ScopePass, "asm-cache", "hit")
			return nil
		}

		folder := vm.New(parsed.Registry, vm.Options{Stdout: io.Discard, MaxDepth: req.MaxDepth})
		asm, err := x86.Generate(ctx, parsed.Registry, parsed.Module, x86.Options{Folder: folder})
		if err != nil {
			return err
		}
		res.Asm = asm
		// кэш best-effort: ошибка записи не ломает компиляцию
		if putErr := req.Cache.Put(key, newAsmPayload(parsed.Registry, parsed.Module.Name, asm)); putErr != nil {
			trace.Point(ctx, trace.ScopePass, "asm-cache", "put failed: "+putErr.Error())
		}
		return nil
	})
	return res, s.fail(err)
}
