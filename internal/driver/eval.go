package driver

import (
	"context"

	"zlang/internal/trace"
	"zlang/internal/vm"
)

type EvalResult struct {
	*ParseResult
	Value    vm.Value
	ExitCode int
}

// Eval parses the program and runs it in the interpreter. Runtime failures
// come back as *vm.VMError; they are not diagnostics and stay out of Bag.
func Eval(ctx context.Context, req Request) (*EvalResult, error) {
	s := newSession(ctx, req)
	sctx, span := trace.Begin(s.ctx, trace.ScopeDriver, "eval")
	defer span.End("")
	s.ctx = sctx

	parsed, err := s.parse()
	res := &EvalResult{ParseResult: parsed}
	if err != nil {
		return res, err
	}

	err = s.phase("eval", func(ctx context.Context) error {
		machine := vm.New(parsed.Registry, vm.Options{Stdout: req.Stdout, MaxDepth: req.MaxDepth})
		v, err := machine.Run(ctx, parsed.Module)
		if err != nil {
			return err
		}
		res.Value = v
		res.ExitCode = vm.ExitCode(v)
		return nil
	})
	return res, err
}
