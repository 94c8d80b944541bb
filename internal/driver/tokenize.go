package driver

import (
	"context"

	"zlang/internal/diag"
	"zlang/internal/lexer"
	"zlang/internal/observ"
	"zlang/internal/source"
	"zlang/internal/token"
	"zlang/internal/trace"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
	Timer   *observ.Timer
}

// Tokenize загружает исходник и прогоняет через лексер целиком, до EOF.
// Лексические ошибки копятся в Bag; первая из них возвращается как error.
func Tokenize(ctx context.Context, req Request) (*TokenizeResult, error) {
	s := newSession(ctx, req)
	sctx, span := trace.Begin(s.ctx, trace.ScopeDriver, "tokenize")
	defer span.End("")
	s.ctx = sctx

	res := &TokenizeResult{FileSet: source.NewFileSet(), Bag: s.bag, Timer: s.timer}
	err := s.phase("load", func(context.Context) error {
		id, err := res.FileSet.LoadArg(req.Source, req.Stdin)
		if err != nil {
			return diag.AsError(diag.NewError(diag.IOLoadFileError, source.Span{}, err.Error()))
		}
		res.File = res.FileSet.Get(id)
		return nil
	})
	if err != nil {
		return res, s.fail(err)
	}

	err = s.phase("lex", func(context.Context) error {
		lx := lexer.New(res.File, lexer.Options{Reporter: s.reporter()})
		res.Tokens = lx.All()
		return diag.FromBag(s.bag)
	})
	return res, err
}
