package parser

import (
	"errors"

	"zlang/internal/ast"
	"zlang/internal/diag"
	"zlang/internal/lexer"
	"zlang/internal/sema"
	"zlang/internal/source"
	"zlang/internal/symbols"
	"zlang/internal/token"
	"zlang/internal/types"
)

// ErrImportFailed reports that an imported module had errors of its own;
// they were already sent to the reporter.
var ErrImportFailed = errors.New("import failed")

// Imported describes a module made available by `use`.
type Imported struct {
	Name  string
	Scope symbols.ScopeID
}

// Env is what the parser needs from the process-wide module registry.
type Env interface {
	Symbols() *symbols.Table
	Types() *types.Interner
	// Import returns the module named name, loading and parsing it on first use.
	// Diagnostics of the imported file go to r; a failed import returns an error
	// carrying a diagnostic positioned at `at` when possible.
	Import(name string, at source.Span, r diag.Reporter) (Imported, error)
	// NextLiteral returns a fresh name for a literal constant.
	NextLiteral() string
}

// Unit is the module being parsed. The parser fills its AST, bindings,
// scopes and regions in place.
type Unit struct {
	Name      string
	File      source.FileID
	Builder   *ast.Builder
	Bindings  *symbols.Bindings
	Scope     symbols.ScopeID  // module scope
	Region    symbols.RegionID // module globals
	TypeNames map[string]types.TypeID
}

type Options struct {
	Reporter diag.Reporter
}

// Parser is the ParserState of one module: current scope and region plus
// the token cursor. Nothing is shared between instances.
type Parser struct {
	lx       *lexer.Lexer
	env      Env
	unit     *Unit
	exprs    *ast.Exprs
	syms     *symbols.Table
	types    *types.Interner
	typer    *sema.Typer
	reporter diag.Reporter

	scope  symbols.ScopeID
	region symbols.RegionID

	lastSpan source.Span
	lastKind token.Kind
	failed   bool
}

// ParseModule parses the whole token stream of lx into unit and returns the
// root block. Parsing stops at the first error; the diagnostic goes to
// opts.Reporter and false is returned.
func ParseModule(env Env, unit *Unit, lx *lexer.Lexer, opts Options) (ast.ExprID, bool) {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	if unit.Bindings == nil {
		unit.Bindings = &symbols.Bindings{}
	}
	p := &Parser{
		lx:       lx,
		env:      env,
		unit:     unit,
		exprs:    unit.Builder.Exprs,
		syms:     env.Symbols(),
		types:    env.Types(),
		reporter: reporter,
		scope:    unit.Scope,
		region:   unit.Region,
		lastSpan: lx.EmptySpan(),
	}
	p.typer = sema.NewTyper(unit.Builder, sema.Options{
		Reporter: reporter,
		Types:    p.types,
		Symbols:  p.syms,
		Bindings: unit.Bindings,
	})
	return p.parseProgram()
}

// parseProgram := (sep* expr sep)* EOF
func (p *Parser) parseProgram() (ast.ExprID, bool) {
	start := p.lx.Peek().Span
	stmts, ok := p.parseStatements(token.EOF)
	if !ok {
		return ast.NoExprID, false
	}
	root := p.exprs.NewBlock(start.Cover(p.lastSpan), stmts)
	if !p.typer.MarkType(root) {
		return ast.NoExprID, p.fail()
	}
	return root, true
}

// parseStatements parses separated expressions until end (not consumed).
// Each statement is typed right after it is parsed.
func (p *Parser) parseStatements(end token.Kind) ([]ast.ExprID, bool) {
	var stmts []ast.ExprID
	p.skipEmpty()
	for !p.at(end) {
		if p.at(token.EOF) {
			p.err(diag.SynExpectRBrace, "expected '}'")
			return nil, false
		}
		stmt, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if !p.typer.MarkType(stmt) {
			return nil, p.fail()
		}
		if !p.expectSeparator() {
			return nil, false
		}
		stmts = append(stmts, stmt)
		p.skipEmpty()
	}
	return stmts, true
}
