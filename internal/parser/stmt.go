package parser

import (
	"errors"

	"zlang/internal/ast"
	"zlang/internal/diag"
	"zlang/internal/symbols"
	"zlang/internal/token"
)

// parseExpr := "use" IDENT | "if" ... | "for" ... | "fn" fn-decl
//
//	| "type" type-decl | "let" decl | assign
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	if p.failed {
		return ast.NoExprID, false
	}
	switch p.peek().Kind {
	case token.KwUse:
		return p.parseUse()
	case token.KwIf:
		return p.parseIf()
	case token.KwFor:
		return p.parseFor()
	case token.KwFn:
		return p.parseFn()
	case token.KwType:
		return p.parseTypeDecl()
	case token.KwLet:
		return p.parseLet()
	default:
		return p.parseAssign()
	}
}

// parseBlock := "{" (sep* expr sep)* "}" - новая область видимости, тот же регион.
func (p *Parser) parseBlock() (ast.ExprID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynExpectLBrace, "expected '{'")
	if !ok {
		return ast.NoExprID, false
	}
	prev := p.enterScope(symbols.ScopeBlock, open.Span)
	stmts, ok := p.parseStatements(token.RBrace)
	p.leaveScope(prev)
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.RBrace, diag.SynExpectRBrace, "expected '}'"); !ok {
		return ast.NoExprID, false
	}
	return p.exprs.NewBlock(p.spanFrom(open.Span), stmts), true
}

func (p *Parser) parseIf() (ast.ExprID, bool) {
	start := p.advance().Span
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	then, ok := p.parseBlock()
	if !ok {
		return ast.NoExprID, false
	}
	els := ast.NoExprID
	if p.match(token.KwElse) {
		if p.at(token.KwIf) {
			els, ok = p.parseIf()
		} else {
			els, ok = p.parseBlock()
		}
		if !ok {
			return ast.NoExprID, false
		}
	}
	return p.exprs.NewIf(p.spanFrom(start), cond, then, els), true
}

func (p *Parser) parseFor() (ast.ExprID, bool) {
	start := p.advance().Span
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	body, ok := p.parseBlock()
	if !ok {
		return ast.NoExprID, false
	}
	return p.exprs.NewFor(p.spanFrom(start), cond, body), true
}

// parseUse := "use" IDENT. A module already visible under that name is reused.
func (p *Parser) parseUse() (ast.ExprID, bool) {
	start := p.advance().Span
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected module name after 'use'")
	if !ok {
		return ast.NoExprID, false
	}
	name := nameTok.Text
	id := p.exprs.NewUse(p.spanFrom(start), name)

	if existing := p.syms.Lookup(p.scope, name); existing.IsValid() {
		if sym := p.syms.Get(existing); sym != nil && sym.Kind == symbols.SymbolModule {
			return p.bind(id, existing), true
		}
	}

	imported, err := p.env.Import(name, nameTok.Span, p.reporter)
	if err != nil {
		if errors.Is(err, ErrImportFailed) {
			return ast.NoExprID, p.fail()
		}
		if d, isDiag := diag.DiagnosticOf(err); isDiag {
			return ast.NoExprID, p.errAt(d.Code, nameTok.Span, d.Message)
		}
		return ast.NoExprID, p.errorf(diag.IOLoadFileError, nameTok.Span, "cannot use module %s: %v", name, err)
	}
	sym := p.declare(&symbols.Symbol{
		Name:        name,
		Kind:        symbols.SymbolModule,
		Span:        nameTok.Span,
		ModuleScope: imported.Scope,
		ModuleName:  imported.Name,
	})
	return p.bind(id, sym), true
}
