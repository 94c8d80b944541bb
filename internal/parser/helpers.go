package parser

import (
	"fmt"

	"zlang/internal/ast"
	"zlang/internal/diag"
	"zlang/internal/source"
	"zlang/internal/symbols"
	"zlang/internal/token"
)

func (p *Parser) peek() token.Token { return p.lx.Peek() }

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

// advance - съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
		p.lastKind = tok.Kind
	}
	return tok
}

func (p *Parser) match(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect - ожидаем конкретный токен, иначе ошибка.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, msg)
	return token.Token{Kind: token.Invalid, Span: p.diagnosticSpan()}, false
}

// skipEmpty пропускает пустые операторы.
func (p *Parser) skipEmpty() {
	for p.at(token.NewLine) || p.at(token.Semicolon) {
		p.advance()
	}
}

// expectSeparator: newline, ';' или EOF после каждого выражения.
// Перед '}' и после выражения, закончившегося блоком, разделитель не нужен.
func (p *Parser) expectSeparator() bool {
	switch p.peek().Kind {
	case token.NewLine, token.Semicolon:
		p.advance()
		return true
	case token.EOF, token.RBrace:
		return true
	}
	if p.lastKind == token.RBrace {
		return true
	}
	return p.err(diag.SynExpectSeparator, "expected ';', newline or end of input")
}

// diagnosticSpan - позиция для диагностики: текущий токен, а на EOF конец
// последнего съеденного.
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}

// err репортует ошибку в текущей позиции. Всегда возвращает false.
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.errAt(code, p.diagnosticSpan(), msg)
}

func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) bool {
	if p.failed {
		return false
	}
	// лексер уже сообщил о мусорном байте
	if p.peek().Kind != token.Invalid {
		diag.ReportError(p.reporter, code, sp, msg).Emit()
	}
	p.failed = true
	return false
}

func (p *Parser) errorf(code diag.Code, sp source.Span, format string, args ...any) bool {
	return p.errAt(code, sp, fmt.Sprintf(format, args...))
}

// fail marks the parse as failed after the typer reported.
func (p *Parser) fail() bool {
	p.failed = true
	return false
}

func (p *Parser) enterScope(kind symbols.ScopeKind, span source.Span) symbols.ScopeID {
	prev := p.scope
	p.scope = p.syms.Scopes.New(kind, prev, span)
	return prev
}

func (p *Parser) leaveScope(prev symbols.ScopeID) {
	p.scope = prev
}

// declare binds a new symbol in the current scope and region.
func (p *Parser) declare(sym *symbols.Symbol) symbols.SymbolID {
	sym.File = p.unit.File
	if reg := p.syms.Regions.Get(p.region); reg != nil && reg.Kind == symbols.RegionGlobal && sym.Kind.HasStorage() {
		sym.Flags |= symbols.SymbolFlagGlobal
	}
	return p.syms.Declare(p.scope, p.region, sym)
}

func (p *Parser) bind(id ast.ExprID, sym symbols.SymbolID) ast.ExprID {
	p.unit.Bindings.Bind(id, sym)
	return id
}

// addressable: может стоять слева от '=' и под '&'.
func (p *Parser) addressable(id ast.ExprID) bool {
	expr := p.exprs.Get(id)
	if expr == nil {
		return false
	}
	switch expr.Kind {
	case ast.ExprIdent, ast.ExprIndex, ast.ExprPath:
		return true
	case ast.ExprUnary:
		u, _ := p.exprs.Unary(id)
		return u.Op == ast.UnaryDeref
	}
	return false
}
