package parser

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"zlang/internal/ast"
	"zlang/internal/diag"
	"zlang/internal/source"
	"zlang/internal/symbols"
	"zlang/internal/token"
	"zlang/internal/types"
)

// parsePostfix := primary ("(" args ")" | "[" expr "]" | "." IDENT)*
func (p *Parser) parsePostfix() (ast.ExprID, bool) {
	node, ok := p.parsePrimary()
	for ok {
		switch p.peek().Kind {
		case token.LParen:
			node, ok = p.parseCall(node, false)
		case token.LBracket:
			node, ok = p.parseIndex(node)
		case token.Dot:
			node, ok = p.parseMember(node)
		default:
			return node, true
		}
	}
	return ast.NoExprID, false
}

func (p *Parser) parseIndex(target ast.ExprID) (ast.ExprID, bool) {
	p.advance()
	idx, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.RBracket, diag.SynExpectRBracket, "expected ']'"); !ok {
		return ast.NoExprID, false
	}
	span := p.exprs.Get(target).Span.Cover(p.lastSpan)
	return p.exprs.NewIndex(span, target, idx), true
}

// parseMember handles `module.member`: the member is looked up in the module
// scope and rebound locally as an alias.
func (p *Parser) parseMember(target ast.ExprID) (ast.ExprID, bool) {
	dot := p.advance()
	memberTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected member name after '.'")
	if !ok {
		return ast.NoExprID, false
	}
	modSym := p.syms.Get(p.syms.Resolve(p.unit.Bindings.Of(target)))
	if p.exprs.Get(target).Kind != ast.ExprIdent || modSym == nil || modSym.Kind != symbols.SymbolModule {
		return ast.NoExprID, p.errAt(diag.SemaNotAModule, dot.Span, "member access is only allowed on modules")
	}
	member := p.syms.LookupLocal(modSym.ModuleScope, memberTok.Text)
	if !member.IsValid() {
		return ast.NoExprID, p.errorf(diag.SemaUndefinedMember, memberTok.Span,
			"module %s has no member %s", modSym.ModuleName, memberTok.Text)
	}
	alias := p.syms.Declare(p.scope, symbols.NoRegionID, &symbols.Symbol{
		Name:   memberTok.Text,
		Kind:   symbols.SymbolAlias,
		Span:   memberTok.Span,
		File:   p.unit.File,
		Target: member,
	})
	span := p.exprs.Get(target).Span.Cover(memberTok.Span)
	return p.bind(p.exprs.NewPath(span, target, memberTok.Text, memberTok.Span), alias), true
}

// parseCall := callee "(" (expr ("," expr)*)? ")"
func (p *Parser) parseCall(callee ast.ExprID, compileTime bool) (ast.ExprID, bool) {
	calleeExpr := p.exprs.Get(callee)
	if calleeExpr.Kind != ast.ExprIdent && calleeExpr.Kind != ast.ExprPath {
		return ast.NoExprID, p.errAt(diag.SynNotCallable, calleeExpr.Span, "only named functions can be called")
	}
	p.advance()
	var args []ast.ExprID
	for !p.at(token.RParen) {
		if len(args) > 0 {
			if _, ok := p.expect(token.Comma, diag.SynExpectComma, "expected ',' between arguments"); !ok {
				return ast.NoExprID, false
			}
		}
		arg, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		args = append(args, arg)
	}
	if _, ok := p.expect(token.RParen, diag.SynExpectRParen, "expected ')' after arguments"); !ok {
		return ast.NoExprID, false
	}
	span := calleeExpr.Span.Cover(p.lastSpan)

	sym := p.syms.Get(p.syms.Resolve(p.unit.Bindings.Of(callee)))
	if sym == nil || sym.Kind != symbols.SymbolFunc {
		return ast.NoExprID, p.errAt(diag.SynNotCallable, calleeExpr.Span, "called value is not a function")
	}
	if len(sym.Params) != len(args) {
		return ast.NoExprID, p.errorf(diag.SemaArgCountMismatch, span,
			"%s expects %d argument(s), got %d", sym.Name, len(sym.Params), len(args))
	}
	return p.exprs.NewCall(span, callee, args, compileTime), true
}

// parsePrimary := "(" expr ")" | array | block | "#" call | IDENT
//
//	| NUMBER | CHAR | STRING
func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynExpectRParen, "expected ')'"); !ok {
			return ast.NoExprID, false
		}
		return inner, true
	case token.LBracket:
		return p.parseArray()
	case token.LBrace:
		return p.parseBlock()
	case token.Hash:
		return p.parseCtCall()
	case token.Ident:
		p.advance()
		return p.identifier(tok)
	case token.IntLit:
		p.advance()
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return ast.NoExprID, p.errorf(diag.LexBadNumber, tok.Span, "integer literal %s out of range", tok.Text)
		}
		return p.exprs.NewIntLit(tok.Span, v, tok.Text), true
	case token.CharLit:
		p.advance()
		var v int64
		if tok.Text != "" {
			v = int64(tok.Text[0])
		}
		id := p.exprs.NewCharLit(tok.Span, v, tok.Text)
		p.literalConst(id, tok.Span, p.types.Builtins().Char, []byte{byte(v)})
		return id, true
	case token.StringLit:
		p.advance()
		id := p.exprs.NewStrLit(tok.Span, tok.Text)
		n, err := safecast.Conv[uint32](len(tok.Text))
		if err != nil {
			return ast.NoExprID, p.errorf(diag.SemaUnsupported, tok.Span, "string literal too long")
		}
		p.literalConst(id, tok.Span, p.types.Str(n), []byte(tok.Text))
		return id, true
	default:
		return ast.NoExprID, p.err(diag.SynExpectExpression, "expected an expression")
	}
}

func (p *Parser) identifier(tok token.Token) (ast.ExprID, bool) {
	sym := p.syms.Lookup(p.scope, tok.Text)
	if !sym.IsValid() {
		return ast.NoExprID, p.errorf(diag.SemaUndefinedIdent, tok.Span, "undefined identifier: %s", tok.Text)
	}
	return p.bind(p.exprs.NewIdent(tok.Span, tok.Text), sym), true
}

// parseCtCall := "#" IDENT "(" args ")"
func (p *Parser) parseCtCall() (ast.ExprID, bool) {
	p.advance()
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name after '#'")
	if !ok {
		return ast.NoExprID, false
	}
	callee, ok := p.identifier(nameTok)
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.LParen) {
		return ast.NoExprID, p.err(diag.SynUnexpectedToken, fmt.Sprintf("expected '(' after #%s", nameTok.Text))
	}
	return p.parseCall(callee, true)
}

// parseArray := "[" (expr ("," expr)*)? "]"
func (p *Parser) parseArray() (ast.ExprID, bool) {
	start := p.advance().Span
	var elems []ast.ExprID
	for !p.at(token.RBracket) {
		if len(elems) > 0 {
			if _, ok := p.expect(token.Comma, diag.SynExpectComma, "expected ',' between array elements"); !ok {
				return ast.NoExprID, false
			}
		}
		elem, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		elems = append(elems, elem)
	}
	if _, ok := p.expect(token.RBracket, diag.SynExpectRBracket, "expected ']'"); !ok {
		return ast.NoExprID, false
	}
	return p.exprs.NewArray(p.spanFrom(start), elems), true
}

// literalConst declares the hidden global constant backing a char or string
// literal and binds the literal to it.
func (p *Parser) literalConst(id ast.ExprID, span source.Span, typ types.TypeID, bytes []byte) {
	sym := p.syms.Declare(p.unit.Scope, p.unit.Region, &symbols.Symbol{
		Name:  p.env.NextLiteral(),
		Kind:  symbols.SymbolConst,
		Flags: symbols.SymbolFlagGlobal,
		Type:  typ,
		Span:  span,
		File:  p.unit.File,
		Bytes: bytes,
	})
	p.bind(id, sym)
}
