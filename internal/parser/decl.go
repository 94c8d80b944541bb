package parser

import (
	"zlang/internal/ast"
	"zlang/internal/diag"
	"zlang/internal/symbols"
	"zlang/internal/token"
	"zlang/internal/types"
)

// parseLet := "let" IDENT type? ("=" expr)?
//
// The symbol is declared before the initializer is parsed, so the
// initializer already sees the new (untyped) name.
func (p *Parser) parseLet() (ast.ExprID, bool) {
	start := p.advance().Span
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected an identifier after 'let'")
	if !ok {
		return ast.NoExprID, false
	}
	symID := p.declare(&symbols.Symbol{
		Name: nameTok.Text,
		Kind: symbols.SymbolVar,
		Span: nameTok.Span,
	})
	ident := p.bind(p.exprs.NewIdent(nameTok.Span, nameTok.Text), symID)

	if !p.at(token.Assign) {
		typ, ok := p.parseType()
		if !ok {
			return ast.NoExprID, false
		}
		p.syms.Get(symID).Type = typ
	}
	if !p.match(token.Assign) {
		return ident, true
	}
	value, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	return p.exprs.NewAssign(p.spanFrom(start), ident, value), true
}

// parseFn := "fn" IDENT ("(" (IDENT type ("," IDENT type)*)? ")")? block?
//
// The function name goes into the enclosing scope before the body, which
// makes direct and mutual recursion resolve. Without a body the function is
// external.
func (p *Parser) parseFn() (ast.ExprID, bool) {
	start := p.advance().Span
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name")
	if !ok {
		return ast.NoExprID, false
	}
	fnID := p.declare(&symbols.Symbol{
		Name: nameTok.Text,
		Kind: symbols.SymbolFunc,
		Span: nameTok.Span,
	})

	prevScope := p.enterScope(symbols.ScopeFunction, nameTok.Span)
	prevRegion := p.region
	p.region = p.syms.Regions.New(symbols.RegionFunction, prevRegion, fnID, p.unit.File)
	defer func() {
		p.leaveScope(prevScope)
		p.region = prevRegion
	}()

	var (
		params     []ast.Param
		paramSyms  []symbols.SymbolID
		paramTypes []types.TypeID
	)
	if p.match(token.LParen) {
		for !p.at(token.RParen) {
			if len(params) > 0 {
				if _, ok := p.expect(token.Comma, diag.SynExpectComma, "expected ',' between parameters"); !ok {
					return ast.NoExprID, false
				}
			}
			pn, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
			if !ok {
				return ast.NoExprID, false
			}
			typ, ok := p.parseType()
			if !ok {
				return ast.NoExprID, false
			}
			paramSyms = append(paramSyms, p.declare(&symbols.Symbol{
				Name:  pn.Text,
				Kind:  symbols.SymbolVar,
				Flags: symbols.SymbolFlagParam,
				Type:  typ,
				Span:  pn.Span,
			}))
			params = append(params, ast.Param{Name: pn.Text, Span: pn.Span})
			paramTypes = append(paramTypes, typ)
		}
		if _, ok := p.expect(token.RParen, diag.SynExpectRParen, "expected ')' after parameters"); !ok {
			return ast.NoExprID, false
		}
	}

	// результат пока всегда int
	sym := p.syms.Get(fnID)
	sym.Params = paramSyms
	sym.Type = p.types.RegisterFn(paramTypes, p.types.Builtins().Int)
	sym.FnRegion = p.region
	sym.FuncScope = p.scope

	body := ast.NoExprID
	if p.at(token.LBrace) {
		body, ok = p.parseBlock()
		if !ok {
			return ast.NoExprID, false
		}
	}

	id := p.exprs.NewFn(p.spanFrom(start), nameTok.Text, params, body)
	sym = p.syms.Get(fnID)
	sym.Body = body
	sym.Decl = id
	if !body.IsValid() {
		sym.Flags |= symbols.SymbolFlagExtern
	}
	return p.bind(id, fnID), true
}

// parseTypeDecl := "type" IDENT "{" (IDENT type sep)* "}"
func (p *Parser) parseTypeDecl() (ast.ExprID, bool) {
	start := p.advance().Span
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected a type name")
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.LBrace, diag.SynExpectLBrace, "expected '{' for type declaration"); !ok {
		return ast.NoExprID, false
	}

	var fields []ast.FieldDecl
	p.skipEmpty()
	for !p.at(token.RBrace) {
		fn, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected field name")
		if !ok {
			return ast.NoExprID, false
		}
		typ, ok := p.parseType()
		if !ok {
			return ast.NoExprID, false
		}
		fields = append(fields, ast.FieldDecl{Name: fn.Text, Span: fn.Span, Type: typ})
		if !p.at(token.RBrace) && !p.expectSeparator() {
			return ast.NoExprID, false
		}
		p.skipEmpty()
	}
	if _, ok := p.expect(token.RBrace, diag.SynExpectRBrace, "expected '}'"); !ok {
		return ast.NoExprID, false
	}

	typeFields := make([]types.Field, 0, len(fields))
	for _, f := range fields {
		typeFields = append(typeFields, types.Field{Name: f.Name, Type: f.Type})
	}
	typ := p.types.RegisterNamed(nameTok.Text, typeFields)
	if p.unit.TypeNames == nil {
		p.unit.TypeNames = make(map[string]types.TypeID)
	}
	p.unit.TypeNames[nameTok.Text] = typ

	return p.exprs.NewTypeDecl(p.spanFrom(start), ast.TypeDeclData{
		Name:   nameTok.Text,
		Fields: fields,
		Type:   typ,
	}), true
}
