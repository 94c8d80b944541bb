package parser

import (
	"zlang/internal/ast"
	"zlang/internal/diag"
	"zlang/internal/token"
)

// parseAssign := equality ("=" assign)?
func (p *Parser) parseAssign() (ast.ExprID, bool) {
	lhs, ok := p.parseEquality()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.Assign) {
		return lhs, true
	}
	eq := p.advance()
	if !p.addressable(lhs) {
		return ast.NoExprID, p.errAt(diag.SemaNotAddressable, eq.Span, "left side of '=' is not assignable")
	}
	rhs, ok := p.parseAssign()
	if !ok {
		return ast.NoExprID, false
	}
	return p.exprs.NewAssign(p.exprs.Get(lhs).Span.Cover(p.lastSpan), lhs, rhs), true
}

// parseEquality := relational (("=="|"!=") relational)*
func (p *Parser) parseEquality() (ast.ExprID, bool) {
	lhs, ok := p.parseRelational()
	for ok {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.EqEq:
			op = ast.BinEq
		case token.BangEq:
			op = ast.BinNe
		default:
			return lhs, true
		}
		p.advance()
		var rhs ast.ExprID
		if rhs, ok = p.parseRelational(); ok {
			lhs = p.binary(op, lhs, rhs)
		}
	}
	return ast.NoExprID, false
}

// parseRelational := add (("<"|"<="|">"|">=") add)*
// `a > b` строится как `b < a`, `a >= b` как `b <= a`.
func (p *Parser) parseRelational() (ast.ExprID, bool) {
	lhs, ok := p.parseAdd()
	for ok {
		var (
			op   ast.BinaryOp
			swap bool
		)
		switch p.peek().Kind {
		case token.Lt:
			op = ast.BinLt
		case token.LtEq:
			op = ast.BinLe
		case token.Gt:
			op, swap = ast.BinLt, true
		case token.GtEq:
			op, swap = ast.BinLe, true
		default:
			return lhs, true
		}
		p.advance()
		var rhs ast.ExprID
		if rhs, ok = p.parseAdd(); ok {
			if swap {
				lhs = p.binary(op, rhs, lhs)
			} else {
				lhs = p.binary(op, lhs, rhs)
			}
		}
	}
	return ast.NoExprID, false
}

// parseAdd := mul (("+"|"-") mul)* with pointer-aware construction.
func (p *Parser) parseAdd() (ast.ExprID, bool) {
	lhs, ok := p.parseMul()
	for ok {
		kind := p.peek().Kind
		if kind != token.Plus && kind != token.Minus {
			return lhs, true
		}
		p.advance()
		var rhs ast.ExprID
		if rhs, ok = p.parseMul(); !ok {
			break
		}
		span := p.exprs.Get(lhs).Span.Cover(p.exprs.Get(rhs).Span)
		if kind == token.Plus {
			lhs, ok = p.typer.NewAdd(span, lhs, rhs)
		} else {
			lhs, ok = p.typer.NewSub(span, lhs, rhs)
		}
		if !ok {
			return ast.NoExprID, p.fail()
		}
	}
	return ast.NoExprID, false
}

// parseMul := unary (("*"|"/") unary)*
func (p *Parser) parseMul() (ast.ExprID, bool) {
	lhs, ok := p.parseUnary()
	for ok {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.Star:
			op = ast.BinMul
		case token.Slash:
			op = ast.BinDiv
		default:
			return lhs, true
		}
		p.advance()
		var rhs ast.ExprID
		if rhs, ok = p.parseUnary(); ok {
			lhs = p.binary(op, lhs, rhs)
		}
	}
	return ast.NoExprID, false
}

func (p *Parser) binary(op ast.BinaryOp, lhs, rhs ast.ExprID) ast.ExprID {
	span := p.exprs.Get(lhs).Span.Cover(p.exprs.Get(rhs).Span)
	return p.exprs.NewBinary(span, op, lhs, rhs)
}

// parseUnary := ("+"|"-"|"&"|"*"|"!") unary | postfix
func (p *Parser) parseUnary() (ast.ExprID, bool) {
	var op ast.UnaryOp
	switch p.peek().Kind {
	case token.Plus:
		p.advance()
		return p.parseUnary()
	case token.Minus:
		op = ast.UnaryNeg
	case token.Amp:
		op = ast.UnaryAddr
	case token.Star:
		op = ast.UnaryDeref
	case token.Bang:
		op = ast.UnaryNot
	default:
		return p.parsePostfix()
	}
	start := p.advance().Span
	operand, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	if op == ast.UnaryAddr && !p.addressable(operand) {
		return ast.NoExprID, p.errAt(diag.SemaNotAddressable, p.exprs.Get(operand).Span, "cannot take the address of this expression")
	}
	return p.exprs.NewUnary(p.spanFrom(start), op, operand), true
}
