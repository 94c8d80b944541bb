package parser

import (
	"strconv"

	"zlang/internal/diag"
	"zlang/internal/token"
	"zlang/internal/types"
)

// parseType := "[" INT "]" type | "*" type | IDENT
func (p *Parser) parseType() (types.TypeID, bool) {
	switch p.peek().Kind {
	case token.LBracket:
		p.advance()
		lenTok := p.peek()
		if lenTok.Kind != token.IntLit {
			return types.NoTypeID, p.err(diag.SynArrayNeedsLength, "static array type needs a literal length")
		}
		p.advance()
		n, err := strconv.ParseUint(lenTok.Text, 10, 32)
		if err != nil {
			return types.NoTypeID, p.errorf(diag.LexBadNumber, lenTok.Span, "array length %s out of range", lenTok.Text)
		}
		if _, ok := p.expect(token.RBracket, diag.SynExpectRBracket, "expected ']'"); !ok {
			return types.NoTypeID, false
		}
		elem, ok := p.parseType()
		if !ok {
			return types.NoTypeID, false
		}
		return p.types.Array(elem, uint32(n)), true
	case token.Star:
		p.advance()
		elem, ok := p.parseType()
		if !ok {
			return types.NoTypeID, false
		}
		return p.types.Pointer(elem), true
	case token.Ident:
		tok := p.advance()
		if id, ok := p.lookupType(tok.Text); ok {
			return id, true
		}
		return types.NoTypeID, p.errorf(diag.SemaUnknownType, tok.Span, "unknown type %s", tok.Text)
	default:
		return types.NoTypeID, p.err(diag.SynExpectType, "expected a type")
	}
}

func (p *Parser) lookupType(name string) (types.TypeID, bool) {
	if id, ok := p.unit.TypeNames[name]; ok {
		return id, true
	}
	b := p.types.Builtins()
	switch name {
	case "int":
		return b.Int, true
	case "char":
		return b.Char, true
	}
	return types.NoTypeID, false
}
