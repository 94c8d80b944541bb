package token

import (
	"zlang/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a number, char, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, CharLit, StringLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwIf, KwElse, KwFor, KwLet, KwFn, KwUse, KwType:
		return true
	default:
		return false
	}
}

// IsSeparator reports whether the token may end a statement.
func (t Token) IsSeparator() bool {
	return t.Kind == NewLine || t.Kind == Semicolon || t.Kind == EOF
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
