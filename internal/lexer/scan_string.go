package lexer

import (
	"zlang/internal/diag"
	"zlang/internal/token"
)

// scanQuoted читает "..." или '...' как сырые байты, без escape-последовательностей.
// Литерал тянется до закрывающего разделителя или до конца входа.
// Text - содержимое без кавычек, Span - вместе с кавычками.
func (lx *Lexer) scanQuoted(delim byte, kind token.Kind) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening delimiter
	bodyStart := lx.cursor.Off
	for !lx.cursor.EOF() && lx.cursor.Peek() != delim {
		lx.cursor.Bump()
	}
	bodyEnd := lx.cursor.Off
	if !lx.cursor.Eat(delim) {
		code := diag.LexUnterminatedString
		msg := "string literal runs to end of input"
		if kind == token.CharLit {
			code = diag.LexUnterminatedChar
			msg = "character literal runs to end of input"
		}
		lx.report(code, diag.SevWarning, lx.cursor.SpanFrom(start), msg)
	}
	return token.Token{
		Kind: kind,
		Span: lx.cursor.SpanFrom(start),
		Text: string(lx.file.Content[bodyStart:bodyEnd]),
	}
}
