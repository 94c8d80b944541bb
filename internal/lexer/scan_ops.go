package lexer

import (
	"fmt"
	"unicode/utf8"

	"zlang/internal/diag"
	"zlang/internal/token"
)

// Сначала 2-символьные (==, !=, <=, >=), затем односимвольные.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	switch {
	case lx.try2('=', '='):
		return emit(token.EqEq)
	case lx.try2('!', '='):
		return emit(token.BangEq)
	case lx.try2('<', '='):
		return emit(token.LtEq)
	case lx.try2('>', '='):
		return emit(token.GtEq)
	}

	ch := lx.cursor.Bump()
	switch ch {
	case '\n':
		return emit(token.NewLine)
	case ';':
		return emit(token.Semicolon)
	case '+':
		return emit(token.Plus)
	case '-':
		return emit(token.Minus)
	case '*':
		return emit(token.Star)
	case '/':
		return emit(token.Slash)
	case '=':
		return emit(token.Assign)
	case '!':
		return emit(token.Bang)
	case '<':
		return emit(token.Lt)
	case '>':
		return emit(token.Gt)
	case '(':
		return emit(token.LParen)
	case ')':
		return emit(token.RParen)
	case '{':
		return emit(token.LBrace)
	case '}':
		return emit(token.RBrace)
	case '[':
		return emit(token.LBracket)
	case ']':
		return emit(token.RBracket)
	case '|':
		return emit(token.Pipe)
	case '&':
		return emit(token.Amp)
	case '#':
		return emit(token.Hash)
	case '.':
		return emit(token.Dot)
	case ',':
		return emit(token.Comma)
	}

	// неизвестный символ: съедаем руну целиком, чтобы каретка встала на неё
	if ch >= utf8.RuneSelf {
		lx.cursor.Off = uint32(start)
		_, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
		lx.cursor.Off += uint32(size) // #nosec G115 -- size <= utf8.UTFMax
	}
	tok := emit(token.Invalid)
	lx.errLex(diag.LexUnknownChar, tok.Span, fmt.Sprintf("unknown character %q", tok.Text))
	return tok
}
