// Package token defines lexical token kinds for the Z language.
// Invariants:
//   - Token.Span covers the whole lexeme, delimiters included.
//   - Token.Text is the lexeme; for string and char literals the delimiters are stripped.
//   - Newline is a real token: it may terminate a statement.
//   - Type names (int, char) are identifiers; the parser resolves them.
package token
