// Package fuzztests houses Go fuzz harnesses for the front half of zc
// (source -> lexer -> parser -> mark_type). They only look for panics,
// hangs and broken span invariants on arbitrary input.
//
// Не делает: генерацию кода, интерпретацию (for может крутиться вечно).
package fuzztests
