package module

import (
	"zlang/internal/ast"
	"zlang/internal/parser"
)

// Kind tells how a module was created.
type Kind uint8

const (
	KindRoot Kind = iota // builtins only
	KindFile             // loaded from disk or stdin
	KindCode             // inline source text
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindFile:
		return "file"
	case KindCode:
		return "code"
	}
	return "unknown"
}

// Module is one compilation unit (a "box"): its own AST, bindings, module
// scope and global region inside the registry's shared tables.
type Module struct {
	parser.Unit
	Path string
	Kind Kind
	Root ast.ExprID // top-level block
}
