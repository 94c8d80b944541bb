package ast

import (
	"fmt"

	"zlang/internal/source"
	"zlang/internal/types"
)

type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprIntLit
	ExprCharLit
	ExprStrLit
	ExprIdent
	ExprUnary
	ExprBinary
	ExprAssign
	ExprBlock
	ExprIf
	ExprFor
	ExprFn
	ExprCall
	ExprCtCall
	ExprArray
	ExprIndex
	ExprPath
	ExprUse
	ExprTypeDecl
)

var exprKindNames = [...]string{
	ExprInvalid:  "Invalid",
	ExprIntLit:   "Int",
	ExprCharLit:  "Char",
	ExprStrLit:   "Str",
	ExprIdent:    "Ident",
	ExprUnary:    "Unary",
	ExprBinary:   "Binary",
	ExprAssign:   "Assign",
	ExprBlock:    "Block",
	ExprIf:       "If",
	ExprFor:      "For",
	ExprFn:       "Fn",
	ExprCall:     "Call",
	ExprCtCall:   "CtCall",
	ExprArray:    "Array",
	ExprIndex:    "Index",
	ExprPath:     "Path",
	ExprUse:      "Use",
	ExprTypeDecl: "TypeDecl",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return fmt.Sprintf("ExprKind(%d)", k)
}

// Expr is one AST node. Type is NoTypeID until the typer visits the node.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
	Type    types.TypeID
}

type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota
	UnaryAddr
	UnaryDeref
	UnaryNot
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryAddr:
		return "&"
	case UnaryDeref:
		return "*"
	case UnaryNot:
		return "!"
	}
	return "?"
}

// BinaryOp - после разбора `>`/`>=` уже переписаны в `<`/`<=`.
type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinEq
	BinNe
	BinLt
	BinLe
)

func (op BinaryOp) String() string {
	switch op {
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMul:
		return "*"
	case BinDiv:
		return "/"
	case BinEq:
		return "=="
	case BinNe:
		return "!="
	case BinLt:
		return "<"
	case BinLe:
		return "<="
	}
	return "?"
}

// IsComparison reports whether op yields a 0/1 int.
func (op BinaryOp) IsComparison() bool {
	return op == BinEq || op == BinNe || op == BinLt || op == BinLe
}

type LiteralData struct {
	Value int64  // int and char literals
	Text  string // raw text; string body for strings
}

type IdentData struct {
	Name string
}

type UnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

type BinaryData struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

type AssignData struct {
	Target ExprID
	Value  ExprID
}

type BlockData struct {
	Stmts []ExprID
}

type IfData struct {
	Cond ExprID
	Then ExprID
	Else ExprID // NoExprID, a block, or a nested if
}

type ForData struct {
	Cond ExprID
	Body ExprID
}

type Param struct {
	Name string
	Span source.Span
}

type FnData struct {
	Name   string
	Params []Param
	Body   ExprID // NoExprID for extern declarations
}

type CallData struct {
	Callee ExprID // Ident or Path
	Args   []ExprID
}

type ArrayData struct {
	Elems []ExprID
}

type IndexData struct {
	Target ExprID
	Index  ExprID
}

type PathData struct {
	Module     ExprID // Ident bound to a module symbol
	Member     string
	MemberSpan source.Span
}

type UseData struct {
	Name string
}

type FieldDecl struct {
	Name string
	Span source.Span
	Type types.TypeID
}

type TypeDeclData struct {
	Name   string
	Fields []FieldDecl
	Type   types.TypeID
}
