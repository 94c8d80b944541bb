package ast

import (
	"zlang/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena     *Arena[Expr]
	Literals  *Arena[LiteralData]
	Idents    *Arena[IdentData]
	Unaries   *Arena[UnaryData]
	Binaries  *Arena[BinaryData]
	Assigns   *Arena[AssignData]
	Blocks    *Arena[BlockData]
	Ifs       *Arena[IfData]
	Fors      *Arena[ForData]
	Fns       *Arena[FnData]
	Calls     *Arena[CallData]
	Arrays    *Arena[ArrayData]
	Indices   *Arena[IndexData]
	Paths     *Arena[PathData]
	Uses      *Arena[UseData]
	TypeDecls *Arena[TypeDeclData]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint as the initial capacity.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := max(capHint/8, 4)
	return &Exprs{
		Arena:     NewArena[Expr](capHint),
		Literals:  NewArena[LiteralData](capHint),
		Idents:    NewArena[IdentData](capHint),
		Unaries:   NewArena[UnaryData](small),
		Binaries:  NewArena[BinaryData](capHint),
		Assigns:   NewArena[AssignData](small),
		Blocks:    NewArena[BlockData](small),
		Ifs:       NewArena[IfData](small),
		Fors:      NewArena[ForData](small),
		Fns:       NewArena[FnData](small),
		Calls:     NewArena[CallData](small),
		Arrays:    NewArena[ArrayData](small),
		Indices:   NewArena[IndexData](small),
		Paths:     NewArena[PathData](small),
		Uses:      NewArena[UseData](small),
		TypeDecls: NewArena[TypeDeclData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// Len is the number of allocated expressions.
func (e *Exprs) Len() uint32 { return e.Arena.Len() }

func (e *Exprs) payload(id ExprID, kinds ...ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil {
		return 0, false
	}
	for _, k := range kinds {
		if expr.Kind == k {
			return uint32(expr.Payload), true
		}
	}
	return 0, false
}

// NewIntLit creates an integer literal.
func (e *Exprs) NewIntLit(span source.Span, value int64, text string) ExprID {
	return e.new(ExprIntLit, span, e.Literals.Allocate(LiteralData{Value: value, Text: text}))
}

// NewCharLit creates a character literal; value is its first byte.
func (e *Exprs) NewCharLit(span source.Span, value int64, text string) ExprID {
	return e.new(ExprCharLit, span, e.Literals.Allocate(LiteralData{Value: value, Text: text}))
}

// NewStrLit creates a string literal.
func (e *Exprs) NewStrLit(span source.Span, text string) ExprID {
	return e.new(ExprStrLit, span, e.Literals.Allocate(LiteralData{Text: text}))
}

// Literal returns literal data for int, char and string nodes.
func (e *Exprs) Literal(id ExprID) (*LiteralData, bool) {
	p, ok := e.payload(id, ExprIntLit, ExprCharLit, ExprStrLit)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(p), true
}

// NewIdent creates a new identifier expression.
func (e *Exprs) NewIdent(span source.Span, name string) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(IdentData{Name: name}))
}

// Ident returns the identifier data for the given expression ID.
func (e *Exprs) Ident(id ExprID) (*IdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

// NewUnary creates a new unary expression.
func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(UnaryData{Op: op, Operand: operand}))
}

// Unary returns the unary data for the given expression ID.
func (e *Exprs) Unary(id ExprID) (*UnaryData, bool) {
	p, ok := e.payload(id, ExprUnary)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(p), true
}

// NewBinary creates a new binary expression.
func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(BinaryData{Op: op, Left: left, Right: right}))
}

// Binary returns the binary data for the given expression ID.
func (e *Exprs) Binary(id ExprID) (*BinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

// NewAssign creates target = value.
func (e *Exprs) NewAssign(span source.Span, target, value ExprID) ExprID {
	return e.new(ExprAssign, span, e.Assigns.Allocate(AssignData{Target: target, Value: value}))
}

// Assign returns the assignment data for the given expression ID.
func (e *Exprs) Assign(id ExprID) (*AssignData, bool) {
	p, ok := e.payload(id, ExprAssign)
	if !ok {
		return nil, false
	}
	return e.Assigns.Get(p), true
}

// NewBlock creates a statement list.
func (e *Exprs) NewBlock(span source.Span, stmts []ExprID) ExprID {
	return e.new(ExprBlock, span, e.Blocks.Allocate(BlockData{Stmts: stmts}))
}

// Block returns the block data for the given expression ID.
func (e *Exprs) Block(id ExprID) (*BlockData, bool) {
	p, ok := e.payload(id, ExprBlock)
	if !ok {
		return nil, false
	}
	return e.Blocks.Get(p), true
}

// NewIf creates an if/else expression; els may be NoExprID.
func (e *Exprs) NewIf(span source.Span, cond, then, els ExprID) ExprID {
	return e.new(ExprIf, span, e.Ifs.Allocate(IfData{Cond: cond, Then: then, Else: els}))
}

// If returns the if data for the given expression ID.
func (e *Exprs) If(id ExprID) (*IfData, bool) {
	p, ok := e.payload(id, ExprIf)
	if !ok {
		return nil, false
	}
	return e.Ifs.Get(p), true
}

// NewFor creates a conditional loop.
func (e *Exprs) NewFor(span source.Span, cond, body ExprID) ExprID {
	return e.new(ExprFor, span, e.Fors.Allocate(ForData{Cond: cond, Body: body}))
}

// For returns the loop data for the given expression ID.
func (e *Exprs) For(id ExprID) (*ForData, bool) {
	p, ok := e.payload(id, ExprFor)
	if !ok {
		return nil, false
	}
	return e.Fors.Get(p), true
}

// NewFn creates a function definition (or extern declaration when body is NoExprID).
func (e *Exprs) NewFn(span source.Span, name string, params []Param, body ExprID) ExprID {
	return e.new(ExprFn, span, e.Fns.Allocate(FnData{Name: name, Params: params, Body: body}))
}

// Fn returns the function data for the given expression ID.
func (e *Exprs) Fn(id ExprID) (*FnData, bool) {
	p, ok := e.payload(id, ExprFn)
	if !ok {
		return nil, false
	}
	return e.Fns.Get(p), true
}

// NewCall creates a call; compileTime selects a #call.
func (e *Exprs) NewCall(span source.Span, callee ExprID, args []ExprID, compileTime bool) ExprID {
	kind := ExprCall
	if compileTime {
		kind = ExprCtCall
	}
	return e.new(kind, span, e.Calls.Allocate(CallData{Callee: callee, Args: args}))
}

// Call returns the call data for runtime and compile-time calls.
func (e *Exprs) Call(id ExprID) (*CallData, bool) {
	p, ok := e.payload(id, ExprCall, ExprCtCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

// NewArray creates an array literal.
func (e *Exprs) NewArray(span source.Span, elems []ExprID) ExprID {
	return e.new(ExprArray, span, e.Arrays.Allocate(ArrayData{Elems: elems}))
}

// Array returns the array literal data for the given expression ID.
func (e *Exprs) Array(id ExprID) (*ArrayData, bool) {
	p, ok := e.payload(id, ExprArray)
	if !ok {
		return nil, false
	}
	return e.Arrays.Get(p), true
}

// NewIndex creates target[index].
func (e *Exprs) NewIndex(span source.Span, target, index ExprID) ExprID {
	return e.new(ExprIndex, span, e.Indices.Allocate(IndexData{Target: target, Index: index}))
}

// Index returns the index data for the given expression ID.
func (e *Exprs) Index(id ExprID) (*IndexData, bool) {
	p, ok := e.payload(id, ExprIndex)
	if !ok {
		return nil, false
	}
	return e.Indices.Get(p), true
}

// NewPath creates module.member.
func (e *Exprs) NewPath(span source.Span, module ExprID, member string, memberSpan source.Span) ExprID {
	return e.new(ExprPath, span, e.Paths.Allocate(PathData{Module: module, Member: member, MemberSpan: memberSpan}))
}

// Path returns the path data for the given expression ID.
func (e *Exprs) Path(id ExprID) (*PathData, bool) {
	p, ok := e.payload(id, ExprPath)
	if !ok {
		return nil, false
	}
	return e.Paths.Get(p), true
}

// NewUse creates a module import.
func (e *Exprs) NewUse(span source.Span, name string) ExprID {
	return e.new(ExprUse, span, e.Uses.Allocate(UseData{Name: name}))
}

// Use returns the import data for the given expression ID.
func (e *Exprs) Use(id ExprID) (*UseData, bool) {
	p, ok := e.payload(id, ExprUse)
	if !ok {
		return nil, false
	}
	return e.Uses.Get(p), true
}

// NewTypeDecl creates a named record type declaration.
func (e *Exprs) NewTypeDecl(span source.Span, data TypeDeclData) ExprID {
	return e.new(ExprTypeDecl, span, e.TypeDecls.Allocate(data))
}

// TypeDecl returns the type declaration data for the given expression ID.
func (e *Exprs) TypeDecl(id ExprID) (*TypeDeclData, bool) {
	p, ok := e.payload(id, ExprTypeDecl)
	if !ok {
		return nil, false
	}
	return e.TypeDecls.Get(p), true
}
