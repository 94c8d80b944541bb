package ast_test

import (
	"testing"

	"zlang/internal/ast"
	"zlang/internal/source"
)

func TestBuilderPayloadAccessors(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{})
	sp := source.Span{}
	one := b.Exprs.NewIntLit(sp, 1, "1")
	x := b.Exprs.NewIdent(sp, "x")
	sum := b.Exprs.NewBinary(sp, ast.BinAdd, x, one)
	blk := b.Exprs.NewBlock(sp, []ast.ExprID{sum})

	if bin, ok := b.Exprs.Binary(sum); !ok || bin.Left != x || bin.Right != one {
		t.Fatalf("binary payload = %+v", bin)
	}
	if _, ok := b.Exprs.Binary(x); ok {
		t.Fatal("ident must not answer as binary")
	}
	if lit, ok := b.Exprs.Literal(one); !ok || lit.Value != 1 {
		t.Fatalf("literal = %+v", lit)
	}
	if got := b.Exprs.Children(blk); len(got) != 1 || got[0] != sum {
		t.Fatalf("children = %v", got)
	}

	var order []ast.ExprKind
	b.Exprs.Walk(blk, func(id ast.ExprID) bool {
		order = append(order, b.Exprs.Get(id).Kind)
		return true
	})
	want := []ast.ExprKind{ast.ExprBlock, ast.ExprBinary, ast.ExprIdent, ast.ExprIntLit}
	if len(order) != len(want) {
		t.Fatalf("walk order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("walk order = %v, want %v", order, want)
		}
	}
}

func TestIfChildrenSkipMissingElse(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{})
	sp := source.Span{}
	cond := b.Exprs.NewIntLit(sp, 1, "1")
	then := b.Exprs.NewBlock(sp, nil)
	ifID := b.Exprs.NewIf(sp, cond, then, ast.NoExprID)
	if got := b.Exprs.Children(ifID); len(got) != 2 {
		t.Fatalf("children = %v", got)
	}
}

func TestKindNames(t *testing.T) {
	if ast.ExprCtCall.String() != "CtCall" || ast.BinLe.String() != "<=" || ast.UnaryNot.String() != "!" {
		t.Fatal("unexpected names")
	}
}
