package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"zlang/internal/ast"
	"zlang/internal/source"
)

// CheckSpanInvariants walks the tree under root and checks:
// 1) every span points into sf and stays within its content
// 2) every node except an empty root has a non-empty span
// 3) a node's span contains the spans of its children
// 4) children appear in source order without overlapping
func CheckSpanInvariants(b *ast.Builder, root ast.ExprID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	if b.Exprs.Get(root) == nil {
		return fmt.Errorf("root node %d not found", root)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var failure error
	b.Exprs.Walk(root, func(id ast.ExprID) bool {
		if failure != nil {
			return false
		}
		failure = checkNode(b.Exprs, id, id == root, sf.ID, lenContent)
		return failure == nil
	})
	return failure
}

func checkNode(exprs *ast.Exprs, id ast.ExprID, isRoot bool, file source.FileID, lenContent uint32) error {
	expr := exprs.Get(id)
	sp := expr.Span
	if sp.File != file {
		return fmt.Errorf("%s #%d: span file mismatch: got=%d want=%d", expr.Kind, id, sp.File, file)
	}
	if sp.End > lenContent || sp.Start > sp.End {
		return fmt.Errorf("%s #%d: span %v outside content of %d bytes", expr.Kind, id, sp, lenContent)
	}
	children := exprs.Children(id)
	if sp.Empty() && !(isRoot && len(children) == 0) {
		return fmt.Errorf("%s #%d: empty span %v", expr.Kind, id, sp)
	}

	var prevEnd uint32
	for i, child := range children {
		csp := exprs.Get(child).Span
		if csp.Start < sp.Start || csp.End > sp.End {
			return fmt.Errorf("%s #%d: child span %v is outside %v", expr.Kind, id, csp, sp)
		}
		if i > 0 && csp.Start < prevEnd {
			return fmt.Errorf("%s #%d: child %d at %v overlaps its predecessor", expr.Kind, id, i, csp)
		}
		prevEnd = csp.End
	}
	return nil
}
