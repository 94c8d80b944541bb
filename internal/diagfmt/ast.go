package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"zlang/internal/ast"
	"zlang/internal/source"
	"zlang/internal/types"
)

type ASTNodeOutput struct {
	Kind     string          `json:"kind"`
	Detail   string          `json:"detail,omitempty"`
	Type     string          `json:"type,omitempty"`
	Span     source.Span     `json:"span"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// FormatASTPretty prints the typed tree under root, one node per line:
//
//	Block 2 stmts : int (1:1-1:20)
//	├─ Fn add(a, b) : fn(int, int) int (1:1-1:17)
//	...
func FormatASTPretty(w io.Writer, builder *ast.Builder, root ast.ExprID, typesIn *types.Interner, fs *source.FileSet) error {
	if builder.Exprs.Get(root) == nil {
		return fmt.Errorf("root node %d not found", root)
	}
	return formatExprPretty(w, builder.Exprs, root, typesIn, fs, "", "")
}

func formatExprPretty(w io.Writer, exprs *ast.Exprs, id ast.ExprID, typesIn *types.Interner, fs *source.FileSet, lead, prefix string) error {
	if _, err := fmt.Fprintf(w, "%s%s\n", lead, exprLabel(exprs, id, typesIn, fs)); err != nil {
		return err
	}
	children := exprs.Children(id)
	for i, child := range children {
		childLead, childPrefix := prefix+"├─ ", prefix+"│  "
		if i == len(children)-1 {
			childLead, childPrefix = prefix+"└─ ", prefix+"   "
		}
		if err := formatExprPretty(w, exprs, child, typesIn, fs, childLead, childPrefix); err != nil {
			return err
		}
	}
	return nil
}

func FormatASTJSON(w io.Writer, builder *ast.Builder, root ast.ExprID, typesIn *types.Interner) error {
	if builder.Exprs.Get(root) == nil {
		return fmt.Errorf("root node %d not found", root)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exprJSON(builder.Exprs, root, typesIn))
}

func exprJSON(exprs *ast.Exprs, id ast.ExprID, typesIn *types.Interner) ASTNodeOutput {
	expr := exprs.Get(id)
	out := ASTNodeOutput{
		Kind:   expr.Kind.String(),
		Detail: exprDetail(exprs, id),
		Span:   expr.Span,
	}
	if expr.Type != types.NoTypeID {
		out.Type = types.Label(typesIn, expr.Type)
	}
	for _, child := range exprs.Children(id) {
		out.Children = append(out.Children, exprJSON(exprs, child, typesIn))
	}
	return out
}

func exprLabel(exprs *ast.Exprs, id ast.ExprID, typesIn *types.Interner, fs *source.FileSet) string {
	expr := exprs.Get(id)
	var b strings.Builder
	b.WriteString(expr.Kind.String())
	if detail := exprDetail(exprs, id); detail != "" {
		b.WriteString(" " + detail)
	}
	if expr.Type != types.NoTypeID {
		b.WriteString(" : " + types.Label(typesIn, expr.Type))
	}
	fmt.Fprintf(&b, " (%s)", formatSpan(expr.Span, fs))
	return b.String()
}

// exprDetail - короткое описание узла без детей.
func exprDetail(exprs *ast.Exprs, id ast.ExprID) string {
	expr := exprs.Get(id)
	switch expr.Kind {
	case ast.ExprIntLit:
		lit, _ := exprs.Literal(id)
		return fmt.Sprintf("%d", lit.Value)
	case ast.ExprCharLit:
		lit, _ := exprs.Literal(id)
		return lit.Text
	case ast.ExprStrLit:
		lit, _ := exprs.Literal(id)
		return fmt.Sprintf("%q", lit.Text)
	case ast.ExprIdent:
		ident, _ := exprs.Ident(id)
		return ident.Name
	case ast.ExprUnary:
		u, _ := exprs.Unary(id)
		return u.Op.String()
	case ast.ExprBinary:
		b, _ := exprs.Binary(id)
		return b.Op.String()
	case ast.ExprAssign:
		return "="
	case ast.ExprBlock:
		b, _ := exprs.Block(id)
		return fmt.Sprintf("%d stmts", len(b.Stmts))
	case ast.ExprIf:
		data, _ := exprs.If(id)
		if data.Else.IsValid() {
			return "else"
		}
		return ""
	case ast.ExprFor, ast.ExprIndex, ast.ExprCall, ast.ExprInvalid:
		return ""
	case ast.ExprCtCall:
		return "#"
	case ast.ExprFn:
		fn, _ := exprs.Fn(id)
		names := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			names[i] = p.Name
		}
		detail := fmt.Sprintf("%s(%s)", fn.Name, strings.Join(names, ", "))
		if !fn.Body.IsValid() {
			detail += " extern"
		}
		return detail
	case ast.ExprArray:
		a, _ := exprs.Array(id)
		return fmt.Sprintf("%d elems", len(a.Elems))
	case ast.ExprPath:
		p, _ := exprs.Path(id)
		return "." + p.Member
	case ast.ExprUse:
		u, _ := exprs.Use(id)
		return u.Name
	case ast.ExprTypeDecl:
		td, _ := exprs.TypeDecl(id)
		names := make([]string, len(td.Fields))
		for i, f := range td.Fields {
			names[i] = f.Name
		}
		return fmt.Sprintf("%s {%s}", td.Name, strings.Join(names, ", "))
	}
	return ""
}

func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs == nil {
		return span.String()
	}
	start, end := fs.Resolve(span)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}
