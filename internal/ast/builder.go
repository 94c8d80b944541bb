package ast

type Hints struct{ Exprs uint }

// Builder owns every node of one module.
type Builder struct {
	Exprs *Exprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	return &Builder{
		Exprs: NewExprs(hints.Exprs),
	}
}
