package layout

import (
	"testing"

	"zlang/internal/types"
)

func newEngine() (*LayoutEngine, *types.Interner) {
	in := types.NewInterner()
	return New(X86_64LinuxGNU(), in), in
}

func TestScalarAndCompoundSizes(t *testing.T) {
	e, in := newEngine()
	b := in.Builtins()
	cases := []struct {
		name string
		id   types.TypeID
		size int
	}{
		{"int", b.Int, 8},
		{"char", b.Char, 1},
		{"pointer", in.Pointer(b.Char), 8},
		{"array int", in.Array(b.Int, 3), 24},
		{"array char", in.Array(b.Char, 5), 5},
		{"nested array", in.Array(in.Array(b.Int, 2), 3), 48},
		{"str", in.Str(6), 6},
		{"fn", in.RegisterFn(nil, b.Int), 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.SizeOf(tc.id)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.size {
				t.Errorf("size = %d, want %d", got, tc.size)
			}
		})
	}
}

func TestNamedFieldsAreAligned(t *testing.T) {
	e, in := newEngine()
	b := in.Builtins()
	named := in.RegisterNamed("P", []types.Field{
		{Name: "c", Type: b.Char},
		{Name: "n", Type: b.Int},
		{Name: "d", Type: b.Char},
	})
	l, err := e.LayoutOf(named)
	if err != nil {
		t.Fatal(err)
	}
	if l.Size != 17 || l.Align != 8 {
		t.Errorf("layout = %+v", l)
	}
	if off, _ := e.FieldOffset(named, 1); off != 8 {
		t.Errorf("field n at %d", off)
	}
}

func TestUnknownTypeIsAnError(t *testing.T) {
	e, _ := newEngine()
	if _, err := e.SizeOf(types.NoTypeID); err == nil {
		t.Fatal("expected error for NoTypeID")
	}
}

func TestFrameAlignment(t *testing.T) {
	e, _ := newEngine()
	f := e.NewFrame()
	if f.Size() != 0 {
		t.Fatalf("empty frame = %d", f.Size())
	}
	if off := f.Alloc(8); off != 8 {
		t.Errorf("first slot at %d", off)
	}
	if off := f.Alloc(24); off != 32 {
		t.Errorf("array slot at %d", off)
	}
	f.Alloc(1)
	if f.Size() != 48 {
		t.Errorf("frame size = %d, want 48", f.Size())
	}
}

func TestAlignTo(t *testing.T) {
	for _, tc := range []struct{ n, a, want int }{{0, 16, 0}, {1, 16, 16}, {16, 16, 16}, {17, 8, 24}, {5, 1, 5}} {
		if got := AlignTo(tc.n, tc.a); got != tc.want {
			t.Errorf("AlignTo(%d,%d) = %d, want %d", tc.n, tc.a, got, tc.want)
		}
	}
}
