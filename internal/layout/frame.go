package layout

import (
	"fmt"

	"fortio.org/safecast"
)

// Frame assigns slots below the frame base in declaration order.
// Offsets are positive distances from rbp: the slot lives at [rbp-Offset].
type Frame struct {
	align int
	used  int
}

// NewFrame starts an empty frame for the target.
func (e *LayoutEngine) NewFrame() *Frame {
	return &Frame{align: e.Target.StackAlign}
}

// Alloc reserves size bytes and returns the slot offset.
// Slots are never smaller than one byte.
func (f *Frame) Alloc(size int) int {
	f.used += max(size, 1)
	return f.used
}

// Size is the frame size rounded up to the stack alignment.
func (f *Frame) Size() int {
	return AlignTo(f.used, f.align)
}

// Size32 returns Size as uint32 for emitters that work in fixed-width units.
func (f *Frame) Size32() (uint32, error) {
	n, err := safecast.Conv[uint32](f.Size())
	if err != nil {
		return 0, fmt.Errorf("frame size overflow: %w", err)
	}
	return n, nil
}
