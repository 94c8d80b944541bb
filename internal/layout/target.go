package layout

// Target describes the ABI target triple and its pointer properties.
//
// Only x86_64 SysV is implemented.
type Target struct {
	Triple     string // e.g. "x86_64-linux-gnu"
	PtrSize    int    // bytes
	PtrAlign   int    // bytes
	StackAlign int    // bytes, frame size is rounded up to this
	IntSize    int    // bytes of the language int
}

func X86_64LinuxGNU() Target {
	return Target{
		Triple:     "x86_64-linux-gnu",
		PtrSize:    8,
		PtrAlign:   8,
		StackAlign: 16,
		IntSize:    8,
	}
}
