package diag

import (
	"errors"
	"fmt"
)

// Error carries a fatal diagnostic up to the driver.
// Phases never exit the process; they return *Error and stop.
type Error struct {
	Diag *Diagnostic
}

func (e *Error) Error() string {
	if e == nil || e.Diag == nil {
		return "diagnostic error"
	}
	return fmt.Sprintf("%s: %s", e.Diag.Code.ID(), e.Diag.Message)
}

// AsError wraps d into an error value.
func AsError(d *Diagnostic) error {
	if d == nil {
		return nil
	}
	return &Error{Diag: d}
}

// FromBag returns the first error of the bag as *Error, or nil when the bag is clean.
func FromBag(b *Bag) error {
	return AsError(b.FirstError())
}

// DiagnosticOf extracts the diagnostic carried by err, if any.
func DiagnosticOf(err error) (*Diagnostic, bool) {
	var de *Error
	if errors.As(err, &de) && de.Diag != nil {
		return de.Diag, true
	}
	return nil, false
}
