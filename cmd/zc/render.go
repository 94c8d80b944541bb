package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"zlang/internal/diag"
	"zlang/internal/diagfmt"
	"zlang/internal/observ"
	"zlang/internal/source"
	"zlang/internal/vm"
)

// renderDiagnostics prints the bag to stderr (pretty) or stdout (json).
func renderDiagnostics(cmd *cobra.Command, opts *globalOptions, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	if opts.format == "json" {
		return diagfmt.JSON(cmd.OutOrStdout(), bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			Max:              opts.maxDiagnostics,
			IncludeNotes:     true,
		})
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{
		Color:     opts.color,
		ShowNotes: true,
		Max:       opts.maxDiagnostics,
	})
	return nil
}

// reportFailure renders what err carries and turns it into exit status 1.
// Diagnostics are expected in bag already; runtime errors get a backtrace.
func reportFailure(cmd *cobra.Command, opts *globalOptions, err error, bag *diag.Bag, fs *source.FileSet) error {
	if renderErr := renderDiagnostics(cmd, opts, bag, fs); renderErr != nil {
		return renderErr
	}
	var vmErr *vm.VMError
	switch {
	case errors.As(err, &vmErr):
		fmt.Fprintln(cmd.ErrOrStderr(), vmErr.FormatWithFiles(fs))
	case bag != nil && bag.HasErrors():
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "zc: %v\n", err)
	}
	return &exitError{code: 1}
}

func renderTimings(w io.Writer, opts *globalOptions, timer *observ.Timer) error {
	if !opts.timings || timer == nil {
		return nil
	}
	if opts.format == "json" {
		enc := json.NewEncoder(w)
		return enc.Encode(timer.Report())
	}
	_, err := fmt.Fprint(w, timer.Summary())
	return err
}
