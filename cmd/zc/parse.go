package main

import (
	"github.com/spf13/cobra"

	"zlang/internal/diagfmt"
	"zlang/internal/driver"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [flags] <file.z|-|code>",
		Short: "Print the typed syntax tree of a Z program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readGlobalOptions(cmd)
			if err != nil {
				return err
			}
			res, err := driver.Parse(cmd.Context(), driver.Request{
				Source:         args[0],
				Stdin:          cmd.InOrStdin(),
				LibDir:         opts.libDir,
				MaxDiagnostics: opts.maxDiagnostics,
			})
			if err != nil {
				return reportFailure(cmd, opts, err, res.Bag, res.FileSet)
			}
			mod := res.Module
			out := cmd.OutOrStdout()
			if opts.format == "json" {
				err = diagfmt.FormatASTJSON(out, mod.Builder, mod.Root, res.Registry.Types())
			} else {
				err = diagfmt.FormatASTPretty(out, mod.Builder, mod.Root, res.Registry.Types(), res.FileSet)
			}
			if err != nil {
				return err
			}
			return renderTimings(cmd.ErrOrStderr(), opts, res.Timer)
		},
	}
}
