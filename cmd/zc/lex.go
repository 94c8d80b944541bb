package main

import (
	"github.com/spf13/cobra"

	"zlang/internal/diagfmt"
	"zlang/internal/driver"
)

func newLexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lex [flags] <file.z|-|code>",
		Short: "Print the token stream of a Z program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readGlobalOptions(cmd)
			if err != nil {
				return err
			}
			res, err := driver.Tokenize(cmd.Context(), driver.Request{
				Source:         args[0],
				Stdin:          cmd.InOrStdin(),
				MaxDiagnostics: opts.maxDiagnostics,
			})
			if err != nil {
				return reportFailure(cmd, opts, err, res.Bag, res.FileSet)
			}
			out := cmd.OutOrStdout()
			if opts.format == "json" {
				err = diagfmt.FormatTokensJSON(out, res.Tokens)
			} else {
				err = diagfmt.FormatTokensPretty(out, res.Tokens, res.FileSet)
			}
			if err != nil {
				return err
			}
			return renderTimings(cmd.ErrOrStderr(), opts, res.Timer)
		},
	}
}
