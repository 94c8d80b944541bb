package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"zlang/internal/driver"
)

type evalPayload struct {
	Value    string `json:"value"`
	ExitCode int    `json:"exit_code"`
}

func newEvalCmd() *cobra.Command {
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "eval [flags] <file.z|-|code>",
		Short: "Interpret a Z program and exit with its value",
		Long: `Interpret a Z program with the tree-walking interpreter. The value of the
last top-level statement is printed and becomes the exit status.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readGlobalOptions(cmd)
			if err != nil {
				return err
			}
			res, err := driver.Eval(cmd.Context(), driver.Request{
				Source:         args[0],
				Stdin:          cmd.InOrStdin(),
				Stdout:         cmd.OutOrStdout(),
				LibDir:         opts.libDir,
				MaxDiagnostics: opts.maxDiagnostics,
				MaxDepth:       maxDepth,
			})
			if err != nil {
				return reportFailure(cmd, opts, err, res.Bag, res.FileSet)
			}
			if err := renderTimings(cmd.ErrOrStderr(), opts, res.Timer); err != nil {
				return err
			}
			switch {
			case opts.format == "json":
				if err := json.NewEncoder(cmd.OutOrStdout()).Encode(evalPayload{
					Value:    res.Value.String(),
					ExitCode: res.ExitCode,
				}); err != nil {
					return err
				}
			case !opts.quiet:
				fmt.Fprintln(cmd.OutOrStdout(), res.Value.String())
			}
			if res.ExitCode != 0 {
				return &exitError{code: res.ExitCode & 0xff}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum interpreter call depth (0 = default)")
	return cmd
}
