package main

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"zlang/internal/buildpipeline"
	"zlang/internal/diagfmt"
	"zlang/internal/driver"
	"zlang/internal/ui"
)

type checkFilePayload struct {
	Path        string                    `json:"path"`
	OK          bool                      `json:"ok"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

func newCheckCmd() *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "check [flags] <path>...",
		Short: "Lex, parse and typecheck Z files in parallel",
		Long:  `Check every .z/.zs file named on the command line; directories are walked recursively.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readGlobalOptions(cmd)
			if err != nil {
				return err
			}
			uiValue, err := cmd.Flags().GetString("ui")
			if err != nil {
				return fmt.Errorf("failed to get ui flag: %w", err)
			}
			mode, err := readUIMode(uiValue)
			if err != nil {
				return err
			}

			req := buildpipeline.CheckRequest{
				Paths:          args,
				Jobs:           jobs,
				LibDir:         opts.libDir,
				MaxDiagnostics: opts.maxDiagnostics,
			}
			var res buildpipeline.CheckResult
			if shouldUseTUI(mode, opts) {
				res, err = checkWithProgress(cmd, req)
			} else {
				res, err = buildpipeline.Check(cmd.Context(), req)
			}
			if err != nil {
				return err
			}
			return renderCheck(cmd, opts, res)
		},
	}
	cmd.Flags().IntVar(&jobs, "jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	return cmd
}

func checkWithProgress(cmd *cobra.Command, req buildpipeline.CheckRequest) (buildpipeline.CheckResult, error) {
	files, err := driver.ListSources(req.Paths)
	if err != nil {
		return buildpipeline.CheckResult{}, err
	}
	events := make(chan buildpipeline.Event, 64)
	req.Progress = buildpipeline.ChannelSink{Ch: events}

	var wg sync.WaitGroup
	var uiErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		uiErr = ui.Run(cmd.ErrOrStderr(), "check", files, events)
	}()

	res, err := buildpipeline.Check(cmd.Context(), req)
	close(events)
	wg.Wait()
	if err == nil && uiErr != nil {
		err = uiErr
	}
	return res, err
}

func renderCheck(cmd *cobra.Command, opts *globalOptions, res buildpipeline.CheckResult) error {
	if opts.format == "json" {
		payload := make([]checkFilePayload, 0, len(res.Files))
		for _, f := range res.Files {
			if f.Path == "" {
				continue
			}
			item := checkFilePayload{Path: f.Path, OK: f.OK()}
			if f.Bag != nil {
				item.Diagnostics = diagfmt.BuildDiagnosticsOutput(f.Bag, f.FileSet, diagfmt.JSONOpts{
					IncludePositions: true,
					Max:              opts.maxDiagnostics,
				})
			}
			payload = append(payload, item)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return err
		}
	} else {
		for _, f := range res.Files {
			if f.Path == "" {
				continue
			}
			if f.Bag != nil && f.Bag.Len() > 0 {
				if err := renderDiagnostics(cmd, opts, f.Bag, f.FileSet); err != nil {
					return err
				}
			} else if f.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", f.Path, f.Err)
			}
		}
		if opts.timings {
			fmt.Fprintf(cmd.ErrOrStderr(), "timings: parse %v, check %v\n",
				res.Timings.Duration(buildpipeline.StageParse), res.Timings.Duration(buildpipeline.StageCheck))
		}
		if !opts.quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "checked %d files, %d failed\n", len(res.Files), res.Failed)
		}
	}
	if res.Failed > 0 {
		return &exitError{code: 1}
	}
	return nil
}
