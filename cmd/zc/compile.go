package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"zlang/internal/buildpipeline"
	"zlang/internal/driver"
	"zlang/internal/ui"
)

const emitAsmAuto = "auto"

type compileFlags struct {
	output        string
	emitAsm       string
	noLink        bool
	noCache       bool
	printCommands bool
	ui            string
}

func newCompileCmd() *cobra.Command {
	var flags compileFlags
	cmd := &cobra.Command{
		Use:   "compile [flags] <file.z|-|code>",
		Short: "Compile a Z program to an x86-64 executable",
		Long: `Generate x86-64 assembly (Intel syntax) for a Z program and hand it to the
assembler (clang by default) to produce an executable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, args[0], flags)
		},
	}
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "executable path (default: zc.toml [build].output or app.exe)")
	cmd.Flags().StringVar(&flags.emitAsm, "emit-asm", "", "keep the generated assembly at this path")
	cmd.Flags().Lookup("emit-asm").NoOptDefVal = emitAsmAuto
	cmd.Flags().BoolVar(&flags.noLink, "no-link", false, "stop after writing the assembly")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "bypass the assembly cache")
	cmd.Flags().BoolVar(&flags.printCommands, "print-commands", false, "print the assembler command line")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	return cmd
}

func runCompile(cmd *cobra.Command, src string, flags compileFlags) error {
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

	manifest := opts.manifest
	output := flags.output
	if output == "" {
		output = manifest.Output()
	}
	emitAsm := flags.emitAsm
	if emitAsm == "" {
		emitAsm = manifest.Build.EmitAsm
	}
	if emitAsm == emitAsmAuto {
		emitAsm = buildpipeline.AsmPathFor(output)
	}

	req := &buildpipeline.BuildRequest{
		Source:         src,
		Stdin:          cmd.InOrStdin(),
		LibDir:         opts.libDir,
		MaxDiagnostics: opts.maxDiagnostics,
		Output:         output,
		EmitAsm:        emitAsm,
		NoLink:         flags.noLink,
		Assembler:      manifest.Assembler(),
		PrintCommands:  flags.printCommands,
		Stdout:         cmd.OutOrStdout(),
	}
	if manifest.Build.Cache && !flags.noCache {
		// кэш необязателен: без него просто генерируем заново
		if cache, cacheErr := driver.OpenAsmCache("zc"); cacheErr == nil {
			req.Cache = cache
		}
	}

	var res buildpipeline.BuildResult
	if shouldUseTUI(mode, opts) {
		res, err = buildWithProgress(cmd, req)
	} else {
		res, err = buildpipeline.Build(cmd.Context(), req)
	}
	if err != nil {
		if res.Compile != nil {
			return reportFailure(cmd, opts, err, res.Compile.Bag, res.Compile.FileSet)
		}
		return err
	}

	if res.Compile != nil {
		if err := renderTimings(cmd.ErrOrStderr(), opts, res.Compile.Timer); err != nil {
			return err
		}
	}
	if opts.timings && res.Timings.Has(buildpipeline.StageAssemble) && opts.format != "json" {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %-20s %7.2f ms\n", "assemble",
			float64(res.Timings.Duration(buildpipeline.StageAssemble).Microseconds())/1000)
	}
	if !opts.quiet && opts.format != "json" {
		if res.AsmPath != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", res.AsmPath)
		}
		if res.OutputPath != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "built %s\n", res.OutputPath)
		}
	}
	return nil
}

// buildWithProgress runs Build while the progress TUI renders its events.
func buildWithProgress(cmd *cobra.Command, req *buildpipeline.BuildRequest) (buildpipeline.BuildResult, error) {
	events := make(chan buildpipeline.Event, 64)
	req.Progress = buildpipeline.ChannelSink{Ch: events}

	var wg sync.WaitGroup
	var uiErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		uiErr = ui.Run(cmd.ErrOrStderr(), "compile", []string{req.Source}, events)
	}()

	res, err := buildpipeline.Build(cmd.Context(), req)
	close(events)
	wg.Wait()
	if err == nil && uiErr != nil {
		err = uiErr
	}
	return res, err
}
