package buildpipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// DefaultAssembler turns app.s into an executable linked against libc.
const DefaultAssembler = "clang"

// AssembleRequest describes one `clang -o OUT app.s` invocation.
type AssembleRequest struct {
	Assembler     string
	AsmPath       string
	Output        string
	PrintCommands bool
	Stdout        io.Writer // command echo and assembler stdout; os.Stdout when nil
}

// Assemble runs the external assembler on an assembly file.
func Assemble(ctx context.Context, req AssembleRequest) error {
	if req.AsmPath == "" || req.Output == "" {
		return fmt.Errorf("assemble: missing input or output path")
	}
	name := req.Assembler
	if name == "" {
		name = DefaultAssembler
	}
	if err := ensureAssemblerAvailable(name); err != nil {
		return err
	}
	return runCommand(ctx, req.Stdout, req.PrintCommands, name, "-o", req.Output, req.AsmPath)
}

func ensureAssemblerAvailable(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		if name == DefaultAssembler {
			return fmt.Errorf("clang not found; install with: sudo apt-get update && sudo apt-get install -y clang")
		}
		return fmt.Errorf("assembler %q not found: %w", name, err)
	}
	return nil
}

func runCommand(ctx context.Context, stdout io.Writer, printCommands bool, name string, args ...string) error {
	if stdout == nil {
		stdout = os.Stdout
	}
	if printCommands {
		if _, err := fmt.Fprintf(stdout, "%s %s\n", name, strings.Join(args, " ")); err != nil {
			return fmt.Errorf("failed to print command: %w", err)
		}
	}
	// #nosec G204 -- the assembler comes from the user's flags or zc.toml
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("%s: %w", name, err)
		}
		return fmt.Errorf("%s: %s", name, msg)
	}
	return nil
}
