package buildpipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"zlang/internal/driver"
	"zlang/internal/trace"
)

// Default artefact names of `zc compile`.
const (
	DefaultOutput = "app.exe"
	DefaultAsm    = "app.s"
)

// BuildRequest configures `zc compile`.
type BuildRequest struct {
	Source         string
	Stdin          io.Reader
	LibDir         string
	MaxDiagnostics int
	Cache          *driver.AsmCache

	Output        string // executable; DefaultOutput when empty
	EmitAsm       string // keep the assembly here; a temp file otherwise
	NoLink        bool   // stop after writing the assembly
	Assembler     string
	PrintCommands bool
	Stdout        io.Writer

	Progress ProgressSink
}

// BuildResult captures build artefacts and timings.
type BuildResult struct {
	Compile    *driver.CompileResult
	AsmPath    string // empty when the assembly was a removed temp file
	OutputPath string // empty with NoLink
	Timings    Timings
}

// Build compiles Source to assembly and, unless NoLink is set, assembles
// and links it into an executable.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	var result BuildResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	reqCopy := *req
	req = &reqCopy
	if req.Output == "" {
		req.Output = DefaultOutput
	}
	if req.NoLink && req.EmitAsm == "" {
		req.EmitAsm = DefaultAsm
	}

	files := []string{req.Source}
	emitQueued(req.Progress, files)
	observer := &phaseObserver{sink: req.Progress, files: files, timings: &result.Timings}

	compiled, err := driver.Compile(ctx, driver.Request{
		Source:         req.Source,
		Stdin:          req.Stdin,
		LibDir:         req.LibDir,
		MaxDiagnostics: req.MaxDiagnostics,
		Cache:          req.Cache,
		Observer:       observer.OnPhase,
	})
	result.Compile = compiled
	if err != nil {
		return result, err
	}

	asmPath, cleanup, err := writeAsm(req.EmitAsm, compiled.Asm)
	if err != nil {
		emitStage(req.Progress, files, StageAssemble, StatusError, err, 0)
		return result, err
	}
	defer cleanup()
	if req.EmitAsm != "" {
		result.AsmPath = asmPath
	}
	if req.NoLink {
		return result, nil
	}

	ctx, span := trace.Begin(ctx, trace.ScopePass, "assemble")
	start := time.Now()
	emitStage(req.Progress, files, StageAssemble, StatusWorking, nil, 0)
	err = Assemble(ctx, AssembleRequest{
		Assembler:     req.Assembler,
		AsmPath:       asmPath,
		Output:        req.Output,
		PrintCommands: req.PrintCommands,
		Stdout:        req.Stdout,
	})
	elapsed := time.Since(start)
	result.Timings.Set(StageAssemble, elapsed)
	if err != nil {
		span.End("error")
		emitStage(req.Progress, files, StageAssemble, StatusError, err, elapsed)
		return result, err
	}
	span.End(req.Output)
	emitStage(req.Progress, files, StageAssemble, StatusDone, nil, elapsed)
	result.OutputPath = req.Output
	return result, nil
}

// writeAsm stores asm at path, or in a temp file removed by cleanup when
// path is empty.
func writeAsm(path, asm string) (string, func(), error) {
	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return "", func() {}, fmt.Errorf("failed to create asm dir: %w", err)
			}
		}
		if err := os.WriteFile(path, []byte(asm), 0o600); err != nil {
			return "", func() {}, fmt.Errorf("failed to write assembly %q: %w", path, err)
		}
		return path, func() {}, nil
	}
	f, err := os.CreateTemp("", "zc-*.s")
	if err != nil {
		return "", func() {}, fmt.Errorf("failed to create temp assembly: %w", err)
	}
	cleanup := func() { _ = os.Remove(f.Name()) }
	if _, err := f.WriteString(asm); err != nil {
		_ = f.Close()
		cleanup()
		return "", func() {}, fmt.Errorf("failed to write temp assembly: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", func() {}, err
	}
	return f.Name(), cleanup, nil
}

// AsmPathFor derives foo.s from foo.exe, used for --emit-asm without a value.
func AsmPathFor(output string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + ".s"
}
