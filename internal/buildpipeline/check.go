package buildpipeline

import (
	"context"
	"time"

	"zlang/internal/driver"
)

// CheckRequest configures `zc check`.
type CheckRequest struct {
	Paths          []string
	Jobs           int
	LibDir         string
	MaxDiagnostics int
	Progress       ProgressSink
}

type CheckResult struct {
	Files   []driver.CheckResult
	Timings Timings
	Failed  int
}

// Check lexes, parses and typechecks every source under Paths in parallel.
func Check(ctx context.Context, req CheckRequest) (CheckResult, error) {
	var result CheckResult
	files, err := driver.ListSources(req.Paths)
	if err != nil {
		return result, err
	}
	emitQueued(req.Progress, files)
	start := time.Now()

	results, err := driver.CheckFiles(ctx, files, driver.CheckOptions{
		Jobs:           req.Jobs,
		LibDir:         req.LibDir,
		MaxDiagnostics: req.MaxDiagnostics,
		OnStart: func(path string) {
			if req.Progress != nil {
				req.Progress.OnEvent(Event{File: path, Stage: StageCheck, Status: StatusWorking})
			}
		},
		OnFile: func(r driver.CheckResult) {
			if req.Progress == nil {
				return
			}
			ev := Event{File: r.Path, Stage: StageCheck, Status: StatusDone, Elapsed: r.Elapsed}
			if !r.OK() {
				ev.Status = StatusError
				ev.Err = r.Err
			}
			req.Progress.OnEvent(ev)
		},
	})
	result.Files = results
	for _, r := range results {
		if r.Path == "" {
			continue // не запускался: ctx отменён
		}
		if !r.OK() {
			result.Failed++
		}
		for _, p := range r.Timer.Report().Phases {
			if stage, ok := stageOf(p.Name); ok {
				result.Timings.Add(stage, time.Duration(p.DurationMS*float64(time.Millisecond)))
			}
		}
	}
	status := StatusDone
	if err != nil || result.Failed > 0 {
		status = StatusError
	}
	emitStage(req.Progress, nil, StageCheck, status, err, time.Since(start))
	return result, err
}
