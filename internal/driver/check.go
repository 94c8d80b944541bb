package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"zlang/internal/diag"
	"zlang/internal/observ"
	"zlang/internal/source"
	"zlang/internal/trace"
)

type CheckOptions struct {
	Jobs           int // 0 means GOMAXPROCS
	LibDir         string
	MaxDiagnostics int
	// OnStart and OnFile are called from worker goroutines, one call at a time.
	OnStart func(path string)
	OnFile  func(CheckResult)
}

// CheckResult is the outcome of lexing, parsing and typing one file.
type CheckResult struct {
	Path    string
	FileSet *source.FileSet
	Bag     *diag.Bag
	Err     error
	Timer   *observ.Timer
	Elapsed time.Duration
}

func (r CheckResult) OK() bool { return r.Err == nil && (r.Bag == nil || !r.Bag.HasErrors()) }

// ListSources expands paths into a sorted list of .z/.zs files; directories
// are walked recursively.
func ListSources(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", root, err)
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && source.IsSourcePath(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckFiles проверяет файлы параллельно, каждый в собственном реестре
// модулей. Ошибки файлов попадают в результаты; error возвращается только
// при отмене ctx или проблемах с обходом каталогов.
func CheckFiles(ctx context.Context, paths []string, opts CheckOptions) ([]CheckResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	files, err := ListSources(paths)
	if err != nil {
		return nil, err
	}
	ctx, span := trace.Begin(ctx, trace.ScopeDriver, "check")
	defer span.End(fmt.Sprintf("%d files", len(files)))

	results := make([]CheckResult, len(files))
	if len(files) == 0 {
		return results, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	var cbMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if opts.OnStart != nil {
				cbMu.Lock()
				opts.OnStart(path)
				cbMu.Unlock()
			}

			started := time.Now()
			parsed, err := Parse(gctx, Request{
				Source:         path,
				LibDir:         opts.LibDir,
				MaxDiagnostics: opts.MaxDiagnostics,
			})
			results[i] = CheckResult{
				Path:    path,
				FileSet: parsed.FileSet,
				Bag:     parsed.Bag,
				Err:     err,
				Timer:   parsed.Timer,
				Elapsed: time.Since(started),
			}

			if opts.OnFile != nil {
				cbMu.Lock()
				opts.OnFile(results[i])
				cbMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
