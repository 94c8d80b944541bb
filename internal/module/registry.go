package module

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"fortio.org/safecast"

	"zlang/internal/ast"
	"zlang/internal/diag"
	"zlang/internal/lexer"
	"zlang/internal/parser"
	"zlang/internal/source"
	"zlang/internal/symbols"
	"zlang/internal/trace"
	"zlang/internal/types"
)

// DefaultLibDir is where `use NAME` looks for NAME.z.
const DefaultLibDir = "lib"

// MainName is the module name given to the program being run or compiled.
const MainName = "main"

type Options struct {
	LibDir string
	Files  *source.FileSet // shared with the diagnostics renderer; created when nil
}

// Registry is the root box of one compilation: builtins, every loaded
// module by name, and the symbol/type tables they share.
type Registry struct {
	mu       sync.Mutex
	ctx      context.Context
	files    *source.FileSet
	table    *symbols.Table
	types    *types.Interner
	libDir   string
	builtins symbols.ScopeID
	modules  map[string]*Module
	order    []*Module
	loading  map[string]bool
	literals int
}

func NewRegistry(ctx context.Context, opts Options) *Registry {
	if ctx == nil {
		ctx = context.Background()
	}
	files := opts.Files
	if files == nil {
		files = source.NewFileSet()
	}
	libDir := opts.LibDir
	if libDir == "" {
		libDir = DefaultLibDir
	}
	r := &Registry{
		ctx:     ctx,
		files:   files,
		table:   symbols.NewTable(symbols.Hints{Scopes: 64, Symbols: 256, Regions: 16}),
		types:   types.NewInterner(),
		libDir:  libDir,
		modules: make(map[string]*Module),
		loading: make(map[string]bool),
	}
	r.builtins = r.table.Root()
	r.declareBuiltins()
	return r
}

// declareBuiltins registers `puts(s *char)` in the root scope. Both backends
// treat it specially: the interpreter prints, native code calls libc.
func (r *Registry) declareBuiltins() {
	charPtr := r.types.Pointer(r.types.Builtins().Char)
	fnID := r.table.Declare(r.builtins, symbols.NoRegionID, &symbols.Symbol{
		Name:  "puts",
		Kind:  symbols.SymbolFunc,
		Flags: symbols.SymbolFlagExtern,
		Type:  r.types.RegisterFn([]types.TypeID{charPtr}, r.types.Builtins().Int),
	})
	scope := r.table.Scopes.New(symbols.ScopeFunction, r.builtins, source.Span{})
	region := r.table.Regions.New(symbols.RegionFunction, symbols.NoRegionID, fnID, 0)
	param := r.table.Declare(scope, region, &symbols.Symbol{
		Name:  "s",
		Kind:  symbols.SymbolVar,
		Flags: symbols.SymbolFlagParam,
		Type:  charPtr,
	})
	fn := r.table.Get(fnID)
	fn.Params = []symbols.SymbolID{param}
	fn.FnRegion = region
	fn.FuncScope = scope
}

func (r *Registry) Symbols() *symbols.Table       { return r.table }
func (r *Registry) Types() *types.Interner        { return r.types }
func (r *Registry) Files() *source.FileSet        { return r.files }
func (r *Registry) LibDir() string                { return r.libDir }
func (r *Registry) BuiltinScope() symbols.ScopeID { return r.builtins }

// NextLiteral returns L..0, L..1, ... unique across all modules.
func (r *Registry) NextLiteral() string {
	name := fmt.Sprintf("L..%d", r.literals)
	r.literals++
	return name
}

// Module returns a loaded module by name.
func (r *Registry) Module(name string) (*Module, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.modules[name]
	return m, ok
}

// Modules returns the loaded modules in load order; imports come before
// their importers.
func (r *Registry) Modules() []*Module {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Module(nil), r.order...)
}

// NewCode parses inline source text as the main module.
func (r *Registry) NewCode(src string, rep diag.Reporter) (*Module, error) {
	r.mu.Lock()
	id := r.files.AddVirtual(source.InlineName, []byte(src))
	r.mu.Unlock()
	return r.load(MainName, source.InlineName, KindCode, id, rep)
}

// LoadFile parses a file from disk as the main module.
func (r *Registry) LoadFile(path string, rep diag.Reporter) (*Module, error) {
	return r.LoadArg(path, nil, rep)
}

// LoadArg parses a command-line source argument as the main module: a .z/.zs
// path, "-" for stdin, or inline code.
func (r *Registry) LoadArg(arg string, stdin io.Reader, rep diag.Reporter) (*Module, error) {
	r.mu.Lock()
	id, err := r.files.LoadArg(arg, stdin)
	var path string
	if err == nil {
		path = r.files.Get(id).Path
	}
	r.mu.Unlock()
	if err != nil {
		return nil, diag.AsError(diag.NewError(diag.IOLoadFileError, source.Span{}, err.Error()))
	}
	kind := KindFile
	if !source.IsSourcePath(arg) {
		kind = KindCode
	}
	return r.load(MainName, path, kind, id, rep)
}

// Import implements `use NAME`: a loaded module is returned as is, otherwise
// <libdir>/NAME.z is parsed into a new module. First loader wins.
func (r *Registry) Import(name string, at source.Span, rep diag.Reporter) (parser.Imported, error) {
	r.mu.Lock()
	if m, ok := r.modules[name]; ok {
		r.mu.Unlock()
		return parser.Imported{Name: m.Name, Scope: m.Scope}, nil
	}
	if r.loading[name] {
		r.mu.Unlock()
		return parser.Imported{}, diag.AsError(diag.NewError(diag.SemaImportCycle, at,
			fmt.Sprintf("import cycle: module %s is still being parsed", name)))
	}
	path := filepath.Join(r.libDir, name+".z")
	id, err := r.files.Load(path)
	r.mu.Unlock()
	if err != nil {
		return parser.Imported{}, diag.AsError(diag.NewError(diag.IOLoadFileError, at,
			fmt.Sprintf("cannot load module %s from %s: %v", name, path, err)))
	}

	m, err := r.load(name, path, KindFile, id, rep)
	if err != nil {
		return parser.Imported{}, fmt.Errorf("%w: %s: %w", parser.ErrImportFailed, name, err)
	}
	return parser.Imported{Name: m.Name, Scope: m.Scope}, nil
}

func (r *Registry) load(name, path string, kind Kind, file source.FileID, rep diag.Reporter) (*Module, error) {
	_, span := trace.Begin(r.ctx, trace.ScopeModule, "module:"+name)
	defer span.End("")
	span.With("path", path)

	r.mu.Lock()
	if r.loading[name] {
		r.mu.Unlock()
		return nil, diag.AsError(diag.NewError(diag.SemaImportCycle, source.Span{File: file},
			fmt.Sprintf("import cycle: module %s is still being parsed", name)))
	}
	r.loading[name] = true
	src := r.files.Get(file)
	m := &Module{
		Unit: parser.Unit{
			Name:      name,
			File:      file,
			Builder:   ast.NewBuilder(ast.Hints{Exprs: uint(len(src.Content)/2 + 16)}),
			Bindings:  &symbols.Bindings{},
			TypeNames: make(map[string]types.TypeID),
		},
		Path: path,
		Kind: kind,
	}
	end, err := safecast.Conv[uint32](len(src.Content))
	if err != nil {
		delete(r.loading, name)
		r.mu.Unlock()
		return nil, fmt.Errorf("module %s too large: %w", name, err)
	}
	modSpan := source.Span{File: file, End: end}
	m.Scope = r.table.Scopes.New(symbols.ScopeModule, r.builtins, modSpan)
	m.Region = r.table.Regions.New(symbols.RegionGlobal, symbols.NoRegionID, symbols.NoSymbolID, file)
	fileCopy := *src
	r.mu.Unlock()

	first := &firstError{inner: rep}
	if first.inner == nil {
		first.inner = diag.NopReporter{}
	}
	lx := lexer.New(&fileCopy, lexer.Options{Reporter: first})
	root, ok := parser.ParseModule(r, &m.Unit, lx, parser.Options{Reporter: first})

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.loading, name)
	if !ok {
		span.With("status", "error")
		if first.diag != nil {
			return nil, diag.AsError(first.diag)
		}
		return nil, fmt.Errorf("parse %s failed", strings.TrimSpace(path))
	}
	m.Root = root
	if existing, dup := r.modules[name]; dup {
		return existing, nil
	}
	r.modules[name] = m
	r.order = append(r.order, m)
	return m, nil
}

// firstError forwards diagnostics and remembers the first error.
type firstError struct {
	inner diag.Reporter
	diag  *diag.Diagnostic
}

func (f *firstError) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if sev == diag.SevError && f.diag == nil {
		f.diag = &diag.Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes}
	}
	f.inner.Report(code, sev, primary, msg, notes)
}
