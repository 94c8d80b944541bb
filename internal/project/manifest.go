package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"zlang/internal/diag"
	"zlang/internal/source"
)

// Manifest is the content of zc.toml:
//
//	[project]
//	name = "demo"
//	lib = "lib"
//
//	[build]
//	assembler = "clang"
//	output = "app.exe"
//	cache = true
//	emit_asm = "app.s"
type Manifest struct {
	Path    string       `toml:"-"`
	Project ProjectTable `toml:"project"`
	Build   BuildTable   `toml:"build"`
}

type ProjectTable struct {
	Name string `toml:"name"`
	Lib  string `toml:"lib"`
}

type BuildTable struct {
	Assembler string `toml:"assembler"`
	Output    string `toml:"output"`
	Cache     bool   `toml:"cache"`
	EmitAsm   string `toml:"emit_asm"`
}

// Defaults used when zc.toml is absent or leaves a key unset.
const (
	DefaultAssembler = "clang"
	DefaultOutput    = "app.exe"
	DefaultLib       = "lib"
)

// LoadManifest decodes zc.toml. Unknown keys and an empty project name are
// reported as ProjManifestInvalid.
func LoadManifest(path string) (*Manifest, error) {
	m := &Manifest{Path: path}
	meta, err := toml.DecodeFile(path, m)
	if err != nil {
		return nil, invalid(path, fmt.Sprintf("failed to parse TOML: %v", err))
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, invalid(path, "unknown keys: "+strings.Join(keys, ", "))
	}
	if meta.IsDefined("project", "name") && strings.TrimSpace(m.Project.Name) == "" {
		return nil, invalid(path, "[project].name must not be empty")
	}
	if filepath.IsAbs(m.Project.Lib) {
		return nil, invalid(path, fmt.Sprintf("[project].lib %q must be relative", m.Project.Lib))
	}
	if !meta.IsDefined("build", "cache") {
		m.Build.Cache = true
	}
	return m, nil
}

// Discover finds and loads the manifest above startDir. A missing manifest
// yields the defaults rooted at startDir.
func Discover(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Manifest{Build: BuildTable{Cache: true}}, nil
	}
	return LoadManifest(path)
}

// Root is the directory of zc.toml, empty without a manifest.
func (m *Manifest) Root() string {
	if m == nil || m.Path == "" {
		return ""
	}
	return filepath.Dir(m.Path)
}

// LibDir is where `use NAME` finds NAME.z.
func (m *Manifest) LibDir() string {
	lib := DefaultLib
	if m != nil && m.Project.Lib != "" {
		lib = m.Project.Lib
	}
	if root := m.Root(); root != "" {
		return filepath.Join(root, lib)
	}
	return lib
}

func (m *Manifest) Assembler() string {
	if m == nil || m.Build.Assembler == "" {
		return DefaultAssembler
	}
	return m.Build.Assembler
}

func (m *Manifest) Output() string {
	if m == nil || m.Build.Output == "" {
		return DefaultOutput
	}
	return m.Build.Output
}

func invalid(path, msg string) error {
	return diag.AsError(diag.NewError(diag.ProjManifestInvalid, source.Span{}, path+": "+msg))
}
