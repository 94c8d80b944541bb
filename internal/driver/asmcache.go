package driver

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"zlang/internal/module"
	"zlang/internal/project"
	"zlang/internal/version"
)

// Current schema version - increment when AsmPayload format changes
const asmCacheSchemaVersion uint16 = 1

// AsmCache хранит сгенерированный ассемблер на диске, ключ - хэш исходников
// всех загруженных модулей. Безопасен для конкурентного доступа; nil-кэш
// ничего не хранит.
type AsmCache struct {
	mu  sync.RWMutex
	dir string
}

// AsmPayload is one cached codegen result.
type AsmPayload struct {
	Schema  uint16
	Version string
	Module  string
	Sources []string // module paths in load order, for inspection
	Asm     string
}

// OpenAsmCache opens the cache under $XDG_CACHE_HOME/<app> (or ~/.cache/<app>).
func OpenAsmCache(app string) (*AsmCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewAsmCache(filepath.Join(base, app))
}

// NewAsmCache opens a cache rooted at dir, creating it if needed.
func NewAsmCache(dir string) (*AsmCache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	return &AsmCache{dir: dir}, nil
}

func (c *AsmCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// CacheKey digests the compiler version, the lib dir and the name and
// content of every loaded module.
func CacheKey(reg *module.Registry) project.Digest {
	parts := [][]byte{
		[]byte(version.Version),
		{byte(asmCacheSchemaVersion)},
		[]byte(reg.LibDir()),
	}
	for _, mod := range reg.Modules() {
		parts = append(parts, []byte(mod.Name), reg.Files().Get(mod.File).Content)
	}
	return project.Hash(parts...)
}

func newAsmPayload(reg *module.Registry, name, asm string) *AsmPayload {
	p := &AsmPayload{
		Schema:  asmCacheSchemaVersion,
		Version: version.Version,
		Module:  name,
		Asm:     asm,
	}
	for _, mod := range reg.Modules() {
		p.Sources = append(p.Sources, mod.Path)
	}
	return p
}

func (c *AsmCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "asm", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *AsmCache) Put(key project.Digest, payload *AsmPayload) (err error) {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// после Rename файла уже нет
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	err = os.Rename(tmp, p)
	return err
}

// Get reads a payload. A missing entry or a payload of another schema or
// compiler version is a miss, not an error.
func (c *AsmCache) Get(key project.Digest, out *AsmPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, err
	}
	if out.Schema != asmCacheSchemaVersion || out.Version != version.Version {
		return false, nil
	}
	return true, nil
}

// DropAll removes every cached entry.
func (c *AsmCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "asm"))
}
