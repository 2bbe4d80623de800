package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Time{} }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

// ==== TOML ====

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/shiftplan.toml", `
[flush]
maxBlockSize = 4096

[logging]
level = "debug"

[medium]
watch = true
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/shiftplan.toml").Load()
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}

	flush, ok := config["flush"].(map[string]any)
	if !ok {
		t.Fatal("expected flush to be a map")
	}
	if flush["maxBlockSize"] != int64(4096) {
		t.Errorf("maxBlockSize = %v (%T), want 4096", flush["maxBlockSize"], flush["maxBlockSize"])
	}
	logging := config["logging"].(map[string]any)
	if logging["level"] != "debug" {
		t.Errorf("level = %v, want debug", logging["level"])
	}
	medium := config["medium"].(map[string]any)
	if medium["watch"] != true {
		t.Errorf("watch = %v, want true", medium["watch"])
	}
}

func TestTOMLLoader_MissingFile(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/nope.toml").Load()
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if config != nil {
		t.Errorf("config = %v, want nil", config)
	}
}

func TestTOMLLoader_EmptyPath(t *testing.T) {
	config, err := NewTOMLLoader("").Load()
	if err != nil || config != nil {
		t.Fatalf("Load() = %v, %v; want nil, nil", config, err)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[flush]\nmaxBlockSize = = 3\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load error = %v, want *ParseError", err)
	}
	if perr.Path != "/bad.toml" {
		t.Errorf("Path = %q, want /bad.toml", perr.Path)
	}
	if perr.Line != 2 {
		t.Errorf("Line = %d, want 2", perr.Line)
	}
	if !strings.Contains(perr.Error(), "line 2") {
		t.Errorf("Error() = %q, want line info", perr.Error())
	}
	if perr.Unwrap() == nil {
		t.Error("Unwrap() = nil, want the decoder error")
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	config, err := NewTOMLLoader("").LoadFromReader(strings.NewReader(`logging = { prefix = "x" }`))
	if err != nil {
		t.Fatalf("LoadFromReader error = %v", err)
	}
	if config["logging"].(map[string]any)["prefix"] != "x" {
		t.Errorf("config = %v", config)
	}
}

func TestTOMLLoader_RealFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	if err := os.WriteFile(path, []byte("[flush]\nmaxBlockSize = 16\n"), 0644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
	l := NewTOMLLoader(path)
	if l.Path() != path {
		t.Errorf("Path() = %q, want %q", l.Path(), path)
	}
	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if config["flush"].(map[string]any)["maxBlockSize"] != int64(16) {
		t.Errorf("config = %v", config)
	}
}

// ==== Merge ====

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"flush":   map[string]any{"maxBlockSize": 8192},
		"logging": map[string]any{"level": "info", "prefix": "shiftplan"},
	}
	src := map[string]any{
		"logging": map[string]any{"level": "debug"},
		"medium":  map[string]any{"watch": true},
	}

	got := DeepMerge(dst, src)
	logging := got["logging"].(map[string]any)
	if logging["level"] != "debug" || logging["prefix"] != "shiftplan" {
		t.Errorf("logging = %v", logging)
	}
	if got["flush"].(map[string]any)["maxBlockSize"] != 8192 {
		t.Errorf("flush = %v", got["flush"])
	}

	// A map copied from src must not alias it.
	got["medium"].(map[string]any)["watch"] = false
	if src["medium"].(map[string]any)["watch"] != true {
		t.Error("DeepMerge aliased a nested src map")
	}
}

func TestDeepMerge_NilDst(t *testing.T) {
	got := DeepMerge(nil, map[string]any{"a": 1})
	if got["a"] != 1 {
		t.Errorf("got = %v", got)
	}
}

func TestClone(t *testing.T) {
	src := map[string]any{
		"a": map[string]any{"b": []any{1, map[string]any{"c": 2}}},
	}
	dst := Clone(src)
	dst["a"].(map[string]any)["b"].([]any)[1].(map[string]any)["c"] = 3
	if src["a"].(map[string]any)["b"].([]any)[1].(map[string]any)["c"] != 2 {
		t.Error("Clone did not deep copy")
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) != nil")
	}
}
