package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTOML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shiftplan.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
	return path
}

func TestNew_Defaults(t *testing.T) {
	c := New(WithEnv(false))

	if got := c.Flush().MaxBlockSize; got != DefaultMaxBlockSize {
		t.Errorf("MaxBlockSize = %d, want %d", got, DefaultMaxBlockSize)
	}
	medium := c.Medium()
	if !medium.DetectChanges || medium.Watch {
		t.Errorf("Medium() = %+v, want DetectChanges only", medium)
	}
	logging := c.Logging()
	if logging.Level != "info" || logging.Prefix != "shiftplan" {
		t.Errorf("Logging() = %+v", logging)
	}
}

func TestConfig_LoadFile(t *testing.T) {
	path := writeTOML(t, `
[flush]
maxBlockSize = 1024

[logging]
level = "debug"
`)

	c, err := Load(WithFile(path), WithEnv(false))
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if c.Path() != path {
		t.Errorf("Path() = %q, want %q", c.Path(), path)
	}
	if got := c.Flush().MaxBlockSize; got != 1024 {
		t.Errorf("MaxBlockSize = %d, want 1024", got)
	}
	if got := c.Logging(); got.Level != "debug" || got.Prefix != "shiftplan" {
		t.Errorf("Logging() = %+v, want debug level with default prefix", got)
	}
}

func TestConfig_MissingFile(t *testing.T) {
	c, err := Load(WithFile(filepath.Join(t.TempDir(), "none.toml")), WithEnv(false))
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if got := c.Flush().MaxBlockSize; got != DefaultMaxBlockSize {
		t.Errorf("MaxBlockSize = %d, want default", got)
	}
}

func TestConfig_BadFile(t *testing.T) {
	path := writeTOML(t, "[flush\n")
	if _, err := Load(WithFile(path), WithEnv(false)); err == nil {
		t.Fatal("Load error = nil, want parse error")
	}
}

func TestConfig_Precedence(t *testing.T) {
	path := writeTOML(t, `
[flush]
maxBlockSize = 1024

[medium]
watch = true
`)
	t.Setenv("SHIFTPLAN_FLUSH_MAX_BLOCK_SIZE", "2048")
	t.Setenv("SHIFTPLAN_LOG_LEVEL", "warn")

	c, err := Load(WithFile(path))
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if got := c.Flush().MaxBlockSize; got != 2048 {
		t.Errorf("MaxBlockSize = %d, want env value 2048", got)
	}
	if !c.Medium().Watch {
		t.Error("Watch = false, want file value true")
	}
	if got := c.Logging().Level; got != "warn" {
		t.Errorf("Level = %q, want warn", got)
	}

	if err := c.Set("flush.maxBlockSize", 64); err != nil {
		t.Fatalf("Set error = %v", err)
	}
	if got := c.Flush().MaxBlockSize; got != 64 {
		t.Errorf("MaxBlockSize = %d, want override 64", got)
	}

	// Overrides survive a reload.
	if err := c.Load(); err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if got := c.Flush().MaxBlockSize; got != 64 {
		t.Errorf("MaxBlockSize after reload = %d, want 64", got)
	}
}

func TestConfig_TypedGetters(t *testing.T) {
	c := New(WithEnv(false))
	if err := c.Set("logging.level", 7); err != nil {
		t.Fatalf("Set error = %v", err)
	}

	_, err := c.GetString("logging.level")
	var terr *TypeError
	if !errors.As(err, &terr) {
		t.Fatalf("GetString error = %v, want *TypeError", err)
	}
	if !errors.Is(err, ErrTypeMismatch) {
		t.Error("TypeError does not match ErrTypeMismatch")
	}
	if terr.Expected != "string" || terr.Actual != "int" {
		t.Errorf("TypeError = %+v", terr)
	}

	// Falls back to the default.
	if got := c.Logging().Level; got != "info" {
		t.Errorf("Level = %q, want info fallback", got)
	}

	if _, err := c.GetInt("flush.nothing"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("GetInt error = %v, want ErrSettingNotFound", err)
	}
	if _, err := c.GetBool("flush.maxBlockSize"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetBool error = %v, want ErrTypeMismatch", err)
	}
	if _, err := c.GetInt("flush"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetInt(section) error = %v, want ErrTypeMismatch", err)
	}
}

func TestConfig_GetIntFloat(t *testing.T) {
	c := New(WithEnv(false))
	_ = c.Set("flush.maxBlockSize", 32.0)
	if got, err := c.GetInt("flush.maxBlockSize"); err != nil || got != 32 {
		t.Errorf("GetInt = %d, %v; want 32", got, err)
	}
	_ = c.Set("flush.maxBlockSize", 32.5)
	if _, err := c.GetInt("flush.maxBlockSize"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetInt error = %v, want ErrTypeMismatch", err)
	}
}

func TestConfig_SetInvalidPath(t *testing.T) {
	c := New(WithEnv(false))
	if err := c.Set("", 1); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Set(\"\") error = %v, want ErrInvalidPath", err)
	}
	_ = c.Set("a", 1)
	if err := c.Set("a.b", 1); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Set(a.b) error = %v, want ErrInvalidPath", err)
	}
}

func TestConfig_MergedIsCopy(t *testing.T) {
	c := New(WithEnv(false))
	m := c.Merged()
	m["flush"].(map[string]any)["maxBlockSize"] = 1
	if got := c.Flush().MaxBlockSize; got != DefaultMaxBlockSize {
		t.Errorf("MaxBlockSize = %d, mutation of Merged() leaked", got)
	}
}
