package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
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

func (m *MemFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
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
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/hookstorm.toml", `
[runtime]
fps = 30
mouse = true
pollTimeout = "10ms"

[logging]
level = "debug"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/hookstorm.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := map[string]any{
		"runtime": map[string]any{"fps": int64(30), "mouse": true, "pollTimeout": "10ms"},
		"logging": map[string]any{"level": "debug"},
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/nonexistent.toml").Load()
	if err != nil {
		t.Fatalf("expected no error for non-existent file, got: %v", err)
	}
	if config != nil {
		t.Error("expected nil config for non-existent file")
	}
}

func TestTOMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/invalid.toml", "[runtime\nfps = 4\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/invalid.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Path != "/invalid.toml" || perr.Line == 0 {
		t.Errorf("expected path and line, got %+v", perr)
	}
	if !strings.Contains(perr.Error(), "/invalid.toml") {
		t.Errorf("error should mention the file: %v", perr)
	}
}

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/hookstorm.yaml", `
runtime:
  fps: 24
  paste: false
logging:
  file: /tmp/hookstorm.log
`)

	config, err := ForPath(memfs, "/hookstorm.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := map[string]any{
		"runtime": map[string]any{"fps": int64(24), "paste": false},
		"logging": map[string]any{"file": "/tmp/hookstorm.log"},
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestYAMLLoader_LoadInvalid(t *testing.T) {
	_, err := NewYAMLLoader("").LoadFromReader(strings.NewReader("runtime: [1, 2"))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Path != "<reader>" {
		t.Errorf("expected <reader> source, got %q", perr.Path)
	}
}

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		yaml bool
	}{
		{"a.toml", false},
		{"a.yaml", true},
		{"a.YML", true},
		{"a", false},
	}
	for _, tt := range tests {
		_, isYAML := ForPath(nil, tt.path).(*YAMLLoader)
		if isYAML != tt.yaml {
			t.Errorf("%s: expected yaml=%v", tt.path, tt.yaml)
		}
	}
}

func TestEnvLoader_Load(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix).WithEnviron(func() []string {
		return []string{
			"HOOKSTORM_FPS=24",
			"HOOKSTORM_LOG_LEVEL=debug",
			"HOOKSTORM_MOUSE=yes",
			"HOOKSTORM_POLL_TIMEOUT=5ms",
			"HOOKSTORM_RUNTIME_EXIT_ON_CTRLC=false",
			"OTHER_FPS=99",
		}
	})

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := map[string]any{
		"runtime": map[string]any{
			"fps":         int64(24),
			"mouse":       true,
			"pollTimeout": 5 * time.Millisecond,
			"exitOnCtrlc": false,
		},
		"logging": map[string]any{"level": "debug"},
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	l := NewEnvLoader("HOOKSTORM_")
	tests := []struct {
		env  string
		want string
	}{
		{"HOOKSTORM_RUNTIME_FPS", "runtime.fps"},
		{"HOOKSTORM_RUNTIME_POLL_TIMEOUT", "runtime.pollTimeout"},
		{"HOOKSTORM_DEBUG", "debug"},
	}
	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestEnvLoader_parseValue(t *testing.T) {
	l := NewEnvLoader("HOOKSTORM_")
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"on", true},
		{"OFF", false},
		{"42", int64(42)},
		{"1.5", 1.5},
		{"2s", 2 * time.Second},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := l.parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"runtime": map[string]any{"fps": int64(60), "mouse": false},
		"logging": map[string]any{"level": "info"},
	}
	src := map[string]any{
		"runtime": map[string]any{"fps": int64(30)},
		"extra":   "x",
	}

	got := DeepMerge(Clone(dst), src)
	want := map[string]any{
		"runtime": map[string]any{"fps": int64(30), "mouse": false},
		"logging": map[string]any{"level": "info"},
		"extra":   "x",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merged (-want +got):\n%s", diff)
	}
	if dst["runtime"].(map[string]any)["fps"] != int64(60) {
		t.Error("Clone should protect the original map")
	}
}

func TestLookup(t *testing.T) {
	data := map[string]any{"runtime": map[string]any{"fps": int64(30)}}
	if v, ok := Lookup(data, "runtime.fps"); !ok || v != int64(30) {
		t.Errorf("expected 30, got %v", v)
	}
	if _, ok := Lookup(data, "runtime.fps.deeper"); ok {
		t.Error("expected miss through a scalar")
	}
	if _, ok := Lookup(data, "logging.level"); ok {
		t.Error("expected miss for absent section")
	}
}
