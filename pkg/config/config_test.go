package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/seed/pkg/cache"
	"github.com/matzehuels/seed/pkg/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[layout]
viewport_width = 1024
font_size = 14

[cache]
backend = "sqlite"
ttl = "12h"
sqlite_path = "/tmp/seed.db"

[server]
addr = "127.0.0.1:9000"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
	if cfg.Layout.ViewportWidth != 1024 {
		t.Errorf("ViewportWidth = %v, want 1024", cfg.Layout.ViewportWidth)
	}
	if cfg.Cache.TTL != 12*time.Hour {
		t.Errorf("TTL = %v, want 12h", cfg.Cache.TTL)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Addr = %q, want 127.0.0.1:9000", cfg.Server.Addr)
	}

	opts := cfg.Options()
	if opts.ViewportWidth != 1024 || opts.FontSize != 14 || opts.ViewportHeight != 0 {
		t.Errorf("Options() = %+v", opts)
	}
	co := cfg.CacheOptions()
	if co.Backend != cache.BackendSQLite || co.SQLitePath != "/tmp/seed.db" {
		t.Errorf("CacheOptions() = %+v", co)
	}
}

func TestLoadFileDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[layout]\nline_height = 1.5\n")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Cache.Backend != cache.BackendFile {
		t.Errorf("Backend = %q, want %q", cfg.Cache.Backend, cache.BackendFile)
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("Addr = %q, want %q", cfg.Server.Addr, DefaultServerAddr)
	}
	if got := cfg.CacheOptions().MongoDatabase; got != DefaultMongoDatabase {
		t.Errorf("CacheOptions().MongoDatabase = %q, want %q", got, DefaultMongoDatabase)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[layout\n"},
		{"unknown key", "[layout]\nviewport = 100\n"},
		{"unknown backend", "[cache]\nbackend = \"memcached\"\n"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n"},
		{"mongo without uri", "[cache]\nbackend = \"mongo\"\n"},
		{"negative width", "[layout]\nviewport_width = -1\n"},
		{"negative ttl", "[cache]\nttl = \"-1h\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := LoadFile(path)
			if err == nil {
				t.Fatal("LoadFile() expected error")
			}
			if got := errors.GetCode(err); got != errors.ErrCodeInvalidInput {
				t.Errorf("GetCode() = %q, want %q", got, errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestLoadSearch(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want defaults", cfg.Path)
	}

	path := writeConfig(t, filepath.Join(xdg, appName), "[server]\naddr = \":7000\"\n")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("Addr = %q, want :7000", cfg.Server.Addr)
	}
}

func TestLoadMissingExplicit(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestSearchPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv("HOME", "/home/someone")

	got := SearchPaths()
	want := []string{"/xdg/seed/seed.toml", "/home/someone/.config/seed/seed.toml"}
	if len(got) != len(want) {
		t.Fatalf("SearchPaths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SearchPaths()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
