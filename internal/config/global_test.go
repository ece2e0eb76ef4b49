package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	path := GlobalConfigPath()
	want := "/custom/config/citemark/config.yml"
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}

	// Test with empty XDG_CONFIG_HOME (should use ~/.config)
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	path = GlobalConfigPath()
	want = filepath.Join(home, ".config", "citemark", "config.yml")
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvBibliography, EnvRoot, EnvEncoding, EnvLogLevel} {
		t.Setenv(k, "")
	}
}

func TestLoad_NotFound(t *testing.T) {
	ResetCache()
	defer ResetCache()
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Bibliography != "" {
		t.Errorf("Bibliography = %q, want empty", cfg.Bibliography)
	}
	if cfg.Placeholder != "[REFERENCES]" || cfg.LogLevel != LogNormal {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoad_Valid(t *testing.T) {
	ResetCache()
	defer ResetCache()
	clearEnv(t)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg := &Config{Bibliography: "~/refs/main.bib", Root: "/docs", LogLevel: LogDebug, GFM: true}
	if err := cfg.Save(GlobalConfigPath()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	home, err := os.UserHomeDir()
	if err == nil {
		if want := filepath.Join(home, "refs/main.bib"); got.Bibliography != want {
			t.Errorf("Bibliography = %q, want %q", got.Bibliography, want)
		}
	}
	if got.Root != "/docs" || got.LogLevel != LogDebug || !got.GFM {
		t.Errorf("Load() = %+v", got)
	}

	// Cached: a changed file is not re-read.
	if err := (&Config{Root: "/other"}).Save(GlobalConfigPath()); err != nil {
		t.Fatal(err)
	}
	again, _ := Load()
	if again.Root != "/docs" {
		t.Errorf("cached Root = %q, want /docs", again.Root)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	ResetCache()
	defer ResetCache()
	clearEnv(t)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if err := (&Config{Bibliography: "file.bib"}).Save(GlobalConfigPath()); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvBibliography, "env.bib")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Bibliography != "env.bib" {
		t.Errorf("Bibliography = %q, want env.bib", cfg.Bibliography)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "bibliography: [unclosed\n"},
		{"bad level", "log_level: loud\n"},
		{"bad encoding", "encoding: klingon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetCache()
			defer ResetCache()
			clearEnv(t)

			tmpDir := t.TempDir()
			t.Setenv("XDG_CONFIG_HOME", tmpDir)
			dir := filepath.Join(tmpDir, GlobalConfigDir)
			if err := os.MkdirAll(dir, 0755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(filepath.Join(dir, GlobalConfigFile), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			if _, err := Load(); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}
