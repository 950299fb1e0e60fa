package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"

	"github.com/fakeyudi/pulse/internal/reposync"
	"github.com/fakeyudi/pulse/internal/summary"
)

// Property: a non-empty value in a later layer always wins; empty values
// fall through to earlier layers and finally to Defaults.
func TestConfigMergePrecedence(t *testing.T) {
	nonEmptyString := rapid.StringMatching(`[a-zA-Z0-9/_.-]{1,20}`)

	configGen := rapid.Custom(func(t *rapid.T) *Config {
		if rapid.IntRange(0, 4).Draw(t, "nilLayer") == 0 {
			return nil
		}
		cfg := &Config{}
		for _, f := range []struct {
			name string
			dst  *string
		}{
			{"outputPath", &cfg.OutputPath},
			{"repoDir", &cfg.RepoDir},
			{"remote", &cfg.Remote},
			{"branch", &cfg.Branch},
			{"logLevel", &cfg.LogLevel},
			{"logFormat", &cfg.LogFormat},
		} {
			if rapid.Bool().Draw(t, "has_"+f.name) {
				*f.dst = nonEmptyString.Draw(t, f.name)
			}
		}
		return cfg
	})

	rapid.Check(t, func(t *rapid.T) {
		global := configGen.Draw(t, "global")
		project := configGen.Draw(t, "project")
		env := configGen.Draw(t, "env")

		merged := Merge(global, project, env)
		defaults := Defaults()

		field := func(c *Config, get func(*Config) string) string {
			if c == nil {
				return ""
			}
			return get(c)
		}
		for name, get := range map[string]func(*Config) string{
			"OutputPath": func(c *Config) string { return c.OutputPath },
			"RepoDir":    func(c *Config) string { return c.RepoDir },
			"Remote":     func(c *Config) string { return c.Remote },
			"Branch":     func(c *Config) string { return c.Branch },
			"LogLevel":   func(c *Config) string { return c.LogLevel },
			"LogFormat":  func(c *Config) string { return c.LogFormat },
		} {
			want := get(&defaults)
			for _, layer := range []*Config{global, project, env} {
				if v := field(layer, get); v != "" {
					want = v
				}
			}
			if got := get(&merged); got != want {
				t.Fatalf("%s: want %q, got %q", name, want, got)
			}
		}
	})
}

func TestDefaultsValues(t *testing.T) {
	d := Defaults()
	if d.OutputPath != "data/latest_metrics.json" {
		t.Errorf("OutputPath: want %q, got %q", "data/latest_metrics.json", d.OutputPath)
	}
	if d.Remote != "origin" || d.Branch != "main" {
		t.Errorf("push target: want origin/main, got %s/%s", d.Remote, d.Branch)
	}
	if d.RepoDir != "." {
		t.Errorf("RepoDir: want %q, got %q", ".", d.RepoDir)
	}
	if d.LogLevel != "info" || d.LogFormat != "text" {
		t.Errorf("logging: want info/text, got %s/%s", d.LogLevel, d.LogFormat)
	}
}

func TestDefaultsMatchPackageDefaults(t *testing.T) {
	d := Defaults()
	if d.OutputPath != summary.DefaultOutputPath {
		t.Errorf("OutputPath: want %q, got %q", summary.DefaultOutputPath, d.OutputPath)
	}
	if d.Remote != reposync.DefaultRemote || d.Branch != reposync.DefaultBranch {
		t.Errorf("push target: want %s/%s, got %s/%s",
			reposync.DefaultRemote, reposync.DefaultBranch, d.Remote, d.Branch)
	}
}

func TestLoadGlobalMissingFileReturnsDefaults(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config, got nil")
	}
	if *cfg != Defaults() {
		t.Errorf("want defaults, got %+v", *cfg)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoadProjectMissingFileReturnsNil(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadProject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoadProjectFile(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)
	content := `{"output_path": "site/data/today.json", "branch": "gh-pages"}`
	if err := os.WriteFile(filepath.Join(tmp, ".pulseconfig"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadProject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config, got nil")
	}
	if cfg.OutputPath != "site/data/today.json" || cfg.Branch != "gh-pages" {
		t.Errorf("unexpected config: %+v", *cfg)
	}
	if cfg.Remote != "" {
		t.Errorf("unset keys must stay empty, got Remote %q", cfg.Remote)
	}
}

func TestLoadGlobalParseError(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfgDir := filepath.Join(tmp, ".config", "pulse")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte("{invalid json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadGlobal()
	if err == nil {
		t.Fatal("expected an error for invalid JSON, got nil")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *ParseError, got %T: %v", err, err)
	}
}

func TestFromEnv(t *testing.T) {
	for _, k := range []string{"PULSE_OUTPUT_PATH", "PULSE_REPO_DIR", "PULSE_REMOTE", "PULSE_BRANCH", "PULSE_LOG_LEVEL", "PULSE_LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	if cfg := FromEnv(); cfg != nil {
		t.Fatalf("expected nil with no PULSE_* set, got %+v", *cfg)
	}

	t.Setenv("PULSE_REMOTE", "mirror")
	t.Setenv("PULSE_LOG_LEVEL", "debug")
	cfg := FromEnv()
	if cfg == nil {
		t.Fatal("expected env config, got nil")
	}
	if cfg.Remote != "mirror" || cfg.LogLevel != "debug" {
		t.Errorf("unexpected env config: %+v", *cfg)
	}
	if cfg.Branch != "" {
		t.Errorf("unset env must stay empty, got Branch %q", cfg.Branch)
	}
}

func TestLoadEnvOverridesFiles(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	chdir(t, tmp)
	if err := os.WriteFile(filepath.Join(tmp, ".pulseconfig"), []byte(`{"remote": "project"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PULSE_REMOTE", "env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Remote != "env" {
		t.Errorf("Remote: want %q, got %q", "env", cfg.Remote)
	}
	if cfg.OutputPath != Defaults().OutputPath {
		t.Errorf("OutputPath: want default, got %q", cfg.OutputPath)
	}
}
