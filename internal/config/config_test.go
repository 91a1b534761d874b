package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/loopcontext/msgsync"
)

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	return Load(NewFlagSet("msgsync"), args)
}

func TestLoad_defaults(t *testing.T) {
	cfg, err := load(t, "en.json", "src/**/*.js")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CatalogPath != "en.json" {
		t.Errorf("CatalogPath = %q", cfg.CatalogPath)
	}
	if !reflect.DeepEqual(cfg.Sources, []string{"src/**/*.js"}) {
		t.Errorf("Sources = %v", cfg.Sources)
	}
	if cfg.AutoAdd || cfg.AutoRemove {
		t.Errorf("auto flags set by default: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.CallNames, msgsync.DefaultCallNames) {
		t.Errorf("CallNames = %v", cfg.CallNames)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoad_flagsAnywhere(t *testing.T) {
	cfg, err := load(t, "en.json", "--auto-remove", "a.js", "b.js", "--auto-add")
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.AutoAdd || !cfg.AutoRemove {
		t.Errorf("flags not picked up: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Sources, []string{"a.js", "b.js"}) {
		t.Errorf("Sources = %v", cfg.Sources)
	}
	if got := cfg.Options(); got != (msgsync.Options{AutoAdd: true, AutoRemove: true}) {
		t.Errorf("Options() = %+v", got)
	}
}

func TestLoad_callNames(t *testing.T) {
	cfg, err := load(t, "--call", "tr, i18n.T", "--call", "gettext", "en.json", "a.js")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"tr", "i18n.T", "gettext"}; !reflect.DeepEqual(cfg.CallNames, want) {
		t.Errorf("CallNames = %v, want %v", cfg.CallNames, want)
	}
}

func TestLoad_env(t *testing.T) {
	t.Setenv("MSGSYNC_AUTO_ADD", "true")
	t.Setenv("MSGSYNC_CALL_NAMES", "tr,gettext")

	cfg, err := load(t, "en.json", "a.js")
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.AutoAdd {
		t.Error("MSGSYNC_AUTO_ADD ignored")
	}
	if want := []string{"tr", "gettext"}; !reflect.DeepEqual(cfg.CallNames, want) {
		t.Errorf("CallNames = %v, want %v", cfg.CallNames, want)
	}
}

func TestLoad_flagBeatsEnv(t *testing.T) {
	t.Setenv("MSGSYNC_LOG_LEVEL", "error")

	cfg, err := load(t, "--log-level", "debug", "en.json", "a.js")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_configFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msgsync.yaml")
	data := []byte("auto_remove: true\ncall_names:\n  - tr\nlang: pt_BR\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := load(t, "--config", path, "en.json", "a.js")
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.AutoRemove {
		t.Error("auto_remove from config file ignored")
	}
	if !reflect.DeepEqual(cfg.CallNames, []string{"tr"}) {
		t.Errorf("CallNames = %v", cfg.CallNames)
	}
	if cfg.Lang != "pt" {
		t.Errorf("Lang = %q, want pt", cfg.Lang)
	}
}

func TestLoad_missingConfigFile(t *testing.T) {
	_, err := load(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "en.json", "a.js")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrUsage) {
		t.Errorf("unreadable config file reported as usage error: %v", err)
	}
}

func TestLoad_usageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"catalog only", []string{"en.json"}},
		{"unknown flag", []string{"--auto-everything", "en.json", "a.js"}},
		{"bad lang", []string{"--lang", "not a tag", "en.json", "a.js"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.args...)
			if !errors.Is(err, ErrUsage) {
				t.Errorf("error = %v, want ErrUsage", err)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList([]string{"a, b", "", " c ", ","})
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("splitList() = %v, want %v", got, want)
	}
}
