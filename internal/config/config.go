// Package config resolves msgsync settings.
//
// Settings are layered, later wins:
// 1. defaults
// 2. YAML config file given with --config (optional)
// 3. MSGSYNC_* environment variables (MSGSYNC_AUTO_ADD, MSGSYNC_CALL_NAMES, ...)
// 4. command-line flags
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/loopcontext/msgsync"
	"github.com/loopcontext/msgsync/internal/plural"
)

const envPrefix = "MSGSYNC"

// ErrUsage marks configuration errors caused by the command line.
var ErrUsage = errors.New("usage")

// Config is the resolved configuration of one run.
type Config struct {
	CatalogPath string   `mapstructure:"-"`
	Sources     []string `mapstructure:"-"`
	AutoAdd     bool     `mapstructure:"auto_add"`
	AutoRemove  bool     `mapstructure:"auto_remove"`
	CallNames   []string `mapstructure:"call_names"`
	Lang        string   `mapstructure:"lang"`
	LogLevel    string   `mapstructure:"log_level"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"auto-add":    "auto_add",
	"auto-remove": "auto_remove",
	"call":        "call_names",
	"lang":        "lang",
	"log-level":   "log_level",
}

// NewFlagSet declares the msgsync flags.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.Bool("auto-add", false, "Automatically add missing strings (translation = key).")
	fs.Bool("auto-remove", false, "Automatically remove strings no longer used, plural variants included.")
	fs.StringSlice("call", msgsync.DefaultCallNames, "Translation call names to look for (repeatable or comma-separated).")
	fs.String("lang", "", "Catalog language; warns about base keys missing plural variants it needs.")
	fs.String("log-level", "warn", "Diagnostic log level: debug, info, warn, error.")
	fs.String("config", "", "Optional YAML config file.")
	return fs
}

// Load parses args with fs and resolves the layered configuration.
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CallNames = splitList(cfg.CallNames)

	pos := fs.Args()
	if len(pos) > 0 {
		cfg.CatalogPath = pos[0]
		cfg.Sources = pos[1:]
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the positional arguments and the language tag.
func (c *Config) Validate() error {
	if c.CatalogPath == "" {
		return fmt.Errorf("%w: missing catalog file", ErrUsage)
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("%w: at least one source file pattern is required", ErrUsage)
	}
	if c.Lang != "" {
		base, err := plural.Base(c.Lang)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		c.Lang = base
	}
	return nil
}

// Options converts the configuration into reconciler options.
func (c *Config) Options() msgsync.Options {
	return msgsync.Options{AutoAdd: c.AutoAdd, AutoRemove: c.AutoRemove, Lang: c.Lang}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("auto_add", false)
	v.SetDefault("auto_remove", false)
	v.SetDefault("call_names", msgsync.DefaultCallNames)
	v.SetDefault("lang", "")
	v.SetDefault("log_level", "warn")
}

// splitList accepts both list values and comma-separated strings, which is what
// environment variables produce.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, s := range strings.Split(item, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
