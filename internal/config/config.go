// Package config provides layered configuration loading.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/basecamp/nbpreview/internal/render"
)

// DefaultTheme is the syntax theme used when none is configured.
const DefaultTheme = "ansi_dark"

// Config holds the resolved configuration.
type Config struct {
	// Rendering settings
	Theme string `json:"theme"`
	Width int    `json:"width,omitempty"`

	// Capability switches. Nil means detect from the terminal.
	Unicode            *bool `json:"unicode,omitempty"`
	NerdFont           *bool `json:"nerd_font,omitempty"`
	Hyperlinks         *bool `json:"hyperlinks,omitempty"`
	Files              *bool `json:"files,omitempty"`
	HideHyperlinkHints *bool `json:"hide_hyperlink_hints,omitempty"`
	Plain              *bool `json:"plain,omitempty"`
	UnicodeBorder      *bool `json:"unicode_border,omitempty"`

	Verbose *int `json:"verbose,omitempty"`

	// Sources tracks where each value came from (for debugging).
	Sources map[string]string `json:"-"`
}

// Source indicates where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceSystem  Source = "system"
	SourceGlobal  Source = "global"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// FlagOverrides holds command-line flag values. Nil and zero values are
// not applied.
type FlagOverrides struct {
	Theme              string
	Width              int
	Unicode            *bool
	NerdFont           *bool
	Hyperlinks         *bool
	Files              *bool
	HideHyperlinkHints *bool
	Plain              *bool
	UnicodeBorder      *bool
}

// Detected holds what was learned about the terminal at startup.
type Detected struct {
	Unicode  bool
	Terminal bool
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Theme:   DefaultTheme,
		Sources: map[string]string{"theme": string(SourceDefault)},
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence: flags > env > global > system > defaults
func Load(overrides FlagOverrides) (*Config, error) {
	cfg := Default()

	loadFromFile(cfg, systemConfigPath(), SourceSystem)
	loadFromFile(cfg, globalConfigPath(), SourceGlobal)

	LoadFromEnv(cfg)
	ApplyOverrides(cfg, overrides)

	if cfg.Width < 0 {
		return nil, fmt.Errorf("invalid width %d from %s", cfg.Width, cfg.Sources["width"])
	}
	return cfg, nil
}

// boolKeys maps config keys to the tri-state fields they set.
func (cfg *Config) boolKeys() map[string]**bool {
	return map[string]**bool{
		"unicode":              &cfg.Unicode,
		"nerd_font":            &cfg.NerdFont,
		"hyperlinks":           &cfg.Hyperlinks,
		"files":                &cfg.Files,
		"hide_hyperlink_hints": &cfg.HideHyperlinkHints,
		"plain":                &cfg.Plain,
		"unicode_border":       &cfg.UnicodeBorder,
	}
}

func loadFromFile(cfg *Config, path string, source Source) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is from trusted config locations
	if err != nil {
		return // File doesn't exist, skip
	}

	var fileCfg map[string]any
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: skipping malformed config at %s: %v\n", path, err)
		return
	}

	if v, ok := fileCfg["theme"].(string); ok && v != "" {
		cfg.Theme = v
		cfg.Sources["theme"] = string(source)
	}
	if v, ok := fileCfg["width"].(float64); ok {
		if iv := int(v); iv > 0 && v == float64(iv) {
			cfg.Width = iv
			cfg.Sources["width"] = string(source)
		}
	}
	for key, field := range cfg.boolKeys() {
		if v, ok := fileCfg[key].(bool); ok {
			*field = &v
			cfg.Sources[key] = string(source)
		}
	}
	if v, ok := fileCfg["verbose"].(float64); ok {
		iv := int(v)
		if iv >= 0 && iv <= 2 && v == float64(iv) {
			cfg.Verbose = &iv
			cfg.Sources["verbose"] = string(source)
		}
	}
}

// LoadFromEnv loads configuration from NBPREVIEW_* environment variables.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("NBPREVIEW_THEME"); v != "" {
		cfg.Theme = v
		cfg.Sources["theme"] = string(SourceEnv)
	}
	if v := os.Getenv("NBPREVIEW_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Width = n
			cfg.Sources["width"] = string(SourceEnv)
		}
	}
	for key, field := range cfg.boolKeys() {
		v := os.Getenv("NBPREVIEW_" + strings.ToUpper(key))
		if v == "" {
			continue
		}
		if b, ok := parseEnvBool(v); ok {
			*field = &b
			cfg.Sources[key] = string(SourceEnv)
		}
	}
}

// parseEnvBool parses a boolean environment variable strictly.
// Returns (value, true) for recognized values, (false, false) for unrecognized.
// Unrecognized values are ignored to preserve three-state pointer semantics.
func parseEnvBool(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	default:
		return false, false
	}
}

// ApplyOverrides applies set flag overrides to cfg.
func ApplyOverrides(cfg *Config, o FlagOverrides) {
	if o.Theme != "" {
		cfg.Theme = o.Theme
		cfg.Sources["theme"] = string(SourceFlag)
	}
	if o.Width != 0 {
		cfg.Width = o.Width
		cfg.Sources["width"] = string(SourceFlag)
	}
	flags := map[string]*bool{
		"unicode":              o.Unicode,
		"nerd_font":            o.NerdFont,
		"hyperlinks":           o.Hyperlinks,
		"files":                o.Files,
		"hide_hyperlink_hints": o.HideHyperlinkHints,
		"plain":                o.Plain,
		"unicode_border":       o.UnicodeBorder,
	}
	fields := cfg.boolKeys()
	for key, v := range flags {
		if v == nil {
			continue
		}
		b := *v
		*fields[key] = &b
		cfg.Sources[key] = string(SourceFlag)
	}
}

// Capabilities resolves the configuration against the detected terminal.
// Unset switches follow the terminal: unicode from the locale, hyperlinks
// and decorations only on a terminal. Files default to on, nerd fonts and
// hint hiding to off.
func (cfg *Config) Capabilities(d Detected) render.Capabilities {
	return render.Capabilities{
		Unicode:            boolOr(cfg.Unicode, d.Unicode),
		NerdFont:           boolOr(cfg.NerdFont, false),
		Hyperlinks:         boolOr(cfg.Hyperlinks, d.Terminal),
		Plain:              boolOr(cfg.Plain, !d.Terminal),
		Files:              boolOr(cfg.Files, true),
		HideHyperlinkHints: boolOr(cfg.HideHyperlinkHints, false),
		Theme:              cfg.Theme,
	}
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

// Path helpers

func systemConfigPath() string {
	return "/etc/nbpreview/config.json"
}

func globalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.json")
}

// GlobalConfigDir returns the global config directory path.
func GlobalConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "nbpreview")
}
