// Package config handles global configuration and logger setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/matsen/citemark/internal/citation"
)

// Config represents configuration stored in ~/.config/citemark/config.yml.
type Config struct {
	Bibliography string `yaml:"bibliography,omitempty" json:"bibliography"` // default bibliography source
	Root         string `yaml:"root,omitempty" json:"root"`                 // base for metadata bibliography paths
	Placeholder  string `yaml:"placeholder,omitempty" json:"placeholder"`   // replaced by the reference list
	Encoding     string `yaml:"encoding,omitempty" json:"encoding"`         // IANA charset of .bib files
	LogLevel     string `yaml:"log_level,omitempty" json:"log_level"`       // none, normal or debug
	SafeHTML     bool   `yaml:"safe_html,omitempty" json:"safe_html"`
	GFM          bool   `yaml:"gfm,omitempty" json:"gfm"`
}

// Environment variables overriding the config file.
const (
	EnvBibliography = "CITEMARK_BIBLIOGRAPHY"
	EnvRoot         = "CITEMARK_ROOT"
	EnvEncoding     = "CITEMARK_ENCODING"
	EnvLogLevel     = "CITEMARK_LOG_LEVEL"
)

// Log levels.
const (
	LogNone   = "none"
	LogNormal = "normal"
	LogDebug  = "debug"
)

// ValidLogLevels lists the supported log_level values.
var ValidLogLevels = []string{LogNone, LogNormal, LogDebug}

// Keys lists the settable config keys in display order.
var Keys = []string{"bibliography", "root", "placeholder", "encoding", "log_level", "safe_html", "gfm"}

// ApplyDefaults fills unset values.
func (c *Config) ApplyDefaults() {
	if c.Placeholder == "" {
		c.Placeholder = citation.DefaultPlaceholder
	}
	if c.LogLevel == "" {
		c.LogLevel = LogNormal
	}
}

// ApplyEnv overrides values from the environment. Empty variables are
// ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvBibliography); v != "" {
		c.Bibliography = v
	}
	if v := os.Getenv(EnvRoot); v != "" {
		c.Root = v
	}
	if v := os.Getenv(EnvEncoding); v != "" {
		c.Encoding = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// ExpandPaths expands ~ in path values.
func (c *Config) ExpandPaths() {
	c.Bibliography = ExpandPath(c.Bibliography)
	c.Root = ExpandPath(c.Root)
}

// Validate checks enumerated and charset values.
func (c *Config) Validate() error {
	if err := ValidateLogLevel(c.LogLevel); err != nil {
		return err
	}
	return ValidateEncoding(c.Encoding)
}

// Get returns the string form of a config value.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "bibliography":
		return c.Bibliography, nil
	case "root":
		return c.Root, nil
	case "placeholder":
		return c.Placeholder, nil
	case "encoding":
		return c.Encoding, nil
	case "log_level":
		return c.LogLevel, nil
	case "safe_html":
		return fmt.Sprint(c.SafeHTML), nil
	case "gfm":
		return fmt.Sprint(c.GFM), nil
	}
	return "", fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(Keys, ", "))
}

// Set assigns a config value from its string form.
func (c *Config) Set(key, value string) error {
	switch key {
	case "bibliography":
		c.Bibliography = value
	case "root":
		c.Root = value
	case "placeholder":
		c.Placeholder = value
	case "encoding":
		if err := ValidateEncoding(value); err != nil {
			return err
		}
		c.Encoding = value
	case "log_level":
		if err := ValidateLogLevel(value); err != nil {
			return err
		}
		c.LogLevel = value
	case "safe_html", "gfm":
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		if key == "gfm" {
			c.GFM = b
		} else {
			c.SafeHTML = b
		}
	default:
		return fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}

// ValidateLogLevel checks that level is one of ValidLogLevels.
func ValidateLogLevel(level string) error {
	if level == "" {
		return nil // Empty defaults to "normal"
	}

	for _, valid := range ValidLogLevels {
		if level == valid {
			return nil
		}
	}

	return fmt.Errorf("invalid log_level: %s (valid: %v)", level, ValidLogLevels)
}

// ValidateEncoding checks that name is a known IANA charset.
func ValidateEncoding(name string) error {
	if name == "" {
		return nil // Empty is UTF-8
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return fmt.Errorf("unsupported encoding: %s", name)
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
