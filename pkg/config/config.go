package config

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Limits holds the scanner thresholds and excerpt sizes
type Limits struct {
	MinSessionKB          float64 `yaml:"min_session_kb"`
	MinUserChars          int     `yaml:"min_user_chars"`
	MinAssistantChars     int     `yaml:"min_assistant_chars"`
	MinExcerptChars       int     `yaml:"min_excerpt_chars"`
	FirstUserMaxChars     int     `yaml:"first_user_max_chars"`
	LastUserMaxChars      int     `yaml:"last_user_max_chars"`
	LastAssistantMaxChars int     `yaml:"last_assistant_max_chars"`
}

// Config is the optional scan_sessions configuration file.
// Every field has a default; a config file only overrides what it sets.
type Config struct {
	Pattern     string   `yaml:"pattern"`
	AuxSuffixes []string `yaml:"aux_suffixes"`
	Limits      Limits   `yaml:"limits"`
	LogLevel    string   `yaml:"log_level"`
	Format      string   `yaml:"format"`
}

// DefaultLimits returns the stock thresholds
func DefaultLimits() Limits {
	return Limits{
		MinSessionKB:          MinSessionKB,
		MinUserChars:          MinUserChars,
		MinAssistantChars:     MinAssistantChars,
		MinExcerptChars:       MinExcerptChars,
		FirstUserMaxChars:     FirstUserMaxChars,
		LastUserMaxChars:      LastUserMaxChars,
		LastAssistantMaxChars: LastAssistantMaxChars,
	}
}

// Fingerprint identifies this set of limits. Summaries computed under
// different limits have different fingerprints.
func (l Limits) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%+v", l)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Pattern:     DefaultSessionPattern,
		AuxSuffixes: []string{DefaultAuxSuffix},
		Limits:      DefaultLimits(),
		LogLevel:    "warn",
		Format:      FormatJSON,
	}
}

// ResolvePath picks the config file path: the flag value wins over the environment.
// Returns "" when neither is set.
func ResolvePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	return os.Getenv(ConfigPathEnv)
}

// Load reads a YAML config file on top of the defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values a config file may have broken
func (c *Config) Validate() error {
	if c.Pattern == "" {
		return fmt.Errorf("pattern must not be empty")
	}
	if strings.ContainsRune(c.Pattern, os.PathSeparator) {
		return fmt.Errorf("pattern must be a file name pattern, got %q", c.Pattern)
	}
	switch c.Format {
	case FormatJSON, FormatYAML, FormatText:
	default:
		return fmt.Errorf("unknown format %q (want json, yaml or text)", c.Format)
	}

	l := c.Limits
	if l.MinSessionKB < 0 || l.MinUserChars < 0 || l.MinAssistantChars < 0 || l.MinExcerptChars < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	if l.FirstUserMaxChars <= 0 || l.LastUserMaxChars <= 0 || l.LastAssistantMaxChars <= 0 {
		return fmt.Errorf("excerpt limits must be positive")
	}
	return nil
}
