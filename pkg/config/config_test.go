package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "*.jsonl", cfg.Pattern)
	assert.Equal(t, []string{".wakatime"}, cfg.AuxSuffixes)
	assert.Equal(t, 3.0, cfg.Limits.MinSessionKB)
	assert.Equal(t, 10, cfg.Limits.MinUserChars)
	assert.Equal(t, 20, cfg.Limits.MinAssistantChars)
	assert.Equal(t, 15, cfg.Limits.MinExcerptChars)
	assert.Equal(t, 400, cfg.Limits.FirstUserMaxChars)
	assert.Equal(t, 300, cfg.Limits.LastUserMaxChars)
	assert.Equal(t, 400, cfg.Limits.LastAssistantMaxChars)
	assert.Equal(t, FormatJSON, cfg.Format)
}

func TestLoad_PartialOverride(t *testing.T) {
	path := writeConfig(t, `
aux_suffixes: [".wakatime", ".meta.jsonl"]
limits:
  min_session_kb: 1.5
  last_user_max_chars: 120
format: text
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{".wakatime", ".meta.jsonl"}, cfg.AuxSuffixes)
	assert.Equal(t, 1.5, cfg.Limits.MinSessionKB)
	assert.Equal(t, 120, cfg.Limits.LastUserMaxChars)
	assert.Equal(t, FormatText, cfg.Format)

	// untouched fields keep their defaults
	assert.Equal(t, "*.jsonl", cfg.Pattern)
	assert.Equal(t, 400, cfg.Limits.FirstUserMaxChars)
	assert.Equal(t, 10, cfg.Limits.MinUserChars)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown field", "colour: blue\n"},
		{"malformed yaml", "limits: [1, 2\n"},
		{"unknown format", "format: xml\n"},
		{"empty pattern", "pattern: \"\"\n"},
		{"pattern with directory", "pattern: sub/*.jsonl\n"},
		{"negative threshold", "limits:\n  min_user_chars: -1\n"},
		{"zero excerpt limit", "limits:\n  first_user_max_chars: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolvePath(t *testing.T) {
	t.Setenv(ConfigPathEnv, "/from/env.yaml")
	assert.Equal(t, "/from/flag.yaml", ResolvePath("/from/flag.yaml"))
	assert.Equal(t, "/from/env.yaml", ResolvePath(""))

	t.Setenv(ConfigPathEnv, "")
	assert.Equal(t, "", ResolvePath(""))
}

func TestLimits_Fingerprint(t *testing.T) {
	base := DefaultLimits()
	assert.Equal(t, base.Fingerprint(), DefaultLimits().Fingerprint())
	assert.Len(t, base.Fingerprint(), 16)

	changed := DefaultLimits()
	changed.FirstUserMaxChars = 10
	assert.NotEqual(t, base.Fingerprint(), changed.Fingerprint())

	threshold := DefaultLimits()
	threshold.MinSessionKB = 3.5
	assert.NotEqual(t, base.Fingerprint(), threshold.Fingerprint())
}
