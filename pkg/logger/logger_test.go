package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevels(t *testing.T) {
	tests := []struct {
		name      string
		setLevel  Level
		logFunc   func(*Logger, string, ...interface{})
		shouldLog bool
	}{
		{"DEBUG below INFO", INFO, (*Logger).Debug, false},
		{"INFO at INFO", INFO, (*Logger).Info, true},
		{"WARN at INFO", INFO, (*Logger).Warn, true},
		{"ERROR at INFO", INFO, (*Logger).Error, true},
		{"INFO below WARN", WARN, (*Logger).Info, false},
		{"WARN at WARN", WARN, (*Logger).Warn, true},
		{"DEBUG at DEBUG", DEBUG, (*Logger).Debug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf, tt.setLevel)

			tt.logFunc(l, "test message")

			assert.Equal(t, tt.shouldLog, buf.Len() > 0, "content: %s", buf.String())
		})
	}
}

func TestLogFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, INFO)

	l.Info("scanned %d session(s)", 3)

	line := buf.String()
	// Verify format: [timestamp] LEVEL: message
	assert.Contains(t, line, "INFO: scanned 3 session(s)")
	assert.Contains(t, line, time.Now().Format("2006-01-02"))
	assert.True(t, strings.HasPrefix(line, "["))
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, ERROR)

	l.Warn("hidden")
	assert.Zero(t, buf.Len())

	l.SetLevel(WARN)
	assert.Equal(t, WARN, l.Level())
	l.Warn("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{"INFO", INFO, false},
		{"warn", WARN, false},
		{"Warning", WARN, false},
		{" error ", ERROR, false},
		{"verbose", WARN, true},
		{"", WARN, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "ERROR", ERROR.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestInit_FileOutput(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	logPath := filepath.Join(t.TempDir(), "logs", "scan_sessions.log")
	require.NoError(t, Init(Options{Level: INFO, FilePath: logPath}))
	assert.Equal(t, logPath, Get().LogPath())

	// lumberjack creates the file lazily on first write
	Info("written to %s", "file")
	Debug("filtered out")
	require.NoError(t, Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "INFO: written to file")
	assert.NotContains(t, string(content), "filtered out")
}

func TestGet_DefaultsToWarnOnStderr(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	l := Get()
	require.NotNil(t, l)
	assert.Equal(t, WARN, l.Level())
	assert.Empty(t, l.LogPath())
	assert.Same(t, l, Get())
}
