package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheCmd_StatusAndPrune(t *testing.T) {
	dir := setupTestEnv(t)
	cachePath := filepath.Join(t.TempDir(), "cache.db")
	now := time.Now()
	writeSessionFile(t, dir, "keep.jsonl", 4096, now, userEntry(t, "a session to keep"))
	gone := writeSessionFile(t, dir, "gone.jsonl", 4096, now.Add(-time.Hour), userEntry(t, "a session to delete"))

	_, _, err := executeRoot(t, dir, "--cache", cachePath)
	require.NoError(t, err)

	stdout, _, err := executeRoot(t, "cache", "status", "--cache", cachePath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cache: "+cachePath)
	assert.Contains(t, stdout, "Cached summaries: 2")
	assert.Contains(t, stdout, "Last updated: ")

	require.NoError(t, os.Remove(gone))

	stdout, _, err = executeRoot(t, "cache", "prune", dir, "--cache", cachePath)
	require.NoError(t, err)
	assert.Equal(t, "Removed 1 stale entry.\n", stdout)

	stdout, _, err = executeRoot(t, "cache", "status", "--cache", cachePath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cached summaries: 1")
}

func TestCacheCmd_RequiresCachePath(t *testing.T) {
	setupTestEnv(t)

	_, _, err := executeRoot(t, "cache", "status")
	require.ErrorIs(t, err, errNoCache)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{90 * time.Minute, "1.5h"},
		{36 * time.Hour, "1.5d"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.d))
		})
	}
}
