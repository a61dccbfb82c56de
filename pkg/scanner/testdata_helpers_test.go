package scanner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/santaclaude2025/sessiontriage/pkg/config"
	"github.com/stretchr/testify/require"
)

// userLine builds a human user entry with string content
func userLine(text string) string {
	return entryLine(map[string]interface{}{
		"type":    "user",
		"message": map[string]interface{}{"role": "user", "content": text},
	})
}

// metaUserLine builds a system-injected user entry
func metaUserLine(text string) string {
	return entryLine(map[string]interface{}{
		"type":    "user",
		"isMeta":  true,
		"message": map[string]interface{}{"role": "user", "content": text},
	})
}

// assistantLine builds an assistant entry with a single text part
func assistantLine(text string) string {
	return entryLine(map[string]interface{}{
		"type": "assistant",
		"message": map[string]interface{}{
			"role":    "assistant",
			"content": []interface{}{map[string]interface{}{"type": "text", "text": text}},
		},
	})
}

// toolUseLine builds an assistant entry with a tool_use part
func toolUseLine(input interface{}) string {
	return entryLine(map[string]interface{}{
		"type": "assistant",
		"message": map[string]interface{}{
			"role": "assistant",
			"content": []interface{}{
				map[string]interface{}{"type": "tool_use", "id": "toolu_1", "name": "Bash", "input": input},
			},
		},
	})
}

func entryLine(v map[string]interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// paddingLine is a message-less entry the scanner ignores
func paddingLine(n int) string {
	return `{"type":"file-history-snapshot","snapshot":"` + strings.Repeat("x", n) + `"}`
}

// sessionContent joins lines and pads the result to at least minBytes
func sessionContent(minBytes int, lines ...string) string {
	content := strings.Join(lines, "\n") + "\n"
	if missing := minBytes - len(content); missing > 0 {
		pad := paddingLine(0)
		n := missing - len(pad) - 1
		if n < 0 {
			n = 0
		}
		content += paddingLine(n) + "\n"
	}
	return content
}

// writeSession writes a padded (>= 4 KiB) session file and sets its mtime
func writeSession(t *testing.T, dir, name string, modTime time.Time, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(sessionContent(4*1024, lines...)), 0644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
	return path
}

// scanLines runs the reduction over lines with a size above the threshold
func scanLines(t *testing.T, lines ...string) *Summary {
	t.Helper()
	meta := FileMeta{
		SessionID: "test-session",
		Path:      "/sessions/test-session.jsonl",
		ModTime:   time.Date(2025, 3, 4, 15, 6, 7, 0, time.Local),
		SizeBytes: 5 * 1024,
	}
	summary, err := New(config.DefaultLimits()).ScanReader(strings.NewReader(strings.Join(lines, "\n")), meta)
	require.NoError(t, err)
	require.NotNil(t, summary)
	return summary
}
