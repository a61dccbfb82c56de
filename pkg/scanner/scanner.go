package scanner

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/santaclaude2025/sessiontriage/pkg/config"
	"github.com/santaclaude2025/sessiontriage/pkg/logger"
	"github.com/santaclaude2025/sessiontriage/pkg/transcript"
)

// ErrNotRegularFile is returned when the session path is a directory or device
var ErrNotRegularFile = errors.New("not a regular file")

// readBufferSize is the initial read buffer; lines longer than this are still read whole
const readBufferSize = 64 * 1024

// Scanner turns session files into summaries
type Scanner struct {
	limits config.Limits
}

// New creates a scanner with the given thresholds
func New(limits config.Limits) *Scanner {
	return &Scanner{limits: limits}
}

// ScanSession scans with the default thresholds
func ScanSession(path string) (*Summary, error) {
	return New(config.DefaultLimits()).ScanSession(path)
}

// ScanSession summarizes one session file.
// Returns nil, nil for sessions below the size threshold.
func (s *Scanner) ScanSession(path string) (*Summary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat session file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}

	return s.ScanFile(MetaFromFileInfo(path, info))
}

// ScanFile summarizes the file described by meta without stat'ing it again.
// Size, mtime and identifier are taken from meta.
func (s *Scanner) ScanFile(meta FileMeta) (*Summary, error) {
	if s.tooSmall(meta) {
		logger.Debug("Skipping %s: %.1f KB is below threshold", meta.SessionID, meta.SizeKB())
		return nil, nil
	}

	file, err := os.Open(meta.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}
	defer file.Close()

	return s.ScanReader(file, meta)
}

// ScanReader summarizes a session stream described by meta.
// Blank and unparseable lines are skipped; only read errors are returned.
func (s *Scanner) ScanReader(r io.Reader, meta FileMeta) (*Summary, error) {
	if s.tooSmall(meta) {
		return nil, nil
	}

	collector := newSessionCollector(s.limits)
	stats, err := forEachEntry(r, collector.Collect)
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", meta.SessionID, err)
	}

	logger.Debug("Scanned %s: %d entries, %d malformed line(s) skipped",
		meta.SessionID, stats.entries, stats.malformed)

	return collector.Finalize(meta), nil
}

func (s *Scanner) tooSmall(meta FileMeta) bool {
	return meta.SizeKB() < s.limits.MinSessionKB
}

type lineStats struct {
	entries   int
	malformed int
}

// forEachEntry streams newline-delimited JSON, invoking fn for each parsed entry.
// The last line may be missing its newline (log still being written).
func forEachEntry(r io.Reader, fn func(*transcript.Entry)) (lineStats, error) {
	var stats lineStats
	reader := bufio.NewReaderSize(r, readBufferSize)

	for {
		line, readErr := reader.ReadBytes('\n')

		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			entry, err := transcript.ParseEntry(trimmed)
			if err != nil {
				// Skip unparseable lines (e.g., malformed JSON)
				stats.malformed++
			} else {
				stats.entries++
				fn(entry)
			}
		}

		if readErr == io.EOF {
			return stats, nil
		}
		if readErr != nil {
			return stats, readErr
		}
	}
}
