package discovery

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/santaclaude2025/sessiontriage/pkg/config"
	"github.com/santaclaude2025/sessiontriage/pkg/logger"
)

// Candidate is a session file eligible for scanning
type Candidate struct {
	SessionID string
	Path      string
	ModTime   time.Time
	SizeBytes int64
}

// SelectOptions controls which session files are selected.
// Zero MaxAgeDays / MaxCount disable the filter. A negative MaxAgeDays puts
// the cutoff in the future; a negative MaxCount drops that many files from
// the oldest end.
type SelectOptions struct {
	Pattern     string
	AuxSuffixes []string
	MaxAgeDays  int
	MaxCount    int
	Now         func() time.Time // defaults to time.Now
}

// warnOutput receives the skipped-path summary
var warnOutput io.Writer = os.Stderr

// SelectCandidates lists session files in dir, newest first, after
// applying the age and count filters.
// A missing directory yields an empty list.
func SelectCandidates(dir string, opts SelectOptions) ([]Candidate, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Debug("Sessions directory does not exist: %s", dir)
		return nil, nil
	}

	pattern := opts.Pattern
	if pattern == "" {
		pattern = config.DefaultSessionPattern
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid session pattern %q: %w", pattern, err)
	}

	var candidates []Candidate
	var skippedPaths []string

	for _, path := range matches {
		name := filepath.Base(path)
		if hasAnySuffix(name, opts.AuxSuffixes) {
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			logger.Warn("Failed to stat session file: %s: %v", path, err)
			skippedPaths = append(skippedPaths, path)
			continue
		}
		if info.IsDir() {
			continue
		}

		candidates = append(candidates, Candidate{
			SessionID: strings.TrimSuffix(name, filepath.Ext(name)),
			Path:      path,
			ModTime:   info.ModTime(),
			SizeBytes: info.Size(),
		})
	}

	reportSkippedPaths(skippedPaths)

	// Newest first; equal mtimes keep glob order
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ModTime.After(candidates[j].ModTime)
	})

	if opts.MaxAgeDays != 0 {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		cutoff := now().Add(-time.Duration(opts.MaxAgeDays) * 24 * time.Hour)
		candidates = filterSince(candidates, cutoff)
	}

	if opts.MaxCount != 0 {
		candidates = candidates[:countLimit(len(candidates), opts.MaxCount)]
	}

	logger.Debug("Selected %d session file(s) from %s", len(candidates), dir)
	return candidates, nil
}

func filterSince(candidates []Candidate, cutoff time.Time) []Candidate {
	kept := candidates[:0]
	for _, c := range candidates {
		if !c.ModTime.Before(cutoff) {
			kept = append(kept, c)
		}
	}
	return kept
}

// countLimit returns how many of n candidates to keep.
// A negative limit counts from the end, like a slice bound of n+limit.
func countLimit(n, limit int) int {
	if limit < 0 {
		limit += n
		if limit < 0 {
			return 0
		}
	}
	if limit > n {
		return n
	}
	return limit
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if s != "" && strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// reportSkippedPaths prints a user-friendly warning about paths that couldn't be accessed
func reportSkippedPaths(skippedPaths []string) {
	if len(skippedPaths) == 0 {
		return
	}

	fmt.Fprintf(warnOutput, "\n⚠ Warning: Could not access %d session file(s):\n", len(skippedPaths))
	for _, p := range skippedPaths {
		fmt.Fprintf(warnOutput, "  - %s\n", p)
	}
	fmt.Fprintf(warnOutput, "Check permissions or rerun with --log-level debug\n\n")
}
