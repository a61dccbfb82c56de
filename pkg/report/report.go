package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/santaclaude2025/sessiontriage/pkg/config"
	"github.com/santaclaude2025/sessiontriage/pkg/scanner"
	"github.com/santaclaude2025/sessiontriage/pkg/utils"
)

const (
	// shortIDLen matches the session ID prefix shown in listings
	shortIDLen = 8
	// excerptWidth is the terminal width allotted to each excerpt line
	excerptWidth = 96
)

// Formats lists the accepted --format values
var Formats = []string{config.FormatJSON, config.FormatYAML, config.FormatText}

// CheckFormat reports whether format is one Write accepts; "" means json
func CheckFormat(format string) error {
	if format == "" {
		return nil
	}
	for _, f := range Formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (valid: %s)", format, strings.Join(Formats, ", "))
}

// Write renders summaries in the given format
func Write(w io.Writer, summaries []*scanner.Summary, format string) error {
	if err := CheckFormat(format); err != nil {
		return err
	}
	if summaries == nil {
		summaries = []*scanner.Summary{}
	}

	switch format {
	case config.FormatJSON, "":
		return writeJSON(w, summaries)
	case config.FormatYAML:
		return writeYAML(w, summaries)
	default: // text
		return writeText(w, summaries, time.Now())
	}
}

func writeJSON(w io.Writer, summaries []*scanner.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(summaries); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, summaries []*scanner.Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(summaries); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

// writeText prints one block per session for reading in a terminal
func writeText(w io.Writer, summaries []*scanner.Summary, now time.Time) error {
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}

	for i, s := range summaries {
		fmt.Fprintf(w, "%2d)  %-8s  %s  %-14s  %5d KB  %s\n",
			i+1,
			utils.ShortID(s.SessionID, shortIDLen),
			s.Modified,
			formatAge(s.ModTime, now),
			s.SizeKB,
			formatFlags(s),
		)
		fmt.Fprintf(w, "     msgs:  %d substantive / %d total\n", s.UserMsgsSubstantive, s.UserMsgsTotal)
		writeExcerpt(w, "first", s.FirstUser)
		writeExcerpt(w, "last", s.LastUser)
		writeExcerpt(w, "reply", s.LastAssistant)
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func writeExcerpt(w io.Writer, label, text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(w, "     %-6s  %s\n", label+":", fitWidth(text, excerptWidth))
}

// fitWidth shortens s to a terminal display width, so wide characters count double
func fitWidth(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

// formatFlags renders the set flags as a bracketed list, or "-" when none are set
func formatFlags(s *scanner.Summary) string {
	var flags []string
	if s.Signals.Commit {
		flags = append(flags, "commit")
	}
	if s.Signals.Transcribe {
		flags = append(flags, "transcribe")
	}
	if s.Signals.Handoff {
		flags = append(flags, "handoff")
	}
	if s.Interrupted {
		flags = append(flags, "interrupted")
	}
	if len(flags) == 0 {
		return "-"
	}
	return "[" + strings.Join(flags, " ") + "]"
}

// formatAge formats a time as a human-readable age
func formatAge(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)

	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	}
	if d < 24*time.Hour {
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	if d < 7*24*time.Hour {
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}

	return t.Format("Jan 2")
}
