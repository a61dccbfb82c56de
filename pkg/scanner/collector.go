package scanner

import (
	"strings"

	"github.com/santaclaude2025/sessiontriage/pkg/config"
	"github.com/santaclaude2025/sessiontriage/pkg/transcript"
	"github.com/santaclaude2025/sessiontriage/pkg/utils"
)

// Interruption markers written when the user stops the assistant mid-turn
const (
	InterruptedMarker        = "[Request interrupted by user]"
	InterruptedToolUseMarker = "[Request interrupted by user for tool use]"
)

// Prefixes of system-injected user messages
var injectedPrefixes = []string{"<system", "<local-command"}

// Prefixes that additionally disqualify a message from being substantive
var nonSubstantivePrefixes = []string{"<system", "<local-command", "<command-name>"}

// Slash-command wrapper tags stripped from the first user excerpt
var commandTags = []string{
	"<command-message>",
	"</command-message>",
	"<command-name>",
	"</command-name>",
	"<command-args>",
	"</command-args>",
}

type userMessage struct {
	text   string
	isMeta bool
}

// sessionCollector reduces the entry stream of one file in a single pass.
// Accumulators only grow; nothing is revisited.
type sessionCollector struct {
	limits config.Limits

	users         []userMessage
	lastAssistant string
	hasAssistant  bool
	signals       transcript.SignalSet
}

func newSessionCollector(limits config.Limits) *sessionCollector {
	return &sessionCollector{limits: limits}
}

// Collect is called for each parsed entry
func (c *sessionCollector) Collect(entry *transcript.Entry) {
	if entry.Message == nil {
		return
	}

	content := entry.Content()
	text := transcript.ExtractText(content)
	c.signals.Union(transcript.ExtractToolSignals(content))

	if entry.HasRole(transcript.RoleUser) {
		// Short messages are noise and never counted
		if utils.RuneLen(text) > c.limits.MinUserChars {
			c.users = append(c.users, userMessage{text: text, isMeta: entry.IsMeta})
		}
	}

	if entry.HasRole(transcript.RoleAssistant) {
		c.signals.Union(transcript.DetectTextSignals(text))
		if utils.RuneLen(text) > c.limits.MinAssistantChars {
			c.lastAssistant = text
			c.hasAssistant = true
		}
	}
}

// Finalize derives the summary once every entry has been collected
func (c *sessionCollector) Finalize(meta FileMeta) *Summary {
	var nonMeta []string
	for _, u := range c.users {
		if !u.isMeta {
			nonMeta = append(nonMeta, u.text)
		}
	}

	var substantive []string
	for _, text := range nonMeta {
		if isSubstantive(text) {
			substantive = append(substantive, text)
		}
	}

	summary := &Summary{
		UserMsgsTotal:       len(c.users),
		UserMsgsSubstantive: len(substantive),
		Signals: Signals{
			Commit:     c.signals.Commit(),
			Transcribe: c.signals.Transcribe(),
			Handoff:    c.signals.Handoff(),
		},
		Interrupted:   lastUserInterrupted(nonMeta),
		FirstUser:     utils.TruncateRunes(c.firstUser(substantive), c.limits.FirstUserMaxChars),
		LastUser:      utils.TruncateRunes(c.lastUser(substantive), c.limits.LastUserMaxChars),
		LastAssistant: utils.TruncateRunes(c.lastAssistantText(), c.limits.LastAssistantMaxChars),
	}
	meta.Stamp(summary)
	return summary
}

// firstUser is the earliest substantive message, with command tags removed
func (c *sessionCollector) firstUser(substantive []string) string {
	for _, text := range substantive {
		cleaned := cleanCommandText(text)
		if utils.RuneLen(cleaned) > c.limits.MinExcerptChars {
			return cleaned
		}
	}
	return ""
}

// lastUser is the latest substantive message; tags are kept
func (c *sessionCollector) lastUser(substantive []string) string {
	for i := len(substantive) - 1; i >= 0; i-- {
		cleaned := utils.CollapseWhitespace(substantive[i])
		if utils.RuneLen(cleaned) > c.limits.MinExcerptChars {
			return cleaned
		}
	}
	return ""
}

func (c *sessionCollector) lastAssistantText() string {
	if !c.hasAssistant {
		return ""
	}
	return utils.CollapseWhitespace(c.lastAssistant)
}

func isSubstantive(text string) bool {
	if hasAnyPrefix(text, nonSubstantivePrefixes) {
		return false
	}
	return !isInterruptionMarker(text)
}

// lastUserInterrupted reports whether the latest human-typed message
// is one of the interruption markers
func lastUserInterrupted(nonMeta []string) bool {
	for i := len(nonMeta) - 1; i >= 0; i-- {
		text := nonMeta[i]
		if hasAnyPrefix(text, injectedPrefixes) {
			continue
		}
		return isInterruptionMarker(strings.TrimSpace(text))
	}
	return false
}

func isInterruptionMarker(text string) bool {
	return text == InterruptedMarker || text == InterruptedToolUseMarker
}

// cleanCommandText replaces each wrapper tag with a space, one tag at a time,
// then collapses whitespace
func cleanCommandText(text string) string {
	for _, tag := range commandTags {
		text = strings.ReplaceAll(text, tag, " ")
	}
	return utils.CollapseWhitespace(text)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
