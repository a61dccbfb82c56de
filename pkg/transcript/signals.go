package transcript

import "strings"

// Signal is a commit, transcribe or handoff hint seen in a session,
// either in a tool invocation or in assistant phrasing
type Signal uint8

const (
	CommitTool Signal = 1 << iota
	CommitText
	TranscribeTool
	TranscribeText
	HandoffTool
	HandoffText
)

var allSignals = []Signal{CommitTool, CommitText, TranscribeTool, TranscribeText, HandoffTool, HandoffText}

func (s Signal) String() string {
	switch s {
	case CommitTool:
		return "commit_tool"
	case CommitText:
		return "commit_text"
	case TranscribeTool:
		return "transcribe_tool"
	case TranscribeText:
		return "transcribe_text"
	case HandoffTool:
		return "handoff_tool"
	case HandoffText:
		return "handoff_text"
	default:
		return "unknown"
	}
}

// SignalSet is a set of signals. The zero value is empty.
type SignalSet uint8

// NewSignalSet builds a set from the given signals
func NewSignalSet(signals ...Signal) SignalSet {
	var set SignalSet
	for _, s := range signals {
		set.Add(s)
	}
	return set
}

// Add puts s in the set
func (set *SignalSet) Add(s Signal) {
	*set |= SignalSet(s)
}

// Union adds every signal of other to the set
func (set *SignalSet) Union(other SignalSet) {
	*set |= other
}

// Has reports whether s is in the set
func (set SignalSet) Has(s Signal) bool {
	return set&SignalSet(s) != 0
}

// Empty reports whether no signal was seen
func (set SignalSet) Empty() bool {
	return set == 0
}

// Commit is true when either commit signal was seen
func (set SignalSet) Commit() bool {
	return set.Has(CommitTool) || set.Has(CommitText)
}

// Transcribe is true when either transcribe signal was seen
func (set SignalSet) Transcribe() bool {
	return set.Has(TranscribeTool) || set.Has(TranscribeText)
}

// Handoff is true when either handoff signal was seen
func (set SignalSet) Handoff() bool {
	return set.Has(HandoffTool) || set.Has(HandoffText)
}

// Names lists the signal names in a fixed order
func (set SignalSet) Names() []string {
	var names []string
	for _, s := range allSignals {
		if set.Has(s) {
			names = append(names, s.String())
		}
	}
	return names
}

func (set SignalSet) String() string {
	return "{" + strings.Join(set.Names(), ",") + "}"
}

// ExtractToolSignals inspects the tool_use parts of list-shaped content.
// The commit check is case-sensitive; transcribe and handoff are not.
func ExtractToolSignals(c Content) SignalSet {
	var set SignalSet
	if c.Kind() != ContentParts {
		return set
	}

	for _, p := range c.Parts() {
		if p.Type != PartToolUse {
			continue
		}
		input := stringifyInput(p.Input)
		if strings.Contains(input, "git commit") || strings.Contains(input, "git push") {
			set.Add(CommitTool)
		}
		lower := strings.ToLower(input)
		// "transcri" catches both transcript and transcribe
		if strings.Contains(lower, "transcri") {
			set.Add(TranscribeTool)
		}
		if strings.Contains(lower, "handoff") {
			set.Add(HandoffTool)
		}
	}
	return set
}

var commitConfirmations = []string{"success", "pushed", "created commit", "committed"}

// DetectTextSignals looks for completion phrasing in assistant text
func DetectTextSignals(text string) SignalSet {
	var set SignalSet
	lower := strings.ToLower(text)

	if strings.Contains(lower, "commit") && containsAny(lower, commitConfirmations) {
		set.Add(CommitText)
	}
	if strings.Contains(lower, "transcript saved") || strings.Contains(lower, "saved to") {
		set.Add(TranscribeText)
	}
	// TODO: "handoff" + "continue" anywhere in the text over-triggers on prose that
	// merely discusses a handoff; tighten once real false positives are collected.
	if strings.Contains(lower, "handoff written") ||
		(strings.Contains(lower, "handoff") && strings.Contains(lower, "continue")) {
		set.Add(HandoffText)
	}
	return set
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
