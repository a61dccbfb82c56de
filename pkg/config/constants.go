package config

// Application constants - centralized values used across packages

// === Session Files ===

const (
	// DefaultSessionPattern selects session logs inside the sessions directory
	DefaultSessionPattern = "*.jsonl"

	// DefaultAuxSuffix marks companion metadata files that are never summarized
	DefaultAuxSuffix = ".wakatime"
)

// KB is the divisor for size_kb and the size threshold
const KB = 1024

// === Scan Thresholds ===

const (
	// MinSessionKB is the smallest session (in KiB) worth triaging.
	// Anything below is an empty or trivial session.
	MinSessionKB = 3.0

	// MinUserChars: user messages at or below this many characters are noise
	MinUserChars = 10

	// MinAssistantChars: assistant texts at or below this many characters are not kept
	MinAssistantChars = 20

	// MinExcerptChars: first/last user excerpts must be longer than this
	MinExcerptChars = 15
)

// Excerpt truncation limits (characters)
const (
	FirstUserMaxChars     = 400
	LastUserMaxChars      = 300
	LastAssistantMaxChars = 400
)

// ModifiedLayout formats the session modification time (local time)
const ModifiedLayout = "2006-01-02 15:04"

// === Output Formats ===

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// === Environment Variables ===

const (
	// ConfigPathEnv points at a YAML config file when --config is not given
	ConfigPathEnv = "SCAN_SESSIONS_CONFIG"
)
