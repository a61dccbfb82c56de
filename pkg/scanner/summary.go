package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/santaclaude2025/sessiontriage/pkg/config"
)

// Signals holds the three triage flags of a session
type Signals struct {
	Commit     bool `json:"commit" yaml:"commit"`
	Transcribe bool `json:"transcribe" yaml:"transcribe"`
	Handoff    bool `json:"handoff" yaml:"handoff"`
}

// Summary is the triage record for one session.
// Field order is the output order.
type Summary struct {
	SessionID           string  `json:"session_id" yaml:"session_id"`
	Modified            string  `json:"modified" yaml:"modified"`
	SizeKB              int64   `json:"size_kb" yaml:"size_kb"`
	UserMsgsTotal       int     `json:"user_msgs_total" yaml:"user_msgs_total"`
	UserMsgsSubstantive int     `json:"user_msgs_substantive" yaml:"user_msgs_substantive"`
	Signals             Signals `json:"signals" yaml:"signals"`
	Interrupted         bool    `json:"interrupted" yaml:"interrupted"`
	FirstUser           string  `json:"first_user" yaml:"first_user"`
	LastUser            string  `json:"last_user" yaml:"last_user"`
	LastAssistant       string  `json:"last_assistant" yaml:"last_assistant"`

	// Not serialized; used by the text report and the cache
	ModTime time.Time `json:"-" yaml:"-"`
	Path    string    `json:"-" yaml:"-"`
}

// FileMeta describes the session file being scanned
type FileMeta struct {
	SessionID string
	Path      string
	ModTime   time.Time
	SizeBytes int64
}

// MetaFromFileInfo builds FileMeta from a stat result.
// The session ID is the file name without its extension.
func MetaFromFileInfo(path string, info os.FileInfo) FileMeta {
	name := info.Name()
	return FileMeta{
		SessionID: strings.TrimSuffix(name, filepath.Ext(name)),
		Path:      path,
		ModTime:   info.ModTime(),
		SizeBytes: info.Size(),
	}
}

// SizeKB returns the size in kibibytes
func (m FileMeta) SizeKB() float64 {
	return float64(m.SizeBytes) / config.KB
}

// Stamp copies the file identity fields onto a summary.
// Used when a summary comes from the cache.
func (m FileMeta) Stamp(s *Summary) {
	s.SessionID = m.SessionID
	s.Path = m.Path
	s.ModTime = m.ModTime
	s.Modified = m.ModTime.Local().Format(config.ModifiedLayout)
	s.SizeKB = m.SizeBytes / config.KB
}
