package transcript

import (
	"encoding/json"
	"errors"
)

// Roles the scanner distinguishes
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrNotObject is returned for lines that are valid JSON but not an object
var ErrNotObject = errors.New("line is not a JSON object")

// Entry is one line of a session log.
// Wrong-typed fields are treated as absent: Type "", IsMeta false, Message nil.
type Entry struct {
	Type    string   // free-form tag, e.g. "user", "assistant", "summary"
	IsMeta  bool     // system-injected rather than typed by the human
	Message *Message // nil unless "message" is a JSON object
}

// Message is the nested message object of an entry
type Message struct {
	Role    string
	Content Content
}

// ParseEntry parses a single JSONL line
func ParseEntry(data []byte) (*Entry, error) {
	if !isObject(data) {
		return nil, ErrNotObject
	}

	var raw struct {
		Type    json.RawMessage `json:"type"`
		IsMeta  json.RawMessage `json:"isMeta"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	entry := &Entry{
		Type:   stringField(raw.Type),
		IsMeta: boolField(raw.IsMeta),
	}

	if isObject(raw.Message) {
		var msg struct {
			Role    json.RawMessage `json:"role"`
			Content Content         `json:"content"`
		}
		// Content never fails to decode and the object is already valid JSON
		if err := json.Unmarshal(raw.Message, &msg); err == nil {
			entry.Message = &Message{
				Role:    stringField(msg.Role),
				Content: msg.Content,
			}
		}
	}

	return entry, nil
}

// HasRole reports whether message.role or the entry type equals role.
// The two are checked independently, so an entry may match both roles.
func (e *Entry) HasRole(role string) bool {
	if e.Type == role {
		return true
	}
	return e.Message != nil && e.Message.Role == role
}

// Content returns the message content (ContentNone without a message)
func (e *Entry) Content() Content {
	if e.Message == nil {
		return Content{}
	}
	return e.Message.Content
}

func boolField(data json.RawMessage) bool {
	if len(data) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return false
	}
	return b
}
