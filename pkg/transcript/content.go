package transcript

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ContentKind tells which shape a message content value had on the wire
type ContentKind int

const (
	// ContentNone covers absent content and every unsupported shape
	ContentNone ContentKind = iota
	// ContentText is a plain string
	ContentText
	// ContentParts is an ordered list of typed parts
	ContentParts
)

// Part types recognized inside ContentParts
const (
	PartText    = "text"
	PartToolUse = "tool_use"
)

// Part is one element of list-shaped content.
// Elements that are not JSON objects decode to a Part with an empty Type.
type Part struct {
	Type  string
	Text  string
	Input interface{} // tool_use input, any JSON shape; nil when absent
}

// Content is message content: either a string or a list of parts.
// Decoding never fails; unsupported shapes become ContentNone.
type Content struct {
	kind  ContentKind
	text  string
	parts []Part
}

// TextContent builds string-shaped content
func TextContent(s string) Content {
	return Content{kind: ContentText, text: s}
}

// PartsContent builds list-shaped content
func PartsContent(parts ...Part) Content {
	return Content{kind: ContentParts, parts: parts}
}

// Kind returns the content shape
func (c Content) Kind() ContentKind { return c.kind }

// Parts returns the parts of list-shaped content (nil otherwise)
func (c Content) Parts() []Part { return c.parts }

// UnmarshalJSON implements json.Unmarshaler
func (c *Content) UnmarshalJSON(data []byte) error {
	*c = Content{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*c = TextContent(s)
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err == nil {
			parts := make([]Part, 0, len(items))
			for _, item := range items {
				parts = append(parts, decodePart(item))
			}
			*c = PartsContent(parts...)
		}
	}
	return nil
}

// decodePart reads one list element, treating wrong-typed fields as absent
func decodePart(data json.RawMessage) Part {
	if !isObject(data) {
		return Part{}
	}

	var raw struct {
		Type  json.RawMessage `json:"type"`
		Text  json.RawMessage `json:"text"`
		Input json.RawMessage `json:"input"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Part{}
	}

	part := Part{
		Type: stringField(raw.Type),
		Text: stringField(raw.Text),
	}
	if len(raw.Input) > 0 {
		var input interface{}
		if err := json.Unmarshal(raw.Input, &input); err == nil {
			part.Input = input
		}
	}
	return part
}

// ExtractText flattens content into plain text.
// Strings are returned verbatim; for parts, the text of every "text" part is
// joined with single spaces in order. Anything else yields "".
func ExtractText(c Content) string {
	switch c.kind {
	case ContentText:
		return c.text
	case ContentParts:
		var texts []string
		for _, p := range c.parts {
			if p.Type == PartText {
				texts = append(texts, p.Text)
			}
		}
		return strings.Join(texts, " ")
	default:
		return ""
	}
}

// stringifyInput renders a tool_use input for keyword matching.
// Strings are used as-is, other shapes as compact JSON.
func stringifyInput(input interface{}) string {
	switch v := input.(type) {
	case nil:
		return ""
	case string:
		return v
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(input); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func isObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}

// stringField decodes a JSON string, returning "" for any other shape
func stringField(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ""
	}
	return s
}
