package models

import (
	"encoding/json"
	"strings"
)

// Span is an inline run of text inside a Block
type Span struct {
	Type  string   `json:"_type"`
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// Block is one entry of a rich text body as stored by the CMS. Only text
// blocks are decoded; every block keeps its raw JSON so non-text blocks
// (images, embeds) reach the page layer untouched.
type Block struct {
	Type     string `json:"_type"`
	Key      string `json:"_key,omitempty"`
	Style    string `json:"style,omitempty"`
	ListItem string `json:"listItem,omitempty"`
	Level    int    `json:"level,omitempty"`
	Children []Span `json:"children,omitempty"`

	raw json.RawMessage
}

// UnmarshalJSON keeps a copy of the source JSON
func (b *Block) UnmarshalJSON(data []byte) error {
	type plain Block
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = Block(p)
	b.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the source JSON back when available
func (b Block) MarshalJSON() ([]byte, error) {
	if len(b.raw) > 0 {
		return b.raw, nil
	}
	type plain Block
	return json.Marshal(plain(b))
}

// Text returns the concatenated span text of a text block
func (b Block) Text() string {
	if b.Type != "block" {
		return ""
	}
	var sb strings.Builder
	for _, span := range b.Children {
		sb.WriteString(span.Text)
	}
	return sb.String()
}

// PlainText flattens a body into paragraphs separated by blank lines
func PlainText(body []Block) string {
	parts := make([]string, 0, len(body))
	for _, block := range body {
		if text := strings.TrimSpace(block.Text()); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}
