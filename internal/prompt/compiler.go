// Package prompt flattens the two request flavors into the single
// role-annotated text block the backend consumes.
package prompt

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/sleepstars/modelgate/internal/models"
)

var roleLabels = map[string]string{
	"system":    "System",
	"user":      "User",
	"assistant": "Assistant",
}

// renderBlock produces one conversation block. Known roles get a capitalized
// [Role] tag; anything else renders the bare content.
func renderBlock(role, content string) string {
	label, ok := roleLabels[role]
	if !ok {
		return content
	}
	return "[" + label + "]\n" + content
}

// FromMessages compiles an ordered chat history into a single prompt,
// one block per message, blocks separated by a blank line.
func FromMessages(messages []models.ChatMessage) string {
	blocks := make([]string, 0, len(messages))
	for _, msg := range messages {
		blocks = append(blocks, renderBlock(msg.Role, msg.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// FromInput compiles a Responses API input into a prompt. input is either a
// bare JSON string (treated as a single user turn) or an array of input
// items whose content is a string or a list of content parts. A non-empty
// instructions value is prepended as a System block.
func FromInput(input json.RawMessage, instructions string) string {
	var blocks []string
	if instructions != "" {
		blocks = append(blocks, renderBlock("system", instructions))
	}

	parsed := gjson.ParseBytes(input)
	switch {
	case parsed.Type == gjson.String:
		blocks = append(blocks, renderBlock("user", parsed.String()))
	case parsed.IsArray():
		parsed.ForEach(func(_, item gjson.Result) bool {
			blocks = append(blocks, renderBlock(item.Get("role").String(), itemText(item)))
			return true
		})
	}

	return strings.Join(blocks, "\n\n")
}

// itemText extracts the text carried by one input item. String content is
// used verbatim; structured content keeps only text-bearing parts
// (input_text, output_text), concatenated in order. Everything else, image
// parts included, is dropped.
func itemText(item gjson.Result) string {
	content := item.Get("content")
	if content.Type == gjson.String {
		return content.String()
	}
	if !content.IsArray() {
		return ""
	}

	var sb strings.Builder
	content.ForEach(func(_, part gjson.Result) bool {
		switch part.Get("type").String() {
		case "input_text", "output_text":
			sb.WriteString(part.Get("text").String())
		}
		return true
	})
	return sb.String()
}
