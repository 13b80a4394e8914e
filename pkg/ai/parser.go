package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeJSON unmarshals the JSON payload of an LLM reply into v
func decodeJSON(reply string, v interface{}) error {
	payload := extractJSON(reply)
	if payload == "" {
		return fmt.Errorf("malformed reply: no JSON payload")
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("malformed reply: %w", err)
	}
	return nil
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}
	content = strings.TrimSpace(content)

	// Models sometimes add a sentence before or after the payload
	start := strings.IndexAny(content, "[{")
	if start == -1 {
		return ""
	}
	closer := "}"
	if content[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(content, closer)
	if end < start {
		return ""
	}
	return content[start : end+1]
}

// firstLine returns the first non-empty line of a reply with wrapping quotes
// removed
func firstLine(reply string) string {
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		line = strings.Trim(line, "\"'`")
		if line != "" {
			return strings.TrimSpace(line)
		}
	}
	return ""
}
