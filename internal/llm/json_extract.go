package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rkorrapolu/sye-agent/internal/types"
)

var fencedBlockPattern = regexp.MustCompile("(?s)```(\\w*)\\s*\\n(.+?)\\n```")

// ExtractJSON pulls a JSON object or array out of an LLM response. Models
// routinely wrap structured output in markdown fences or surround it with
// prose; this tries fenced ```json blocks first, then the first raw JSON
// value in the text.
func ExtractJSON(response string) (string, error) {
	if candidate, ok := extractFromFence(response); ok {
		return candidate, nil
	}
	if candidate, ok := extractRawJSON(response); ok {
		return candidate, nil
	}
	return "", types.NewError(ErrInvalidResponse, "no valid JSON found in response")
}

// extractFromFence scans markdown code blocks, accepting ones tagged json or
// untagged, and returns the first that parses.
func extractFromFence(response string) (string, bool) {
	for _, match := range fencedBlockPattern.FindAllStringSubmatch(response, -1) {
		if len(match) < 3 {
			continue
		}
		lang := strings.ToLower(match[1])
		if lang != "" && lang != "json" {
			continue
		}
		content := strings.TrimSpace(match[2])
		if !strings.HasPrefix(content, "{") && !strings.HasPrefix(content, "[") {
			continue
		}
		if json.Valid([]byte(content)) {
			return content, true
		}
	}
	return "", false
}

// extractRawJSON finds the first balanced JSON object or array in free text.
func extractRawJSON(response string) (string, bool) {
	start := -1
	var open, closer byte
	for i := 0; i < len(response); i++ {
		if response[i] == '{' || response[i] == '[' {
			start = i
			open = response[i]
			closer = '}'
			if open == '[' {
				closer = ']'
			}
			break
		}
	}
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				candidate := response[start : i+1]
				if json.Valid([]byte(candidate)) {
					return candidate, true
				}
				return "", false
			}
		}
	}
	return "", false
}
