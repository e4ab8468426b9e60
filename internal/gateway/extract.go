package gateway

import "strings"

// extractJSON returns the JSON payload of a model reply. Replies from
// search-grounded calls are not guaranteed to be pure JSON; the model
// often wraps the payload in a ```json fenced block. If a fenced block
// is found its contents are returned, otherwise the trimmed reply is
// returned as-is and the caller's unmarshal decides whether it parses.
func extractJSON(text string) string {
	s := strings.TrimSpace(text)

	start := strings.Index(s, "```json")
	if start == -1 {
		start = strings.Index(s, "```")
	}
	if start == -1 {
		return s
	}

	rest := s[start:]
	nl := strings.Index(rest, "\n")
	if nl == -1 {
		return s
	}
	rest = rest[nl+1:]

	end := strings.Index(rest, "```")
	if end == -1 {
		return s
	}
	return strings.TrimSpace(rest[:end])
}
