package formextract

import "strings"

// ExtractJSONPayload pulls the JSON body out of an LLM response that may or
// may not be wrapped in a markdown code fence. Three states are handled
// explicitly: no fence, fence with a language tag, and fence without one.
// It never fails; malformed payloads surface later as JSON parse errors.
func ExtractJSONPayload(raw string) string {
	s := strings.TrimSpace(raw)

	// A response that already opens with a JSON value is the payload itself.
	// Backticks inside its string values must not trip the fence scan.
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s
	}

	open := strings.Index(s, "```")
	if open < 0 {
		// No fence: the whole response is the payload.
		return s
	}
	body := s[open+3:]

	// A language tag, if present, occupies the rest of the fence line.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		tag := strings.TrimSpace(body[:nl])
		if isLanguageTag(tag) {
			body = body[nl+1:]
		}
	} else {
		// Opening fence with no newline after it; nothing fenced.
		return strings.TrimSpace(body)
	}

	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// isLanguageTag reports whether the text following an opening fence is a
// fence language tag rather than payload. An empty tag line counts: the
// payload starts on the next line either way.
func isLanguageTag(tag string) bool {
	return tag == "" || strings.EqualFold(tag, "json")
}
