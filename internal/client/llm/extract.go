package llm

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ParseObjects recovers JSON objects from a completion. The text may be
// wrapped in a markdown fence or surrounded by prose. A single object yields
// one element, an array yields its object elements in order. Anything else
// is ErrNoResult.
func ParseObjects(text string) ([]json.RawMessage, error) {
	text = stripFence(text)

	if objs, ok := decodeObjects([]byte(text)); ok {
		return objs, nil
	}
	for from := 0; from < len(text); {
		start, end := nextBalanced(text, from)
		if start < 0 {
			break
		}
		if objs, ok := decodeObjects([]byte(text[start : end+1])); ok {
			return objs, nil
		}
		from = start + 1
	}
	return nil, ErrNoResult
}

// stripFence returns the body of the first ``` block, or the trimmed text when there is none.
func stripFence(text string) string {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "```")
	if start < 0 {
		return text
	}
	body := text[start+3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[") {
		body = body[nl+1:] // language tag
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

func decodeObjects(data []byte) ([]json.RawMessage, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, false
	}

	switch data[0] {
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, false
		}
		return []json.RawMessage{json.RawMessage(data)}, true
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, false
		}
		objs := make([]json.RawMessage, 0, len(items))
		for _, item := range items {
			item = bytes.TrimSpace(item)
			if len(item) > 0 && item[0] == '{' {
				objs = append(objs, item)
			}
		}
		return objs, len(objs) > 0
	default:
		return nil, false
	}
}

// nextBalanced finds the first {...} or [...] at or after from whose
// delimiters balance, skipping over string literals. It returns -1, -1 when
// there is none.
func nextBalanced(text string, from int) (int, int) {
	for from < len(text) {
		idx := strings.IndexAny(text[from:], "{[")
		if idx < 0 {
			break
		}
		start := from + idx
		if end := matchClose(text, start); end > start {
			return start, end
		}
		from = start + 1
	}
	return -1, -1
}

func matchClose(text string, start int) int {
	var (
		stack    []byte
		inString bool
		escaped  bool
	)
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != ch {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}
