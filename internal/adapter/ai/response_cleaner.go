package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedReply is returned when a provider reply is not a JSON array of strings.
var ErrMalformedReply = errors.New("malformed agent reply")

// StripCodeFence removes a leading markdown code fence and its "json" tag.
// Only the first fenced block is kept.
func StripCodeFence(reply string) string {
	s := strings.TrimSpace(reply)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	parts := strings.Split(s, "```")
	if len(parts) > 1 {
		s = parts[1]
	}
	if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
		s = s[4:]
	}
	return strings.TrimSpace(s)
}

// ParseSkillList decodes a reply into a list of strings. The payload must be
// a JSON array whose elements are all strings; anything else is rejected as a
// whole. Prose around a top-level array is tolerated, an array nested in an
// object is not.
func ParseSkillList(reply string) ([]string, error) {
	s := StripCodeFence(reply)
	out, err := decodeStrings(s)
	if err == nil {
		return out, nil
	}
	start, end := strings.Index(s, "["), strings.LastIndex(s, "]")
	if start >= 0 && end > start && (start > 0 || end < len(s)-1) && !strings.Contains(s[:start], "{") {
		if out, err2 := decodeStrings(s[start : end+1]); err2 == nil {
			return out, nil
		}
	}
	return nil, err
}

func decodeStrings(s string) ([]string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: not an array", ErrMalformedReply)
	}
	out := make([]string, 0, len(raw))
	for i, r := range raw {
		var v string
		if err := json.Unmarshal(r, &v); err != nil || strings.TrimSpace(string(r)) == "null" {
			return nil, fmt.Errorf("%w: element %d is not a string", ErrMalformedReply, i)
		}
		out = append(out, v)
	}
	return out, nil
}

// FilterVocabulary keeps entries that case-insensitively match vocab,
// de-duplicated, in reply order, with vocabulary casing.
func FilterVocabulary(skills, vocab []string) []string {
	canon := make(map[string]string, len(vocab))
	for _, v := range vocab {
		k := strings.ToLower(v)
		if _, ok := canon[k]; !ok {
			canon[k] = v
		}
	}
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		k := strings.ToLower(strings.TrimSpace(s))
		name, ok := canon[k]
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, name)
	}
	return out
}
