// Package jsonrecover pulls structured JSON out of noisy text: fenced code
// blocks embedded in extracted document text, and objects wrapped in prose
// in language model replies.
package jsonrecover

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencedObjectRegex matches a markdown code fence, optionally tagged json,
// whose body is a brace-delimited object. Non-greedy, spans newlines.
var fencedObjectRegex = regexp.MustCompile("(?is)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// braceSpanRegex matches from the first '{' to the last '}' in the text.
var braceSpanRegex = regexp.MustCompile(`(?s)\{.*\}`)

// FencedObjects returns every fenced JSON object found in text, in order of
// appearance. Bodies that fail to parse are skipped. It returns nil when
// nothing parses.
func FencedObjects(text string) []map[string]any {
	matches := fencedObjectRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	var out []map[string]any
	for _, m := range matches {
		var obj map[string]any
		if err := json.Unmarshal([]byte(m[1]), &obj); err != nil {
			continue
		}
		out = append(out, obj)
	}
	return out
}

// Attempt is one strategy for turning a reply into a JSON object. It reports
// false when the strategy does not apply or fails to parse.
type Attempt func(reply string) (map[string]any, bool)

// WholeReply parses the entire reply as a JSON object.
func WholeReply(reply string) (map[string]any, bool) {
	return decodeObject(strings.TrimSpace(reply))
}

// BraceSpan parses the greedy span from the first '{' to the last '}'.
func BraceSpan(reply string) (map[string]any, bool) {
	span := braceSpanRegex.FindString(reply)
	if span == "" {
		return nil, false
	}
	return decodeObject(span)
}

// DefaultChain is the order used for model replies: the whole reply first,
// then the embedded brace span.
var DefaultChain = []Attempt{WholeReply, BraceSpan}

// Parse runs the attempts in order and returns the first success.
func Parse(reply string, attempts ...Attempt) (map[string]any, bool) {
	for _, attempt := range attempts {
		if obj, ok := attempt(reply); ok {
			return obj, true
		}
	}
	return nil, false
}

// ParseReply runs DefaultChain over reply.
func ParseReply(reply string) (map[string]any, bool) {
	return Parse(reply, DefaultChain...)
}

func decodeObject(s string) (map[string]any, bool) {
	if s == "" {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
