package jsonrecover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFencedObjects(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []map[string]any
	}{
		{
			name: "no fences",
			text: "INVOICE #123\nTotal: $40.00",
			want: nil,
		},
		{
			name: "single json fence",
			text: "```json\n{\"a\":1}\n```",
			want: []map[string]any{{"a": float64(1)}},
		},
		{
			name: "untagged fence",
			text: "before\n```\n{\"vendor\": \"ACME\"}\n```\nafter",
			want: []map[string]any{{"vendor": "ACME"}},
		},
		{
			name: "tag is case insensitive",
			text: "```JSON\n{\"ok\": true}\n```",
			want: []map[string]any{{"ok": true}},
		},
		{
			name: "multiple fences keep order and skip malformed",
			text: "```json\n{\"first\": 1}\n```\n" +
				"```json\n{not json}\n```\n" +
				"text in between\n" +
				"```json\n{\"third\": [1, 2]}\n```",
			want: []map[string]any{
				{"first": float64(1)},
				{"third": []any{float64(1), float64(2)}},
			},
		},
		{
			name: "nested object",
			text: "```json\n{\"a\": {\"b\": \"c\"}}\n```",
			want: []map[string]any{{"a": map[string]any{"b": "c"}}},
		},
		{
			name: "only malformed",
			text: "```json\n{\"a\": }\n```",
			want: nil,
		},
		{
			name: "array body is not an object",
			text: "```json\n[1, 2]\n```",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FencedObjects(tt.text))
		})
	}
}

func TestParseReply(t *testing.T) {
	t.Run("bare json", func(t *testing.T) {
		obj, ok := ParseReply(`{"category":"Invoice","confidence":0.9,"reason":"has total"}`)
		require.True(t, ok)
		assert.Equal(t, map[string]any{"category": "Invoice", "confidence": 0.9, "reason": "has total"}, obj)
	})

	t.Run("leading prose", func(t *testing.T) {
		obj, ok := ParseReply(`Sure! {"category":"Invoice","confidence":0.9,"reason":"has total"}`)
		require.True(t, ok)
		assert.Equal(t, "Invoice", obj["category"])
		assert.Equal(t, 0.9, obj["confidence"])
	})

	t.Run("prose on both sides with fence", func(t *testing.T) {
		reply := "Here is the answer:\n```json\n{\"text\": \"a {b} c\", \"keyPoints\": []}\n```\nHope this helps."
		obj, ok := ParseReply(reply)
		require.True(t, ok)
		assert.Equal(t, "a {b} c", obj["text"])
	})

	t.Run("greedy span breaks on two objects", func(t *testing.T) {
		_, ok := ParseReply(`{"a":1} and {"b":2}`)
		assert.False(t, ok)
	})

	t.Run("no braces", func(t *testing.T) {
		_, ok := ParseReply("I cannot classify this document.")
		assert.False(t, ok)
	})

	t.Run("null is not an object", func(t *testing.T) {
		_, ok := ParseReply("null")
		assert.False(t, ok)
	})
}

func TestParseStopsAtFirstSuccess(t *testing.T) {
	var calls []string
	first := func(string) (map[string]any, bool) {
		calls = append(calls, "first")
		return nil, false
	}
	second := func(string) (map[string]any, bool) {
		calls = append(calls, "second")
		return map[string]any{"ok": true}, true
	}
	third := func(string) (map[string]any, bool) {
		calls = append(calls, "third")
		return nil, false
	}

	obj, ok := Parse("anything", first, second, third)
	require.True(t, ok)
	assert.Equal(t, true, obj["ok"])
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "héé", Truncate("hééllo", 3))
}
