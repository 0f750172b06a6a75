package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplySchema(t *testing.T) {
	schema := NewReplySchema("reply.json", map[string]any{
		"type":     "object",
		"required": []any{"category", "confidence"},
		"properties": map[string]any{
			"category":   map[string]any{"enum": []any{"Invoice", "Other"}},
			"confidence": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
		},
	})

	assert.NoError(t, schema.Validate(map[string]any{"category": "Invoice", "confidence": 0.9}))
	assert.Error(t, schema.Validate(map[string]any{"category": "Receipt", "confidence": 0.9}))
	assert.Error(t, schema.Validate(map[string]any{"category": "Invoice", "confidence": 1.7}))
	assert.Error(t, schema.Validate(map[string]any{"category": "Invoice"}))
}

func TestReplySchemaCompileError(t *testing.T) {
	schema := NewReplySchema("bad.json", map[string]any{"type": 12})
	err := schema.Validate(map[string]any{})
	assert.ErrorContains(t, err, "compile schema")
}
