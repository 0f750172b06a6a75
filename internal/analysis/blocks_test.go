package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func word(id, text string) Block {
	return Block{ID: id, Type: BlockWord, Text: text}
}

func keyBlock(id string, valueID string, wordIDs ...string) Block {
	return Block{
		ID:          id,
		Type:        BlockKeyValueSet,
		EntityTypes: []string{EntityKey},
		Relationships: []Relationship{
			{Type: RelationChild, IDs: wordIDs},
			{Type: RelationValue, IDs: []string{valueID}},
		},
	}
}

func valueBlock(id string, wordIDs ...string) Block {
	return Block{
		ID:            id,
		Type:          BlockKeyValueSet,
		EntityTypes:   []string{EntityValue},
		Relationships: []Relationship{{Type: RelationChild, IDs: wordIDs}},
	}
}

func TestRawText(t *testing.T) {
	blocks := []Block{
		{ID: "p", Type: "PAGE"},
		{ID: "l1", Type: BlockLine, Text: "INVOICE #123"},
		word("w1", "INVOICE"),
		{ID: "l2", Type: BlockLine, Text: "Total: $40.00"},
	}
	assert.Equal(t, "INVOICE #123\nTotal: $40.00", RawText(blocks))
	assert.Equal(t, "", RawText(nil))
}

func TestKeyValuePairs(t *testing.T) {
	tests := []struct {
		name   string
		blocks []Block
		want   map[string]string
	}{
		{
			name: "simple pair",
			blocks: []Block{
				keyBlock("k1", "v1", "w1", "w2"),
				valueBlock("v1", "w3"),
				word("w1", "Invoice"), word("w2", "Number:"), word("w3", "123"),
			},
			want: map[string]string{"Invoice Number:": "123"},
		},
		{
			name: "empty value dropped",
			blocks: []Block{
				keyBlock("k1", "v1", "w1"),
				valueBlock("v1"),
				word("w1", "Date"),
			},
			want: map[string]string{},
		},
		{
			name: "empty key dropped",
			blocks: []Block{
				keyBlock("k1", "v1"),
				valueBlock("v1", "w1"),
				word("w1", "2024-01-01"),
			},
			want: map[string]string{},
		},
		{
			name: "unknown ids skipped",
			blocks: []Block{
				keyBlock("k1", "missing", "w1", "nope"),
				word("w1", "Total"),
			},
			want: map[string]string{},
		},
		{
			name: "last write wins",
			blocks: []Block{
				keyBlock("k1", "v1", "w1"),
				valueBlock("v1", "w2"),
				keyBlock("k2", "v2", "w3"),
				valueBlock("v2", "w4"),
				word("w1", "Total"), word("w2", "10"),
				word("w3", "Total"), word("w4", "20"),
			},
			want: map[string]string{"Total": "20"},
		},
		{
			name: "trailing empty value keeps earlier text",
			blocks: []Block{
				{
					ID:          "k1",
					Type:        BlockKeyValueSet,
					EntityTypes: []string{EntityKey},
					Relationships: []Relationship{
						{Type: RelationChild, IDs: []string{"w1"}},
						{Type: RelationValue, IDs: []string{"v1", "v2"}},
					},
				},
				valueBlock("v1", "w2"),
				valueBlock("v2"),
				word("w1", "Due"), word("w2", "2024-02-01"),
			},
			want: map[string]string{"Due": "2024-02-01"},
		},
		{
			name: "only word children count",
			blocks: []Block{
				keyBlock("k1", "v1", "w1", "sel"),
				valueBlock("v1", "w2"),
				word("w1", "Paid"),
				{ID: "sel", Type: "SELECTION_ELEMENT", Text: "X"},
				word("w2", "yes"),
			},
			want: map[string]string{"Paid": "yes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyValuePairs(tt.blocks))
		})
	}
}
