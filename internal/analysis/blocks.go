// Package analysis turns the block output of a document analysis service into
// plain text and key/value pairs.
package analysis

import (
	"context"
	"strings"
)

type BlockType string

const (
	BlockLine        BlockType = "LINE"
	BlockWord        BlockType = "WORD"
	BlockKeyValueSet BlockType = "KEY_VALUE_SET"
)

type RelationType string

const (
	RelationChild RelationType = "CHILD"
	RelationValue RelationType = "VALUE"
)

const (
	EntityKey   = "KEY"
	EntityValue = "VALUE"
)

// Block is one structural node returned by the analysis service.
type Block struct {
	ID            string
	Type          BlockType
	Text          string
	EntityTypes   []string
	Relationships []Relationship
}

// Relationship links a block to other blocks by id.
type Relationship struct {
	Type RelationType
	IDs  []string
}

// Analyzer runs form and table detection over raw document bytes.
type Analyzer interface {
	Analyze(ctx context.Context, content []byte) ([]Block, error)
}

func (b Block) hasEntity(entity string) bool {
	for _, e := range b.EntityTypes {
		if e == entity {
			return true
		}
	}
	return false
}

func (b Block) related(t RelationType) []string {
	var ids []string
	for _, r := range b.Relationships {
		if r.Type == t {
			ids = append(ids, r.IDs...)
		}
	}
	return ids
}

// RawText joins the text of every LINE block, in returned order, with newlines.
func RawText(blocks []Block) string {
	var lines []string
	for _, b := range blocks {
		if b.Type == BlockLine {
			lines = append(lines, b.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// KeyValuePairs resolves every KEY block to the text of its VALUE block.
// Pairs where either side is empty are dropped; a repeated key keeps the
// last value seen. Among several VALUE blocks the last non-empty one wins.
func KeyValuePairs(blocks []Block) map[string]string {
	byID := make(map[string]Block, len(blocks))
	for _, b := range blocks {
		byID[b.ID] = b
	}

	pairs := make(map[string]string)
	for _, b := range blocks {
		if b.Type != BlockKeyValueSet || !b.hasEntity(EntityKey) {
			continue
		}
		key := childText(b, byID)
		if key == "" {
			continue
		}

		var value string
		for _, id := range b.related(RelationValue) {
			vb, ok := byID[id]
			if !ok {
				continue
			}
			if text := childText(vb, byID); text != "" {
				value = text
			}
		}
		if value == "" {
			continue
		}
		pairs[key] = value
	}
	return pairs
}

// childText joins the depth-one CHILD WORD blocks of b.
func childText(b Block, byID map[string]Block) string {
	var words []string
	for _, id := range b.related(RelationChild) {
		child, ok := byID[id]
		if !ok || child.Type != BlockWord {
			continue
		}
		words = append(words, child.Text)
	}
	return strings.TrimSpace(strings.Join(words, " "))
}
