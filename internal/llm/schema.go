package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ReplySchema validates a parsed model reply. Stages use it to log how a
// reply deviates before coercing it into shape.
type ReplySchema struct {
	name   string
	source map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

func NewReplySchema(name string, schema map[string]any) *ReplySchema {
	return &ReplySchema{name: name, source: schema}
}

func (s *ReplySchema) compile() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		b, err := json.Marshal(s.source)
		if err != nil {
			s.err = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(s.name, bytes.NewReader(b)); err != nil {
			s.err = fmt.Errorf("add schema: %w", err)
			return
		}
		s.compiled, s.err = compiler.Compile(s.name)
		if s.err != nil {
			s.err = fmt.Errorf("compile schema: %w", s.err)
		}
	})
	return s.compiled, s.err
}

// Validate reports whether obj conforms to the schema.
func (s *ReplySchema) Validate(obj map[string]any) error {
	schema, err := s.compile()
	if err != nil {
		return err
	}
	// Round-trip so numbers reach the validator in the form it expects.
	b, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal reply: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("unmarshal reply: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("reply does not match schema: %w", err)
	}
	return nil
}
