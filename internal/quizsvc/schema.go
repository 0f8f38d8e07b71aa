package quizsvc

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a JSON Schema document for a service payload. It is compiled
// on first use.
type Schema struct {
	Name   string
	Source string

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// GenerateResponseSchema describes GET /api/generate-quiz/. Ids may be
// strings or integers; the reference backend returns primary keys.
var GenerateResponseSchema = &Schema{
	Name: "generate-quiz-response",
	Source: `{
		"type": "object",
		"required": ["quiz_id", "quiz"],
		"properties": {
			"quiz_id": {"type": ["string", "integer"]},
			"quiz": {
				"type": "array",
				"minItems": 1,
				"items": {
					"type": "object",
					"required": ["question", "options", "answer", "concept"],
					"properties": {
						"question": {"type": "string"},
						"options": {"type": "array", "minItems": 1, "items": {"type": "string"}},
						"answer": {"type": "string"},
						"concept": {"type": "string"},
						"difficulty": {"type": "string"}
					}
				}
			}
		}
	}`,
}

// AnalyzeResponseSchema describes POST /api/analyze-quiz/.
var AnalyzeResponseSchema = &Schema{
	Name: "analyze-quiz-response",
	Source: `{
		"type": "object",
		"required": ["weak_concepts", "all_concepts"],
		"properties": {
			"weak_concepts": {"type": "array", "items": {"type": "string"}},
			"all_concepts": {"type": "array", "items": {"type": "string"}},
			"quiz_attempt_id": {"type": ["string", "integer"]}
		}
	}`,
}

func (s *Schema) compile() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(s.Source))
		if err != nil {
			s.err = fmt.Errorf("parse schema %q: %w", s.Name, err)
			return
		}
		c := jsonschema.NewCompiler()
		loc := "schema://" + s.Name + ".json"
		if err := c.AddResource(loc, doc); err != nil {
			s.err = fmt.Errorf("add schema %q: %w", s.Name, err)
			return
		}
		if s.compiled, err = c.Compile(loc); err != nil {
			s.err = fmt.Errorf("compile schema %q: %w", s.Name, err)
		}
	})
	return s.compiled, s.err
}

// Validate checks the JSON document raw against s.
func (s *Schema) Validate(raw []byte) error {
	compiled, err := s.compile()
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
