package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled holds one compiled validator per Schema.Name. Names are fixed
// per request kind (answer-grade, question-rephrase, flashcard-set), so the
// cache stays tiny.
var compiled sync.Map // string -> *jsonschema.Schema

// validateResponse checks a reply against schema. A nil schema accepts
// anything; otherwise failures come back as *ErrInvalidResponse so the
// retry decorator can re-ask once.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	reject := func(format string, args ...any) error {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf(format, args...)}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return reject("reply is not JSON: %w", err)
	}
	validator, err := compileSchema(schema)
	if err != nil {
		return reject("schema %q: %w", schema.Name, err)
	}
	if err := validator.Validate(doc); err != nil {
		return reject("reply does not match %q: %w", schema.Name, err)
	}
	return nil
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if v, ok := compiled.Load(schema.Name); ok {
		return v.(*jsonschema.Schema), nil
	}

	// Definitions are Go maps; the compiler wants the generic form
	// jsonschema.UnmarshalJSON produces (json.Number for numbers).
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("encode definition: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}

	url := "quizvox://schemas/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	v, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	actual, _ := compiled.LoadOrStore(schema.Name, v)
	return actual.(*jsonschema.Schema), nil
}
