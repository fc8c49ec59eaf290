// Package export renders an inferred schema as JSON Schema (Draft 2020-12)
// and checks documents against it.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/TFMV/schemaforge/pkg/schema"
)

// ToJSONSchema converts fields to a JSON Schema. rootArray wraps the object
// schema in an array, for documents whose root is a list of records.
//
// Fields come from the first element of every array, so properties also
// accept null and array elements are never required to be objects.
func ToJSONSchema(fields []schema.Field, rootArray bool) *jsonschema.Schema {
	if !rootArray {
		obj := objectSchema(fields, "")
		obj.Version = jsonschema.Version
		return obj
	}
	return &jsonschema.Schema{
		Version: jsonschema.Version,
		Type:    "array",
		Items:   elementSchema(fields),
	}
}

func objectSchema(fields []schema.Field, parent string) *jsonschema.Schema {
	s := propertiesSchema(fields, parent)
	s.Type = "object"
	return s
}

func propertiesSchema(fields []schema.Field, parent string) *jsonschema.Schema {
	s := &jsonschema.Schema{Properties: jsonschema.NewProperties()}
	for _, f := range fields {
		key := f.Name
		if parent != "" {
			key = strings.TrimPrefix(f.Name, parent+".")
		}
		s.Properties.Set(key, fieldSchema(f))
	}
	return s
}

// elementSchema describes the sampled element of an array. The sample may
// have been a record or a nested list, so no type is required.
func elementSchema(fields []schema.Field) *jsonschema.Schema {
	if len(fields) == 0 {
		return &jsonschema.Schema{}
	}
	return propertiesSchema(fields, "")
}

func fieldSchema(f schema.Field) *jsonschema.Schema {
	switch f.Kind {
	case schema.KindArray:
		s := &jsonschema.Schema{Type: "array"}
		if len(f.Nested) > 0 {
			s.Items = elementSchema(f.Nested)
		}
		return nullable(s)
	case schema.KindObject:
		if f.Nested == nil {
			return &jsonschema.Schema{}
		}
		return nullable(objectSchema(f.Nested, f.Name))
	}
	if s := kindSchema(f.Kind); s.Type != "" {
		return nullable(s)
	}
	return &jsonschema.Schema{}
}

func nullable(s *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{s, {Type: "null"}}}
}

// kindSchema maps a scalar kind to a schema. Object and unknown kinds match
// anything because the inferencer also tags null and nested arrays as object.
func kindSchema(k schema.Kind) *jsonschema.Schema {
	switch k {
	case schema.KindString:
		return &jsonschema.Schema{Type: "string"}
	case schema.KindNumber, schema.KindDouble:
		return &jsonschema.Schema{Type: "number"}
	case schema.KindInt64:
		return &jsonschema.Schema{Type: "integer"}
	case schema.KindBoolean:
		return &jsonschema.Schema{Type: "boolean"}
	case schema.KindTimestamp:
		return &jsonschema.Schema{Type: "string", Format: "date-time"}
	}
	return &jsonschema.Schema{}
}

// Marshal renders the schema as indented JSON.
func Marshal(s *jsonschema.Schema) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// Verify validates the JSON document data against s.
func Verify(s *jsonschema.Schema, data []byte) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}
	doc, err := validator.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to decode schema: %w", err)
	}

	c := validator.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	inst, err := validator.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	if err := compiled.Validate(inst); err != nil {
		return fmt.Errorf("document does not match schema: %w", err)
	}
	return nil
}
