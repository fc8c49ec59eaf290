// Package schema holds the field model produced by schema inference.
package schema

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Kind is the closed set of type tags a field can carry.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindObject
	KindArray
	KindInt64
	KindDouble
	KindTimestamp
)

var kindLabels = map[Kind]string{
	KindUnknown:   "unknown",
	KindString:    "string",
	KindNumber:    "number",
	KindBoolean:   "boolean",
	KindObject:    "object",
	KindArray:     "array",
	KindInt64:     "int64",
	KindDouble:    "double",
	KindTimestamp: "timestamp",
}

// String returns the label used in schema listings.
func (k Kind) String() string {
	if s, ok := kindLabels[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsNumeric reports whether generated code should treat the kind as a number.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindNumber, KindInt64, KindDouble:
		return true
	}
	return false
}

// IsString reports whether generated code should treat the kind as text.
func (k Kind) IsString() bool {
	return k == KindString
}

// ParseKind maps a label back to its Kind. Unrecognized labels map to KindUnknown.
func ParseKind(label string) Kind {
	for k, s := range kindLabels {
		if s == label {
			return k
		}
	}
	return KindUnknown
}

// Field describes one inferred attribute of a record.
//
// Name is a dotted path for fields nested in objects ("meta.x"). Fields inferred
// from the first element of an array are named relative to that element.
// Nested is non-nil for objects and for arrays whose first element is an
// object or a nested list.
type Field struct {
	Name    string
	Kind    Kind
	Elem    Kind // element kind, only meaningful when Kind == KindArray
	IsArray bool
	Nested  []Field
}

// Type returns the descriptive type label, e.g. "string" or "array[number]".
func (f Field) Type() string {
	if f.Kind == KindArray {
		return "array[" + f.Elem.String() + "]"
	}
	return f.Kind.String()
}

// IsLeaf reports whether the field has no nested fields.
func (f Field) IsLeaf() bool {
	return f.Nested == nil
}

type fieldJSON struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	IsArray      bool    `json:"isArray"`
	NestedFields []Field `json:"nestedFields,omitempty"`
}

// MarshalJSON renders the field with its type label.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(fieldJSON{
		Name:         f.Name,
		Type:         f.Type(),
		IsArray:      f.IsArray,
		NestedFields: f.Nested,
	})
}

// UnmarshalJSON parses the representation written by MarshalJSON.
func (f *Field) UnmarshalJSON(data []byte) error {
	var raw fieldJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Name = raw.Name
	f.IsArray = raw.IsArray
	f.Nested = raw.NestedFields
	if inner, ok := strings.CutPrefix(raw.Type, "array["); ok && strings.HasSuffix(inner, "]") {
		f.Kind = KindArray
		f.Elem = ParseKind(strings.TrimSuffix(inner, "]"))
		return nil
	}
	f.Kind = ParseKind(raw.Type)
	f.Elem = KindUnknown
	return nil
}

// FindArray returns the first array field named name, searching nested
// fields depth first. Names inside arrays of records are not prefixed, so a
// non-array field may share the name of an array field elsewhere in the tree.
func FindArray(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name && f.IsArray {
			return f, true
		}
		if found, ok := FindArray(f.Nested, name); ok {
			return found, true
		}
	}
	return Field{}, false
}

// ArrayFields returns the top-level fields with IsArray set.
func ArrayFields(fields []Field) []Field {
	var out []Field
	for _, f := range fields {
		if f.IsArray {
			out = append(out, f)
		}
	}
	return out
}

// NonArrayFields returns the top-level fields with IsArray unset.
func NonArrayFields(fields []Field) []Field {
	var out []Field
	for _, f := range fields {
		if !f.IsArray {
			out = append(out, f)
		}
	}
	return out
}
