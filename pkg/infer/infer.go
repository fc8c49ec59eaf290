// Package infer derives a field schema from arbitrary nested JSON.
//
// Arrays are sampled: the shape of a non-empty array is taken from its first
// element only. Elements of differing shape are not reconciled.
package infer

import (
	"github.com/TFMV/schemaforge/pkg/schema"
)

// Infer walks v and returns its fields in source key order.
//
// An object yields one field per key, with nested object fields named
// prefix.key. A non-empty array yields the fields of its first element, each
// marked IsArray. Scalars, null and empty arrays yield no fields.
func Infer(v Value, prefix string) []schema.Field {
	switch v.Kind {
	case ValueArray:
		if len(v.Items) == 0 {
			return []schema.Field{}
		}
		fields := Infer(v.Items[0], prefix)
		for i := range fields {
			fields[i].IsArray = true
		}
		return fields
	case ValueObject:
		fields := make([]schema.Field, 0, len(v.Members))
		for _, m := range v.Members {
			fields = append(fields, inferMember(m, prefix))
		}
		return fields
	}
	return []schema.Field{}
}

func inferMember(m Member, prefix string) schema.Field {
	name := m.Key
	if prefix != "" {
		name = prefix + "." + m.Key
	}

	child := m.Value
	switch child.Kind {
	case ValueArray:
		f := schema.Field{Name: name, Kind: schema.KindArray, Elem: schema.KindUnknown, IsArray: true}
		if len(child.Items) > 0 {
			first := child.Items[0]
			f.Elem = RuntimeKind(first)
			// Nested lists are sampled down to their first non-list element.
			if first.Kind == ValueObject || first.Kind == ValueArray {
				f.Nested = Infer(child, "")
			}
		}
		return f
	case ValueObject:
		return schema.Field{Name: name, Kind: schema.KindObject, Nested: Infer(child, name)}
	}
	return schema.Field{Name: name, Kind: RuntimeKind(child)}
}

// RuntimeKind returns the runtime type tag of a value. Arrays and null report
// as object, matching how a dynamically typed runtime tags them.
func RuntimeKind(v Value) schema.Kind {
	switch v.Kind {
	case ValueString:
		return schema.KindString
	case ValueNumber:
		return schema.KindNumber
	case ValueBool:
		return schema.KindBoolean
	case ValueObject, ValueArray, ValueNull:
		return schema.KindObject
	}
	return schema.KindUnknown
}

// InferJSON parses data and infers its schema.
func InferJSON(data []byte) ([]schema.Field, error) {
	v, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return Infer(v, ""), nil
}
