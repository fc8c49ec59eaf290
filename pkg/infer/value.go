package infer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/buger/jsonparser"
	"github.com/goccy/go-json"
)

// ErrInvalidJSON is returned when the input is not well-formed JSON text.
var ErrInvalidJSON = errors.New("invalid JSON")

// ValueKind is the closed set of JSON value kinds the inferencer switches on.
type ValueKind uint8

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueNumber
	ValueString
	ValueArray
	ValueObject
)

func (k ValueKind) String() string {
	switch k {
	case ValueNull:
		return "null"
	case ValueBool:
		return "bool"
	case ValueNumber:
		return "number"
	case ValueString:
		return "string"
	case ValueArray:
		return "array"
	case ValueObject:
		return "object"
	}
	return fmt.Sprintf("ValueKind(%d)", uint8(k))
}

// Member is one key of an object value.
type Member struct {
	Key   string
	Value Value
}

// Value is a parsed JSON value. Object members keep their source order.
type Value struct {
	Kind    ValueKind
	Text    string   // raw text of number, string and bool values
	Items   []Value  // array elements
	Members []Member // object members
}

// ParseJSON parses JSON text into a Value, preserving object key order.
// A key that appears more than once keeps its first position and its last value.
func ParseJSON(data []byte) (Value, error) {
	if !json.Valid(data) {
		return Value{}, ErrInvalidJSON
	}
	raw, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return parseValue(raw, typ)
}

func parseValue(raw []byte, typ jsonparser.ValueType) (Value, error) {
	switch typ {
	case jsonparser.Null:
		return Value{Kind: ValueNull}, nil
	case jsonparser.Boolean:
		return Value{Kind: ValueBool, Text: string(raw)}, nil
	case jsonparser.Number:
		return Value{Kind: ValueNumber, Text: string(raw)}, nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		return Value{Kind: ValueString, Text: s}, nil
	case jsonparser.Array:
		return parseArray(raw)
	case jsonparser.Object:
		return parseObject(raw)
	}
	return Value{}, fmt.Errorf("%w: unexpected value type %s", ErrInvalidJSON, typ)
}

func parseArray(raw []byte) (Value, error) {
	v := Value{Kind: ValueArray, Items: []Value{}}
	var inner error
	_, err := jsonparser.ArrayEach(raw, func(item []byte, typ jsonparser.ValueType, _ int, err error) {
		if inner != nil {
			return
		}
		if err != nil {
			inner = err
			return
		}
		child, err := parseValue(item, typ)
		if err != nil {
			inner = err
			return
		}
		v.Items = append(v.Items, child)
	})
	if inner != nil {
		return Value{}, inner
	}
	if err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return v, nil
}

func parseObject(raw []byte) (Value, error) {
	v := Value{Kind: ValueObject, Members: []Member{}}
	index := make(map[string]int)
	err := jsonparser.ObjectEach(raw, func(key, item []byte, typ jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return err
		}
		child, err := parseValue(item, typ)
		if err != nil {
			return err
		}
		if i, ok := index[name]; ok {
			v.Members[i].Value = child
			return nil
		}
		index[name] = len(v.Members)
		v.Members = append(v.Members, Member{Key: name, Value: child})
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidJSON) {
			return Value{}, err
		}
		return Value{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return v, nil
}

// FromAny converts a decoded Go value (as produced by encoding/json or gojq)
// into a Value. Map keys carry no order, so members are sorted by key.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Value{Kind: ValueNull}
	case bool:
		return Value{Kind: ValueBool, Text: fmt.Sprint(t)}
	case string:
		return Value{Kind: ValueString, Text: t}
	case json.Number:
		return Value{Kind: ValueNumber, Text: t.String()}
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Value{Kind: ValueNumber, Text: fmt.Sprint(t)}
	case []any:
		v := Value{Kind: ValueArray, Items: make([]Value, 0, len(t))}
		for _, item := range t {
			v.Items = append(v.Items, FromAny(item))
		}
		return v
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		v := Value{Kind: ValueObject, Members: make([]Member, 0, len(keys))}
		for _, k := range keys {
			v.Members = append(v.Members, Member{Key: k, Value: FromAny(t[k])})
		}
		return v
	}
	// gojq may yield *big.Int for large integers
	return Value{Kind: ValueNumber, Text: fmt.Sprint(x)}
}
