package infer

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/itchyny/gojq"
)

// ErrEmptyQuery is returned when a jq expression yields no value.
var ErrEmptyQuery = errors.New("query produced no result")

// Query runs a jq expression over data and returns its first result as a Value.
// jq objects carry no key order, so members of the result are sorted by key.
func Query(expression string, data []byte) (Value, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return Value{}, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return Value{}, fmt.Errorf("failed to compile jq expression: %w", err)
	}

	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	iter := code.Run(input)
	result, ok := iter.Next()
	if !ok {
		return Value{}, ErrEmptyQuery
	}
	if err, isErr := result.(error); isErr {
		return Value{}, fmt.Errorf("jq evaluation failed: %w", err)
	}
	return FromAny(result), nil
}
