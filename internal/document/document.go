// Package document decodes, encodes and compares JSON document values.
//
// A document value is the result of standard encoding/json decoding: nil,
// bool, float64, string, []any or map[string]any.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/tidwall/gjson"

	"github.com/jacoelho/jsonwalk/internal/number"
)

var (
	ErrInvalidDocument = errors.New("invalid JSON document")
	ErrEncode          = errors.New("encode failed")
)

// Decode parses raw JSON into a document value. Input validity is checked
// up front so malformed payloads surface as ErrInvalidDocument instead of
// a partially decoded value.
func Decode(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed input", ErrInvalidDocument)
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	return value, nil
}

// Encode turns a host value into a document value by round-tripping it
// through encoding/json.
func Encode(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	return Decode(data)
}

// Equal reports structural equality of two document values. Numbers
// compare numerically, so an int64 from YAML equals a float64 from JSON
// when they denote the same quantity.
func Equal(a, b any) bool {
	switch left := a.(type) {
	case map[string]any:
		right, ok := b.(map[string]any)
		if !ok || len(left) != len(right) {
			return false
		}
		for key, leftValue := range left {
			rightValue, ok := right[key]
			if !ok || !Equal(leftValue, rightValue) {
				return false
			}
		}
		return true
	case []any:
		right, ok := b.([]any)
		if !ok || len(left) != len(right) {
			return false
		}
		for i := range left {
			if !Equal(left[i], right[i]) {
				return false
			}
		}
		return true
	}

	if a == nil || b == nil {
		return a == nil && b == nil
	}

	leftNumber, leftIsNumber := number.ToFloat64(a)
	rightNumber, rightIsNumber := number.ToFloat64(b)
	if leftIsNumber && rightIsNumber {
		return leftNumber == rightNumber
	}

	return reflect.DeepEqual(a, b)
}

// Compact renders a document value as compact JSON for diagnostics.
// Values that cannot marshal fall back to fmt formatting so diagnostics
// never fail.
func Compact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}

	return string(data)
}
