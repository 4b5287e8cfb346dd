package jsonwalk

import (
	"fmt"

	"github.com/jacoelho/jsonwalk/internal/document"
)

// EqualTo builds a predicate accepting document nodes structurally equal
// to the encoding of expected. Encoding happens once, at construction, so
// the predicate stays cheap under repeated runs. Numbers compare
// numerically regardless of lexical form.
func EqualTo[S any](expected S) Predicate {
	want, err := document.Encode(expected)
	if err != nil {
		return func(Value) error {
			return fmt.Errorf("expected value failed to encode: %v", err)
		}
	}

	return func(actual Value) error {
		if document.Equal(want, actual) {
			return nil
		}

		return fmt.Errorf("Expected: %s\nGot: %s", document.Compact(want), document.Compact(actual))
	}
}
