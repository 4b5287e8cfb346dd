package suite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jacoelho/jsonwalk/internal/pathspec"
	"github.com/jacoelho/jsonwalk/internal/predicate"
	"github.com/jacoelho/jsonwalk/internal/query"
)

var ErrInvalidSuite = errors.New("invalid suite")

func ValidateCases(cases []Case) error {
	for index, current := range cases {
		if err := ValidateCase(current); err != nil {
			return fmt.Errorf("%w: case %d: %w", ErrInvalidSuite, index+1, err)
		}
	}

	return nil
}

func ValidateCase(current Case) error {
	hasInline := strings.TrimSpace(current.Document) != ""
	hasFile := strings.TrimSpace(current.DocumentFile) != ""

	if hasInline && hasFile {
		return errors.New("case cannot define both document and document_file")
	}
	if !hasInline && !hasFile {
		return errors.New("case must define document or document_file")
	}

	if len(current.Checks) == 0 {
		return errors.New("case must define at least one check")
	}

	for index, check := range current.Checks {
		if err := validateCheck(check); err != nil {
			return fmt.Errorf("check %d: %w", index+1, err)
		}
	}

	return nil
}

func validateCheck(check Check) error {
	hasPath := strings.TrimSpace(check.Path) != ""
	hasQuery := strings.TrimSpace(check.Query) != ""

	if hasPath && hasQuery {
		return errors.New("check cannot define both path and query")
	}
	if !hasPath && !hasQuery {
		return errors.New("check must define path or query")
	}

	if hasPath {
		if _, err := pathspec.Parse(check.Path); err != nil {
			return err
		}
	}
	if hasQuery {
		if _, err := query.Compile(check.Query); err != nil {
			return err
		}
	}

	return validatePredicate(check.Predicate)
}

// validatePredicate rejects unknown operations and op/value mismatches.
// Template references inside values stay unresolved here, they expand at
// compile time, so value content is not inspected yet.
func validatePredicate(p Predicate) error {
	op, err := predicate.ParseOperator(p.Operation)
	if err != nil {
		return err
	}

	return predicate.ValidateShape(predicate.Expr{
		Op:       op,
		Value:    p.Value,
		HasValue: p.HasValue,
	})
}
