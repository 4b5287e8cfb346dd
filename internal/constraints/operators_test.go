package constraints

import (
	"testing"

	"github.com/jacoelho/jsonwalk/internal/predicate"
	"github.com/jacoelho/jsonwalk/internal/suite"
)

// operatorValue returns an expected value the operator accepts, so the
// contract tests exercise validation rather than value typing.
func operatorValue(op predicate.Operator) any {
	switch op {
	case predicate.OpLength, predicate.OpGreaterThan, predicate.OpLessThan,
		predicate.OpGreaterThanOrEqual, predicate.OpLessThanOrEqual:
		return int64(1)
	case predicate.OpIn:
		return []any{"x"}
	case predicate.OpTypeIs:
		return "string"
	default:
		return "x"
	}
}

func TestEvaluatorAndSuiteCompilerShareOperatorSet(t *testing.T) {
	t.Parallel()

	for _, op := range predicate.SupportedOperators() {
		t.Run(string(op), func(t *testing.T) {
			t.Parallel()

			expr := predicate.Expr{Op: op}
			if op != predicate.OpExists {
				expr.Value = operatorValue(op)
				expr.HasValue = true
			}

			if err := predicate.ValidateExpr(expr); err != nil {
				t.Fatalf("predicate.ValidateExpr(%q) error = %v", op, err)
			}
			if _, err := predicate.Compile(expr); err != nil {
				t.Fatalf("predicate.Compile(%q) error = %v", op, err)
			}

			cases := []suite.Case{{
				Name:     "operator " + string(op),
				Document: `{"value": "x"}`,
				Checks: []suite.Check{{
					Path: "value",
					Predicate: suite.Predicate{
						Operation: string(op),
						Value:     expr.Value,
						HasValue:  expr.HasValue,
					},
				}},
			}}
			if _, err := suite.Compile(cases, map[string]string{}); err != nil {
				t.Fatalf("suite.Compile(%q) error = %v", op, err)
			}
		})
	}
}

func TestUnsupportedOperatorRejectedAcrossBoundaries(t *testing.T) {
	t.Parallel()

	const op = "sounds_like"

	if _, err := predicate.ParseOperator(op); err == nil {
		t.Fatalf("predicate.ParseOperator(%q) expected error", op)
	}

	expr := predicate.Expr{Op: predicate.Operator(op), Value: "x", HasValue: true}
	if err := predicate.ValidateExpr(expr); err == nil {
		t.Fatalf("predicate.ValidateExpr(%q) expected error", op)
	}

	cases := []suite.Case{{
		Name:     "unsupported operator",
		Document: `{"value": "x"}`,
		Checks: []suite.Check{{
			Path: "value",
			Predicate: suite.Predicate{
				Operation: op,
				Value:     "x",
				HasValue:  true,
			},
		}},
	}}
	if _, err := suite.Compile(cases, map[string]string{}); err == nil {
		t.Fatalf("suite.Compile(%q) expected error", op)
	}
}
