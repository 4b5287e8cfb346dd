package predicate

import (
	"errors"
	"testing"
)

func TestParseOperator(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "supported", input: "equals"},
		{name: "supported_type_is", input: "type_is"},
		{name: "unsupported", input: "bad", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOperator(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOperator() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateExpr(t *testing.T) {
	tests := []struct {
		name    string
		expr    Expr
		wantErr bool
	}{
		{
			name: "exists_without_value",
			expr: Expr{
				Op: OpExists,
			},
		},
		{
			name: "exists_with_value",
			expr: Expr{
				Op:       OpExists,
				Value:    true,
				HasValue: true,
			},
			wantErr: true,
		},
		{
			name: "equals_without_value",
			expr: Expr{
				Op: OpEquals,
			},
			wantErr: true,
		},
		{
			name: "equals_with_value",
			expr: Expr{
				Op:       OpEquals,
				Value:    "ok",
				HasValue: true,
			},
		},
		{
			name: "type_is_valid",
			expr: Expr{
				Op:       OpTypeIs,
				Value:    "array",
				HasValue: true,
			},
		},
		{
			name: "type_is_invalid_value",
			expr: Expr{
				Op:       OpTypeIs,
				Value:    "list",
				HasValue: true,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExpr(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateExpr() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateShapeSkipsValueContent(t *testing.T) {
	unresolved := Expr{
		Op:       OpTypeIs,
		Value:    "{{ .kind }}",
		HasValue: true,
	}

	if err := ValidateShape(unresolved); err != nil {
		t.Fatalf("ValidateShape() error = %v, want nil for unresolved template value", err)
	}
	if err := ValidateExpr(unresolved); err == nil {
		t.Fatal("ValidateExpr() error = nil, want content rejection")
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		expr      Expr
		actual    any
		want      bool
		wantError bool
	}{
		{
			name: "equals_numeric_cross_type",
			expr: Expr{
				Op:       OpEquals,
				Value:    int64(42),
				HasValue: true,
			},
			actual: float64(42),
			want:   true,
		},
		{
			name: "equals_nested_object",
			expr: Expr{
				Op:       OpEquals,
				Value:    map[string]any{"id": int64(1), "tags": []any{"a"}},
				HasValue: true,
			},
			actual: map[string]any{"id": float64(1), "tags": []any{"a"}},
			want:   true,
		},
		{
			name: "not_equals",
			expr: Expr{
				Op:       OpNotEquals,
				Value:    "b",
				HasValue: true,
			},
			actual: "a",
			want:   true,
		},
		{
			name: "contains_string",
			expr: Expr{
				Op:       OpContains,
				Value:    "John",
				HasValue: true,
			},
			actual: "John Doe",
			want:   true,
		},
		{
			name: "contains_non_string_actual",
			expr: Expr{
				Op:       OpContains,
				Value:    "John",
				HasValue: true,
			},
			actual:    float64(123),
			wantError: true,
		},
		{
			name: "regex",
			expr: Expr{
				Op:       OpRegex,
				Value:    "^v\\d+",
				HasValue: true,
			},
			actual: "v10",
			want:   true,
		},
		{
			name: "length_of_array",
			expr: Expr{
				Op:       OpLength,
				Value:    int64(3),
				HasValue: true,
			},
			actual: []any{"a", "b", "c"},
			want:   true,
		},
		{
			name: "length_whole_float_expected",
			expr: Expr{
				Op:       OpLength,
				Value:    float64(3),
				HasValue: true,
			},
			actual: []any{"a", "b", "c"},
			want:   true,
		},
		{
			name: "length_fractional_expected_is_invalid",
			expr: Expr{
				Op:       OpLength,
				Value:    float64(3.5),
				HasValue: true,
			},
			actual:    []any{"a", "b", "c"},
			wantError: true,
		},
		{
			name: "greater_than",
			expr: Expr{
				Op:       OpGreaterThan,
				Value:    int64(5),
				HasValue: true,
			},
			actual: float64(7),
			want:   true,
		},
		{
			name: "in_collection",
			expr: Expr{
				Op:       OpIn,
				Value:    []any{int64(1), int64(2)},
				HasValue: true,
			},
			actual: float64(2),
			want:   true,
		},
		{
			name: "in_non_collection",
			expr: Expr{
				Op:       OpIn,
				Value:    "abc",
				HasValue: true,
			},
			actual:    "b",
			wantError: true,
		},
		{
			name: "exists_true",
			expr: Expr{
				Op: OpExists,
			},
			actual: "non-empty",
			want:   true,
		},
		{
			name: "exists_false_for_empty_string",
			expr: Expr{
				Op: OpExists,
			},
			actual: "",
			want:   false,
		},
		{
			name: "type_is_array",
			expr: Expr{
				Op:       OpTypeIs,
				Value:    "array",
				HasValue: true,
			},
			actual: []any{"a", "b"},
			want:   true,
		},
		{
			name: "type_is_null",
			expr: Expr{
				Op:       OpTypeIs,
				Value:    "null",
				HasValue: true,
			},
			actual: nil,
			want:   true,
		},
		{
			name: "type_is_invalid_expected_type",
			expr: Expr{
				Op:       OpTypeIs,
				Value:    10,
				HasValue: true,
			},
			actual:    []any{"a"},
			wantError: true,
		},
	}

	evaluator := NewEvaluator()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluator.Evaluate(tt.expr, tt.actual)
			if (err != nil) != tt.wantError {
				t.Fatalf("Evaluate() error = %v, wantError %v", err, tt.wantError)
			}
			if err == nil && got != tt.want {
				t.Fatalf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		expr       Expr
		actual     any
		compileErr bool
		wantErr    string
	}{
		{
			name:       "unsupported_operator",
			expr:       Expr{Op: Operator("bogus"), Value: 1, HasValue: true},
			compileErr: true,
		},
		{
			name:       "missing_value",
			expr:       Expr{Op: OpEquals},
			compileErr: true,
		},
		{
			name:   "equals_pass",
			expr:   Expr{Op: OpEquals, Value: int64(42), HasValue: true},
			actual: float64(42),
		},
		{
			name:    "equals_failure_diagnostic",
			expr:    Expr{Op: OpEquals, Value: int64(43), HasValue: true},
			actual:  float64(42),
			wantErr: "Expected: 43\nGot: 42",
		},
		{
			name:    "contains_failure_diagnostic",
			expr:    Expr{Op: OpContains, Value: "admin", HasValue: true},
			actual:  "guest",
			wantErr: `expected contains "admin", got "guest"`,
		},
		{
			name:    "greater_than_failure_diagnostic",
			expr:    Expr{Op: OpGreaterThan, Value: int64(5), HasValue: true},
			actual:  float64(3),
			wantErr: "expected greater_than 5, got 3",
		},
		{
			name:   "exists_always_accepts",
			expr:   Expr{Op: OpExists},
			actual: "",
		},
		{
			name:    "evaluation_error_propagates",
			expr:    Expr{Op: OpContains, Value: "x", HasValue: true},
			actual:  float64(1),
			wantErr: `invalid predicate input: "contains" requires string actual value, got float64`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check, err := Compile(tt.expr)
			if (err != nil) != tt.compileErr {
				t.Fatalf("Compile() error = %v, compileErr %v", err, tt.compileErr)
			}
			if err != nil {
				return
			}

			checkErr := check(tt.actual)
			if tt.wantErr == "" {
				if checkErr != nil {
					t.Fatalf("check() error = %v, want nil", checkErr)
				}
				return
			}
			if checkErr == nil {
				t.Fatalf("check() error = nil, want %q", tt.wantErr)
			}
			if checkErr.Error() != tt.wantErr {
				t.Fatalf("check() error = %q, want %q", checkErr.Error(), tt.wantErr)
			}
		})
	}
}

func TestCompileValidationErrorKind(t *testing.T) {
	t.Parallel()

	if _, err := Compile(Expr{Op: Operator("bogus"), Value: 1, HasValue: true}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Compile() error = %v, want ErrUnsupported", err)
	}
	if _, err := Compile(Expr{Op: OpLength}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Compile() error = %v, want ErrInvalidInput", err)
	}
}

func TestCachedRegexCompilerCachesByPattern(t *testing.T) {
	t.Parallel()

	compiler := newCachedRegexCompiler()

	first, err := compiler.Compile("^a+$")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	second, err := compiler.Compile("^a+$")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if first != second {
		t.Fatalf("Compile() returned different compiled regex pointers for same pattern")
	}

	if _, err := compiler.Compile("[invalid"); err == nil {
		t.Fatal("Compile() expected invalid regex error")
	}
}
