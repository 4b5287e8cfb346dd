package suite

import (
	"fmt"

	"github.com/jacoelho/jsonwalk"
	"github.com/jacoelho/jsonwalk/internal/document"
	"github.com/jacoelho/jsonwalk/internal/pathspec"
	"github.com/jacoelho/jsonwalk/internal/predicate"
	"github.com/jacoelho/jsonwalk/internal/query"
	"github.com/jacoelho/jsonwalk/internal/template"
)

// CompiledQuery is a JSONPath check ready to run: the compiled
// expression plus the predicate applied to its first match.
type CompiledQuery struct {
	Path  *query.Path
	Check func(actual any) error
}

// CompiledCase is a case ready to run repeatedly. Path checks live in
// Program, query checks in Queries. When DocumentFile is empty, Document
// holds the decoded inline document (which may be a JSON null).
type CompiledCase struct {
	Name         string
	Document     any
	DocumentFile string
	Program      jsonwalk.Program[any]
	Queries      []CompiledQuery
}

// Compile validates cases and turns them into compiled form. Variables
// expand once here, into check values and inline documents, so repeated
// runs of a compiled case see identical inputs.
func Compile(cases []Case, vars map[string]string) ([]CompiledCase, error) {
	if err := ValidateCases(cases); err != nil {
		return nil, err
	}

	compiled := make([]CompiledCase, 0, len(cases))
	for index, current := range cases {
		compiledCase, err := compileCase(current, vars)
		if err != nil {
			return nil, fmt.Errorf("%w: case %d: %w", ErrInvalidSuite, index+1, err)
		}
		compiled = append(compiled, compiledCase)
	}

	return compiled, nil
}

func compileCase(current Case, vars map[string]string) (CompiledCase, error) {
	var programs []jsonwalk.Program[any]
	var queries []CompiledQuery

	for index, check := range current.Checks {
		expr, err := expandExpr(check.Predicate, vars)
		if err != nil {
			return CompiledCase{}, fmt.Errorf("check %d: %w", index+1, err)
		}

		if check.Path != "" {
			program, err := compilePathCheck(check.Path, expr)
			if err != nil {
				return CompiledCase{}, fmt.Errorf("check %d: %w", index+1, err)
			}
			programs = append(programs, program)
			continue
		}

		compiledQuery, err := compileQueryCheck(check.Query, expr)
		if err != nil {
			return CompiledCase{}, fmt.Errorf("check %d: %w", index+1, err)
		}
		queries = append(queries, compiledQuery)
	}

	compiledCase := CompiledCase{
		Name:         current.Name,
		DocumentFile: current.DocumentFile,
		Program:      jsonwalk.Finalize(jsonwalk.All(programs...)),
		Queries:      queries,
	}

	if current.DocumentFile == "" {
		expanded, err := template.Apply(current.Document, vars)
		if err != nil {
			return CompiledCase{}, fmt.Errorf("document: %w", err)
		}

		decoded, err := document.Decode([]byte(expanded))
		if err != nil {
			return CompiledCase{}, fmt.Errorf("document: %w", err)
		}
		compiledCase.Document = decoded
	}

	return compiledCase, nil
}

// expandExpr resolves templates inside the check value and produces a
// validated predicate expression.
func expandExpr(p Predicate, vars map[string]string) (predicate.Expr, error) {
	op, err := predicate.ParseOperator(p.Operation)
	if err != nil {
		return predicate.Expr{}, err
	}

	value := p.Value
	if p.HasValue {
		expanded, err := template.Expand(value, vars)
		if err != nil {
			return predicate.Expr{}, fmt.Errorf("value: %w", err)
		}
		value = expanded
	}

	return predicate.Expr{Op: op, Value: value, HasValue: p.HasValue}, nil
}

// compilePathCheck builds the descent chain for an exact address,
// innermost step first. An exists check needs no predicate, reaching the
// address is the assertion.
func compilePathCheck(path string, expr predicate.Expr) (jsonwalk.Program[any], error) {
	segments, err := pathspec.Parse(path)
	if err != nil {
		return jsonwalk.Program[any]{}, err
	}

	var program jsonwalk.Program[any]
	if expr.Op == predicate.OpExists {
		program = jsonwalk.Terminate[any]()
	} else {
		check, err := predicate.Compile(expr)
		if err != nil {
			return jsonwalk.Program[any]{}, err
		}
		program = jsonwalk.AssertWith[any](check, jsonwalk.Done[any]())
	}

	for i := len(segments) - 1; i >= 0; i-- {
		segment := segments[i]
		inner := program
		if segment.IsIndex {
			program = jsonwalk.Nth(segment.Index, passthrough, func(any) jsonwalk.Program[any] { return inner })
		} else {
			program = jsonwalk.Key(segment.Key, passthrough, func(any) jsonwalk.Program[any] { return inner })
		}
	}

	return program, nil
}

func compileQueryCheck(expression string, expr predicate.Expr) (CompiledQuery, error) {
	compiledQuery, err := query.Compile(expression)
	if err != nil {
		return CompiledQuery{}, err
	}

	check, err := predicate.Compile(expr)
	if err != nil {
		return CompiledQuery{}, err
	}

	return CompiledQuery{Path: compiledQuery, Check: check}, nil
}

func passthrough(v any) any { return v }
