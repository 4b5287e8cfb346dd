// Package query wraps JSONPath selection over decoded documents.
package query

import (
	"errors"
	"fmt"

	"github.com/theory/jsonpath"
)

var (
	ErrInvalidExpression = errors.New("invalid query expression")
	ErrNotFound          = errors.New("no matching value")
)

// Path is a compiled JSONPath expression, reusable across documents.
type Path struct {
	expression string
	compiled   *jsonpath.Path
}

// Compile parses expression once so repeated evaluation skips the parse.
func Compile(expression string) (*Path, error) {
	if expression == "" {
		return nil, fmt.Errorf("%w: expression is empty", ErrInvalidExpression)
	}

	compiled, err := jsonpath.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidExpression, expression, err)
	}

	return &Path{expression: expression, compiled: compiled}, nil
}

// Expression returns the source text the path was compiled from.
func (p *Path) Expression() string {
	return p.expression
}

// First selects the first value matching the path in data, or ErrNotFound.
func (p *Path) First(data any) (any, error) {
	results := p.compiled.Select(data)
	if len(results) > 0 {
		return results[0], nil
	}

	return nil, ErrNotFound
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
