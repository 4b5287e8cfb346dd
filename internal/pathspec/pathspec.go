// Package pathspec parses check addresses like user.tags[0] or
// headers["Content-Type"] into key and index segments.
package pathspec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidPath = errors.New("invalid path")

// Segment is one step of a parsed address: an object key or an array
// index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// Parse splits an address into segments. Dots separate segments,
// brackets hold numeric positions or quoted keys, and a bare run of
// digits addresses an array position. Keys that are not plain
// identifiers must use the quoted bracket form.
func Parse(input string) ([]Segment, error) {
	remaining := strings.TrimSpace(input)
	if remaining == "" {
		return nil, fmt.Errorf("%w: empty address", ErrInvalidPath)
	}

	var segments []Segment
	expectSegment := true

	for len(remaining) > 0 {
		switch remaining[0] {
		case '.':
			if expectSegment {
				return nil, fmt.Errorf("%w: unexpected '.' in %q", ErrInvalidPath, input)
			}
			remaining = remaining[1:]
			expectSegment = true

		case '[':
			end := closingBracket(remaining)
			if end <= 1 {
				return nil, fmt.Errorf("%w: empty or unterminated bracket in %q", ErrInvalidPath, input)
			}

			segment, err := parseBracket(strings.TrimSpace(remaining[1:end]), input)
			if err != nil {
				return nil, err
			}

			segments = append(segments, segment)
			remaining = remaining[end+1:]
			expectSegment = false

		default:
			if !expectSegment {
				return nil, fmt.Errorf("%w: missing separator before %q in %q", ErrInvalidPath, remaining, input)
			}

			boundary := len(remaining)
			if dot := strings.IndexByte(remaining, '.'); dot >= 0 && dot < boundary {
				boundary = dot
			}
			if bracket := strings.IndexByte(remaining, '['); bracket >= 0 && bracket < boundary {
				boundary = bracket
			}

			segment, err := parseToken(remaining[:boundary], input)
			if err != nil {
				return nil, err
			}

			segments = append(segments, segment)
			remaining = remaining[boundary:]
			expectSegment = false
		}
	}

	if expectSegment {
		return nil, fmt.Errorf("%w: trailing '.' in %q", ErrInvalidPath, input)
	}

	return segments, nil
}

// closingBracket returns the index of the ']' terminating the bracket
// opened at input[0], or -1 when there is none. A quoted key may contain
// ']' and escaped quotes, so a leading quote shifts the scan past the
// quoted span first.
func closingBracket(input string) int {
	i := 1
	for i < len(input) && input[i] == ' ' {
		i++
	}

	if i < len(input) && (input[i] == '"' || input[i] == '\'') {
		quote := input[i]
		i++
		for i < len(input) && input[i] != quote {
			if input[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(input) {
			return -1
		}
		i++
	}

	for ; i < len(input); i++ {
		if input[i] == ']' {
			return i
		}
	}

	return -1
}

func parseBracket(content string, input string) (Segment, error) {
	if isDigits(content) {
		position, err := strconv.Atoi(content)
		if err != nil {
			return Segment{}, fmt.Errorf("%w: position %q in %q: %v", ErrInvalidPath, content, input, err)
		}
		return Segment{Index: position, IsIndex: true}, nil
	}

	key, ok := parseQuoted(content)
	if !ok {
		return Segment{}, fmt.Errorf("%w: bracket %q in %q is neither a position nor a quoted key", ErrInvalidPath, content, input)
	}

	return Segment{Key: key}, nil
}

func parseToken(token string, input string) (Segment, error) {
	if isDigits(token) {
		position, err := strconv.Atoi(token)
		if err != nil {
			return Segment{}, fmt.Errorf("%w: position %q in %q: %v", ErrInvalidPath, token, input, err)
		}
		return Segment{Index: position, IsIndex: true}, nil
	}

	if !isIdentifier(token) {
		return Segment{}, fmt.Errorf("%w: segment %q in %q is not an identifier, quote it in brackets", ErrInvalidPath, token, input)
	}

	return Segment{Key: token}, nil
}

func consumeIdentifier(input string) (string, int) {
	if input == "" {
		return "", 0
	}

	for i, r := range input {
		if i == 0 {
			if !(r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')) {
				return "", 0
			}
			continue
		}

		if !(r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return input[:i], i
		}
	}

	return input, len(input)
}

func isIdentifier(input string) bool {
	_, consumed := consumeIdentifier(input)
	return consumed == len(input)
}

func isDigits(input string) bool {
	if input == "" {
		return false
	}
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseQuoted(input string) (string, bool) {
	if len(input) < 2 {
		return "", false
	}

	quote := input[0]
	if (quote != '\'' && quote != '"') || input[len(input)-1] != quote {
		return "", false
	}

	return decodeQuoted(input[1 : len(input)-1])
}

func decodeQuoted(raw string) (string, bool) {
	var out strings.Builder
	out.Grow(len(raw))

	for i := 0; i < len(raw); i++ {
		current := raw[i]
		if current != '\\' {
			out.WriteByte(current)
			continue
		}

		i++
		if i >= len(raw) {
			return "", false
		}

		switch escaped := raw[i]; escaped {
		case '\\', '"', '\'':
			out.WriteByte(escaped)
		default:
			return "", false
		}
	}

	return out.String(), true
}
