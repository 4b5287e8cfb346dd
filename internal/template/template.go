// Package template expands variable references and generator functions
// inside suite documents and check values.
package template

import (
	"encoding/base64"
	"strconv"
	"strings"
	"text/template"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/jacoelho/jsonwalk/internal/clock"
	"github.com/jacoelho/jsonwalk/internal/random"
)

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"uuidv4": generateUUIDv4,
		"uuid":   generateUUIDv4, // Alias for uuidv4

		"now":       timeNow,
		"timestamp": timeUnix,
		"iso8601":   timeISO8601,
		"rfc3339":   timeRFC3339,

		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"title": titleCase,
		"trim":  strings.TrimSpace,

		"randomInt":    randomInt,
		"randomString": randomString,

		"base64": base64Encode,
	}
}

// NewTemplate returns a template with the generator functions installed.
// Unknown variable references fail instead of expanding to "<no value>".
func NewTemplate(name string) *template.Template {
	return template.New(name).Option("missingkey=error").Funcs(FuncMap())
}

func Apply(tmplStr string, data any) (string, error) {
	return ApplyWithName("", tmplStr, data)
}

// ApplyWithName is useful for debugging template errors.
func ApplyWithName(name, tmplStr string, data any) (string, error) {
	if tmplStr == "" {
		return "", nil
	}

	tmpl, err := NewTemplate(name).Parse(tmplStr)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// Expand rewrites every string inside a document value through Apply,
// rebuilding maps and slices. Non-string leaves pass through untouched,
// so numbers and booleans keep their types.
func Expand(value any, vars map[string]string) (any, error) {
	switch v := value.(type) {
	case string:
		return Apply(v, vars)
	case []any:
		out := make([]any, len(v))
		for i, element := range v {
			expanded, err := Expand(element, vars)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, element := range v {
			expanded, err := Expand(element, vars)
			if err != nil {
				return nil, err
			}
			out[key] = expanded
		}
		return out, nil
	default:
		return value, nil
	}
}

func generateUUIDv4() string {
	return uuid.New().String()
}

func timeNow() string {
	return clock.Now().Format(time.RFC3339)
}

func timeUnix() string {
	return strconv.FormatInt(clock.Now().Unix(), 10)
}

func timeISO8601() string {
	return clock.Now().Format("2006-01-02T15:04:05Z07:00")
}

func timeRFC3339() string {
	return clock.Now().Format(time.RFC3339)
}

// titleCase uses proper Unicode word boundaries.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			runes := []rune(word)
			runes[0] = unicode.ToUpper(runes[0])
			words[i] = string(runes)
		}
	}
	return strings.Join(words, " ")
}

func randomInt(min, max int) int {
	return random.IntBetween(min, max)
}

func randomString(length int) string {
	return random.String(length)
}

func base64Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}
