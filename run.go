package jsonwalk

import (
	"fmt"

	"github.com/jacoelho/jsonwalk/internal/document"
)

// rootPath names the starting position in every failure message.
const rootPath = "subject"

// Run encodes subject to a document and interprets p against both. The
// returned failure strings are the sole outcome: an empty slice means
// every assertion held. Encoding problems are reported the same way, as
// a single failure, never as a panic.
func Run[S any](p Program[S], subject S) []string {
	doc, err := document.Encode(subject)
	if err != nil {
		return []string{fmt.Sprintf("%s failed to encode\n%v", rootPath, err)}
	}

	return eval(p.node, doc, subject, rootPath)
}

// Eval interprets p against an already decoded document, with subject as
// the root host value. Callers that obtain documents elsewhere (files,
// fixtures, captured payloads) use this entry; with S = any the document
// itself commonly doubles as the subject.
func Eval[S any](p Program[S], doc Value, subject S) []string {
	return eval(p.node, doc, subject, rootPath)
}

// eval walks the program and the document in lockstep. A failed lookup
// or assertion stops the current branch only; allNode branches run
// independently against the same state and report in order.
func eval(n node, doc Value, host any, path string) []string {
	switch s := n.(type) {
	case doneNode:
		return nil
	case terminateNode:
		return nil
	case allNode:
		var failures []string
		for _, program := range s.programs {
			failures = append(failures, eval(program, doc, host, path)...)
		}
		return failures
	case keyNode:
		object, ok := doc.(map[string]any)
		if !ok {
			return []string{fmt.Sprintf("%s[%q] failed to match any targets", path, s.name)}
		}
		child, ok := object[s.name]
		if !ok {
			return []string{fmt.Sprintf("%s[%q] failed to match any targets", path, s.name)}
		}
		projected := s.project(host)
		return eval(s.cont(projected), child, projected, fmt.Sprintf("%s[%q]", path, s.name))
	case indexNode:
		array, ok := doc.([]any)
		if !ok || s.position < 0 || s.position >= len(array) {
			return []string{path + " failed to match any targets"}
		}
		projected := s.project(host)
		return eval(s.cont(projected), array[s.position], projected, fmt.Sprintf("%s[%d]", path, s.position))
	case assertNode:
		if err := s.predicate(doc); err != nil {
			return []string{path + " failed assertion\n" + err.Error()}
		}
		return eval(s.next, doc, host, path)
	default:
		return nil
	}
}
