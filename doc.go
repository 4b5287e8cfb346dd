// Package jsonwalk asserts that a JSON document corresponds to the value
// it was encoded from, by walking both in lockstep.
//
// A Program is an immutable tree of steps built with Key, Nth, AssertWith,
// AssertEqualTo, Terminate and All. Each descent step pairs a document
// lookup with a host-side projection, so the value flowing through the
// continuation always has the shape the document position corresponds to.
// Run encodes a subject once and interprets the program against the
// result; the outcome is an ordered list of human-readable failure
// strings, empty on success:
//
//	type User struct {
//		Name string `json:"name"`
//	}
//
//	program := jsonwalk.Key("name",
//		func(u User) string { return u.Name },
//		func(name string) jsonwalk.Program[string] {
//			return jsonwalk.AssertEqualTo(name, jsonwalk.Done[string]())
//		})
//
//	failures := jsonwalk.Run(program, User{Name: "Alice"})
//
// Failures inside one sequential branch stop only that branch; branches
// combined with All run independently and report in order. Programs carry
// no mutable state and may be reused across runs.
package jsonwalk
