package jsonwalk

import (
	"slices"
	"testing"
)

func TestDoneProducesNoFailures(t *testing.T) {
	t.Parallel()

	doc := mustDecode(t, `{"anything":true}`)
	if failures := Eval(Done[any](), doc, doc); len(failures) != 0 {
		t.Fatalf("Eval() failures = %v, want none", failures)
	}
}

func TestTerminateProducesNoFailures(t *testing.T) {
	t.Parallel()

	doc := mustDecode(t, `[1,2,3]`)
	if failures := Eval(Terminate[any](), doc, doc); len(failures) != 0 {
		t.Fatalf("Eval() failures = %v, want none", failures)
	}
}

func TestAllOfNothingSucceeds(t *testing.T) {
	t.Parallel()

	doc := mustDecode(t, `null`)
	if failures := Eval(All[any](), doc, doc); len(failures) != 0 {
		t.Fatalf("Eval() failures = %v, want none", failures)
	}
}

func TestAllOfSingleProgram(t *testing.T) {
	t.Parallel()

	doc := mustDecode(t, `{"a":1}`)
	inner := Key("missing", identity[any], func(any) Program[any] { return Done[any]() })

	want := Eval(inner, doc, doc)
	if got := Eval(All(inner), doc, doc); !slices.Equal(got, want) {
		t.Fatalf("Eval(All(p)) = %q, want %q", got, want)
	}
}

func TestFinalizeIntroducesNoFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		program Program[any]
	}{
		{
			name:    "done_leaf",
			doc:     `{"a":1}`,
			program: Key("a", identity[any], func(any) Program[any] { return Done[any]() }),
		},
		{
			name: "failing_assertion",
			doc:  `{"a":1}`,
			program: Key("a", identity[any], func(any) Program[any] {
				return AssertEqualTo[any](2, Done[any]())
			}),
		},
		{
			name: "missing_key",
			doc:  `{"a":1}`,
			program: All(
				Key("missing", identity[any], func(any) Program[any] { return Done[any]() }),
				Key("a", identity[any], func(any) Program[any] { return Done[any]() }),
			),
		},
		{
			name:    "terminate_leaf",
			doc:     `[1,2]`,
			program: Nth(0, identity[any], func(any) Program[any] { return Terminate[any]() }),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDecode(t, tt.doc)

			plain := Eval(tt.program, doc, doc)
			finalized := Eval(Finalize(tt.program), doc, doc)

			if !slices.Equal(plain, finalized) {
				t.Fatalf("Finalize changed failures: %q, want %q", finalized, plain)
			}
		})
	}
}

func TestProgramsAreReusable(t *testing.T) {
	t.Parallel()

	program := Key("score", identity[any], func(any) Program[any] {
		return AssertEqualTo[any](10, Done[any]())
	})

	passing := mustDecode(t, `{"score":10}`)
	failing := mustDecode(t, `{"score":11}`)

	if failures := Eval(program, passing, passing); len(failures) != 0 {
		t.Fatalf("Eval(passing) failures = %v, want none", failures)
	}
	if failures := Eval(program, failing, failing); len(failures) != 1 {
		t.Fatalf("Eval(failing) failures = %q, want exactly one", failures)
	}
	// Evaluations must not corrupt the program value.
	if failures := Eval(program, passing, passing); len(failures) != 0 {
		t.Fatalf("Eval(passing) after failing run = %v, want none", failures)
	}
}

func TestAssertWithNilErrorContinues(t *testing.T) {
	t.Parallel()

	doc := mustDecode(t, `{"a":1}`)
	program := AssertWith[any](func(Value) error { return nil },
		Key("missing", identity[any], func(any) Program[any] { return Done[any]() }))

	want := []string{`subject["missing"] failed to match any targets`}
	if got := Eval(program, doc, doc); !slices.Equal(got, want) {
		t.Fatalf("Eval() failures = %q, want %q", got, want)
	}
}

func TestKeyProjectionsCompose(t *testing.T) {
	t.Parallel()

	type address struct {
		City string `json:"city"`
	}
	type user struct {
		Address address `json:"address"`
	}

	program := Key("address",
		func(u user) address { return u.Address },
		func(a address) Program[address] {
			return Key("city",
				func(a address) string { return a.City },
				func(city string) Program[string] {
					return AssertEqualTo(city, Done[string]())
				})
		})

	subject := user{Address: address{City: "Lisbon"}}
	if failures := Run(program, subject); len(failures) != 0 {
		t.Fatalf("Run() failures = %v, want none", failures)
	}

	doc := mustDecode(t, `{"address":{"city":"Porto"}}`)
	want := []string{"subject[\"address\"][\"city\"] failed assertion\nExpected: \"Lisbon\"\nGot: \"Porto\""}
	if got := Eval(program, doc, subject); !slices.Equal(got, want) {
		t.Fatalf("Eval() failures = %q, want %q", got, want)
	}
}

func TestNthProjectionThreadsElement(t *testing.T) {
	t.Parallel()

	subject := []int{10, 20, 30}
	program := Nth(1,
		func(s []int) int { return s[1] },
		func(v int) Program[int] {
			return AssertEqualTo(v, Done[int]())
		})

	if failures := Run(program, subject); len(failures) != 0 {
		t.Fatalf("Run() failures = %v, want none", failures)
	}

	doc := mustDecode(t, `[10, 99, 30]`)
	want := []string{"subject[1] failed assertion\nExpected: 20\nGot: 99"}
	if got := Eval(program, doc, subject); !slices.Equal(got, want) {
		t.Fatalf("Eval() failures = %q, want %q", got, want)
	}
}
