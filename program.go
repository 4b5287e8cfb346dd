package jsonwalk

// Value is a decoded JSON document node: nil, bool, float64, string,
// []any or map[string]any.
type Value = any

// Predicate checks a document node. A nil return accepts the node; a
// non-nil error carries the diagnostic appended to the failure message.
type Predicate func(Value) error

// Program is an immutable tree of traversal and assertion steps over a
// document and a host value of shape S. The type parameter ties each
// step's projection to the continuation consuming its output, so
// shape-mismatched chains fail to compile instead of misbehaving at run
// time.
type Program[S any] struct {
	node node
}

// node is the type-erased instruction tree. Host values travel through
// it as any; the generic constructors guarantee the stored functions only
// ever receive the shape they were built against.
type node interface {
	step()
}

type doneNode struct{}

type terminateNode struct{}

type allNode struct {
	programs []node
}

type keyNode struct {
	name    string
	project func(any) any
	cont    func(any) node
}

type indexNode struct {
	position int
	project  func(any) any
	cont     func(any) node
}

type assertNode struct {
	predicate Predicate
	next      node
}

func (doneNode) step()      {}
func (terminateNode) step() {}
func (allNode) step()       {}
func (keyNode) step()       {}
func (indexNode) step()     {}
func (assertNode) step()    {}

// Done returns the empty program: no more steps, no failures.
func Done[S any]() Program[S] {
	return Program[S]{node: doneNode{}}
}

// Terminate returns a program that halts its branch deliberately, e.g.
// to confirm a position exists without asserting its content.
func Terminate[S any]() Program[S] {
	return Program[S]{node: terminateNode{}}
}

// All combines independent programs over the same starting point. Every
// branch runs against the same document node and host value; failures
// concatenate in argument order and never suppress each other.
func All[S any](programs ...Program[S]) Program[S] {
	nodes := make([]node, len(programs))
	for i, program := range programs {
		nodes[i] = program.node
	}

	return Program[S]{node: allNode{programs: nodes}}
}

// Key descends into the object field name. The document side must be an
// object containing the field; the host side becomes project(host) and
// is handed to cont, which yields the rest of the program.
func Key[S, A any](name string, project func(S) A, cont func(A) Program[A]) Program[S] {
	return Program[S]{node: keyNode{
		name:    name,
		project: eraseProject(project),
		cont:    eraseCont(cont),
	}}
}

// Nth descends into the array element at position, counting from zero.
// Projection and continuation behave as in Key.
func Nth[S, A any](position int, project func(S) A, cont func(A) Program[A]) Program[S] {
	return Program[S]{node: indexNode{
		position: position,
		project:  eraseProject(project),
		cont:     eraseCont(cont),
	}}
}

// AssertWith checks the current document node with predicate and, when
// it passes, continues with next. A failing predicate stops the branch.
func AssertWith[S any](predicate Predicate, next Program[S]) Program[S] {
	return Program[S]{node: assertNode{predicate: predicate, next: next.node}}
}

// AssertEqualTo asserts that the current document node equals the
// encoding of expected, then continues with next. The expected value is
// encoded once, here, never per run.
func AssertEqualTo[S any](expected S, next Program[S]) Program[S] {
	return AssertWith(EqualTo(expected), next)
}

// Finalize rewrites every Done leaf into an explicit Terminate so all
// branches end deliberately. It never changes the failures a program
// reports.
func Finalize[S any](p Program[S]) Program[S] {
	return Program[S]{node: finalize(p.node)}
}

func finalize(n node) node {
	switch s := n.(type) {
	case doneNode:
		return terminateNode{}
	case terminateNode:
		return s
	case allNode:
		programs := make([]node, len(s.programs))
		for i, child := range s.programs {
			programs[i] = finalize(child)
		}
		return allNode{programs: programs}
	case keyNode:
		cont := s.cont
		return keyNode{
			name:    s.name,
			project: s.project,
			cont:    func(v any) node { return finalize(cont(v)) },
		}
	case indexNode:
		cont := s.cont
		return indexNode{
			position: s.position,
			project:  s.project,
			cont:     func(v any) node { return finalize(cont(v)) },
		}
	case assertNode:
		return assertNode{predicate: s.predicate, next: finalize(s.next)}
	default:
		return n
	}
}

// Hosts reach the erased functions as any. A nil interface is a legal
// host whenever the shape is an interface type, so the assertions use
// the comma-ok form and pass nil through as the shape's zero value.
func eraseProject[S, A any](project func(S) A) func(any) any {
	return func(v any) any {
		s, _ := v.(S)
		return project(s)
	}
}

func eraseCont[A any](cont func(A) Program[A]) func(any) node {
	return func(v any) node {
		a, _ := v.(A)
		return cont(a).node
	}
}
