package parser

// ParamsName is the single formal parameter every function receives. The
// caller packs all actual arguments into one list bound to it.
const ParamsName = "params"

// ConsoleName is the predeclared global constant holding the native functions.
const ConsoleName = "console"

// Variable is the binding cell descriptor for one declared name. Every AST
// node that mentions the name within its lexical scope shares the same
// *Variable; runtime storage lives at Index in the frame built for Scope.
type Variable struct {
	Name  string
	Const bool
	Index int
	Scope *Scope
}

// Scope maps names to bindings and links to its lexical parent.
type Scope struct {
	parent *Scope
	depth  int
	names  map[string]*Variable
	vars   []*Variable
}

// NewScope creates a scope nested in parent (which may be nil).
func NewScope(parent *Scope) *Scope {
	s := &Scope{
		parent: parent,
		names:  make(map[string]*Variable),
	}
	if parent != nil {
		s.depth = parent.depth + 1
	}
	return s
}

// NewGlobalScope creates a root scope with the console object predeclared.
func NewGlobalScope() *Scope {
	s := NewScope(nil)
	s.Declare(ConsoleName, true)
	return s
}

// Parent returns the enclosing scope, or nil for the root.
func (s *Scope) Parent() *Scope { return s.parent }

// Depth is the number of scopes between s and the root.
func (s *Scope) Depth() int { return s.depth }

// Len is the number of slots a frame for this scope needs.
func (s *Scope) Len() int { return len(s.vars) }

// Declare creates a new binding. Redeclaring a name shadows the earlier
// binding for every later reference.
func (s *Scope) Declare(name string, constant bool) *Variable {
	v := &Variable{
		Name:  name,
		Const: constant,
		Index: len(s.vars),
		Scope: s,
	}
	s.vars = append(s.vars, v)
	s.names[name] = v
	return v
}

// Truncate drops every binding declared after the first n, restoring the
// name table to what it was at that point. A REPL uses it to discard the
// declarations of an input that failed to parse.
func (s *Scope) Truncate(n int) {
	if n < 0 || n >= len(s.vars) {
		return
	}
	s.vars = s.vars[:n]
	s.names = make(map[string]*Variable, n)
	for _, v := range s.vars {
		s.names[v.Name] = v
	}
}

// Lookup finds name in s or its ancestors.
func (s *Scope) Lookup(name string) (*Variable, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.names[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Resolver tracks the innermost scope while one program is parsed.
type Resolver struct {
	current *Scope
}

// NewResolver starts resolution in root.
func NewResolver(root *Scope) *Resolver {
	return &Resolver{current: root}
}

// Current returns the innermost scope.
func (r *Resolver) Current() *Scope { return r.current }

// Declare binds name in the innermost scope.
func (r *Resolver) Declare(name string, constant bool) *Variable {
	return r.current.Declare(name, constant)
}

// Resolve looks name up from the innermost scope outwards and returns the
// binding together with the number of scopes crossed to reach it.
func (r *Resolver) Resolve(name string) (*Variable, int, bool) {
	v, ok := r.current.Lookup(name)
	if !ok {
		return nil, 0, false
	}
	return v, r.current.depth - v.Scope.depth, true
}

// Push enters a new child scope.
func (r *Resolver) Push() *Scope {
	r.current = NewScope(r.current)
	return r.current
}

// Within runs fn inside a fresh child scope and always leaves it again.
func (r *Resolver) Within(fn func(*Scope) error) error {
	old := r.current
	defer func() { r.current = old }()
	return fn(r.Push())
}
