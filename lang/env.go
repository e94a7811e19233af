package lang

import "github.com/sergev/minijs/parser"

// Frame holds the runtime storage for one activation of a parser.Scope.
// Slot i stores the value of the scope's i-th binding. Frames link to the
// frame of the enclosing scope, mirroring the lexical chain the parser
// resolved against.
type Frame struct {
	parent *Frame
	scope  *parser.Scope
	cells  []Value
}

// NewFrame creates a frame for scope with optional parent.
func NewFrame(scope *parser.Scope, parent *Frame) *Frame {
	return &Frame{
		parent: parent,
		scope:  scope,
		cells:  make([]Value, scope.Len()),
	}
}

// up walks hops frames outwards.
func (f *Frame) up(hops int) *Frame {
	cur := f
	for i := 0; i < hops; i++ {
		cur = cur.parent
	}
	return cur
}

// Get returns the value of v, declared hops frames above f.
func (f *Frame) Get(v *parser.Variable, hops int) Value {
	target := f.up(hops)
	if v.Index >= len(target.cells) {
		return Undefined
	}
	return target.cells[v.Index]
}

// Set stores val into v, declared hops frames above f. It does not check
// constness.
func (f *Frame) Set(v *parser.Variable, hops int, val Value) {
	target := f.up(hops)
	target.sync()
	target.cells[v.Index] = val
}

// sync grows the frame to cover bindings declared since it was created.
// Only the global frame of a REPL session ever needs it.
func (f *Frame) sync() {
	if n := f.scope.Len(); n > len(f.cells) {
		cells := make([]Value, n)
		copy(cells, f.cells)
		f.cells = cells
	}
}
