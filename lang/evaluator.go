package lang

import (
	"fmt"
	"math"

	"github.com/sergev/minijs/parser"
)

// DefaultMaxDepth bounds nested function calls.
const DefaultMaxDepth = 10000

// Interpreter walks parsed programs. One interpreter owns one global scope;
// successive programs parsed through it share top-level bindings.
type Interpreter struct {
	global   *parser.Scope
	globals  *Frame
	console  Console
	maxDepth int
	depth    int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithMaxDepth sets the maximum call depth; n <= 0 keeps the default.
func WithMaxDepth(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.maxDepth = n
		}
	}
}

// NewInterpreter constructs an interpreter whose native operations use
// console for I/O.
func NewInterpreter(console Console, opts ...Option) *Interpreter {
	global := parser.NewGlobalScope()
	in := &Interpreter{
		global:   global,
		globals:  NewFrame(global, nil),
		console:  console,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(in)
	}
	consoleVar, _ := global.Lookup(parser.ConsoleName)
	in.globals.Set(consoleVar, 0, newConsoleObject())
	return in
}

// Global returns the global scope new programs are parsed into.
func (in *Interpreter) Global() *parser.Scope {
	return in.global
}

// Globals returns the frame holding top-level bindings.
func (in *Interpreter) Globals() *Frame {
	return in.globals
}

// Parse parses src against the global scope. On failure the top-level
// declarations of src are discarded.
func (in *Interpreter) Parse(src string) (*parser.BlockCmd, error) {
	mark := in.global.Len()
	prog, err := parser.ParseString(src, in.global)
	if err != nil {
		in.global.Truncate(mark)
		return nil, err
	}
	in.globals.sync()
	return prog, nil
}

// Execute runs a parsed program in the global frame. When the last command
// is a bare expression its value is returned, otherwise undefined.
func (in *Interpreter) Execute(prog *parser.BlockCmd) (Value, error) {
	in.globals.sync()
	result := Undefined
	for _, cmd := range prog.Cmds {
		result = Undefined
		if stmt, ok := cmd.(*parser.AssignCmd); ok && stmt.Target == nil {
			val, err := in.Eval(stmt.Expr, in.globals)
			if err != nil {
				return Undefined, err
			}
			result = val
			continue
		}
		if err := in.Exec(cmd, in.globals); err != nil {
			return Undefined, err
		}
	}
	return result, nil
}

// Run parses and executes src.
func (in *Interpreter) Run(src string) (Value, error) {
	prog, err := in.Parse(src)
	if err != nil {
		return Undefined, err
	}
	return in.Execute(prog)
}

// Eval evaluates a single expression within frame f.
func (in *Interpreter) Eval(expr parser.Expr, f *Frame) (Value, error) {
	switch e := expr.(type) {
	case *parser.ConstExpr:
		return literal(e.Value), nil
	case *parser.VarExpr:
		return f.Get(e.Var, e.Hops), nil
	case *parser.UnaryExpr:
		return in.evalUnary(e, f)
	case *parser.BinaryExpr:
		return in.evalBinary(e, f)
	case *parser.CondExpr:
		return in.evalCond(e, f)
	case *parser.ListExpr:
		items := make([]Value, 0, len(e.Items))
		for _, item := range e.Items {
			val, err := in.Eval(item, f)
			if err != nil {
				return Undefined, err
			}
			items = append(items, val)
		}
		return ListValue(&List{Items: items}), nil
	case *parser.ObjectExpr:
		obj := NewObject()
		for _, item := range e.Items {
			val, err := in.Eval(item.Value, f)
			if err != nil {
				return Undefined, err
			}
			obj.Object().Entries[item.Key] = val
		}
		return obj, nil
	case *parser.AccessExpr:
		loc, err := in.locate(e, f)
		if err != nil {
			return Undefined, err
		}
		return loc.get(), nil
	case *parser.CallExpr:
		return in.evalCall(e, f)
	case *parser.FuncExpr:
		return FunctionValue(&Function{Decl: e, Frame: f}), nil
	default:
		return Undefined, fmt.Errorf("unsupported expression %T", expr)
	}
}

func (in *Interpreter) number(node parser.Node, v Value) (float64, error) {
	n, err := ToNumber(v)
	if err != nil {
		return 0, wrapRuntime(node, err)
	}
	return n, nil
}

func (in *Interpreter) evalUnary(e *parser.UnaryExpr, f *Frame) (Value, error) {
	switch e.Op {
	case parser.OpPreInc, parser.OpPreDec, parser.OpPostInc, parser.OpPostDec:
		return in.evalStep(e, f)
	}
	val, err := in.Eval(e.Operand, f)
	if err != nil {
		return Undefined, err
	}
	if e.Op == parser.OpNot {
		return BoolValue(!IsTruthy(val)), nil
	}
	n, err := in.number(e, val)
	if err != nil {
		return Undefined, err
	}
	if e.Op == parser.OpNeg {
		n = -n
	}
	return NumberValue(n), nil
}

// evalStep implements ++ and --: the target is located once, read, coerced
// to a number and written back.
func (in *Interpreter) evalStep(e *parser.UnaryExpr, f *Frame) (Value, error) {
	loc, err := in.locate(e.Operand.(parser.Assignable), f)
	if err != nil {
		return Undefined, err
	}
	old, err := in.number(e, loc.get())
	if err != nil {
		return Undefined, err
	}
	updated := old + 1
	if e.Op == parser.OpPreDec || e.Op == parser.OpPostDec {
		updated = old - 1
	}
	if err := loc.set(NumberValue(updated)); err != nil {
		return Undefined, err
	}
	if e.Op == parser.OpPostInc || e.Op == parser.OpPostDec {
		return NumberValue(old), nil
	}
	return NumberValue(updated), nil
}

func (in *Interpreter) evalBinary(e *parser.BinaryExpr, f *Frame) (Value, error) {
	left, err := in.Eval(e.Left, f)
	if err != nil {
		return Undefined, err
	}
	right, err := in.Eval(e.Right, f)
	if err != nil {
		return Undefined, err
	}
	switch e.Op {
	case parser.OpAnd:
		return BoolValue(IsTruthy(left) && IsTruthy(right)), nil
	case parser.OpOr:
		return BoolValue(IsTruthy(left) || IsTruthy(right)), nil
	case parser.OpEqual:
		return BoolValue(Equal(left, right)), nil
	case parser.OpNotEqual:
		return BoolValue(!Equal(left, right)), nil
	case parser.OpAdd:
		return Add(left, right), nil
	}
	a, err := in.number(e, left)
	if err != nil {
		return Undefined, err
	}
	b, err := in.number(e, right)
	if err != nil {
		return Undefined, err
	}
	switch e.Op {
	case parser.OpLess:
		return BoolValue(a < b), nil
	case parser.OpLessEqual:
		return BoolValue(a <= b), nil
	case parser.OpGreater:
		return BoolValue(a > b), nil
	case parser.OpGreaterEqual:
		return BoolValue(a >= b), nil
	case parser.OpSub:
		return NumberValue(a - b), nil
	case parser.OpMul:
		return NumberValue(a * b), nil
	case parser.OpDiv:
		return NumberValue(a / b), nil
	default:
		return Undefined, runtimeErrorf(e, "unsupported operator %s", e.Op)
	}
}

// evalCond evaluates all three operands before selecting one.
func (in *Interpreter) evalCond(e *parser.CondExpr, f *Frame) (Value, error) {
	cond, err := in.Eval(e.Cond, f)
	if err != nil {
		return Undefined, err
	}
	then, err := in.Eval(e.Then, f)
	if err != nil {
		return Undefined, err
	}
	otherwise, err := in.Eval(e.Else, f)
	if err != nil {
		return Undefined, err
	}
	if IsTruthy(cond) {
		return then, nil
	}
	return otherwise, nil
}

// location is a resolved assignment target.
type location struct {
	get func() Value
	set func(Value) error
}

func (in *Interpreter) locate(target parser.Assignable, f *Frame) (location, error) {
	switch t := target.(type) {
	case *parser.VarExpr:
		return location{
			get: func() Value { return f.Get(t.Var, t.Hops) },
			set: func(val Value) error { return in.assignVar(t, f, val) },
		}, nil
	case *parser.AccessExpr:
		return in.locateAccess(t, f)
	default:
		return location{}, fmt.Errorf("unsupported assignment target %T", target)
	}
}

func (in *Interpreter) assignVar(t *parser.VarExpr, f *Frame, val Value) error {
	if t.Var.Const {
		return runtimeErrorf(t, "cannot assign to constant %s", t.Var.Name)
	}
	f.Set(t.Var, t.Hops, val)
	return nil
}

func (in *Interpreter) locateAccess(e *parser.AccessExpr, f *Frame) (location, error) {
	base, err := in.Eval(e.Base, f)
	if err != nil {
		return location{}, err
	}
	switch base.Type {
	case TypeObject:
		index, err := in.Eval(e.Index, f)
		if err != nil {
			return location{}, err
		}
		obj, key := base.Object(), ToText(index)
		return location{
			get: func() Value { return obj.Entries[key] },
			set: func(val Value) error {
				obj.Entries[key] = val
				return nil
			},
		}, nil
	case TypeList:
		index, err := in.Eval(e.Index, f)
		if err != nil {
			return location{}, err
		}
		n, err := in.number(e, index)
		if err != nil {
			return location{}, err
		}
		list, pos := base.List(), truncate(n)
		return location{
			get: func() Value {
				if pos < 0 || pos >= len(list.Items) {
					return Undefined
				}
				return list.Items[pos]
			},
			set: func(val Value) error {
				if pos < 0 || pos > len(list.Items) {
					return runtimeErrorf(e, "list index %s out of range [0, %d]", FormatNumber(n), len(list.Items))
				}
				list.Items = append(list.Items, Undefined)
				copy(list.Items[pos+1:], list.Items[pos:])
				list.Items[pos] = val
				return nil
			},
		}, nil
	default:
		return location{}, runtimeErrorf(e, "cannot index %s value", base.Type)
	}
}

// truncate converts n to an int toward zero; values outside the int range
// map to -1 so that they are always out of bounds.
func truncate(n float64) int {
	t := math.Trunc(n)
	if math.IsInf(t, 0) || t > math.MaxInt32 || t < math.MinInt32 {
		return -1
	}
	return int(t)
}

func (in *Interpreter) evalCall(e *parser.CallExpr, f *Frame) (Value, error) {
	callee, err := in.Eval(e.Callee, f)
	if err != nil {
		return Undefined, err
	}
	args := make([]Value, 0, len(e.Args))
	for _, arg := range e.Args {
		val, err := in.Eval(arg, f)
		if err != nil {
			return Undefined, err
		}
		args = append(args, val)
	}
	if callee.Type != TypeFunction {
		return Undefined, runtimeErrorf(e, "cannot call %s value", callee.Type)
	}
	result, err := in.call(callee.Function(), &List{Items: args})
	if err != nil {
		return Undefined, wrapRuntime(e, err)
	}
	return result, nil
}

// Call invokes fn with args packed into a single list.
func (in *Interpreter) Call(fn Value, args ...Value) (Value, error) {
	if fn.Type != TypeFunction {
		return Undefined, fmt.Errorf("cannot call %s value", fn.Type)
	}
	items := make([]Value, len(args))
	copy(items, args)
	return in.call(fn.Function(), &List{Items: items})
}

func (in *Interpreter) call(fn *Function, args *List) (Value, error) {
	if fn.IsNative() {
		return in.callNative(fn.Native, args)
	}
	if in.depth >= in.maxDepth {
		return Undefined, ErrStackOverflow
	}
	in.depth++
	defer func() { in.depth-- }()

	decl := fn.Decl
	frame := NewFrame(decl.Scope, fn.Frame)
	frame.Set(decl.Params, 0, ListValue(args))
	if err := in.Exec(decl.Body, frame); err != nil {
		return Undefined, err
	}
	if decl.Return == nil {
		return Undefined, nil
	}
	return in.Eval(decl.Return, frame)
}
